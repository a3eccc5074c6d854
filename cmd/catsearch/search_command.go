package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"catsearch/internal/catalog"
	"catsearch/internal/search"
	"catsearch/internal/units"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		catalogFiles []string
		unitFlag     string
		limit        int

		minFrequency float64
		maxFrequency float64
		minIntensity float64
		maxIntensity float64
		temperature  float64

		anyName    string
		anyFormula string
		anything   string

		speciesTag            int
		inchi                 string
		trivialName           string
		structuralFormula     string
		name                  string
		stoichiometricFormula string
		isotopolog            string
		state                 string
		degreesOfFreedom      int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter the catalog by frequency, intensity, and substance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if unitFlag == "" {
				unitFlag = cfg.Search.FrequencyUnit
			}
			unit, err := units.ParseFrequencyUnit(unitFlag)
			if err != nil {
				return err
			}

			store, err := ctx.loadStore(catalogFiles)
			if err != nil {
				return err
			}

			criteria := search.DefaultCriteria()
			if cmd.Flags().Changed("min-frequency") {
				criteria.MinFrequency = unit.ToMHz(minFrequency)
			}
			if cmd.Flags().Changed("max-frequency") {
				criteria.MaxFrequency = unit.ToMHz(maxFrequency)
			}
			if cmd.Flags().Changed("min-intensity") {
				criteria.MinIntensity = minIntensity
			}
			if cmd.Flags().Changed("max-intensity") {
				criteria.MaxIntensity = maxIntensity
			}
			if cmd.Flags().Changed("temperature") {
				criteria.Temperature = temperature
			} else {
				criteria.Temperature = cfg.Search.Temperature
			}
			criteria.AnyName = anyName
			criteria.AnyFormula = anyFormula
			criteria.AnyNameOrFormula = anything
			criteria.SpeciesTag = speciesTag
			criteria.InChI = inchi
			criteria.TrivialName = trivialName
			criteria.StructuralFormula = structuralFormula
			criteria.Name = name
			criteria.StoichiometricFormula = stoichiometricFormula
			criteria.Isotopolog = isotopolog
			criteria.State = state
			if cmd.Flags().Changed("degrees-of-freedom") {
				dof := degreesOfFreedom
				criteria.DegreesOfFreedom = &dof
			}

			matches := search.Filter(store, criteria)
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No lines matched.")
				return nil
			}
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}

			headers := []string{
				"Tag",
				"Substance",
				"Frequency, " + string(unit),
				"Intensity, lg",
				"Lower state energy, 1/cm",
			}
			rows := make([][]string, 0, len(matches))
			for _, match := range matches {
				rows = append(rows, []string{
					strconv.Itoa(match.Entry.SpeciesTag),
					catalog.DisplayName(match.Entry),
					formatFloat(unit.FromMHz(match.Line.Frequency), 4),
					formatFloat(match.Intensity, 4),
					formatFloat(match.Line.LowerStateEnergy, 4),
				})
			}

			out := cmd.OutOrStdout()
			if stdoutIsTerminal() {
				fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{
					alignRight, alignLeft, alignRight, alignRight, alignRight,
				}))
			} else {
				fmt.Fprintln(out, renderPlain(headers, rows))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&catalogFiles, "catalog", nil, "Catalog file to search (repeatable, overrides config)")
	flags.StringVarP(&unitFlag, "frequency-unit", "u", "", "Frequency unit: MHz, GHz, 1/cm, or nm")
	flags.IntVarP(&limit, "limit", "n", 0, "Show at most this many lines (0 = all)")

	flags.Float64Var(&minFrequency, "min-frequency", math.Inf(-1), "Lowest frequency to include")
	flags.Float64Var(&maxFrequency, "max-frequency", math.Inf(1), "Highest frequency to include")
	flags.Float64Var(&minIntensity, "min-intensity", math.Inf(-1), "Lowest lg intensity to include")
	flags.Float64Var(&maxIntensity, "max-intensity", math.Inf(1), "Highest lg intensity to include")
	flags.Float64VarP(&temperature, "temperature", "T", 0, "Rescale intensities to this temperature, K")

	flags.StringVar(&anyName, "any-name", "", "Match the name or trivial name")
	flags.StringVar(&anyFormula, "any-formula", "", "Match any formula field or the isotopolog")
	flags.StringVar(&anything, "anything", "", "Match any name or formula field")

	flags.IntVar(&speciesTag, "tag", 0, "Exact species tag")
	flags.StringVar(&inchi, "inchi", "", "Match the InChI key")
	flags.StringVar(&trivialName, "trivial-name", "", "Match the trivial name")
	flags.StringVar(&structuralFormula, "structural-formula", "", "Match the structural formula")
	flags.StringVar(&name, "name", "", "Match the name")
	flags.StringVar(&stoichiometricFormula, "stoichiometric-formula", "", "Match the stoichiometric formula")
	flags.StringVar(&isotopolog, "isotopolog", "", "Match the isotopolog")
	flags.StringVar(&state, "state", "", "Match the isotopolog or state label")
	flags.IntVar(&degreesOfFreedom, "degrees-of-freedom", 0, "Exact degrees of freedom (0, 2, or 3)")

	return cmd
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
