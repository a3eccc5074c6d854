package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"catsearch/internal/units"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var catalogFiles []string
	var unitFlag string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Summarize the loaded catalog files",
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

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(store.Sources()))
			for _, source := range store.Sources() {
				built := ""
				if !source.BuildTime.IsZero() {
					built = source.BuildTime.UTC().Format(time.RFC3339)
				}
				rows = append(rows, []string{source.Filename, built})
			}
			headers := []string{"Catalog file", "Built"}
			if stdoutIsTerminal() {
				fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft}))
			} else {
				fmt.Fprintln(out, renderPlain(headers, rows))
			}

			fmt.Fprintf(out, "Substances: %d\n", store.Len())
			fmt.Fprintf(out, "Lines:      %d\n", store.LineCount())
			lo, hi := store.FrequencyLimits()
			if !math.IsInf(lo, 1) {
				fmt.Fprintf(out, "Frequency:  %s to %s %s\n",
					strconv.FormatFloat(unit.FromMHz(lo), 'f', 4, 64),
					strconv.FormatFloat(unit.FromMHz(hi), 'f', 4, 64),
					string(unit))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&catalogFiles, "catalog", nil, "Catalog file to inspect (repeatable, overrides config)")
	cmd.Flags().StringVarP(&unitFlag, "frequency-unit", "u", "", "Frequency unit: MHz, GHz, 1/cm, or nm")
	return cmd
}
