package search

import "math"

// Criteria bundles every optional filter bound and substance matcher. Start
// from DefaultCriteria so unset numeric bounds impose no constraint; string
// matchers are unset when empty, SpeciesTag when zero, Temperature when not
// positive, and DegreesOfFreedom when nil.
//
// Frequencies are MHz, intensities log10(nm²·MHz), temperature kelvins.
// All string matchers are case-insensitive substring matches.
type Criteria struct {
	MinFrequency float64
	MaxFrequency float64
	MinIntensity float64
	MaxIntensity float64

	// Temperature requests rescaling of every line intensity from the
	// 300 K catalog reference before the intensity bounds apply.
	Temperature float64

	// AnyName matches the trivial name or the name; AnyFormula matches the
	// structural formula, molecule symbol, stoichiometric formula, or
	// isotopolog; AnyNameOrFormula matches any of those six fields.
	AnyName          string
	AnyFormula       string
	AnyNameOrFormula string

	SpeciesTag            int
	InChI                 string
	TrivialName           string
	StructuralFormula     string
	Name                  string
	StoichiometricFormula string
	Isotopolog            string
	// State matches the isotopolog or the HTML state label.
	State            string
	DegreesOfFreedom *int
}

// DefaultCriteria returns criteria with every bound unconstrained.
func DefaultCriteria() Criteria {
	return Criteria{
		MinFrequency: math.Inf(-1),
		MaxFrequency: math.Inf(1),
		MinIntensity: math.Inf(-1),
		MaxIntensity: math.Inf(1),
	}
}

func (c Criteria) temperatureSet() bool {
	return c.Temperature > 0
}

func (c Criteria) hasSubstanceConstraints() bool {
	return c.SpeciesTag != 0 ||
		c.InChI != "" ||
		c.TrivialName != "" ||
		c.StructuralFormula != "" ||
		c.Name != "" ||
		c.StoichiometricFormula != "" ||
		c.Isotopolog != "" ||
		c.State != "" ||
		c.DegreesOfFreedom != nil ||
		c.AnyName != "" ||
		c.AnyFormula != "" ||
		c.AnyNameOrFormula != ""
}
