package catalog

import (
	"math"
	"sort"
	"strconv"

	"catsearch/internal/units"
)

// Line is one spectral line as cataloged. Frequency is in MHz, Intensity in
// log10(nm²·MHz) at the 300 K reference temperature, LowerStateEnergy in
// cm⁻¹ relative to the ground state. Lines are immutable once parsed.
type Line struct {
	Frequency        float64 `json:"frequency"`
	Intensity        float64 `json:"intensity"`
	LowerStateEnergy float64 `json:"lowerstateenergy"`
}

// PartitionFunction tabulates lg(Q) by temperature. Keys are the decimal
// string form of the temperature in kelvins, matching the persisted JSON
// object keys.
type PartitionFunction map[string]float64

// TemperatureKey formats a temperature the way PartitionFunction keys it.
func TemperatureKey(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}

// Set records lg(Q) at the given temperature.
func (p PartitionFunction) Set(temperature, lgQ float64) {
	p[TemperatureKey(temperature)] = lgQ
}

// pfPoint is one tabulated (temperature, lg Q) pair.
type pfPoint struct {
	temperature float64
	lgQ         float64
}

// points returns the usable table points in ascending temperature order.
// Values are carried alongside their parsed temperature so non-canonical
// keys like "300.0" resolve the same as "300". Unparsable keys are skipped.
func (p PartitionFunction) points() []pfPoint {
	pts := make([]pfPoint, 0, len(p))
	for key, lgQ := range p {
		t, err := strconv.ParseFloat(key, 64)
		if err != nil || t <= 0 {
			continue
		}
		pts = append(pts, pfPoint{temperature: t, lgQ: lgQ})
	}
	sort.Slice(pts, func(i, j int) bool {
		return pts[i].temperature < pts[j].temperature
	})
	return pts
}

// Temperatures returns the tabulated temperatures in ascending order.
// Unparsable keys are skipped.
func (p PartitionFunction) Temperatures() []float64 {
	pts := p.points()
	ts := make([]float64, len(pts))
	for i, pt := range pts {
		ts[i] = pt.temperature
	}
	return ts
}

// LgQ interpolates lg(Q) at the requested temperature: linear in log10(T)
// between the two nearest tabulated points, flat-clamped beyond the table
// edges. The second return is false when the table has no usable points.
func (p PartitionFunction) LgQ(temperature float64) (float64, bool) {
	if temperature <= 0 {
		return 0, false
	}
	pts := p.points()
	if len(pts) == 0 {
		return 0, false
	}
	if temperature <= pts[0].temperature {
		return pts[0].lgQ, true
	}
	if last := pts[len(pts)-1]; temperature >= last.temperature {
		return last.lgQ, true
	}
	hi := sort.Search(len(pts), func(i int) bool {
		return pts[i].temperature >= temperature
	})
	if pts[hi].temperature == temperature {
		return pts[hi].lgQ, true
	}
	lo := hi - 1
	x0, x1 := math.Log10(pts[lo].temperature), math.Log10(pts[hi].temperature)
	x := math.Log10(temperature)
	return pts[lo].lgQ + (pts[hi].lgQ-pts[lo].lgQ)*(x-x0)/(x1-x0), true
}

// Entry is one substance (species or isotopolog) with its spectral lines.
// Lines are ordered by ascending frequency. DegreesOfFreedom is nil when the
// source did not report it; otherwise 0 for atoms, 2 for linear molecules,
// and 3 for nonlinear molecules.
type Entry struct {
	SpeciesTag            int               `json:"speciestag"`
	Name                  string            `json:"name,omitempty"`
	TrivialName           string            `json:"trivialname,omitempty"`
	Isotopolog            string            `json:"isotopolog,omitempty"`
	MoleculeSymbol        string            `json:"moleculesymbol,omitempty"`
	StructuralFormula     string            `json:"structuralformula,omitempty"`
	StoichiometricFormula string            `json:"stoichiometricformula,omitempty"`
	InChIKey              string            `json:"inchikey,omitempty"`
	StateHTML             string            `json:"state_html,omitempty"`
	StateTex              string            `json:"state_tex,omitempty"`
	DegreesOfFreedom      *int              `json:"degrees_of_freedom"`
	LowerStateEnergy      float64           `json:"lowerstateenergy,omitempty"`
	Version               string            `json:"version,omitempty"`
	Contributor           string            `json:"contributor,omitempty"`
	DateOfEntry           string            `json:"dateofentry,omitempty"`
	PartitionFunction     PartitionFunction `json:"partitionfunction,omitempty"`
	Lines                 []Line            `json:"lines"`
}

// FrequencyRange reports the lowest and highest line frequency of the entry,
// or (+Inf, -Inf) when it has no lines.
func (e *Entry) FrequencyRange() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, line := range e.Lines {
		if line.Frequency < min {
			min = line.Frequency
		}
		if line.Frequency > max {
			max = line.Frequency
		}
	}
	return min, max
}

// SortLines orders the entry's lines by ascending frequency, breaking ties
// by intensity and lower-state energy so merges stay deterministic.
func (e *Entry) SortLines() {
	sort.SliceStable(e.Lines, func(i, j int) bool {
		a, b := e.Lines[i], e.Lines[j]
		if a.Frequency != b.Frequency {
			return a.Frequency < b.Frequency
		}
		if a.Intensity != b.Intensity {
			return a.Intensity < b.Intensity
		}
		return a.LowerStateEnergy < b.LowerStateEnergy
	})
}

// EffectiveIntensity rescales a cataloged line intensity from the 300 K
// reference to the given temperature. The partition-function table is used
// when it has at least the reference and target points; otherwise the JPL
// rotational approximation (DoF/2 + 1)·log10(T0/T) stands in, and when the
// degrees of freedom are unknown too the cataloged intensity is returned
// unchanged. Temperatures at or below zero, and the reference temperature
// itself, leave the intensity untouched.
func (e *Entry) EffectiveIntensity(line Line, temperature float64) float64 {
	t0 := units.ReferenceTemperature
	if temperature <= 0 || temperature == t0 {
		return line.Intensity
	}
	boltzmann := (1/temperature - 1/t0) * line.LowerStateEnergy * 100.0 *
		units.Planck * units.LightSpeed / units.Boltzmann * units.Log10E
	if lgQT, ok := e.PartitionFunction.LgQ(temperature); ok {
		if lgQ0, ok := e.PartitionFunction.LgQ(t0); ok {
			return line.Intensity + lgQ0 - lgQT - boltzmann
		}
	}
	if e.DegreesOfFreedom == nil || *e.DegreesOfFreedom < 0 {
		return line.Intensity
	}
	dof := float64(*e.DegreesOfFreedom)
	return line.Intensity + (0.5*dof+1.0)*math.Log10(t0/temperature) - boltzmann
}
