package units_test

import (
	"math"
	"testing"

	"catsearch/internal/units"
)

func approx(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("got %g, want %g (tolerance %g)", got, want, tol)
	}
}

func TestFrequencyRoundTrips(t *testing.T) {
	const f = 115271.2018 // CO J=1-0, MHz
	approx(t, units.GHzToMHz(units.MHzToGHz(f)), f, 1e-9)
	approx(t, units.RecCmToMHz(units.MHzToRecCm(f)), f, 1e-6)
	approx(t, units.NmToMHz(units.MHzToNm(f)), f, 1e-6)
}

func TestKnownFrequencyValues(t *testing.T) {
	// 1 cm⁻¹ is 29979.2458 MHz.
	approx(t, units.RecCmToMHz(1.0), 29979.2458, 1e-4)
	approx(t, units.MHzToRecCm(29979.2458), 1.0, 1e-9)
}

func TestEnergyRoundTrips(t *testing.T) {
	const e = 5174.7303 // cm⁻¹
	approx(t, units.MeVToRecCm(units.RecCmToMeV(e)), e, 1e-6)
	approx(t, units.JouleToRecCm(units.RecCmToJoule(e)), e, 1e-6)
}

func TestIntensityConversions(t *testing.T) {
	const i = -5.0
	approx(t, units.Log10CmPerMoleculeToLog10SqNmMHz(units.Log10SqNmMHzToLog10CmPerMolecule(i)), i, 1e-12)
	if !math.IsInf(units.SqNmMHzToLog10SqNmMHz(0), -1) {
		t.Fatal("zero intensity should map to -Inf")
	}
	if !math.IsNaN(units.SqNmMHzToLog10SqNmMHz(-1)) {
		t.Fatal("negative intensity should map to NaN")
	}
	approx(t, units.Log10SqNmMHzToSqNmMHz(2), 100, 1e-9)
}
