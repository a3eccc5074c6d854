// Package units provides frequency, energy, and intensity conversions for
// spectroscopy catalog data, along with the physical constants they rely on.
package units

import "math"

// CODATA 2018 values, https://physics.nist.gov/cuu/Constants/.
const (
	Boltzmann  = 1.380649e-23    // J/K
	Planck     = 6.62607015e-34  // J·s
	LightSpeed = 299792458.0     // m/s
	ElemCharge = 1.602176634e-19 // C
)

// ReferenceTemperature is the temperature the JPL and CDMS catalogs list
// line intensities at, in kelvins.
const ReferenceTemperature = 300.00

// Log10E is log10(e), the factor between natural and decimal logarithms.
var Log10E = math.Log10(math.E)

// Frequency conversions. Catalog frequencies are megahertz.

func MHzToGHz(f float64) float64 { return f * 1e-3 }

func MHzToRecCm(f float64) float64 { return f * 1e4 / LightSpeed }

func MHzToNm(f float64) float64 { return LightSpeed / f * 1e3 }

func GHzToMHz(f float64) float64 { return f * 1e3 }

func GHzToRecCm(f float64) float64 { return f * 1e7 / LightSpeed }

func GHzToNm(f float64) float64 { return LightSpeed / f }

func RecCmToMHz(f float64) float64 { return f * 1e-4 * LightSpeed }

func RecCmToGHz(f float64) float64 { return f * 1e-7 * LightSpeed }

func RecCmToNm(f float64) float64 { return 1e7 / f }

func NmToMHz(f float64) float64 { return LightSpeed / f * 1e-3 }

func NmToGHz(f float64) float64 { return LightSpeed / f }

func NmToRecCm(f float64) float64 { return 1e7 / f }

// Energy conversions. Catalog lower-state energies are reciprocal centimeters.

func RecCmToMeV(e float64) float64 { return 1e5 * Planck * LightSpeed / ElemCharge * e }

func RecCmToJoule(e float64) float64 { return 1e2 * Planck * LightSpeed * e }

func MeVToRecCm(e float64) float64 { return 1e-5 * ElemCharge / Planck / LightSpeed * e }

func JouleToRecCm(e float64) float64 { return 1e-2 / Planck / LightSpeed * e }

// Intensity conversions. Catalog intensities are log10(nm²·MHz).

func Log10SqNmMHzToSqNmMHz(i float64) float64 { return math.Pow(10.0, i) }

func Log10SqNmMHzToLog10CmPerMolecule(i float64) float64 {
	return -10.0 + i - math.Log10(LightSpeed)
}

func Log10SqNmMHzToCmPerMolecule(i float64) float64 {
	return math.Pow(10.0, Log10SqNmMHzToLog10CmPerMolecule(i))
}

func SqNmMHzToLog10SqNmMHz(i float64) float64 {
	if i == 0.0 {
		return math.Inf(-1)
	}
	if i < 0.0 {
		return math.NaN()
	}
	return math.Log10(i)
}

func Log10CmPerMoleculeToLog10SqNmMHz(i float64) float64 {
	return i + 10.0 + math.Log10(LightSpeed)
}

func CmPerMoleculeToLog10SqNmMHz(i float64) float64 {
	if i == 0.0 {
		return math.Inf(-1)
	}
	if i < 0.0 {
		return math.NaN()
	}
	return Log10CmPerMoleculeToLog10SqNmMHz(math.Log10(i))
}
