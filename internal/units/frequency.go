package units

import (
	"fmt"
	"strings"
)

// FrequencyUnit names a display unit for catalog frequencies.
type FrequencyUnit string

const (
	UnitMHz   FrequencyUnit = "MHz"
	UnitGHz   FrequencyUnit = "GHz"
	UnitRecCm FrequencyUnit = "1/cm"
	UnitNm    FrequencyUnit = "nm"
)

// ParseFrequencyUnit resolves a user-supplied unit name, case-insensitively
// and with the common spellings of reciprocal centimeters accepted.
func ParseFrequencyUnit(name string) (FrequencyUnit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mhz", "":
		return UnitMHz, nil
	case "ghz":
		return UnitGHz, nil
	case "1/cm", "cm-1", "cm⁻¹", "rec. cm", "rec cm":
		return UnitRecCm, nil
	case "nm":
		return UnitNm, nil
	}
	return "", fmt.Errorf("unknown frequency unit %q (use MHz, GHz, 1/cm, or nm)", name)
}

// FromMHz converts a catalog frequency into the unit.
func (u FrequencyUnit) FromMHz(f float64) float64 {
	switch u {
	case UnitGHz:
		return MHzToGHz(f)
	case UnitRecCm:
		return MHzToRecCm(f)
	case UnitNm:
		return MHzToNm(f)
	default:
		return f
	}
}

// ToMHz converts a frequency in the unit back to megahertz.
func (u FrequencyUnit) ToMHz(f float64) float64 {
	switch u {
	case UnitGHz:
		return GHzToMHz(f)
	case UnitRecCm:
		return RecCmToMHz(f)
	case UnitNm:
		return NmToMHz(f)
	default:
		return f
	}
}
