package classify

import (
	"fmt"
	"math"

	"energy_audit_backend/platform/apperr"
)

// BuildingSubtype selects the class-threshold table. Single-family homes
// and other residential buildings are certified against different scales.
type BuildingSubtype string

const (
	SingleFamily     BuildingSubtype = "single_family"
	OtherResidential BuildingSubtype = "other_residential"
)

// ClassBand is one letter class with its specific-primary-energy ceiling
// in kWh/m2 per year. A value classifies into the first band whose ceiling
// it does not exceed.
type ClassBand struct {
	Class   string  `json:"class" yaml:"class"`
	Ceiling float64 `json:"ceiling" yaml:"ceiling"`
}

// ClassTable is the ordered band list of one building subtype plus the
// class assigned when every ceiling is exceeded.
type ClassTable struct {
	Bands []ClassBand `json:"bands" yaml:"bands"`
	Worst string      `json:"worst" yaml:"worst"`
}

// Validate requires a non-empty table with strictly ascending ceilings;
// an out-of-order table would break classification monotonicity.
func (t ClassTable) Validate() error {
	if len(t.Bands) == 0 {
		return apperr.Incomplete("class table has no bands", []string{"bands"})
	}
	if t.Worst == "" {
		return apperr.Incomplete("class table has no worst class", []string{"worst"})
	}
	prev := math.Inf(-1)
	for _, b := range t.Bands {
		if b.Class == "" {
			return apperr.Validation("class band without a class letter")
		}
		if b.Ceiling <= prev {
			return apperr.Validation(fmt.Sprintf("class ceilings must ascend strictly: %s at %g", b.Class, b.Ceiling))
		}
		prev = b.Ceiling
	}
	return nil
}

// Classify maps a specific primary energy (kWh/m2 per year) to a letter
// class. The function is total over the real line: any value below the
// first ceiling gets the best class, anything beyond the last ceiling
// (NaN included) gets the worst.
func (t ClassTable) Classify(specificPrimaryEnergy float64) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if math.IsNaN(specificPrimaryEnergy) {
		return t.Worst, nil
	}
	for _, b := range t.Bands {
		if specificPrimaryEnergy <= b.Ceiling {
			return b.Class, nil
		}
	}
	return t.Worst, nil
}

// ClassTableSet holds one table per building subtype.
type ClassTableSet map[BuildingSubtype]ClassTable

// Classify selects the subtype's table and classifies. Unknown subtypes
// are rejected rather than silently mapped to a default scale.
func (s ClassTableSet) Classify(subtype BuildingSubtype, specificPrimaryEnergy float64) (string, error) {
	table, ok := s[subtype]
	if !ok {
		return "", apperr.Validation(fmt.Sprintf("no class table for building subtype %q", subtype))
	}
	return table.Classify(specificPrimaryEnergy)
}
