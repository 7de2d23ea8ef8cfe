// Package energy implements the heat-balance side of the audit engine:
// envelope and ventilation loss coefficients, internal and solar gains,
// and the simplified monthly method of EN ISO 13790.
package energy

import (
	"fmt"

	"energy_audit_backend/internal/thermal"
	"energy_audit_backend/platform/apperr"
)

// Warning is a soft finding returned alongside a valid result. Warnings
// never fail a calculation; they feed the data-quality assessment.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the building's complete thermal boundary.
type Envelope struct {
	Constructions []thermal.Construction `json:"constructions"`
	// GrossArea is the declared gross envelope area in m2. Zero means
	// not declared; the area consistency check is then skipped.
	GrossArea float64 `json:"grossArea,omitempty"`
}

// TotalArea returns the summed element area in m2.
func (e Envelope) TotalArea() float64 {
	var total float64
	for _, c := range e.Constructions {
		total += c.Area
	}
	return total
}

// HeatCapacity returns the summed areal heat capacity times area, J/K.
func (e Envelope) HeatCapacity() float64 {
	var total float64
	for _, c := range e.Constructions {
		total += c.HeatCapacity() * c.Area
	}
	return total
}

// TransmissionCoefficient aggregates transmission losses over the whole
// envelope: H_tr = sum(effectiveU * area) in W/K, thermal bridges included
// via the effective U-values. An envelope with no constructions is not
// physically meaningful and is rejected.
//
// When element areas exceed the declared gross area the mismatch is a
// warning, not an error: gross areas from drawings routinely disagree with
// summed element areas.
func (e Envelope) TransmissionCoefficient() (float64, []Warning, error) {
	if len(e.Constructions) == 0 {
		return 0, nil, apperr.Incomplete("envelope has no constructions", []string{"constructions"})
	}

	var coeff float64
	for _, c := range e.Constructions {
		u, err := c.EffectiveUValue()
		if err != nil {
			return 0, nil, err
		}
		coeff += u * c.Area
	}

	var warnings []Warning
	if e.GrossArea > 0 && e.TotalArea() > e.GrossArea {
		warnings = append(warnings, Warning{
			Code: "envelope_area_mismatch",
			Message: fmt.Sprintf("element areas sum to %.1f m2, more than the declared gross envelope area %.1f m2",
				e.TotalArea(), e.GrossArea),
		})
	}
	return coeff, warnings, nil
}
