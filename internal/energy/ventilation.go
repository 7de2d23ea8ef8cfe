package energy

import (
	"fmt"

	"energy_audit_backend/platform/apperr"
)

// Air heat capacity per EN ISO 13789, W*h/(m3*K).
const airHeatCapacity = 0.34

// MinMechanicalRate is the hygienic minimum mechanical air-change rate.
const MinMechanicalRate = 0.5 // h^-1

// DefaultN50 returns the age-based airtightness default when no blower-door
// result is available. Buildings from 2011-2020 get 1.5 h^-1, 2010 and
// older 2.0 h^-1, anything outside the table 3.0 h^-1.
func DefaultN50(constructionYear int) float64 {
	switch {
	case constructionYear > 0 && constructionYear <= 2010:
		return 2.0
	case constructionYear > 2010 && constructionYear <= 2020:
		return 1.5
	default:
		return 3.0
	}
}

// Ventilation describes the air-change situation of a building.
type Ventilation struct {
	Volume float64 `json:"volume"` // heated volume, m3
	// MeasuredN50 is the blower-door test result in h^-1. Zero means
	// untested; the age-based default then applies.
	MeasuredN50      float64 `json:"measuredN50,omitempty"`
	ConstructionYear int     `json:"constructionYear,omitempty"`
	// MechanicalRate is the designed mechanical air-change rate in h^-1.
	// The hygienic minimum of 0.5 h^-1 is enforced on top of it.
	MechanicalRate float64 `json:"mechanicalRate,omitempty"`
	// HeatRecovery is the heat-recovery efficiency as a fraction [0, 1].
	// It discounts only the mechanical fraction of the air change; leakage
	// bypasses the heat exchanger.
	HeatRecovery float64 `json:"heatRecovery,omitempty"`
}

// InfiltrationRate converts airtightness to the design infiltration
// air-change rate: n_inf = n50 / 50 per EN ISO 13789.
func (v Ventilation) InfiltrationRate() float64 {
	n50 := v.MeasuredN50
	if n50 <= 0 {
		n50 = DefaultN50(v.ConstructionYear)
	}
	return n50 / 50.0
}

// LossCoefficient returns the ventilation heat-loss coefficient
// H_v = 0.34 * n * V in W/K, where n combines infiltration with the
// heat-recovery-discounted mechanical rate.
func (v Ventilation) LossCoefficient() (float64, error) {
	if v.Volume <= 0 {
		return 0, apperr.Validation(fmt.Sprintf("building volume must be positive, got %g", v.Volume))
	}
	if v.HeatRecovery < 0 || v.HeatRecovery > 1 {
		return 0, apperr.Validation(fmt.Sprintf("heat-recovery efficiency must be in [0, 1], got %g", v.HeatRecovery))
	}
	if v.MechanicalRate < 0 || v.MeasuredN50 < 0 {
		return 0, apperr.Validation("air-change rates must not be negative")
	}

	mech := v.MechanicalRate
	if mech < MinMechanicalRate {
		mech = MinMechanicalRate
	}

	effective := v.InfiltrationRate() + mech*(1-v.HeatRecovery)
	return airHeatCapacity * effective * v.Volume, nil
}
