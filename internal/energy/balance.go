package energy

import (
	"fmt"
	"math"

	"energy_audit_backend/platform/apperr"
)

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// MonthlyClimate holds the climate tables the solver consumes. Both series
// run January..December; irradiation is global on the collecting plane in
// kWh/m2 per month.
type MonthlyClimate struct {
	Temperatures []float64 `json:"temperatures"` // degC, monthly means
	Irradiations []float64 `json:"irradiations"` // kWh/m2 per month
}

// Validate requires complete 12-month series.
func (c MonthlyClimate) Validate() error {
	var missing []string
	if len(c.Temperatures) != 12 {
		missing = append(missing, fmt.Sprintf("monthly temperatures (%d of 12)", len(c.Temperatures)))
	}
	if len(c.Irradiations) != 12 {
		missing = append(missing, fmt.Sprintf("monthly irradiations (%d of 12)", len(c.Irradiations)))
	}
	if len(missing) > 0 {
		return apperr.Incomplete("incomplete climate data", missing)
	}
	return nil
}

// HeatBalanceInput bundles everything the monthly method needs.
type HeatBalanceInput struct {
	Envelope      Envelope        `json:"envelope"`
	Ventilation   Ventilation     `json:"ventilation"`
	Apertures     []SolarAperture `json:"apertures,omitempty"`
	InternalGains InternalGains   `json:"internalGains"`
	Climate       MonthlyClimate  `json:"climate"`
	// SetPoint is the internal design temperature, degC. Zero selects the
	// 20 degC default.
	SetPoint float64 `json:"setPoint,omitempty"`
}

// MonthResult is the balance of one heating-season month. Month runs 1..12;
// energies are kWh; Utilization is the clamped eta in [0, 1].
type MonthResult struct {
	Month       int     `json:"month"`
	Losses      float64 `json:"losses"`
	SolarGains  float64 `json:"solarGains"`
	InternalQ   float64 `json:"internalQ"`
	Utilization float64 `json:"utilization"`
	HeatingNeed float64 `json:"heatingNeed"`
}

// HeatBalanceResult is the annual outcome of the monthly method. The loss
// coefficients are W/K, the time constant hours, the heating need kWh.
type HeatBalanceResult struct {
	TransmissionCoeff float64       `json:"transmissionCoeff"`
	VentilationCoeff  float64       `json:"ventilationCoeff"`
	TimeConstant      float64       `json:"timeConstant"`
	Months            []MonthResult `json:"months"`
	AnnualHeatingNeed float64       `json:"annualHeatingNeed"`
	Warnings          []Warning     `json:"warnings,omitempty"`
}

// GainUtilization computes the EN ISO 13790 gain-utilization factor for
// the gains/losses ratio gamma and numerical parameter a. The gamma = 1
// singularity has a closed-form value a/(a+1); it is reachable input, not
// an error. The result is clamped to [0, 1].
func GainUtilization(gamma, a float64) float64 {
	var eta float64
	switch {
	case gamma < 0:
		eta = 1
	case gamma == 1:
		eta = a / (a + 1)
	default:
		eta = (1 - math.Pow(gamma, a)) / (1 - math.Pow(gamma, a+1))
	}
	if eta < 0 {
		return 0
	}
	if eta > 1 {
		return 1
	}
	return eta
}

// SolveHeatBalance runs the simplified monthly method of EN ISO 13790.
// Months with a mean exterior temperature at or above the set-point are
// skipped; the rest contribute max(0, losses - eta*gains).
func SolveHeatBalance(in HeatBalanceInput) (HeatBalanceResult, error) {
	if err := in.Climate.Validate(); err != nil {
		return HeatBalanceResult{}, err
	}

	setPoint := in.SetPoint
	if setPoint == 0 {
		setPoint = 20.0
	}

	htr, warnings, err := in.Envelope.TransmissionCoefficient()
	if err != nil {
		return HeatBalanceResult{}, err
	}
	hv, err := in.Ventilation.LossCoefficient()
	if err != nil {
		return HeatBalanceResult{}, err
	}

	// Thermal time constant from envelope mass plus the air volume's own
	// capacity (1200 J/m3K), in hours. The constant is taken over the
	// transmission coefficient alone; ventilation does not shorten it.
	capacity := in.Envelope.HeatCapacity() + 1200.0*in.Ventilation.Volume
	tau := capacity / (htr * 3600.0)
	a := 1 + tau/15.0

	result := HeatBalanceResult{
		TransmissionCoeff: htr,
		VentilationCoeff:  hv,
		TimeConstant:      tau,
		Warnings:          warnings,
	}

	for m := 0; m < 12; m++ {
		tExt := in.Climate.Temperatures[m]
		if tExt >= setPoint {
			continue
		}
		hours := float64(daysInMonth[m]) * 24.0

		losses := (htr + hv) * (setPoint - tExt) * hours / 1000.0

		solar, err := SolarGains(in.Apertures, in.Climate.Irradiations[m])
		if err != nil {
			return HeatBalanceResult{}, err
		}
		internal, err := in.InternalGains.Monthly(daysInMonth[m])
		if err != nil {
			return HeatBalanceResult{}, err
		}
		gains := solar + internal

		var gamma float64
		if losses > 0 {
			gamma = gains / losses
		}
		eta := GainUtilization(gamma, a)

		need := losses - eta*gains
		if need < 0 {
			need = 0
		}

		result.Months = append(result.Months, MonthResult{
			Month:       m + 1,
			Losses:      losses,
			SolarGains:  solar,
			InternalQ:   internal,
			Utilization: eta,
			HeatingNeed: need,
		})
		result.AnnualHeatingNeed += need
	}

	return result, nil
}

// FinalEnergy converts a heating need to delivered energy through the
// heating system's seasonal efficiency. Efficiencies above 1 are valid
// for heat pumps and condensing systems up to the 1.2 cap; anything
// outside (0, 1.2] is a data-entry error, never clamped.
func FinalEnergy(heatingNeed, systemEfficiency float64) (float64, error) {
	if heatingNeed < 0 {
		return 0, apperr.Validation("heating need must not be negative")
	}
	if systemEfficiency <= 0 || systemEfficiency > 1.2 {
		return 0, apperr.Validation(fmt.Sprintf("system efficiency must be in (0, 1.2], got %g", systemEfficiency))
	}
	return heatingNeed / systemEfficiency, nil
}
