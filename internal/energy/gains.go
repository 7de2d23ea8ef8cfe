package energy

import (
	"strings"

	"energy_audit_backend/platform/apperr"
)

// Shading and frame reduction applied to glazed solar gains.
const solarReductionFactor = 0.9

// orientationFactors scales solar irradiation by facade orientation,
// relative to an unshaded south-facing aperture.
var orientationFactors = map[string]float64{
	"south":     1.0,
	"southeast": 0.9,
	"southwest": 0.9,
	"east":      0.7,
	"west":      0.7,
	"northeast": 0.5,
	"northwest": 0.5,
	"north":     0.3,
}

// OrientationFactor returns the solar scaling factor for an orientation
// name. Unknown orientations get a neutral 0.7.
func OrientationFactor(orientation string) float64 {
	if f, ok := orientationFactors[strings.ToLower(strings.TrimSpace(orientation))]; ok {
		return f
	}
	return 0.7
}

// SolarAperture is one glazed element collecting solar gains.
type SolarAperture struct {
	Area        float64 `json:"area"`   // m2
	GValue      float64 `json:"gValue"` // total solar energy transmittance (0, 1]
	Orientation string  `json:"orientation"`
}

// Validate rejects physically impossible apertures.
func (a SolarAperture) Validate() error {
	if a.Area <= 0 {
		return apperr.Validation("solar aperture area must be positive")
	}
	if a.GValue <= 0 || a.GValue > 1 {
		return apperr.Validation("g-value must be in (0, 1]")
	}
	return nil
}

// SolarGains returns the monthly solar gain in kWh for the given monthly
// irradiation (kWh/m2 per month): area * g * irradiation * orientation
// factor * 0.9.
func SolarGains(apertures []SolarAperture, monthlyIrradiation float64) (float64, error) {
	var total float64
	for _, a := range apertures {
		if err := a.Validate(); err != nil {
			return 0, err
		}
		total += a.Area * a.GValue * monthlyIrradiation * OrientationFactor(a.Orientation) * solarReductionFactor
	}
	return total, nil
}

// InternalGains describes the free heat sources inside the building.
type InternalGains struct {
	OccupancyPower float64 `json:"occupancyPower"` // W, total metabolic heat
	EquipmentPower float64 `json:"equipmentPower"` // W
	HoursPerDay    float64 `json:"hoursPerDay"`
	DaysPerWeek    float64 `json:"daysPerWeek"`
}

// Validate rejects impossible operating schedules.
func (g InternalGains) Validate() error {
	if g.OccupancyPower < 0 || g.EquipmentPower < 0 {
		return apperr.Validation("gain powers must not be negative")
	}
	if g.HoursPerDay < 0 || g.HoursPerDay > 24 {
		return apperr.Validation("operating hours per day must be in [0, 24]")
	}
	if g.DaysPerWeek < 0 || g.DaysPerWeek > 7 {
		return apperr.Validation("operating days per week must be in [0, 7]")
	}
	return nil
}

// Monthly returns the internal gain in kWh for a month of the given
// length in days.
func (g InternalGains) Monthly(daysInMonth int) (float64, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	operatingDays := float64(daysInMonth) * g.DaysPerWeek / 7.0
	return (g.OccupancyPower + g.EquipmentPower) * g.HoursPerDay * operatingDays / 1000.0, nil
}
