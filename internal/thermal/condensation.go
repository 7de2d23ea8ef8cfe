package thermal

import (
	"fmt"
	"math"

	"energy_audit_backend/platform/apperr"
)

// Magnus-Tetens coefficients for saturation vapor pressure. The ice-phase
// pair applies below 0 degC; the discontinuity at the phase boundary is
// physical, not a modeling artifact.
const (
	magnusWaterA = 17.62
	magnusWaterB = 243.12 // degC
	magnusIceA   = 22.46
	magnusIceB   = 272.62 // degC
)

// SaturationPressure returns the saturation vapor pressure in Pa at
// temperature t (degC) using the Magnus-Tetens formula.
func SaturationPressure(t float64) float64 {
	if t >= 0 {
		return 611.2 * math.Exp(magnusWaterA*t/(magnusWaterB+t))
	}
	return 611.2 * math.Exp(magnusIceA*t/(magnusIceB+t))
}

// Climate holds the boundary conditions for a Glaser analysis.
// Relative humidities are fractions in (0, 1].
type Climate struct {
	InteriorTemp float64 `json:"interiorTemp"` // degC
	ExteriorTemp float64 `json:"exteriorTemp"` // degC
	InteriorRH   float64 `json:"interiorRH"`
	ExteriorRH   float64 `json:"exteriorRH"`
}

// DefaultWinterClimate is the Slovak design condition for condensation
// assessment: -12 degC / 85 % outside, 20 degC / 50 % inside.
func DefaultWinterClimate() Climate {
	return Climate{
		InteriorTemp: 20.0,
		ExteriorTemp: -12.0,
		InteriorRH:   0.50,
		ExteriorRH:   0.85,
	}
}

// Validate rejects implausible boundary conditions.
func (cl Climate) Validate() error {
	if cl.InteriorTemp < -50 || cl.InteriorTemp > 60 || cl.ExteriorTemp < -50 || cl.ExteriorTemp > 60 {
		return apperr.Validation(fmt.Sprintf("climate temperatures outside plausible range: interior %g, exterior %g", cl.InteriorTemp, cl.ExteriorTemp))
	}
	if cl.InteriorRH <= 0 || cl.InteriorRH > 1 || cl.ExteriorRH <= 0 || cl.ExteriorRH > 1 {
		return apperr.Validation("relative humidity must be a fraction in (0, 1]")
	}
	return nil
}

// CondensationRisk classifies the outcome of a Glaser analysis.
// Interstitial condensation is strictly worse than surface condensation
// and dominates when both occur.
type CondensationRisk int

const (
	RiskNone CondensationRisk = iota
	RiskSurface
	RiskInterstitial
)

func (r CondensationRisk) String() string {
	switch r {
	case RiskSurface:
		return "surface"
	case RiskInterstitial:
		return "interstitial"
	default:
		return "none"
	}
}

// Boundary is one point of the Glaser profile. Index 0 is the interior
// surface; index len(layers) is the exterior surface; indices in between
// are layer interfaces.
type Boundary struct {
	Index    int    `json:"index"`
	Position string `json:"position"`

	Temperature        float64 `json:"temperature"`        // degC
	VaporPressure      float64 `json:"vaporPressure"`      // Pa
	SaturationPressure float64 `json:"saturationPressure"` // Pa
	Condensing         bool    `json:"condensing"`
}

// GlaserResult is the full condensation analysis of one construction.
type GlaserResult struct {
	Risk    CondensationRisk `json:"risk"`
	Profile []Boundary       `json:"profile"`
	// RiskBoundaries lists every boundary where vapor pressure exceeds
	// saturation, not just the first.
	RiskBoundaries []Boundary `json:"riskBoundaries,omitempty"`
}

// AnalyzeCondensation runs the Glaser method on a construction under the
// given climate. The temperature profile is distributed proportionally to
// thermal resistance shares, the vapor-pressure profile proportionally to
// equivalent air thickness (sd) shares.
func AnalyzeCondensation(c Construction, cl Climate) (GlaserResult, error) {
	if err := cl.Validate(); err != nil {
		return GlaserResult{}, err
	}
	totalR, err := c.TotalResistance()
	if err != nil {
		return GlaserResult{}, err
	}

	rsi, _ := SurfaceResistances(c.Type)
	tempDrop := cl.InteriorTemp - cl.ExteriorTemp

	pInt := cl.InteriorRH * SaturationPressure(cl.InteriorTemp)
	pExt := cl.ExteriorRH * SaturationPressure(cl.ExteriorTemp)

	totalSd := 0.0
	for _, layer := range c.Layers {
		totalSd += layer.EquivalentAirThickness()
	}

	boundaries := make([]Boundary, 0, len(c.Layers)+1)

	cumR := rsi
	cumSd := 0.0
	for i := 0; i <= len(c.Layers); i++ {
		if i > 0 {
			cumR += c.Layers[i-1].Resistance()
			cumSd += c.Layers[i-1].EquivalentAirThickness()
		}

		temp := cl.InteriorTemp - tempDrop*cumR/totalR

		// Vapor pressure falls linearly across sd shares. A construction
		// with zero total vapor resistance has no gradient to distribute;
		// interior pressure then holds until the exterior surface.
		var vapor float64
		switch {
		case i == len(c.Layers):
			vapor = pExt
		case totalSd == 0:
			vapor = pInt
		default:
			vapor = pInt - (pInt-pExt)*cumSd/totalSd
		}

		sat := SaturationPressure(temp)
		boundaries = append(boundaries, Boundary{
			Index:              i,
			Position:           boundaryPosition(c, i),
			Temperature:        temp,
			VaporPressure:      vapor,
			SaturationPressure: sat,
			Condensing:         vapor > sat,
		})
	}

	result := GlaserResult{Profile: boundaries}
	for _, b := range boundaries {
		if !b.Condensing {
			continue
		}
		result.RiskBoundaries = append(result.RiskBoundaries, b)
		if b.Index > 0 && b.Index < len(c.Layers) {
			result.Risk = RiskInterstitial
		} else if result.Risk < RiskSurface {
			result.Risk = RiskSurface
		}
	}

	return result, nil
}

func boundaryPosition(c Construction, i int) string {
	switch {
	case i == 0:
		return "interior surface"
	case i == len(c.Layers):
		return "exterior surface"
	default:
		return fmt.Sprintf("%s/%s interface", c.Layers[i-1].Name, c.Layers[i].Name)
	}
}
