// Package thermal implements steady-state thermal modeling of building
// constructions: layer resistances, U-values, thermal bridges, and the
// Glaser condensation check used during the audit analysis phase.
package thermal

import (
	"fmt"

	"energy_audit_backend/platform/apperr"
)

// MaterialLayer is a single homogeneous material layer in a construction.
// Layers are immutable values owned by their construction; all physical
// quantities use SI units.
type MaterialLayer struct {
	Name            string  `json:"name"`
	Thickness       float64 `json:"thickness"`       // m
	Conductivity    float64 `json:"conductivity"`    // W/mK
	Density         float64 `json:"density"`         // kg/m3
	SpecificHeat    float64 `json:"specificHeat"`    // J/kgK
	VaporResistance float64 `json:"vaporResistance"` // diffusion resistance factor mu, dimensionless
}

// Resistance returns the thermal resistance of the layer in m2K/W.
func (l MaterialLayer) Resistance() float64 {
	return l.Thickness / l.Conductivity
}

// HeatCapacity returns the areal heat capacity of the layer in J/m2K.
func (l MaterialLayer) HeatCapacity() float64 {
	return l.Density * l.SpecificHeat * l.Thickness
}

// EquivalentAirThickness returns the water-vapor diffusion-equivalent air
// layer thickness (sd value, m) used by the Glaser profile.
func (l MaterialLayer) EquivalentAirThickness() float64 {
	return l.VaporResistance * l.Thickness
}

// Validate checks the physical plausibility of the layer. Out-of-range
// values are reported, never clamped: a clamped layer would silently
// corrupt every derived audit result.
func (l MaterialLayer) Validate() error {
	if l.Thickness <= 0 {
		return apperr.Validation(fmt.Sprintf("layer %q: thickness must be positive, got %g", l.Name, l.Thickness))
	}
	if l.Conductivity <= 0 {
		return apperr.Validation(fmt.Sprintf("layer %q: thermal conductivity must be positive, got %g", l.Name, l.Conductivity))
	}
	if l.Density < 0 || l.SpecificHeat < 0 {
		return apperr.Validation(fmt.Sprintf("layer %q: density and specific heat must not be negative", l.Name))
	}
	if l.VaporResistance < 0 {
		return apperr.Validation(fmt.Sprintf("layer %q: vapor resistance factor must not be negative", l.Name))
	}
	return nil
}
