package thermal

import (
	"fmt"

	"energy_audit_backend/platform/apperr"
)

// ConstructionType identifies the position of a construction in the envelope
// and selects its surface heat-transfer resistances.
type ConstructionType string

const (
	ExternalWall ConstructionType = "external_wall"
	InternalWall ConstructionType = "internal_wall"
	Roof         ConstructionType = "roof"
	Floor        ConstructionType = "floor" // ground-contact floor
	Ceiling      ConstructionType = "ceiling"
	Window       ConstructionType = "window"
	Door         ConstructionType = "door"
)

// surfaceResistance holds the interior/exterior surface heat-transfer
// resistances per STN 73 0540. Rse = 0 for ground-contact floors because
// there is no exterior air film against soil.
type surfaceResistance struct {
	rsi float64
	rse float64
}

var surfaceResistances = map[ConstructionType]surfaceResistance{
	ExternalWall: {rsi: 0.13, rse: 0.04},
	InternalWall: {rsi: 0.13, rse: 0.13},
	Roof:         {rsi: 0.13, rse: 0.04},
	Floor:        {rsi: 0.13, rse: 0.0},
	Ceiling:      {rsi: 0.13, rse: 0.04},
	Window:       {rsi: 0.13, rse: 0.04},
	Door:         {rsi: 0.13, rse: 0.04},
}

// SurfaceResistances returns (Rsi, Rse) for the construction type.
// Unknown types fall back to the external-wall values.
func SurfaceResistances(t ConstructionType) (float64, float64) {
	sr, ok := surfaceResistances[t]
	if !ok {
		sr = surfaceResistances[ExternalWall]
	}
	return sr.rsi, sr.rse
}

// BridgeKind distinguishes the three thermal bridge geometries.
type BridgeKind string

const (
	BridgeLinear BridgeKind = "linear" // psi [W/mK] over a length
	BridgePoint  BridgeKind = "point"  // chi [W/K]
	BridgeArea   BridgeKind = "area"   // U [W/m2K] over an area
)

// ThermalBridge is a localized path of higher heat flow not captured by the
// plain-field U-value. It contributes additively to the construction's loss
// coefficient.
type ThermalBridge struct {
	Kind        BridgeKind `json:"kind"`
	Description string     `json:"description,omitempty"`
	// Extent is the length (m) for linear bridges or the area (m2) for
	// area bridges; unused for point bridges.
	Extent float64 `json:"extent,omitempty"`
	// Coefficient is psi (W/mK), chi (W/K) or U (W/m2K) depending on Kind.
	Coefficient float64 `json:"coefficient"`
}

// LossCoefficient returns the bridge's contribution in W/K.
func (b ThermalBridge) LossCoefficient() float64 {
	switch b.Kind {
	case BridgeLinear:
		return b.Coefficient * b.Extent
	case BridgePoint:
		return b.Coefficient
	case BridgeArea:
		return b.Coefficient * b.Extent
	default:
		return 0
	}
}

// Validate rejects negative bridge coefficients and extents.
func (b ThermalBridge) Validate() error {
	switch b.Kind {
	case BridgeLinear, BridgePoint, BridgeArea:
	default:
		return apperr.Validation(fmt.Sprintf("unknown thermal bridge kind %q", b.Kind))
	}
	if b.Coefficient < 0 || b.Extent < 0 {
		return apperr.Validation("thermal bridge coefficient and extent must not be negative")
	}
	return nil
}

// Construction is an ordered stack of material layers (inside to outside)
// with an area and an optional set of thermal bridges. Constructions are
// built once from audit input and read-only afterward: derived values are
// recomputed, never cached on the struct.
type Construction struct {
	Name    string           `json:"name"`
	Type    ConstructionType `json:"type"`
	Layers  []MaterialLayer  `json:"layers"` // inside -> outside
	Area    float64          `json:"area"`   // m2
	Bridges []ThermalBridge  `json:"bridges,omitempty"`
}

// Validate checks the construction and every layer and bridge it owns.
func (c Construction) Validate() error {
	if len(c.Layers) == 0 {
		return apperr.Validation(fmt.Sprintf("construction %q: layer sequence is empty", c.Name))
	}
	if c.Area <= 0 {
		return apperr.Validation(fmt.Sprintf("construction %q: area must be positive, got %g", c.Name, c.Area))
	}
	for _, layer := range c.Layers {
		if err := layer.Validate(); err != nil {
			return err
		}
	}
	for _, bridge := range c.Bridges {
		if err := bridge.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalResistance returns R = Rsi + sum(layer resistances) + Rse in m2K/W.
func (c Construction) TotalResistance() (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	rsi, rse := SurfaceResistances(c.Type)
	total := rsi + rse
	for _, layer := range c.Layers {
		total += layer.Resistance()
	}
	return total, nil
}

// UValue returns the plain-field heat-transfer coefficient U = 1/R in W/m2K.
func (c Construction) UValue() (float64, error) {
	r, err := c.TotalResistance()
	if err != nil {
		return 0, err
	}
	return 1.0 / r, nil
}

// EffectiveUValue returns the U-value corrected for thermal bridges:
// U + sum(bridge loss coefficients)/area. With non-negative bridge
// coefficients the result is never below the plain U-value.
func (c Construction) EffectiveUValue() (float64, error) {
	u, err := c.UValue()
	if err != nil {
		return 0, err
	}

	var bridgeLoss float64
	for _, bridge := range c.Bridges {
		bridgeLoss += bridge.LossCoefficient()
	}

	effective := u + bridgeLoss/c.Area
	if effective < u {
		effective = u
	}
	return effective, nil
}

// HeatCapacity returns the areal heat capacity of the construction in J/m2K.
func (c Construction) HeatCapacity() float64 {
	var total float64
	for _, layer := range c.Layers {
		total += layer.HeatCapacity()
	}
	return total
}

// TotalThickness returns the construction thickness in m.
func (c Construction) TotalThickness() float64 {
	var total float64
	for _, layer := range c.Layers {
		total += layer.Thickness
	}
	return total
}
