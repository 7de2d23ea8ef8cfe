// Package classify converts final energy by carrier into primary energy
// and CO2 emissions and maps specific primary energy onto the letter
// classes of the energy certificate.
package classify

import (
	"fmt"

	"energy_audit_backend/platform/apperr"
)

// Carrier is the closed set of energy carriers an audit can record.
// String-keyed fuel lookups with silent defaults are exactly what this
// type exists to prevent: every switch over Carrier is exhaustive.
type Carrier string

const (
	Electricity     Carrier = "electricity"
	NaturalGas      Carrier = "natural_gas"
	HeatingOil      Carrier = "heating_oil"
	DistrictHeating Carrier = "district_heating"
	Biomass         Carrier = "biomass"
	Solar           Carrier = "solar"
	OtherCarrier    Carrier = "other"
)

// Carriers lists every valid carrier in a stable order.
func Carriers() []Carrier {
	return []Carrier{Electricity, NaturalGas, HeatingOil, DistrictHeating, Biomass, Solar, OtherCarrier}
}

// Valid reports whether c is a member of the closed carrier set.
func (c Carrier) Valid() bool {
	switch c {
	case Electricity, NaturalGas, HeatingOil, DistrictHeating, Biomass, Solar, OtherCarrier:
		return true
	default:
		return false
	}
}

// ParseCarrier converts external input into a Carrier or fails; there is
// no fallback bucket for unrecognized strings.
func ParseCarrier(s string) (Carrier, error) {
	c := Carrier(s)
	if !c.Valid() {
		return "", apperr.Validation(fmt.Sprintf("unknown energy carrier %q", s))
	}
	return c, nil
}
