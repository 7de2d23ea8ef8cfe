package classify

import (
	"fmt"

	"energy_audit_backend/platform/apperr"
)

// Factor holds the conversion coefficients of one carrier: the
// primary-energy factor (kWh primary per kWh final) and the CO2 emission
// factor (kg CO2 per kWh final). Factor tables are external configuration
// loaded per national parameter set, never hard-coded at call sites.
type Factor struct {
	PrimaryEnergy float64 `json:"primaryEnergy" yaml:"primaryEnergy"`
	CO2           float64 `json:"co2" yaml:"co2"`
}

// FactorTable maps every carrier to its conversion factors.
type FactorTable map[Carrier]Factor

// Validate requires a factor for every member of the carrier set, so a
// conversion can never fall through to a silent default.
func (t FactorTable) Validate() error {
	var missing []string
	for _, c := range Carriers() {
		f, ok := t[c]
		if !ok {
			missing = append(missing, string(c))
			continue
		}
		if f.PrimaryEnergy < 0 || f.CO2 < 0 {
			return apperr.Validation(fmt.Sprintf("carrier %s: factors must not be negative", c))
		}
	}
	if len(missing) > 0 {
		return apperr.Incomplete("factor table is missing carriers", missing)
	}
	return nil
}

// Consumption is the final energy delivered through one carrier.
type Consumption struct {
	Carrier     Carrier `json:"carrier"`
	FinalEnergy float64 `json:"finalEnergy"` // kWh per year
}

// CarrierEnergy is the converted result for one carrier.
type CarrierEnergy struct {
	Carrier       Carrier `json:"carrier"`
	FinalEnergy   float64 `json:"finalEnergy"`
	PrimaryEnergy float64 `json:"primaryEnergy"`
	CO2           float64 `json:"co2"` // kg per year
}

// ConversionResult totals primary energy and emissions over all carriers.
type ConversionResult struct {
	PerCarrier    []CarrierEnergy `json:"perCarrier"`
	PrimaryEnergy float64         `json:"primaryEnergy"` // kWh per year
	CO2           float64         `json:"co2"`           // kg per year
}

// Convert turns final energy by carrier into primary energy and CO2 using
// the table. Unknown carriers and negative consumptions are rejected.
func (t FactorTable) Convert(consumptions []Consumption) (ConversionResult, error) {
	if err := t.Validate(); err != nil {
		return ConversionResult{}, err
	}

	var result ConversionResult
	for _, c := range consumptions {
		if !c.Carrier.Valid() {
			return ConversionResult{}, apperr.Validation(fmt.Sprintf("unknown energy carrier %q", c.Carrier))
		}
		if c.FinalEnergy < 0 {
			return ConversionResult{}, apperr.Validation(fmt.Sprintf("carrier %s: final energy must not be negative", c.Carrier))
		}
		f := t[c.Carrier]
		ce := CarrierEnergy{
			Carrier:       c.Carrier,
			FinalEnergy:   c.FinalEnergy,
			PrimaryEnergy: c.FinalEnergy * f.PrimaryEnergy,
			CO2:           c.FinalEnergy * f.CO2,
		}
		result.PerCarrier = append(result.PerCarrier, ce)
		result.PrimaryEnergy += ce.PrimaryEnergy
		result.CO2 += ce.CO2
	}
	return result, nil
}
