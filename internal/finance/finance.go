// Package finance evaluates proposed efficiency measures: net present
// value, internal rate of return, and payback periods feed the measure
// prioritization in the reporting phase.
package finance

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"energy_audit_backend/internal/classify"
	"energy_audit_backend/platform/apperr"
)

// Measure is one proposed efficiency improvement. Created during the
// analysis phase and read-only once prioritized; derived numbers are
// computed fresh, never written back onto the measure.
type Measure struct {
	ID            uuid.UUID                    `json:"id"`
	Category      string                       `json:"category"`
	Description   string                       `json:"description,omitempty"`
	EnergySavings map[classify.Carrier]float64 `json:"energySavings,omitempty"` // kWh per year
	Investment    float64                      `json:"investment"`              // EUR
	AnnualSavings float64                      `json:"annualSavings"`           // EUR per year
	Lifetime      int                          `json:"lifetime"`                // years
}

// Validate rejects measures that cannot be financially evaluated.
func (m Measure) Validate() error {
	if m.Investment < 0 {
		return apperr.Validation("investment cost must not be negative")
	}
	if m.Lifetime <= 0 {
		return apperr.Validation(fmt.Sprintf("technical lifetime must be positive, got %d", m.Lifetime))
	}
	for carrier, saving := range m.EnergySavings {
		if !carrier.Valid() {
			return apperr.Validation(fmt.Sprintf("unknown energy carrier %q in savings", carrier))
		}
		if saving < 0 {
			return apperr.Validation(fmt.Sprintf("carrier %s: energy saving must not be negative", carrier))
		}
	}
	return nil
}

// SimplePayback returns investment / annual savings in years. A measure
// that saves nothing never pays back and yields +Inf rather than an error;
// the caller decides whether that disqualifies it.
func (m Measure) SimplePayback() float64 {
	if m.AnnualSavings <= 0 {
		return math.Inf(1)
	}
	return m.Investment / m.AnnualSavings
}

// NPV discounts the measure's constant annual savings over its lifetime
// at the given rate and subtracts the investment.
func (m Measure) NPV(rate float64) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if rate <= -1 {
		return 0, apperr.Validation(fmt.Sprintf("discount rate must be above -100%%, got %g", rate))
	}
	npv := -m.Investment
	for year := 1; year <= m.Lifetime; year++ {
		npv += m.AnnualSavings / math.Pow(1+rate, float64(year))
	}
	return npv, nil
}

// IRR finds the discount rate at which the measure's NPV is zero, by
// bisection over [-0.99, 10]. Measures whose NPV never changes sign on
// that interval (no investment, or savings too small) have no IRR.
func (m Measure) IRR() (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if m.Investment == 0 {
		return 0, apperr.Validation("IRR is undefined for a measure with no investment")
	}

	npvAt := func(rate float64) float64 {
		v, _ := m.NPV(rate)
		return v
	}

	lo, hi := -0.99, 10.0
	fLo, fHi := npvAt(lo), npvAt(hi)
	if fLo*fHi > 0 {
		return 0, apperr.Validation("measure has no internal rate of return on [-99%, 1000%]")
	}

	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fMid := npvAt(mid)
		if math.Abs(fMid) < 1e-7 || hi-lo < 1e-9 {
			return mid, nil
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return (lo + hi) / 2, nil
}

// DiscountedPayback returns the first year in which cumulative discounted
// savings cover the investment, +Inf if that never happens within the
// measure's lifetime.
func (m Measure) DiscountedPayback(rate float64) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if rate <= -1 {
		return 0, apperr.Validation(fmt.Sprintf("discount rate must be above -100%%, got %g", rate))
	}
	if m.Investment == 0 {
		return 0, nil
	}

	cumulative := 0.0
	for year := 1; year <= m.Lifetime; year++ {
		discounted := m.AnnualSavings / math.Pow(1+rate, float64(year))
		if cumulative+discounted >= m.Investment {
			// Linear interpolation within the breakeven year.
			return float64(year-1) + (m.Investment-cumulative)/discounted, nil
		}
		cumulative += discounted
	}
	return math.Inf(1), nil
}

// Evaluation annotates a measure with its derived financial indicators.
// The measure itself stays untouched.
type Evaluation struct {
	Measure           Measure `json:"measure"`
	SimplePayback     float64 `json:"simplePayback"`
	DiscountedPayback float64 `json:"discountedPayback"`
	NPV               float64 `json:"npv"`
	IRR               float64 `json:"irr"`
	IRRDefined        bool    `json:"irrDefined"`
}

// Prioritize evaluates every measure at the given discount rate and
// returns them ordered by NPV descending, simple payback as tiebreak.
func Prioritize(measures []Measure, rate float64) ([]Evaluation, error) {
	evals := make([]Evaluation, 0, len(measures))
	for _, m := range measures {
		npv, err := m.NPV(rate)
		if err != nil {
			return nil, err
		}
		dp, err := m.DiscountedPayback(rate)
		if err != nil {
			return nil, err
		}
		ev := Evaluation{
			Measure:           m,
			SimplePayback:     m.SimplePayback(),
			DiscountedPayback: dp,
			NPV:               npv,
		}
		if irr, err := m.IRR(); err == nil {
			ev.IRR = irr
			ev.IRRDefined = true
		}
		evals = append(evals, ev)
	}

	sort.SliceStable(evals, func(i, j int) bool {
		if evals[i].NPV != evals[j].NPV {
			return evals[i].NPV > evals[j].NPV
		}
		return evals[i].SimplePayback < evals[j].SimplePayback
	})
	return evals, nil
}
