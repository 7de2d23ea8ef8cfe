// Package quality scores collected audit data records on a 0-100 scale
// and derives the ordered data-quality level the workflow gates on.
package quality

import (
	"fmt"
	"time"
)

// Level is the ordered data-quality classification. Levels are derived
// from a record by Assess, never set directly by a caller.
type Level int

const (
	Assumed Level = iota
	Estimated
	Calculated
	Measured
)

func (l Level) String() string {
	switch l {
	case Measured:
		return "measured"
	case Calculated:
		return "calculated"
	case Estimated:
		return "estimated"
	default:
		return "assumed"
	}
}

// Method is how a consumption or measurement value was obtained.
type Method string

const (
	MethodContinuous      Method = "continuous"
	MethodMonthlyReadings Method = "monthly_readings"
	MethodShortTerm       Method = "short_term"
	MethodAnnualBills     Method = "annual_bills"
	MethodSpot            Method = "spot"
	MethodCalculation     Method = "calculation"
	MethodEstimation      Method = "estimation"
)

// methodWeights is the fixed fidelity ordering of measurement methods on
// the raw 10..40 scale; Assess scales it to the 0..30 sub-range so the
// three score components sum to 100.
var methodWeights = map[Method]float64{
	MethodContinuous:      40,
	MethodMonthlyReadings: 35,
	MethodShortTerm:       30,
	MethodAnnualBills:     25,
	MethodSpot:            20,
	MethodCalculation:     15,
	MethodEstimation:      10,
}

// Warning is a soft quality finding attached to an otherwise valid score.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Record is the quality-relevant shape of any collected data record. The
// caller counts its own required/optional fields; this package only needs
// the counts, not the fields themselves.
type Record struct {
	Method Method `json:"method"`
	// Uncertainty is the declared uncertainty in percent; nil when the
	// source declared none.
	Uncertainty *float64 `json:"uncertainty,omitempty"`
	// MeasuredAt is when the value was obtained; zero when unknown.
	MeasuredAt time.Time `json:"measuredAt,omitempty"`

	RequiredPresent int `json:"requiredPresent"`
	RequiredTotal   int `json:"requiredTotal"`
	OptionalPresent int `json:"optionalPresent"`
	OptionalTotal   int `json:"optionalTotal"`
}

// Completeness returns the 0-100 completeness of the record. Required
// fields carry four times the weight of optional ones.
func (r Record) Completeness() float64 {
	reqFrac, optFrac := 1.0, 1.0
	if r.RequiredTotal > 0 {
		reqFrac = clamp01(float64(r.RequiredPresent) / float64(r.RequiredTotal))
	}
	if r.OptionalTotal > 0 {
		optFrac = clamp01(float64(r.OptionalPresent) / float64(r.OptionalTotal))
	}
	return 100 * (0.8*reqFrac + 0.2*optFrac)
}

// Result is the outcome of a quality assessment.
type Result struct {
	Level    Level     `json:"level"`
	Score    float64   `json:"score"` // 0-100
	Warnings []Warning `json:"warnings,omitempty"`
}

// Assess scores a record: 0.4 x completeness + the method weight scaled
// to 0-30 + an accuracy/recency term worth up to 30. The function is pure;
// recency is judged against the supplied reference time so re-running it
// on an unchanged record always yields the same result.
func Assess(r Record, now time.Time) Result {
	score := 0.4 * r.Completeness()
	score += methodScore(r.Method)
	score += accuracyScore(r.Uncertainty)
	score += recencyScore(r.MeasuredAt, now)

	var warnings []Warning
	if (r.Method == MethodEstimation || r.Method == MethodCalculation) && r.Uncertainty == nil {
		warnings = append(warnings, Warning{
			Code:    "uncertainty_missing",
			Message: fmt.Sprintf("method %q should declare an uncertainty", r.Method),
		})
	}

	return Result{Level: levelFor(score), Score: score, Warnings: warnings}
}

// levelFor maps the numeric score to the ordered level: >=85 measured,
// >=65 calculated, >=45 estimated, else assumed.
func levelFor(score float64) Level {
	switch {
	case score >= 85:
		return Measured
	case score >= 65:
		return Calculated
	case score >= 45:
		return Estimated
	default:
		return Assumed
	}
}

// methodScore scales the raw 10..40 method weight to the 0..30 sub-range.
// Unknown methods score like a spot reading rather than failing: quality
// assessment is advisory, not gating input validation.
func methodScore(m Method) float64 {
	w, ok := methodWeights[m]
	if !ok {
		w = methodWeights[MethodSpot]
	}
	return w * 0.75
}

// accuracyScore awards up to 20 points for declared uncertainty. An
// undeclared uncertainty gets the midpoint, not zero: silence is not
// evidence of bad data.
func accuracyScore(uncertainty *float64) float64 {
	if uncertainty == nil {
		return 10
	}
	switch u := *uncertainty; {
	case u <= 5:
		return 20
	case u <= 10:
		return 13
	case u <= 25:
		return 7
	default:
		return 0
	}
}

// recencyScore awards up to 10 points: full within a year, half within
// five years, nothing for older or undated records.
func recencyScore(measuredAt, now time.Time) float64 {
	if measuredAt.IsZero() {
		return 0
	}
	age := now.Sub(measuredAt)
	switch {
	case age <= 365*24*time.Hour:
		return 10
	case age <= 5*365*24*time.Hour:
		return 5
	default:
		return 0
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
