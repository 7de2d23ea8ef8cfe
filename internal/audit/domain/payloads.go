package domain

import (
	"fmt"
	"time"

	"energy_audit_backend/internal/classify"
	"energy_audit_backend/internal/energy"
	"energy_audit_backend/internal/finance"
	"energy_audit_backend/internal/quality"
	"energy_audit_backend/internal/thermal"
)

// PhasePayload is the data that completes one workflow phase. Each phase
// has exactly one payload type; missingItems lists what the payload still
// lacks (empty means the phase requirements are met).
type PhasePayload interface {
	Phase() Phase
	missingItems(auditType AuditType) []string
}

// Qualification identifies the auditor and their credentials.
type Qualification struct {
	Name            string   `json:"name"`
	YearsExperience int      `json:"yearsExperience"`
	Certifications  []string `json:"certifications,omitempty"`
}

// ContactData completes the contact phase: client identification plus an
// auditor qualified for the audit type.
type ContactData struct {
	ClientName  string        `json:"clientName"`
	ClientEmail string        `json:"clientEmail"`
	ClientPhone string        `json:"clientPhone,omitempty"`
	SiteAddress string        `json:"siteAddress"`
	Auditor     Qualification `json:"auditor"`
}

func (ContactData) Phase() Phase { return PhaseContact }

func (d ContactData) missingItems(auditType AuditType) []string {
	var missing []string
	if d.ClientName == "" {
		missing = append(missing, "client name")
	}
	if d.ClientEmail == "" {
		missing = append(missing, "client email")
	}
	if d.SiteAddress == "" {
		missing = append(missing, "site address")
	}
	if d.Auditor.Name == "" {
		missing = append(missing, "auditor name")
	}
	if minYears, err := auditType.MinExperienceYears(); err == nil && d.Auditor.YearsExperience < minYears {
		missing = append(missing, fmt.Sprintf("auditor experience: %s audits require %d years, auditor has %d",
			auditType, minYears, d.Auditor.YearsExperience))
	}
	return missing
}

// RequiredMeetingTopics are the agenda items EN 16247 requires the
// opening meeting to settle.
var RequiredMeetingTopics = []string{
	"audit_objectives",
	"system_boundaries",
	"data_availability",
	"measurement_plan",
	"timeline",
	"reporting_requirements",
}

// OpeningMeetingData records the kickoff meeting with the client.
type OpeningMeetingData struct {
	HeldAt        time.Time `json:"heldAt"`
	Attendees     []string  `json:"attendees"`
	TopicsCovered []string  `json:"topicsCovered"`
	Notes         string    `json:"notes,omitempty"`
}

func (OpeningMeetingData) Phase() Phase { return PhaseOpeningMeeting }

func (d OpeningMeetingData) missingItems(AuditType) []string {
	var missing []string
	if d.HeldAt.IsZero() {
		missing = append(missing, "meeting date")
	}
	if len(d.Attendees) == 0 {
		missing = append(missing, "attendees")
	}
	covered := make(map[string]bool, len(d.TopicsCovered))
	for _, topic := range d.TopicsCovered {
		covered[topic] = true
	}
	for _, topic := range RequiredMeetingTopics {
		if !covered[topic] {
			missing = append(missing, "topic: "+topic)
		}
	}
	return missing
}

// ConsumptionProfile is one carrier's documented annual consumption.
type ConsumptionProfile struct {
	Carrier           classify.Carrier `json:"carrier"`
	AnnualConsumption float64          `json:"annualConsumption"` // kWh
	AnnualCost        float64          `json:"annualCost"`        // EUR
	Method            quality.Method   `json:"method"`
	MonthlyBreakdown  []float64        `json:"monthlyBreakdown,omitempty"`
	Uncertainty       *float64         `json:"uncertainty,omitempty"` // percent
	MeasuredAt        time.Time        `json:"measuredAt,omitempty"`
}

// QualityRecord converts the profile into the shape the quality assessor
// scores. Carrier, consumption and method are the required fields;
// breakdown, uncertainty and date are optional refinements.
func (p ConsumptionProfile) QualityRecord() quality.Record {
	required := 0
	if p.Carrier != "" {
		required++
	}
	if p.AnnualConsumption > 0 {
		required++
	}
	if p.Method != "" {
		required++
	}
	optional := 0
	if len(p.MonthlyBreakdown) == 12 {
		optional++
	}
	if p.Uncertainty != nil {
		optional++
	}
	if !p.MeasuredAt.IsZero() {
		optional++
	}
	return quality.Record{
		Method:          p.Method,
		Uncertainty:     p.Uncertainty,
		MeasuredAt:      p.MeasuredAt,
		RequiredPresent: required,
		RequiredTotal:   3,
		OptionalPresent: optional,
		OptionalTotal:   3,
	}
}

// BuildingInfo is the documentary building description collected before
// the field visit.
type BuildingInfo struct {
	Subtype          classify.BuildingSubtype `json:"subtype"`
	HeatedFloorArea  float64                  `json:"heatedFloorArea"` // m2
	HeatedVolume     float64                  `json:"heatedVolume"`    // m3
	ConstructionYear int                      `json:"constructionYear"`
}

// CollectionData completes the data-collection phase.
type CollectionData struct {
	Building BuildingInfo         `json:"building"`
	Profiles []ConsumptionProfile `json:"profiles"`
}

func (CollectionData) Phase() Phase { return PhaseDataCollection }

func (d CollectionData) missingItems(AuditType) []string {
	var missing []string
	if d.Building.Subtype == "" {
		missing = append(missing, "building subtype")
	}
	if d.Building.HeatedFloorArea <= 0 {
		missing = append(missing, "heated floor area")
	}
	if d.Building.HeatedVolume <= 0 {
		missing = append(missing, "heated volume")
	}
	if d.Building.ConstructionYear <= 0 {
		missing = append(missing, "construction year")
	}
	if len(d.Profiles) == 0 {
		missing = append(missing, "at least one consumption profile")
	}
	for i, p := range d.Profiles {
		if !p.Carrier.Valid() {
			missing = append(missing, fmt.Sprintf("profile %d: valid energy carrier", i+1))
		}
		if p.AnnualConsumption < 0 {
			missing = append(missing, fmt.Sprintf("profile %d: non-negative annual consumption", i+1))
		}
		if p.Method == "" {
			missing = append(missing, fmt.Sprintf("profile %d: measurement method", i+1))
		}
	}
	return missing
}

// FieldVisitData completes the field visit: the surveyed envelope and
// ventilation situation.
type FieldVisitData struct {
	VisitedAt     time.Time              `json:"visitedAt"`
	Constructions []thermal.Construction `json:"constructions"`
	Ventilation   energy.Ventilation     `json:"ventilation"`
	Apertures     []energy.SolarAperture `json:"apertures,omitempty"`
	InternalGains energy.InternalGains   `json:"internalGains"`
	Observations  []string               `json:"observations,omitempty"`
}

func (FieldVisitData) Phase() Phase { return PhaseFieldVisit }

func (d FieldVisitData) missingItems(AuditType) []string {
	var missing []string
	if d.VisitedAt.IsZero() {
		missing = append(missing, "visit date")
	}
	if len(d.Constructions) == 0 {
		missing = append(missing, "surveyed envelope constructions")
	}
	for _, c := range d.Constructions {
		if err := c.Validate(); err != nil {
			missing = append(missing, fmt.Sprintf("construction %q: %v", c.Name, err))
		}
	}
	if d.Ventilation.Volume <= 0 {
		missing = append(missing, "building volume")
	}
	return missing
}

// EnPI is one normalized energy performance indicator for the report.
type EnPI struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// CondensationFinding records the Glaser verdict for one construction.
type CondensationFinding struct {
	Construction string                   `json:"construction"`
	Risk         thermal.CondensationRisk `json:"risk"`
}

// AnalysisResult is the output of the analysis phase: the only phase that
// runs the numeric calculators. It is computed by the audit service and
// validated here before it becomes session state.
type AnalysisResult struct {
	Balance               energy.HeatBalanceResult  `json:"balance"`
	Conversion            classify.ConversionResult `json:"conversion"`
	SpecificPrimaryEnergy float64                   `json:"specificPrimaryEnergy"` // kWh/m2 per year
	EnergyClass           string                    `json:"energyClass"`
	Condensation          []CondensationFinding     `json:"condensation,omitempty"`
	EnPIs                 []EnPI                    `json:"enpis"`
	Measures              []finance.Evaluation      `json:"measures"`
	Quality               map[string]quality.Result `json:"quality,omitempty"`
	Warnings              []energy.Warning          `json:"warnings,omitempty"`
}

func (AnalysisResult) Phase() Phase { return PhaseAnalysis }

func (d AnalysisResult) missingItems(AuditType) []string {
	var missing []string
	if d.EnergyClass == "" {
		missing = append(missing, "energy classification")
	}
	if d.Balance.AnnualHeatingNeed < 0 {
		missing = append(missing, "valid heat balance")
	}
	if len(d.EnPIs) == 0 {
		missing = append(missing, "energy performance indicators")
	}
	return missing
}

// ReportData completes the reporting phase and with it the audit.
type ReportData struct {
	Title            string    `json:"title"`
	ExecutiveSummary string    `json:"executiveSummary"`
	DeliveredAt      time.Time `json:"deliveredAt"`
	Recommendations  []string  `json:"recommendations,omitempty"`
}

func (ReportData) Phase() Phase { return PhaseReporting }

func (d ReportData) missingItems(AuditType) []string {
	var missing []string
	if d.Title == "" {
		missing = append(missing, "report title")
	}
	if d.ExecutiveSummary == "" {
		missing = append(missing, "executive summary")
	}
	if d.DeliveredAt.IsZero() {
		missing = append(missing, "delivery date")
	}
	return missing
}
