// Package transport defines the wire DTOs of the audit API and their
// mapping onto the domain payload types. Validator tags catch malformed
// requests before the domain's own requirement checks run.
package transport

import (
	"time"

	"energy_audit_backend/internal/audit/domain"
	"energy_audit_backend/internal/classify"
	"energy_audit_backend/internal/energy"
	"energy_audit_backend/internal/finance"
	"energy_audit_backend/internal/quality"
	"energy_audit_backend/internal/thermal"
	"energy_audit_backend/platform/phone"

	"github.com/google/uuid"
)

// CreateSessionRequest opens a new audit.
type CreateSessionRequest struct {
	AuditType string `json:"auditType" validate:"required,oneof=building industry transport"`
}

// ContactRequest completes the contact phase.
type ContactRequest struct {
	ClientName  string `json:"clientName" validate:"required"`
	ClientEmail string `json:"clientEmail" validate:"required,email"`
	ClientPhone string `json:"clientPhone,omitempty"`
	SiteAddress string `json:"siteAddress" validate:"required"`
	Auditor     struct {
		Name            string   `json:"name" validate:"required"`
		YearsExperience int      `json:"yearsExperience" validate:"gte=0"`
		Certifications  []string `json:"certifications,omitempty"`
	} `json:"auditor"`
}

// ToDomain maps the request onto the phase payload. The client phone is
// normalized to E.164 on the way in.
func (r ContactRequest) ToDomain() domain.ContactData {
	return domain.ContactData{
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		ClientPhone: phone.NormalizeE164(r.ClientPhone),
		SiteAddress: r.SiteAddress,
		Auditor: domain.Qualification{
			Name:            r.Auditor.Name,
			YearsExperience: r.Auditor.YearsExperience,
			Certifications:  r.Auditor.Certifications,
		},
	}
}

// MeetingRequest completes the opening meeting phase.
type MeetingRequest struct {
	HeldAt        time.Time `json:"heldAt" validate:"required"`
	Attendees     []string  `json:"attendees" validate:"required,min=1"`
	TopicsCovered []string  `json:"topicsCovered" validate:"required"`
	Notes         string    `json:"notes,omitempty"`
}

func (r MeetingRequest) ToDomain() domain.OpeningMeetingData {
	return domain.OpeningMeetingData{
		HeldAt:        r.HeldAt,
		Attendees:     r.Attendees,
		TopicsCovered: r.TopicsCovered,
		Notes:         r.Notes,
	}
}

// ConsumptionProfileDTO is one carrier's documented consumption.
type ConsumptionProfileDTO struct {
	Carrier           string    `json:"carrier" validate:"required"`
	AnnualConsumption float64   `json:"annualConsumption" validate:"gte=0"`
	AnnualCost        float64   `json:"annualCost" validate:"gte=0"`
	Method            string    `json:"method" validate:"required"`
	MonthlyBreakdown  []float64 `json:"monthlyBreakdown,omitempty" validate:"omitempty,len=12"`
	Uncertainty       *float64  `json:"uncertainty,omitempty" validate:"omitempty,gte=0,lte=100"`
	MeasuredAt        time.Time `json:"measuredAt,omitempty"`
}

// CollectionRequest completes the data-collection phase.
type CollectionRequest struct {
	Building struct {
		Subtype          string  `json:"subtype" validate:"required"`
		HeatedFloorArea  float64 `json:"heatedFloorArea" validate:"gt=0"`
		HeatedVolume     float64 `json:"heatedVolume" validate:"gt=0"`
		ConstructionYear int     `json:"constructionYear" validate:"gt=1800"`
	} `json:"building"`
	Profiles []ConsumptionProfileDTO `json:"profiles" validate:"required,min=1,dive"`
}

func (r CollectionRequest) ToDomain() domain.CollectionData {
	profiles := make([]domain.ConsumptionProfile, 0, len(r.Profiles))
	for _, p := range r.Profiles {
		profiles = append(profiles, domain.ConsumptionProfile{
			Carrier:           classify.Carrier(p.Carrier),
			AnnualConsumption: p.AnnualConsumption,
			AnnualCost:        p.AnnualCost,
			Method:            quality.Method(p.Method),
			MonthlyBreakdown:  p.MonthlyBreakdown,
			Uncertainty:       p.Uncertainty,
			MeasuredAt:        p.MeasuredAt,
		})
	}
	return domain.CollectionData{
		Building: domain.BuildingInfo{
			Subtype:          classify.BuildingSubtype(r.Building.Subtype),
			HeatedFloorArea:  r.Building.HeatedFloorArea,
			HeatedVolume:     r.Building.HeatedVolume,
			ConstructionYear: r.Building.ConstructionYear,
		},
		Profiles: profiles,
	}
}

// LayerDTO is one material layer, inside to outside.
type LayerDTO struct {
	Name            string  `json:"name" validate:"required"`
	Thickness       float64 `json:"thickness" validate:"gt=0"`
	Conductivity    float64 `json:"conductivity" validate:"gt=0"`
	Density         float64 `json:"density" validate:"gte=0"`
	SpecificHeat    float64 `json:"specificHeat" validate:"gte=0"`
	VaporResistance float64 `json:"vaporResistance" validate:"gte=0"`
}

// BridgeDTO is one thermal bridge on a construction.
type BridgeDTO struct {
	Kind        string  `json:"kind" validate:"required,oneof=linear point area"`
	Description string  `json:"description,omitempty"`
	Extent      float64 `json:"extent,omitempty" validate:"gte=0"`
	Coefficient float64 `json:"coefficient" validate:"gte=0"`
}

// ConstructionDTO is one surveyed envelope element.
type ConstructionDTO struct {
	Name    string      `json:"name" validate:"required"`
	Type    string      `json:"type" validate:"required"`
	Area    float64     `json:"area" validate:"gt=0"`
	Layers  []LayerDTO  `json:"layers" validate:"required,min=1,dive"`
	Bridges []BridgeDTO `json:"bridges,omitempty" validate:"omitempty,dive"`
}

// ToDomain maps the DTO onto the thermal value type. The calculations
// module reuses it for the stateless calculator endpoints.
func (d ConstructionDTO) ToDomain() thermal.Construction {
	layers := make([]thermal.MaterialLayer, 0, len(d.Layers))
	for _, l := range d.Layers {
		layers = append(layers, thermal.MaterialLayer{
			Name:            l.Name,
			Thickness:       l.Thickness,
			Conductivity:    l.Conductivity,
			Density:         l.Density,
			SpecificHeat:    l.SpecificHeat,
			VaporResistance: l.VaporResistance,
		})
	}
	bridges := make([]thermal.ThermalBridge, 0, len(d.Bridges))
	for _, b := range d.Bridges {
		bridges = append(bridges, thermal.ThermalBridge{
			Kind:        thermal.BridgeKind(b.Kind),
			Description: b.Description,
			Extent:      b.Extent,
			Coefficient: b.Coefficient,
		})
	}
	return thermal.Construction{
		Name:    d.Name,
		Type:    thermal.ConstructionType(d.Type),
		Area:    d.Area,
		Layers:  layers,
		Bridges: bridges,
	}
}

// FieldVisitRequest completes the field-visit phase.
type FieldVisitRequest struct {
	VisitedAt     time.Time         `json:"visitedAt" validate:"required"`
	Constructions []ConstructionDTO `json:"constructions" validate:"required,min=1,dive"`
	Ventilation   struct {
		Volume           float64 `json:"volume" validate:"gt=0"`
		MeasuredN50      float64 `json:"measuredN50,omitempty" validate:"gte=0"`
		ConstructionYear int     `json:"constructionYear,omitempty"`
		MechanicalRate   float64 `json:"mechanicalRate,omitempty" validate:"gte=0"`
		HeatRecovery     float64 `json:"heatRecovery,omitempty" validate:"gte=0,lt=1"`
	} `json:"ventilation"`
	Apertures []struct {
		Area        float64 `json:"area" validate:"gt=0"`
		GValue      float64 `json:"gValue" validate:"gt=0,lte=1"`
		Orientation string  `json:"orientation" validate:"required"`
	} `json:"apertures,omitempty" validate:"omitempty,dive"`
	InternalGains struct {
		OccupancyPower float64 `json:"occupancyPower" validate:"gte=0"`
		EquipmentPower float64 `json:"equipmentPower" validate:"gte=0"`
		HoursPerDay    float64 `json:"hoursPerDay" validate:"gte=0,lte=24"`
		DaysPerWeek    float64 `json:"daysPerWeek" validate:"gte=0,lte=7"`
	} `json:"internalGains"`
	Observations []string `json:"observations,omitempty"`
}

func (r FieldVisitRequest) ToDomain() domain.FieldVisitData {
	constructions := make([]thermal.Construction, 0, len(r.Constructions))
	for _, c := range r.Constructions {
		constructions = append(constructions, c.ToDomain())
	}
	apertures := make([]energy.SolarAperture, 0, len(r.Apertures))
	for _, a := range r.Apertures {
		apertures = append(apertures, energy.SolarAperture{
			Area:        a.Area,
			GValue:      a.GValue,
			Orientation: a.Orientation,
		})
	}
	return domain.FieldVisitData{
		VisitedAt:     r.VisitedAt,
		Constructions: constructions,
		Ventilation: energy.Ventilation{
			Volume:           r.Ventilation.Volume,
			MeasuredN50:      r.Ventilation.MeasuredN50,
			ConstructionYear: r.Ventilation.ConstructionYear,
			MechanicalRate:   r.Ventilation.MechanicalRate,
			HeatRecovery:     r.Ventilation.HeatRecovery,
		},
		Apertures: apertures,
		InternalGains: energy.InternalGains{
			OccupancyPower: r.InternalGains.OccupancyPower,
			EquipmentPower: r.InternalGains.EquipmentPower,
			HoursPerDay:    r.InternalGains.HoursPerDay,
			DaysPerWeek:    r.InternalGains.DaysPerWeek,
		},
		Observations: r.Observations,
	}
}

// MeasureDTO is one proposed efficiency measure.
type MeasureDTO struct {
	Category      string             `json:"category" validate:"required"`
	Description   string             `json:"description,omitempty"`
	EnergySavings map[string]float64 `json:"energySavings,omitempty"`
	Investment    float64            `json:"investment" validate:"gte=0"`
	AnnualSavings float64            `json:"annualSavings" validate:"gte=0"`
	Lifetime      int                `json:"lifetime" validate:"gt=0"`
}

// AnalysisRequest triggers the analysis phase.
type AnalysisRequest struct {
	DiscountRate     float64      `json:"discountRate,omitempty" validate:"gte=0,lt=1"`
	SetPoint         float64      `json:"setPoint,omitempty" validate:"gte=0,lte=30"`
	SystemEfficiency float64      `json:"systemEfficiency,omitempty" validate:"gte=0,lte=1.2"`
	Measures         []MeasureDTO `json:"measures,omitempty" validate:"omitempty,dive"`
}

// ToMeasures maps the proposed measures, assigning ids.
func (r AnalysisRequest) ToMeasures() []finance.Measure {
	measures := make([]finance.Measure, 0, len(r.Measures))
	for _, m := range r.Measures {
		savings := make(map[classify.Carrier]float64, len(m.EnergySavings))
		for carrier, v := range m.EnergySavings {
			savings[classify.Carrier(carrier)] = v
		}
		measures = append(measures, finance.Measure{
			ID:            uuid.New(),
			Category:      m.Category,
			Description:   m.Description,
			EnergySavings: savings,
			Investment:    m.Investment,
			AnnualSavings: m.AnnualSavings,
			Lifetime:      m.Lifetime,
		})
	}
	return measures
}

// ReportRequest completes the reporting phase.
type ReportRequest struct {
	Title            string    `json:"title" validate:"required"`
	ExecutiveSummary string    `json:"executiveSummary" validate:"required"`
	DeliveredAt      time.Time `json:"deliveredAt" validate:"required"`
	Recommendations  []string  `json:"recommendations,omitempty"`
}

func (r ReportRequest) ToDomain() domain.ReportData {
	return domain.ReportData{
		Title:            r.Title,
		ExecutiveSummary: r.ExecutiveSummary,
		DeliveredAt:      r.DeliveredAt,
		Recommendations:  r.Recommendations,
	}
}

// SessionResponse is the API shape of a session.
type SessionResponse struct {
	ID        uuid.UUID       `json:"id"`
	AuditType string          `json:"auditType"`
	Phase     string          `json:"phase"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	NextSteps []string        `json:"nextSteps,omitempty"`
	Session   *domain.Session `json:"session,omitempty"`
}

// NewSessionResponse builds the response, optionally embedding the full
// session document.
func NewSessionResponse(s *domain.Session, full bool) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID,
		AuditType: string(s.AuditType),
		Phase:     string(s.Phase),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		NextSteps: s.RequiredNextSteps(),
	}
	if full {
		resp.Session = s
	}
	return resp
}
