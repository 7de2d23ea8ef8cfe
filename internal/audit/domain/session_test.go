package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"energy_audit_backend/internal/classify"
	"energy_audit_backend/internal/energy"
	"energy_audit_backend/internal/quality"
	"energy_audit_backend/internal/thermal"
	"energy_audit_backend/platform/apperr"
)

var now = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

func validContact() ContactData {
	return ContactData{
		ClientName:  "Bytový dom Ruzinov",
		ClientEmail: "sprava@bd-ruzinov.sk",
		SiteAddress: "Mierová 12, Bratislava",
		Auditor:     Qualification{Name: "Ing. Kovac", YearsExperience: 5, Certifications: []string{"EA-2021-114"}},
	}
}

func validMeeting() OpeningMeetingData {
	return OpeningMeetingData{
		HeldAt:        now,
		Attendees:     []string{"Ing. Kovac", "správca"},
		TopicsCovered: append([]string{}, RequiredMeetingTopics...),
	}
}

func validCollection() CollectionData {
	return CollectionData{
		Building: BuildingInfo{
			Subtype:          classify.SingleFamily,
			HeatedFloorArea:  160,
			HeatedVolume:     430,
			ConstructionYear: 1987,
		},
		Profiles: []ConsumptionProfile{
			{Carrier: classify.NaturalGas, AnnualConsumption: 18000, AnnualCost: 1500, Method: quality.MethodAnnualBills},
		},
	}
}

func validFieldVisit() FieldVisitData {
	return FieldVisitData{
		VisitedAt: now,
		Constructions: []thermal.Construction{
			{
				Name: "facade",
				Type: thermal.ExternalWall,
				Area: 180,
				Layers: []thermal.MaterialLayer{
					{Name: "brick", Thickness: 0.38, Conductivity: 0.8, Density: 1800, SpecificHeat: 1000, VaporResistance: 16},
				},
			},
		},
		Ventilation: energy.Ventilation{Volume: 430, ConstructionYear: 1987},
	}
}

func validAnalysis() AnalysisResult {
	return AnalysisResult{
		EnergyClass:           "C",
		SpecificPrimaryEnergy: 180,
		EnPIs:                 []EnPI{{Name: "specific primary energy", Value: 180, Unit: "kWh/m2a"}},
	}
}

func validReport() ReportData {
	return ReportData{
		Title:            "Energetický audit, Mierová 12",
		ExecutiveSummary: "Budova je v triede C; zateplenie fasády je prioritné opatrenie.",
		DeliveredAt:      now,
	}
}

func completedSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(uuid.New(), AuditBuilding, now)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	steps := []PhasePayload{
		validContact(), validMeeting(), validCollection(), validFieldVisit(), validAnalysis(), validReport(),
	}
	for _, p := range steps {
		if err := s.Advance(p, now); err != nil {
			t.Fatalf("Advance(%s): %v", p.Phase(), err)
		}
	}
	return s
}

func TestFullWorkflow(t *testing.T) {
	s := completedSession(t)
	if s.Phase != PhaseCompleted {
		t.Fatalf("final phase = %q, want completed", s.Phase)
	}
	if s.Contact == nil || s.Meeting == nil || s.Collection == nil || s.FieldVisit == nil || s.Analysis == nil || s.Report == nil {
		t.Fatal("all phase payloads must be accumulated on the session")
	}
	if err := s.Advance(validReport(), now); err == nil {
		t.Fatal("a completed audit must accept no further transitions")
	}
}

func TestSkippingPhasesRejected(t *testing.T) {
	s, err := NewSession(uuid.New(), AuditBuilding, now)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Advance(validContact(), now); err != nil {
		t.Fatalf("Advance(contact): %v", err)
	}
	if err := s.Advance(validMeeting(), now); err != nil {
		t.Fatalf("Advance(meeting): %v", err)
	}

	// data_collection -> reporting, skipping field visit and analysis.
	err = s.Advance(validReport(), now)
	if err == nil {
		t.Fatal("skipping phases must be rejected")
	}
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("skip rejection kind = %v, want conflict", apperr.GetKind(err))
	}
	if s.Phase != PhaseDataCollection {
		t.Fatalf("failed transition must leave the session untouched, phase = %q", s.Phase)
	}
}

func TestReenteringPhaseRejected(t *testing.T) {
	s, err := NewSession(uuid.New(), AuditBuilding, now)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Advance(validContact(), now); err != nil {
		t.Fatalf("Advance(contact): %v", err)
	}
	if err := s.Advance(validContact(), now); err == nil {
		t.Fatal("re-entering a completed phase must be rejected")
	}
}

func TestMissingRequirementsFailClosed(t *testing.T) {
	s, err := NewSession(uuid.New(), AuditBuilding, now)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	contact := validContact()
	contact.ClientEmail = ""
	contact.SiteAddress = ""

	err = s.Advance(contact, now)
	if err == nil {
		t.Fatal("incomplete contact data must be rejected")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindIncomplete {
		t.Fatalf("expected incomplete-data error, got %v", err)
	}
	missing, ok := appErr.Details.([]string)
	if !ok {
		t.Fatalf("details must carry the missing items, got %T", appErr.Details)
	}
	if !reflect.DeepEqual(missing, []string{"client email", "site address"}) {
		t.Fatalf("missing items = %v", missing)
	}
	if s.Phase != PhaseContact {
		t.Fatalf("rejected transition must not advance, phase = %q", s.Phase)
	}
}

func TestAuditorExperienceFloor(t *testing.T) {
	// Industry audits require 3 years; buildings and transport 2.
	cases := []struct {
		auditType AuditType
		years     int
		ok        bool
	}{
		{AuditBuilding, 2, true},
		{AuditBuilding, 1, false},
		{AuditIndustry, 3, true},
		{AuditIndustry, 2, false},
		{AuditTransport, 2, true},
		{AuditTransport, 1, false},
	}
	for _, tc := range cases {
		s, err := NewSession(uuid.New(), tc.auditType, now)
		if err != nil {
			t.Fatalf("NewSession(%s): %v", tc.auditType, err)
		}
		contact := validContact()
		contact.Auditor.YearsExperience = tc.years
		err = s.Advance(contact, now)
		if tc.ok && err != nil {
			t.Fatalf("%s with %d years rejected: %v", tc.auditType, tc.years, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s with %d years must be rejected", tc.auditType, tc.years)
		}
	}
}

func TestOpeningMeetingRequiresAllTopics(t *testing.T) {
	s, err := NewSession(uuid.New(), AuditBuilding, now)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Advance(validContact(), now); err != nil {
		t.Fatalf("Advance(contact): %v", err)
	}

	meeting := validMeeting()
	meeting.TopicsCovered = []string{"audit_objectives", "timeline"}

	err = s.Advance(meeting, now)
	if err == nil {
		t.Fatal("meeting without all required topics must be rejected")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	missing, _ := appErr.Details.([]string)
	if len(missing) != 4 {
		t.Fatalf("expected 4 missing topics, got %v", missing)
	}
}

func TestUnknownAuditTypeRejected(t *testing.T) {
	if _, err := NewSession(uuid.New(), AuditType("aviation"), now); err == nil {
		t.Fatal("unknown audit type must be rejected")
	}
}

func TestRequiredNextSteps(t *testing.T) {
	s, err := NewSession(uuid.New(), AuditIndustry, now)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	steps := s.RequiredNextSteps()
	if len(steps) == 0 {
		t.Fatal("fresh session must list contact-phase requirements")
	}

	done := completedSession(t)
	if steps := done.RequiredNextSteps(); steps != nil {
		t.Fatalf("completed audit must have no next steps, got %v", steps)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	original := completedSession(t)

	doc, err := original.MarshalDocument()
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}
	restored, err := UnmarshalDocument(doc)
	if err != nil {
		t.Fatalf("UnmarshalDocument: %v", err)
	}

	if restored.Phase != original.Phase {
		t.Fatalf("phase %q != %q after round trip", restored.Phase, original.Phase)
	}
	if !reflect.DeepEqual(restored, original) {
		t.Fatal("session must survive the document round trip unchanged")
	}
}

func TestUnmarshalDocumentRejectsBadState(t *testing.T) {
	if _, err := UnmarshalDocument([]byte(`{"phase":"limbo","auditType":"building"}`)); err == nil {
		t.Fatal("unknown phase must be rejected")
	}
	if _, err := UnmarshalDocument([]byte(`{"phase":"contact","auditType":"aviation"}`)); err == nil {
		t.Fatal("unknown audit type must be rejected")
	}
	if _, err := UnmarshalDocument([]byte(`{broken`)); err == nil {
		t.Fatal("malformed JSON must be rejected")
	}
}

func TestPhaseOrder(t *testing.T) {
	next, ok := PhaseContact.Next()
	if !ok || next != PhaseOpeningMeeting {
		t.Fatalf("contact.Next() = %q, want opening_meeting", next)
	}
	if _, ok := PhaseCompleted.Next(); ok {
		t.Fatal("completed must have no successor")
	}
	if !PhaseCompleted.Terminal() {
		t.Fatal("completed must be terminal")
	}
	if PhaseAnalysis.Index() <= PhaseFieldVisit.Index() {
		t.Fatal("analysis must follow field visit")
	}
}
