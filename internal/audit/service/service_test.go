package service

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"energy_audit_backend/internal/audit/domain"
	"energy_audit_backend/internal/audit/repository"
	"energy_audit_backend/internal/classify"
	"energy_audit_backend/internal/energy"
	"energy_audit_backend/internal/events"
	"energy_audit_backend/internal/finance"
	"energy_audit_backend/internal/quality"
	"energy_audit_backend/internal/reference"
	"energy_audit_backend/internal/thermal"
	"energy_audit_backend/platform/apperr"
	platformevents "energy_audit_backend/platform/events"
	"energy_audit_backend/platform/logger"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.EventName()
	}
	return names
}

func newTestService(t *testing.T) (*Service, *platformevents.InMemoryBus, *eventRecorder) {
	t.Helper()
	tables, err := reference.LoadEmbedded("slovakia")
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	log := logger.New("development")
	bus := platformevents.NewInMemoryBus(log)
	rec := &eventRecorder{}
	bus.Subscribe("audit.created", rec)
	bus.Subscribe("audit.phase.advanced", rec)
	bus.Subscribe("audit.completed", rec)

	svc := New(repository.NewMemory(), tables, bus, log)
	svc.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }
	return svc, bus, rec
}

func contactPayload() domain.ContactData {
	return domain.ContactData{
		ClientName:  "ZS Druzstevna",
		ClientEmail: "riaditel@zsdruzstevna.sk",
		SiteAddress: "Druzstevna 5, Trnava",
		Auditor:     domain.Qualification{Name: "Ing. Bielik", YearsExperience: 6},
	}
}

func meetingPayload() domain.OpeningMeetingData {
	return domain.OpeningMeetingData{
		HeldAt:        time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		Attendees:     []string{"Ing. Bielik", "riaditel"},
		TopicsCovered: domain.RequiredMeetingTopics,
	}
}

func collectionPayload() domain.CollectionData {
	u := 4.0
	return domain.CollectionData{
		Building: domain.BuildingInfo{
			Subtype:          classify.SingleFamily,
			HeatedFloorArea:  160,
			HeatedVolume:     430,
			ConstructionYear: 1996,
		},
		Profiles: []domain.ConsumptionProfile{
			{
				Carrier:           classify.NaturalGas,
				AnnualConsumption: 16000,
				AnnualCost:        1400,
				Method:            quality.MethodMonthlyReadings,
				Uncertainty:       &u,
				MeasuredAt:        time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			},
			{
				Carrier:           classify.Electricity,
				AnnualConsumption: 2600,
				AnnualCost:        700,
				Method:            quality.MethodAnnualBills,
			},
		},
	}
}

func fieldVisitPayload() domain.FieldVisitData {
	return domain.FieldVisitData{
		VisitedAt: time.Date(2026, 1, 28, 8, 0, 0, 0, time.UTC),
		Constructions: []thermal.Construction{
			{
				Name: "facade",
				Type: thermal.ExternalWall,
				Area: 190,
				Layers: []thermal.MaterialLayer{
					{Name: "brick", Thickness: 0.38, Conductivity: 0.8, Density: 1800, SpecificHeat: 1000, VaporResistance: 16},
					{Name: "EPS", Thickness: 0.08, Conductivity: 0.035, Density: 20, SpecificHeat: 1450, VaporResistance: 60},
				},
				Bridges: []thermal.ThermalBridge{
					{Kind: thermal.BridgeLinear, Description: "balcony slab", Extent: 14, Coefficient: 0.35},
				},
			},
			{
				Name: "roof",
				Type: thermal.Roof,
				Area: 110,
				Layers: []thermal.MaterialLayer{
					{Name: "concrete", Thickness: 0.18, Conductivity: 2.1, Density: 2400, SpecificHeat: 1000, VaporResistance: 100},
					{Name: "mineral wool", Thickness: 0.16, Conductivity: 0.04, Density: 100, SpecificHeat: 840, VaporResistance: 1},
				},
			},
		},
		Ventilation: energy.Ventilation{Volume: 430},
		Apertures: []energy.SolarAperture{
			{Area: 18, GValue: 0.63, Orientation: "south"},
		},
		InternalGains: energy.InternalGains{OccupancyPower: 280, EquipmentPower: 350, HoursPerDay: 12, DaysPerWeek: 7},
	}
}

func analysisMeasures() []finance.Measure {
	return []finance.Measure{
		{
			ID:            uuid.New(),
			Category:      "envelope",
			Description:   "additional facade insulation",
			EnergySavings: map[classify.Carrier]float64{classify.NaturalGas: 5200},
			Investment:    18000,
			AnnualSavings: 2100,
			Lifetime:      30,
		},
	}
}

func TestFullAuditThroughAnalysis(t *testing.T) {
	svc, bus, rec := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, domain.AuditBuilding)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, p := range []domain.PhasePayload{contactPayload(), meetingPayload(), collectionPayload(), fieldVisitPayload()} {
		if _, err := svc.Advance(ctx, sess.ID, p); err != nil {
			t.Fatalf("Advance(%s): %v", p.Phase(), err)
		}
	}

	updated, err := svc.RunAnalysis(ctx, sess.ID, AnalysisParams{Measures: analysisMeasures()})
	if err != nil {
		t.Fatalf("RunAnalysis: %v", err)
	}
	if updated.Phase != domain.PhaseReporting {
		t.Fatalf("phase after analysis = %q, want reporting", updated.Phase)
	}

	a := updated.Analysis
	if a == nil {
		t.Fatal("analysis result must be stored on the session")
	}
	// Gas 16000*1.1 + electricity 2600*2.5 = 24100 kWh primary on 160 m2.
	wantSpecific := 24100.0 / 160
	if math.Abs(a.SpecificPrimaryEnergy-wantSpecific) > 1e-9 {
		t.Fatalf("specific primary energy = %g, want %g", a.SpecificPrimaryEnergy, wantSpecific)
	}
	if a.EnergyClass != "C" {
		t.Fatalf("energy class = %s, want C for %.1f kWh/m2a", a.EnergyClass, wantSpecific)
	}
	if a.Balance.AnnualHeatingNeed <= 0 {
		t.Fatal("heat balance must yield a positive heating need")
	}
	if len(a.Condensation) != 2 {
		t.Fatalf("expected a condensation finding per construction, got %d", len(a.Condensation))
	}
	if len(a.EnPIs) == 0 {
		t.Fatal("analysis must produce EnPIs")
	}
	if len(a.Measures) != 1 || !a.Measures[0].IRRDefined {
		t.Fatalf("measure evaluation missing: %+v", a.Measures)
	}
	if res, ok := a.Quality[string(classify.NaturalGas)]; !ok || res.Level < quality.Calculated {
		t.Fatalf("monthly-read gas profile should assess at least calculated, got %+v", res)
	}

	report := domain.ReportData{
		Title:            "Energeticky audit ZS Druzstevna",
		ExecutiveSummary: "Trieda C; zateplenie fasady odporucane.",
		DeliveredAt:      time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
	}
	final, err := svc.Advance(ctx, sess.ID, report)
	if err != nil {
		t.Fatalf("Advance(reporting): %v", err)
	}
	if !final.Phase.Terminal() {
		t.Fatalf("phase = %q, want completed", final.Phase)
	}

	bus.Wait()
	var sawCompleted bool
	for _, name := range rec.names() {
		if name == "audit.completed" {
			sawCompleted = true
		}
	}
	if !sawCompleted {
		t.Fatal("completing the audit must publish audit.completed")
	}
}

func TestRunAnalysisWrongPhase(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, domain.AuditBuilding)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = svc.RunAnalysis(ctx, sess.ID, AnalysisParams{})
	if err == nil {
		t.Fatal("analysis in the contact phase must be rejected")
	}
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("kind = %v, want conflict", apperr.GetKind(err))
	}
}

func TestAdvanceUnknownSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Advance(context.Background(), uuid.New(), contactPayload()); err == nil {
		t.Fatal("advancing a missing session must fail")
	}
}

func TestAdvanceIncompletePayloadKeepsPhase(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, domain.AuditIndustry)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	bad := contactPayload()
	bad.Auditor.YearsExperience = 2 // industry requires 3

	if _, err := svc.Advance(ctx, sess.ID, bad); err == nil {
		t.Fatal("underqualified auditor must be rejected for an industry audit")
	}

	stored, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Phase != domain.PhaseContact {
		t.Fatalf("rejected transition persisted: phase = %q", stored.Phase)
	}
}

func TestList(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, domain.AuditBuilding); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	sessions, err := svc.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
}
