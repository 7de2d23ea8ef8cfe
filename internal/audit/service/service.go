// Package service implements the audit workflow use cases: session
// lifecycle, phase transitions, and the analysis-phase orchestration of
// the calculation engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"energy_audit_backend/internal/audit/domain"
	"energy_audit_backend/internal/classify"
	"energy_audit_backend/internal/energy"
	"energy_audit_backend/internal/events"
	"energy_audit_backend/internal/finance"
	"energy_audit_backend/internal/quality"
	"energy_audit_backend/internal/reference"
	"energy_audit_backend/internal/thermal"
	"energy_audit_backend/platform/apperr"
	"energy_audit_backend/platform/logger"
)

// Repository persists audit sessions.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	List(ctx context.Context, limit, offset int) ([]*domain.Session, error)
}

// Service coordinates sessions, the parameter tables, and the event bus.
type Service struct {
	repo   Repository
	tables *reference.TableSet
	bus    events.Bus
	log    *logger.Logger
	now    func() time.Time
}

// New creates the audit service.
func New(repo Repository, tables *reference.TableSet, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		tables: tables,
		bus:    bus,
		log:    log,
		now:    time.Now,
	}
}

// Create opens a new audit session in the contact phase.
func (s *Service) Create(ctx context.Context, auditType domain.AuditType) (*domain.Session, error) {
	sess, err := domain.NewSession(uuid.New(), auditType, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, events.AuditCreated{
		BaseEvent: events.NewBaseEvent(),
		AuditID:   sess.ID,
		AuditType: string(auditType),
	})
	return sess, nil
}

// Get loads one session.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of sessions.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Advance completes the session's current phase with the payload. The
// domain enforces the transition rules; this layer persists the outcome
// and publishes the workflow events.
func (s *Service) Advance(ctx context.Context, id uuid.UUID, payload domain.PhasePayload) (*domain.Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.advance(ctx, sess, payload)
}

func (s *Service) advance(ctx context.Context, sess *domain.Session, payload domain.PhasePayload) (*domain.Session, error) {
	from := sess.Phase
	if err := sess.Advance(payload, s.now().UTC()); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindIncomplete {
			missing, _ := appErr.Details.([]string)
			s.log.PhaseRejected(sess.ID.String(), string(sess.Phase), missing)
		}
		return nil, err
	}
	if err := s.repo.Update(ctx, sess); err != nil {
		return nil, err
	}

	s.log.PhaseTransition(sess.ID.String(), string(from), string(sess.Phase))
	s.bus.Publish(ctx, events.AuditPhaseAdvanced{
		BaseEvent: events.NewBaseEvent(),
		AuditID:   sess.ID,
		From:      string(from),
		To:        string(sess.Phase),
	})

	if sess.Phase.Terminal() {
		completed := events.AuditCompleted{
			BaseEvent: events.NewBaseEvent(),
			AuditID:   sess.ID,
		}
		if sess.Contact != nil {
			completed.ClientEmail = sess.Contact.ClientEmail
			completed.ClientName = sess.Contact.ClientName
		}
		if sess.Report != nil {
			completed.ReportTitle = sess.Report.Title
		}
		if sess.Analysis != nil {
			completed.EnergyClass = sess.Analysis.EnergyClass
		}
		s.bus.Publish(ctx, completed)
	}
	return sess, nil
}

// AnalysisParams tunes the analysis-phase computation.
type AnalysisParams struct {
	// DiscountRate for the financial evaluation; zero selects 4 %.
	DiscountRate float64
	// SetPoint overrides the 20 degC internal design temperature.
	SetPoint float64
	// Measures are the efficiency measures proposed by the auditor.
	Measures []finance.Measure
	// SystemEfficiency is the heating system's seasonal efficiency used to
	// turn heating need into delivered energy; zero selects 0.85.
	SystemEfficiency float64
}

// RunAnalysis executes the numeric components against the collected and
// surveyed data and advances the session into reporting. Analysis is the
// only phase that invokes the calculators.
func (s *Service) RunAnalysis(ctx context.Context, id uuid.UUID, params AnalysisParams) (*domain.Session, error) {
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Phase != domain.PhaseAnalysis {
		return nil, apperr.New(apperr.KindConflict, fmt.Sprintf("audit is in phase %q, not analysis", sess.Phase))
	}
	if sess.Collection == nil || sess.FieldVisit == nil {
		return nil, apperr.Incomplete("analysis needs collected and surveyed data", []string{"data collection", "field visit"})
	}

	result, err := s.computeAnalysis(sess, params)
	if err != nil {
		return nil, err
	}
	return s.advance(ctx, sess, result)
}

func (s *Service) computeAnalysis(sess *domain.Session, params AnalysisParams) (domain.AnalysisResult, error) {
	collection := *sess.Collection
	visit := *sess.FieldVisit

	ventilation := visit.Ventilation
	if ventilation.ConstructionYear == 0 {
		ventilation.ConstructionYear = collection.Building.ConstructionYear
	}

	balance, err := energy.SolveHeatBalance(energy.HeatBalanceInput{
		Envelope:      energy.Envelope{Constructions: visit.Constructions},
		Ventilation:   ventilation,
		Apertures:     visit.Apertures,
		InternalGains: visit.InternalGains,
		Climate:       s.tables.Climate,
		SetPoint:      params.SetPoint,
	})
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	systemEfficiency := params.SystemEfficiency
	if systemEfficiency == 0 {
		systemEfficiency = 0.85
	}
	delivered, err := energy.FinalEnergy(balance.AnnualHeatingNeed, systemEfficiency)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	consumptions := make([]classify.Consumption, 0, len(collection.Profiles))
	for _, p := range collection.Profiles {
		consumptions = append(consumptions, classify.Consumption{
			Carrier:     p.Carrier,
			FinalEnergy: p.AnnualConsumption,
		})
	}
	conversion, err := s.tables.Factors.Convert(consumptions)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	floorArea := collection.Building.HeatedFloorArea
	specificPE := conversion.PrimaryEnergy / floorArea

	class, err := s.tables.ClassTables().Classify(collection.Building.Subtype, specificPE)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	var condensation []domain.CondensationFinding
	for _, c := range visit.Constructions {
		glaser, err := thermal.AnalyzeCondensation(c, thermal.DefaultWinterClimate())
		if err != nil {
			return domain.AnalysisResult{}, err
		}
		condensation = append(condensation, domain.CondensationFinding{
			Construction: c.Name,
			Risk:         glaser.Risk,
		})
	}

	qualities := make(map[string]quality.Result, len(collection.Profiles))
	assessedAt := s.now().UTC()
	for _, p := range collection.Profiles {
		qualities[string(p.Carrier)] = quality.Assess(p.QualityRecord(), assessedAt)
	}

	rate := params.DiscountRate
	if rate == 0 {
		rate = 0.04
	}
	measures, err := finance.Prioritize(params.Measures, rate)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	enpis := []domain.EnPI{
		{Name: "specific_primary_energy", Value: specificPE, Unit: "kWh/m2a"},
		{Name: "specific_heating_need", Value: balance.AnnualHeatingNeed / floorArea, Unit: "kWh/m2a"},
		{Name: "delivered_heating_energy", Value: delivered, Unit: "kWh/a"},
		{Name: "co2_intensity", Value: conversion.CO2 / floorArea, Unit: "kg/m2a"},
	}

	return domain.AnalysisResult{
		Balance:               balance,
		Conversion:            conversion,
		SpecificPrimaryEnergy: specificPE,
		EnergyClass:           class,
		Condensation:          condensation,
		EnPIs:                 enpis,
		Measures:              measures,
		Quality:               qualities,
		Warnings:              balance.Warnings,
	}, nil
}
