// Package core runs the specification operations (parameter copy, position
// numbering, schedule generation and export) against a model store.
package core

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gostspec/internal/blob"
	"gostspec/internal/export"
	"gostspec/pkg/domain"
)

// Operation names reported to loggers, metrics, tracers and audit sinks.
const (
	OpCopyParameters    = "copy_parameters"
	OpNumberPositions   = "number_positions"
	OpGenerateSchedules = "generate_schedules"
	OpExportSchedules   = "export_schedules"
)

// Service runs each operation inside one model store transaction.
type Service struct {
	store      domain.ModelStore
	opts       serviceOptions
	copier     *ParameterCopyService
	numbering  *NumberingService
	generation *ScheduleGenerationService
}

// NewService constructs a service backed by store.
func NewService(store domain.ModelStore, opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{
		store:      store,
		opts:       o,
		copier:     NewParameterCopyService(o.names, o.logger),
		numbering:  NewNumberingService(o.names, o.logger),
		generation: NewScheduleGenerationService(o.names, o.schedules, o.logger),
	}
}

// Store returns the underlying model store.
func (s *Service) Store() domain.ModelStore { return s.store }

// ScheduleNames returns the schedule names in effect.
func (s *Service) ScheduleNames() ScheduleNames { return s.opts.schedules }

// CopyParameters propagates system names and derives specification
// parameters for every supported element in one transaction.
func (s *Service) CopyParameters(ctx context.Context) (domain.CopyReport, error) {
	var report domain.CopyReport
	err := s.run(ctx, OpCopyParameters, func(ctx context.Context, runID string) error {
		return s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			r, err := s.copier.Execute(tx)
			if err != nil {
				return err
			}
			r.RunID = runID
			report = r
			return nil
		})
	})
	if err != nil {
		return domain.CopyReport{}, err
	}
	if rec, ok := s.opts.metrics.(ElementsRecorder); ok {
		for c, st := range report.Categories {
			rec.ObserveElements(ctx, c.String(), st.Processed, st.Skipped)
		}
	}
	s.opts.logger.Info("parameters copied",
		"run_id", report.RunID,
		"reserve", report.ReserveCoefficient,
		"system_writes", report.SystemWrites(),
	)
	return report, nil
}

// NumberPositions numbers the elements of the named position schedule. An
// empty name selects the configured default. The transaction is discarded
// when the schedule yields nothing to number.
func (s *Service) NumberPositions(ctx context.Context, scheduleName string) (domain.NumberingReport, error) {
	if scheduleName == "" {
		scheduleName = s.opts.schedules.Position
	}
	var report domain.NumberingReport
	err := s.run(ctx, OpNumberPositions, func(ctx context.Context, runID string) error {
		return s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			schedule, ok := tx.ScheduleByName(scheduleName)
			if !ok {
				return domain.ErrScheduleNotFound{Name: scheduleName}
			}
			r, err := s.numbering.Execute(tx, schedule)
			if err != nil {
				return fmt.Errorf("number %q: %w", scheduleName, err)
			}
			r.RunID = runID
			report = r
			return nil
		})
	})
	if err != nil {
		return domain.NumberingReport{}, err
	}
	return report, nil
}

// GenerateSchedules creates one schedule per system found in the position
// schedule. Empty names select the configured defaults.
func (s *Service) GenerateSchedules(ctx context.Context, templateName, positionName string) (domain.GenerationReport, error) {
	if templateName == "" {
		templateName = s.opts.schedules.Template
	}
	if positionName == "" {
		positionName = s.opts.schedules.Position
	}
	var report domain.GenerationReport
	err := s.run(ctx, OpGenerateSchedules, func(ctx context.Context, runID string) error {
		return s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			template, ok := tx.ScheduleByName(templateName)
			if !ok {
				return domain.ErrScheduleNotFound{Name: templateName}
			}
			positions, ok := tx.ScheduleByName(positionName)
			if !ok {
				return domain.ErrScheduleNotFound{Name: positionName}
			}
			r, err := s.generation.Execute(tx, template, positions)
			if err != nil {
				return err
			}
			r.RunID = runID
			report = r
			return nil
		})
	})
	if err != nil {
		return domain.GenerationReport{}, err
	}
	return report, nil
}

// ExportSchedules renders the named schedules, or all schedules when names
// is empty, to CSV and stores them in store under prefix.
func (s *Service) ExportSchedules(ctx context.Context, names []string, store blob.Store, prefix string) ([]blob.Info, error) {
	if store == nil {
		return nil, fmt.Errorf("export schedules: nil blob store")
	}
	var infos []blob.Info
	err := s.run(ctx, OpExportSchedules, func(ctx context.Context, runID string) error {
		return s.store.View(ctx, func(doc domain.Document) error {
			schedules, err := selectSchedules(doc, names)
			if err != nil {
				return err
			}
			for _, schedule := range schedules {
				data, err := export.Render(schedule)
				if err != nil {
					return err
				}
				info, err := store.Put(ctx, export.Key(prefix, schedule.Name(), runID), bytes.NewReader(data), blob.PutOptions{
					ContentType: export.ContentType,
					Metadata:    map[string]string{"schedule": schedule.Name(), "run-id": runID},
				})
				if err != nil {
					return fmt.Errorf("store schedule %q: %w", schedule.Name(), err)
				}
				infos = append(infos, info)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func selectSchedules(doc domain.Document, names []string) ([]domain.Schedule, error) {
	if len(names) == 0 {
		return doc.Schedules(), nil
	}
	out := make([]domain.Schedule, 0, len(names))
	for _, name := range names {
		schedule, ok := doc.ScheduleByName(name)
		if !ok {
			return nil, domain.ErrScheduleNotFound{Name: name}
		}
		out = append(out, schedule)
	}
	return out, nil
}

// run observes one operation: it assigns a run id, opens a span, and reports
// the result to the logger, metrics and audit sinks.
func (s *Service) run(ctx context.Context, operation string, fn func(ctx context.Context, runID string) error) error {
	runID := uuid.NewString()
	ctx = ContextWithRunID(ctx, runID)
	ctx, span := s.opts.tracer.Start(ctx, operation)
	started := time.Now()

	err := fn(ctx, runID)

	duration := time.Since(started)
	span.End(err)
	s.opts.metrics.Observe(ctx, operation, err == nil, duration)
	entry := AuditEntry{
		Operation: operation,
		RunID:     runID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.opts.clock.Now(),
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.opts.logger.Error("operation failed", "operation", operation, "run_id", runID, "error", err)
	} else {
		s.opts.logger.Debug("operation completed", "operation", operation, "run_id", runID, "duration", duration)
	}
	s.opts.audit.Record(ctx, entry)
	return err
}
