package core

import (
	"context"
	"time"

	"gostspec/internal/params"
)

// Clock supplies timestamps for audit entries and reports.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now returns the current time reported by the function.
func (f ClockFunc) Now() time.Time { return f() }

// Logger is the structured logging surface used by services. *slog.Logger
// satisfies it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricsRecorder observes the outcome and latency of service operations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// ElementsRecorder is implemented by recorders that also track per-category
// element counts of a parameter copy run.
type ElementsRecorder interface {
	ObserveElements(ctx context.Context, category string, processed, skipped int)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended once with the operation result.
type TraceSpan interface {
	End(err error)
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// AuditStatus is the result recorded for an audited operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one completed service operation.
type AuditEntry struct {
	Operation string        `json:"operation"`
	RunID     string        `json:"run_id"`
	Status    AuditStatus   `json:"status"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// AuditRecorder receives an entry for every service operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, AuditEntry) {}

// ScheduleNames lists the schedule views and literals used by numbering and
// schedule generation.
type ScheduleNames struct {
	Position       string `yaml:"position"`
	Template       string `yaml:"template"`
	Prefix         string `yaml:"prefix"`
	SectionValue   string `yaml:"section_value"`
	HeaderTemplate string `yaml:"header"`
}

// DefaultScheduleNames returns the stock schedule names.
func DefaultScheduleNames() ScheduleNames {
	return ScheduleNames{
		Position:       "В_Спецификация по ГОСТ_Позиция",
		Template:       "# Спецификация для оформления",
		Prefix:         "О_Спецификация_",
		SectionValue:   "Автоспецификация",
		HeaderTemplate: "Система %s",
	}
}

// WithDefaults fills empty fields from DefaultScheduleNames.
func (n ScheduleNames) WithDefaults() ScheduleNames { return n.Fill(DefaultScheduleNames()) }

// Fill returns n with every empty field taken from d.
func (n ScheduleNames) Fill(d ScheduleNames) ScheduleNames {
	if n.Position == "" {
		n.Position = d.Position
	}
	if n.Template == "" {
		n.Template = d.Template
	}
	if n.Prefix == "" {
		n.Prefix = d.Prefix
	}
	if n.SectionValue == "" {
		n.SectionValue = d.SectionValue
	}
	if n.HeaderTemplate == "" {
		n.HeaderTemplate = d.HeaderTemplate
	}
	return n
}

type serviceOptions struct {
	clock     Clock
	logger    Logger
	audit     AuditRecorder
	metrics   MetricsRecorder
	tracer    Tracer
	names     params.Names
	schedules ScheduleNames
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		clock:     ClockFunc(func() time.Time { return time.Now().UTC() }),
		logger:    noopLogger{},
		audit:     noopAudit{},
		metrics:   noopMetrics{},
		tracer:    noopTracer{},
		names:     params.DefaultNames(),
		schedules: DefaultScheduleNames(),
	}
}

// ServiceOption customises a Service.
type ServiceOption func(*serviceOptions)

// WithClock overrides the clock used for timestamps.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAuditRecorder sets the audit sink.
func WithAuditRecorder(recorder AuditRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.audit = recorder
		}
	}
}

// WithMetricsRecorder sets the metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// WithTracer sets the span tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(o *serviceOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithParameterNames overrides parameter names; empty fields keep their defaults.
func WithParameterNames(names params.Names) ServiceOption {
	return func(o *serviceOptions) {
		o.names = names.WithDefaults()
	}
}

// WithScheduleNames overrides schedule names; empty fields keep their defaults.
func WithScheduleNames(names ScheduleNames) ServiceOption {
	return func(o *serviceOptions) {
		o.schedules = names.WithDefaults()
	}
}
