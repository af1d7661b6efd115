package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"gostspec/internal/config"
	"gostspec/internal/core"
)

// app carries the state shared by subcommands once configuration is loaded.
type app struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsAddr string

	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *core.PrometheusMetricsRecorder
	tracer   *core.JSONTraceTracer
	closers  []func() error
}

// execute runs one command line and releases everything setup acquired.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd, a := newRootCmd()
	defer func() { _ = a.teardown() }()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "gostspec",
		Short: "GOST specification automation for MEP models",
		Long: `gostspec prepares building models for GOST 21.110 equipment specifications.

It copies system names and specification parameters onto elements, numbers
positions per system in display order and generates one specification
schedule per system. Models live in a memory, sqlite or postgres store and
exported schedules go to a filesystem directory or an S3 bucket.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file path (YAML); defaults to gostspec.yaml in the working directory or a parent")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (text, json)")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	cmd.AddCommand(
		importCmd(a),
		dumpCmd(a),
		copyCmd(a),
		numberCmd(a),
		generateCmd(a),
		exportCmd(a),
		batchCmd(a),
		watchCmd(a),
		versionCmd(),
	)
	return cmd, a
}

func (a *app) setup(cmd *cobra.Command) error {
	bootstrap := newLogger(cmd.ErrOrStderr(), "warn", "text")
	cfg, err := config.NewLoader(bootstrap).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = strings.ToLower(a.logLevel)
	}
	if a.logFormat != "" {
		cfg.Log.Format = strings.ToLower(a.logFormat)
	}
	if a.metricsAddr != "" {
		cfg.Metrics.Addr = a.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if a.metrics, err = core.NewPrometheusMetricsRecorder(a.registry); err != nil {
		return err
	}
	if cfg.Metrics.TracePath != "" {
		f, err := os.OpenFile(cfg.Metrics.TracePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		a.tracer = core.NewJSONTracer(f)
		a.closers = append(a.closers, f.Close)
	}
	if cfg.Metrics.Addr != "" {
		if err := a.serveMetrics(cfg.Metrics.Addr); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) teardown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *app) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", ln.Addr().String())
	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
	return nil
}

// service returns a core service over store configured from the loaded config.
func (a *app) service(store core.PersistentModelStore) *core.Service {
	opts := []core.ServiceOption{
		core.WithLogger(a.logger),
		core.WithAuditRecorder(auditLog{logger: a.logger}),
		core.WithMetricsRecorder(a.metrics),
		core.WithParameterNames(a.cfg.Parameters),
		core.WithScheduleNames(a.cfg.Schedules),
	}
	if a.tracer != nil {
		opts = append(opts, core.WithTracer(a.tracer))
	}
	return core.NewService(store, opts...)
}

// withStore opens the configured model store for the duration of fn.
func (a *app) withStore(ctx context.Context, fn func(core.PersistentModelStore) error) error {
	store, err := core.OpenModelStore(ctx, a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	err = fn(store)
	if cerr := core.CloseModelStore(store); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// auditLog writes audit entries to the process log.
type auditLog struct {
	logger *slog.Logger
}

func (l auditLog) Record(ctx context.Context, e core.AuditEntry) {
	attrs := []slog.Attr{
		slog.String("operation", e.Operation),
		slog.String("run_id", e.RunID),
		slog.String("status", string(e.Status)),
		slog.Duration("duration", e.Duration),
	}
	if e.Error != "" {
		attrs = append(attrs, slog.String("error", e.Error))
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "gostspec version %s\n", version)
		},
	}
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	return cmd
}
