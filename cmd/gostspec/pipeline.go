package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"gostspec/internal/infra/model/memory"
	"gostspec/internal/watch"
	"gostspec/pkg/domain"
)

// pipelineResult summarises one model file run through copy, number and
// generate.
type pipelineResult struct {
	File       string                   `json:"file"`
	Output     string                   `json:"output"`
	Copy       domain.CopyReport        `json:"copy"`
	Numbering  *domain.NumberingReport  `json:"numbering,omitempty"`
	Generation *domain.GenerationReport `json:"generation,omitempty"`
}

// processModel runs the full pipeline over the snapshot at in using an
// in-memory store and writes the result to out. A missing position or
// template schedule, or a schedule with nothing to number, skips the step.
func (a *app) processModel(ctx context.Context, in, out string) (pipelineResult, error) {
	res := pipelineResult{File: in, Output: out}
	snap, err := readSnapshot(in)
	if err != nil {
		return res, err
	}
	store := memory.NewStore()
	if err := store.ImportState(snap); err != nil {
		return res, fmt.Errorf("import %s: %w", in, err)
	}
	svc := a.service(store)

	if res.Copy, err = svc.CopyParameters(ctx); err != nil {
		return res, err
	}
	numbering, err := svc.NumberPositions(ctx, "")
	switch {
	case err == nil:
		res.Numbering = &numbering
	case skippable(err):
		a.logger.Warn("numbering skipped", "file", in, "error", err)
	default:
		return res, err
	}
	generation, err := svc.GenerateSchedules(ctx, "", "")
	switch {
	case err == nil:
		res.Generation = &generation
	case skippable(err):
		a.logger.Warn("generation skipped", "file", in, "error", err)
	default:
		return res, err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}
	if err := writeSnapshot(out, store.ExportState()); err != nil {
		return res, err
	}
	a.logger.Info("model processed", "file", in, "output", out, "system_writes", res.Copy.SystemWrites())
	return res, nil
}

func skippable(err error) bool {
	var notFound domain.ErrScheduleNotFound
	return errors.As(err, &notFound) || errors.Is(err, domain.ErrNothingToNumber)
}

// within reports whether path lies inside dir.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func batchCmd(a *app) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "batch <glob>",
		Short: "Process every matching JSON model file",
		Long: `Process every model snapshot matching a glob (** is supported).

Each file is imported into a fresh in-memory store, run through copy, number
and generate, and written below --out keeping its path relative to the glob
base. Files already below --out are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := filepath.ToSlash(args[0])
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid glob %q", args[0])
			}
			base, _ := doublestar.SplitPattern(pattern)
			matches, err := doublestar.FilepathGlob(args[0], doublestar.WithFilesOnly())
			if err != nil {
				return fmt.Errorf("glob %s: %w", args[0], err)
			}
			absOut, err := filepath.Abs(outDir)
			if err != nil {
				return err
			}
			var (
				results []pipelineResult
				failed  []error
			)
			for _, match := range matches {
				if abs, err := filepath.Abs(match); err == nil && within(abs, absOut) {
					continue
				}
				rel, err := filepath.Rel(filepath.FromSlash(base), match)
				if err != nil {
					rel = filepath.Base(match)
				}
				res, err := a.processModel(cmd.Context(), match, filepath.Join(outDir, rel))
				if err != nil {
					a.logger.Error("model failed", "file", match, "error", err)
					failed = append(failed, fmt.Errorf("%s: %w", match, err))
					continue
				}
				results = append(results, res)
			}
			if len(results) == 0 && len(failed) == 0 {
				return fmt.Errorf("no model files match %s", args[0])
			}
			if err := printJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			return errors.Join(failed...)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "out", "output directory")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	var (
		outDir   string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Process JSON model files below dir whenever their content changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := args[0]
			if outDir == "" {
				outDir = filepath.Join(dir, "out")
			}
			cfg := watch.DefaultConfig()
			cfg.Debounce = debounce
			if absDir, err := filepath.Abs(dir); err == nil {
				if absOut, err := filepath.Abs(outDir); err == nil && within(absOut, absDir) {
					cfg.ExcludeDirs = append(cfg.ExcludeDirs, filepath.Base(absOut))
				}
			}
			w, err := watch.New(cfg, dir, a.logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer func() { _ = w.Stop() }()
			known, err := w.Prime()
			if err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}
			a.logger.Debug("existing model files", "count", len(known))
			if err := w.Start(ctx); err != nil {
				return err
			}
			for ev := range w.Events() {
				switch ev.Operation {
				case watch.OpDelete:
					a.logger.Info("model file removed", "file", ev.Path)
				default:
					res, err := a.processModel(ctx, ev.AbsPath, filepath.Join(outDir, filepath.FromSlash(ev.Path)))
					if err != nil {
						a.logger.Error("model failed", "file", ev.Path, "error", err)
						continue
					}
					if err := printJSON(cmd.OutOrStdout(), res); err != nil {
						return err
					}
				}
			}
			if ctx.Err() != nil {
				return nil
			}
			return errors.New("watcher stopped")
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default <dir>/out)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultConfig().Debounce, "quiet period before a change is processed")
	return cmd
}
