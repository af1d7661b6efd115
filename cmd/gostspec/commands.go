package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gostspec/internal/blob"
	"gostspec/internal/core"
	"gostspec/internal/infra/model/memory"
)

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <model.json>",
		Short: "Replace the stored model with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(store core.PersistentModelStore) error {
				if err := store.ImportState(snap); err != nil {
					return fmt.Errorf("import %s: %w", args[0], err)
				}
				a.logger.Info("model imported", "file", args[0], "elements", len(snap.Elements), "schedules", len(snap.Schedules))
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "imported %d elements and %d schedules\n", len(snap.Elements), len(snap.Schedules))
				return err
			})
		},
	}
}

func dumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [file]",
		Short: "Write the stored model as a JSON snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(store core.PersistentModelStore) error {
				snap := store.ExportState()
				if len(args) == 1 {
					return writeSnapshot(args[0], snap)
				}
				return printJSON(cmd.OutOrStdout(), snap)
			})
		},
	}
}

func copyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "copy",
		Short: "Propagate system names and fill specification parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), func(store core.PersistentModelStore) error {
				report, err := a.service(store).CopyParameters(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

func numberCmd(a *app) *cobra.Command {
	var schedule string
	cmd := &cobra.Command{
		Use:   "number",
		Short: "Number positions per system in schedule display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), func(store core.PersistentModelStore) error {
				report, err := a.service(store).NumberPositions(cmd.Context(), schedule)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "position schedule name (default from config)")
	return cmd
}

func generateCmd(a *app) *cobra.Command {
	var template, positions string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create one specification schedule per system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), func(store core.PersistentModelStore) error {
				report, err := a.service(store).GenerateSchedules(cmd.Context(), template, positions)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "template schedule name (default from config)")
	cmd.Flags().StringVar(&positions, "positions", "", "position schedule name (default from config)")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var (
		schedules []string
		prefix    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render schedules to CSV in the configured artifact store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			artifacts, err := blob.Open(ctx, a.cfg.Blob)
			if err != nil {
				return fmt.Errorf("open artifact store: %w", err)
			}
			return a.withStore(ctx, func(store core.PersistentModelStore) error {
				infos, err := a.service(store).ExportSchedules(ctx, schedules, artifacts, prefix)
				if err != nil {
					return err
				}
				a.logger.Info("schedules exported", "driver", string(artifacts.Driver()), "count", len(infos))
				return printJSON(cmd.OutOrStdout(), infos)
			})
		},
	}
	cmd.Flags().StringSliceVar(&schedules, "schedule", nil, "schedule to export (repeatable; default all)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix inside the artifact store")
	return cmd
}

func readSnapshot(path string) (memory.Snapshot, error) {
	var snap memory.Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read model: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode model %s: %w", path, err)
	}
	return snap, nil
}

func writeSnapshot(path string, snap memory.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := printJSON(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
