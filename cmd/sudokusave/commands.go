package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sudokucore/internal/archive"
	"sudokucore/internal/config"
	"sudokucore/internal/core"
)

type app struct {
	cfg    config.Config
	logger *zap.Logger
}

// service opens the configured store and archive. The returned func closes
// whatever needs closing.
func (a *app) service(ctx context.Context) (*core.Service, func(), error) {
	store, err := core.OpenGameStore(ctx, a.cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	closeStore := func() {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
	}
	arch, err := archive.Open(ctx, a.cfg.Archive)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}
	svc := core.NewService(store,
		core.WithLogger(a.logger),
		core.WithArchive(arch),
		core.WithMetrics(core.NewExpvarMetricsRecorder("")),
	)
	return svc, closeStore, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "sudokusave",
		Short:         "Inspect sudoku save files and manage saved games",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newInspectCmd(),
		newNewCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

func newInspectCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the board and decoded history of a save file ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				r = f
			}
			saved, err := archive.DecodeSave(r)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return inspect(cmd.OutOrStdout(), saved, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "also print the encoded board and history")
	return cmd
}

func newNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new <puzzle>",
		Short: "Start a saved game from an 81-character puzzle line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			g, err := svc.NewGame(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), g.ID())
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var archived bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved games, or archived save files with --archived",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if archived {
				objs, err := svc.Archived(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "KEY\tBYTES\tMODIFIED")
				for _, o := range objs {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", o.Key, o.Size, o.LastModified.Format(time.RFC3339))
				}
				return tw.Flush()
			}
			games, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "ID\tSTATE\tCOMMANDS\tELAPSED\tUPDATED")
			for _, g := range games {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", g.ID, g.State, g.CommandCount, g.Elapsed.Round(time.Second), g.UpdatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "list archived save files instead")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			existed, err := svc.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !existed {
				return fmt.Errorf("game %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var expiry time.Duration
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Copy a saved game into the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			obj, err := svc.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), obj.Key)
			url, err := svc.DownloadURL(cmd.Context(), obj.Key, expiry)
			switch {
			case errors.Is(err, archive.ErrUnsupported):
			case err != nil:
				a.logger.Warn("presign failed", zap.String("key", obj.Key), zap.Error(err))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&expiry, "url-expiry", 15*time.Minute, "lifetime of the download URL, where supported")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <key>",
		Short: "Load an archived save file into the game store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			g, err := svc.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d commands)\n", g.ID(), g.CommandCount())
			return nil
		},
	}
}
