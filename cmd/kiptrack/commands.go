package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cnds86/kiptrack/internal/app"
	"github.com/cnds86/kiptrack/internal/config"
	"github.com/cnds86/kiptrack/internal/models"
)

// loadTimeout bounds how long a command waits for the ledger document.
const loadTimeout = 30 * time.Second

// opener returns a started ledger.
type opener func(ctx context.Context) (*app.App, error)

func openFromEnv(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.Open(ctx, cfg, nil)
}

// withLedger opens the ledger, waits for it to load, runs fn and flushes
// whatever fn changed before returning.
func withLedger(cmd *cobra.Command, open opener, fn func(*app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ledger, err := open(ctx)
	if err != nil {
		return err
	}

	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	if err := ledger.WaitLoaded(loadCtx); err != nil {
		_ = ledger.Close(ctx)
		return err
	}

	runErr := fn(ledger)
	if err := ledger.Close(ctx); err != nil && runErr == nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return runErr
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "kiptrack",
		Short:         "Maintenance commands for a KipTrack ledger",
		Long:          "kiptrack exports, restores and maintains the ledger document selected by STORAGE_BACKEND and USER_KEY.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newExportCmd(open),
		newExportCSVCmd(open),
		newImportCmd(open),
		newProcessRecurringCmd(open),
		newSetBaseCmd(open),
	)
	return root
}

// outputWriter returns the file named by path, or stdout when path is empty or "-".
func outputWriter(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newExportCmd(open opener) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, open, func(a *app.App) error {
				w, done, err := outputWriter(cmd, output)
				if err != nil {
					return err
				}
				if err := a.Services.Backup.Export(w); err != nil {
					_ = done()
					return err
				}
				return done()
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file (default stdout)")
	return cmd
}

func newExportCSVCmd(open opener) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Write all transactions as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, open, func(a *app.App) error {
				w, done, err := outputWriter(cmd, output)
				if err != nil {
					return err
				}
				if err := a.Services.Backup.ExportTransactionsCSV(w); err != nil {
					_ = done()
					return err
				}
				return done()
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file (default stdout)")
	return cmd
}

func newImportCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Restore collections from a JSON backup",
		Long:  "Every collection present in the backup replaces the current one. Collections missing from the file are left alone.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withLedger(cmd, open, func(a *app.App) error {
				restored, err := a.Services.Backup.Import(f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored: %s\n", strings.Join(restored, ", "))
				return nil
			})
		},
	}
}

func newProcessRecurringCmd(open opener) *cobra.Command {
	var today string
	cmd := &cobra.Command{
		Use:   "process-recurring",
		Short: "Record every recurring transaction that has fallen due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if today == "" {
				today = models.FormatDate(time.Now())
			}
			if _, err := models.ParseDate(today); err != nil {
				return fmt.Errorf("invalid --today: %w", err)
			}
			return withLedger(cmd, open, func(a *app.App) error {
				result, err := a.Services.Recurring.ProcessDue(today)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "recorded %d transaction(s)\n", len(result.Materialized))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "processing date as YYYY-MM-DD (default today)")
	return cmd
}

func newSetBaseCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set-base <code>",
		Short: "Make a configured currency the base currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			return withLedger(cmd, open, func(a *app.App) error {
				if err := a.Services.Currencies.SetBaseCurrency(code); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "base currency is now %s\n", code)
				return nil
			})
		},
	}
}
