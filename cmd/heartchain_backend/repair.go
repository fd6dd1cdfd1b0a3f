package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func repairCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Resume donations left half-reconciled by a failed webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.services.Reconciliation.ReconcilePending(cmd.Context(), limit)
			if err != nil {
				logger.Error("Repair run failed", slog.String("error", err.Error()))
				return err
			}
			logger.Info("Repair run finished",
				slog.Int("scanned", report.Scanned),
				slog.Int("reconciled", report.Reconciled),
				slog.Int("failed", report.Failed),
				slog.Int("skipped", report.Skipped),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "scanned=%d reconciled=%d failed=%d skipped=%d\n",
				report.Scanned, report.Reconciled, report.Failed, report.Skipped)
			if report.Failed > 0 {
				return fmt.Errorf("%d donations could not be reconciled", report.Failed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of donations to resume")
	return cmd
}
