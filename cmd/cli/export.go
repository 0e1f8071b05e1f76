package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobler41/EV-Parking-Simulation/internal/export"
	"github.com/bobler41/EV-Parking-Simulation/internal/model"
	"github.com/bobler41/EV-Parking-Simulation/internal/store"
)

func newExportCmd() *cobra.Command {
	var (
		dbPath   string
		runID    string
		csvDir   string
		xlsxPath string
		pdfPath  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored simulation run from the service database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if csvDir == "" && xlsxPath == "" && pdfPath == "" {
				return errors.New("nothing to export: set --csv-dir, --xlsx or --pdf")
			}
			st, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", dbPath, err)
			}
			defer func() { _ = st.Close() }()

			rep, err := loadReport(cmd.Context(), st, runID)
			if err != nil {
				return err
			}
			return writeOutputs(cmd.OutOrStdout(), *rep, csvDir, xlsxPath, pdfPath)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "evsim.db", "service SQLite database")
	cmd.Flags().StringVar(&runID, "run", "", "simulation run id")
	cmd.Flags().StringVar(&csvDir, "csv-dir", "", "write exemplary_day.csv and event_counts.csv here")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an XLSX workbook here")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF report here")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func loadReport(ctx context.Context, st store.Store, runID string) (*export.Report, error) {
	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if run.Status != model.RunSucceeded {
		return nil, fmt.Errorf("run %s is %s", runID, run.Status)
	}
	in, err := st.GetInputSet(ctx, run.InputSetID)
	if err != nil {
		return nil, fmt.Errorf("input set %s: %w", run.InputSetID, err)
	}
	points, err := st.ExemplaryDay(ctx, runID)
	if err != nil {
		return nil, err
	}
	aggs, err := st.EventCounts(ctx, runID, "")
	if err != nil {
		return nil, err
	}
	return &export.Report{
		InputSet: *in,
		Result:   model.RunResult{Run: *run, ExemplaryDay: points, EventAggs: aggs},
	}, nil
}
