package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobler41/EV-Parking-Simulation/internal/analysis"
	"github.com/bobler41/EV-Parking-Simulation/internal/config"
	"github.com/bobler41/EV-Parking-Simulation/internal/export"
	"github.com/bobler41/EV-Parking-Simulation/internal/model"
	"github.com/bobler41/EV-Parking-Simulation/internal/runner"
	"github.com/bobler41/EV-Parking-Simulation/internal/simulation"
)

type scenarioFlags struct {
	scenario     string
	chargePoints int
	multiplier   float64
	consumption  float64
	powerKW      float64
	seed         uint32
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.scenario, "scenario", "", "scenario preset YAML (flags below override it)")
	fl.IntVar(&f.chargePoints, "charge-points", 0, "number of charge points (default 20)")
	fl.Float64Var(&f.multiplier, "arrival-multiplier", 0, "arrival probability multiplier (default 1.0)")
	fl.Float64Var(&f.consumption, "consumption", 0, "vehicle consumption in kWh/100km (default 18)")
	fl.Float64Var(&f.powerKW, "power", 0, "charger power in kW (default 11)")
	fl.Uint32Var(&f.seed, "seed", 12345, "random seed")
}

// load merges, in increasing precedence: the built-in default, base, the
// --scenario preset and explicit flags.
func (f *scenarioFlags) load(base config.ScenarioConfig) (config.ScenarioConfig, error) {
	sc := config.MergeScenario(config.ScenarioConfig{ChargePoints: 20}, base)
	if f.scenario != "" {
		loaded, err := config.LoadScenario(f.scenario)
		if err != nil {
			return config.ScenarioConfig{}, err
		}
		sc = config.MergeScenario(sc, loaded)
	}
	return config.MergeScenario(sc, config.ScenarioConfig{
		ChargePoints:           f.chargePoints,
		ArrivalMultiplier:      f.multiplier,
		ConsumptionKWhPer100km: f.consumption,
		ChargerPowerKW:         f.powerKW,
	}), nil
}

func newRunCmd() *cobra.Command {
	var (
		flags    scenarioFlags
		runFile  string
		csvDir   string
		xlsxPath string
		pdfPath  string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one year and print the summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var base config.ScenarioConfig
			seed := flags.seed
			if runFile != "" {
				rc, err := config.LoadRunUnchecked(runFile)
				if err != nil {
					return fmt.Errorf("load run file: %w", err)
				}
				base = rc.Scenario
				if rc.Seed != nil && !cmd.Flags().Changed("seed") {
					seed = *rc.Seed
				}
				if csvDir == "" {
					csvDir = rc.Output.CSVDir
				}
				if xlsxPath == "" {
					xlsxPath = rc.Output.XLSXPath
				}
			}
			sc, err := flags.load(base)
			if err != nil {
				return err
			}
			in, err := sc.InputSet()
			if err != nil {
				return err
			}

			out, err := simulation.New().Run(simulation.Input{
				ChargePoints:           in.ChargePoints,
				ArrivalMultiplier:      in.ArrivalMultiplier,
				ConsumptionKWhPer100km: in.ConsumptionKWhPer100km,
				ChargerPowerKW:         in.ChargerPowerKW,
				Seed:                   seed,
			})
			if err != nil {
				return err
			}
			res := runner.ToResult(model.SimulationRun{
				ID:         "cli",
				InputSetID: "cli",
				Seed:       seed,
				Status:     model.RunSucceeded,
			}, out)

			w := cmd.OutOrStdout()
			printSummary(w, *in, res)
			return writeOutputs(w, export.Report{InputSet: *in, Result: res}, csvDir, xlsxPath, pdfPath)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&runFile, "config", "", "run file with scenario_file, scenario overrides, seed and output")
	cmd.Flags().StringVar(&csvDir, "csv-dir", "", "write exemplary_day.csv and event_counts.csv here")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an XLSX workbook here")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF report here")
	return cmd
}

func printSummary(w io.Writer, in model.InputSet, res model.RunResult) {
	run := res.Run
	fmt.Fprintln(w, "=== Simulation result ===")
	fmt.Fprintf(w, "Charge points: %d x %.1f kW (arrivals x%.2f, %.1f kWh/100km), seed %d\n",
		in.ChargePoints, in.ChargerPowerKW, in.ArrivalMultiplier, in.ConsumptionKWhPer100km, run.Seed)
	fmt.Fprintf(w, "Total energy (kWh): %.2f\n", run.TotalEnergyKWh)
	fmt.Fprintf(w, "Theoretical max power (kW): %.2f\n", run.TheoreticalMaxKW)
	fmt.Fprintf(w, "Actual max power (kW): %.2f\n", run.ActualMaxKW)
	fmt.Fprintf(w, "Concurrency factor: %.1f%%\n", run.ConcurrencyFactor*100)
	fmt.Fprintf(w, "Yearly charging events: %d\n", run.YearlyEventCount)

	prof := analysis.ComputeProfile(res.ExemplaryDay)
	fmt.Fprintf(w, "\n=== Exemplary day %d ===\n", run.ExemplaryDayIndex)
	fmt.Fprintf(w, "Peak %.1f kW at %s, mean %.1f kW, energy %.1f kWh, load factor %.2f\n",
		prof.MaxKW, model.TickTimeLabel(prof.PeakTickIndex), prof.MeanKW, prof.EnergyKWh, prof.LoadFactor)
	for i, p := range res.ExemplaryDay {
		if i == 10 {
			break
		}
		fmt.Fprintf(w, "  %s  %7.1f kW\n", model.TickTimeLabel(p.TickIndex), p.TotalPowerKW)
	}
}

func writeOutputs(w io.Writer, rep export.Report, csvDir, xlsxPath, pdfPath string) error {
	if csvDir != "" {
		if err := os.MkdirAll(csvDir, 0o755); err != nil {
			return err
		}
		dayPath := filepath.Join(csvDir, "exemplary_day.csv")
		if err := export.WriteExemplaryDayCSV(dayPath, rep.Result.ExemplaryDay); err != nil {
			return err
		}
		countsPath := filepath.Join(csvDir, "event_counts.csv")
		if err := export.WriteEventCountsCSV(countsPath, rep.Result.EventAggs); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s and %s\n", dayPath, countsPath)
	}
	for _, out := range []struct {
		path  string
		build func(export.Report) ([]byte, error)
	}{
		{xlsxPath, export.BuildRunXLSX},
		{pdfPath, export.BuildRunPDF},
	} {
		if out.path == "" {
			continue
		}
		raw, err := out.build(rep)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out.path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out.path, raw, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\n", out.path)
	}
	return nil
}
