package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobler41/EV-Parking-Simulation/internal/analysis"
	"github.com/bobler41/EV-Parking-Simulation/internal/config"
	"github.com/bobler41/EV-Parking-Simulation/internal/simulation"
)

func newSweepCmd() *cobra.Command {
	var (
		flags    scenarioFlags
		from, to int
		rank     bool
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Re-run the scenario for a range of charge point counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := flags.load(config.ScenarioConfig{})
			if err != nil {
				return err
			}
			in, err := sc.InputSet()
			if err != nil {
				return err
			}
			rows, err := analysis.SweepChargePoints(simulation.New(), simulation.Input{
				ArrivalMultiplier:      in.ArrivalMultiplier,
				ConsumptionKWhPer100km: in.ConsumptionKWhPer100km,
				ChargerPowerKW:         in.ChargerPowerKW,
				Seed:                   flags.seed,
			}, from, to)
			if err != nil {
				return err
			}
			if rank {
				rows = analysis.RankByConcurrency(rows)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sweep: %d to %d charge points\n", from, to)
			for _, r := range rows {
				fmt.Fprintf(w, "%d charge points | peak %.0f kW | concurrency %.2f%% | events %d\n",
					r.ChargePoints, r.ActualMaxKW, r.ConcurrencyFactor*100, r.YearlyEventCount)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&from, "from", 1, "first charge point count")
	cmd.Flags().IntVar(&to, "to", 30, "last charge point count")
	cmd.Flags().BoolVar(&rank, "rank", false, "sort rows by descending concurrency factor")
	return cmd
}
