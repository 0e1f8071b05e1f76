package analysis

import (
	"fmt"
	"sort"

	"github.com/bobler41/EV-Parking-Simulation/internal/simulation"
)

// SweepRow is the outcome of one charge-point count.
type SweepRow struct {
	ChargePoints      int
	TheoreticalMaxKW  float64
	ActualMaxKW       float64
	ConcurrencyFactor float64
	TotalEnergyKWh    float64
	YearlyEventCount  int
}

// SweepChargePoints runs base once per charge-point count in [from, to],
// keeping every other input (seed included) fixed.
func SweepChargePoints(e *simulation.Engine, base simulation.Input, from, to int) ([]SweepRow, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("invalid charge point range [%d, %d]", from, to)
	}
	rows := make([]SweepRow, 0, to-from+1)
	for cp := from; cp <= to; cp++ {
		in := base
		in.ChargePoints = cp
		out, err := e.Run(in)
		if err != nil {
			return nil, fmt.Errorf("charge points %d: %w", cp, err)
		}
		rows = append(rows, SweepRow{
			ChargePoints:      cp,
			TheoreticalMaxKW:  out.TheoreticalMaxKW,
			ActualMaxKW:       out.ActualMaxKW,
			ConcurrencyFactor: out.ConcurrencyFactor,
			TotalEnergyKWh:    out.TotalEnergyKWh,
			YearlyEventCount:  out.YearlyEventCount,
		})
	}
	return rows, nil
}

// RankByConcurrency returns a copy of rows sorted by descending concurrency
// factor, ties broken by fewer charge points first.
func RankByConcurrency(rows []SweepRow) []SweepRow {
	out := append([]SweepRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ConcurrencyFactor != out[j].ConcurrencyFactor {
			return out[i].ConcurrencyFactor > out[j].ConcurrencyFactor
		}
		return out[i].ChargePoints < out[j].ChargePoints
	})
	return out
}
