package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bobler41/EV-Parking-Simulation/internal/model"
)

// WriteExemplaryDayCSV writes the exemplary day trace to path.
func WriteExemplaryDayCSV(path string, points []model.ExemplaryDayPoint) error {
	return writeFile(path, func(w io.Writer) error { return WriteExemplaryDay(w, points) })
}

// WriteEventCountsCSV writes the event aggregates to path.
func WriteEventCountsCSV(path string, aggs []model.ChargingEventAgg) error {
	return writeFile(path, func(w io.Writer) error { return WriteEventCounts(w, aggs) })
}

func WriteExemplaryDay(out io.Writer, points []model.ExemplaryDayPoint) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"tick_index", "time", "total_power_kw"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.Itoa(p.TickIndex),
			model.TickTimeLabel(p.TickIndex),
			fmtFloat(p.TotalPowerKW),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteEventCounts(out io.Writer, aggs []model.ChargingEventAgg) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"period", "period_start", "event_count"}); err != nil {
		return err
	}
	for _, a := range aggs {
		row := []string{a.Period, fmtTime(a.PeriodStart), strconv.Itoa(a.EventCount)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
