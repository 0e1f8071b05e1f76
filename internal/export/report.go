// Package export renders simulation results as CSV, XLSX and PDF.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/bobler41/EV-Parking-Simulation/internal/model"
)

// Report is everything needed to render one run.
type Report struct {
	InputSet model.InputSet
	Result   model.RunResult
}

type summaryRow struct {
	label string
	value any
}

func (r Report) summary() []summaryRow {
	run := r.Result.Run
	name := r.InputSet.Name
	if name == "" {
		name = r.InputSet.ID
	}
	rows := []summaryRow{
		{"Input set", name},
		{"Charge points", r.InputSet.ChargePoints},
		{"Arrival multiplier", r.InputSet.ArrivalMultiplier},
		{"Consumption (kWh/100km)", r.InputSet.ConsumptionKWhPer100km},
		{"Charger power (kW)", r.InputSet.ChargerPowerKW},
		{"Run", run.ID},
		{"Seed", int64(run.Seed)},
		{"Status", string(run.Status)},
		{"Total energy (kWh)", run.TotalEnergyKWh},
		{"Theoretical max (kW)", run.TheoreticalMaxKW},
		{"Actual max (kW)", run.ActualMaxKW},
		{"Concurrency factor", run.ConcurrencyFactor},
		{"Charging events", run.YearlyEventCount},
		{"Exemplary day", run.ExemplaryDayIndex},
	}
	if run.FinishedAt != nil {
		rows = append(rows, summaryRow{"Finished", run.FinishedAt.UTC().Format(time.RFC3339)})
	}
	return rows
}

// Sheet names in the workbook built by BuildRunXLSX.
const (
	SheetSummary      = "summary"
	SheetExemplaryDay = "exemplary_day"
	SheetEventCounts  = "event_counts"
)

// BuildRunXLSX renders a workbook with a summary, the exemplary day and the event counts.
func BuildRunXLSX(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetExemplaryDay); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetEventCounts); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(SheetSummary, "A1", "EV charging simulation")
	for i, row := range r.summary() {
		_ = f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", i+3), row.label)
		_ = f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", i+3), row.value)
	}

	_ = f.SetCellValue(SheetExemplaryDay, "A1", "Tick")
	_ = f.SetCellValue(SheetExemplaryDay, "B1", "Time")
	_ = f.SetCellValue(SheetExemplaryDay, "C1", "Total power (kW)")
	for i, p := range r.Result.ExemplaryDay {
		row := i + 2
		_ = f.SetCellValue(SheetExemplaryDay, fmt.Sprintf("A%d", row), p.TickIndex)
		_ = f.SetCellValue(SheetExemplaryDay, fmt.Sprintf("B%d", row), model.TickTimeLabel(p.TickIndex))
		_ = f.SetCellValue(SheetExemplaryDay, fmt.Sprintf("C%d", row), p.TotalPowerKW)
	}

	_ = f.SetCellValue(SheetEventCounts, "A1", "Period")
	_ = f.SetCellValue(SheetEventCounts, "B1", "Period start")
	_ = f.SetCellValue(SheetEventCounts, "C1", "Events")
	for i, a := range r.Result.EventAggs {
		row := i + 2
		_ = f.SetCellValue(SheetEventCounts, fmt.Sprintf("A%d", row), a.Period)
		_ = f.SetCellValue(SheetEventCounts, fmt.Sprintf("B%d", row), a.PeriodStart.UTC().Format("2006-01-02"))
		_ = f.SetCellValue(SheetEventCounts, fmt.Sprintf("C%d", row), a.EventCount)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildRunPDF renders the summary and hourly exemplary-day profile, followed by
// a page of monthly event counts.
func BuildRunPDF(r Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "EV Charging Simulation")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	for _, row := range r.summary() {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %s", row.label, pdfValue(row.value)))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Time", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Power (kW)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	// One row per hour keeps the table on the page.
	for _, p := range r.Result.ExemplaryDay {
		if p.TickIndex%4 != 0 {
			continue
		}
		pdf.CellFormat(30, 6, model.TickTimeLabel(p.TickIndex), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", p.TotalPowerKW), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	months := 0
	for _, a := range r.Result.EventAggs {
		if a.Period != "month" {
			continue
		}
		if months == 0 {
			pdf.AddPage()
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(40, 6, "Month", "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, "Events", "1", 0, "C", false, 0, "")
			pdf.Ln(-1)
			pdf.SetFont("Arial", "", 10)
		}
		months++
		pdf.CellFormat(40, 6, a.PeriodStart.UTC().Format("2006-01"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", a.EventCount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pdfValue(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.3f", x)
	default:
		return fmt.Sprint(x)
	}
}
