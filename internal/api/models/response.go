package models

import (
	"time"

	"github.com/bobler41/EV-Parking-Simulation/internal/analysis"
	"github.com/bobler41/EV-Parking-Simulation/internal/config"
	"github.com/bobler41/EV-Parking-Simulation/internal/model"
)

// InputSet is the API shape of model.InputSet.
type InputSet struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	ChargePoints           int       `json:"chargePoints"`
	ArrivalMultiplier      float64   `json:"arrivalMultiplier"`
	ConsumptionKWhPer100km float64   `json:"consumptionKwhPer100km"`
	ChargerPowerKW         float64   `json:"chargerPowerKw"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func NewInputSet(s model.InputSet) InputSet {
	return InputSet{
		ID:                     s.ID,
		Name:                   s.Name,
		ChargePoints:           s.ChargePoints,
		ArrivalMultiplier:      s.ArrivalMultiplier,
		ConsumptionKWhPer100km: s.ConsumptionKWhPer100km,
		ChargerPowerKW:         s.ChargerPowerKW,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}

// SimulationRun is the API shape of model.SimulationRun.
type SimulationRun struct {
	ID         string     `json:"id"`
	InputSetID string     `json:"inputSetId"`
	Seed       uint32     `json:"seed"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	StartedAt  *time.Time `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`

	TotalEnergyKWh    float64 `json:"totalEnergyKwh"`
	TheoreticalMaxKW  float64 `json:"theoreticalMaxKw"`
	ActualMaxKW       float64 `json:"actualMaxKw"`
	ConcurrencyFactor float64 `json:"concurrencyFactor"`
	YearlyEventCount  int     `json:"yearlyEventCount"`
	ExemplaryDayIndex int     `json:"exemplaryDayIndex"`

	InputSet *InputSet `json:"inputSet,omitempty"`
}

// NewSimulationRun converts r. in may be nil.
func NewSimulationRun(r model.SimulationRun, in *model.InputSet) SimulationRun {
	out := SimulationRun{
		ID:                r.ID,
		InputSetID:        r.InputSetID,
		Seed:              r.Seed,
		Status:            string(r.Status),
		Error:             r.Error,
		CreatedAt:         r.CreatedAt,
		StartedAt:         r.StartedAt,
		FinishedAt:        r.FinishedAt,
		TotalEnergyKWh:    r.TotalEnergyKWh,
		TheoreticalMaxKW:  r.TheoreticalMaxKW,
		ActualMaxKW:       r.ActualMaxKW,
		ConcurrencyFactor: r.ConcurrencyFactor,
		YearlyEventCount:  r.YearlyEventCount,
		ExemplaryDayIndex: r.ExemplaryDayIndex,
	}
	if in != nil {
		s := NewInputSet(*in)
		out.InputSet = &s
	}
	return out
}

type ExemplaryDayPoint struct {
	TickIndex    int     `json:"tickIndex"`
	TimeLabel    string  `json:"timeLabel"` // "HH:MM"
	TotalPowerKW float64 `json:"totalPowerKw"`
}

// DayProfile summarizes the exemplary day.
type DayProfile struct {
	MinKW         float64 `json:"minKw"`
	MaxKW         float64 `json:"maxKw"`
	MeanKW        float64 `json:"meanKw"`
	P05KW         float64 `json:"p05Kw"`
	P95KW         float64 `json:"p95Kw"`
	PeakTickIndex int     `json:"peakTickIndex"`
	PeakTimeLabel string  `json:"peakTimeLabel"`
	EnergyKWh     float64 `json:"energyKwh"`
	LoadFactor    float64 `json:"loadFactor"`
	ActiveTicks   int     `json:"activeTicks"`
}

type ExemplaryDayResponse struct {
	RunID    string              `json:"runId"`
	DayIndex int                 `json:"dayIndex"`
	Points   []ExemplaryDayPoint `json:"points"`
	Profile  DayProfile          `json:"profile"`
}

func NewExemplaryDayResponse(run model.SimulationRun, points []model.ExemplaryDayPoint) ExemplaryDayResponse {
	out := ExemplaryDayResponse{
		RunID:    run.ID,
		DayIndex: run.ExemplaryDayIndex,
		Points:   make([]ExemplaryDayPoint, len(points)),
	}
	for i, p := range points {
		out.Points[i] = ExemplaryDayPoint{
			TickIndex:    p.TickIndex,
			TimeLabel:    model.TickTimeLabel(p.TickIndex),
			TotalPowerKW: p.TotalPowerKW,
		}
	}
	prof := analysis.ComputeProfile(points)
	out.Profile = DayProfile{
		MinKW:         prof.MinKW,
		MaxKW:         prof.MaxKW,
		MeanKW:        prof.MeanKW,
		P05KW:         prof.P05KW,
		P95KW:         prof.P95KW,
		PeakTickIndex: prof.PeakTickIndex,
		PeakTimeLabel: model.TickTimeLabel(prof.PeakTickIndex),
		EnergyKWh:     prof.EnergyKWh,
		LoadFactor:    prof.LoadFactor,
		ActiveTicks:   prof.ActiveTicks,
	}
	return out
}

type EventCount struct {
	Period      string    `json:"period"`
	PeriodStart time.Time `json:"periodStart"`
	EventCount  int       `json:"eventCount"`
}

type EventCountsResponse struct {
	RunID       string       `json:"runId"`
	Period      string       `json:"period,omitempty"`
	EventCounts []EventCount `json:"eventCounts"`
}

func NewEventCountsResponse(runID, period string, aggs []model.ChargingEventAgg) EventCountsResponse {
	out := EventCountsResponse{RunID: runID, Period: period, EventCounts: make([]EventCount, len(aggs))}
	for i, a := range aggs {
		out.EventCounts[i] = EventCount{Period: a.Period, PeriodStart: a.PeriodStart, EventCount: a.EventCount}
	}
	return out
}

// ScenarioInfo describes a scenario preset file.
type ScenarioInfo struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	File        string       `json:"file"`
	Specs       ScenarioSpec `json:"specs"`
}

type ScenarioSpec struct {
	ChargePoints           int     `json:"chargePoints"`
	ArrivalMultiplier      float64 `json:"arrivalMultiplier"`
	ConsumptionKWhPer100km float64 `json:"consumptionKwhPer100km"`
	ChargerPowerKW         float64 `json:"chargerPowerKw"`
}

func NewScenarioInfo(s config.Scenario) ScenarioInfo {
	return ScenarioInfo{
		ID:          s.ID,
		Name:        s.Config.Name,
		Description: s.Config.Description,
		File:        s.File,
		Specs: ScenarioSpec{
			ChargePoints:           s.Config.ChargePoints,
			ArrivalMultiplier:      s.Config.ArrivalMultiplier,
			ConsumptionKWhPer100km: s.Config.ConsumptionKWhPer100km,
			ChargerPowerKW:         s.Config.ChargerPowerKW,
		},
	}
}

type HealthResponse struct {
	OK    bool `json:"ok"`
	Store bool `json:"store"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
