package model

import "time"

// RunStatus is the lifecycle state of a simulation run.
// Keep these values stable; they are persisted and exposed over the API.
type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Finished reports whether the run reached a terminal state.
func (s RunStatus) Finished() bool {
	return s == RunSucceeded || s == RunFailed
}

// SimulationRun is one execution of the engine for an input set and seed.
// Summary fields are only meaningful once Status is RunSucceeded.
type SimulationRun struct {
	ID         string
	InputSetID string
	Seed       uint32
	Status     RunStatus
	Error      string

	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time

	TotalEnergyKWh    float64
	TheoreticalMaxKW  float64
	ActualMaxKW       float64
	ConcurrencyFactor float64
	YearlyEventCount  int
	ExemplaryDayIndex int
}

// ExemplaryDayPoint is one stored tick of a run's exemplary day.
type ExemplaryDayPoint struct {
	TickIndex    int
	TotalPowerKW float64
}

// ChargingEventAgg is one stored event count for a run.
type ChargingEventAgg struct {
	Period      string
	PeriodStart time.Time
	EventCount  int
}

// RunResult bundles everything a succeeded run persists.
type RunResult struct {
	Run          SimulationRun
	ExemplaryDay []ExemplaryDayPoint
	EventAggs    []ChargingEventAgg
}
