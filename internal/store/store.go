package store

import (
	"context"
	"errors"

	"github.com/bobler41/EV-Parking-Simulation/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store persists input sets, simulation runs and run results.
// List methods return records newest first.
type Store interface {
	Ping(ctx context.Context) error

	CreateInputSet(ctx context.Context, s model.InputSet) error
	GetInputSet(ctx context.Context, id string) (*model.InputSet, error)
	ListInputSets(ctx context.Context) ([]model.InputSet, error)
	UpdateInputSet(ctx context.Context, s model.InputSet) error
	// DeleteInputSet removes the input set and all of its runs.
	DeleteInputSet(ctx context.Context, id string) error

	CreateRun(ctx context.Context, r model.SimulationRun) error
	UpdateRun(ctx context.Context, r model.SimulationRun) error
	GetRun(ctx context.Context, id string) (*model.SimulationRun, error)
	ListRuns(ctx context.Context) ([]model.SimulationRun, error)

	// SaveResult stores the final run row together with its exemplary day and
	// event aggregates in one step.
	SaveResult(ctx context.Context, res model.RunResult) error
	ExemplaryDay(ctx context.Context, runID string) ([]model.ExemplaryDayPoint, error)
	// EventCounts returns aggregates ordered by (period, periodStart). An empty
	// period returns all of them.
	EventCounts(ctx context.Context, runID, period string) ([]model.ChargingEventAgg, error)

	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
