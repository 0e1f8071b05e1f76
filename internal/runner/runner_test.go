package runner

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobler41/EV-Parking-Simulation/internal/metrics"
	"github.com/bobler41/EV-Parking-Simulation/internal/model"
	"github.com/bobler41/EV-Parking-Simulation/internal/simulation"
	"github.com/bobler41/EV-Parking-Simulation/internal/store"
)

func seedInputSet(t *testing.T, st store.Store, cp int, mult float64) string {
	t.Helper()
	in, err := model.NewInputSet(model.InputSet{
		ID:                "in-1",
		ChargePoints:      cp,
		ArrivalMultiplier: mult,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, st.CreateInputSet(context.Background(), *in))
	return in.ID
}

func TestRunSucceeds(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedInputSet(t, st, 5, 2)
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewPromRecorder(reg)
	require.NoError(t, err)
	r := New(st, simulation.New(), Options{Workers: 2, Metrics: rec})

	seed := uint32(42)
	run, err := r.Run(context.Background(), id, &seed)
	require.NoError(t, err)
	require.Equal(t, model.RunSucceeded, run.Status, run.Error)
	assert.Equal(t, uint32(42), run.Seed)
	assert.Equal(t, 2250, run.YearlyEventCount)
	assert.Equal(t, 55.0, run.TheoreticalMaxKW)
	assert.Equal(t, 180, run.ExemplaryDayIndex)
	require.NotNil(t, run.StartedAt)
	require.NotNil(t, run.FinishedAt)
	assert.False(t, run.FinishedAt.Before(*run.StartedAt))

	stored, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunSucceeded, stored.Status)

	points, err := st.ExemplaryDay(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Len(t, points, simulation.TicksPerDay)

	days, err := st.EventCounts(context.Background(), run.ID, "day")
	require.NoError(t, err)
	total := 0
	for _, d := range days {
		total += d.EventCount
	}
	assert.Equal(t, run.YearlyEventCount, total)

	expected := `
# HELP evsim_charging_events_total Charging events produced by succeeded runs
# TYPE evsim_charging_events_total counter
evsim_charging_events_total 2250
# HELP evsim_simulation_runs_total Simulation runs by terminal status
# TYPE evsim_simulation_runs_total counter
evsim_simulation_runs_total{status="succeeded"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"evsim_charging_events_total", "evsim_simulation_runs_total"))
}

func TestRunUsesRandomSeedWhenOmitted(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedInputSet(t, st, 1, 1)
	r := New(st, simulation.New(), Options{})
	r.seed = func() uint32 { return 1 }

	run, err := r.Run(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), run.Seed)
	assert.Equal(t, 237, run.YearlyEventCount)
}

func TestSubmitUnknownInputSet(t *testing.T) {
	r := New(store.NewMemoryStore(), simulation.New(), Options{})
	_, err := r.Run(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRunFailsOnMalformedTables(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedInputSet(t, st, 3, 1)
	r := New(st, simulation.NewWithTables(nil, simulation.DistanceBuckets), Options{})

	run, err := r.Run(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, run.Status)
	assert.Contains(t, run.Error, "build tick probabilities")
	assert.NotNil(t, run.FinishedAt)

	stored, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, stored.Status)
	_, err = st.ExemplaryDay(context.Background(), run.ID)
	require.NoError(t, err)
}

func TestRunTimesOut(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedInputSet(t, st, 300, 2)
	r := New(st, simulation.New(), Options{Timeout: time.Nanosecond})

	run, err := r.Run(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, run.Status)
	assert.Equal(t, ErrTimeout.Error(), run.Error)
}

// blockingSimulator holds every engine call until release is closed and
// tracks how many calls overlap.
type blockingSimulator struct {
	release  chan struct{}
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (b *blockingSimulator) Run(simulation.Input) (*simulation.Output, error) {
	n := b.inFlight.Add(1)
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-b.release
	b.inFlight.Add(-1)
	return &simulation.Output{}, nil
}

func TestTimedOutEngineKeepsWorkerSlot(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedInputSet(t, st, 300, 2)
	sim := &blockingSimulator{release: make(chan struct{})}
	r := New(st, sim, Options{Workers: 1, Timeout: 10 * time.Millisecond})

	const runs = 4
	results := make(chan *model.SimulationRun, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run, err := r.Run(context.Background(), id, nil)
			assert.NoError(t, err)
			results <- run
		}()
	}

	// The first run times out while its engine is still blocked.
	first := <-results
	require.NotNil(t, first)
	assert.Equal(t, model.RunFailed, first.Status)
	assert.Equal(t, ErrTimeout.Error(), first.Error)

	assert.Never(t, func() bool { return sim.inFlight.Load() > 1 }, 100*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, int32(1), sim.inFlight.Load())
	assert.Empty(t, results, "queued runs wait for the abandoned engine")

	close(sim.release)
	wg.Wait()
	close(results)
	for run := range results {
		require.NotNil(t, run)
		assert.Equal(t, model.RunSucceeded, run.Status)
	}
	assert.Equal(t, int32(1), sim.peak.Load())
}

func TestExecuteRejectsFinishedRun(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedInputSet(t, st, 1, 1)
	r := New(st, simulation.New(), Options{})

	run, err := r.Run(context.Background(), id, nil)
	require.NoError(t, err)
	require.Equal(t, model.RunSucceeded, run.Status)

	_, err = r.Execute(context.Background(), *run)
	assert.ErrorContains(t, err, "already succeeded")
}

func TestStartRunsInBackground(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedInputSet(t, st, 2, 1)
	r := New(st, simulation.New(), Options{Workers: 1})

	queued, err := r.Start(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, model.RunQueued, queued.Status)

	r.Wait()
	stored, err := st.GetRun(context.Background(), queued.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunSucceeded, stored.Status)
}

func TestToResult(t *testing.T) {
	out := &simulation.Output{
		TotalEnergyKWh:    10,
		TheoreticalMaxKW:  22,
		ActualMaxKW:       11,
		ConcurrencyFactor: 0.5,
		YearlyEventCount:  1,
		ExemplaryDayIndex: 180,
		ExemplaryDay:      []simulation.ExemplaryPoint{{TickIndex: 3, TotalPowerKW: 11}},
		EventAggs: []simulation.EventAgg{
			{Period: simulation.PeriodWeek, PeriodStart: time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC), EventCount: 1},
		},
	}
	res := ToResult(model.SimulationRun{ID: "r"}, out)
	assert.Equal(t, "r", res.Run.ID)
	assert.Equal(t, 0.5, res.Run.ConcurrencyFactor)
	assert.Equal(t, []model.ExemplaryDayPoint{{TickIndex: 3, TotalPowerKW: 11}}, res.ExemplaryDay)
	require.Len(t, res.EventAggs, 1)
	assert.Equal(t, "week", res.EventAggs[0].Period)
}

func TestRunnerUsesOutputCache(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedInputSet(t, st, 2, 1)
	cache := NewOutputCache(time.Hour)
	r := New(st, simulation.New(), Options{Cache: cache})

	seed := uint32(5)
	first, err := r.Run(context.Background(), id, &seed)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	second, err := r.Run(context.Background(), id, &seed)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.YearlyEventCount, second.YearlyEventCount)
	assert.Equal(t, first.TotalEnergyKWh, second.TotalEnergyKWh)
	assert.Equal(t, 1, cache.Len())
}
