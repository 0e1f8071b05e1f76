// Package runner executes simulation runs against a store on a bounded pool.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/bobler41/EV-Parking-Simulation/internal/logger"
	"github.com/bobler41/EV-Parking-Simulation/internal/metrics"
	"github.com/bobler41/EV-Parking-Simulation/internal/model"
	"github.com/bobler41/EV-Parking-Simulation/internal/simulation"
	"github.com/bobler41/EV-Parking-Simulation/internal/store"
)

// ErrTimeout is recorded on runs that exceed the configured deadline.
var ErrTimeout = errors.New("simulation timed out")

// Simulator runs one simulated year. *simulation.Engine satisfies it.
type Simulator interface {
	Run(in simulation.Input) (*simulation.Output, error)
}

// Options configures a Runner. Zero values fall back to defaults.
type Options struct {
	Workers int
	Timeout time.Duration
	Metrics metrics.Recorder
	Logger  logger.Logger

	// Cache, when set, short-circuits repeated inputs.
	Cache *OutputCache
}

const (
	DefaultWorkers = 4
	DefaultTimeout = 2 * time.Minute
)

// Runner moves runs through queued, running and a terminal status.
type Runner struct {
	store   store.Store
	engine  Simulator
	sem     *semaphore.Weighted
	timeout time.Duration
	metrics metrics.Recorder
	log     logger.Logger
	cache   *OutputCache

	now  func() time.Time
	seed func() uint32

	wg sync.WaitGroup
}

func New(st store.Store, eng Simulator, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	return &Runner{
		store:   st,
		engine:  eng,
		sem:     semaphore.NewWeighted(int64(opts.Workers)),
		timeout: opts.Timeout,
		metrics: opts.Metrics,
		log:     opts.Logger,
		cache:   opts.Cache,
		now:     func() time.Time { return time.Now().UTC() },
		seed:    rand.Uint32,
	}
}

// Submit creates a queued run for the input set. A nil seed picks a random one.
// store.ErrNotFound is returned when the input set does not exist.
func (r *Runner) Submit(ctx context.Context, inputSetID string, seed *uint32) (*model.SimulationRun, error) {
	if _, err := r.store.GetInputSet(ctx, inputSetID); err != nil {
		return nil, err
	}
	s := r.seed()
	if seed != nil {
		s = *seed
	}
	run := model.SimulationRun{
		ID:         uuid.NewString(),
		InputSetID: inputSetID,
		Seed:       s,
		Status:     model.RunQueued,
		CreatedAt:  r.now(),
	}
	if err := r.store.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	r.log.Debugf("runner: queued run %s for input set %s (seed %d)", run.ID, inputSetID, s)
	return &run, nil
}

// Run submits and executes a run, returning once it reached a terminal status.
// A failed simulation is reported through the run's Status and Error; the
// returned error is reserved for store failures.
func (r *Runner) Run(ctx context.Context, inputSetID string, seed *uint32) (*model.SimulationRun, error) {
	run, err := r.Submit(ctx, inputSetID, seed)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, *run)
}

// Start submits a run and executes it in the background.
func (r *Runner) Start(ctx context.Context, inputSetID string, seed *uint32) (*model.SimulationRun, error) {
	run, err := r.Submit(ctx, inputSetID, seed)
	if err != nil {
		return nil, err
	}
	bg := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func(queued model.SimulationRun) {
		defer r.wg.Done()
		if _, err := r.Execute(bg, queued); err != nil {
			r.log.Errorf("runner: run %s: %v", queued.ID, err)
		}
	}(*run)
	return run, nil
}

// Wait blocks until every background run has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Execute runs a queued run to completion.
func (r *Runner) Execute(ctx context.Context, run model.SimulationRun) (*model.SimulationRun, error) {
	if run.Status.Finished() {
		return nil, fmt.Errorf("run %s is already %s", run.ID, run.Status)
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return r.fail(context.WithoutCancel(ctx), run, err)
	}
	// From here the slot is released by simulate, or below on early failure.

	// Status writes must land even if the caller goes away.
	persist := context.WithoutCancel(ctx)

	in, err := r.store.GetInputSet(persist, run.InputSetID)
	if err != nil {
		r.sem.Release(1)
		return r.fail(persist, run, fmt.Errorf("load input set: %w", err))
	}

	started := r.now()
	run.Status = model.RunRunning
	run.StartedAt = &started
	if err := r.store.UpdateRun(persist, run); err != nil {
		r.sem.Release(1)
		return nil, fmt.Errorf("mark running: %w", err)
	}
	r.metrics.RunStarted()
	r.log.Infof("runner: run %s started: %d charge points, multiplier %.2f, seed %d",
		run.ID, in.ChargePoints, in.ArrivalMultiplier, run.Seed)

	out, err := r.simulate(ctx, simulation.Input{
		ChargePoints:           in.ChargePoints,
		ArrivalMultiplier:      in.ArrivalMultiplier,
		ConsumptionKWhPer100km: in.ConsumptionKWhPer100km,
		ChargerPowerKW:         in.ChargerPowerKW,
		Seed:                   run.Seed,
	})
	elapsed := time.Since(started)
	if err != nil {
		r.metrics.RunFinished(string(model.RunFailed), elapsed, 0)
		return r.fail(persist, run, err)
	}

	finished := r.now()
	run.Status = model.RunSucceeded
	run.FinishedAt = &finished
	res := ToResult(run, out)
	if err := r.store.SaveResult(persist, res); err != nil {
		r.metrics.RunFinished(string(model.RunFailed), elapsed, 0)
		return r.fail(persist, run, fmt.Errorf("save result: %w", err))
	}
	r.metrics.RunFinished(string(model.RunSucceeded), elapsed, out.YearlyEventCount)
	r.log.Infof("runner: run %s succeeded in %s: %d events, peak %.1f kW, concurrency %.2f",
		run.ID, elapsed.Round(time.Millisecond), out.YearlyEventCount, out.ActualMaxKW, out.ConcurrencyFactor)
	return &res.Run, nil
}

// simulate runs the engine under the runner deadline and releases the pool
// slot held by the caller. The engine cannot be interrupted: on timeout its
// result is discarded, but the slot stays taken until it returns.
func (r *Runner) simulate(ctx context.Context, in simulation.Input) (*simulation.Output, error) {
	if out, ok := r.cache.Get(in); ok {
		r.sem.Release(1)
		r.log.Debugf("runner: cache hit for seed %d", in.Seed)
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		out *simulation.Output
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer r.sem.Release(1)
		out, err := r.engine.Run(in)
		done <- result{out, err}
	}()

	select {
	case res := <-done:
		if res.err == nil {
			r.cache.Set(in, res.out)
		}
		return res.out, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

func (r *Runner) fail(ctx context.Context, run model.SimulationRun, cause error) (*model.SimulationRun, error) {
	finished := r.now()
	run.Status = model.RunFailed
	run.Error = cause.Error()
	run.FinishedAt = &finished
	r.log.Warnf("runner: run %s failed: %v", run.ID, cause)
	if err := r.store.UpdateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("mark failed: %w", err)
	}
	return &run, nil
}

// ToResult copies an engine output onto run and converts it to stored records.
func ToResult(run model.SimulationRun, out *simulation.Output) model.RunResult {
	run.TotalEnergyKWh = out.TotalEnergyKWh
	run.TheoreticalMaxKW = out.TheoreticalMaxKW
	run.ActualMaxKW = out.ActualMaxKW
	run.ConcurrencyFactor = out.ConcurrencyFactor
	run.YearlyEventCount = out.YearlyEventCount
	run.ExemplaryDayIndex = out.ExemplaryDayIndex

	points := make([]model.ExemplaryDayPoint, len(out.ExemplaryDay))
	for i, p := range out.ExemplaryDay {
		points[i] = model.ExemplaryDayPoint{TickIndex: p.TickIndex, TotalPowerKW: p.TotalPowerKW}
	}
	aggs := make([]model.ChargingEventAgg, len(out.EventAggs))
	for i, a := range out.EventAggs {
		aggs[i] = model.ChargingEventAgg{Period: string(a.Period), PeriodStart: a.PeriodStart, EventCount: a.EventCount}
	}
	return model.RunResult{Run: run, ExemplaryDay: points, EventAggs: aggs}
}
