package store

import (
	"context"
	"sort"
	"sync"

	"github.com/bobler41/EV-Parking-Simulation/internal/model"
)

// MemoryStore keeps everything in process memory. Data is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	inputSets map[string]model.InputSet
	runs      map[string]model.SimulationRun
	points    map[string][]model.ExemplaryDayPoint
	aggs      map[string][]model.ChargingEventAgg
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		inputSets: make(map[string]model.InputSet),
		runs:      make(map[string]model.SimulationRun),
		points:    make(map[string][]model.ExemplaryDayPoint),
		aggs:      make(map[string][]model.ChargingEventAgg),
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) CreateInputSet(_ context.Context, s model.InputSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputSets[s.ID] = s
	return nil
}

func (m *MemoryStore) GetInputSet(_ context.Context, id string) (*model.InputSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.inputSets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) ListInputSets(context.Context) ([]model.InputSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.InputSet, 0, len(m.inputSets))
	for _, s := range m.inputSets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) UpdateInputSet(_ context.Context, s model.InputSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inputSets[s.ID]; !ok {
		return ErrNotFound
	}
	m.inputSets[s.ID] = s
	return nil
}

func (m *MemoryStore) DeleteInputSet(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inputSets[id]; !ok {
		return ErrNotFound
	}
	delete(m.inputSets, id)
	for runID, r := range m.runs {
		if r.InputSetID == id {
			delete(m.runs, runID)
			delete(m.points, runID)
			delete(m.aggs, runID)
		}
	}
	return nil
}

func (m *MemoryStore) CreateRun(_ context.Context, r model.SimulationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inputSets[r.InputSetID]; !ok {
		return ErrNotFound
	}
	m.runs[r.ID] = r
	return nil
}

func (m *MemoryStore) UpdateRun(_ context.Context, r model.SimulationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[r.ID]; !ok {
		return ErrNotFound
	}
	m.runs[r.ID] = r
	return nil
}

func (m *MemoryStore) GetRun(_ context.Context, id string) (*model.SimulationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStore) ListRuns(context.Context) ([]model.SimulationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.SimulationRun, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) SaveResult(_ context.Context, res model.RunResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[res.Run.ID]; !ok {
		return ErrNotFound
	}
	m.runs[res.Run.ID] = res.Run
	m.points[res.Run.ID] = append([]model.ExemplaryDayPoint(nil), res.ExemplaryDay...)
	m.aggs[res.Run.ID] = append([]model.ChargingEventAgg(nil), res.EventAggs...)
	return nil
}

func (m *MemoryStore) ExemplaryDay(_ context.Context, runID string) ([]model.ExemplaryDayPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.runs[runID]; !ok {
		return nil, ErrNotFound
	}
	out := append([]model.ExemplaryDayPoint{}, m.points[runID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TickIndex < out[j].TickIndex })
	return out, nil
}

func (m *MemoryStore) EventCounts(_ context.Context, runID, period string) ([]model.ChargingEventAgg, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.runs[runID]; !ok {
		return nil, ErrNotFound
	}
	out := []model.ChargingEventAgg{}
	for _, a := range m.aggs[runID] {
		if period == "" || a.Period == period {
			out = append(out, a)
		}
	}
	sortAggs(out)
	return out, nil
}

// sortAggs orders by period name then start, matching ORDER BY period, period_start.
func sortAggs(aggs []model.ChargingEventAgg) {
	sort.SliceStable(aggs, func(i, j int) bool {
		if aggs[i].Period != aggs[j].Period {
			return aggs[i].Period < aggs[j].Period
		}
		return aggs[i].PeriodStart.Before(aggs[j].PeriodStart)
	})
}
