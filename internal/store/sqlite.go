package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bobler41/EV-Parking-Simulation/internal/model"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS input_sets (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    charge_points INTEGER NOT NULL,
    arrival_multiplier REAL NOT NULL,
    consumption_kwh_per_100km REAL NOT NULL,
    charger_power_kw REAL NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS simulation_runs (
    id TEXT PRIMARY KEY,
    input_set_id TEXT NOT NULL,
    seed INTEGER NOT NULL,
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    started_at INTEGER,
    finished_at INTEGER,
    total_energy_kwh REAL NOT NULL DEFAULT 0,
    theoretical_max_kw REAL NOT NULL DEFAULT 0,
    actual_max_kw REAL NOT NULL DEFAULT 0,
    concurrency_factor REAL NOT NULL DEFAULT 0,
    yearly_event_count INTEGER NOT NULL DEFAULT 0,
    exemplary_day_index INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS simulation_runs_input_set ON simulation_runs(input_set_id);
CREATE TABLE IF NOT EXISTS exemplary_day_points (
    run_id TEXT NOT NULL,
    tick_index INTEGER NOT NULL,
    total_power_kw REAL NOT NULL,
    PRIMARY KEY(run_id, tick_index)
);
CREATE TABLE IF NOT EXISTS charging_event_aggs (
    run_id TEXT NOT NULL,
    period TEXT NOT NULL,
    period_start INTEGER NOT NULL,
    event_count INTEGER NOT NULL,
    PRIMARY KEY(run_id, period, period_start)
);`

const runColumns = `id, input_set_id, seed, status, error, created_at, started_at, finished_at,
    total_energy_kwh, theoretical_max_kw, actual_max_kw, concurrency_factor, yearly_event_count, exemplary_day_index`

// SQLiteStore persists records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateInputSet(ctx context.Context, in model.InputSet) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO input_sets
        (id, name, charge_points, arrival_multiplier, consumption_kwh_per_100km, charger_power_kw, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.ChargePoints, in.ArrivalMultiplier, in.ConsumptionKWhPer100km, in.ChargerPowerKW,
		in.CreatedAt.UnixNano(), in.UpdatedAt.UnixNano())
	return err
}

func (s *SQLiteStore) GetInputSet(ctx context.Context, id string) (*model.InputSet, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, charge_points, arrival_multiplier,
        consumption_kwh_per_100km, charger_power_kw, created_at, updated_at
        FROM input_sets WHERE id = ?`, id)
	in, err := scanInputSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return in, err
}

func (s *SQLiteStore) ListInputSets(ctx context.Context) ([]model.InputSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, charge_points, arrival_multiplier,
        consumption_kwh_per_100km, charger_power_kw, created_at, updated_at
        FROM input_sets ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []model.InputSet{}
	for rows.Next() {
		in, err := scanInputSet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateInputSet(ctx context.Context, in model.InputSet) error {
	res, err := s.db.ExecContext(ctx, `UPDATE input_sets SET name = ?, charge_points = ?, arrival_multiplier = ?,
        consumption_kwh_per_100km = ?, charger_power_kw = ?, updated_at = ? WHERE id = ?`,
		in.Name, in.ChargePoints, in.ArrivalMultiplier, in.ConsumptionKWhPer100km, in.ChargerPowerKW,
		in.UpdatedAt.UnixNano(), in.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *SQLiteStore) DeleteInputSet(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM exemplary_day_points WHERE run_id IN (SELECT id FROM simulation_runs WHERE input_set_id = ?)`,
		`DELETE FROM charging_event_aggs WHERE run_id IN (SELECT id FROM simulation_runs WHERE input_set_id = ?)`,
		`DELETE FROM simulation_runs WHERE input_set_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM input_sets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, r model.SimulationRun) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM input_sets WHERE id = ?`, r.InputSetID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO simulation_runs (`+runColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, runArgs(r)...)
	return err
}

func (s *SQLiteStore) UpdateRun(ctx context.Context, r model.SimulationRun) error {
	res, err := updateRun(ctx, s.db, r)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.SimulationRun, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM simulation_runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]model.SimulationRun, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM simulation_runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []model.SimulationRun{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveResult(ctx context.Context, res model.RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	upd, err := updateRun(ctx, tx, res.Run)
	if err != nil {
		return err
	}
	if err := requireAffected(upd); err != nil {
		return err
	}

	pointStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO exemplary_day_points (run_id, tick_index, total_power_kw) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = pointStmt.Close() }()
	for _, p := range res.ExemplaryDay {
		if _, err := pointStmt.ExecContext(ctx, res.Run.ID, p.TickIndex, p.TotalPowerKW); err != nil {
			return fmt.Errorf("insert exemplary point %d: %w", p.TickIndex, err)
		}
	}

	aggStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO charging_event_aggs (run_id, period, period_start, event_count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = aggStmt.Close() }()
	for _, a := range res.EventAggs {
		if _, err := aggStmt.ExecContext(ctx, res.Run.ID, a.Period, a.PeriodStart.UnixNano(), a.EventCount); err != nil {
			return fmt.Errorf("insert event agg %s %s: %w", a.Period, a.PeriodStart.Format(time.RFC3339), err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ExemplaryDay(ctx context.Context, runID string) ([]model.ExemplaryDayPoint, error) {
	if err := s.runExists(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT tick_index, total_power_kw FROM exemplary_day_points
        WHERE run_id = ? ORDER BY tick_index`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []model.ExemplaryDayPoint{}
	for rows.Next() {
		var p model.ExemplaryDayPoint
		if err := rows.Scan(&p.TickIndex, &p.TotalPowerKW); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) EventCounts(ctx context.Context, runID, period string) ([]model.ChargingEventAgg, error) {
	if err := s.runExists(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT period, period_start, event_count FROM charging_event_aggs
        WHERE run_id = ? AND (? = '' OR period = ?) ORDER BY period, period_start`, runID, period, period)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []model.ChargingEventAgg{}
	for rows.Next() {
		var a model.ChargingEventAgg
		var start int64
		if err := rows.Scan(&a.Period, &start, &a.EventCount); err != nil {
			return nil, err
		}
		a.PeriodStart = time.Unix(0, start).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) runExists(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM simulation_runs WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateRun(ctx context.Context, db execer, r model.SimulationRun) (sql.Result, error) {
	return db.ExecContext(ctx, `UPDATE simulation_runs SET status = ?, error = ?, started_at = ?, finished_at = ?,
        total_energy_kwh = ?, theoretical_max_kw = ?, actual_max_kw = ?, concurrency_factor = ?,
        yearly_event_count = ?, exemplary_day_index = ? WHERE id = ?`,
		string(r.Status), r.Error, nullTime(r.StartedAt), nullTime(r.FinishedAt),
		r.TotalEnergyKWh, r.TheoreticalMaxKW, r.ActualMaxKW, r.ConcurrencyFactor,
		r.YearlyEventCount, r.ExemplaryDayIndex, r.ID)
}

func runArgs(r model.SimulationRun) []any {
	return []any{
		r.ID, r.InputSetID, int64(r.Seed), string(r.Status), r.Error, r.CreatedAt.UnixNano(),
		nullTime(r.StartedAt), nullTime(r.FinishedAt),
		r.TotalEnergyKWh, r.TheoreticalMaxKW, r.ActualMaxKW, r.ConcurrencyFactor,
		r.YearlyEventCount, r.ExemplaryDayIndex,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInputSet(sc scanner) (*model.InputSet, error) {
	var in model.InputSet
	var created, updated int64
	if err := sc.Scan(&in.ID, &in.Name, &in.ChargePoints, &in.ArrivalMultiplier,
		&in.ConsumptionKWhPer100km, &in.ChargerPowerKW, &created, &updated); err != nil {
		return nil, err
	}
	in.CreatedAt = time.Unix(0, created).UTC()
	in.UpdatedAt = time.Unix(0, updated).UTC()
	return &in, nil
}

func scanRun(sc scanner) (*model.SimulationRun, error) {
	var r model.SimulationRun
	var seed, created int64
	var status string
	var started, finished sql.NullInt64
	if err := sc.Scan(&r.ID, &r.InputSetID, &seed, &status, &r.Error, &created, &started, &finished,
		&r.TotalEnergyKWh, &r.TheoreticalMaxKW, &r.ActualMaxKW, &r.ConcurrencyFactor,
		&r.YearlyEventCount, &r.ExemplaryDayIndex); err != nil {
		return nil, err
	}
	r.Seed = uint32(seed)
	r.Status = model.RunStatus(status)
	r.CreatedAt = time.Unix(0, created).UTC()
	r.StartedAt = timePtr(started)
	r.FinishedAt = timePtr(finished)
	return &r, nil
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func timePtr(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.Unix(0, n.Int64).UTC()
	return &t
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
