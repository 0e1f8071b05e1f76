package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobler41/EV-Parking-Simulation/internal/model"
	"github.com/bobler41/EV-Parking-Simulation/internal/runner"
	"github.com/bobler41/EV-Parking-Simulation/internal/simulation"
	"github.com/bobler41/EV-Parking-Simulation/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "--charge-points", "20", "--seed", "12345",
		"--csv-dir", dir, "--xlsx", filepath.Join(dir, "run.xlsx"))
	require.NoError(t, err)
	assert.Contains(t, out, "Yearly charging events: 4596")
	assert.Contains(t, out, "Theoretical max power (kW): 220.00")
	assert.Contains(t, out, "Actual max power (kW): 77.00")
	assert.Contains(t, out, "Concurrency factor: 35.0%")

	for _, name := range []string{"exemplary_day.csv", "event_counts.csv", "run.xlsx"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunCommandWithScenarioAndRunFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lot.yaml"),
		[]byte("scenario:\n  charge_points: 5\n  arrival_multiplier: 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.yaml"),
		[]byte("scenario_file: lot.yaml\nseed: 42\n"), 0o644))

	out, err := execute(t, "run", "--config", filepath.Join(dir, "run.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Yearly charging events: 2250")

	out, err = execute(t, "run", "--scenario", filepath.Join(dir, "lot.yaml"), "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Yearly charging events: 2250")
}

func TestRunCommandRejectsInvalidInput(t *testing.T) {
	_, err := execute(t, "run", "--charge-points", "500")
	assert.ErrorContains(t, err, "chargePoints")
}

func TestSweepCommand(t *testing.T) {
	out, err := execute(t, "sweep", "--from", "1", "--to", "2", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 charge points | peak 11 kW | concurrency 100.00% | events 237")
	assert.Contains(t, out, "2 charge points |")

	_, err = execute(t, "sweep", "--from", "3", "--to", "1")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "evsim.db")
	st, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, st.CreateInputSet(ctx, model.InputSet{
		ID: "in-1", Name: "Lot", ChargePoints: 2, ArrivalMultiplier: 1,
		ConsumptionKWhPer100km: 18, ChargerPowerKW: 11, CreatedAt: now, UpdatedAt: now,
	}))
	seed := uint32(9)
	run, err := runner.New(st, simulation.New(), runner.Options{}).Run(ctx, "in-1", &seed)
	require.NoError(t, err)
	require.Equal(t, model.RunSucceeded, run.Status)
	require.NoError(t, st.Close())

	pdfPath := filepath.Join(dir, "report.pdf")
	out, err := execute(t, "export", "--db", dbPath, "--run", run.ID, "--pdf", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+pdfPath)
	_, err = os.Stat(pdfPath)
	assert.NoError(t, err)

	_, err = execute(t, "export", "--db", dbPath, "--run", "missing", "--pdf", pdfPath)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = execute(t, "export", "--db", dbPath, "--run", run.ID)
	assert.ErrorContains(t, err, "nothing to export")
}
