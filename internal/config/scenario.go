package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bobler41/EV-Parking-Simulation/internal/model"
)

// ScenarioConfig is a charging scenario preset (YAML).
type ScenarioConfig struct {
	Name                   string  `yaml:"name"`
	Description            string  `yaml:"description"`
	ChargePoints           int     `yaml:"charge_points"`
	ArrivalMultiplier      float64 `yaml:"arrival_multiplier"`
	ConsumptionKWhPer100km float64 `yaml:"consumption_kwh_per_100km"`
	ChargerPowerKW         float64 `yaml:"charger_power_kw"`
}

// RunConfig describes one CLI simulation: a scenario, optionally loaded from a
// preset file, plus the seed and output targets.
type RunConfig struct {
	// If both ScenarioFile and Scenario are provided, Scenario overrides ScenarioFile.
	ScenarioFile string         `yaml:"scenario_file"`
	Scenario     ScenarioConfig `yaml:"scenario"`
	Seed         *uint32        `yaml:"seed"`
	Output       OutputConfig   `yaml:"output"`
}

type OutputConfig struct {
	CSVDir   string `yaml:"csv_dir"`
	XLSXPath string `yaml:"xlsx_path"`
}

// Scenario is a preset found in a scenario directory.
type Scenario struct {
	ID     string
	File   string
	Config ScenarioConfig
}

func LoadRun(path string) (*RunConfig, error) {
	c, err := LoadRunUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadRunUnchecked loads and merges a run file without validating it.
func LoadRunUnchecked(path string) (*RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c RunConfig
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.ScenarioFile != "" {
		scenarioPath := c.ScenarioFile
		if !filepath.IsAbs(scenarioPath) {
			// Relative to the run file first, then to the working directory.
			cand := filepath.Join(filepath.Dir(path), scenarioPath)
			if _, err := os.Stat(cand); err == nil {
				scenarioPath = cand
			}
		}
		loaded, err := LoadScenario(scenarioPath)
		if err != nil {
			return nil, err
		}
		c.Scenario = MergeScenario(loaded, c.Scenario)
	}
	return &c, nil
}

func (c *RunConfig) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Scenario.Validate()
}

type scenarioFileWrapper struct {
	Scenario ScenarioConfig `yaml:"scenario"`
}

// LoadScenario reads a preset file of the form `scenario: {...}`.
func LoadScenario(path string) (ScenarioConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ScenarioConfig{}, err
	}
	var w scenarioFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ScenarioConfig{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return w.Scenario, nil
}

// ListScenarios loads every *.yaml preset in dir, sorted by ID. Files that fail
// to parse are skipped and returned in skipped.
func ListScenarios(dir string) (scenarios []Scenario, skipped []error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		sc, err := LoadScenario(path)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		if sc.Name == "" {
			sc.Name = id
		}
		scenarios = append(scenarios, Scenario{ID: id, File: path, Config: sc})
	}
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].ID < scenarios[j].ID })
	return scenarios, skipped, nil
}

// MergeScenario overlays non-zero fields from override onto base.
func MergeScenario(base, override ScenarioConfig) ScenarioConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Description != "" {
		out.Description = override.Description
	}
	if override.ChargePoints != 0 {
		out.ChargePoints = override.ChargePoints
	}
	if override.ArrivalMultiplier != 0 {
		out.ArrivalMultiplier = override.ArrivalMultiplier
	}
	if override.ConsumptionKWhPer100km != 0 {
		out.ConsumptionKWhPer100km = override.ConsumptionKWhPer100km
	}
	if override.ChargerPowerKW != 0 {
		out.ChargerPowerKW = override.ChargerPowerKW
	}
	return out
}

// InputSet converts the preset to a validated input set with defaults applied.
func (s ScenarioConfig) InputSet() (*model.InputSet, error) {
	in, err := model.NewInputSet(model.InputSet{
		Name:                   s.Name,
		ChargePoints:           s.ChargePoints,
		ArrivalMultiplier:      s.ArrivalMultiplier,
		ConsumptionKWhPer100km: s.ConsumptionKWhPer100km,
		ChargerPowerKW:         s.ChargerPowerKW,
	})
	if err != nil {
		return nil, fmt.Errorf("scenario config invalid: %w", err)
	}
	return in, nil
}

func (s ScenarioConfig) Validate() error {
	_, err := s.InputSet()
	return err
}
