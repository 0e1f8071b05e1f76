package model

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Defaults applied to omitted input set fields.
const (
	DefaultArrivalMultiplier      = 1.0
	DefaultConsumptionKWhPer100km = 18.0
	DefaultChargerPowerKW         = 11.0
)

// InputSet is a stored charging scenario.
// Units:
// - ChargePoints: number of identical charge points, 1..300
// - ArrivalMultiplier: scales the hourly arrival probabilities, 0.2..2.0
// - ConsumptionKWhPer100km: vehicle energy intensity, 1..100
// - ChargerPowerKW: rated power per charge point, 0.1..1000
type InputSet struct {
	ID                     string
	Name                   string
	ChargePoints           int
	ArrivalMultiplier      float64
	ConsumptionKWhPer100km float64
	ChargerPowerKW         float64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// InputSetPatch holds optional field updates. Nil fields are left unchanged.
type InputSetPatch struct {
	Name                   *string
	ChargePoints           *int
	ArrivalMultiplier      *float64
	ConsumptionKWhPer100km *float64
	ChargerPowerKW         *float64
}

// NewInputSet fills defaults for zero-valued optional fields and validates the result.
func NewInputSet(s InputSet) (*InputSet, error) {
	if s.ArrivalMultiplier == 0 {
		s.ArrivalMultiplier = DefaultArrivalMultiplier
	}
	if s.ConsumptionKWhPer100km == 0 {
		s.ConsumptionKWhPer100km = DefaultConsumptionKWhPer100km
	}
	if s.ChargerPowerKW == 0 {
		s.ChargerPowerKW = DefaultChargerPowerKW
	}
	s.Name = strings.TrimSpace(s.Name)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *InputSet) Validate() error {
	if len(s.Name) > 200 {
		return errors.New("name must be at most 200 characters")
	}
	if s.ChargePoints < 1 || s.ChargePoints > 300 {
		return errors.New("chargePoints must be an integer in [1, 300]")
	}
	if !inRange(s.ArrivalMultiplier, 0.2, 2.0) {
		return errors.New("arrivalMultiplier must be in [0.2, 2.0]")
	}
	if !inRange(s.ConsumptionKWhPer100km, 1, 100) {
		return errors.New("consumptionKwhPer100km must be in [1, 100]")
	}
	if !inRange(s.ChargerPowerKW, 0.1, 1000) {
		return errors.New("chargerPowerKw must be in [0.1, 1000]")
	}
	return nil
}

// Apply returns a copy of s with the patch applied and validated.
func (s InputSet) Apply(p InputSetPatch) (*InputSet, error) {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.ChargePoints != nil {
		s.ChargePoints = *p.ChargePoints
	}
	if p.ArrivalMultiplier != nil {
		s.ArrivalMultiplier = *p.ArrivalMultiplier
	}
	if p.ConsumptionKWhPer100km != nil {
		s.ConsumptionKWhPer100km = *p.ConsumptionKWhPer100km
	}
	if p.ChargerPowerKW != nil {
		s.ChargerPowerKW = *p.ChargerPowerKW
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func inRange(x, lo, hi float64) bool {
	return !math.IsNaN(x) && x >= lo && x <= hi
}
