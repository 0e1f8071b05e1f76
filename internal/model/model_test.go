package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputSetDefaults(t *testing.T) {
	s, err := NewInputSet(InputSet{ChargePoints: 20, Name: "  depot  "})
	require.NoError(t, err)
	assert.Equal(t, "depot", s.Name)
	assert.Equal(t, DefaultArrivalMultiplier, s.ArrivalMultiplier)
	assert.Equal(t, DefaultConsumptionKWhPer100km, s.ConsumptionKWhPer100km)
	assert.Equal(t, DefaultChargerPowerKW, s.ChargerPowerKW)
}

func TestInputSetValidate(t *testing.T) {
	valid := InputSet{ChargePoints: 1, ArrivalMultiplier: 0.2, ConsumptionKWhPer100km: 100, ChargerPowerKW: 0.1}
	require.NoError(t, valid.Validate())

	cases := map[string]func(*InputSet){
		"too few charge points":  func(s *InputSet) { s.ChargePoints = 0 },
		"too many charge points": func(s *InputSet) { s.ChargePoints = 301 },
		"low multiplier":         func(s *InputSet) { s.ArrivalMultiplier = 0.1 },
		"high multiplier":        func(s *InputSet) { s.ArrivalMultiplier = 2.01 },
		"low consumption":        func(s *InputSet) { s.ConsumptionKWhPer100km = 0.5 },
		"high power":             func(s *InputSet) { s.ChargerPowerKW = 1000.5 },
		"long name":              func(s *InputSet) { s.Name = strings.Repeat("x", 201) },
	}
	for name, mutate := range cases {
		s := valid
		mutate(&s)
		assert.Error(t, s.Validate(), name)
	}
}

func TestInputSetApply(t *testing.T) {
	base, err := NewInputSet(InputSet{ChargePoints: 10})
	require.NoError(t, err)

	cp := 25
	power := 22.0
	updated, err := base.Apply(InputSetPatch{ChargePoints: &cp, ChargerPowerKW: &power})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.ChargePoints)
	assert.Equal(t, 22.0, updated.ChargerPowerKW)
	assert.Equal(t, 10, base.ChargePoints, "base must not change")

	bad := 0
	_, err = base.Apply(InputSetPatch{ChargePoints: &bad})
	assert.Error(t, err)
}

func TestRunStatusFinished(t *testing.T) {
	assert.False(t, RunQueued.Finished())
	assert.False(t, RunRunning.Finished())
	assert.True(t, RunSucceeded.Finished())
	assert.True(t, RunFailed.Finished())
}

func TestTickTimeLabel(t *testing.T) {
	assert.Equal(t, "00:00", TickTimeLabel(0))
	assert.Equal(t, "00:45", TickTimeLabel(3))
	assert.Equal(t, "12:15", TickTimeLabel(49))
	assert.Equal(t, "23:45", TickTimeLabel(95))
}
