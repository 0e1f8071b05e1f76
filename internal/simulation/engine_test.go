package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() Input {
	return Input{
		ChargePoints:           20,
		ArrivalMultiplier:      1.0,
		ConsumptionKWhPer100km: 18,
		ChargerPowerKW:         11,
		Seed:                   12345,
	}
}

func mustRun(t *testing.T, in Input) *Output {
	t.Helper()
	out, err := New().Run(in)
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

func TestRunGoldenScenario(t *testing.T) {
	out := mustRun(t, baseInput())

	assert.Equal(t, 4596, out.YearlyEventCount)
	assert.Equal(t, 77.0, out.ActualMaxKW)
	assert.Equal(t, 220.0, out.TheoreticalMaxKW)
	assert.InDelta(t, 0.35, out.ConcurrencyFactor, 1e-12)
	assert.InDelta(t, 53611.2, out.TotalEnergyKWh, 1e-6)
	assert.Equal(t, ExemplaryDayIndex, out.ExemplaryDayIndex)

	require.GreaterOrEqual(t, len(out.EventAggs), 2)
	assert.Equal(t, EventAgg{Period: PeriodYear, PeriodStart: utcDate(2026, 1, 1), EventCount: 4596}, out.EventAggs[0])
	assert.Equal(t, EventAgg{Period: PeriodMonth, PeriodStart: utcDate(2026, 1, 1), EventCount: 401}, out.EventAggs[1])
	assert.Equal(t, EventAgg{Period: PeriodMonth, PeriodStart: utcDate(2026, 2, 1), EventCount: 398}, out.EventAggs[2])

	counts := map[Period]int{}
	for _, a := range out.EventAggs {
		counts[a.Period]++
	}
	assert.Equal(t, map[Period]int{PeriodYear: 1, PeriodMonth: 12, PeriodWeek: 53, PeriodDay: 365}, counts)
}

func TestRunIsDeterministic(t *testing.T) {
	a := mustRun(t, baseInput())
	b := mustRun(t, baseInput())
	assert.Equal(t, a, b)
}

func TestRunSeedSensitivity(t *testing.T) {
	a := mustRun(t, baseInput())
	in := baseInput()
	in.Seed = 54321
	b := mustRun(t, in)

	assert.NotEqual(t, a.TotalEnergyKWh, b.TotalEnergyKWh)
	assert.NotEqual(t, a.ExemplaryDay, b.ExemplaryDay)
}

func TestRunBounds(t *testing.T) {
	inputs := []Input{
		baseInput(),
		{ChargePoints: 1, ArrivalMultiplier: 2.0, ConsumptionKWhPer100km: 100, ChargerPowerKW: 0.1, Seed: 1},
		{ChargePoints: 300, ArrivalMultiplier: 0.2, ConsumptionKWhPer100km: 1, ChargerPowerKW: 1000, Seed: 99},
		{ChargePoints: 7, ArrivalMultiplier: 1.3, ConsumptionKWhPer100km: 25, ChargerPowerKW: 22, Seed: 0xFFFFFFFF},
	}
	for _, in := range inputs {
		out := mustRun(t, in)
		assert.GreaterOrEqual(t, out.ConcurrencyFactor, 0.0)
		assert.LessOrEqual(t, out.ConcurrencyFactor, 1.0)
		assert.LessOrEqual(t, out.ActualMaxKW, out.TheoreticalMaxKW)
		assert.GreaterOrEqual(t, out.TotalEnergyKWh, 0.0)
	}
}

func TestRunExemplaryDayShape(t *testing.T) {
	for _, in := range []Input{baseInput(), {ChargePoints: 0, ChargerPowerKW: 11, ConsumptionKWhPer100km: 18, ArrivalMultiplier: 1}} {
		out := mustRun(t, in)
		require.Len(t, out.ExemplaryDay, TicksPerDay)
		for i, p := range out.ExemplaryDay {
			assert.Equal(t, i, p.TickIndex)
		}
	}
}

func TestRunAggregationReconciles(t *testing.T) {
	out := mustRun(t, Input{ChargePoints: 5, ArrivalMultiplier: 2.0, ConsumptionKWhPer100km: 18, ChargerPowerKW: 11, Seed: 42})

	monthTotals := map[string]int{}
	daysByMonth := map[string]int{}
	weekSum, monthSum := 0, 0
	for _, a := range out.EventAggs {
		key := a.PeriodStart.Format("2006-01")
		switch a.Period {
		case PeriodMonth:
			monthTotals[key] = a.EventCount
			monthSum += a.EventCount
		case PeriodDay:
			daysByMonth[key] += a.EventCount
			assert.Positive(t, a.EventCount)
		case PeriodWeek:
			weekSum += a.EventCount
		}
	}
	assert.Equal(t, monthTotals, daysByMonth)
	assert.Equal(t, out.YearlyEventCount, monthSum)
	assert.Equal(t, out.YearlyEventCount, weekSum)
	assert.Equal(t, 2250, out.YearlyEventCount)
}

func TestRunZeroChargers(t *testing.T) {
	out := mustRun(t, Input{ChargePoints: 0, ChargerPowerKW: 11, ConsumptionKWhPer100km: 18, ArrivalMultiplier: 1.0, Seed: 777})

	assert.Equal(t, 0.0, out.TotalEnergyKWh)
	assert.Equal(t, 0.0, out.TheoreticalMaxKW)
	assert.Equal(t, 0.0, out.ActualMaxKW)
	assert.Equal(t, 0.0, out.ConcurrencyFactor)
	assert.Equal(t, 0, out.YearlyEventCount)
	for _, p := range out.ExemplaryDay {
		assert.Equal(t, 0.0, p.TotalPowerKW)
	}
}

func TestRunZeroArrivals(t *testing.T) {
	for _, seed := range []uint32{0, 1, 12345} {
		in := baseInput()
		in.ArrivalMultiplier = 0
		in.Seed = seed
		out := mustRun(t, in)
		assert.Equal(t, 0, out.YearlyEventCount)
		assert.Equal(t, 0.0, out.TotalEnergyKWh)
		require.Len(t, out.EventAggs, 1)
	}
}

func TestRunPeakGrowsWithChargePoints(t *testing.T) {
	prev := 0.0
	for _, n := range []int{1, 10, 50} {
		in := baseInput()
		in.ChargePoints = n
		in.Seed = 7
		out := mustRun(t, in)
		assert.GreaterOrEqual(t, out.ActualMaxKW, prev, "charge points %d", n)
		prev = out.ActualMaxKW
	}
}

func TestRunRejectsMalformedTables(t *testing.T) {
	_, err := NewWithTables(HourlyArrival[:23], DistanceBuckets).Run(baseInput())
	assert.ErrorIs(t, err, ErrHourlyTable)

	_, err = NewWithTables(HourlyArrival, []DistanceBucket{{KM: 5, Probability: -1}}).Run(baseInput())
	assert.ErrorIs(t, err, ErrBucketWeights)
}
