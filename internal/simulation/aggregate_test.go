package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventCounterBuckets(t *testing.T) {
	c := NewEventCounter(Epoch)
	c.Record(0)  // Thu 2026-01-01
	c.Record(0)  // same day
	c.Record(3)  // Sun 2026-01-04, same week
	c.Record(4)  // Mon 2026-01-05, new week
	c.Record(31) // Sun 2026-02-01

	aggs := c.Aggregates()
	require.Equal(t, 5, c.Total())

	want := []EventAgg{
		{Period: PeriodYear, PeriodStart: utcDate(2026, 1, 1), EventCount: 5},
		{Period: PeriodMonth, PeriodStart: utcDate(2026, 1, 1), EventCount: 4},
		{Period: PeriodMonth, PeriodStart: utcDate(2026, 2, 1), EventCount: 1},
		{Period: PeriodWeek, PeriodStart: utcDate(2025, 12, 29), EventCount: 3},
		{Period: PeriodWeek, PeriodStart: utcDate(2026, 1, 5), EventCount: 1},
		{Period: PeriodWeek, PeriodStart: utcDate(2026, 1, 26), EventCount: 1},
		{Period: PeriodDay, PeriodStart: utcDate(2026, 1, 1), EventCount: 2},
		{Period: PeriodDay, PeriodStart: utcDate(2026, 1, 4), EventCount: 1},
		{Period: PeriodDay, PeriodStart: utcDate(2026, 1, 5), EventCount: 1},
		{Period: PeriodDay, PeriodStart: utcDate(2026, 2, 1), EventCount: 1},
	}
	assert.Equal(t, want, aggs)
}

func TestEventCounterEmpty(t *testing.T) {
	aggs := NewEventCounter(Epoch).Aggregates()
	require.Len(t, aggs, 1)
	assert.Equal(t, PeriodYear, aggs[0].Period)
	assert.Equal(t, 0, aggs[0].EventCount)
}

func TestSortAggregates(t *testing.T) {
	aggs := []EventAgg{
		{Period: PeriodDay, PeriodStart: utcDate(2026, 1, 2)},
		{Period: PeriodWeek, PeriodStart: utcDate(2026, 1, 5)},
		{Period: PeriodDay, PeriodStart: utcDate(2026, 1, 1)},
		{Period: PeriodYear, PeriodStart: utcDate(2026, 1, 1)},
		{Period: PeriodMonth, PeriodStart: utcDate(2026, 1, 1)},
	}
	SortAggregates(aggs)
	got := make([]Period, len(aggs))
	for i, a := range aggs {
		got[i] = a.Period
	}
	assert.Equal(t, []Period{PeriodYear, PeriodMonth, PeriodWeek, PeriodDay, PeriodDay}, got)
	assert.Equal(t, utcDate(2026, 1, 1), aggs[3].PeriodStart)
}
