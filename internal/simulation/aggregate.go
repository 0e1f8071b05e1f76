package simulation

import (
	"sort"
	"time"
)

// EventAgg is the number of charging events that started within one period.
type EventAgg struct {
	Period      Period
	PeriodStart time.Time
	EventCount  int
}

// counter keeps counts keyed by period start and remembers first-seen order.
type counter struct {
	order  []time.Time
	counts map[time.Time]int
}

func newCounter() *counter {
	return &counter{counts: make(map[time.Time]int)}
}

func (c *counter) add(key time.Time) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// EventCounter buckets charging events into UTC day, Monday-week and month
// counters plus a yearly total. Periods without events are never materialized.
type EventCounter struct {
	base   time.Time
	total  int
	days   *counter
	weeks  *counter
	months *counter

	// cache of the last day index seen; events arrive in tick order.
	lastDay   int
	lastStart time.Time
}

func NewEventCounter(base time.Time) *EventCounter {
	return &EventCounter{
		base:    DayStart(base, 0),
		days:    newCounter(),
		weeks:   newCounter(),
		months:  newCounter(),
		lastDay: -1,
	}
}

// Record counts one event on the given simulated day.
func (e *EventCounter) Record(dayIndex int) {
	if dayIndex != e.lastDay {
		e.lastDay = dayIndex
		e.lastStart = DayStart(e.base, dayIndex)
	}
	day := e.lastStart
	e.total++
	e.days.add(day)
	e.weeks.add(PeriodStart(PeriodWeek, day))
	e.months.add(PeriodStart(PeriodMonth, day))
}

func (e *EventCounter) Total() int { return e.total }

// Aggregates returns the year record followed by month, week and day records,
// each kind ordered by period start.
func (e *EventCounter) Aggregates() []EventAgg {
	out := make([]EventAgg, 0, 1+len(e.months.order)+len(e.weeks.order)+len(e.days.order))
	out = append(out, EventAgg{Period: PeriodYear, PeriodStart: PeriodStart(PeriodYear, e.base), EventCount: e.total})
	out = appendCounter(out, PeriodMonth, e.months)
	out = appendCounter(out, PeriodWeek, e.weeks)
	out = appendCounter(out, PeriodDay, e.days)
	SortAggregates(out)
	return out
}

func appendCounter(out []EventAgg, p Period, c *counter) []EventAgg {
	for _, k := range c.order {
		out = append(out, EventAgg{Period: p, PeriodStart: k, EventCount: c.counts[k]})
	}
	return out
}

// SortAggregates orders aggregates by (period kind, period start) in place.
func SortAggregates(aggs []EventAgg) {
	sort.SliceStable(aggs, func(i, j int) bool {
		ri, rj := aggs[i].Period.rank(), aggs[j].Period.rank()
		if ri != rj {
			return ri < rj
		}
		return aggs[i].PeriodStart.Before(aggs[j].PeriodStart)
	})
}
