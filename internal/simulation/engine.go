package simulation

import "fmt"

const (
	HoursPerDay  = 24
	TicksPerHour = 4
	TicksPerDay  = HoursPerDay * TicksPerHour
	DaysPerYear  = 365
	TotalTicks   = DaysPerYear * TicksPerDay

	// TickHours is the length of one tick in hours (15 minutes).
	TickHours = 0.25

	// ExemplaryDayIndex is the simulated day whose power trace is returned.
	ExemplaryDayIndex = 180
)

// Engine runs one-year simulations against a fixed pair of probability tables.
// It holds no per-run state; every Run builds its own random source and chargers,
// so one Engine may be shared between goroutines.
type Engine struct {
	hourly  []float64
	buckets []DistanceBucket
}

// New returns an engine using the built-in arrival and distance tables.
func New() *Engine {
	return NewWithTables(HourlyArrival, DistanceBuckets)
}

func NewWithTables(hourly []float64, buckets []DistanceBucket) *Engine {
	return &Engine{hourly: hourly, buckets: buckets}
}

// Run simulates DaysPerYear days of charging for in.
// An error is returned only when the engine's tables are malformed.
func (e *Engine) Run(in Input) (*Output, error) {
	tickProb, err := TickProbabilities(e.hourly, in.ArrivalMultiplier)
	if err != nil {
		return nil, fmt.Errorf("build tick probabilities: %w", err)
	}
	buckets, err := NormalizeBuckets(e.buckets)
	if err != nil {
		return nil, fmt.Errorf("normalize distance buckets: %w", err)
	}

	rng := NewRand(in.Seed)
	energyPerTickKWh := in.ChargerPowerKW * TickHours
	kwhPerKM := in.ConsumptionKWhPer100km / 100
	demand := func() float64 {
		return SampleDistanceKM(rng, buckets) * kwhPerKM
	}

	n := in.ChargePoints
	if n < 0 {
		n = 0
	}
	chargers := make([]Charger, n)
	events := NewEventCounter(Epoch)

	exemplaryStart := ExemplaryDayIndex * TicksPerDay
	exemplaryEnd := exemplaryStart + TicksPerDay
	exemplary := make([]ExemplaryPoint, 0, TicksPerDay)

	totalEnergyKWh := 0.0
	actualMaxKW := 0.0

	for tick := 0; tick < TotalTicks; tick++ {
		arrivalProb := tickProb[tick%TicksPerDay]
		active := 0

		for i := range chargers {
			res := chargers[i].Step(rng, arrivalProb, energyPerTickKWh, demand)
			if res.Charged {
				active++
				totalEnergyKWh += res.DeliveredKWh
			}
			if res.Arrived {
				events.Record(tick / TicksPerDay)
			}
		}

		// Power drawn during this tick; a vehicle plugged in this tick starts drawing next tick.
		totalPowerKW := float64(active) * in.ChargerPowerKW
		if totalPowerKW > actualMaxKW {
			actualMaxKW = totalPowerKW
		}
		if tick >= exemplaryStart && tick < exemplaryEnd {
			exemplary = append(exemplary, ExemplaryPoint{TickIndex: tick - exemplaryStart, TotalPowerKW: totalPowerKW})
		}
	}

	theoreticalMaxKW := float64(in.ChargePoints) * in.ChargerPowerKW
	concurrency := 0.0
	if theoreticalMaxKW > 0 {
		concurrency = actualMaxKW / theoreticalMaxKW
	}

	return &Output{
		TotalEnergyKWh:    totalEnergyKWh,
		TheoreticalMaxKW:  theoreticalMaxKW,
		ActualMaxKW:       actualMaxKW,
		ConcurrencyFactor: concurrency,
		YearlyEventCount:  events.Total(),
		ExemplaryDayIndex: ExemplaryDayIndex,
		ExemplaryDay:      exemplary,
		EventAggs:         events.Aggregates(),
	}, nil
}
