package simulation

// Input is one scenario to simulate.
// Units:
// - ArrivalMultiplier: scales the hourly arrival table
// - ConsumptionKWhPer100km: vehicle energy intensity
// - ChargerPowerKW: rated power of every charge point
//
// Bounds are enforced by the caller (see model.InputSet.Validate); the engine
// runs whatever it is given.
type Input struct {
	ChargePoints           int
	ArrivalMultiplier      float64
	ConsumptionKWhPer100km float64
	ChargerPowerKW         float64
	Seed                   uint32
}

// ExemplaryPoint is the aggregate power drawn during one tick of the exemplary day.
type ExemplaryPoint struct {
	TickIndex    int
	TotalPowerKW float64
}

// Output is the result of a one-year run.
type Output struct {
	TotalEnergyKWh    float64
	TheoreticalMaxKW  float64
	ActualMaxKW       float64
	ConcurrencyFactor float64
	YearlyEventCount  int

	ExemplaryDayIndex int
	ExemplaryDay      []ExemplaryPoint

	EventAggs []EventAgg
}
