package simulation

// DistanceBucket is one entry of the charging demand distribution.
// Units:
// - KM: km of range the arriving vehicle wants to recharge
// - Probability: weight as a decimal (normalized before use)
type DistanceBucket struct {
	KM          float64
	Probability float64
}

// HourlyArrival is the probability that a single charge point sees an arrival
// during each hour of the day (index 0 = 00:00-01:00 UTC).
var HourlyArrival = []float64{
	0.0094, 0.0094, 0.0094, 0.0094, 0.0094, 0.0094, 0.0094, 0.0094,
	0.0283, 0.0283,
	0.0566, 0.0566, 0.0566,
	0.0755, 0.0755, 0.0755,
	0.1038, 0.1038, 0.1038,
	0.0472, 0.0472, 0.0472,
	0.0094, 0.0094,
}

// DistanceBuckets is the charging demand distribution in km of range.
// The weights sum to 0.9997 due to rounding, so they are normalized at run start.
var DistanceBuckets = []DistanceBucket{
	{KM: 0, Probability: 0.3431}, // no charging need
	{KM: 5, Probability: 0.0490},
	{KM: 10, Probability: 0.0980},
	{KM: 20, Probability: 0.1176},
	{KM: 30, Probability: 0.0882},
	{KM: 50, Probability: 0.1176},
	{KM: 100, Probability: 0.1078},
	{KM: 200, Probability: 0.0490},
	{KM: 300, Probability: 0.0294},
}
