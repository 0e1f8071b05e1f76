package simulation

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrHourlyTable   = errors.New("hourly arrival table must have 24 entries")
	ErrBucketWeights = errors.New("distance bucket weights must sum to a positive number")
)

// HourlyToTickProbability converts an hourly probability into the per-tick
// probability that compounds to it over TicksPerHour independent ticks.
func HourlyToTickProbability(pHour float64) float64 {
	return 1 - math.Pow(1-pHour, 1.0/TicksPerHour)
}

// TickProbabilities scales the hourly table by multiplier, clamps each value to
// [0,1] and expands it to one entry per tick of the day.
func TickProbabilities(hourly []float64, multiplier float64) ([]float64, error) {
	if len(hourly) != HoursPerDay {
		return nil, fmt.Errorf("%w: got %d", ErrHourlyTable, len(hourly))
	}
	out := make([]float64, 0, TicksPerDay)
	for _, pHour := range hourly {
		pTick := HourlyToTickProbability(clamp01(pHour * multiplier))
		for i := 0; i < TicksPerHour; i++ {
			out = append(out, pTick)
		}
	}
	return out, nil
}

// NormalizeBuckets rescales the weights so they sum to 1, keeping the order.
func NormalizeBuckets(buckets []DistanceBucket) ([]DistanceBucket, error) {
	total := 0.0
	for _, b := range buckets {
		total += b.Probability
	}
	if len(buckets) == 0 || !(total > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrBucketWeights, total)
	}
	out := make([]DistanceBucket, len(buckets))
	for i, b := range buckets {
		out[i] = DistanceBucket{KM: b.KM, Probability: b.Probability / total}
	}
	return out, nil
}

// SampleDistanceKM draws once from src and returns the km of the first bucket
// whose cumulative weight reaches the draw. buckets must be normalized and non-empty.
func SampleDistanceKM(src Source, buckets []DistanceBucket) float64 {
	r := src.Float64()
	cum := 0.0
	for _, b := range buckets {
		cum += b.Probability
		if r <= cum {
			return b.KM
		}
	}
	// r can exceed the final cumulative sum by float residue.
	return buckets[len(buckets)-1].KM
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
