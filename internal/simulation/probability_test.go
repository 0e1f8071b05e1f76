package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays a list of draws.
type fixedSource struct {
	vals []float64
	i    int
}

func (f *fixedSource) Float64() float64 {
	v := f.vals[f.i]
	f.i++
	return v
}

func TestHourlyToTickProbabilityCompounds(t *testing.T) {
	for _, pHour := range []float64{0, 0.0094, 0.1038, 0.5, 1} {
		pTick := HourlyToTickProbability(pHour)
		// Probability of at least one arrival over four ticks equals pHour.
		got := 1 - math.Pow(1-pTick, TicksPerHour)
		assert.InDelta(t, pHour, got, 1e-12)
	}
}

func TestTickProbabilities(t *testing.T) {
	probs, err := TickProbabilities(HourlyArrival, 1.0)
	require.NoError(t, err)
	require.Len(t, probs, TicksPerDay)

	for h := 0; h < HoursPerDay; h++ {
		want := HourlyToTickProbability(HourlyArrival[h])
		for k := 0; k < TicksPerHour; k++ {
			assert.Equal(t, want, probs[h*TicksPerHour+k], "hour %d tick %d", h, k)
		}
	}
}

func TestTickProbabilitiesClamp(t *testing.T) {
	hourly := make([]float64, HoursPerDay)
	hourly[0] = 0.6
	hourly[1] = -0.2

	probs, err := TickProbabilities(hourly, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, probs[0])
	assert.Equal(t, 0.0, probs[4])

	zero, err := TickProbabilities(HourlyArrival, 0)
	require.NoError(t, err)
	for _, p := range zero {
		assert.Equal(t, 0.0, p)
	}
}

func TestTickProbabilitiesRejectsBadTable(t *testing.T) {
	_, err := TickProbabilities(make([]float64, 23), 1)
	assert.True(t, errors.Is(err, ErrHourlyTable))
}

func TestNormalizeBuckets(t *testing.T) {
	norm, err := NormalizeBuckets(DistanceBuckets)
	require.NoError(t, err)
	require.Len(t, norm, len(DistanceBuckets))

	sum := 0.0
	for i, b := range norm {
		assert.Equal(t, DistanceBuckets[i].KM, b.KM)
		sum += b.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// the raw table is intentionally short of 1
	raw := 0.0
	for _, b := range DistanceBuckets {
		raw += b.Probability
	}
	assert.InDelta(t, 0.9997, raw, 1e-12)
}

func TestNormalizeBucketsRejectsNonPositive(t *testing.T) {
	_, err := NormalizeBuckets([]DistanceBucket{{KM: 10, Probability: 0}})
	assert.ErrorIs(t, err, ErrBucketWeights)

	_, err = NormalizeBuckets(nil)
	assert.ErrorIs(t, err, ErrBucketWeights)
}

func TestSampleDistanceKMBoundaries(t *testing.T) {
	buckets := []DistanceBucket{
		{KM: 0, Probability: 0.25},
		{KM: 10, Probability: 0.25},
		{KM: 20, Probability: 0.5},
	}
	cases := []struct {
		draw float64
		want float64
	}{
		{0, 0},
		{0.25, 0}, // inclusive upper bound
		{0.2500001, 10},
		{0.5, 10},
		{0.75, 20},
		{0.9999999, 20},
	}
	for _, tc := range cases {
		got := SampleDistanceKM(&fixedSource{vals: []float64{tc.draw}}, buckets)
		assert.Equal(t, tc.want, got, "draw %v", tc.draw)
	}
}

func TestSampleDistanceKMFallsBackToLastBucket(t *testing.T) {
	short := []DistanceBucket{{KM: 5, Probability: 0.3}, {KM: 50, Probability: 0.3}}
	got := SampleDistanceKM(&fixedSource{vals: []float64{0.99}}, short)
	assert.Equal(t, 50.0, got)
}
