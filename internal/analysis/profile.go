package analysis

import (
	"math"
	"sort"

	"github.com/bobler41/EV-Parking-Simulation/internal/model"
)

// DayProfile summarizes a day of 15-minute power readings.
type DayProfile struct {
	Count int

	MinKW  float64
	MaxKW  float64
	MeanKW float64
	P05KW  float64
	P95KW  float64

	// PeakTickIndex is the first tick at MaxKW.
	PeakTickIndex int
	// EnergyKWh is the energy drawn over the day.
	EnergyKWh float64
	// LoadFactor is MeanKW / MaxKW, 0 for an idle day.
	LoadFactor float64
	// ActiveTicks counts ticks with non-zero power.
	ActiveTicks int
}

// ComputeProfile summarizes points, which may be in any order.
func ComputeProfile(points []model.ExemplaryDayPoint) DayProfile {
	p := DayProfile{}
	if len(points) == 0 {
		return p
	}
	p.Count = len(points)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(points))
	for _, pt := range points {
		v := pt.TotalPowerKW
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv || (v == maxv && pt.TickIndex < p.PeakTickIndex) {
			maxv = v
			p.PeakTickIndex = pt.TickIndex
		}
		if v > 0 {
			p.ActiveTicks++
		}
	}
	sort.Float64s(vals)
	p.MinKW = minv
	p.MaxKW = maxv
	p.MeanKW = sum / float64(len(vals))
	p.P05KW = percentileSorted(vals, 0.05)
	p.P95KW = percentileSorted(vals, 0.95)
	p.EnergyKWh = sum * model.TickMinutes / 60
	if maxv > 0 {
		p.LoadFactor = p.MeanKW / maxv
	}
	return p
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
