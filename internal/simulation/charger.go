package simulation

// residueKWh absorbs float residue left after the last partial delivery.
const residueKWh = 1e-9

// Charger is the per charge point state.
// RemainingKWh == 0 means idle, > 0 means a vehicle is charging.
type Charger struct {
	RemainingKWh float64
}

// StepResult describes what one charger did during a tick.
type StepResult struct {
	Charged      bool
	DeliveredKWh float64
	Arrived      bool
}

func (c *Charger) Charging() bool { return c.RemainingKWh > 0 }

// Step advances the charger by one tick. A charging charger delivers up to
// energyPerTickKWh; an idle one draws once from src and, on arrival, asks demand
// for the energy the vehicle needs. Charging and accepting an arrival never happen
// in the same tick.
func (c *Charger) Step(src Source, arrivalProb, energyPerTickKWh float64, demand func() float64) StepResult {
	if c.Charging() {
		delivered := energyPerTickKWh
		if c.RemainingKWh < delivered {
			delivered = c.RemainingKWh
		}
		c.RemainingKWh -= delivered
		if c.RemainingKWh <= residueKWh {
			c.RemainingKWh = 0
		}
		return StepResult{Charged: true, DeliveredKWh: delivered}
	}

	if src.Float64() >= arrivalProb {
		return StepResult{}
	}
	needed := demand()
	if needed <= 0 {
		// Vehicle arrived without a charging need.
		return StepResult{}
	}
	c.RemainingKWh = needed
	return StepResult{Arrived: true}
}
