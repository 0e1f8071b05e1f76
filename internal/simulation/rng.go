package simulation

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// Rand is a seeded mulberry32 generator.
// Same seed produces the same sequence on every platform; all arithmetic wraps at 32 bits.
type Rand struct {
	a uint32
}

func NewRand(seed uint32) *Rand {
	return &Rand{a: seed}
}

// Float64 advances the state and returns the next draw in [0, 1).
func (r *Rand) Float64() float64 {
	r.a += 0x6D2B79F5
	a := r.a
	t := (a ^ (a >> 15)) * (a | 1)
	t = (t + (t^(t>>7))*(t|61)) ^ t
	return float64(t^(t>>14)) / 4294967296.0
}
