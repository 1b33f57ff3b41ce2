package testutil

// FixedUniform is a uniform source that replays a canned sequence,
// cycling when exhausted. It makes stochastic per-bin decisions
// reproducible in tests.
type FixedUniform struct {
	Values []float64
	next   int
}

// Float64 returns the next canned value.
func (f *FixedUniform) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}

	v := f.Values[f.next]

	f.next++
	if f.next >= len(f.Values) {
		f.next = 0
	}

	return v
}
