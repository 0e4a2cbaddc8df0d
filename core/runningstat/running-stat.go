// Package runningstat implements Knuth and Welford's method for computing the standard deviation.
// Inputs may carry fractional weights, as histogram bin counts do.
package runningstat

import (
	"math"

	"github.com/zyedidia/generic"
)

// RunningStat collects statistics and allows computing min, max, mean, and variance.
// Algorithm comes from https://www.johndcook.com/blog/standard_deviation/ ,
// extended to weighted inputs per West (1979).
// The zero RunningStat is empty and ready to use.
type RunningStat struct {
	i   int
	w   float64
	m1  float64
	m2  float64
	min float64
	max float64
}

// Push adds an input with unit weight.
func (s *RunningStat) Push(x float64) {
	s.PushWeighted(x, 1)
}

// PushWeighted adds an input with a weight.
// Inputs with non-positive or NaN weight are ignored.
func (s *RunningStat) PushWeighted(x, weight float64) {
	if !(weight > 0) || math.IsNaN(x) {
		return
	}
	if s.i == 0 {
		s.min, s.max = x, x
	} else {
		s.min, s.max = generic.Min(s.min, x), generic.Max(s.max, x)
	}
	s.i++
	s.w += weight
	delta := x - s.m1
	s.m1 += weight / s.w * delta
	s.m2 += weight * delta * (x - s.m1)
}

// Read returns current counters as Snapshot.
func (s RunningStat) Read() Snapshot {
	return newSnapshot(s.i, s.w, s.m1, s.m2, s.i > 0, s.min, s.max)
}
