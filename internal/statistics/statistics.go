// Package statistics summarises repeated timing measurements.
package statistics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Durations tracks the wall time of repeated runs of the same workload
type Durations struct {
	Runs   int
	Sum    float64   // Seconds
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for percentile calculation
}

// Add records one run
func (d *Durations) Add(elapsed time.Duration) {
	s := elapsed.Seconds()
	d.Runs++
	d.Sum += s
	d.Sum2 += s * s
	d.Values = append(d.Values, s)
}

// Mean returns the arithmetic mean in seconds
func (d *Durations) Mean() float64 {
	if d.Runs == 0 {
		return 0
	}
	return d.Sum / float64(d.Runs)
}

// Variance returns the sample variance of all runs
func (d *Durations) Variance() float64 {
	if d.Runs < 2 {
		return 0
	}
	mean := d.Mean()
	v := (d.Sum2 - float64(d.Runs)*mean*mean) / float64(d.Runs-1)
	// Cancellation can leave a tiny negative residue for identical runs.
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation in seconds
func (d *Durations) StdDev() float64 {
	return math.Sqrt(d.Variance())
}

// Min returns the fastest run in seconds
func (d *Durations) Min() float64 {
	if len(d.Values) == 0 {
		return 0
	}
	m := d.Values[0]
	for _, v := range d.Values[1:] {
		m = math.Min(m, v)
	}
	return m
}

// Max returns the slowest run in seconds
func (d *Durations) Max() float64 {
	if len(d.Values) == 0 {
		return 0
	}
	m := d.Values[0]
	for _, v := range d.Values[1:] {
		m = math.Max(m, v)
	}
	return m
}

// Percentile returns the value at the given percentile (0.0 to 1.0).
// p outside that range is clamped.
func (d *Durations) Percentile(p float64) float64 {
	if len(d.Values) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	sorted := make([]float64, len(d.Values))
	copy(sorted, d.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// ValuesPerSecond returns throughput for a run that produced values items,
// based on the mean duration. Zero when no time was measured.
func (d *Durations) ValuesPerSecond(values int) float64 {
	mean := d.Mean()
	if mean == 0 {
		return 0
	}
	return float64(values) / mean
}

// Validate checks the accumulators agree with the recorded values
func (d *Durations) Validate() error {
	if d.Runs != len(d.Values) {
		return fmt.Errorf("values array length (%d) does not match run count (%d)",
			len(d.Values), d.Runs)
	}
	for i, v := range d.Values {
		if v < 0 {
			return fmt.Errorf("run %d has negative duration %.9fs", i, v)
		}
	}
	return nil
}
