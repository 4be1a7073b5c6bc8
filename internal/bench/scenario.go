// Package bench drives shuffle generators through timed scenarios and
// reports what they produced.
package bench

import (
	"errors"
	"fmt"

	"github.com/lox/lazyshuffle/shuffle"
)

// ErrInvalidScenario is returned when a scenario cannot be run as described.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario describes one run against a fresh generator: Singles calls to
// Next, one batch request of Batch values, then Overdraw more calls to Next.
type Scenario struct {
	Name     string
	Size     int
	Singles  int    // Next calls before the batch; calls past the end count as exhausted
	Batch    int    // Batch request size, 0 for none
	Overdraw int    // Next calls after the batch; calls past the end count as exhausted
	Print    int    // Produced values to keep in the result for display
	Repeat   int    // Timed repetitions, 0 means 1
	Verify   bool   // Check the produced values form part of a permutation
	Output   string // File to dump produced values into, empty for none
}

// Requested returns how many values the scenario asks for in total.
func (s Scenario) Requested() int {
	return s.Singles + s.Batch + s.Overdraw
}

// Expected returns how many values the scenario will actually produce.
func (s Scenario) Expected() int {
	return min(s.Requested(), s.Size)
}

// Repeats returns the effective repeat count.
func (s Scenario) Repeats() int {
	return max(s.Repeat, 1)
}

// Describe returns a one-line human summary of the scenario.
func (s Scenario) Describe() string {
	desc := fmt.Sprintf("Generate %d values", s.Size)
	if s.Singles > 0 {
		desc += fmt.Sprintf(", retrieve %d one at a time", s.Singles)
	}
	if s.Batch > 0 {
		desc += fmt.Sprintf(", retrieve a batch of %d", s.Batch)
	}
	if s.Overdraw > 0 {
		desc += fmt.Sprintf(", then %d more one at a time", s.Overdraw)
	}
	if s.Print > 0 && s.Print < s.Expected() {
		desc += fmt.Sprintf(", print first %d", s.Print)
	}
	return desc
}

// Validate checks the scenario fields.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	}
	if s.Size < 0 || uint64(s.Size) > shuffle.MaxSize {
		return fmt.Errorf("%w: scenario %s: size %d out of range [0, %d]",
			ErrInvalidScenario, s.Name, s.Size, uint64(shuffle.MaxSize))
	}
	if s.Singles < 0 || s.Batch < 0 || s.Overdraw < 0 || s.Print < 0 || s.Repeat < 0 {
		return fmt.Errorf("%w: scenario %s: counts must not be negative", ErrInvalidScenario, s.Name)
	}
	if s.Requested() == 0 {
		return fmt.Errorf("%w: scenario %s: requests no values", ErrInvalidScenario, s.Name)
	}
	return nil
}

// DefaultScenarios returns the built-in scenarios: two small runs that show
// batch truncation and exhaustion, and two 20M runs that measure full and
// partial shuffles.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name:    "print-123",
			Size:    123,
			Singles: 2,
			Batch:   123,
			Print:   123,
			Verify:  true,
		},
		{
			Name:    "overdraw-7",
			Size:    7,
			Singles: 10,
			Print:   10,
			Verify:  true,
		},
		{
			Name:  "full-20m",
			Size:  20_000_000,
			Batch: 20_000_000,
			Print: 10,
		},
		{
			Name:  "partial-20m",
			Size:  20_000_000,
			Batch: 1_000_000,
			Print: 10,
		},
	}
}
