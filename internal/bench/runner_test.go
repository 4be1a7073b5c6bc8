package bench

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/lazyshuffle/rng"
	"github.com/lox/lazyshuffle/shuffle"
)

// steppingClock advances a mock clock by step on every Now call, so each
// timed repeat measures exactly one step.
type steppingClock struct {
	*quartz.Mock
	step time.Duration
}

func (c *steppingClock) Now(tags ...string) time.Time {
	c.Mock.Advance(c.step)
	return c.Mock.Now(tags...)
}

func newTestRunner(t *testing.T, opts ...RunnerOption) *Runner {
	t.Helper()
	clock := &steppingClock{Mock: quartz.NewMock(t), step: 250 * time.Millisecond}
	return NewRunner(log.New(io.Discard), clock, opts...)
}

func TestRunPrint123(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), DefaultScenarios()[0])
	require.NoError(t, err)

	assert.Equal(t, 123, res.Produced)
	assert.Equal(t, 2, res.Shortfall, "batch of 123 after two singles yields 121")
	assert.Zero(t, res.Exhausted)
	assert.True(t, res.Verified)
	assert.Len(t, res.Sample, 123)
	assert.Equal(t, 1, res.Streams)
	assert.Equal(t, rng.NameXorshf96, res.Source)
	assert.Nil(t, res.Seed)

	// Stream 0 without a seed follows the reference generator.
	gen, err := shuffle.New(123)
	require.NoError(t, err)
	assert.Equal(t, gen.NextBatch(123), res.Sample)
}

func TestRunOverdraw7(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), DefaultScenarios()[1])
	require.NoError(t, err)

	assert.Equal(t, 7, res.Produced)
	assert.Equal(t, 3, res.Exhausted)
	assert.Zero(t, res.Shortfall)
	assert.Equal(t, []uint32{5, 1, 2, 3, 0, 6, 4}, res.Sample)
	assert.True(t, res.Verified)
}

func TestRunOverdrawAfterBatch(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Scenario{Name: "drained", Size: 7, Batch: 7, Overdraw: 3, Print: 10, Verify: true})
	require.NoError(t, err)

	assert.Equal(t, 7, res.Produced)
	assert.Equal(t, 3, res.Exhausted)
	assert.Zero(t, res.Shortfall)
	assert.Equal(t, []uint32{5, 1, 2, 3, 0, 6, 4}, res.Sample)
	assert.True(t, res.Verified)
}

func TestRunOverdrawWithValuesLeft(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Scenario{Name: "partial", Size: 10, Batch: 4, Overdraw: 2, Print: 6, Verify: true})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Produced)
	assert.Zero(t, res.Exhausted)

	gen, err := shuffle.New(10)
	require.NoError(t, err)
	assert.Equal(t, gen.NextBatch(6), res.Sample)
}

func TestRunTiming(t *testing.T) {
	r := newTestRunner(t)
	sc := Scenario{Name: "timed", Size: 1000, Batch: 1000, Repeat: 4}

	res, err := r.Run(context.Background(), sc)
	require.NoError(t, err)

	require.Equal(t, 4, res.Timing.Runs)
	for _, v := range res.Timing.Values {
		assert.InDelta(t, 0.25, v, 1e-9)
	}
	assert.InDelta(t, 4000.0, res.ValuesPerSecond(), 1e-6)
	require.NoError(t, res.Timing.Validate())
}

func TestRunParallel(t *testing.T) {
	r := newTestRunner(t, WithParallel(4), WithSeed(100))
	sc := Scenario{Name: "parallel", Size: 5000, Batch: 5000, Print: 5, Verify: true}

	res, err := r.Run(context.Background(), sc)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Streams)
	assert.Equal(t, 5000, res.Produced)
	assert.True(t, res.Verified)
	assert.InDelta(t, 20000/0.25, res.ValuesPerSecond(), 1e-6)

	// Stream 0 is seeded with the base seed.
	gen, err := shuffle.New(5000, shuffle.WithSeed(100))
	require.NoError(t, err)
	assert.Equal(t, gen.NextBatch(5), res.Sample)
}

func TestRunSources(t *testing.T) {
	for _, name := range rng.Names() {
		t.Run(name, func(t *testing.T) {
			r := newTestRunner(t, WithSourceName(name), WithParallel(2))
			res, err := r.Run(context.Background(), Scenario{Name: name, Size: 300, Batch: 300, Verify: true})
			require.NoError(t, err)
			assert.True(t, res.Verified)
		})
	}
}

func TestRunUnknownSource(t *testing.T) {
	r := newTestRunner(t, WithSourceName("nope"))
	_, err := r.Run(context.Background(), Scenario{Name: "x", Size: 10, Batch: 10})
	require.ErrorIs(t, err, rng.ErrUnknownSource)
}

func TestRunInvalidScenario(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Run(context.Background(), Scenario{Name: "x", Size: -5, Batch: 1})
	require.ErrorIs(t, err, ErrInvalidScenario)
}

func TestRunZeroSize(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Run(context.Background(), Scenario{Name: "empty", Size: 0, Singles: 3, Batch: 5, Print: 3, Verify: true})
	require.NoError(t, err)

	assert.Zero(t, res.Produced)
	assert.Equal(t, 3, res.Exhausted)
	assert.Equal(t, 5, res.Shortfall)
	assert.Empty(t, res.Sample)
}

func TestRunCancelled(t *testing.T) {
	r := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, Scenario{Name: "x", Size: 10, Batch: 10})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.txt")
	r := newTestRunner(t)

	res, err := r.Run(context.Background(), Scenario{Name: "dump", Size: 7, Singles: 7, Output: path})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{"5", "1", "2", "3", "0", "6", "4"}, lines)
	assert.Equal(t, 7, res.Produced)
}

func TestRunAll(t *testing.T) {
	r := newTestRunner(t)
	scenarios := DefaultScenarios()[:2]

	results, err := r.RunAll(context.Background(), scenarios)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "print-123", results[0].Scenario.Name)
	assert.Equal(t, "overdraw-7", results[1].Scenario.Name)

	scenarios = append(scenarios, Scenario{Name: "bad"})
	results, err = r.RunAll(context.Background(), scenarios)
	require.Error(t, err)
	assert.Len(t, results, 2, "results before the failure are kept")
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		values  []uint32
		n       int
		wantErr bool
	}{
		{"empty", nil, 0, false},
		{"partial", []uint32{3, 1}, 5, false},
		{"full", []uint32{2, 0, 1}, 3, false},
		{"repeat", []uint32{1, 1}, 3, true},
		{"out of range", []uint32{3}, 3, true},
		{"too many", []uint32{0, 1, 2}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verify(tt.values, tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotPermutation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifySparse(t *testing.T) {
	// Few values from a large range take the map path.
	require.NoError(t, verify([]uint32{999_999, 0, 12}, 1_000_000))
	require.ErrorIs(t, verify([]uint32{12, 999_999, 12}, 1_000_000), ErrNotPermutation)
}
