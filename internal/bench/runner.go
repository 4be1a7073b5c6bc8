package bench

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/lazyshuffle/internal/fileutil"
	"github.com/lox/lazyshuffle/internal/statistics"
	"github.com/lox/lazyshuffle/rng"
	"github.com/lox/lazyshuffle/shuffle"
)

// ErrNotPermutation is returned when verification finds a repeated or
// out-of-range value.
var ErrNotPermutation = errors.New("produced values are not a permutation")

// Result is the outcome of running one scenario.
type Result struct {
	Scenario  Scenario
	Source    string
	Seed      *int64
	Streams   int
	Produced  int      // Values produced per stream per repeat
	Exhausted int      // Next calls per stream that found the generator exhausted
	Shortfall int      // Batch values requested but not delivered
	Sample    []uint32 // Leading values from stream 0 of the last repeat
	Verified  bool
	Timing    statistics.Durations
}

// ValuesPerSecond returns mean throughput across all streams.
func (r *Result) ValuesPerSecond() float64 {
	return r.Timing.ValuesPerSecond(r.Produced * r.Streams)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithSourceName selects the random source by name (see rng.Names).
func WithSourceName(name string) RunnerOption {
	return func(r *Runner) {
		r.source = name
	}
}

// WithSeed seeds stream i with seed+i. Without it, stream 0 of a xorshf96
// run uses the reference register state and other streams are seeded by
// their index.
func WithSeed(seed int64) RunnerOption {
	return func(r *Runner) {
		r.seed = &seed
	}
}

// WithParallel runs streams independent generators concurrently per repeat,
// each with its own source.
func WithParallel(streams int) RunnerOption {
	return func(r *Runner) {
		r.parallel = max(streams, 1)
	}
}

// Runner executes scenarios and times them.
type Runner struct {
	logger   *log.Logger
	clock    quartz.Clock
	source   string
	seed     *int64
	parallel int
}

// NewRunner creates a runner. Timing uses clock so tests can control it.
func NewRunner(logger *log.Logger, clock quartz.Clock, opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:   logger.WithPrefix("bench"),
		clock:    clock,
		source:   rng.NameXorshf96,
		parallel: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// streamOutcome is what a single generator produced in one repeat.
type streamOutcome struct {
	values    []uint32
	exhausted int
	shortfall int
}

// RunAll runs scenarios in order and stops at the first failure.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]*Result, error) {
	results := make([]*Result, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := r.Run(ctx, sc)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Run executes every repeat of sc and returns the aggregated result.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	// Fail on a bad source name before any timing starts.
	if _, err := r.newSource(0); err != nil {
		return nil, err
	}

	logger := r.logger.With("scenario", sc.Name)
	logger.Debug("Running scenario",
		"size", sc.Size,
		"singles", sc.Singles,
		"batch", sc.Batch,
		"overdraw", sc.Overdraw,
		"repeats", sc.Repeats(),
		"streams", r.parallel,
		"source", r.source)

	res := &Result{
		Scenario: sc,
		Source:   r.source,
		Seed:     r.seed,
		Streams:  r.parallel,
	}

	var last []*streamOutcome
	for i := range sc.Repeats() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}

		start := r.clock.Now()
		outs, err := r.runStreams(ctx, sc)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		elapsed := r.clock.Now().Sub(start)

		res.Timing.Add(elapsed)
		logger.Debug("Repeat complete", "repeat", i+1, "duration", elapsed)
		last = outs
	}

	first := last[0]
	res.Produced = len(first.values)
	res.Exhausted = first.exhausted
	res.Shortfall = first.shortfall
	// Clone so a small sample does not pin a large batch in memory.
	res.Sample = slices.Clone(first.values[:min(sc.Print, len(first.values))])

	if sc.Verify {
		for i, out := range last {
			if err := verify(out.values, sc.Size); err != nil {
				return nil, fmt.Errorf("scenario %s stream %d: %w", sc.Name, i, err)
			}
		}
		res.Verified = true
	}

	if sc.Output != "" {
		if err := fileutil.WriteValuesAtomic(sc.Output, first.values, 0644); err != nil {
			return nil, fmt.Errorf("scenario %s: writing %s: %w", sc.Name, sc.Output, err)
		}
		logger.Debug("Wrote values", "path", sc.Output, "count", len(first.values))
	}

	logger.Info("Scenario complete",
		"produced", res.Produced,
		"exhausted", res.Exhausted,
		"mean", res.Timing.Mean(),
		"valuesPerSec", int64(res.ValuesPerSecond()))

	return res, nil
}

func (r *Runner) runStreams(ctx context.Context, sc Scenario) ([]*streamOutcome, error) {
	outs := make([]*streamOutcome, r.parallel)
	if r.parallel == 1 {
		out, err := r.runStream(ctx, sc, 0)
		if err != nil {
			return nil, err
		}
		outs[0] = out
		return outs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range r.parallel {
		g.Go(func() error {
			out, err := r.runStream(gctx, sc, i)
			if err != nil {
				return fmt.Errorf("stream %d: %w", i, err)
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}

func (r *Runner) runStream(ctx context.Context, sc Scenario, stream int) (*streamOutcome, error) {
	src, err := r.newSource(stream)
	if err != nil {
		return nil, err
	}
	gen, err := shuffle.New(sc.Size, shuffle.WithSource(src))
	if err != nil {
		return nil, err
	}

	out := &streamOutcome{}
	values := make([]uint32, 0, sc.Expected())

	for range sc.Singles {
		v, ok := gen.Next()
		if !ok {
			out.exhausted++
			continue
		}
		values = append(values, v)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if sc.Batch > 0 {
		// Fill straight into the tail of values so a 20M batch is not copied.
		start := len(values)
		values = values[:start+min(sc.Batch, gen.Remaining())]
		got := gen.Fill(values[start:])
		out.shortfall = sc.Batch - got
	}

	for range sc.Overdraw {
		v, ok := gen.Next()
		if !ok {
			out.exhausted++
			continue
		}
		values = append(values, v)
	}

	out.values = values
	return out, nil
}

func (r *Runner) newSource(stream int) (rng.Source, error) {
	if r.seed != nil {
		return rng.New(r.source, *r.seed+int64(stream))
	}
	if r.source == rng.NameXorshf96 && stream == 0 {
		return rng.NewXorshf96(), nil
	}
	return rng.New(r.source, int64(stream))
}

// verify checks values are distinct members of [0, n), and a complete
// permutation when len(values) == n.
func verify(values []uint32, n int) error {
	if len(values) > n {
		return fmt.Errorf("%w: %d values from a range of %d", ErrNotPermutation, len(values), n)
	}
	// Small draws from huge ranges are tracked sparsely.
	var seen func(v uint32) bool
	if len(values)*8 < n {
		set := make(map[uint32]struct{}, len(values))
		seen = func(v uint32) bool {
			_, dup := set[v]
			set[v] = struct{}{}
			return dup
		}
	} else {
		set := make([]bool, n)
		seen = func(v uint32) bool {
			dup := set[v]
			set[v] = true
			return dup
		}
	}

	for i, v := range values {
		if int(v) >= n {
			return fmt.Errorf("%w: value %d at position %d out of range", ErrNotPermutation, v, i)
		}
		if seen(v) {
			return fmt.Errorf("%w: value %d repeated at position %d", ErrNotPermutation, v, i)
		}
	}
	return nil
}
