package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	exhaustedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	durationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))
)

// RenderText writes a human-readable report of results to w.
func RenderText(w io.Writer, results []*Result) error {
	var b strings.Builder
	for _, res := range results {
		renderResult(&b, res)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderResult(b *strings.Builder, res *Result) {
	sc := res.Scenario
	b.WriteString(headerStyle.Render(fmt.Sprintf("===== %s =====", sc.Name)))
	b.WriteString("\n")
	b.WriteString(descStyle.Render(sc.Describe()))
	b.WriteString("\n")

	// Small samples read best inline, larger ones one per line with index.
	if len(res.Sample) > 0 {
		if len(res.Sample) > 20 {
			parts := make([]string, len(res.Sample))
			for i, v := range res.Sample {
				parts[i] = strconv.FormatUint(uint64(v), 10)
			}
			b.WriteString(strings.Join(parts, ", "))
			b.WriteString("\n")
		} else {
			for i, v := range res.Sample {
				fmt.Fprintf(b, "%d: %d\n", i, v)
			}
		}
	}
	for i := range min(res.Exhausted, max(sc.Print-len(res.Sample), 0)) {
		fmt.Fprintf(b, "%d: %s\n", len(res.Sample)+i, exhaustedStyle.Render("exhausted"))
	}

	fmt.Fprintf(b, "produced: %d", res.Produced)
	if res.Shortfall > 0 {
		fmt.Fprintf(b, " (batch short by %d)", res.Shortfall)
	}
	if res.Exhausted > 0 {
		fmt.Fprintf(b, " (%d calls exhausted)", res.Exhausted)
	}
	b.WriteString("\n")

	if res.Verified {
		b.WriteString(okStyle.Render("verified: permutation ok"))
		b.WriteString("\n")
	}

	timing := fmt.Sprintf("duration: %.3fs", res.Timing.Mean())
	if res.Timing.Runs > 1 {
		timing += fmt.Sprintf(" ± %.3fs over %d runs (min %.3fs, p50 %.3fs, p95 %.3fs, max %.3fs)",
			res.Timing.StdDev(), res.Timing.Runs, res.Timing.Min(),
			res.Timing.Percentile(0.5), res.Timing.Percentile(0.95), res.Timing.Max())
	}
	if vps := res.ValuesPerSecond(); vps > 0 {
		timing += fmt.Sprintf(", %.1fM values/s", vps/1e6)
	}
	if res.Streams > 1 {
		timing += fmt.Sprintf(" across %d streams", res.Streams)
	}
	b.WriteString(durationStyle.Render(timing))
	b.WriteString("\n\n")
}

// ReportResult is the JSON form of a Result
type ReportResult struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Size            int      `json:"size"`
	Requested       int      `json:"requested"`
	Produced        int      `json:"produced"`
	Exhausted       int      `json:"exhausted"`
	Shortfall       int      `json:"shortfall"`
	Source          string   `json:"source"`
	Seed            *int64   `json:"seed,omitempty"`
	Streams         int      `json:"streams"`
	Verified        bool     `json:"verified"`
	Sample          []uint32 `json:"sample"`
	Runs            int      `json:"runs"`
	MeanSeconds     float64  `json:"mean_seconds"`
	StdDevSeconds   float64  `json:"stddev_seconds"`
	MinSeconds      float64  `json:"min_seconds"`
	P50Seconds      float64  `json:"p50_seconds"`
	P95Seconds      float64  `json:"p95_seconds"`
	MaxSeconds      float64  `json:"max_seconds"`
	ValuesPerSecond float64  `json:"values_per_second"`
}

// NewReportResult converts res to its JSON form.
func NewReportResult(res *Result) ReportResult {
	sample := res.Sample
	if sample == nil {
		sample = []uint32{}
	}
	return ReportResult{
		Name:            res.Scenario.Name,
		Description:     res.Scenario.Describe(),
		Size:            res.Scenario.Size,
		Requested:       res.Scenario.Requested(),
		Produced:        res.Produced,
		Exhausted:       res.Exhausted,
		Shortfall:       res.Shortfall,
		Source:          res.Source,
		Seed:            res.Seed,
		Streams:         res.Streams,
		Verified:        res.Verified,
		Sample:          sample,
		Runs:            res.Timing.Runs,
		MeanSeconds:     res.Timing.Mean(),
		StdDevSeconds:   res.Timing.StdDev(),
		MinSeconds:      res.Timing.Min(),
		P50Seconds:      res.Timing.Percentile(0.5),
		P95Seconds:      res.Timing.Percentile(0.95),
		MaxSeconds:      res.Timing.Max(),
		ValuesPerSecond: res.ValuesPerSecond(),
	}
}

// WriteJSON writes results to w as an indented JSON array.
func WriteJSON(w io.Writer, results []*Result) error {
	out := make([]ReportResult, len(results))
	for i, res := range results {
		out[i] = NewReportResult(res)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
