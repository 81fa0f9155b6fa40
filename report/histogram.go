package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	histogramBins  = 10
	histogramWidth = 40
)

// ErrNoSamples is returned when there is nothing to report.
var ErrNoSamples = errors.New("report: no samples")

// Summary condenses wait samples given in seconds.
type Summary struct {
	Count          int
	Min, Max, Mean time.Duration
	P50, P99       time.Duration
}

// Summarize computes order statistics over samples in seconds.
func Summarize(samples []float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrNoSamples
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return Summary{
		Count: len(sorted),
		Min:   seconds(sorted[0]),
		Max:   seconds(sorted[len(sorted)-1]),
		Mean:  seconds(sum / float64(len(sorted))),
		P50:   seconds(percentile(sorted, 0.50)),
		P99:   seconds(percentile(sorted, 0.99)),
	}, nil
}

// NewPrinter returns the printer used for grouped number formatting.
func NewPrinter() *message.Printer { return message.NewPrinter(language.English) }

// Histogram writes a summary line and a text histogram of wait samples (seconds).
func Histogram(w io.Writer, samples []float64, p *message.Printer) error {
	if p == nil {
		p = NewPrinter()
	}
	sum, err := Summarize(samples)
	if err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "samples=%d min=%v mean=%v p50=%v p99=%v max=%v\n",
		sum.Count, sum.Min, sum.Mean, sum.P50, sum.P99, sum.Max); err != nil {
		return err
	}
	ns := make([]float64, len(samples))
	for i, v := range samples {
		ns[i] = v * float64(time.Second)
	}
	hist := histogram.Hist(histogramBins, ns)
	err = histogram.Fprintf(w, hist, histogram.Linear(histogramWidth), func(v float64) string {
		return p.Sprintf("% 11dns", time.Duration(v).Nanoseconds())
	})
	if err != nil {
		return fmt.Errorf("report: histogram: %w", err)
	}
	return nil
}

func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func seconds(v float64) time.Duration { return time.Duration(v * float64(time.Second)) }
