package pacing

import (
	"fmt"
	"strings"
)

// Alpha is the weight of the newest sample in the latency low-pass filter.
const Alpha = 0.1

// Smooth folds raw into prev. The result is a convex combination of the two.
func Smooth(prev, raw float64) float64 {
	return raw*Alpha + prev*(1-Alpha)
}

// FrameMetrics is the drawable wait observed by the render loop, in seconds.
type FrameMetrics struct {
	RawWaitSeconds      float64
	SmoothedWaitSeconds float64
}

// FormatLatency renders seconds as milliseconds with three decimals.
func FormatLatency(seconds float64) string {
	return fmt.Sprintf("%.3f ms", seconds*1000)
}

// Variant selects which build of the harness the engine behaves as.
type Variant int

const (
	// VariantA presents without measuring and without baseline load.
	VariantA Variant = iota
	// VariantB applies the per-frame delay and measures every frame.
	VariantB
)

func (v Variant) String() string {
	switch v {
	case VariantA:
		return "A"
	case VariantB:
		return "B"
	default:
		return "unknown"
	}
}

// Measures reports whether the variant computes and exposes the wait metric.
func (v Variant) Measures() bool { return v == VariantB }

// ParseVariant accepts "A" or "B" in any case.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return VariantA, nil
	case "", "B":
		return VariantB, nil
	}
	return VariantB, fmt.Errorf("pacing: unknown variant %q", s)
}

func (v Variant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Variant) UnmarshalText(b []byte) error {
	p, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}

// SkipReason says why a frame produced no present.
type SkipReason int

const (
	SkipNoDrawable SkipReason = iota
	SkipNoRenderTarget
	SkipEncode
	SkipPresent
	numSkipReasons
)

func (r SkipReason) String() string {
	switch r {
	case SkipNoDrawable:
		return "no-drawable"
	case SkipNoRenderTarget:
		return "no-render-target"
	case SkipEncode:
		return "encode"
	case SkipPresent:
		return "present"
	default:
		return "unknown"
	}
}
