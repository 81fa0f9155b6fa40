package presenter

import (
	"sync"
	"testing"
	"time"

	"github.com/soocke/frame-pacer-go/domain/pacing"
)

type mockStats struct{ st pacing.Stats }

func (m *mockStats) Stats() pacing.Stats { return m.st }

type mockLatencyView struct {
	latency, stats []string
}

func (v *mockLatencyView) SetLatencyText(s string) { v.latency = append(v.latency, s) }
func (v *mockLatencyView) SetStatsText(s string)   { v.stats = append(v.stats, s) }

func TestLatencyPresenter_FlushesOnlyChanges(t *testing.T) {
	src := &mockStats{}
	v := &mockLatencyView{}
	p := NewLatencyPresenter(src, v)
	now := time.Now()

	p.Tick(now)
	if len(v.latency) != 0 {
		t.Fatalf("no text yet, view should be untouched: %v", v.latency)
	}
	if len(v.stats) != 1 {
		t.Fatalf("expected initial stats push, got %v", v.stats)
	}

	p.SetLatencyText("0.100 ms")
	p.Tick(now)
	p.Tick(now)
	if len(v.latency) != 1 || v.latency[0] != "0.100 ms" {
		t.Fatalf("expected single latency push, got %v", v.latency)
	}
	if len(v.stats) != 1 {
		t.Fatalf("unchanged stats should not be pushed again: %v", v.stats)
	}

	src.st.Frames = 3
	src.st.Presented = 2
	src.st.Skipped[pacing.SkipNoDrawable] = 1
	p.SetLatencyText("0.190 ms")
	p.Tick(now)
	if len(v.latency) != 2 || v.latency[1] != "0.190 ms" {
		t.Fatalf("expected updated latency, got %v", v.latency)
	}
	want := "frames 3  presented 2  skipped 1  stalls 0"
	if v.stats[len(v.stats)-1] != want {
		t.Fatalf("stats text %q, want %q", v.stats[len(v.stats)-1], want)
	}
}

func TestLatencyPresenter_ConcurrentWrites(t *testing.T) {
	p := NewLatencyPresenter(nil, &mockLatencyView{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.SetLatencyText("1.000 ms")
			}
		}()
	}
	wg.Wait()
	if p.Latest() != "1.000 ms" {
		t.Fatalf("unexpected latest %q", p.Latest())
	}
}

func TestLatencyPresenter_NilSafe(t *testing.T) {
	var p *LatencyPresenter
	p.SetLatencyText("x")
	p.Tick(time.Now())
	if p.Latest() != "" {
		t.Fatalf("nil presenter should report empty text")
	}
}
