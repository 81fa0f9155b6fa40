package surface

import (
	"errors"
	"testing"
	"time"

	"github.com/soocke/frame-pacer-go/domain/render"
)

func testSeq(t *testing.T) *render.CommandSequence {
	t.Helper()
	res, err := render.NewResources()
	if err != nil {
		t.Fatalf("resources: %v", err)
	}
	seq, err := render.EncodeQuad(res, &render.RenderPassDescriptor{Width: 1, Height: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return seq
}

func TestSimulated_AcquireBlocksWhenPoolExhausted(t *testing.T) {
	s := NewSimulated(SimConfig{DrawableCount: 2, RefreshInterval: 10 * time.Millisecond, HoldRefreshes: 1}, nil)
	defer s.Close()

	a := s.AcquireNextDrawable()
	b := s.AcquireNextDrawable()
	if a == nil || b == nil {
		t.Fatalf("expected two drawables from a pool of two")
	}
	if err := a.Present(); err != nil {
		t.Fatalf("present: %v", err)
	}
	start := time.Now()
	c := s.AcquireNextDrawable()
	if c == nil {
		t.Fatalf("expected the presented drawable to come back")
	}
	// Returned at the next boundary plus one held refresh.
	if waited := time.Since(start); waited < 10*time.Millisecond {
		t.Fatalf("acquisition should block at least one refresh, waited %v", waited)
	}
	if st := s.Stats(); st.Acquired != 3 || st.Presented != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestSimulated_PresentTwiceFails(t *testing.T) {
	s := NewSimulated(SimConfig{DrawableCount: 1}, nil)
	defer s.Close()
	d := s.AcquireNextDrawable()
	if d.RenderPassDescriptor() == nil {
		t.Fatalf("acquired drawable should expose a render target")
	}
	if err := d.Present(); err != nil {
		t.Fatalf("first present: %v", err)
	}
	if err := d.Present(); !errors.Is(err, ErrAlreadyPresented) {
		t.Fatalf("expected ErrAlreadyPresented, got %v", err)
	}
	if d.RenderPassDescriptor() != nil {
		t.Fatalf("presented drawable must not expose a render target")
	}
}

func TestSimulated_ReleaseReturnsImmediately(t *testing.T) {
	s := NewSimulated(SimConfig{DrawableCount: 1, RefreshInterval: time.Hour}, nil)
	defer s.Close()
	d := s.AcquireNextDrawable()
	d.(Releaser).Release()
	got := make(chan Drawable, 1)
	go func() { got <- s.AcquireNextDrawable() }()
	select {
	case d2 := <-got:
		if d2 == nil {
			t.Fatalf("expected released drawable back")
		}
	case <-time.After(time.Second):
		t.Fatalf("released drawable was not returned to the pool")
	}
	if s.Stats().Released != 1 {
		t.Fatalf("expected one release, got %+v", s.Stats())
	}
}

func TestSimulated_CloseUnblocksAcquire(t *testing.T) {
	s := NewSimulated(SimConfig{DrawableCount: 1, RefreshInterval: time.Hour}, nil)
	_ = s.AcquireNextDrawable()
	got := make(chan Drawable, 1)
	go func() { got <- s.AcquireNextDrawable() }()
	time.Sleep(5 * time.Millisecond)
	s.Close()
	select {
	case d := <-got:
		if d != nil {
			t.Fatalf("expected nil drawable after close")
		}
	case <-time.After(time.Second):
		t.Fatalf("acquire did not unblock on close")
	}
}

func TestSimQueue_WaitAndCallback(t *testing.T) {
	s := NewSimulated(SimConfig{ScheduleLatency: 2 * time.Millisecond}, nil)
	defer s.Close()
	q := s.Queue()
	start := time.Now()
	h, err := q.Submit(testSeq(t))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	fired := make(chan struct{})
	h.OnScheduled(func() { close(fired) })
	h.WaitUntilScheduled()
	if el := time.Since(start); el < 2*time.Millisecond {
		t.Fatalf("scheduled before the configured latency: %v", el)
	}
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("scheduled callback never ran")
	}
	// Registering after scheduling still runs the callback.
	late := make(chan struct{})
	h.OnScheduled(func() { close(late) })
	select {
	case <-late:
	case <-time.After(time.Second):
		t.Fatalf("late callback never ran")
	}
}

func TestSimQueue_Errors(t *testing.T) {
	s := NewSimulated(SimConfig{}, nil)
	q := s.Queue()
	if _, err := q.Submit(nil); !errors.Is(err, ErrEmptySubmission) {
		t.Fatalf("expected ErrEmptySubmission, got %v", err)
	}
	s.Close()
	if _, err := q.Submit(testSeq(t)); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}
