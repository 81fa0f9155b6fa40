package present

import (
	"fmt"
	"strings"

	"github.com/soocke/frame-pacer-go/domain/render"
	"github.com/soocke/frame-pacer-go/domain/surface"
)

// Mode is the protocol used to hand a drawable back to the compositor.
type Mode int

const (
	// Immediate submits and presents from the queue's scheduled callback.
	Immediate Mode = iota
	// ScheduledWaitThenPresent blocks until the work is scheduled, then
	// presents on the calling goroutine.
	ScheduledWaitThenPresent
)

func (m Mode) String() string {
	switch m {
	case Immediate:
		return "immediate"
	case ScheduledWaitThenPresent:
		return "scheduled-wait"
	default:
		return "unknown"
	}
}

// ParseMode accepts the names produced by Mode.String plus a few aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "immediate":
		return Immediate, nil
	case "scheduled-wait", "scheduled", "transaction", "sync":
		return ScheduledWaitThenPresent, nil
	}
	return Immediate, fmt.Errorf("present: unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != Immediate && m != ScheduledWaitThenPresent {
		return nil, fmt.Errorf("present: invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Controller submits a frame and presents its drawable per one protocol.
type Controller interface {
	Mode() Mode
	// Present returns once the protocol hands control back to the render
	// loop. Errors mean the frame's visual update is lost.
	Present(q surface.Queue, seq *render.CommandSequence, d surface.Drawable) error
}

// NewController returns the controller for mode.
func NewController(mode Mode) Controller {
	if mode == ScheduledWaitThenPresent {
		return scheduledWait{}
	}
	return immediate{}
}

// NewImmediate returns an immediate-mode controller reporting late present
// failures to onError. onError runs on the queue's goroutine.
func NewImmediate(onError func(error)) Controller { return immediate{onError: onError} }

type immediate struct{ onError func(error) }

func (immediate) Mode() Mode { return Immediate }

// Present returns right after submission. The drawable is presented later,
// from whatever goroutine the queue uses to report scheduling.
func (c immediate) Present(q surface.Queue, seq *render.CommandSequence, d surface.Drawable) error {
	h, err := q.Submit(seq)
	if err != nil {
		return fmt.Errorf("present: submit: %w", err)
	}
	onError := c.onError
	h.OnScheduled(func() {
		if err := d.Present(); err != nil && onError != nil {
			onError(err)
		}
	})
	return nil
}

type scheduledWait struct{}

func (scheduledWait) Mode() Mode { return ScheduledWaitThenPresent }

// Present blocks for the scheduling confirmation, then presents synchronously.
func (scheduledWait) Present(q surface.Queue, seq *render.CommandSequence, d surface.Drawable) error {
	h, err := q.Submit(seq)
	if err != nil {
		return fmt.Errorf("present: submit: %w", err)
	}
	h.WaitUntilScheduled()
	if err := d.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}
