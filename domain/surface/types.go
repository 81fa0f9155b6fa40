package surface

import (
	"errors"

	"github.com/soocke/frame-pacer-go/domain/render"
)

var (
	ErrAlreadyPresented = errors.New("surface: drawable already presented")
	ErrQueueClosed      = errors.New("surface: queue closed")
	ErrEmptySubmission  = errors.New("surface: empty command sequence")
)

// Drawable is a presentable surface handed out by the compositor. It must be
// presented at most once.
type Drawable interface {
	RenderPassDescriptor() *render.RenderPassDescriptor
	Present() error
}

// Releaser is implemented by drawables that can be handed back unpresented,
// used when a frame is dropped after acquisition.
type Releaser interface {
	Release()
}

// Provider hands out drawables. AcquireNextDrawable may block for as long as
// the compositor holds every surface and returns nil when none is available.
type Provider interface {
	AcquireNextDrawable() Drawable
}

// Handle tracks one submission on the GPU queue. Scheduled means the driver
// accepted and queued the work, not that it finished.
type Handle interface {
	// OnScheduled registers fn to run once the work is scheduled. fn runs on
	// an unspecified goroutine.
	OnScheduled(fn func())
	// WaitUntilScheduled blocks until the work is scheduled.
	WaitUntilScheduled()
}

// Queue accepts finished command sequences.
type Queue interface {
	Submit(seq *render.CommandSequence) (Handle, error)
}
