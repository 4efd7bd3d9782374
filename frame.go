package ggwin

import (
	"fmt"

	"github.com/gogpu/gg"
)

// State is the frame loop state.
type State uint8

const (
	// StateIdle means no window has been opened yet.
	StateIdle State = iota

	// StateReady means the surface and the presentation buffer exist and
	// match in size.
	StateReady

	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// DrawFunc draws one frame into dc. size is the surface size in effect for
// this frame; layout that depends on the window size must be computed from it.
type DrawFunc func(dc *gg.Context, size Size) error

// WindowFactory creates the Window for a freshly created platform window.
type WindowFactory func(h *Handle) (*Window, error)

// FrameLoop drives the frame cycle of one window from platform events:
//
//	Idle  --Open-->    Ready
//	Ready --Resized--> Ready  (render target, then presentation buffer)
//	Ready --Redraw-->  Ready  (draw, present, request next redraw)
//	Ready --Exposed--> Ready  (Redraw unless one is already pending)
//	any   --Close-->   Closed
//
// A failed resize keeps the loop Ready with the previous size and returns the
// error; the caller decides whether to wait for the next resize event or to
// give up. Nothing is retried automatically.
//
// All methods must be called from the goroutine running the platform event
// loop. No method spawns goroutines.
type FrameLoop struct {
	state   State
	handle  *Handle
	win     *Window
	draw    DrawFunc
	opts    loopOptions
	pending bool
	frames  uint64
}

// NewFrameLoop creates an idle loop that renders frames with draw.
func NewFrameLoop(draw DrawFunc, opts ...LoopOption) *FrameLoop {
	o := defaultLoopOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FrameLoop{draw: draw, opts: o}
}

// Open handles the window-creation event. It takes ownership of the caller's
// reference to h and calls open to build the Window. Opening an already
// ready loop is a no-op. On error the reference is released and the loop
// stays idle; backends report
// unusable devices with errors matching [IsFatal].
func (l *FrameLoop) Open(h *Handle, open WindowFactory) error {
	switch l.state {
	case StateClosed:
		return ErrClosed
	case StateReady:
		return nil
	}

	win, err := open(h)
	if err != nil {
		if rerr := h.Release(); rerr != nil {
			Logger().Warn("releasing platform window", "err", rerr)
		}
		return err
	}
	l.handle = h
	l.win = win
	l.state = StateReady
	l.requestRedraw()
	return nil
}

// Resized handles a platform resize notification.
func (l *FrameLoop) Resized(size Size) error {
	if err := l.ready(); err != nil {
		return err
	}
	if err := l.win.ResizeTo(size); err != nil {
		return err
	}
	Logger().Debug("window resized", "size", size.String())
	l.requestRedraw()
	return nil
}

// Redraw handles a requested redraw event: it draws into the current
// surface, presents it and, under RedrawContinuous, requests the next redraw.
// Redraws the platform sends unrequested go through Exposed.
func (l *FrameLoop) Redraw() error {
	if err := l.ready(); err != nil {
		return err
	}
	l.pending = false

	s := l.win.Surface()
	if err := l.draw(s.Context(), s.Size()); err != nil {
		return fmt.Errorf("ggwin: draw frame %d: %w", l.frames+1, err)
	}
	if err := l.win.Present(); err != nil {
		return err
	}
	l.frames++
	if l.opts.onFrame != nil {
		l.opts.onFrame(l.frames, s.Size())
	}

	if l.opts.policy == RedrawContinuous {
		l.requestRedraw()
	}
	return nil
}

// Exposed handles a redraw the platform delivered on its own, such as an
// exposure after the window was uncovered. A requested redraw that is still
// pending repaints the window anyway, so Exposed only draws when none is.
// At most one requested redraw is outstanding at any time.
func (l *FrameLoop) Exposed() error {
	if err := l.ready(); err != nil {
		return err
	}
	if l.pending {
		Logger().Debug("exposure coalesced into pending redraw")
		return nil
	}
	return l.Redraw()
}

// Invalidate marks the window content stale and requests a redraw.
// It is the only way to get a new frame under RedrawOnDemand besides resizing.
func (l *FrameLoop) Invalidate() {
	if l.state == StateReady {
		l.requestRedraw()
	}
}

// Close handles the window-close event and releases the window components
// and the handle. Close is idempotent.
func (l *FrameLoop) Close() error {
	if l.state == StateClosed {
		return nil
	}
	prev := l.state
	l.state = StateClosed
	if prev == StateIdle {
		return nil
	}

	err := l.win.Close()
	if rerr := l.handle.Release(); err == nil {
		err = rerr
	}
	Logger().Info("window closed", "frames", l.frames)
	l.win = nil
	l.handle = nil
	return err
}

// State returns the current loop state.
func (l *FrameLoop) State() State {
	return l.state
}

// Window returns the open window, or nil before Open and after Close.
func (l *FrameLoop) Window() *Window {
	return l.win
}

// Frames returns the number of frames presented.
func (l *FrameLoop) Frames() uint64 {
	return l.frames
}

// Policy returns the redraw policy.
func (l *FrameLoop) Policy() RedrawPolicy {
	return l.opts.policy
}

// RedrawPending reports whether a redraw was requested and not yet handled.
func (l *FrameLoop) RedrawPending() bool {
	return l.pending
}

func (l *FrameLoop) ready() error {
	switch l.state {
	case StateIdle:
		return ErrNotReady
	case StateClosed:
		return ErrClosed
	}
	return nil
}

// requestRedraw coalesces redraw requests until the next Redraw.
func (l *FrameLoop) requestRedraw() {
	if l.pending {
		return
	}
	l.pending = true
	l.handle.RequestRedraw()
}
