package ggwin

// Platform is the windowing toolkit side of a window: something that knows
// its inner size, can schedule a redraw and can be closed.
type Platform interface {
	// InnerSize returns the drawable size of the window in physical pixels.
	InnerSize() Size

	// Title returns the window title. GPU backends use it as the
	// application name reported to drivers.
	Title() string

	// RequestRedraw asks the platform to deliver a redraw event.
	RequestRedraw()

	// Close destroys the platform window.
	Close() error
}

// Handle shares one platform window between a Provider and a Presenter.
//
// It is reference counted: NewHandle returns a handle holding one reference,
// Retain adds one and Release drops one. The platform window is closed when
// the last reference is released.
//
// Handles are confined to the goroutine running the platform event loop and
// carry no locking.
type Handle struct {
	platform Platform
	refs     int
}

// NewHandle wraps p with a reference count of one.
func NewHandle(p Platform) *Handle {
	return &Handle{platform: p, refs: 1}
}

// Retain adds a reference and returns h for chaining.
func (h *Handle) Retain() *Handle {
	if h.refs > 0 {
		h.refs++
	}
	return h
}

// Release drops a reference. The last release closes the platform window and
// returns its error. Releasing an already released handle is a no-op.
func (h *Handle) Release() error {
	if h.refs <= 0 {
		return nil
	}
	h.refs--
	if h.refs > 0 {
		return nil
	}
	Logger().Debug("platform window released", "title", h.platform.Title())
	return h.platform.Close()
}

// Refs returns the number of live references.
func (h *Handle) Refs() int {
	return h.refs
}

// Platform returns the wrapped platform window.
func (h *Handle) Platform() Platform {
	return h.platform
}

// InnerSize returns the platform window's drawable size.
func (h *Handle) InnerSize() Size {
	return h.platform.InnerSize()
}

// Title returns the platform window's title.
func (h *Handle) Title() string {
	return h.platform.Title()
}

// RequestRedraw forwards to the platform window.
func (h *Handle) RequestRedraw() {
	h.platform.RequestRedraw()
}
