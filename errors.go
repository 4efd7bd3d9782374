package ggwin

import "errors"

// Errors returned by surfaces, presenters, windows and the frame loop.
var (
	// ErrZeroSize is returned when a resize or creation asks for a size
	// with no drawable area. It is recoverable: previous state is kept.
	ErrZeroSize = errors.New("ggwin: zero-area size")

	// ErrSizeMismatch is returned by Present when the surface and the
	// presentation buffer disagree on size. It indicates a programming error.
	ErrSizeMismatch = errors.New("ggwin: surface and buffer size mismatch")

	// ErrSurfaceClosed is returned when reading from a released surface.
	ErrSurfaceClosed = errors.New("ggwin: surface is closed")

	// ErrPresent wraps a compositor submission failure.
	ErrPresent = errors.New("ggwin: present failed")

	// ErrResize wraps a platform buffer resize rejection.
	ErrResize = errors.New("ggwin: resize rejected")

	// ErrNoDevice is returned by backends when no compatible device exists.
	// Treat it as fatal.
	ErrNoDevice = errors.New("ggwin: no compatible device")

	// ErrNoContext is returned by backends when no compatible context or
	// logical device can be created. Treat it as fatal.
	ErrNoContext = errors.New("ggwin: no compatible context")

	// ErrClosed is returned by operations on a closed window or frame loop.
	ErrClosed = errors.New("ggwin: closed")

	// ErrNotReady is returned when a frame loop receives a resize or redraw
	// before its window was opened.
	ErrNotReady = errors.New("ggwin: window not open")

	// ErrShortBuffer is returned by ReadPixels when dst cannot hold the surface.
	ErrShortBuffer = errors.New("ggwin: destination buffer too small")

	// ErrNoBackendAvailable is returned when no registered backend can run.
	ErrNoBackendAvailable = errors.New("ggwin: no backend available")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "ggwin: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but cannot run here.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "ggwin: backend unavailable: " + e.Name
}

// IsFatal reports whether err is an initialization failure that the caller
// should treat as unrecoverable.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoDevice) || errors.Is(err, ErrNoContext)
}
