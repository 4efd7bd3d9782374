package ggwin

import (
	"errors"
	"fmt"
)

// Window binds a Provider and a Presenter to one platform window and
// implements the combined resize / surface / present contract.
//
// Window guarantees that after every call returns, the Provider's Surface
// and the Presenter's buffer have the same size, even though a resize is two
// sequential reallocations internally.
//
// Windows are NOT safe for concurrent use. Drive them from the goroutine
// that owns the platform event loop.
type Window struct {
	handle    *Handle
	provider  Provider
	presenter *Presenter
	closed    bool
}

// Open creates the presentation buffer for p's current surface size and
// returns a Window. Open takes ownership of p and closes it on failure. It
// retains h until Close.
func Open(h *Handle, p Provider, c Compositor) (*Window, error) {
	size := p.Surface().Size()
	pres, err := NewPresenter(c, size)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	Logger().Info("window opened",
		"backend", p.Name(),
		"title", h.Title(),
		"size", size.String(),
		"format", pres.Format().String())
	return &Window{
		handle:    h.Retain(),
		provider:  p,
		presenter: pres,
	}, nil
}

// Surface returns the current drawable, valid until the next resize.
func (w *Window) Surface() *Surface {
	return w.provider.Surface()
}

// Size returns the size currently in effect for both the surface and the
// presentation buffer.
func (w *Window) Size() Size {
	return w.presenter.Size()
}

// Resize resizes to the platform window's current inner size.
func (w *Window) Resize() error {
	return w.ResizeTo(w.handle.InnerSize())
}

// ResizeTo resizes the render target first and the presentation buffer
// second. A zero-area size is rejected before anything is touched. The new
// surface is only installed once the presentation buffer accepts the size;
// if it rejects it, the new surface is discarded and the previous surface and
// buffer stay in effect with their contents. The error is returned once with
// no retry.
func (w *Window) ResizeTo(size Size) error {
	if w.closed {
		return ErrClosed
	}
	if size.Empty() {
		return fmt.Errorf("%w: %s", ErrZeroSize, size)
	}

	next, err := w.provider.Prepare(size)
	if err != nil {
		return fmt.Errorf("ggwin: resize %s render target: %w", w.provider.Name(), err)
	}
	if err := w.presenter.Resize(size); err != nil {
		if next != w.provider.Surface() {
			if cerr := next.Close(); cerr != nil {
				Logger().Warn("releasing discarded surface", "err", cerr)
			}
		}
		Logger().Warn("resize rejected, previous render target kept",
			"requested", size.String(), "kept", w.presenter.Size().String(), "err", err)
		return err
	}
	w.provider.Commit(next)
	return nil
}

// Present copies the current surface into the presentation buffer and
// submits it.
func (w *Window) Present() error {
	if w.closed {
		return ErrClosed
	}
	return w.presenter.Present(w.provider.Surface())
}

// Provider returns the render target provider.
func (w *Window) Provider() Provider {
	return w.provider
}

// Presenter returns the presenter.
func (w *Window) Presenter() *Presenter {
	return w.presenter
}

// Handle returns the shared platform window handle.
func (w *Window) Handle() *Handle {
	return w.handle
}

// Close releases the provider, the presenter and the window's reference to
// the platform handle. Close is idempotent.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return errors.Join(
		w.provider.Close(),
		w.presenter.Close(),
		w.handle.Release(),
	)
}
