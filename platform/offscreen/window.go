// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package offscreen provides an in-memory platform window for headless
// rendering and tests.
//
// A Window is both the [ggwin.Platform] and the [ggwin.Compositor]: it
// reports a settable inner size, counts redraw requests, accepts buffer
// resizes (optionally rejecting some) and keeps a copy of the last submitted
// frame.
package offscreen

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/ggwin"
)

// Errors returned by offscreen windows.
var (
	// ErrZeroBuffer is returned when the buffer is resized to no area.
	ErrZeroBuffer = errors.New("offscreen: zero-size buffer")

	// ErrTooLarge is returned when the buffer exceeds the configured maximum.
	ErrTooLarge = errors.New("offscreen: buffer exceeds maximum size")

	// ErrWindowClosed is returned by operations on a closed window.
	ErrWindowClosed = errors.New("offscreen: window is closed")

	// ErrNoFrame is returned by SavePNG before the first submit.
	ErrNoFrame = errors.New("offscreen: no frame submitted")
)

// Option configures a Window.
type Option func(*Window)

// WithFormat sets the byte order of the compositor buffer.
// The default is [ggwin.FormatBGRA8Premul].
func WithFormat(f ggwin.PixelFormat) Option {
	return func(w *Window) {
		w.format = f
	}
}

// WithMaxSize makes ResizeBuffer reject sizes larger than max in either
// dimension, the way a platform limits surface dimensions.
func WithMaxSize(max ggwin.Size) Option {
	return func(w *Window) {
		w.maxSize = max
	}
}

// Window is an in-memory platform window.
// It is NOT safe for concurrent use.
type Window struct {
	title   string
	size    ggwin.Size
	format  ggwin.PixelFormat
	maxSize ggwin.Size

	bufSize ggwin.Size
	frame   []byte
	frameSz ggwin.Size
	submits int
	resizes int
	redraws int
	closed  bool

	// Reject, when set, is consulted by ResizeBuffer; a non-nil result
	// rejects the size.
	Reject func(size ggwin.Size) error

	// SubmitErr, when set, is returned by Submit instead of accepting the
	// frame.
	SubmitErr error
}

var (
	_ ggwin.Platform   = (*Window)(nil)
	_ ggwin.Compositor = (*Window)(nil)
)

// New creates an offscreen window with the given title and inner size.
func New(title string, size ggwin.Size, opts ...Option) *Window {
	w := &Window{
		title:  title,
		size:   size,
		format: ggwin.FormatBGRA8Premul,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// InnerSize implements ggwin.Platform.
func (w *Window) InnerSize() ggwin.Size {
	return w.size
}

// SetInnerSize changes the reported inner size, as a user resizing the
// window would. It does not notify anyone; feed the size to the frame loop.
func (w *Window) SetInnerSize(size ggwin.Size) {
	w.size = size
}

// Title implements ggwin.Platform.
func (w *Window) Title() string {
	return w.title
}

// RequestRedraw implements ggwin.Platform by counting the request.
func (w *Window) RequestRedraw() {
	w.redraws++
}

// RedrawRequests returns how many redraws were requested.
func (w *Window) RedrawRequests() int {
	return w.redraws
}

// Close implements ggwin.Platform.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return nil
}

// Closed reports whether Close was called.
func (w *Window) Closed() bool {
	return w.closed
}

// Format implements ggwin.Compositor.
func (w *Window) Format() ggwin.PixelFormat {
	return w.format
}

// ResizeBuffer implements ggwin.Compositor.
func (w *Window) ResizeBuffer(size ggwin.Size) error {
	if w.closed {
		return ErrWindowClosed
	}
	if size.Empty() {
		return fmt.Errorf("%w: %s", ErrZeroBuffer, size)
	}
	if !w.maxSize.Empty() && (size.Width > w.maxSize.Width || size.Height > w.maxSize.Height) {
		return fmt.Errorf("%w: %s > %s", ErrTooLarge, size, w.maxSize)
	}
	if w.Reject != nil {
		if err := w.Reject(size); err != nil {
			return err
		}
	}
	w.bufSize = size
	w.resizes++
	return nil
}

// BufferSize returns the size accepted by the last successful ResizeBuffer.
func (w *Window) BufferSize() ggwin.Size {
	return w.bufSize
}

// BufferResizes returns how many ResizeBuffer calls succeeded.
func (w *Window) BufferResizes() int {
	return w.resizes
}

// Submit implements ggwin.Compositor by keeping a copy of buf.
func (w *Window) Submit(buf []byte, size ggwin.Size) error {
	if w.closed {
		return ErrWindowClosed
	}
	if w.SubmitErr != nil {
		return w.SubmitErr
	}
	if size != w.bufSize {
		return fmt.Errorf("offscreen: submitted %s frame to %s buffer", size, w.bufSize)
	}
	if len(buf) != size.Bytes() {
		return fmt.Errorf("offscreen: frame has %d bytes, want %d", len(buf), size.Bytes())
	}
	w.frame = append(w.frame[:0], buf...)
	w.frameSz = size
	w.submits++
	return nil
}

// Submits returns how many frames were accepted.
func (w *Window) Submits() int {
	return w.submits
}

// Frame returns the last submitted frame in Format() byte order and its size.
func (w *Window) Frame() ([]byte, ggwin.Size) {
	return w.frame, w.frameSz
}

// Pixel returns the premultiplied color at (x, y) of the last frame, or
// transparent black outside it.
func (w *Window) Pixel(x, y int) color.RGBA {
	s := w.frameSz
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return color.RGBA{}
	}
	i := y*s.Stride() + x*ggwin.BytesPerPixel
	return w.format.Unpack(w.frame[i : i+ggwin.BytesPerPixel])
}

// Image returns a copy of the last frame as an image.RGBA.
func (w *Window) Image() *image.RGBA {
	img := image.NewRGBA(w.frameSz.Bounds())
	stride := w.frameSz.Stride()
	for y := 0; y < w.frameSz.Height; y++ {
		ggwin.ConvertRow(img.Pix[y*img.Stride:], w.frame[y*stride:(y+1)*stride],
			w.format, ggwin.FormatRGBA8Premul)
	}
	return img
}

// SavePNG writes the last frame to a PNG file.
func (w *Window) SavePNG(path string) error {
	if w.submits == 0 {
		return ErrNoFrame
	}
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, w.Image())
}
