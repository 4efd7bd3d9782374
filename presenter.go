package ggwin

import (
	"fmt"
	"image/color"
	"time"
)

// Compositor is the platform side of presentation: a window buffer the
// Presenter writes pixels into and hands to the OS compositor.
type Compositor interface {
	// Format returns the byte order the platform expects.
	Format() PixelFormat

	// ResizeBuffer tells the platform the buffer size is changing.
	// The platform may reject the size, for example a zero-area window.
	ResizeBuffer(size Size) error

	// Submit hands a complete frame to the compositor. buf holds
	// size.Bytes() tightly packed pixels in Format() byte order and is owned
	// by the caller once Submit returns.
	Submit(buf []byte, size Size) error
}

// Presenter owns the CPU-addressable presentation buffer and the
// copy-then-submit step.
//
// Presenters are NOT safe for concurrent use.
type Presenter struct {
	comp   Compositor
	format PixelFormat
	buf    []byte
	size   Size
	frames uint64
	closed bool
}

// NewPresenter sizes the compositor buffer and allocates a matching
// presentation buffer of size.Bytes() bytes.
func NewPresenter(c Compositor, size Size) (*Presenter, error) {
	if size.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrZeroSize, size)
	}
	if err := c.ResizeBuffer(size); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResize, size, err)
	}
	return &Presenter{
		comp:   c,
		format: c.Format(),
		buf:    make([]byte, size.Bytes()),
		size:   size,
	}, nil
}

// Resize reallocates the buffer for a new size. A zero-area size or a
// platform rejection returns an error and leaves the buffer unchanged.
// Resizing to the current size is a no-op.
func (p *Presenter) Resize(size Size) error {
	if p.closed {
		return ErrClosed
	}
	if size.Empty() {
		return fmt.Errorf("%w: %s", ErrZeroSize, size)
	}
	if size == p.size {
		return nil
	}
	if err := p.comp.ResizeBuffer(size); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrResize, size, err)
	}

	n := size.Bytes()
	if cap(p.buf) >= n {
		p.buf = p.buf[:n]
	} else {
		p.buf = make([]byte, n)
	}
	p.size = size
	Logger().Debug("presentation buffer resized", "size", size.String(), "bytes", n)
	return nil
}

// Present copies every pixel of s into the buffer (4 bytes per pixel,
// premultiplied alpha, row-major, top-left origin, stride width*4) and
// submits it to the compositor exactly once. It blocks until the submission
// returns. Submission errors are returned without retry.
func (p *Presenter) Present(s *Surface) error {
	if p.closed {
		return ErrClosed
	}
	if s.Size() != p.size {
		return fmt.Errorf("%w: surface %s, buffer %s", ErrSizeMismatch, s.Size(), p.size)
	}

	start := time.Now()
	if err := s.ReadPixels(p.buf, p.size.Stride(), p.format); err != nil {
		return fmt.Errorf("%w: readback: %w", ErrPresent, err)
	}
	if err := p.comp.Submit(p.buf, p.size); err != nil {
		return fmt.Errorf("%w: %w", ErrPresent, err)
	}
	p.frames++

	Logger().Debug("frame presented",
		"frame", p.frames,
		"size", p.size.String(),
		"elapsed", time.Since(start))
	return nil
}

// Buffer returns the presentation buffer. It is reallocated by Resize.
func (p *Presenter) Buffer() []byte {
	return p.buf
}

// Size returns the buffer size in pixels.
func (p *Presenter) Size() Size {
	return p.size
}

// Format returns the buffer byte order.
func (p *Presenter) Format() PixelFormat {
	return p.format
}

// Frames returns the number of frames submitted.
func (p *Presenter) Frames() uint64 {
	return p.frames
}

// Pixel returns the premultiplied color at (x, y), or transparent black
// outside the buffer.
func (p *Presenter) Pixel(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= p.size.Width || y >= p.size.Height {
		return color.RGBA{}
	}
	i := y*p.size.Stride() + x*BytesPerPixel
	return p.format.Unpack(p.buf[i : i+BytesPerPixel])
}

// Close releases the buffer. Close is idempotent.
func (p *Presenter) Close() error {
	p.closed = true
	p.buf = nil
	return nil
}
