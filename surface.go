package ggwin

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// surfaceSerial hands out surface generations. Generations let callers
// notice that a surface was replaced by a resize.
var surfaceSerial atomic.Uint64

// Surface is an offscreen drawable owned by a backend. Callers draw into it
// through Context and the Presenter reads it back with ReadPixels.
//
// A Surface is never resized. Providers replace it with a new Surface on
// every size change, so a *Surface obtained from Provider.Surface is only
// valid until the next Provider.Resize.
//
// Surfaces are NOT safe for concurrent use.
type Surface struct {
	ctx    *gg.Context
	size   Size
	serial uint64
	closed bool
}

// NewSurface allocates a gg drawing context of the given size.
// gg options (for example [gg.WithRenderer]) are passed through.
func NewSurface(size Size, opts ...gg.ContextOption) (*Surface, error) {
	if size.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrZeroSize, size)
	}
	return &Surface{
		ctx:    gg.NewContext(size.Width, size.Height, opts...),
		size:   size,
		serial: surfaceSerial.Add(1),
	}, nil
}

// Context returns the gg drawing context. Do not call Resize on it; resize
// through the owning Provider instead. Returns nil once the surface is closed.
func (s *Surface) Context() *gg.Context {
	if s.closed {
		return nil
	}
	return s.ctx
}

// Size returns the surface size in physical pixels.
func (s *Surface) Size() Size {
	return s.size
}

// Generation returns a process-unique number identifying this surface.
func (s *Surface) Generation() uint64 {
	return s.serial
}

// Format returns the byte order of the surface pixels.
// gg pixmaps are always premultiplied RGBA.
func (s *Surface) Format() PixelFormat {
	return FormatRGBA8Premul
}

// ReadPixels copies every pixel of the surface into dst, row-major with a
// top-left origin, converting to format f. stride is the number of bytes
// between the starts of consecutive rows in dst and must be at least
// Size().Stride().
//
// Pending GPU accelerator work is flushed first so the copy sees every
// completed draw call.
func (s *Surface) ReadPixels(dst []byte, stride int, f PixelFormat) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	row := s.size.Stride()
	if stride < row {
		return fmt.Errorf("%w: stride %d < %d", ErrShortBuffer, stride, row)
	}
	if need := stride*(s.size.Height-1) + row; len(dst) < need {
		return fmt.Errorf("%w: %d bytes < %d", ErrShortBuffer, len(dst), need)
	}

	if err := s.ctx.FlushGPU(); err != nil {
		// CPU-rendered content is still in the pixmap.
		Logger().Warn("gpu flush failed before readback", "err", err)
	}

	pm := s.ctx.ResizeTarget()
	if pm.Width() != s.size.Width || pm.Height() != s.size.Height {
		return fmt.Errorf("%w: pixmap %dx%d, surface %s",
			ErrSizeMismatch, pm.Width(), pm.Height(), s.size)
	}

	src := pm.Data()
	for y := 0; y < s.size.Height; y++ {
		ConvertRow(dst[y*stride:y*stride+row], src[y*row:(y+1)*row], s.Format(), f)
	}
	return nil
}

// Close releases the drawing context. Close is idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.ctx.Close()
	s.ctx = nil
	return err
}
