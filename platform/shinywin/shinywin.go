// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shinywin presents ggwin frames in a desktop window created with
// golang.org/x/exp/shiny.
//
// The shiny window is the [ggwin.Platform]; a shiny [screen.Buffer] sized to
// the window is the [ggwin.Compositor]. Run owns the shiny driver and pumps
// window events into a [ggwin.FrameLoop]:
//
//	size.Event           -> FrameLoop.Resized
//	paint.Event          -> FrameLoop.Redraw
//	external paint.Event -> FrameLoop.Exposed
//	lifecycle StageDead  -> FrameLoop.Close
//	Escape key press     -> FrameLoop.Close
//
// Run must be called from the main goroutine, as shiny drivers require.
package shinywin

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/gogpu/ggwin"
)

// OpenFunc builds the ggwin.Window for a freshly created shiny window.
// Implementations usually create a backend provider for h and call
// ggwin.Open(h, provider, c).
type OpenFunc func(h *ggwin.Handle, c ggwin.Compositor) (*ggwin.Window, error)

// Options configures Run.
type Options struct {
	// Title is the window title.
	Title string

	// Size is the initial inner size. Zero means 800x600.
	Size ggwin.Size

	// Loop options passed to the frame loop (redraw policy, frame hook).
	Loop []ggwin.LoopOption

	// OnError decides what happens with an error surfaced by a resize or a
	// redraw. Returning nil keeps the loop running; returning an error stops
	// Run with it. The default keeps running after recoverable resize errors
	// and stops on everything else.
	OnError func(err error) error
}

// DefaultSize is the inner size used when Options.Size is empty.
var DefaultSize = ggwin.Sz(800, 600)

// Run opens a shiny window and drives it until it is closed.
// Errors from opening the window or the backend are returned immediately;
// backends report unusable devices with errors matching [ggwin.IsFatal].
func Run(opts Options, open OpenFunc, draw ggwin.DrawFunc) error {
	if opts.Size.Empty() {
		opts.Size = DefaultSize
	}
	if opts.OnError == nil {
		opts.OnError = defaultOnError
	}

	var runErr error
	driver.Main(func(s screen.Screen) {
		runErr = run(s, opts, open, draw)
	})
	return runErr
}

func run(s screen.Screen, opts Options, open OpenFunc, draw ggwin.DrawFunc) error {
	sw, err := newWindow(s, opts.Title, opts.Size)
	if err != nil {
		return err
	}

	loop := ggwin.NewFrameLoop(draw, opts.Loop...)
	err = loop.Open(ggwin.NewHandle(sw), func(h *ggwin.Handle) (*ggwin.Window, error) {
		return open(h, sw)
	})
	if err != nil {
		return fmt.Errorf("shinywin: open window: %w", err)
	}
	defer func() {
		if err := loop.Close(); err != nil {
			ggwin.Logger().Warn("closing window", "err", err)
		}
	}()

	for {
		switch e := sw.win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				ggwin.Logger().Info("window close requested")
				return nil
			}

		case key.Event:
			if e.Code == key.CodeEscape && e.Direction == key.DirPress {
				ggwin.Logger().Info("escape pressed, closing")
				return nil
			}

		case size.Event:
			sw.size = ggwin.Sz(e.WidthPx, e.HeightPx)
			if err := loop.Resized(sw.size); err != nil {
				if err := opts.OnError(err); err != nil {
					return err
				}
			}

		case paint.Event:
			redraw := loop.Redraw
			if e.External {
				redraw = loop.Exposed
			}
			if err := redraw(); err != nil {
				if err := opts.OnError(err); err != nil {
					return err
				}
			}

		case error:
			ggwin.Logger().Warn("shiny event error", "err", e)
		}
	}
}

func defaultOnError(err error) error {
	if errors.Is(err, ggwin.ErrZeroSize) || errors.Is(err, ggwin.ErrResize) {
		ggwin.Logger().Warn("resize failed, keeping previous size", "err", err)
		return nil
	}
	return err
}

// window adapts a shiny window and its upload buffer.
type window struct {
	scr   screen.Screen
	win   screen.Window
	buf   screen.Buffer
	title string
	size  ggwin.Size
}

var (
	_ ggwin.Platform   = (*window)(nil)
	_ ggwin.Compositor = (*window)(nil)
)

func newWindow(s screen.Screen, title string, sz ggwin.Size) (*window, error) {
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  sz.Width,
		Height: sz.Height,
		Title:  title,
	})
	if err != nil {
		return nil, fmt.Errorf("shinywin: new window: %w", err)
	}
	return &window{scr: s, win: w, title: title, size: sz}, nil
}

func (w *window) InnerSize() ggwin.Size { return w.size }
func (w *window) Title() string         { return w.title }

// RequestRedraw queues a paint event behind pending input.
func (w *window) RequestRedraw() {
	w.win.Send(paint.Event{})
}

func (w *window) Close() error {
	if w.buf != nil {
		w.buf.Release()
		w.buf = nil
	}
	w.win.Release()
	return nil
}

// Format reports the byte order of shiny buffers (image.RGBA).
func (w *window) Format() ggwin.PixelFormat {
	return ggwin.FormatRGBA8Premul
}

// ResizeBuffer replaces the upload buffer with one of the new size.
func (w *window) ResizeBuffer(sz ggwin.Size) error {
	if sz.Empty() {
		return fmt.Errorf("shinywin: buffer size %s", sz)
	}
	buf, err := w.scr.NewBuffer(image.Pt(sz.Width, sz.Height))
	if err != nil {
		return fmt.Errorf("shinywin: new buffer %s: %w", sz, err)
	}
	if w.buf != nil {
		w.buf.Release()
	}
	w.buf = buf
	return nil
}

// Submit copies the frame into the upload buffer, uploads it and publishes
// the window.
func (w *window) Submit(pix []byte, sz ggwin.Size) error {
	if w.buf == nil || w.buf.Size() != image.Pt(sz.Width, sz.Height) {
		return fmt.Errorf("shinywin: no buffer for %s frame", sz)
	}
	rgba := w.buf.RGBA()
	stride := sz.Stride()
	for y := 0; y < sz.Height; y++ {
		ggwin.ConvertRow(rgba.Pix[y*rgba.Stride:], pix[y*stride:(y+1)*stride],
			w.Format(), ggwin.FormatRGBA8Premul)
	}
	w.win.Upload(image.Point{}, w.buf, w.buf.Bounds())
	w.win.Publish()
	return nil
}
