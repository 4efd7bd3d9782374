// Package ggwin draws into platform windows with the gg 2D graphics library.
//
// A window is served by two cooperating parts:
//
//   - a [Provider] (Render Target Provider) owns a backend context and the
//     offscreen [Surface] that gg draws into. Backends live in
//     backend/software, backend/opengl and backend/vulkan.
//   - a [Presenter] owns the CPU-side presentation buffer. Present reads the
//     surface back into that buffer and submits it to the platform
//     [Compositor].
//
// [Window] binds both to one platform window and keeps their sizes in step:
// on resize the render target is reallocated first and the presentation
// buffer second. [FrameLoop] drives a Window from platform events.
//
// # Frame cycle
//
//	h := ggwin.NewHandle(platformWindow)
//	loop := ggwin.NewFrameLoop(func(dc *gg.Context, size ggwin.Size) error {
//	    dc.ClearWithColor(gg.Black)
//	    dc.SetRGB(0, 0, 1)
//	    dc.DrawRectangle(0, 0, 100, 100)
//	    return dc.Fill()
//	})
//
//	err := loop.Open(h, func(h *ggwin.Handle) (*ggwin.Window, error) {
//	    p, err := software.New(h, h.InnerSize())
//	    if err != nil {
//	        return nil, err
//	    }
//	    return ggwin.Open(h, p, compositor)
//	})
//
//	// from the platform event loop:
//	loop.Resized(newSize)
//	loop.Redraw()
//	loop.Close()
//
// # Pixel format
//
// Surfaces and presentation buffers hold 32-bit premultiplied-alpha pixels,
// 4 bytes per pixel, row-major with a top-left origin and no row padding.
// The byte order of the presentation buffer is chosen by the compositor
// ([FormatBGRA8Premul] or [FormatRGBA8Premul]).
//
// # Threading
//
// Everything runs on the goroutine that owns the platform event loop.
// Present blocks until the copy and the compositor submission finish, so a
// resize can never overlap a present.
package ggwin
