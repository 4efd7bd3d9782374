package ggwin

import (
	"fmt"
	"image/color"
)

// PixelFormat is a 32-bit premultiplied-alpha pixel layout with a fixed
// byte order. All formats use 4 bytes per pixel.
type PixelFormat uint8

const (
	// FormatBGRA8Premul stores bytes as B, G, R, A. Read as a little-endian
	// uint32 this is 0xAARRGGBB, the native 32-bit layout of most window
	// systems.
	FormatBGRA8Premul PixelFormat = iota

	// FormatRGBA8Premul stores bytes as R, G, B, A, the layout of gg pixmaps
	// and image.RGBA.
	FormatRGBA8Premul
)

// String returns the format name used in configuration files.
func (f PixelFormat) String() string {
	switch f {
	case FormatBGRA8Premul:
		return "bgra8-premul"
	case FormatRGBA8Premul:
		return "rgba8-premul"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint8(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f PixelFormat) MarshalText() ([]byte, error) {
	switch f {
	case FormatBGRA8Premul, FormatRGBA8Premul:
		return []byte(f.String()), nil
	default:
		return nil, fmt.Errorf("ggwin: unknown pixel format %d", uint8(f))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *PixelFormat) UnmarshalText(text []byte) error {
	switch string(text) {
	case "bgra8-premul", "bgra":
		*f = FormatBGRA8Premul
	case "rgba8-premul", "rgba":
		*f = FormatRGBA8Premul
	default:
		return fmt.Errorf("ggwin: unknown pixel format %q", text)
	}
	return nil
}

// ConvertRow copies one row of pixels from src in format from into dst in
// format to. It copies min(len(dst), len(src)) bytes rounded down to whole
// pixels.
func ConvertRow(dst, src []byte, from, to PixelFormat) {
	n := min(len(dst), len(src)) &^ (BytesPerPixel - 1)
	if from == to {
		copy(dst[:n], src[:n])
		return
	}
	// Both formats differ only in R/B placement.
	for i := 0; i < n; i += BytesPerPixel {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
}

// Unpack decodes the pixel at the start of p into a premultiplied color.RGBA.
func (f PixelFormat) Unpack(p []byte) color.RGBA {
	if f == FormatBGRA8Premul {
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
	}
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Pack encodes a premultiplied color.RGBA into p.
func (f PixelFormat) Pack(p []byte, c color.RGBA) {
	if f == FormatBGRA8Premul {
		p[0], p[1], p[2], p[3] = c.B, c.G, c.R, c.A
		return
	}
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}
