package ggwin

import (
	"fmt"
	"image"
)

// BytesPerPixel is the size of one packed pixel in every supported format.
const BytesPerPixel = 4

// Size is a surface or window size in physical pixels.
type Size struct {
	Width  int
	Height int
}

// Sz creates a Size from width and height.
func Sz(width, height int) Size {
	return Size{Width: width, Height: height}
}

// Empty reports whether the size has no drawable area.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Area returns the number of pixels, or 0 for an empty size.
func (s Size) Area() int {
	if s.Empty() {
		return 0
	}
	return s.Width * s.Height
}

// Stride returns the number of bytes in one tightly packed row.
func (s Size) Stride() int {
	if s.Empty() {
		return 0
	}
	return s.Width * BytesPerPixel
}

// Bytes returns the number of bytes needed to hold the size in a
// tightly packed 4-bytes-per-pixel buffer.
func (s Size) Bytes() int {
	return s.Area() * BytesPerPixel
}

// Bounds returns the rectangle (0,0)-(Width,Height).
func (s Size) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
