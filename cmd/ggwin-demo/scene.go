package main

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggwin"
)

// markerSize is the side of the corner squares.
const markerSize = 100

// scene draws the reference frame: a black background, a blue square in the
// top-left corner, a red square in the bottom-right corner and the current
// size as a label.
type scene struct {
	face text.Face
}

func newScene() (*scene, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &scene{face: src.Face(16)}, nil
}

func (s *scene) draw(dc *gg.Context, size ggwin.Size) error {
	w, h := float64(size.Width), float64(size.Height)

	dc.ClearWithColor(gg.Black)

	dc.SetRGB(0, 0, 1)
	dc.DrawRectangle(0, 0, markerSize, markerSize)
	if err := dc.Fill(); err != nil {
		return err
	}

	dc.SetRGB(1, 0, 0)
	dc.DrawRectangle(w-markerSize, h-markerSize, markerSize, markerSize)
	if err := dc.Fill(); err != nil {
		return err
	}

	if s.face != nil {
		dc.SetFont(s.face)
		dc.SetRGB(1, 1, 1)
		dc.DrawString(size.String(), markerSize+10, 24)
	}
	return nil
}
