package ggwin_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/ggwin"
)

func TestSize(t *testing.T) {
	tests := []struct {
		name   string
		size   ggwin.Size
		empty  bool
		area   int
		stride int
		bytes  int
	}{
		{"800x600", ggwin.Sz(800, 600), false, 480000, 3200, 1920000},
		{"1x1", ggwin.Sz(1, 1), false, 1, 4, 4},
		{"zero width", ggwin.Sz(0, 600), true, 0, 0, 0},
		{"zero height", ggwin.Sz(800, 0), true, 0, 0, 0},
		{"negative", ggwin.Sz(-1, 10), true, 0, 0, 0},
		{"zero value", ggwin.Size{}, true, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.size.Empty())
			assert.Equal(t, tt.area, tt.size.Area())
			assert.Equal(t, tt.stride, tt.size.Stride())
			assert.Equal(t, tt.bytes, tt.size.Bytes())
		})
	}
}

func TestSizeStringAndBounds(t *testing.T) {
	s := ggwin.Sz(400, 300)
	assert.Equal(t, "400x300", s.String())
	assert.Equal(t, image.Rect(0, 0, 400, 300), s.Bounds())
}
