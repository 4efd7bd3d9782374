package ggwin_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggwin"
)

func TestPixelFormatText(t *testing.T) {
	tests := []struct {
		text string
		want ggwin.PixelFormat
	}{
		{"bgra8-premul", ggwin.FormatBGRA8Premul},
		{"bgra", ggwin.FormatBGRA8Premul},
		{"rgba8-premul", ggwin.FormatRGBA8Premul},
		{"rgba", ggwin.FormatRGBA8Premul},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var f ggwin.PixelFormat
			require.NoError(t, f.UnmarshalText([]byte(tt.text)))
			assert.Equal(t, tt.want, f)

			out, err := f.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.want.String(), string(out))
		})
	}

	var f ggwin.PixelFormat
	assert.Error(t, f.UnmarshalText([]byte("argb")))
	_, err := ggwin.PixelFormat(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "PixelFormat(9)", ggwin.PixelFormat(9).String())
}

func TestConvertRow(t *testing.T) {
	rgba := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	t.Run("same format copies", func(t *testing.T) {
		dst := make([]byte, len(rgba))
		ggwin.ConvertRow(dst, rgba, ggwin.FormatRGBA8Premul, ggwin.FormatRGBA8Premul)
		assert.Equal(t, rgba, dst)
	})

	t.Run("rgba to bgra swaps red and blue", func(t *testing.T) {
		dst := make([]byte, len(rgba))
		ggwin.ConvertRow(dst, rgba, ggwin.FormatRGBA8Premul, ggwin.FormatBGRA8Premul)
		assert.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8}, dst)
	})

	t.Run("round trip", func(t *testing.T) {
		bgra := make([]byte, len(rgba))
		back := make([]byte, len(rgba))
		ggwin.ConvertRow(bgra, rgba, ggwin.FormatRGBA8Premul, ggwin.FormatBGRA8Premul)
		ggwin.ConvertRow(back, bgra, ggwin.FormatBGRA8Premul, ggwin.FormatRGBA8Premul)
		assert.Equal(t, rgba, back)
	})

	t.Run("short destination", func(t *testing.T) {
		dst := make([]byte, 6)
		ggwin.ConvertRow(dst, rgba, ggwin.FormatRGBA8Premul, ggwin.FormatBGRA8Premul)
		assert.Equal(t, []byte{3, 2, 1, 4, 0, 0}, dst)
	})
}

func TestPackUnpack(t *testing.T) {
	c := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	for _, f := range []ggwin.PixelFormat{ggwin.FormatBGRA8Premul, ggwin.FormatRGBA8Premul} {
		t.Run(f.String(), func(t *testing.T) {
			p := make([]byte, ggwin.BytesPerPixel)
			f.Pack(p, c)
			assert.Equal(t, c, f.Unpack(p))
		})
	}

	p := make([]byte, ggwin.BytesPerPixel)
	ggwin.FormatBGRA8Premul.Pack(p, c)
	assert.Equal(t, []byte{30, 20, 10, 255}, p)
}
