package main

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggwin"
	"github.com/gogpu/ggwin/backend/software"
	"github.com/gogpu/ggwin/platform/offscreen"
)

func TestSceneDraw(t *testing.T) {
	sc, err := newScene()
	require.NoError(t, err)

	size := ggwin.Sz(800, 600)
	dc := gg.NewContext(size.Width, size.Height)
	defer func() { _ = dc.Close() }()
	require.NoError(t, sc.draw(dc, size))

	img := dc.Image()
	assertRGBA(t, color.RGBA{B: 255, A: 255}, img.At(50, 50))
	assertRGBA(t, color.RGBA{R: 255, A: 255}, img.At(750, 550))
	assertRGBA(t, color.RGBA{A: 255}, img.At(400, 300))
}

func assertRGBA(t *testing.T, want color.RGBA, got color.Color) {
	t.Helper()
	r, g, b, a := got.RGBA()
	assert.Equal(t, want, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)})
}

func TestOpenProviderSoftware(t *testing.T) {
	h := ggwin.NewHandle(offscreen.New("demo", ggwin.Sz(32, 32)))
	t.Cleanup(func() { _ = h.Release() })

	p, err := openProvider(Config{Backend: software.Name}, h)
	require.NoError(t, err)
	assert.Equal(t, software.Name, p.Name())
	require.NoError(t, p.Close())

	_, err = openProvider(Config{Backend: "metal"}, h)
	var notFound *ggwin.BackendNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRunHeadless(t *testing.T) {
	sc, err := newScene()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Backend = software.Name
	cfg.Width, cfg.Height = 400, 300
	cfg.Output = filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, runHeadless(cfg, sc))

	f, err := os.Open(cfg.Output)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, cfg.Size().Bounds(), img.Bounds())
	assertRGBA(t, color.RGBA{B: 255, A: 255}, img.At(50, 50))
	assertRGBA(t, color.RGBA{R: 255, A: 255}, img.At(350, 250))
	assertRGBA(t, color.RGBA{A: 255}, img.At(200, 150))
}
