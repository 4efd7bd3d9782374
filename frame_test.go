package ggwin_test

import (
	"errors"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggwin"
	"github.com/gogpu/ggwin/backend/software"
	"github.com/gogpu/ggwin/platform/offscreen"
)

func softwareFactory(c ggwin.Compositor) ggwin.WindowFactory {
	return func(h *ggwin.Handle) (*ggwin.Window, error) {
		p, err := software.New(h, h.InnerSize())
		if err != nil {
			return nil, err
		}
		return ggwin.Open(h, p, c)
	}
}

func openLoop(t *testing.T, size ggwin.Size, draw ggwin.DrawFunc, opts ...ggwin.LoopOption) (*ggwin.FrameLoop, *offscreen.Window) {
	t.Helper()
	ow := offscreen.New("test", size)
	loop := ggwin.NewFrameLoop(draw, opts...)
	require.NoError(t, loop.Open(ggwin.NewHandle(ow), softwareFactory(ow)))
	t.Cleanup(func() { _ = loop.Close() })
	return loop, ow
}

func TestFrameLoopStates(t *testing.T) {
	ow := offscreen.New("test", ggwin.Sz(100, 100))
	loop := ggwin.NewFrameLoop(referenceScene)
	assert.Equal(t, ggwin.StateIdle, loop.State())
	assert.ErrorIs(t, loop.Redraw(), ggwin.ErrNotReady)
	assert.ErrorIs(t, loop.Exposed(), ggwin.ErrNotReady)
	assert.ErrorIs(t, loop.Resized(ggwin.Sz(10, 10)), ggwin.ErrNotReady)
	assert.Nil(t, loop.Window())

	require.NoError(t, loop.Open(ggwin.NewHandle(ow), softwareFactory(ow)))
	assert.Equal(t, ggwin.StateReady, loop.State())
	require.NotNil(t, loop.Window())

	// A second open is ignored.
	require.NoError(t, loop.Open(ggwin.NewHandle(ow), softwareFactory(ow)))

	require.NoError(t, loop.Close())
	assert.Equal(t, ggwin.StateClosed, loop.State())
	assert.True(t, ow.Closed())
	assert.Nil(t, loop.Window())
	require.NoError(t, loop.Close())

	assert.ErrorIs(t, loop.Redraw(), ggwin.ErrClosed)
	assert.ErrorIs(t, loop.Exposed(), ggwin.ErrClosed)
	assert.ErrorIs(t, loop.Resized(ggwin.Sz(10, 10)), ggwin.ErrClosed)
	assert.ErrorIs(t, loop.Open(ggwin.NewHandle(ow), softwareFactory(ow)), ggwin.ErrClosed)
}

func TestFrameLoopStateString(t *testing.T) {
	assert.Equal(t, "idle", ggwin.StateIdle.String())
	assert.Equal(t, "ready", ggwin.StateReady.String())
	assert.Equal(t, "closed", ggwin.StateClosed.String())
	assert.Equal(t, "State(7)", ggwin.State(7).String())
}

func TestFrameLoopCloseWhileIdle(t *testing.T) {
	loop := ggwin.NewFrameLoop(referenceScene)
	require.NoError(t, loop.Close())
	assert.Equal(t, ggwin.StateClosed, loop.State())
}

func TestFrameLoopOpenFailureReleasesHandle(t *testing.T) {
	ow := offscreen.New("test", ggwin.Sz(100, 100))
	loop := ggwin.NewFrameLoop(referenceScene)
	boom := errors.New("no device")

	err := loop.Open(ggwin.NewHandle(ow), func(*ggwin.Handle) (*ggwin.Window, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, ggwin.StateIdle, loop.State())
	assert.True(t, ow.Closed())
}

func TestFrameLoopScenario(t *testing.T) {
	loop, ow := openLoop(t, ggwin.Sz(800, 600), referenceScene)

	require.NoError(t, loop.Redraw())
	assert.Equal(t, uint64(1), loop.Frames())
	assert.Equal(t, blue, ow.Pixel(50, 50))
	assert.Equal(t, red, ow.Pixel(750, 550))
	assert.Equal(t, black, ow.Pixel(400, 300))

	require.NoError(t, loop.Resized(ggwin.Sz(400, 300)))
	require.NoError(t, loop.Redraw())
	_, size := ow.Frame()
	assert.Equal(t, ggwin.Sz(400, 300), size)
	assert.Equal(t, blue, ow.Pixel(50, 50))
	assert.Equal(t, red, ow.Pixel(300, 200))
	assert.Equal(t, red, ow.Pixel(350, 250))
	assert.Equal(t, black, ow.Pixel(200, 150))

	err := loop.Resized(ggwin.Sz(0, 300))
	require.ErrorIs(t, err, ggwin.ErrZeroSize)
	assert.Equal(t, ggwin.StateReady, loop.State())
	assert.Equal(t, ggwin.Sz(400, 300), loop.Window().Size())

	require.NoError(t, loop.Redraw())
	assert.Equal(t, uint64(3), loop.Frames())
	assert.Equal(t, red, ow.Pixel(350, 250))
}

func TestFrameLoopDrawSeesSurfaceSize(t *testing.T) {
	var got []ggwin.Size
	draw := func(dc *gg.Context, size ggwin.Size) error {
		got = append(got, size)
		assert.Equal(t, size.Width, dc.Width())
		assert.Equal(t, size.Height, dc.Height())
		return nil
	}
	loop, _ := openLoop(t, ggwin.Sz(800, 600), draw)

	require.NoError(t, loop.Redraw())
	require.NoError(t, loop.Resized(ggwin.Sz(1024, 768)))
	require.NoError(t, loop.Redraw())
	assert.Equal(t, []ggwin.Size{ggwin.Sz(800, 600), ggwin.Sz(1024, 768)}, got)
}

func TestFrameLoopDrawError(t *testing.T) {
	boom := errors.New("draw failed")
	loop, ow := openLoop(t, ggwin.Sz(64, 64), func(*gg.Context, ggwin.Size) error { return boom })

	err := loop.Redraw()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(0), loop.Frames())
	assert.Equal(t, 0, ow.Submits())
}

func TestFrameLoopPresentError(t *testing.T) {
	loop, ow := openLoop(t, ggwin.Sz(64, 64), referenceScene)
	ow.SubmitErr = errors.New("surface lost")

	err := loop.Redraw()
	require.ErrorIs(t, err, ggwin.ErrPresent)
	assert.Equal(t, uint64(0), loop.Frames())
	assert.Equal(t, ggwin.StateReady, loop.State())
}

func TestFrameLoopRedrawPolicy(t *testing.T) {
	tests := []struct {
		name         string
		policy       ggwin.RedrawPolicy
		afterRedraws int
	}{
		{"continuous", ggwin.RedrawContinuous, 2},
		{"on demand", ggwin.RedrawOnDemand, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop, ow := openLoop(t, ggwin.Sz(64, 64), referenceScene, ggwin.WithRedrawPolicy(tt.policy))
			assert.Equal(t, tt.policy, loop.Policy())

			// Opening requests the first frame.
			assert.Equal(t, 1, ow.RedrawRequests())
			assert.True(t, loop.RedrawPending())

			require.NoError(t, loop.Redraw())
			assert.Equal(t, tt.afterRedraws, ow.RedrawRequests())
			assert.Equal(t, tt.policy == ggwin.RedrawContinuous, loop.RedrawPending())
		})
	}
}

func TestFrameLoopInvalidateCoalesces(t *testing.T) {
	loop, ow := openLoop(t, ggwin.Sz(64, 64), referenceScene, ggwin.WithRedrawPolicy(ggwin.RedrawOnDemand))
	require.NoError(t, loop.Redraw())
	require.Equal(t, 1, ow.RedrawRequests())

	loop.Invalidate()
	loop.Invalidate()
	assert.Equal(t, 2, ow.RedrawRequests())

	require.NoError(t, loop.Redraw())
	require.NoError(t, loop.Resized(ggwin.Sz(32, 32)))
	assert.Equal(t, 3, ow.RedrawRequests())
}

func TestFrameLoopExposed(t *testing.T) {
	tests := []struct {
		name   string
		policy ggwin.RedrawPolicy
	}{
		{"continuous", ggwin.RedrawContinuous},
		{"on demand", ggwin.RedrawOnDemand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop, ow := openLoop(t, ggwin.Sz(64, 64), referenceScene, ggwin.WithRedrawPolicy(tt.policy))
			require.Equal(t, 1, ow.RedrawRequests())

			// The redraw requested by Open is still queued.
			require.NoError(t, loop.Exposed())
			require.NoError(t, loop.Exposed())
			assert.Equal(t, uint64(0), loop.Frames())
			assert.Equal(t, 1, ow.RedrawRequests())
			assert.True(t, loop.RedrawPending())

			require.NoError(t, loop.Redraw())
			assert.Equal(t, uint64(1), loop.Frames())
		})
	}
}

func TestFrameLoopExposedRedrawsWhenIdle(t *testing.T) {
	loop, ow := openLoop(t, ggwin.Sz(64, 64), referenceScene, ggwin.WithRedrawPolicy(ggwin.RedrawOnDemand))
	require.NoError(t, loop.Redraw())
	require.False(t, loop.RedrawPending())

	require.NoError(t, loop.Exposed())
	assert.Equal(t, uint64(2), loop.Frames())
	assert.Equal(t, 1, ow.RedrawRequests())
	assert.Equal(t, blue, ow.Pixel(10, 10))
}

func TestFrameLoopFrameHook(t *testing.T) {
	type frame struct {
		n    uint64
		size ggwin.Size
	}
	var frames []frame
	hook := func(n uint64, size ggwin.Size) { frames = append(frames, frame{n, size}) }
	loop, _ := openLoop(t, ggwin.Sz(64, 64), referenceScene, ggwin.WithFrameHook(hook))

	require.NoError(t, loop.Redraw())
	require.NoError(t, loop.Resized(ggwin.Sz(128, 96)))
	require.NoError(t, loop.Redraw())
	assert.Equal(t, []frame{{1, ggwin.Sz(64, 64)}, {2, ggwin.Sz(128, 96)}}, frames)
}

func TestRedrawPolicyText(t *testing.T) {
	tests := []struct {
		text string
		want ggwin.RedrawPolicy
	}{
		{"continuous", ggwin.RedrawContinuous},
		{"", ggwin.RedrawContinuous},
		{"on-demand", ggwin.RedrawOnDemand},
		{"ondemand", ggwin.RedrawOnDemand},
		{"invalidate", ggwin.RedrawOnDemand},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var p ggwin.RedrawPolicy
			require.NoError(t, p.UnmarshalText([]byte(tt.text)))
			assert.Equal(t, tt.want, p)
		})
	}

	var p ggwin.RedrawPolicy
	assert.Error(t, p.UnmarshalText([]byte("sometimes")))
	out, err := ggwin.RedrawOnDemand.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "on-demand", string(out))
	_, err = ggwin.RedrawPolicy(5).MarshalText()
	assert.Error(t, err)
}
