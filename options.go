package ggwin

// LoopOption configures a FrameLoop during creation.
//
// Example:
//
//	// Continuous redraw (default)
//	loop := ggwin.NewFrameLoop(draw)
//
//	// Redraw only after Invalidate or a resize
//	loop := ggwin.NewFrameLoop(draw, ggwin.WithRedrawPolicy(ggwin.RedrawOnDemand))
type LoopOption func(*loopOptions)

type loopOptions struct {
	policy  RedrawPolicy
	onFrame func(frame uint64, size Size)
}

func defaultLoopOptions() loopOptions {
	return loopOptions{policy: RedrawContinuous}
}

// WithRedrawPolicy sets when the loop requests the next redraw.
func WithRedrawPolicy(p RedrawPolicy) LoopOption {
	return func(o *loopOptions) {
		o.policy = p
	}
}

// WithFrameHook registers fn to run after every successful present with the
// frame number and the presented size.
func WithFrameHook(fn func(frame uint64, size Size)) LoopOption {
	return func(o *loopOptions) {
		o.onFrame = fn
	}
}
