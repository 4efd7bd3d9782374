package ggwin

import "fmt"

// RedrawPolicy controls when a FrameLoop asks the platform for the next
// redraw.
type RedrawPolicy uint8

const (
	// RedrawContinuous requests a new redraw after every present.
	RedrawContinuous RedrawPolicy = iota

	// RedrawOnDemand requests a redraw only after Invalidate or a resize.
	RedrawOnDemand
)

func (p RedrawPolicy) String() string {
	switch p {
	case RedrawContinuous:
		return "continuous"
	case RedrawOnDemand:
		return "on-demand"
	default:
		return fmt.Sprintf("RedrawPolicy(%d)", uint8(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p RedrawPolicy) MarshalText() ([]byte, error) {
	switch p {
	case RedrawContinuous, RedrawOnDemand:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("ggwin: unknown redraw policy %d", uint8(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *RedrawPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "continuous", "":
		*p = RedrawContinuous
	case "on-demand", "ondemand", "invalidate":
		*p = RedrawOnDemand
	default:
		return fmt.Errorf("ggwin: unknown redraw policy %q", text)
	}
	return nil
}
