package ggwin

import "fmt"

// Provider is a Render Target Provider: it owns a backend context (software
// rasterizer state, an OpenGL context or a Vulkan device) and the Surface
// drawn into.
//
// Backends own their contexts independently; there is no shared base state.
// Providers are NOT safe for concurrent use and must be driven from the
// platform event loop.
type Provider interface {
	// Name returns the backend name ("software", "opengl", "vulkan").
	Name() string

	// Surface returns the current drawable. It stays valid until the next
	// successful Resize.
	Surface() *Surface

	// Resize replaces the current Surface with one of the given size.
	// Resizing to the size already in effect keeps the current Surface.
	// On error the previous Surface remains usable.
	Resize(size Size) error

	// Prepare allocates a Surface of the given size without installing it.
	// The current Surface stays in effect until Commit. Preparing the size
	// already in effect returns the current Surface. A prepared Surface that
	// is not committed must be closed by the caller.
	Prepare(size Size) (*Surface, error)

	// Commit installs a Surface returned by Prepare and releases the one it
	// replaces.
	Commit(s *Surface)

	// Devices returns the devices enumerated when the provider was created.
	Devices() []DeviceInfo

	// Close releases the Surface and the backend context.
	// Close is idempotent.
	Close() error
}

// DeviceType classifies an enumerated device.
type DeviceType uint8

const (
	DeviceOther DeviceType = iota
	DeviceIntegratedGPU
	DeviceDiscreteGPU
	DeviceVirtualGPU
	DeviceCPU
	DeviceDisplay
)

func (t DeviceType) String() string {
	switch t {
	case DeviceIntegratedGPU:
		return "integrated-gpu"
	case DeviceDiscreteGPU:
		return "discrete-gpu"
	case DeviceVirtualGPU:
		return "virtual-gpu"
	case DeviceCPU:
		return "cpu"
	case DeviceDisplay:
		return "display"
	default:
		return "other"
	}
}

// DeviceInfo describes one device found during backend start-up.
type DeviceInfo struct {
	Index  int
	Name   string
	Vendor string
	API    string
	Type   DeviceType
}

func (d DeviceInfo) String() string {
	name, vendor := d.Name, d.Vendor
	if name == "" {
		name = "UNKNOWN"
	}
	if vendor == "" {
		vendor = "UNKNOWN"
	}
	return fmt.Sprintf("Device %d: Name: %s Vendor: %s", d.Index, name, vendor)
}

// LogDevices writes one info line per device, the way backends report what
// they found at start-up.
func LogDevices(backend string, devices []DeviceInfo) {
	l := Logger()
	for _, d := range devices {
		l.Info("device enumerated",
			"backend", backend,
			"index", d.Index,
			"name", d.Name,
			"vendor", d.Vendor,
			"api", d.API,
			"type", d.Type.String())
	}
}

// ReplaceSurface implements the Provider resize rule shared by all backends:
// validate, allocate the new surface, then release the old one. It returns
// cur unchanged when size already matches, and leaves cur untouched on error.
func ReplaceSurface(cur *Surface, size Size, alloc func(Size) (*Surface, error)) (*Surface, error) {
	next, err := PrepareSurface(cur, size, alloc)
	if err != nil {
		return cur, err
	}
	return CommitSurface(cur, next), nil
}

// PrepareSurface is the first half of ReplaceSurface: it validates size and
// allocates the new surface, leaving cur in effect. It returns cur when size
// already matches.
func PrepareSurface(cur *Surface, size Size, alloc func(Size) (*Surface, error)) (*Surface, error) {
	if size.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrZeroSize, size)
	}
	if cur != nil && cur.Size() == size {
		return cur, nil
	}
	return alloc(size)
}

// CommitSurface is the second half of ReplaceSurface: it releases cur unless
// it is next and returns next.
func CommitSurface(cur, next *Surface) *Surface {
	if cur != nil && cur != next {
		if err := cur.Close(); err != nil {
			Logger().Warn("releasing replaced surface", "err", err)
		}
	}
	return next
}
