// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package vulkan is the Vulkan render backend.
//
// The provider loads the system Vulkan library, creates an instance named
// after the window, selects the first physical device with a graphics queue
// family and creates a logical device with one queue from it. The device is
// the capability token for the window; drawing goes through gg, with gg's
// GPU accelerator registered by this package so that eligible draw calls are
// rasterized on the GPU. The accelerator is registered process-wide on import;
// the software backend pins its surfaces to the CPU rasterizer regardless.
//
// Importing the package registers it in the ggwin backend registry as
// "vulkan" with priority 100:
//
//	import _ "github.com/gogpu/ggwin/backend/vulkan"
package vulkan

import (
	"errors"
	"fmt"
	"sync"

	vk "github.com/vulkan-go/vulkan"

	// Registers the wgpu accelerator with gg.
	_ "github.com/gogpu/gg/gpu"

	"github.com/gogpu/ggwin"
)

// Name is the registry name of this backend.
const Name = "vulkan"

// Priority is the registry priority of this backend.
const Priority = 100

func init() {
	ggwin.Register(Name, Priority, func(h *ggwin.Handle, size ggwin.Size) (ggwin.Provider, error) {
		return New(h, size)
	}, Available)
}

// Instance extensions enabled when the loader offers them. Portability
// enumeration lets MoltenVK-style drivers show up in device enumeration.
const (
	extPhysicalDeviceProperties2 = "VK_KHR_get_physical_device_properties2"
	extPortabilityEnumeration    = "VK_KHR_portability_enumeration"

	// instanceCreateEnumeratePortability is
	// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR.
	instanceCreateEnumeratePortability vk.InstanceCreateFlags = 0x00000001
)

var (
	loadOnce sync.Once
	loadErr  error
)

// initInstance resolves the instance-level entry points.
var initInstance = vk.InitInstance

// Load loads the Vulkan library and resolves the global entry points.
// It is safe to call repeatedly; the first result is cached.
func Load() error {
	loadOnce.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			loadErr = fmt.Errorf("vulkan: load library: %w", err)
			return
		}
		if err := vk.Init(); err != nil {
			loadErr = fmt.Errorf("vulkan: init loader: %w", err)
		}
	})
	return loadErr
}

// Available reports whether the Vulkan library could be loaded.
func Available() bool {
	return Load() == nil
}

// newError converts a failed vk.Result into an error, nil on success.
func newError(res vk.Result) error {
	if res == vk.Success {
		return nil
	}
	return fmt.Errorf("vulkan: %w (%d)", vk.Error(res), res)
}

// cString terminates s for the C side of the bindings.
func cString(s string) string {
	return s + "\x00"
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	appName string
}

// WithApplicationName overrides the application and engine name reported to
// the driver. The default is the window title.
func WithApplicationName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// Provider owns a Vulkan instance, a logical device and the surface drawn
// into.
type Provider struct {
	instance    vk.Instance
	physical    vk.PhysicalDevice
	device      vk.Device
	queue       vk.Queue
	queueFamily uint32

	surface *ggwin.Surface
	devices []ggwin.DeviceInfo
	closed  bool
}

var _ ggwin.Provider = (*Provider)(nil)

// New creates a Vulkan device for the window behind h and a surface of the
// given size.
//
// Errors matching ggwin.ErrNoDevice or ggwin.ErrNoContext mean no usable
// device exists on this system; callers should treat them as fatal.
func New(h *ggwin.Handle, size ggwin.Size, opts ...Option) (*Provider, error) {
	o := options{appName: h.Title()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := Load(); err != nil {
		return nil, fmt.Errorf("%w: %w", ggwin.ErrNoDevice, err)
	}

	p := &Provider{}
	if err := p.createInstance(o.appName); err != nil {
		return nil, fmt.Errorf("%w: %w", ggwin.ErrNoDevice, err)
	}

	physical, err := physicalDevices(p.instance)
	if err != nil {
		p.destroy()
		return nil, err
	}
	p.devices = describeDevices(physical)
	ggwin.LogDevices(Name, p.devices)

	idx, family, err := selectDevice(physical)
	if err != nil {
		p.destroy()
		return nil, err
	}
	p.physical, p.queueFamily = physical[idx], family

	if err := p.createDevice(); err != nil {
		p.destroy()
		return nil, fmt.Errorf("%w: %w", ggwin.ErrNoContext, err)
	}
	ggwin.Logger().Info("vulkan device created",
		"device", p.devices[idx].Name,
		"queue_family", family)

	s, err := p.alloc(size)
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("vulkan: create surface: %w", err)
	}
	p.surface = s
	return p, nil
}

// MustNew is like New but panics on error.
func MustNew(h *ggwin.Handle, size ggwin.Size, opts ...Option) *Provider {
	p, err := New(h, size, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// InstanceExtensions lists the instance extensions offered by the loader.
func InstanceExtensions() ([]string, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	var count uint32
	if err := newError(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	if err := newError(vk.EnumerateInstanceExtensionProperties("", &count, list)); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, ext := range list[:count] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// wantedExtensions picks the optional extensions the loader supports and
// whether portability enumeration is among them.
func wantedExtensions(available []string) (exts []string, portability bool) {
	have := make(map[string]bool, len(available))
	for _, name := range available {
		have[name] = true
	}
	for _, name := range []string{extPhysicalDeviceProperties2, extPortabilityEnumeration} {
		if have[name] {
			exts = append(exts, name)
		}
	}
	return exts, have[extPortabilityEnumeration]
}

func (p *Provider) createInstance(appName string) error {
	available, err := InstanceExtensions()
	if err != nil {
		ggwin.Logger().Warn("vulkan instance extensions unavailable", "err", err)
	}
	exts, portability := wantedExtensions(available)

	info := vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   cString(appName),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PEngineName:        cString(appName),
			EngineVersion:      vk.MakeVersion(1, 0, 0),
			ApiVersion:         vk.MakeVersion(1, 1, 0),
		},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: cStrings(exts),
	}
	if portability {
		info.Flags = instanceCreateEnumeratePortability
	}

	var instance vk.Instance
	if err := newError(vk.CreateInstance(&info, nil, &instance)); err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	if err := initInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return fmt.Errorf("init instance: %w", err)
	}
	p.instance = instance
	ggwin.Logger().Debug("vulkan instance created", "extensions", exts, "portability", portability)
	return nil
}

func cStrings(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = cString(s)
	}
	return out
}

func physicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if err := newError(vk.EnumeratePhysicalDevices(instance, &count, nil)); err != nil {
		return nil, fmt.Errorf("%w: %w", ggwin.ErrNoDevice, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: no vulkan physical devices", ggwin.ErrNoDevice)
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := newError(vk.EnumeratePhysicalDevices(instance, &count, devices)); err != nil {
		return nil, fmt.Errorf("%w: %w", ggwin.ErrNoDevice, err)
	}
	return devices[:count], nil
}

// EnumerateDevices lists the physical devices of instance.
func EnumerateDevices(instance vk.Instance) ([]ggwin.DeviceInfo, error) {
	devices, err := physicalDevices(instance)
	if err != nil {
		return nil, err
	}
	return describeDevices(devices), nil
}

func describeDevices(devices []vk.PhysicalDevice) []ggwin.DeviceInfo {
	infos := make([]ggwin.DeviceInfo, len(devices))
	for i, d := range devices {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(d, &props)
		props.Deref()
		infos[i] = ggwin.DeviceInfo{
			Index:  i,
			Name:   vk.ToString(props.DeviceName[:]),
			Vendor: VendorName(props.VendorID),
			API:    "Vulkan",
			Type:   deviceType(props.DeviceType),
		}
	}
	return infos
}

func deviceType(t vk.PhysicalDeviceType) ggwin.DeviceType {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return ggwin.DeviceIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return ggwin.DeviceDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return ggwin.DeviceVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return ggwin.DeviceCPU
	default:
		return ggwin.DeviceOther
	}
}

// VendorName maps a PCI vendor ID to a name. Unknown IDs yield "".
func VendorName(id uint32) string {
	switch id {
	case 0x1002:
		return "AMD"
	case 0x10DE:
		return "NVIDIA"
	case 0x8086:
		return "Intel"
	case 0x13B5:
		return "ARM"
	case 0x5143:
		return "Qualcomm"
	case 0x106B:
		return "Apple"
	case 0x1010:
		return "ImgTec"
	case 0x10005:
		return "Mesa"
	default:
		return ""
	}
}

// selectDevice returns the first device with a graphics queue family.
func selectDevice(devices []vk.PhysicalDevice) (index int, family uint32, err error) {
	for i, d := range devices {
		var count uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(d, &count, nil)
		families := make([]vk.QueueFamilyProperties, count)
		vk.GetPhysicalDeviceQueueFamilyProperties(d, &count, families)

		for j, qf := range families[:count] {
			qf.Deref()
			if qf.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
				return i, uint32(j), nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: no device with a graphics queue", ggwin.ErrNoDevice)
}

func (p *Provider) createDevice() error {
	info := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: p.queueFamily,
			QueueCount:       1,
			PQueuePriorities: []float32{1},
		}},
	}
	var device vk.Device
	if err := newError(vk.CreateDevice(p.physical, &info, nil, &device)); err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	p.device = device

	var queue vk.Queue
	vk.GetDeviceQueue(device, p.queueFamily, 0, &queue)
	if queue == nil {
		return errors.New("create device: no queue returned")
	}
	p.queue = queue
	return nil
}

// Name implements ggwin.Provider.
func (p *Provider) Name() string { return Name }

// Surface implements ggwin.Provider.
func (p *Provider) Surface() *ggwin.Surface { return p.surface }

// Devices implements ggwin.Provider.
func (p *Provider) Devices() []ggwin.DeviceInfo { return p.devices }

// QueueFamily returns the index of the graphics queue family in use.
func (p *Provider) QueueFamily() uint32 { return p.queueFamily }

// Resize implements ggwin.Provider.
func (p *Provider) Resize(size ggwin.Size) error {
	if p.closed {
		return ggwin.ErrClosed
	}
	s, err := ggwin.ReplaceSurface(p.surface, size, p.alloc)
	p.surface = s
	return err
}

// Prepare implements ggwin.Provider.
func (p *Provider) Prepare(size ggwin.Size) (*ggwin.Surface, error) {
	if p.closed {
		return nil, ggwin.ErrClosed
	}
	return ggwin.PrepareSurface(p.surface, size, p.alloc)
}

// Commit implements ggwin.Provider.
func (p *Provider) Commit(s *ggwin.Surface) {
	p.surface = ggwin.CommitSurface(p.surface, s)
}

func (p *Provider) alloc(size ggwin.Size) (*ggwin.Surface, error) {
	return ggwin.NewSurface(size)
}

// Close implements ggwin.Provider. The surface is released before the
// device.
func (p *Provider) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	var err error
	if p.surface != nil {
		err = p.surface.Close()
	}
	p.destroy()
	return err
}

// destroy tears down the device and instance in reverse creation order.
func (p *Provider) destroy() {
	if p.device != nil {
		vk.DeviceWaitIdle(p.device)
		vk.DestroyDevice(p.device, nil)
		p.device = nil
		p.queue = nil
	}
	if p.instance != nil {
		vk.DestroyInstance(p.instance, nil)
		p.instance = nil
	}
}
