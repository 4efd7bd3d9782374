// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package opengl is the OpenGL render backend.
//
// The provider bootstraps an offscreen OpenGL context with glfw: a hidden
// window that is never shown, created with a primary context profile and, if
// that fails, exactly one alternate profile. The context is kept current and
// acts as the device capability token for the window; drawing goes through
// gg into the provider's surface.
//
// glfw must be driven from the main OS thread. Programs using this backend
// should call runtime.LockOSThread from an init function of package main.
//
// Importing the package registers it in the ggwin backend registry as
// "opengl" with priority 50:
//
//	import _ "github.com/gogpu/ggwin/backend/opengl"
package opengl

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/ggwin"
)

// Name is the registry name of this backend.
const Name = "opengl"

// Priority is the registry priority of this backend.
const Priority = 50

func init() {
	ggwin.Register(Name, Priority, func(h *ggwin.Handle, size ggwin.Size) (ggwin.Provider, error) {
		return New(h, size)
	}, Available)
}

// Profile is one context configuration to try.
type Profile struct {
	// Name is used in diagnostics.
	Name string

	// API is the glfw client API hint value (glfw.OpenGLAPI or
	// glfw.OpenGLESAPI).
	API int

	// Major and Minor are the requested context version.
	Major, Minor int

	// Core requests a core profile with forward compatibility. Only
	// meaningful for desktop OpenGL 3.2 and later.
	Core bool
}

// Default profiles: desktop core first, OpenGL ES as the single fallback.
var (
	PrimaryProfile   = Profile{Name: "OpenGL 3.3 core", API: glfw.OpenGLAPI, Major: 3, Minor: 3, Core: true}
	AlternateProfile = Profile{Name: "OpenGL ES 3.0", API: glfw.OpenGLESAPI, Major: 3, Minor: 0}
)

// probeProc is queried after making the context current to verify that GL
// entry points resolve.
const probeProc = "glGetString"

// Option configures a Provider.
type Option func(*options)

type options struct {
	samples   int
	primary   Profile
	alternate *Profile
}

func defaultOptions() options {
	alt := AlternateProfile
	return options{
		samples:   4,
		primary:   PrimaryProfile,
		alternate: &alt,
	}
}

// WithSamples sets the multisample count requested for the context
// configuration. The default is 4; 0 disables multisampling.
func WithSamples(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.samples = n
		}
	}
}

// WithProfiles replaces the profiles to try. alternate may be nil to
// disable the fallback.
func WithProfiles(primary Profile, alternate *Profile) Option {
	return func(o *options) {
		o.primary = primary
		o.alternate = alternate
	}
}

// Provider owns an offscreen OpenGL context and the surface drawn into.
type Provider struct {
	window  *glfw.Window
	profile Profile
	samples int
	surface *ggwin.Surface
	devices []ggwin.DeviceInfo
	closed  bool
}

var _ ggwin.Provider = (*Provider)(nil)

var (
	glfwMu   sync.Mutex
	glfwRefs int
)

// acquireGLFW initializes glfw on first use.
func acquireGLFW() error {
	glfwMu.Lock()
	defer glfwMu.Unlock()
	if glfwRefs == 0 {
		if err := glfw.Init(); err != nil {
			return fmt.Errorf("opengl: glfw init: %w", err)
		}
	}
	glfwRefs++
	return nil
}

// releaseGLFW terminates glfw when the last provider is closed.
func releaseGLFW() {
	glfwMu.Lock()
	defer glfwMu.Unlock()
	if glfwRefs == 0 {
		return
	}
	glfwRefs--
	if glfwRefs == 0 {
		glfw.Terminate()
	}
}

// Available reports whether glfw can be initialized on this system.
func Available() bool {
	if err := acquireGLFW(); err != nil {
		return false
	}
	releaseGLFW()
	return true
}

// EnumerateDevices lists the display devices glfw can see. glfw must be
// initialized.
func EnumerateDevices() ([]ggwin.DeviceInfo, error) {
	monitors := glfw.GetMonitors()
	if len(monitors) == 0 {
		return nil, fmt.Errorf("%w: no displays found", ggwin.ErrNoDevice)
	}
	devices := make([]ggwin.DeviceInfo, len(monitors))
	for i, m := range monitors {
		devices[i] = ggwin.DeviceInfo{
			Index: i,
			Name:  m.GetName(),
			API:   "OpenGL",
			Type:  ggwin.DeviceDisplay,
		}
	}
	return devices, nil
}

// New bootstraps an OpenGL context and creates a surface of the given size.
//
// Errors matching ggwin.ErrNoDevice or ggwin.ErrNoContext mean no usable
// context exists on this system; callers should treat them as fatal.
func New(h *ggwin.Handle, size ggwin.Size, opts ...Option) (*Provider, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := acquireGLFW(); err != nil {
		return nil, fmt.Errorf("%w: %w", ggwin.ErrNoDevice, err)
	}

	devices, err := EnumerateDevices()
	if err != nil {
		releaseGLFW()
		return nil, err
	}
	ggwin.LogDevices(Name, devices)
	glfwVersion := glfw.GetVersionString()

	win, profile, err := createContext(h.Title(), o)
	if err != nil {
		releaseGLFW()
		return nil, err
	}
	ggwin.Logger().Info("opengl context created",
		"device", devices[0].Name,
		"profile", profile.Name,
		"samples", o.samples,
		"glfw", glfwVersion)

	p := &Provider{
		window:  win,
		profile: profile,
		samples: o.samples,
		devices: devices,
	}
	s, err := p.alloc(size)
	if err != nil {
		p.destroyContext()
		return nil, fmt.Errorf("opengl: create surface: %w", err)
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

// createContext tries the primary profile, then at most one alternate.
func createContext(title string, o options) (*glfw.Window, Profile, error) {
	profiles := []Profile{o.primary}
	if o.alternate != nil {
		profiles = append(profiles, *o.alternate)
	}

	var errs []error
	for _, prof := range profiles {
		win, err := tryProfile(title, prof, o.samples)
		if err == nil {
			return win, prof, nil
		}
		ggwin.Logger().Warn("opengl profile unavailable", "profile", prof.Name, "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", prof.Name, err))
	}
	return nil, Profile{}, fmt.Errorf("%w: %w", ggwin.ErrNoContext, errors.Join(errs...))
}

func tryProfile(title string, prof Profile, samples int) (*glfw.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ClientAPI, prof.API)
	glfw.WindowHint(glfw.ContextVersionMajor, prof.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, prof.Minor)
	glfw.WindowHint(glfw.AlphaBits, 8)
	glfw.WindowHint(glfw.Samples, samples)
	if prof.Core && prof.API == glfw.OpenGLAPI {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}

	// The window only carries the context and stays hidden.
	win, err := glfw.CreateWindow(1, 1, title, nil, nil)
	if err != nil {
		return nil, err
	}
	win.MakeContextCurrent()
	if glfw.GetProcAddress(probeProc) == nil {
		glfw.DetachCurrentContext()
		win.Destroy()
		return nil, fmt.Errorf("%s does not resolve", probeProc)
	}
	return win, nil
}

// Name implements ggwin.Provider.
func (p *Provider) Name() string { return Name }

// Surface implements ggwin.Provider.
func (p *Provider) Surface() *ggwin.Surface { return p.surface }

// Devices implements ggwin.Provider.
func (p *Provider) Devices() []ggwin.DeviceInfo { return p.devices }

// Profile returns the context profile that was created.
func (p *Provider) Profile() Profile { return p.profile }

// Samples returns the requested multisample count.
func (p *Provider) Samples() int { return p.samples }

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

// Close implements ggwin.Provider.
func (p *Provider) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	err := p.surface.Close()
	p.destroyContext()
	return err
}

func (p *Provider) destroyContext() {
	if p.window == nil {
		return
	}
	if glfw.GetCurrentContext() == p.window {
		glfw.DetachCurrentContext()
	}
	p.window.Destroy()
	p.window = nil
	releaseGLFW()
}
