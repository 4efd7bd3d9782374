// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software is the CPU render backend: surfaces are plain gg
// contexts rasterized by gg's analytic scanline renderer. Surfaces stay on
// the CPU even when another imported backend has registered a GPU
// accelerator with gg.
//
// Importing the package registers it in the ggwin backend registry as
// "software" with priority 10:
//
//	import _ "github.com/gogpu/ggwin/backend/software"
package software

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggwin"
)

// Name is the registry name of this backend.
const Name = "software"

// Priority is the registry priority of this backend.
const Priority = 10

func init() {
	ggwin.Register(Name, Priority, func(h *ggwin.Handle, size ggwin.Size) (ggwin.Provider, error) {
		return New(h, size)
	}, nil)
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	renderer func(width, height int) gg.Renderer
}

// WithRenderer overrides the gg renderer built for every surface.
// The default is gg's software renderer.
func WithRenderer(fn func(width, height int) gg.Renderer) Option {
	return func(o *options) {
		o.renderer = fn
	}
}

// Provider owns a CPU-backed surface.
type Provider struct {
	opts    options
	surface *ggwin.Surface
	devices []ggwin.DeviceInfo
	closed  bool
}

var _ ggwin.Provider = (*Provider)(nil)

// EnumerateDevices reports the single CPU rasterizer device.
func EnumerateDevices() []ggwin.DeviceInfo {
	return []ggwin.DeviceInfo{{
		Index:  0,
		Name:   "gg software rasterizer",
		Vendor: "gogpu",
		API:    "cpu",
		Type:   ggwin.DeviceCPU,
	}}
}

// New creates a Provider with a surface of the given size.
// h is only used for diagnostics; the software backend needs no window
// resources.
func New(h *ggwin.Handle, size ggwin.Size, opts ...Option) (*Provider, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := &Provider{opts: o, devices: EnumerateDevices()}
	ggwin.LogDevices(Name, p.devices)

	s, err := p.alloc(size)
	if err != nil {
		return nil, fmt.Errorf("software: create surface for %q: %w", h.Title(), err)
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

// Name implements ggwin.Provider.
func (p *Provider) Name() string { return Name }

// Surface implements ggwin.Provider.
func (p *Provider) Surface() *ggwin.Surface { return p.surface }

// Devices implements ggwin.Provider.
func (p *Provider) Devices() []ggwin.DeviceInfo { return p.devices }

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

// Close implements ggwin.Provider.
func (p *Provider) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.surface.Close()
}

// alloc creates a surface pinned to the CPU analytic rasterizer so that a GPU
// accelerator registered by another backend is never consulted.
func (p *Provider) alloc(size ggwin.Size) (*ggwin.Surface, error) {
	var opts []gg.ContextOption
	if p.opts.renderer != nil {
		opts = append(opts, gg.WithRenderer(p.opts.renderer(size.Width, size.Height)))
	}
	s, err := ggwin.NewSurface(size, opts...)
	if err != nil {
		return nil, err
	}
	s.Context().SetRasterizerMode(gg.RasterizerAnalytic)
	return s, nil
}
