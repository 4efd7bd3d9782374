package ggwin

import (
	"errors"
	"sort"
	"sync"
)

// ProviderFactory creates a Provider for the window behind h, sized to size.
type ProviderFactory func(h *Handle, size Size) (Provider, error)

// BackendEntry represents a registered render backend.
type BackendEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Built-in priorities:
	//   - 100: vulkan
	//   - 50: opengl
	//   - 10: software
	Priority int

	// Factory creates providers.
	Factory ProviderFactory

	// Available reports whether the backend can run on this system.
	Available func() bool
}

var globalRegistry = &Registry{}

// Registry manages registered render backends. Backend packages register
// themselves from init:
//
//	func init() {
//	    ggwin.Register("vulkan", 100, factory, available)
//	}
//
// and programs select one by name or take the best available:
//
//	p, err := ggwin.OpenProvider("vulkan", h, h.InnerSize())
//	p, err := ggwin.OpenBestProvider(h, h.InnerSize())
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*BackendEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and OpenProvider.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*BackendEntry)}
}

// Register adds a backend to the global registry.
// If available is nil the backend is assumed always available.
// Registering an existing name replaces the previous entry.
func Register(name string, priority int, factory ProviderFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// Backends returns all registered backend names, highest priority first.
func Backends() []string {
	return globalRegistry.Backends()
}

// Available returns the names of available backends, highest priority first.
func Available() []string {
	return globalRegistry.Available()
}

// OpenProvider creates a provider using the named backend of the global
// registry.
func OpenProvider(name string, h *Handle, size Size) (Provider, error) {
	return globalRegistry.OpenProvider(name, h, size)
}

// OpenBestProvider creates a provider from the best available backend of the
// global registry.
func OpenBestProvider(h *Handle, size Size) (Provider, error) {
	return globalRegistry.OpenBestProvider(h, size)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory ProviderFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*BackendEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &BackendEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Get returns a copy of the entry for name.
func (r *Registry) Get(name string) (BackendEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return BackendEntry{}, false
	}
	return *e, true
}

// Backends returns all registered backend names sorted by priority.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns names of available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// OpenProvider creates a provider using a specific backend.
func (r *Registry) OpenProvider(name string, h *Handle, size Size) (Provider, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !e.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return e.Factory(h, size)
}

// OpenBestProvider tries each available backend in priority order and
// returns the first provider that opens. The errors of every failed attempt
// are joined when nothing opens.
func (r *Registry) OpenBestProvider(h *Handle, size Size) (Provider, error) {
	r.mu.RLock()
	names := r.sortedNames(true)
	r.mu.RUnlock()

	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var errs []error
	for _, name := range names {
		p, err := r.OpenProvider(name, h, size)
		if err == nil {
			return p, nil
		}
		Logger().Warn("backend failed to open, trying next", "backend", name, "err", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(append([]error{ErrNoBackendAvailable}, errs...)...)
}

// sortedNames returns backend names sorted by priority (highest first), ties
// broken by name. Must be called with the lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	entries := make([]*BackendEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
