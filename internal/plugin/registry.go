package plugin

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

type registryKey struct {
	dir    string
	module string
}

// Registry is a Discoverer backed by statically registered bundles, keyed by
// the directory and module name a filesystem module would occupy.
type Registry struct {
	mu      sync.RWMutex
	bundles map[registryKey]Bundle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bundles: make(map[registryKey]Bundle)}
}

// Register adds a bundle at the given location.
func (r *Registry) Register(loc Location, b Bundle) error {
	if loc.Module == "" {
		return fmt.Errorf("plugin: location has no module name")
	}
	key := registryKey{dir: filepath.Clean(loc.Dir), module: loc.Module}
	if b.Module == "" {
		b.Module = loc.Module
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bundles[key]; exists {
		return fmt.Errorf("plugin: module '%s' already registered", loc)
	}
	r.bundles[key] = b
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(loc Location, b Bundle) {
	if err := r.Register(loc, b); err != nil {
		panic(err)
	}
}

// Discover returns the first bundle registered under a search path entry.
func (r *Registry) Discover(searchPath []string, module string) (Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, dir := range searchPath {
		if b, ok := r.bundles[registryKey{dir: filepath.Clean(dir), module: module}]; ok {
			return b, nil
		}
	}
	return Bundle{}, ErrModuleNotFound
}

// Modules lists registered locations, sorted.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.bundles))
	for key := range r.bundles {
		out = append(out, filepath.Join(key.dir, key.module))
	}
	sort.Strings(out)
	return out
}
