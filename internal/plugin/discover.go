package plugin

import "errors"

// Discoverer finds a module by name on a search path. It returns
// ErrModuleNotFound when no entry provides the module; any other error is a
// fault in a module that does exist.
type Discoverer interface {
	Discover(searchPath []string, module string) (Bundle, error)
}

// DiscovererFunc adapts a function to the Discoverer interface.
type DiscovererFunc func(searchPath []string, module string) (Bundle, error)

// Discover calls f.
func (f DiscovererFunc) Discover(searchPath []string, module string) (Bundle, error) {
	return f(searchPath, module)
}

// Chain tries each discoverer in order; the first one that finds the module
// wins, including when it reports a fault.
func Chain(discoverers ...Discoverer) Discoverer {
	return DiscovererFunc(func(searchPath []string, module string) (Bundle, error) {
		for _, d := range discoverers {
			if d == nil {
				continue
			}
			b, err := d.Discover(searchPath, module)
			if errors.Is(err, ErrModuleNotFound) {
				continue
			}
			return b, err
		}
		return Bundle{}, ErrModuleNotFound
	})
}
