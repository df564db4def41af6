package plugin

import (
	"errors"
	"sync"

	"github.com/ktritz/fdp/internal/logger"
	"github.com/ktritz/fdp/internal/metrics"
	fdperrors "github.com/ktritz/fdp/pkg/errors"
)

// Loader binds plugin module methods onto node types. Each Load prepends the
// level's directory to the loader's search path for the duration of the
// lookup; loads are serialized so no two lookups ever see each other's entry.
type Loader struct {
	mu         sync.Mutex
	root       string
	searchPath []string
	discoverer Discoverer
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// Option configures a Loader.
type Option func(*Loader)

// WithDiscoverer sets the module discovery strategy. The default is a
// SourceDiscoverer.
func WithDiscoverer(d Discoverer) Option {
	return func(l *Loader) {
		if d != nil {
			l.discoverer = d
		}
	}
}

// WithSearchPath sets base entries searched after the level directory.
func WithSearchPath(dirs ...string) Option {
	return func(l *Loader) {
		l.searchPath = append([]string(nil), dirs...)
	}
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) {
		l.log = log.Component("plugin")
	}
}

// WithMetrics attaches load counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// NewLoader returns a loader rooted at root.
func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{root: root}
	for _, opt := range opts {
		opt(l)
	}
	if l.discoverer == nil {
		l.discoverer = NewSourceDiscoverer()
	}
	return l
}

// Root returns the plugin root directory.
func (l *Loader) Root() string {
	return l.root
}

// SearchPath returns a snapshot of the current search path.
func (l *Loader) SearchPath() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.searchPath...)
}

// Load locates the module for level and binds its exported methods onto
// target. A missing module is not an error. A module that faults while
// loading yields a *errors.PluginLoadError. The search path is restored on
// every return path.
func (l *Loader) Load(target Binder, level Level, identity, branch string) error {
	loc, err := Locate(l.root, level, identity, branch)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prior := l.searchPath
	l.searchPath = append([]string{loc.Dir}, prior...)
	defer func() { l.searchPath = prior }()

	bundle, err := l.discoverer.Discover(append([]string(nil), l.searchPath...), loc.Module)
	if err != nil {
		if errors.Is(err, ErrModuleNotFound) {
			l.log.Debug("no plugin module", "level", level.String(), "location", loc.String())
			l.metrics.RecordPluginLoad(level.String(), metrics.OutcomeAbsent)
			return nil
		}
		l.metrics.RecordPluginLoad(level.String(), metrics.OutcomeFault)
		return l.fault(loc, err)
	}

	if bundle.Exports == nil {
		l.log.Debug("plugin module declares no exports", "level", level.String(), "location", loc.String())
		l.metrics.RecordPluginLoad(level.String(), metrics.OutcomeOK)
		return nil
	}

	methods := make(map[string]Method, len(bundle.Exports))
	for _, name := range bundle.Exports {
		m, ok := bundle.Methods[name]
		if !ok || m == nil {
			l.metrics.RecordPluginLoad(level.String(), metrics.OutcomeFault)
			return l.fault(loc, ErrExportNotFound{Module: loc.Module, Name: name})
		}
		methods[name] = m
	}
	for _, name := range bundle.Exports {
		target.Bind(name, methods[name])
	}

	l.log.Debug("attached plugin methods", "level", level.String(), "location", loc.String(), "methods", bundle.Exports)
	l.metrics.RecordPluginLoad(level.String(), metrics.OutcomeOK)
	return nil
}

func (l *Loader) fault(loc Location, err error) error {
	var loadErr *fdperrors.PluginLoadError
	if errors.As(err, &loadErr) {
		return err
	}
	wrapped := fdperrors.NewPluginLoadError(loc.Module, loc.Dir, err)
	l.log.Error(wrapped, "plugin module failed to load", "level", loc.Level.String())
	return wrapped
}
