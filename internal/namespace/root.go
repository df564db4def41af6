// Package namespace resolves facility names into nodes whose behavior is
// extended by plugin modules and whose signals come from facility documents.
package namespace

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/ktritz/fdp/internal/config"
	"github.com/ktritz/fdp/internal/logger"
	"github.com/ktritz/fdp/internal/machine"
	"github.com/ktritz/fdp/internal/metrics"
	"github.com/ktritz/fdp/internal/plugin"
	"github.com/ktritz/fdp/internal/signal"
)

// Loader attaches plugin methods to a node type at one level.
type Loader interface {
	Load(target plugin.Binder, level plugin.Level, identity, branch string) error
}

type nopLoader struct{}

func (nopLoader) Load(plugin.Binder, plugin.Level, string, string) error { return nil }

// Root is the top of the namespace. Its children are the facilities named in
// the identity table.
type Root struct {
	mu    sync.Mutex
	types map[string]*Type

	table     *machine.Table
	loader    Loader
	parser    *signal.Parser
	configDir string
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// RootOption configures a Root.
type RootOption func(*Root)

// WithLoader sets the plugin loader. Without one no methods are attached.
func WithLoader(l Loader) RootOption {
	return func(r *Root) {
		if l != nil {
			r.loader = l
		}
	}
}

// WithTable replaces the embedded identity table.
func WithTable(t *machine.Table) RootOption {
	return func(r *Root) {
		if t != nil {
			r.table = t
		}
	}
}

// WithParser sets the descriptor parser used when nodes load configuration.
func WithParser(p *signal.Parser) RootOption {
	return func(r *Root) {
		if p != nil {
			r.parser = p
		}
	}
}

// WithConfigDir makes Resolve load <dir>/<identity>.yaml into each facility
// node it returns.
func WithConfigDir(dir string) RootOption {
	return func(r *Root) {
		r.configDir = dir
	}
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) RootOption {
	return func(r *Root) {
		r.log = log.Component("namespace")
	}
}

// WithMetrics attaches resolution counters.
func WithMetrics(m *metrics.Metrics) RootOption {
	return func(r *Root) {
		r.metrics = m
	}
}

// NewRoot builds a root namespace.
func NewRoot(opts ...RootOption) *Root {
	r := &Root{
		types:  make(map[string]*Type),
		table:  machine.Default(),
		loader: nopLoader{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.parser == nil {
		r.parser = signal.NewParser(signal.WithParserLogger(r.log))
	}
	return r
}

// Dir lists the canonical identities available under the root.
func (r *Root) Dir() []string {
	return r.table.Names()
}

// Resolve turns a facility name or alias, in any case, into a facility node.
// The facility's type is synthesized on first use and receives top-level and
// facility-level plugin methods exactly once.
func (r *Root) Resolve(name string) (*Node, error) {
	identity, err := r.table.Normalize(name)
	if err != nil {
		r.metrics.RecordResolution("unknown", metrics.OutcomeInvalid)
		r.log.Debug("rejected facility name", "name", name)
		return nil, err
	}

	t := r.typeFor(identity, "")
	err = t.attach(func(level plugin.Level) error {
		return r.loader.Load(t, level, identity, "")
	}, plugin.LevelTop, plugin.LevelFacility)
	if err != nil {
		r.metrics.RecordResolution(identity, metrics.OutcomeFault)
		return nil, err
	}

	node := newNode(r, t, nil, identity)

	if r.configDir != "" {
		if err := r.loadFacility(node); err != nil {
			r.metrics.RecordResolution(identity, metrics.OutcomeFault)
			return nil, err
		}
	}

	r.metrics.RecordResolution(identity, metrics.OutcomeOK)
	r.log.Debug("resolved facility", "name", name, "identity", identity, "methods", t.Methods())
	return node, nil
}

// Type returns the synthesized type for a canonical identity, if any.
func (r *Root) Type(identity string) (*Type, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[typeID(identity, "")]
	return t, ok
}

func (r *Root) typeFor(identity, branch string) *Type {
	id := typeID(identity, branch)

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.types[id]; ok {
		return t
	}
	t := newType(identity, branch)
	r.types[id] = t
	r.log.Debug("synthesized node type", "type", id)
	return t
}

func (r *Root) loadFacility(node *Node) error {
	f, err := config.LoadFacility(r.configDir, node.identity)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.log.Debug("no facility document", "identity", node.identity, "dir", r.configDir)
			return nil
		}
		return err
	}
	return node.Load(&f.Container)
}
