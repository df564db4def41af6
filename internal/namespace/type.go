package namespace

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ktritz/fdp/internal/plugin"
)

// Type is a synthesized node type. Every node bound to the same identity and
// branch shares one Type and therefore one capability table.
type Type struct {
	id       string
	key      string
	identity string
	branch   string

	mu      sync.RWMutex
	methods map[string]plugin.Method

	// attachMu serializes plugin attachment; attached records the levels
	// that completed.
	attachMu sync.Mutex
	attached map[plugin.Level]bool
}

// typeSeq numbers synthesized types process-wide.
var typeSeq atomic.Uint64

func newType(identity, branch string) *Type {
	id := typeID(identity, branch)
	return &Type{
		id:       id,
		key:      id + "#" + strconv.FormatUint(typeSeq.Add(1), 10),
		identity: identity,
		branch:   branch,
		methods:  make(map[string]plugin.Method),
		attached: make(map[plugin.Level]bool),
	}
}

func typeID(identity, branch string) string {
	if branch == "" {
		return identity
	}
	return identity + "." + branch
}

// ID is the canonical identity for a facility type, or identity.branch for a
// container type.
func (t *Type) ID() string {
	return t.id
}

// Key distinguishes this type from every other type synthesized in the
// process, including same-named types owned by other roots.
func (t *Type) Key() string {
	return t.key
}

// Identity returns the canonical identity the type belongs to.
func (t *Type) Identity() string {
	return t.identity
}

// Branch returns the dotted container path, empty for a facility type.
func (t *Type) Branch() string {
	return t.branch
}

// Bind attaches m under name, replacing any method bound earlier.
func (t *Type) Bind(name string, m plugin.Method) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.methods[name] = m
}

// Method looks up an attached method.
func (t *Type) Method(name string) (plugin.Method, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.methods[name]
	return m, ok
}

// Methods returns the attached method names, sorted.
func (t *Type) Methods() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.methods))
	for name := range t.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attached reports whether plugin attachment completed for level.
func (t *Type) Attached(level plugin.Level) bool {
	t.attachMu.Lock()
	defer t.attachMu.Unlock()
	return t.attached[level]
}

// attach runs load for each level not yet attached, in order. A level whose
// load fails stays unattached and is retried on the next call.
func (t *Type) attach(load func(level plugin.Level) error, levels ...plugin.Level) error {
	t.attachMu.Lock()
	defer t.attachMu.Unlock()
	for _, level := range levels {
		if t.attached[level] {
			continue
		}
		if err := load(level); err != nil {
			return err
		}
		t.attached[level] = true
	}
	return nil
}

func (t *Type) String() string {
	var b strings.Builder
	b.WriteString(t.id)
	if methods := t.Methods(); len(methods) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(methods, " "))
		b.WriteString("]")
	}
	return b.String()
}
