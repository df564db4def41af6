package namespace

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ktritz/fdp/internal/config"
	"github.com/ktritz/fdp/internal/plugin"
	"github.com/ktritz/fdp/internal/signal"
)

// ErrUnknownMethod is returned by Call when the node's type has no method of
// that name.
var ErrUnknownMethod = errors.New("namespace: unknown method")

type attribute struct {
	value string
	set   bool
}

func (a *attribute) assign(value string) {
	a.value, a.set = value, value != ""
}

// Node is a facility or a nested container. Facility nodes are created per
// resolution; container nodes are created once per parent.
type Node struct {
	root     *Root
	typ      *Type
	parent   *Node
	name     string
	identity string
	branch   string

	mu       sync.RWMutex
	units    attribute
	mdsPath  attribute
	mdsTree  attribute
	signals  []signal.Spec
	defaults map[string]map[string]string
	children map[string]*Node
}

func newNode(r *Root, t *Type, parent *Node, name string) *Node {
	return &Node{
		root:     r,
		typ:      t,
		parent:   parent,
		name:     name,
		identity: t.identity,
		branch:   t.branch,
		defaults: make(map[string]map[string]string),
		children: make(map[string]*Node),
	}
}

// Name is the facility identity or the container's own name.
func (n *Node) Name() string { return n.name }

// Identity is the canonical identity of the facility the node belongs to.
func (n *Node) Identity() string { return n.identity }

// Branch is the dotted container path below the facility, empty for the
// facility itself.
func (n *Node) Branch() string { return n.branch }

// Parent returns the enclosing node, nil for a facility.
func (n *Node) Parent() *Node { return n.parent }

// Type returns the node's synthesized type.
func (n *Node) Type() *Type { return n.typ }

// TypeID implements signal.Owner. It is the type's process-unique key, so
// nodes of distinct roots never share path cache entries.
func (n *Node) TypeID() string { return n.typ.key }

// Units returns the node's units, inherited from the nearest ancestor that
// sets them.
func (n *Node) Units() (string, bool) {
	return n.inherit(func(x *Node) attribute { return x.units })
}

// MDSPath returns the node's storage path, inherited like Units.
func (n *Node) MDSPath() (string, bool) {
	return n.inherit(func(x *Node) attribute { return x.mdsPath })
}

// MDSTree returns the node's tree identifier, inherited like Units.
func (n *Node) MDSTree() (string, bool) {
	return n.inherit(func(x *Node) attribute { return x.mdsTree })
}

func (n *Node) inherit(get func(*Node) attribute) (string, bool) {
	for x := n; x != nil; x = x.parent {
		x.mu.RLock()
		attr := get(x)
		x.mu.RUnlock()
		if attr.set {
			return attr.value, true
		}
	}
	return "", false
}

// Child returns the named container below n, creating it and attaching its
// branch-level plugin methods on first access.
func (n *Node) Child(name string) (*Node, error) {
	if name == "" || strings.Contains(name, ".") {
		return nil, fmt.Errorf("namespace: invalid container name %q", name)
	}

	n.mu.RLock()
	child, ok := n.children[name]
	n.mu.RUnlock()
	if ok {
		return child, nil
	}

	branch := name
	if n.branch != "" {
		branch = n.branch + "." + name
	}

	t := n.root.typeFor(n.identity, branch)
	err := t.attach(func(level plugin.Level) error {
		return n.root.loader.Load(t, level, n.identity, branch)
	}, plugin.LevelBranch)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if existing, ok := n.children[name]; ok {
		return existing, nil
	}
	child = newNode(n.root, t, n, name)
	n.children[name] = child
	return child, nil
}

// Children returns the names of the containers created below n, sorted.
func (n *Node) Children() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Methods returns the names of the methods attached to the node's type.
func (n *Node) Methods() []string {
	return n.typ.Methods()
}

// HasMethod reports whether the node's type has the named method.
func (n *Node) HasMethod(name string) bool {
	_, ok := n.typ.Method(name)
	return ok
}

// Call invokes an attached method with n as its receiver.
func (n *Node) Call(method string, args ...any) (any, error) {
	m, ok := n.typ.Method(method)
	if !ok {
		return nil, fmt.Errorf("%w %q on %s", ErrUnknownMethod, method, n.typ.id)
	}
	return m(n, args...)
}

// Defaults returns the default argument values recorded for method on n or
// its nearest ancestor that declares them.
func (n *Node) Defaults(method string) (map[string]string, bool) {
	key := fmt.Sprintf("_%s_defaults", method)
	for x := n; x != nil; x = x.parent {
		x.mu.RLock()
		values, ok := x.defaults[key]
		x.mu.RUnlock()
		if ok {
			out := make(map[string]string, len(values))
			for k, v := range values {
				out[k] = v
			}
			return out, true
		}
	}
	return nil, false
}

// Signals returns the specs produced by the last Load.
func (n *Node) Signals() []signal.Spec {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]signal.Spec(nil), n.signals...)
}

// Signal looks up a spec by its expanded name.
func (n *Node) Signal(name string) (signal.Spec, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, spec := range n.signals {
		if spec.Name == name {
			return spec, true
		}
	}
	return signal.Spec{}, false
}

// Load applies a container document to n: its attributes, its signals, its
// method defaults and, recursively, its child containers. Loading again
// replaces what the previous load produced. A malformed descriptor aborts the
// load and leaves n and its descendants as they were.
func (n *Node) Load(c *config.Container) error {
	if c == nil {
		return fmt.Errorf("namespace: nil container for %s", n.typ.id)
	}

	saved := make(map[*Node]nodeState)
	n.capture(saved)
	if err := n.apply(c); err != nil {
		for node, state := range saved {
			node.restore(state)
		}
		return err
	}
	return nil
}

func (n *Node) apply(c *config.Container) error {
	n.mu.Lock()
	n.units.assign(c.Units)
	n.mdsPath.assign(c.MDSPath)
	n.mdsTree.assign(c.MDSTree)
	n.mu.Unlock()

	var specs []signal.Spec
	for _, d := range c.Signals {
		expanded, err := n.root.parser.Parse(n, d)
		if err != nil {
			n.root.log.Error(err, "descriptor rejected", "type", n.typ.id, "signal", d.Name)
			return err
		}
		specs = append(specs, expanded...)
	}

	defaults := make(map[string]map[string]string, len(c.Defaults))
	for _, record := range c.Defaults {
		key, values, err := signal.ParseDefaults(record.Method, record.Values)
		if err != nil {
			return err
		}
		defaults[key] = values
	}

	n.mu.Lock()
	n.signals = specs
	n.defaults = defaults
	n.mu.Unlock()

	for i := range c.Containers {
		cc := &c.Containers[i]
		child, err := n.Child(cc.Name)
		if err != nil {
			return err
		}
		if err := child.apply(cc); err != nil {
			return err
		}
	}

	n.root.log.Debug("loaded container", "type", n.typ.id, "signals", len(specs), "containers", len(c.Containers))
	return nil
}

// nodeState is what a load may change on one node.
type nodeState struct {
	units    attribute
	mdsPath  attribute
	mdsTree  attribute
	signals  []signal.Spec
	defaults map[string]map[string]string
	children map[string]*Node
}

// capture records the state of n and every existing descendant.
func (n *Node) capture(into map[*Node]nodeState) {
	n.mu.RLock()
	state := nodeState{
		units:    n.units,
		mdsPath:  n.mdsPath,
		mdsTree:  n.mdsTree,
		signals:  n.signals,
		defaults: n.defaults,
		children: make(map[string]*Node, len(n.children)),
	}
	for name, child := range n.children {
		state.children[name] = child
	}
	n.mu.RUnlock()

	into[n] = state
	for _, child := range state.children {
		child.capture(into)
	}
}

// restore reinstates a captured state. Children created since the capture
// are dropped.
func (n *Node) restore(state nodeState) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.units = state.units
	n.mdsPath = state.mdsPath
	n.mdsTree = state.mdsTree
	n.signals = state.signals
	n.defaults = state.defaults
	n.children = state.children
}

func (n *Node) String() string {
	return n.typ.id
}
