// Package machine holds the table of canonical machine identities and
// normalizes user-supplied facility names against it.
package machine

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	fdperrors "github.com/ktritz/fdp/pkg/errors"
)

//go:embed machines.yaml
var defaultTable []byte

var (
	defaultOnce  sync.Once
	defaultValue *Table
)

// Identity is one canonical machine and the aliases that select it.
type Identity struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases" json:"aliases"`
}

// Table maps lowercase aliases to canonical identities.
type Table struct {
	identities []Identity
	byAlias    map[string]string
}

type tableFile struct {
	Machines []Identity `yaml:"machines"`
}

// Default returns the built-in identity table. It panics if the embedded data
// is invalid, which is a build defect.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := ParseTable(defaultTable)
		if err != nil {
			panic(fmt.Sprintf("machine: embedded table: %v", err))
		}
		defaultValue = t
	})
	return defaultValue
}

// ParseTable decodes a YAML identity table and checks that alias sets are
// disjoint when compared case-insensitively.
func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("machine: decode table: %w", err)
	}
	return NewTable(file.Machines...)
}

// NewTable builds a table from identities. The canonical name is always
// accepted, and listed first when the entry does not name it explicitly.
func NewTable(identities ...Identity) (*Table, error) {
	t := &Table{byAlias: make(map[string]string)}
	for _, id := range identities {
		name := strings.ToLower(strings.TrimSpace(id.Name))
		if name == "" {
			return nil, fmt.Errorf("machine: identity with empty name")
		}
		candidates := id.Aliases
		if !containsFold(candidates, name) {
			candidates = append([]string{name}, candidates...)
		}
		aliases := make([]string, 0, len(candidates))
		for _, alias := range candidates {
			key := strings.ToLower(strings.TrimSpace(alias))
			if key == "" {
				continue
			}
			if owner, taken := t.byAlias[key]; taken {
				if owner == name {
					continue
				}
				return nil, fmt.Errorf("machine: alias %q claimed by both %q and %q", key, owner, name)
			}
			t.byAlias[key] = name
			aliases = append(aliases, key)
		}
		t.identities = append(t.identities, Identity{Name: name, Aliases: aliases})
	}
	return t, nil
}

// Normalize returns the canonical identity selected by name.
func (t *Table) Normalize(name string) (string, error) {
	if canonical, ok := t.byAlias[strings.ToLower(strings.TrimSpace(name))]; ok {
		return canonical, nil
	}
	return "", fdperrors.NewInvalidIdentityError(name, t.Listing())
}

// Names returns the canonical identities in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.identities))
	for i, id := range t.identities {
		names[i] = id.Name
	}
	return names
}

// Identities returns a copy of the table entries.
func (t *Table) Identities() []Identity {
	out := make([]Identity, len(t.identities))
	for i, id := range t.identities {
		out[i] = Identity{Name: id.Name, Aliases: append([]string(nil), id.Aliases...)}
	}
	return out
}

// Listing maps each canonical identity to its accepted aliases.
func (t *Table) Listing() map[string][]string {
	out := make(map[string][]string, len(t.identities))
	for _, id := range t.identities {
		out[id.Name] = append([]string(nil), id.Aliases...)
	}
	return out
}

// Aliases returns every accepted alias, sorted.
func (t *Table) Aliases() []string {
	out := make([]string, 0, len(t.byAlias))
	for alias := range t.byAlias {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}
