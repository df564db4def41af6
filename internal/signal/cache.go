package signal

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ktritz/fdp/internal/metrics"
)

// PathEntry is a memoized storage path resolution.
type PathEntry struct {
	Path  string
	DimOf *int
}

type pathKey struct {
	typeID string
	desc   Descriptor
}

func (k pathKey) String() string {
	return fmt.Sprintf("%s\x00%#v", k.typeID, k.desc)
}

// PathCache memoizes storage path resolution per (owner type, descriptor).
// Entries are written once and never invalidated. Concurrent misses on the
// same key compute the entry once.
type PathCache struct {
	mu      sync.RWMutex
	entries map[pathKey]PathEntry
	group   singleflight.Group
	join    func(base, node string) string
	metrics *metrics.Metrics
}

// CacheOption configures a PathCache.
type CacheOption func(*PathCache)

// WithJoiner replaces the function that joins a base path and a node name.
func WithJoiner(join func(base, node string) string) CacheOption {
	return func(c *PathCache) {
		if join != nil {
			c.join = join
		}
	}
}

// WithCacheMetrics records hits and misses.
func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *PathCache) {
		c.metrics = m
	}
}

// NewPathCache returns an empty cache.
func NewPathCache(opts ...CacheOption) *PathCache {
	c := &PathCache{
		entries: make(map[pathKey]PathEntry),
		join:    JoinPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultPathCache is the process-wide cache used by the default parser.
var DefaultPathCache = NewPathCache()

// JoinPath joins MDSplus node path components with ".".
func JoinPath(base, node string) string {
	return base + "." + node
}

// Resolve returns the storage path and secondary-axis index for d as owned
// by a node of owner's type, computing it on first use.
func (c *PathCache) Resolve(owner Owner, d Descriptor) PathEntry {
	key := pathKey{typeID: owner.TypeID(), desc: d}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.metrics.RecordPathCache(true)
		return entry.clone()
	}

	value, _, _ := c.group.Do(key.String(), func() (any, error) {
		c.mu.RLock()
		existing, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		computed := c.compute(owner, d)

		c.mu.Lock()
		if existing, ok := c.entries[key]; ok {
			computed = existing
		} else {
			c.entries[key] = computed
		}
		c.mu.Unlock()
		return computed, nil
	})
	c.metrics.RecordPathCache(false)
	return value.(PathEntry).clone()
}

// Len returns the number of cached entries.
func (c *PathCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *PathCache) compute(owner Owner, d Descriptor) PathEntry {
	var entry PathEntry
	if dim, err := strconv.Atoi(strings.TrimSpace(d.DimOf)); err == nil {
		entry.DimOf = &dim
	}

	base, ok := basePath(owner, d)
	switch {
	case ok && d.MDSNode != "":
		entry.Path = c.join(base, d.MDSNode)
	case ok:
		entry.Path = base
	default:
		entry.Path = d.MDSNode
	}
	return entry
}

func (e PathEntry) clone() PathEntry {
	if e.DimOf != nil {
		dim := *e.DimOf
		e.DimOf = &dim
	}
	return e
}

// basePath is the descriptor's explicit mdspath, else the owner's.
func basePath(owner Owner, d Descriptor) (string, bool) {
	if d.MDSPath != "" {
		return d.MDSPath, true
	}
	if owner == nil {
		return "", false
	}
	path, ok := owner.MDSPath()
	return path, ok && path != ""
}
