// Package cache implements the instance cache of spec §4.E: a per-interface
// memo of constructed objects, keyed by structural Node equality rather
// than factory identity, so that two independently authored but identical
// subtrees (and, transitively, any two aliases of one anchored subtree)
// share a single constructed instance.
package cache

import (
	"sync"

	"github.com/bittoy/objectgraph/node"
)

// InstanceCache is the contract the resolver package depends on.
type InstanceCache interface {
	// Get scans the interface's bucket and returns the stored instance
	// whose associated node is structurally equal to n.
	Get(iface string, n node.Node) (any, bool)
	// Put appends (iface, n, instance). Duplicates are tolerated; the
	// most recently put entry wins ties on Get.
	Put(iface string, n node.Node, instance any)
}

type bucket struct {
	nodes     []node.Node
	instances []any
}

// MemCache is the only InstanceCache implementation: an in-memory,
// unbounded, un-evicted map of slices. Its lifetime is the root factory
// that owns it (spec §4.E, §5); there is no persistence and no eviction.
type MemCache struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
}

func New() *MemCache {
	return &MemCache{buckets: make(map[string]*bucket)}
}

func (c *MemCache) Get(iface string, n node.Node) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.buckets[iface]
	if !ok {
		return nil, false
	}
	// Last-write-wins on Get: scan newest-to-oldest.
	for i := len(b.nodes) - 1; i >= 0; i-- {
		if node.Equal(b.nodes[i], n) {
			return b.instances[i], true
		}
	}
	return nil, false
}

func (c *MemCache) Put(iface string, n node.Node, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buckets[iface]
	if !ok {
		b = &bucket{}
		c.buckets[iface] = b
	}
	b.nodes = append(b.nodes, n)
	b.instances = append(b.instances, instance)
}
