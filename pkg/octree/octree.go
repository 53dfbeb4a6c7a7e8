// Package octree implements an adaptive octree over bounding boxes.
//
// Nodes live in a single arena slice and refer to their children by index.
// A leaf splits into eight equal octants the first time its object list
// grows past MaxObjects, unless it is already at MaxDepth. Objects that do
// not fit entirely inside one child stay at the deepest node that contains
// them. The tree never removes objects or nodes.
//
// An Octree is safe for concurrent Query and Visit calls once built.
// Insert must not run concurrently with anything else.
package octree

import (
	"errors"
	"fmt"

	"github.com/Faultbox/my3d/pkg/bounds"
)

// Defaults applied when Config fields are zero.
const (
	DefaultMaxDepth   = 5
	DefaultMaxObjects = 4
)

// ErrInvalidRegion is returned by New when the root region has a NaN bound
// or a Min greater than Max.
var ErrInvalidRegion = errors.New("octree: invalid region")

// Config holds the split policy.
type Config struct {
	MaxDepth   int `yaml:"max_depth"`
	MaxObjects int `yaml:"max_objects"`
}

// DefaultConfig returns the default split policy.
func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth, MaxObjects: DefaultMaxObjects}
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxObjects <= 0 {
		c.MaxObjects = DefaultMaxObjects
	}
	return c
}

type nodeIndex int32

const noNode nodeIndex = -1

type node struct {
	region   bounds.Box
	objects  []bounds.Box
	children [8]nodeIndex
	depth    int
	split    bool
}

// Octree is an arena-backed octree. The root is always nodes[0].
type Octree struct {
	cfg   Config
	nodes []node
	count int
}

// New creates an empty tree covering region.
func New(region bounds.Box, cfg Config) (*Octree, error) {
	if !region.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRegion, region)
	}
	t := &Octree{cfg: cfg.withDefaults()}
	t.nodes = append(t.nodes, newNode(region, 0))
	return t, nil
}

// Build creates a tree covering region and inserts every box.
func Build(region bounds.Box, cfg Config, boxes []bounds.Box) (*Octree, error) {
	t, err := New(region, cfg)
	if err != nil {
		return nil, err
	}
	for _, b := range boxes {
		t.Insert(b)
	}
	return t, nil
}

func newNode(region bounds.Box, depth int) node {
	n := node{region: region, depth: depth}
	for i := range n.children {
		n.children[i] = noNode
	}
	return n
}

// Config returns the effective split policy.
func (t *Octree) Config() Config { return t.cfg }

// Region returns the root region.
func (t *Octree) Region() bounds.Box { return t.nodes[0].region }

// Len returns the number of stored objects.
func (t *Octree) Len() int { return t.count }

// NodeCount returns the number of allocated nodes, root included.
func (t *Octree) NodeCount() int { return len(t.nodes) }

// Insert adds b to the tree. Boxes that do not intersect the root region
// are ignored. It reports whether b was stored.
func (t *Octree) Insert(b bounds.Box) bool {
	if !t.nodes[0].region.Intersects(b) {
		return false
	}
	t.insert(0, b)
	t.count++
	return true
}

func (t *Octree) insert(idx nodeIndex, b bounds.Box) {
	for {
		n := &t.nodes[idx]
		if !n.split {
			n.objects = append(n.objects, b)
			if len(n.objects) > t.cfg.MaxObjects && n.depth < t.cfg.MaxDepth {
				t.subdivide(idx)
			}
			return
		}
		child := t.childFor(idx, b)
		if child == noNode {
			t.nodes[idx].objects = append(t.nodes[idx].objects, b)
			return
		}
		idx = child
	}
}

// childFor returns the first child of an internal node that fully
// contains b, allocating it on demand, or noNode if b straddles.
func (t *Octree) childFor(idx nodeIndex, b bounds.Box) nodeIndex {
	region := t.nodes[idx].region
	for i := 0; i < 8; i++ {
		octant := region.Octant(i)
		if !octant.Contains(b) {
			continue
		}
		if c := t.nodes[idx].children[i]; c != noNode {
			return c
		}
		c := nodeIndex(len(t.nodes))
		depth := t.nodes[idx].depth + 1
		t.nodes = append(t.nodes, newNode(octant, depth))
		// The append may have moved the arena.
		t.nodes[idx].children[i] = c
		return c
	}
	return noNode
}

// subdivide turns a leaf into an internal node and pushes down every
// object that fits entirely inside one octant.
func (t *Octree) subdivide(idx nodeIndex) {
	objects := t.nodes[idx].objects
	t.nodes[idx].objects = nil
	t.nodes[idx].split = true

	var kept []bounds.Box
	for _, b := range objects {
		child := t.childFor(idx, b)
		if child == noNode {
			kept = append(kept, b)
			continue
		}
		t.insert(child, b)
	}
	t.nodes[idx].objects = kept
}

// Query returns every stored box intersecting r, depth-first: a node's own
// objects in insertion order, then its children 0..7.
func (t *Octree) Query(r bounds.Box) []bounds.Box {
	var out []bounds.Box
	t.Visit(r, func(b bounds.Box) bool {
		out = append(out, b)
		return true
	})
	return out
}

// Visit calls fn for every stored box intersecting r, in Query order,
// until fn returns false.
func (t *Octree) Visit(r bounds.Box, fn func(bounds.Box) bool) {
	t.visit(0, r, fn)
}

func (t *Octree) visit(idx nodeIndex, r bounds.Box, fn func(bounds.Box) bool) bool {
	n := &t.nodes[idx]
	if !n.region.Intersects(r) {
		return true
	}
	for _, b := range n.objects {
		if b.Intersects(r) && !fn(b) {
			return false
		}
	}
	for _, c := range n.children {
		if c == noNode {
			continue
		}
		if !t.visit(c, r, fn) {
			return false
		}
	}
	return true
}

// Walk calls fn for every node in depth-first order. Used by debug drawing.
func (t *Octree) Walk(fn func(region bounds.Box, depth int, objects []bounds.Box)) {
	t.walk(0, fn)
}

func (t *Octree) walk(idx nodeIndex, fn func(bounds.Box, int, []bounds.Box)) {
	n := &t.nodes[idx]
	fn(n.region, n.depth, n.objects)
	for _, c := range n.children {
		if c != noNode {
			t.walk(c, fn)
		}
	}
}
