package animation

import (
	"errors"
	"fmt"

	"github.com/Faultbox/my3d/pkg/math"
)

// ErrClipNotFound is returned when selecting a clip the animator does not hold.
var ErrClipNotFound = errors.New("animation: clip not found")

// DefaultTicksPerSecond is used when a clip does not set its own rate.
const DefaultTicksPerSecond = 25

// Node is one joint of a hierarchy. Offset is applied after the node's
// animated transform.
type Node struct {
	Name     string    `yaml:"name"`
	Offset   math.Mat4 `yaml:"-"`
	Children []*Node   `yaml:"children"`

	id int
}

// NewNode creates a node with an identity offset.
func NewNode(name string, children ...*Node) *Node {
	return &Node{Name: name, Offset: math.Identity(), Children: children}
}

// Clip is a named set of channels keyed by node name.
type Clip struct {
	Name           string             `yaml:"name"`
	Duration       float64            `yaml:"duration"`
	TicksPerSecond float64            `yaml:"ticks_per_second"`
	Loop           bool               `yaml:"loop"`
	Channels       map[string]Channel `yaml:"channels"`
}

// Animator plays one clip at a time over a hierarchy and keeps one
// transform per node, indexed in depth-first order.
type Animator struct {
	root       *Node
	clips      map[string]*Clip
	current    *Clip
	tick       float64
	transforms []math.Mat4
	names      map[string]int
}

// NewAnimator creates an animator over root. Nodes are numbered depth-first.
func NewAnimator(root *Node, clips ...*Clip) *Animator {
	a := &Animator{
		root:  root,
		clips: make(map[string]*Clip),
		names: make(map[string]int),
	}
	a.number(root)
	a.transforms = make([]math.Mat4, len(a.names))
	for i := range a.transforms {
		a.transforms[i] = math.Identity()
	}
	for _, c := range clips {
		a.AddClip(c)
	}
	return a
}

func (a *Animator) number(n *Node) {
	if n == nil {
		return
	}
	if n.Offset == (math.Mat4{}) {
		n.Offset = math.Identity()
	}
	n.id = len(a.names)
	a.names[n.Name] = n.id
	for _, c := range n.Children {
		a.number(c)
	}
}

// AddClip registers a clip. The first clip added becomes current.
func (a *Animator) AddClip(c *Clip) {
	if c.TicksPerSecond <= 0 {
		c.TicksPerSecond = DefaultTicksPerSecond
	}
	a.clips[c.Name] = c
	if a.current == nil {
		a.current = c
	}
}

// SetClip selects the clip to play and rewinds it.
func (a *Animator) SetClip(name string) error {
	c, ok := a.clips[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrClipNotFound, name)
	}
	a.current = c
	a.tick = 0
	return nil
}

// Clip returns the current clip, or nil.
func (a *Animator) Clip() *Clip { return a.current }

// Tick returns the playback position in clip ticks.
func (a *Animator) Tick() float64 { return a.tick }

// Update recomputes every node transform and advances playback by dt
// seconds. Non-looping clips hold their last pose.
func (a *Animator) Update(dt float64) {
	if a.current == nil || a.root == nil {
		return
	}
	if a.tick > a.current.Duration {
		if !a.current.Loop || a.current.Duration <= 0 {
			a.tick = a.current.Duration
		} else {
			for a.tick > a.current.Duration {
				a.tick -= a.current.Duration
			}
		}
	}
	a.calculate(a.root, math.Identity())
	a.tick += dt * a.current.TicksPerSecond
}

func (a *Animator) calculate(n *Node, parent math.Mat4) {
	if ch, ok := a.current.Channels[n.Name]; ok {
		parent = parent.Mul(ch.Sample(a.tick))
	}
	a.transforms[n.id] = parent.Mul(n.Offset)
	for _, c := range n.Children {
		a.calculate(c, parent)
	}
}

// Transforms returns one transform per node in depth-first order.
func (a *Animator) Transforms() []math.Mat4 { return a.transforms }

// Transform returns the transform of the named node.
func (a *Animator) Transform(name string) (math.Mat4, bool) {
	i, ok := a.names[name]
	if !ok {
		return math.Identity(), false
	}
	return a.transforms[i], true
}

// Root returns the transform of the root node, identity if there is none.
func (a *Animator) Root() math.Mat4 {
	if a.root == nil {
		return math.Identity()
	}
	return a.transforms[a.root.id]
}
