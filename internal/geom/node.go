package geom

import "github.com/go-gl/mathgl/mgl32"

// Node groups primitives and child nodes under one position and rotation.
type Node struct {
	Name       string
	Position   Vec3
	Rotation   Vec3
	Primitives []Primitive
	Children   []*Node
}

// NewNode returns an empty node at the origin.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Add appends primitives and returns n for chaining.
func (n *Node) Add(ps ...Primitive) *Node {
	n.Primitives = append(n.Primitives, ps...)
	return n
}

// AddChild appends child nodes and returns n. Nil children are skipped.
func (n *Node) AddChild(cs ...*Node) *Node {
	for _, c := range cs {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Count returns the number of drawable primitives under n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := len(n.Primitives)
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Local returns the node's transform relative to its parent.
func (n *Node) Local() mgl32.Mat4 {
	return Transform(n.Position, n.Rotation, Vec3{1, 1, 1})
}

// Walk visits every primitive under n with its world matrix (parent * node * primitive).
func (n *Node) Walk(parent mgl32.Mat4, fn func(p Primitive, world mgl32.Mat4)) {
	if n == nil {
		return
	}
	m := parent.Mul4(n.Local())
	for _, p := range n.Primitives {
		fn(p, m.Mul4(p.Local()))
	}
	for _, c := range n.Children {
		c.Walk(m, fn)
	}
}

// Child returns the direct child called name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find returns the first primitive called name anywhere under n, depth first.
func (n *Node) Find(name string) (Primitive, bool) {
	if n == nil {
		return Primitive{}, false
	}
	for _, p := range n.Primitives {
		if p.Name == name {
			return p, true
		}
	}
	for _, c := range n.Children {
		if p, ok := c.Find(name); ok {
			return p, true
		}
	}
	return Primitive{}, false
}

// All returns every primitive under n whose name passes match, depth first.
func (n *Node) All(match func(name string) bool) []Primitive {
	var out []Primitive
	n.Walk(mgl32.Ident4(), func(p Primitive, _ mgl32.Mat4) {
		if match(p.Name) {
			out = append(out, p)
		}
	})
	return out
}
