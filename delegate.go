package canopy

// Rebuilder regenerates a node's children from Build whenever it is dirty.
// A new Rebuilder is dirty, so the first draw always builds.
type Rebuilder struct {
	// Build returns the node's new children. It may read any state,
	// including the node's pointer hover flag and color.
	Build func(n *Node) []*Node

	dirty  bool
	builds int
}

// NewDelegate creates a container at (x, y) whose children come from build.
func NewDelegate(x, y float64, build func(n *Node) []*Node) *Node {
	n := NewNode(x, y)
	n.Rebuild = &Rebuilder{Build: build, dirty: true}
	return n
}

// NewInteractive creates a delegate that listens for pointer events in reg
// with the given collider. Hover changes rebuild the children on the next
// draw so build can branch on Pointer.Hovering().
func NewInteractive(reg *PointerRegistry, x, y float64, collider Collider, build func(n *Node) []*Node) *Node {
	n := NewDelegate(x, y, build)
	n.Collider = collider
	n.Listen(reg)
	return n
}

// MarkDirty requests a rebuild on the next draw. No-op without a Rebuilder.
func (n *Node) MarkDirty() {
	if n.Rebuild != nil {
		n.Rebuild.dirty = true
	}
}

// Dirty reports whether the node will rebuild on its next draw.
func (n *Node) Dirty() bool {
	return n.Rebuild != nil && n.Rebuild.dirty
}

// Builds returns how many times the children were rebuilt.
func (r *Rebuilder) Builds() int {
	return r.builds
}

// rebuild destroys and drops every child, then attaches the built ones.
// The whole child list is replaced; nothing is diffed.
func (n *Node) rebuild() {
	r := n.Rebuild
	for i, c := range n.children {
		c.Destroy()
		if c.Parent == n {
			c.Parent = nil
		}
		n.children[i] = nil
	}
	n.children = n.children[:0]
	if r.Build != nil {
		for _, c := range r.Build(n) {
			if c != nil {
				n.AddChild(c)
			}
		}
	}
	r.dirty = false
	r.builds++
}
