package canopy

// NewClearColor creates a node that clears the whole surface to c before
// drawing its children. Make it the first child of a scene to use it as the
// background; anything drawn before it is wiped.
func NewClearColor(c Color) *Node {
	n := NewNode(0, 0)
	n.Type = NodeTypeClear
	n.Color = c
	return n
}

// NewColorCover creates a node that fills the whole surface with c. Its
// children are drawn once under the fill and once over it.
//
// TODO: the under-fill pass is invisible for opaque colors; drop it once no
// scene relies on translucent covers showing children twice.
func NewColorCover(c Color) *Node {
	n := NewNode(0, 0)
	n.Type = NodeTypeCover
	n.Color = c
	return n
}
