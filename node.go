package canopy

// nodeIDCounter is a plain counter (no atomic; the scene graph is
// single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// gfxState tracks lazy graphics initialization. It moves from gfxPending to
// gfxReady exactly once, on the first Draw.
type gfxState uint8

const (
	gfxPending gfxState = iota
	gfxReady
)

// Node is the fundamental scene graph element. A single flat struct is used
// for all node types; Type selects the drawing behavior and the optional
// component pointers add animation, rebuild, and pointer behavior.
type Node struct {
	// Identity
	ID       uint32
	Name     string
	Type     NodeType
	EntityID uint32

	// Hierarchy
	Parent   *Node
	children []*Node
	game     *Game // set only on a Game's scene and loading roots

	// Local position, relative to the parent.
	X, Y float64

	Collider Collider

	// Color is used by clear, cover and text nodes and by ColorLerp.
	Color Color

	// Type payloads
	Label *Label     // NodeTypeText
	Actor *ActorView // NodeTypeActor

	// Components
	Rebuild *Rebuilder
	Pointer *PointerListener
	Motion  *PositionLerp
	Tint    *ColorLerp

	UserData any

	// OnAttach fires each time the node is attached to a parent.
	OnAttach func(n *Node)
	// OnDestroy fires from Destroy after built-in resources are released.
	OnDestroy func(n *Node)

	gfx   gfxState
	paint *Paint // NodeTypeCover
}

// NewNode creates a container at (x, y) and attaches children in order.
func NewNode(x, y float64, children ...*Node) *Node {
	n := &Node{ID: nextNodeID(), Type: NodeTypeContainer, X: x, Y: y, Color: ColorWhite}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// NewContainer creates an empty named container at the origin. Scene roots
// are usually containers.
func NewContainer(name string) *Node {
	n := NewNode(0, 0)
	n.Name = name
	return n
}

// --- Tree manipulation ---

// AddChild sets child's parent to n, fires its attach hook and appends it.
// A previous parent keeps its own reference; detaching from it is the
// caller's job.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("canopy: adding child would create a cycle")
	}
	child.Parent = n
	child.attach()
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// attach runs built-in attach behavior and then OnAttach.
func (n *Node) attach() {
	if n.Pointer != nil {
		n.Pointer.register()
	}
	if n.OnAttach != nil {
		n.OnAttach(n)
	}
}

// RemoveChild removes child by identity. No-op if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			if child.Parent == n {
				child.Parent = nil
			}
			return
		}
	}
}

// RemoveChildren removes every child for which remove returns true.
// Removed children are not destroyed.
func (n *Node) RemoveChildren(remove func(*Node) bool) {
	kept := n.children[:0]
	for _, c := range n.children {
		if remove(c) {
			if c.Parent == n {
				c.Parent = nil
			}
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(n.children); i++ {
		n.children[i] = nil
	}
	n.children = kept
}

// Child returns the first child for which match returns true, or nil.
func (n *Node) Child(match func(*Node) bool) *Node {
	for _, c := range n.children {
		if match(c) {
			return c
		}
	}
	return nil
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Game returns the Game whose scene this node is attached to, or nil.
func (n *Node) Game() *Game {
	for p := n; p != nil; p = p.Parent {
		if p.game != nil {
			return p.game
		}
	}
	return nil
}

// GfxInitialized reports whether the node's graphics state has been bound.
func (n *Node) GfxInitialized() bool {
	return n.gfx == gfxReady
}

// --- Drawing ---

// Draw draws the node and its subtree. (offX, offY) is the accumulated
// offset of the parent; children receive (offX+X, offY+Y).
//
// The first call binds graphics resources before anything else is drawn.
func (n *Node) Draw(g Graphics, offX, offY float64) {
	if n.gfx == gfxPending {
		n.initGfx(g)
		n.gfx = gfxReady
	}

	if n.Pointer != nil {
		if n.Pointer.hoverChanged() && n.Rebuild != nil {
			n.Rebuild.dirty = true
		}
	}
	if n.Rebuild != nil && n.Rebuild.dirty {
		n.rebuild()
	}

	switch n.Type {
	case NodeTypeClear:
		g.Clear(n.Color)
	case NodeTypeCover:
		// Children are drawn both under and over the fill.
		n.drawChildren(g, offX, offY)
		w, h := g.Size()
		g.SetPaintColor(n.paint, n.Color)
		g.DrawRect(0, 0, float64(w), float64(h), n.paint)
	case NodeTypeText:
		n.Label.draw(n, g, offX, offY)
	case NodeTypeActor:
		n.Actor.draw(n, g, offX, offY)
	}

	n.drawChildren(g, offX, offY)

	if n.Motion != nil {
		n.Motion.step(n)
	}
	if n.Tint != nil {
		n.Tint.step(n)
	}
}

func (n *Node) drawChildren(g Graphics, offX, offY float64) {
	x, y := offX+n.X, offY+n.Y
	for _, c := range n.children {
		c.Draw(g, x, y)
	}
}

// initGfx binds the per-type graphics state.
func (n *Node) initGfx(g Graphics) {
	switch n.Type {
	case NodeTypeCover:
		n.paint = g.MakePaint()
	case NodeTypeText:
		n.Label.init(n, g)
	case NodeTypeActor:
		n.Actor.init(n)
	}
}

// --- Spatial queries ---

// Overlaps reports whether n's collider overlaps other's.
func (n *Node) Overlaps(other *Node) bool {
	return n.Collider.Overlaps(other.Collider)
}

// IsInside reports whether n's collider lies strictly inside other's.
func (n *Node) IsInside(other *Node) bool {
	return n.Collider.IsInside(other.Collider)
}

// Contains reports whether other lies strictly inside n.
func (n *Node) Contains(other *Node) bool {
	return other.IsInside(n)
}

// FindOverlaps returns n and each direct child that overlaps other, in that
// order. Grandchildren are not visited.
func (n *Node) FindOverlaps(other *Node) []*Node {
	var found []*Node
	if n.Overlaps(other) {
		found = append(found, n)
	}
	for _, c := range n.children {
		if c.Overlaps(other) {
			found = append(found, c)
		}
	}
	return found
}

// OutsideViewport reports whether the node's local position lies outside
// the Game surface. Only meaningful for nodes drawn at offset (0, 0); a
// detached node is never outside.
func (n *Node) OutsideViewport() bool {
	g := n.Game()
	if g == nil {
		return false
	}
	w, h := g.Width(), g.Height()
	return n.X < 0 || n.Y < 0 || n.X > float64(w) || n.Y > float64(h)
}

// --- Destruction ---

// Destroy releases resources the node bound for itself and its subtree:
// actor instances and pointer registrations. It does not detach the node.
func (n *Node) Destroy() {
	for _, c := range n.children {
		c.Destroy()
	}
	if n.Actor != nil {
		n.Actor.release()
	}
	if n.Pointer != nil {
		n.Pointer.unregister()
	}
	if n.OnDestroy != nil {
		n.OnDestroy(n)
	}
}

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}
