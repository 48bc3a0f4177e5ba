package canopy

// EntityStore is the interface for optional ECS integration. The registry
// emits one InteractionEvent per hover change and per click.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	X, Y     float64
}

// PointerContext is passed to PointerListener callbacks.
type PointerContext struct {
	Node *Node
	X, Y float64
}

// Listener receives pointer events from a PointerRegistry. Collider is in
// surface coordinates.
type Listener interface {
	Collider() Collider
	Hover(x, y float64)
	NoHover(x, y float64)
	Click(x, y float64)
}

// --- Registry ---

type listenerEntry struct {
	id uint32
	l  Listener
}

// PointerRegistry routes pointer moves and clicks to registered listeners.
// Dispatch is a flat scan in registration order.
type PointerRegistry struct {
	entries  []listenerEntry
	snapshot []listenerEntry
	depth    int
	nextID   uint32
	hovered  bool
	store    EntityStore
}

// ListenerHandle allows removing a registered listener.
type ListenerHandle struct {
	id  uint32
	reg *PointerRegistry
}

// Remove unregisters the listener. Safe to call more than once.
func (h ListenerHandle) Remove() {
	if h.reg != nil {
		h.reg.Remove(h)
	}
}

// NewPointerRegistry returns an empty registry.
func NewPointerRegistry() *PointerRegistry {
	return &PointerRegistry{}
}

// Add registers l and returns a handle for removing it.
func (r *PointerRegistry) Add(l Listener) ListenerHandle {
	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, listenerEntry{id: id, l: l})
	return ListenerHandle{id: id, reg: r}
}

// Remove unregisters the listener behind h. No-op for unknown handles.
func (r *PointerRegistry) Remove(h ListenerHandle) {
	for i := range r.entries {
		if r.entries[i].id == h.id {
			copy(r.entries[i:], r.entries[i+1:])
			r.entries[len(r.entries)-1] = listenerEntry{}
			r.entries = r.entries[:len(r.entries)-1]
			return
		}
	}
}

// Len returns the number of registered listeners.
func (r *PointerRegistry) Len() int {
	return len(r.entries)
}

// SetEntityStore sets the optional ECS bridge.
func (r *PointerRegistry) SetEntityStore(store EntityStore) {
	r.store = store
}

// Move hit-tests a point at (x, y) against every listener and calls Hover
// on overlap, NoHover otherwise.
func (r *PointerRegistry) Move(x, y float64) {
	p := PointCollider(x, y)
	r.hovered = false
	entries, done := r.take()
	defer done()
	for _, e := range entries {
		if p.Overlaps(e.l.Collider()) {
			r.hovered = true
			e.l.Hover(x, y)
		} else {
			e.l.NoHover(x, y)
		}
	}
}

// Click calls Click on every listener whose collider contains (x, y).
func (r *PointerRegistry) Click(x, y float64) {
	p := PointCollider(x, y)
	entries, done := r.take()
	defer done()
	for _, e := range entries {
		if p.Overlaps(e.l.Collider()) {
			e.l.Click(x, y)
		}
	}
}

// Cursor returns CursorPointer when the last move hovered any listener.
func (r *PointerRegistry) Cursor() CursorShape {
	if r.hovered {
		return CursorPointer
	}
	return CursorDefault
}

// take copies the entries so callbacks may add or remove listeners. The
// outermost dispatch reuses the snapshot buffer; a Move or Click issued
// from inside a callback gets its own copy. Call done when the loop ends.
func (r *PointerRegistry) take() (entries []listenerEntry, done func()) {
	r.depth++
	done = func() { r.depth-- }
	if r.depth > 1 {
		return append([]listenerEntry(nil), r.entries...), done
	}
	r.snapshot = append(r.snapshot[:0], r.entries...)
	return r.snapshot, done
}

func (r *PointerRegistry) emit(typ EventType, n *Node, x, y float64) {
	if r.store == nil {
		return
	}
	r.store.EmitEvent(InteractionEvent{Type: typ, EntityID: n.EntityID, X: x, Y: y})
}

// --- Node component ---

// PointerListener makes a node respond to pointer events using its
// Collider. Hover changes are noted so a Rebuilder on the same node
// rebuilds on the next draw.
type PointerListener struct {
	OnHover   func(PointerContext)
	OnNoHover func(PointerContext)
	OnClick   func(PointerContext)

	node       *Node
	reg        *PointerRegistry
	handle     ListenerHandle
	registered bool
	hovering   bool
	drawnHover bool
}

// Listen attaches a PointerListener to n and registers it with reg. The
// listener is unregistered by Destroy and registered again on attach.
func (n *Node) Listen(reg *PointerRegistry) *PointerListener {
	l := &PointerListener{node: n, reg: reg}
	n.Pointer = l
	l.register()
	return l
}

// Hovering reports whether the last pointer move was over the node.
func (l *PointerListener) Hovering() bool {
	return l.hovering
}

// Registered reports whether the listener is in its registry.
func (l *PointerListener) Registered() bool {
	return l.registered
}

func (l *PointerListener) Collider() Collider {
	return l.node.Collider
}

func (l *PointerListener) Hover(x, y float64) {
	if !l.hovering {
		l.hovering = true
		l.reg.emit(EventPointerEnter, l.node, x, y)
	}
	if l.OnHover != nil {
		l.OnHover(PointerContext{Node: l.node, X: x, Y: y})
	}
}

func (l *PointerListener) NoHover(x, y float64) {
	if l.hovering {
		l.hovering = false
		l.reg.emit(EventPointerLeave, l.node, x, y)
	}
	if l.OnNoHover != nil {
		l.OnNoHover(PointerContext{Node: l.node, X: x, Y: y})
	}
}

func (l *PointerListener) Click(x, y float64) {
	l.reg.emit(EventClick, l.node, x, y)
	if l.OnClick != nil {
		l.OnClick(PointerContext{Node: l.node, X: x, Y: y})
	}
}

func (l *PointerListener) register() {
	if l.registered || l.reg == nil {
		return
	}
	l.handle = l.reg.Add(l)
	l.registered = true
}

func (l *PointerListener) unregister() {
	if !l.registered {
		return
	}
	l.handle.Remove()
	l.registered = false
	l.hovering = false
}

// hoverChanged reports whether the hover state differs from the one seen at
// the previous draw.
func (l *PointerListener) hoverChanged() bool {
	changed := l.hovering != l.drawnHover
	l.drawnHover = l.hovering
	return changed
}
