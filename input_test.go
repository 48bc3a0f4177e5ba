package canopy

import "testing"

type mockStore struct {
	events []InteractionEvent
}

func (m *mockStore) EmitEvent(e InteractionEvent) {
	m.events = append(m.events, e)
}

func newButton(reg *PointerRegistry) (*Node, *[]string) {
	var log []string
	n := NewNode(10, 10)
	n.Collider = RectCollider(10, 10, 10, 10)
	l := n.Listen(reg)
	l.OnHover = func(PointerContext) { log = append(log, "hover") }
	l.OnNoHover = func(PointerContext) { log = append(log, "nohover") }
	l.OnClick = func(ctx PointerContext) { log = append(log, "click") }
	return n, &log
}

func TestPointerDispatch(t *testing.T) {
	tests := []struct {
		name  string
		moveX float64
		moveY float64
		want  string
	}{
		{"inside", 15, 15, "hover"},
		{"outside", 25, 25, "nohover"},
		{"edge", 20, 20, "hover"},
		{"corner", 10, 10, "hover"},
		{"just outside", 20.01, 15, "nohover"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewPointerRegistry()
			_, log := newButton(reg)
			reg.Move(tt.moveX, tt.moveY)
			if len(*log) != 1 || (*log)[0] != tt.want {
				t.Errorf("log = %v, want [%s]", *log, tt.want)
			}
		})
	}
}

func TestPointerClick(t *testing.T) {
	reg := NewPointerRegistry()
	_, log := newButton(reg)

	reg.Click(15, 15)
	reg.Click(25, 25)
	if len(*log) != 1 || (*log)[0] != "click" {
		t.Errorf("log = %v, want [click]", *log)
	}
}

func TestPointerHoverState(t *testing.T) {
	reg := NewPointerRegistry()
	n, _ := newButton(reg)

	if n.Pointer.Hovering() {
		t.Fatal("hovering before any move")
	}
	reg.Move(15, 15)
	if !n.Pointer.Hovering() {
		t.Error("expected hovering after move inside")
	}
	reg.Move(50, 50)
	if n.Pointer.Hovering() {
		t.Error("expected not hovering after move outside")
	}
}

func TestPointerRegistryRemove(t *testing.T) {
	reg := NewPointerRegistry()
	n, log := newButton(reg)
	_, log2 := newButton(reg)

	if reg.Len() != 2 {
		t.Fatalf("Len = %d, want 2", reg.Len())
	}
	n.Destroy()
	if reg.Len() != 1 {
		t.Fatalf("Len after Destroy = %d, want 1", reg.Len())
	}
	reg.Click(15, 15)
	if len(*log) != 0 {
		t.Errorf("destroyed listener received %v", *log)
	}
	if len(*log2) != 1 {
		t.Errorf("remaining listener log = %v, want one click", *log2)
	}

	// Double destroy is harmless.
	n.Destroy()
	if reg.Len() != 1 {
		t.Errorf("Len after second Destroy = %d, want 1", reg.Len())
	}
}

func TestPointerReregisterOnAttach(t *testing.T) {
	reg := NewPointerRegistry()
	n, _ := newButton(reg)
	n.Destroy()
	if n.Pointer.Registered() {
		t.Fatal("still registered after Destroy")
	}
	NewNode(0, 0, n)
	if !n.Pointer.Registered() || reg.Len() != 1 {
		t.Errorf("registered = %v, Len = %d after attach", n.Pointer.Registered(), reg.Len())
	}
}

// rectListener is a bare Listener, not backed by a node.
type rectListener struct {
	c      Collider
	clicks int
}

func (l *rectListener) Collider() Collider  { return l.c }
func (l *rectListener) Hover(x, y float64)   {}
func (l *rectListener) NoHover(x, y float64) {}
func (l *rectListener) Click(x, y float64)   { l.clicks++ }

func TestPointerHandleRemoveIdempotent(t *testing.T) {
	reg := NewPointerRegistry()
	a := &rectListener{c: RectCollider(0, 0, 10, 10)}
	b := &rectListener{c: RectCollider(0, 0, 10, 10)}
	ha := reg.Add(a)
	reg.Add(b)

	ha.Remove()
	ha.Remove()
	ListenerHandle{}.Remove()

	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
	reg.Click(5, 5)
	if a.clicks != 0 || b.clicks != 1 {
		t.Errorf("clicks a=%d b=%d, want 0 and 1", a.clicks, b.clicks)
	}
}

func TestPointerCursor(t *testing.T) {
	reg := NewPointerRegistry()
	// Registration order must not matter: the hovered listener comes first
	// and a non-hovered one follows.
	reg.Add(&rectListener{c: RectCollider(0, 0, 10, 10)})
	reg.Add(&rectListener{c: RectCollider(100, 100, 10, 10)})

	if reg.Cursor() != CursorDefault {
		t.Error("cursor before any move should be default")
	}
	reg.Move(5, 5)
	if reg.Cursor() != CursorPointer {
		t.Error("cursor over a listener should be pointer")
	}
	reg.Move(50, 50)
	if reg.Cursor() != CursorDefault {
		t.Error("cursor away from listeners should be default")
	}
}

func TestPointerCallbackMutatesRegistry(t *testing.T) {
	reg := NewPointerRegistry()
	var second *rectListener
	n := NewNode(0, 0)
	n.Collider = RectCollider(0, 0, 10, 10)
	l := n.Listen(reg)
	l.OnClick = func(ctx PointerContext) {
		ctx.Node.Destroy()
		second = &rectListener{c: RectCollider(0, 0, 10, 10)}
		reg.Add(second)
	}

	reg.Click(5, 5)
	if second == nil || second.clicks != 0 {
		t.Fatal("listener added during dispatch must not see the same click")
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
	reg.Click(5, 5)
	if second.clicks != 1 {
		t.Errorf("second clicks = %d, want 1", second.clicks)
	}
}

func TestPointerNestedDispatch(t *testing.T) {
	reg := NewPointerRegistry()
	n := NewNode(0, 0)
	n.Collider = RectCollider(0, 0, 10, 10)
	l := n.Listen(reg)
	a := &rectListener{c: RectCollider(0, 0, 10, 10)}
	b := &rectListener{c: RectCollider(0, 0, 10, 10)}
	ha := reg.Add(a)
	reg.Add(b)

	nested := false
	l.OnClick = func(PointerContext) {
		if nested {
			return
		}
		nested = true
		ha.Remove()
		reg.Move(500, 500)
		reg.Click(500, 500)
	}

	reg.Click(5, 5)
	if a.clicks != 1 || b.clicks != 1 {
		t.Errorf("clicks a=%d b=%d, want 1 each from the outer dispatch", a.clicks, b.clicks)
	}
	reg.Click(5, 5)
	if a.clicks != 1 || b.clicks != 2 {
		t.Errorf("after removal clicks a=%d b=%d, want 1 and 2", a.clicks, b.clicks)
	}
}

func TestPointerEntityStore(t *testing.T) {
	reg := NewPointerRegistry()
	store := &mockStore{}
	reg.SetEntityStore(store)
	n, _ := newButton(reg)
	n.EntityID = 7

	reg.Move(15, 15)
	reg.Move(16, 16) // still inside, no new event
	reg.Click(16, 16)
	reg.Move(50, 50)

	want := []EventType{EventPointerEnter, EventClick, EventPointerLeave}
	if len(store.events) != len(want) {
		t.Fatalf("events = %+v, want %d", store.events, len(want))
	}
	for i, e := range store.events {
		if e.Type != want[i] || e.EntityID != 7 {
			t.Errorf("event %d = %+v, want type %d entity 7", i, e, want[i])
		}
	}
	if store.events[1].X != 16 || store.events[1].Y != 16 {
		t.Errorf("click position = (%f, %f)", store.events[1].X, store.events[1].Y)
	}
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventPointerEnter, "pointer_enter"},
		{EventPointerLeave, "pointer_leave"},
		{EventClick, "click"},
		{EventType(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
