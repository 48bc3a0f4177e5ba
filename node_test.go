package canopy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// --- Constructor defaults ---

func TestNewContainerDefaults(t *testing.T) {
	n := NewContainer("test")
	assertNodeDefaults(t, n, "test", NodeTypeContainer)
	if n.X != 0 || n.Y != 0 {
		t.Errorf("position = (%v, %v), want origin", n.X, n.Y)
	}
}

func TestNewTextDefaults(t *testing.T) {
	n := NewText(1, 2, "hello", RGB(255, 0, 0), "", 20)
	assertNodeDefaults(t, n, "", NodeTypeText)
	if n.Label.Content != "hello" || n.Label.Size != 20 {
		t.Errorf("Label = %+v", n.Label)
	}
	if n.Color != (Color{1, 0, 0, 1}) {
		t.Errorf("Color = %v, want red", n.Color)
	}
}

func TestNewActorDefaults(t *testing.T) {
	n := NewActor(0, 0, "hero.json", 0.5, "walk", "blink")
	assertNodeDefaults(t, n, "", NodeTypeActor)
	if n.Actor.Key != "hero.json" || n.Actor.Scale != 0.5 || len(n.Actor.Tracks) != 2 {
		t.Errorf("Actor = %+v", n.Actor)
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %s, want %s", n.Type, typ)
	}
	if n.Collider.Kind() != ColliderNone {
		t.Errorf("Collider = %s, want none", n.Collider)
	}
	if n.GfxInitialized() {
		t.Error("new node should not be initialized")
	}
	if n.Parent != nil {
		t.Error("new node should be detached")
	}
}

func TestNodeTypeString(t *testing.T) {
	tests := []struct {
		typ  NodeType
		want string
	}{
		{NodeTypeContainer, "container"},
		{NodeTypeClear, "clear"},
		{NodeTypeCover, "cover"},
		{NodeTypeText, "text"},
		{NodeTypeActor, "actor"},
		{NodeType(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

// --- Unique IDs ---

func TestUniqueIDs(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	c := NewNode(0, 0)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs should be unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

// --- Construction and AddChild ---

func TestNewNodeAttachesChildren(t *testing.T) {
	var attached []string
	mk := func(name string) *Node {
		n := NewContainer(name)
		n.OnAttach = func(n *Node) { attached = append(attached, n.Name) }
		return n
	}
	a, b := mk("a"), mk("b")
	parent := NewNode(3, 4, a, b)

	if parent.NumChildren() != 2 || parent.ChildAt(0) != a || parent.ChildAt(1) != b {
		t.Fatal("children not attached in order")
	}
	if a.Parent != parent || b.Parent != parent {
		t.Error("parent pointers not set")
	}
	if strings.Join(attached, ",") != "a,b" {
		t.Errorf("attach order = %v, want [a b]", attached)
	}
}

func TestAddChildBasic(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	attaches := 0
	child.OnAttach = func(*Node) { attaches++ }
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Error("child not appended")
	}
	if attaches != 1 {
		t.Errorf("attach hook fired %d times, want 1", attaches)
	}
}

func TestAddChildKeepsPreviousParentList(t *testing.T) {
	p1 := NewContainer("p1")
	p2 := NewContainer("p2")
	child := NewContainer("child")

	p1.AddChild(child)
	p2.AddChild(child)
	// Detaching from the old parent is the caller's job.
	if p1.NumChildren() != 1 {
		t.Error("p1 should still list the child")
	}
	if child.Parent != p2 {
		t.Error("child.Parent should be p2")
	}
	// Removing from the stale parent must not clear the new link.
	p1.RemoveChild(child)
	if child.Parent != p2 {
		t.Error("RemoveChild on the old parent cleared the new parent")
	}
}

func TestAddChildPanics(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	grandchild := NewContainer("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)

	tests := []struct {
		name  string
		fn    func()
		match string
	}{
		{"cycle", func() { grandchild.AddChild(parent) }, "cycle"},
		{"self", func() { parent.AddChild(parent) }, "cycle"},
		{"nil", func() { parent.AddChild(nil) }, "nil"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				if msg, _ := r.(string); !strings.Contains(msg, tt.match) {
					t.Errorf("panic = %v, want mention of %q", r, tt.match)
				}
			}()
			tt.fn()
		})
	}
}

// --- Removal and lookup ---

func TestRemoveChild(t *testing.T) {
	parent := NewContainer("parent")
	a, b, c := NewContainer("a"), NewContainer("b"), NewContainer("c")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)

	parent.RemoveChild(b)
	if parent.NumChildren() != 2 || parent.ChildAt(0) != a || parent.ChildAt(1) != c {
		t.Error("children should be [a, c]")
	}
	if b.Parent != nil {
		t.Error("removed child should be detached")
	}

	parent.RemoveChild(NewContainer("stranger"))
	if parent.NumChildren() != 2 {
		t.Error("removing a non-child changed the list")
	}
}

func TestRemoveChildDoesNotDestroy(t *testing.T) {
	parent := NewContainer("parent")
	child := NewContainer("child")
	destroyed := false
	child.OnDestroy = func(*Node) { destroyed = true }
	parent.AddChild(child)
	parent.RemoveChild(child)
	if destroyed {
		t.Error("removal must not destroy")
	}
}

func TestRemoveChildren(t *testing.T) {
	parent := NewContainer("parent")
	names := []string{"keep1", "drop1", "keep2", "drop2"}
	for _, name := range names {
		parent.AddChild(NewContainer(name))
	}
	dropped := parent.ChildAt(1)

	parent.RemoveChildren(func(n *Node) bool { return strings.HasPrefix(n.Name, "drop") })

	if parent.NumChildren() != 2 {
		t.Fatalf("NumChildren = %d, want 2", parent.NumChildren())
	}
	if parent.ChildAt(0).Name != "keep1" || parent.ChildAt(1).Name != "keep2" {
		t.Error("children should be [keep1, keep2]")
	}
	if dropped.Parent != nil {
		t.Error("removed child should be detached")
	}
}

func TestChild(t *testing.T) {
	parent := NewContainer("parent")
	parent.AddChild(NewContainer("a"))
	b1 := NewContainer("b")
	parent.AddChild(b1)
	parent.AddChild(NewContainer("b"))

	if got := parent.Child(func(n *Node) bool { return n.Name == "b" }); got != b1 {
		t.Error("Child should return the first match")
	}
	if got := parent.Child(func(n *Node) bool { return n.Name == "z" }); got != nil {
		t.Error("Child should return nil without a match")
	}
}

// --- Drawing ---

func TestDrawInitializesOnce(t *testing.T) {
	g := newRecordingGraphics(100, 100)
	n := NewColorCover(Color{0, 0, 1, 0.5})

	if n.GfxInitialized() {
		t.Fatal("initialized before first draw")
	}
	for i := 0; i < 5; i++ {
		n.Draw(g, 0, 0)
		if !n.GfxInitialized() {
			t.Fatalf("not initialized after draw %d", i+1)
		}
	}
	if g.paints != 1 {
		t.Errorf("MakePaint called %d times, want 1", g.paints)
	}
}

func TestDrawOffsetAccumulates(t *testing.T) {
	g := newRecordingGraphics(100, 100)
	grandchild := NewText(2, 3, "gc", ColorWhite, "", 10)
	child := NewNode(5, 5, grandchild)
	root := NewNode(0, 0, child)

	root.Draw(g, 0, 0)
	if len(g.calls) != 1 {
		t.Fatalf("ops = %v", g.ops())
	}
	if g.calls[0].X != 7 || g.calls[0].Y != 8 {
		t.Errorf("grandchild drawn at (%v, %v), want (7, 8)", g.calls[0].X, g.calls[0].Y)
	}

	g.reset()
	root.Draw(g, 10, 20)
	if g.calls[0].X != 17 || g.calls[0].Y != 28 {
		t.Errorf("with external offset drawn at (%v, %v), want (17, 28)", g.calls[0].X, g.calls[0].Y)
	}
}

func TestDrawChildOrder(t *testing.T) {
	g := newRecordingGraphics(100, 100)
	root := NewNode(0, 0,
		NewText(0, 0, "first", ColorWhite, "", 10),
		NewNode(0, 0, NewText(0, 0, "nested", ColorWhite, "", 10)),
		NewText(0, 0, "last", ColorWhite, "", 10),
	)
	root.Draw(g, 0, 0)

	var got []string
	for _, c := range g.calls {
		got = append(got, c.Text)
	}
	if strings.Join(got, ",") != "first,nested,last" {
		t.Errorf("draw order = %v", got)
	}
}

func TestClearColorDraw(t *testing.T) {
	g := newRecordingGraphics(100, 100)
	bg := NewClearColor(RGB(10, 20, 30))
	bg.AddChild(NewText(0, 0, "over", ColorWhite, "", 10))
	bg.Draw(g, 0, 0)

	if ops := strings.Join(g.ops(), ","); ops != "clear,text" {
		t.Errorf("ops = %s, want clear,text", ops)
	}
	if g.calls[0].Color != RGB(10, 20, 30) {
		t.Errorf("clear color = %v", g.calls[0].Color)
	}
}

func TestColorCoverDraw(t *testing.T) {
	g := newRecordingGraphics(320, 200)
	c := Color{1, 0, 0, 0.25}
	cover := NewColorCover(c)
	cover.AddChild(NewText(0, 0, "child", ColorWhite, "", 10))
	cover.Draw(g, 0, 0)

	if ops := strings.Join(g.ops(), ","); ops != "text,rect,text" {
		t.Fatalf("ops = %s, want text,rect,text", ops)
	}
	r := g.calls[1]
	if r.X != 0 || r.Y != 0 || r.W != 320 || r.H != 200 || r.Color != c {
		t.Errorf("rect = %+v, want full surface in %v", r, c)
	}
}

func TestTextColorReappliedEachFrame(t *testing.T) {
	g := newRecordingGraphics(100, 100)
	n := NewText(0, 0, "x", ColorWhite, "", 10)
	n.Draw(g, 0, 0)
	n.Color = RGB(0, 255, 0)
	n.Label.Content = "y"
	n.Draw(g, 0, 0)

	last := g.calls[len(g.calls)-1]
	if last.Color != RGB(0, 255, 0) || last.Text != "y" {
		t.Errorf("second draw = %+v, want green y", last)
	}
}

func TestTextMeasure(t *testing.T) {
	n := NewText(0, 0, "hello", ColorWhite, "", 20)
	w, h := n.Label.Measure()
	if w <= 0 || h <= 0 {
		t.Errorf("Measure = (%v, %v), want positive", w, h)
	}
	short := NewText(0, 0, "hi", ColorWhite, "", 20)
	if sw, _ := short.Label.Measure(); sw >= w {
		t.Errorf("shorter text measured wider: %v >= %v", sw, w)
	}
}

// --- Spatial queries ---

func TestNodeColliderQueries(t *testing.T) {
	outer := NewContainer("outer")
	outer.Collider = RectCollider(0, 0, 100, 100)
	inner := NewContainer("inner")
	inner.Collider = RectCollider(10, 10, 10, 10)
	plain := NewContainer("plain")

	if !outer.Overlaps(inner) || !inner.Overlaps(outer) {
		t.Error("nested rects should overlap both ways")
	}
	if !inner.IsInside(outer) || !outer.Contains(inner) {
		t.Error("inner should be inside outer")
	}
	if outer.IsInside(inner) {
		t.Error("outer is not inside inner")
	}
	if plain.Overlaps(outer) || outer.Overlaps(plain) || plain.IsInside(outer) {
		t.Error("a node without a collider never participates")
	}
}

func TestFindOverlapsFirstLevel(t *testing.T) {
	probe := NewContainer("probe")
	probe.Collider = RectCollider(0, 0, 10, 10)

	hit := NewContainer("hit")
	hit.Collider = RectCollider(5, 5, 10, 10)
	miss := NewContainer("miss")
	miss.Collider = RectCollider(50, 50, 10, 10)
	deep := NewContainer("deep")
	deep.Collider = RectCollider(0, 0, 1, 1)
	miss.AddChild(deep)

	parent := NewNode(0, 0, hit, miss)
	parent.Collider = RectCollider(0, 0, 100, 100)

	got := parent.FindOverlaps(probe)
	if len(got) != 2 || got[0] != parent || got[1] != hit {
		names := make([]string, len(got))
		for i, n := range got {
			names[i] = n.Name
		}
		t.Errorf("FindOverlaps = %v, want [parent hit]", names)
	}
}

// --- Destroy ---

func TestDestroyRecursesAndRunsHooks(t *testing.T) {
	var order []string
	mk := func(name string) *Node {
		n := NewContainer(name)
		n.OnDestroy = func(n *Node) { order = append(order, n.Name) }
		return n
	}
	child := mk("child")
	parent := mk("parent")
	parent.AddChild(child)
	parent.Destroy()

	if strings.Join(order, ",") != "child,parent" {
		t.Errorf("destroy order = %v, want [child parent]", order)
	}
	if parent.NumChildren() != 1 {
		t.Error("Destroy must not detach children")
	}
}

// --- Debug warnings ---

func TestDebugTreeWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	game := NewGame(newRecordingGraphics(1, 1), NewContainer("root"), Options{Logger: &logger, Debug: true})
	defer game.SetDebugMode(false)

	n := NewContainer("top")
	for i := 0; i < debugMaxTreeDepth+1; i++ {
		c := NewContainer("level")
		n.AddChild(c)
		n = c
	}
	wide := NewContainer("wide")
	for i := 0; i <= debugMaxChildCount; i++ {
		wide.AddChild(NewNode(0, 0))
	}

	out := buf.String()
	if !strings.Contains(out, "tree depth exceeds threshold") {
		t.Error("missing tree depth warning")
	}
	if !strings.Contains(out, "child count exceeds threshold") {
		t.Error("missing child count warning")
	}
}
