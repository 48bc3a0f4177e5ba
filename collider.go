package canopy

import "fmt"

// ColliderKind tags the shape held by a Collider.
type ColliderKind uint8

const (
	ColliderNone  ColliderKind = iota // never overlaps and is never inside anything
	ColliderRect                      // axis-aligned rectangle
	ColliderPoint                     // single point

	numColliderKinds
)

// Collider is an immutable shape used for overlap and containment queries.
// The zero value is a ColliderNone, which makes a node without an explicit
// collider invisible to hit testing.
type Collider struct {
	kind ColliderKind
	x, y float64
	w, h float64
}

// RectCollider returns a rectangle collider with its top-left corner at
// (x, y).
func RectCollider(x, y, width, height float64) Collider {
	return Collider{kind: ColliderRect, x: x, y: y, w: width, h: height}
}

// PointCollider returns a collider for the single point (x, y).
func PointCollider(x, y float64) Collider {
	return Collider{kind: ColliderPoint, x: x, y: y}
}

// Kind returns the shape tag.
func (c Collider) Kind() ColliderKind {
	return c.kind
}

// Bounds returns the collider as a Rect. Points have zero size.
func (c Collider) Bounds() Rect {
	return Rect{X: c.x, Y: c.y, Width: c.w, Height: c.h}
}

func (c Collider) String() string {
	switch c.kind {
	case ColliderRect:
		return fmt.Sprintf("rect(%g,%g %gx%g)", c.x, c.y, c.w, c.h)
	case ColliderPoint:
		return fmt.Sprintf("point(%g,%g)", c.x, c.y)
	default:
		return "none"
	}
}

type colliderTest func(a, b Collider) bool

// overlapTable[a][b] tests a against b. Missing entries mean "no overlap".
var overlapTable = [numColliderKinds][numColliderKinds]colliderTest{
	ColliderRect: {
		ColliderRect:  rectOverlapsRect,
		ColliderPoint: rectOverlapsPoint,
	},
	ColliderPoint: {
		ColliderRect:  pointOverlapsRect,
		ColliderPoint: pointOverlapsPoint,
	},
}

// insideTable[a][b] tests whether a lies inside b. Missing entries mean
// "not inside".
var insideTable = [numColliderKinds][numColliderKinds]colliderTest{
	ColliderRect: {
		ColliderRect: rectInsideRect,
	},
	ColliderPoint: {
		ColliderRect: pointInsideRect,
	},
}

// Overlaps reports whether c and other overlap. Edges count as overlapping.
func (c Collider) Overlaps(other Collider) bool {
	return lookup(&overlapTable, c, other)
}

// IsInside reports whether c lies strictly inside other.
func (c Collider) IsInside(other Collider) bool {
	return lookup(&insideTable, c, other)
}

func lookup(table *[numColliderKinds][numColliderKinds]colliderTest, a, b Collider) bool {
	if a.kind >= numColliderKinds || b.kind >= numColliderKinds {
		return false
	}
	fn := table[a.kind][b.kind]
	if fn == nil {
		return false
	}
	return fn(a, b)
}

func rectOverlapsRect(a, b Collider) bool {
	return a.Bounds().Intersects(b.Bounds())
}

// rectOverlapsPoint delegates so both orderings agree.
func rectOverlapsPoint(a, b Collider) bool {
	return pointOverlapsRect(b, a)
}

func pointOverlapsRect(p, r Collider) bool {
	return r.Bounds().Contains(p.x, p.y)
}

func pointOverlapsPoint(a, b Collider) bool {
	return a.x == b.x && a.y == b.y
}

func rectInsideRect(a, b Collider) bool {
	return a.x > b.x && a.y > b.y &&
		a.x+a.w < b.x+b.w &&
		a.y+a.h < b.y+b.h
}

func pointInsideRect(p, r Collider) bool {
	return r.Bounds().ContainsStrict(p.x, p.y)
}
