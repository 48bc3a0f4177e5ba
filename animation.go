package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenGroup drives up to 4 float64 fields with gween tweens whose duration
// is measured in frames. Each draw advances every tween by one frame.
type tweenGroup struct {
	tweens [4]*gween.Tween
	fields [4]*float64
	ends   [4]float64
	count  int
}

// add starts a tween of *field toward to. gween tweens in float32, so the
// values written on intermediate frames have float32 precision; only the
// final frame writes the exact float64 end value.
func (g *tweenGroup) add(field *float64, to float64, frames int, fn ease.TweenFunc) {
	i := g.count
	g.tweens[i] = gween.New(float32(*field), float32(to), float32(frames), fn)
	g.fields[i] = field
	g.ends[i] = to
	g.count++
}

// advance steps every tween by one frame. On the last frame the fields are
// set to their exact end values so float32 drift never leaks out.
func (g *tweenGroup) advance(last bool) {
	for i := 0; i < g.count; i++ {
		if last {
			*g.fields[i] = g.ends[i]
			continue
		}
		val, _ := g.tweens[i].Update(1)
		*g.fields[i] = float64(val)
	}
}

func (g *tweenGroup) jump() {
	for i := 0; i < g.count; i++ {
		*g.fields[i] = g.ends[i]
	}
}

// PositionLerp moves a node's local position toward a target over a fixed
// number of drawn frames. Intermediate positions have float32 precision;
// the last frame lands exactly on the target.
type PositionLerp struct {
	// Remaining counts down by one per draw and stops at 0.
	Remaining int
	Length    int

	group tweenGroup
}

// LerpPosition starts a linear move from the current position to (x2, y2)
// over frames draws, replacing any move in progress. frames <= 0 jumps
// straight to the target.
func (n *Node) LerpPosition(x2, y2 float64, frames int) *PositionLerp {
	return n.LerpPositionWith(x2, y2, frames, ease.Linear)
}

// LerpPositionWith is LerpPosition with a custom easing function.
func (n *Node) LerpPositionWith(x2, y2 float64, frames int, fn ease.TweenFunc) *PositionLerp {
	l := &PositionLerp{Remaining: frames, Length: frames}
	l.group.add(&n.X, x2, frames, fn)
	l.group.add(&n.Y, y2, frames, fn)
	if frames <= 0 {
		l.Remaining, l.Length = 0, 0
		l.group.jump()
	}
	n.Motion = l
	return l
}

// Done reports whether the move has finished.
func (l *PositionLerp) Done() bool {
	return l.Remaining <= 0
}

func (l *PositionLerp) step(n *Node) {
	if l.Remaining <= 0 {
		return
	}
	l.Remaining--
	l.group.advance(l.Remaining == 0)
}

// ColorLerp fades a node's Color between two colors over a fixed number of
// drawn frames. Each animated frame the color is copied to the node's
// direct children, and a Rebuilder on the node is marked dirty so builders
// can read the current color.
type ColorLerp struct {
	Remaining int
	Length    int
	From, To  Color

	group tweenGroup
}

// LerpColor starts a linear fade from one color to another over frames
// draws. The node's Color is set to from immediately.
func (n *Node) LerpColor(from, to Color, frames int) *ColorLerp {
	n.Color = from
	l := &ColorLerp{Remaining: frames, Length: frames, From: from, To: to}
	l.group.add(&n.Color.R, to.R, frames, ease.Linear)
	l.group.add(&n.Color.G, to.G, frames, ease.Linear)
	l.group.add(&n.Color.B, to.B, frames, ease.Linear)
	l.group.add(&n.Color.A, to.A, frames, ease.Linear)
	if frames <= 0 {
		l.Remaining, l.Length = 0, 0
		l.group.jump()
		propagateColor(n)
	}
	n.Tint = l
	return l
}

// Done reports whether the fade has finished.
func (l *ColorLerp) Done() bool {
	return l.Remaining <= 0
}

func (l *ColorLerp) step(n *Node) {
	if l.Remaining <= 0 {
		return
	}
	l.Remaining--
	l.group.advance(l.Remaining == 0)
	propagateColor(n)
	if n.Rebuild != nil {
		n.Rebuild.dirty = true
	}
}

func propagateColor(n *Node) {
	for _, c := range n.children {
		c.Color = n.Color
	}
}
