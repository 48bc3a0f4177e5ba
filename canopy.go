package canopy

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a backend submits the color.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is the default paint and label color.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorBlack is the loading scene background.
	ColorBlack = Color{0, 0, 0, 1}
)

// RGB builds an opaque Color from 0-255 channel values.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsStrict reports whether (x, y) lies strictly inside the rectangle.
// Points on the edge are outside.
func (r Rect) ContainsStrict(x, y float64) bool {
	return x > r.X && x < r.X+r.Width &&
		y > r.Y && y < r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// NodeType distinguishes drawing behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // draws only its children
	NodeTypeClear                     // clears the whole surface to Color
	NodeTypeCover                     // fills the whole surface with Color around its children
	NodeTypeText                      // draws a Label
	NodeTypeActor                     // draws a bound actor instance
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeContainer:
		return "container"
	case NodeTypeClear:
		return "clear"
	case NodeTypeCover:
		return "cover"
	case NodeTypeText:
		return "text"
	case NodeTypeActor:
		return "actor"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerEnter EventType = iota // a listener's hover state turned on
	EventPointerLeave                  // a listener's hover state turned off
	EventClick                         // a click landed on a listener
)

func (t EventType) String() string {
	switch t {
	case EventPointerEnter:
		return "pointer_enter"
	case EventPointerLeave:
		return "pointer_leave"
	case EventClick:
		return "click"
	default:
		return "unknown"
	}
}

// CursorShape is the host cursor presentation requested by the pointer
// registry.
type CursorShape uint8

const (
	CursorDefault CursorShape = iota
	CursorPointer
)
