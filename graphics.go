package canopy

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Graphics is the drawing surface consumed by the scene graph. A backend
// owns the render target; nodes only issue primitives through it.
//
// All methods are called from the frame goroutine.
type Graphics interface {
	// Initialize performs the backend handshake and calls ready once the
	// surface can be drawn to. A non-nil error means ready was not called.
	Initialize(ready func()) error

	// SetSize resizes the surface. Called at the start of every frame.
	SetSize(width, height int)
	// Size returns the current surface size.
	Size() (width, height int)

	// Clear fills the whole surface with c, ignoring the view transform.
	Clear(c Color)

	MakePaint() *Paint
	SetPaintColor(p *Paint, c Color)

	// DrawRect fills a rectangle through the current view transform.
	DrawRect(x, y, width, height float64, p *Paint)
	// DrawText draws s with its baseline starting at (x, y).
	DrawText(s string, x, y float64, p *Paint, face text.Face)
	// DrawImage draws the src sub-rectangle of img with its top-left corner
	// at (x, y) in view space.
	DrawImage(img image.Image, src image.Rectangle, x, y float64)

	// Save pushes the view transform; Restore pops it.
	Save()
	Restore()
	// SetView replaces the view transform.
	SetView(m Affine)

	// Flush presents everything drawn since the last Flush.
	Flush()
}

// Paint carries fill state for rect and text draws.
type Paint struct {
	Color     Color
	AntiAlias bool
}

// paintColor returns the paint's color, or white for a nil paint.
func paintColor(p *Paint) Color {
	if p == nil {
		return ColorWhite
	}
	return p.Color
}

// ViewStack implements Save/Restore/SetView for backends. The zero value
// holds the identity view.
type ViewStack struct {
	view  Affine
	set   bool
	stack []Affine
}

// Reset drops saved views and returns to the identity view.
func (v *ViewStack) Reset() {
	v.view = Identity
	v.set = true
	v.stack = v.stack[:0]
}

func (v *ViewStack) Save() {
	v.stack = append(v.stack, v.View())
}

func (v *ViewStack) Restore() {
	if len(v.stack) == 0 {
		v.Reset()
		return
	}
	v.view = v.stack[len(v.stack)-1]
	v.set = true
	v.stack = v.stack[:len(v.stack)-1]
}

func (v *ViewStack) SetView(m Affine) {
	v.view = m
	v.set = true
}

// View returns the current view transform.
func (v *ViewStack) View() Affine {
	if !v.set {
		return Identity
	}
	return v.view
}
