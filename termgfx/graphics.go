// Package termgfx draws a canopy scene graph into a terminal through tcell.
// Each terminal cell stands for a CellW x CellH block of scene pixels:
// rectangles and images fill cell backgrounds, text writes one rune per cell.
package termgfx

import (
	"image"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/phanxgames/canopy"
)

// Default cell size in scene pixels. Matches the usual 1:2 glyph aspect.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Graphics implements canopy.Graphics on a tcell.Screen.
type Graphics struct {
	canopy.ViewStack

	Screen tcell.Screen
	CellW  float64
	CellH  float64

	w, h   int
	inited bool
}

// New wraps screen. Non-positive cell sizes fall back to the defaults.
// The screen is initialized by Initialize, not here.
func New(screen tcell.Screen, cellW, cellH float64) *Graphics {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	return &Graphics{Screen: screen, CellW: cellW, CellH: cellH}
}

// Initialize initializes the screen, enables mouse reporting, and calls
// ready.
func (g *Graphics) Initialize(ready func()) error {
	if !g.inited {
		if err := g.Screen.Init(); err != nil {
			return err
		}
		g.inited = true
	}
	g.Screen.EnableMouse()
	g.Screen.HideCursor()
	g.w, g.h = g.PixelSize()
	ready()
	return nil
}

// PixelSize is the terminal size converted to scene pixels.
func (g *Graphics) PixelSize() (width, height int) {
	cols, rows := g.Screen.Size()
	return int(float64(cols) * g.CellW), int(float64(rows) * g.CellH)
}

// CellToScene returns the scene coordinates of the center of a cell.
func (g *Graphics) CellToScene(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * g.CellW, (float64(row) + 0.5) * g.CellH
}

func (g *Graphics) SetSize(width, height int) {
	g.w, g.h = width, height
	g.Reset()
}

func (g *Graphics) Size() (int, int) { return g.w, g.h }

func (g *Graphics) Clear(c canopy.Color) {
	g.Screen.Fill(' ', tcell.StyleDefault.Background(cellColor(c)))
}

func (g *Graphics) MakePaint() *canopy.Paint {
	return &canopy.Paint{Color: canopy.ColorWhite}
}

func (g *Graphics) SetPaintColor(p *canopy.Paint, c canopy.Color) {
	p.Color = c
}

// DrawRect paints the background of every cell whose center lies inside
// the transformed rectangle. Translucent fills are blended over the
// existing background.
func (g *Graphics) DrawRect(x, y, width, height float64, p *canopy.Paint) {
	c := canopy.ColorWhite
	if p != nil {
		c = p.Color
	}
	if c.A <= 0 {
		return
	}
	c0, r0, c1, r1 := g.cellSpan(x, y, width, height)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			g.fillCell(col, row, c)
		}
	}
}

// DrawText writes s one rune per cell on the row holding the baseline.
// Cell backgrounds are kept.
func (g *Graphics) DrawText(s string, x, y float64, p *canopy.Paint, _ text.Face) {
	c := canopy.ColorWhite
	if p != nil {
		c = p.Color
	}
	vx, vy := g.View().Apply(x, y)
	col := int(math.Floor(vx / g.CellW))
	row := int(math.Floor((vy - 1) / g.CellH))
	cols, rows := g.Screen.Size()
	if row < 0 || row >= rows {
		return
	}
	for _, r := range s {
		if col >= cols {
			return
		}
		if col >= 0 {
			_, _, style, _ := g.Screen.GetContent(col, row)
			g.Screen.SetContent(col, row, r, nil, style.Foreground(cellColor(c)))
		}
		col++
	}
}

// DrawImage samples img at the center of each covered cell and paints the
// cell background with it. Pixels under half opacity are skipped.
func (g *Graphics) DrawImage(img image.Image, src image.Rectangle, x, y float64) {
	if img == nil || src.Empty() {
		return
	}
	view := g.View()
	inv := view.Invert()
	c0, r0, c1, r1 := g.cellSpan(x, y, float64(src.Dx()), float64(src.Dy()))
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			lx, ly := inv.Apply(g.CellToScene(col, row))
			px := src.Min.X + int(math.Floor(lx-x))
			py := src.Min.Y + int(math.Floor(ly-y))
			if !(image.Point{px, py}).In(src) {
				continue
			}
			nc := color.NRGBAModel.Convert(img.At(px, py)).(color.NRGBA)
			if nc.A < 0x80 {
				continue
			}
			g.fillCell(col, row, canopy.RGB(nc.R, nc.G, nc.B))
		}
	}
}

// Flush presents the back buffer.
func (g *Graphics) Flush() {
	g.Screen.Show()
}

// cellSpan returns the half-open cell range whose centers fall inside the
// rectangle after the view transform.
func (g *Graphics) cellSpan(x, y, width, height float64) (c0, r0, c1, r1 int) {
	view := g.View()
	ax, ay := view.Apply(x, y)
	bx, by := view.Apply(x+width, y+height)
	if ax > bx {
		ax, bx = bx, ax
	}
	if ay > by {
		ay, by = by, ay
	}
	cols, rows := g.Screen.Size()
	c0 = max(0, int(math.Ceil(ax/g.CellW-0.5)))
	r0 = max(0, int(math.Ceil(ay/g.CellH-0.5)))
	c1 = min(cols, int(math.Ceil(bx/g.CellW-0.5)))
	r1 = min(rows, int(math.Ceil(by/g.CellH-0.5)))
	return
}

func (g *Graphics) fillCell(col, row int, c canopy.Color) {
	_, _, style, _ := g.Screen.GetContent(col, row)
	if c.A < 1 {
		_, bg, _ := style.Decompose()
		c = blend(bg, c)
	}
	// Text drawn earlier in the frame is replaced, matching a pixel backend
	// where a later fill covers it.
	g.Screen.SetContent(col, row, ' ', nil, style.Background(cellColor(c)))
}

// blend composites c over the cell background bg.
func blend(bg tcell.Color, c canopy.Color) canopy.Color {
	var br, bgr, bb float64
	if bg.Valid() {
		r, gr, b := bg.RGB()
		br, bgr, bb = float64(r)/255, float64(gr)/255, float64(b)/255
	}
	return canopy.Color{
		R: br + (c.R-br)*c.A,
		G: bgr + (c.G-bgr)*c.A,
		B: bb + (c.B-bb)*c.A,
		A: 1,
	}
}

func cellColor(c canopy.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int32 {
	return int32(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
