package canopy

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"
)

// EbitenGraphics is the Ebitengine Graphics backend. It draws on the image
// given to SetTarget, normally the screen passed to ebiten.Game.Draw.
type EbitenGraphics struct {
	ViewStack

	// ScreenshotDir is where Screenshot writes PNGs.
	ScreenshotDir string

	target *ebiten.Image
	w, h   int
	white  *ebiten.Image
	pages  map[image.Image]*ebiten.Image
	shots  []string
	log    zerolog.Logger
}

// NewEbitenGraphics returns a backend with no target.
func NewEbitenGraphics() *EbitenGraphics {
	white := ebiten.NewImage(1, 1)
	white.Fill(ColorWhite.toRGBA())
	return &EbitenGraphics{
		ScreenshotDir: "screenshots",
		white:         white,
		pages:         make(map[image.Image]*ebiten.Image),
		log:           NewLogger(),
	}
}

// SetLogger replaces the logger used for screenshot errors.
func (g *EbitenGraphics) SetLogger(l zerolog.Logger) {
	g.log = l
}

// SetTarget sets the image drawn to until the next SetTarget.
func (g *EbitenGraphics) SetTarget(img *ebiten.Image) {
	g.target = img
}

// Initialize reports ready at once; Ebitengine is set up by RunGame.
func (g *EbitenGraphics) Initialize(ready func()) error {
	ready()
	return nil
}

// SetSize records the surface size and resets the view transform.
func (g *EbitenGraphics) SetSize(width, height int) {
	g.w, g.h = width, height
	g.Reset()
}

func (g *EbitenGraphics) Size() (int, int) {
	return g.w, g.h
}

func (g *EbitenGraphics) Clear(c Color) {
	if g.target == nil {
		return
	}
	g.target.Fill(c.toRGBA())
}

func (g *EbitenGraphics) MakePaint() *Paint {
	return &Paint{Color: ColorWhite}
}

func (g *EbitenGraphics) SetPaintColor(p *Paint, c Color) {
	p.Color = c
}

func (g *EbitenGraphics) DrawRect(x, y, width, height float64, p *Paint) {
	if g.target == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(width, height)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(g.View().GeoM())
	scaleColor(&op.ColorScale, paintColor(p))
	g.target.DrawImage(g.white, &op)
}

// DrawText draws s with its baseline at y.
func (g *EbitenGraphics) DrawText(s string, x, y float64, p *Paint, face text.Face) {
	if g.target == nil || face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-face.Metrics().HAscent)
	op.GeoM.Concat(g.View().GeoM())
	scaleColor(&op.ColorScale, paintColor(p))
	text.Draw(g.target, s, face, op)
}

// DrawImage draws src of img. Each distinct img is uploaded once.
func (g *EbitenGraphics) DrawImage(img image.Image, src image.Rectangle, x, y float64) {
	if g.target == nil || img == nil {
		return
	}
	page := g.page(img)
	sub := page.SubImage(src).(*ebiten.Image)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(g.View().GeoM())
	g.target.DrawImage(sub, &op)
}

func (g *EbitenGraphics) page(img image.Image) *ebiten.Image {
	if e, ok := img.(*ebiten.Image); ok {
		return e
	}
	page, ok := g.pages[img]
	if !ok {
		page = ebiten.NewImageFromImage(img)
		g.pages[img] = page
	}
	return page
}

// Flush writes queued screenshots of the target.
func (g *EbitenGraphics) Flush() {
	if g.target != nil {
		g.flushScreenshots(g.target)
	}
}

// scaleColor applies c as a premultiplied color scale.
func scaleColor(cs *ebiten.ColorScale, c Color) {
	a := float32(c.A)
	cs.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
}
