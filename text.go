package canopy

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Label holds the content and font binding of a text node.
type Label struct {
	Content string
	// Font is the typeface key registered with the Game (a font path).
	// Empty or unknown keys fall back to the built-in Go Regular face.
	Font string
	Size float64

	face  text.Face
	paint *Paint
}

// NewText creates a text node drawing content at (x, y) with the baseline
// at y. The node's Color is the text color and may change every frame.
func NewText(x, y float64, content string, color Color, font string, size float64) *Node {
	n := NewNode(x, y)
	n.Type = NodeTypeText
	n.Color = color
	n.Label = &Label{Content: content, Font: font, Size: size}
	return n
}

// Face returns the bound font face, or nil before the first draw.
func (l *Label) Face() text.Face {
	return l.face
}

// Measure returns the advance width and line height of the content using
// the bound face, or the default face before the first draw.
func (l *Label) Measure() (width, height float64) {
	face := l.face
	if face == nil {
		face = &text.GoTextFace{Source: defaultTypeface(), Size: l.Size}
	}
	return text.Measure(l.Content, face, 0)
}

func (l *Label) init(n *Node, g Graphics) {
	var src *text.GoTextFaceSource
	if l.Font != "" {
		if game := n.Game(); game != nil {
			src = game.Typeface(l.Font)
		}
	}
	if src == nil {
		src = defaultTypeface()
	}
	l.face = &text.GoTextFace{Source: src, Size: l.Size}
	l.paint = g.MakePaint()
	l.paint.AntiAlias = true
	g.SetPaintColor(l.paint, n.Color)
}

func (l *Label) draw(n *Node, g Graphics, offX, offY float64) {
	g.SetPaintColor(l.paint, n.Color)
	g.DrawText(l.Content, offX+n.X, offY+n.Y, l.paint, l.face)
}

// ParseTypeface parses TrueType or OpenType font data.
func ParseTypeface(data []byte) (*text.GoTextFaceSource, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("canopy: parse typeface: %w", err)
	}
	return src, nil
}

// default typeface singleton (no sync.Once; only the frame goroutine binds
// fonts)
var defaultFace *text.GoTextFaceSource

func defaultTypeface() *text.GoTextFaceSource {
	if defaultFace == nil {
		src, err := ParseTypeface(goregular.TTF)
		if err != nil {
			panic(err)
		}
		defaultFace = src
	}
	return defaultFace
}
