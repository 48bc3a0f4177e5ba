package canopy

import (
	"fmt"
	"time"
)

const fpsWindow = 500 * time.Millisecond

// fpsCounter measures frames per second over ~0.5 second windows of wall
// clock time.
type fpsCounter struct {
	frames int
	since  time.Time
	fps    float64
}

func (c *fpsCounter) tick(now time.Time) {
	if c.since.IsZero() {
		c.since = now
		return
	}
	c.frames++
	if el := now.Sub(c.since); el >= fpsWindow {
		c.fps = float64(c.frames) / el.Seconds()
		c.frames = 0
		c.since = now
	}
}

// NewFPSLabel creates a text node showing game's measured FPS. The label
// refreshes from a frame listener, so add it to the scene that game draws.
func NewFPSLabel(game *Game, x, y float64) *Node {
	n := NewText(x, y, "FPS: 0.0", ColorWhite, "", 14)
	n.Name = "fps"
	game.AddFrameListener(func() {
		n.Label.Content = fmt.Sprintf("FPS: %.1f", game.FPS())
	})
	return n
}
