package termgfx

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/canopy"
)

// FrameInterval is the tick period of Run, about 60 frames per second.
const FrameInterval = 16 * time.Millisecond

// Run starts game and drives it from the terminal until Escape or Ctrl-C
// is pressed or ctx is done. game must have been created with gfx as its
// Graphics. The screen is finalized before Run returns.
func Run(ctx context.Context, game *canopy.Game, gfx *Graphics) error {
	if err := game.Start(); err != nil {
		return err
	}
	defer gfx.Screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := gfx.Screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	h := &host{game: game, gfx: gfx, lastCol: -1, lastRow: -1}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !h.handleEvent(ev) {
				game.Logger().Debug().Msg("terminal closed by key")
				return nil
			}
		case <-ticker.C:
			h.frame()
		}
	}
}

// host routes tcell events into a Game.
type host struct {
	game *canopy.Game
	gfx  *Graphics

	lastCol, lastRow int
	pressed          bool
}

// handleEvent returns false when the event asks to quit.
func (h *host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
	case *tcell.EventMouse:
		h.mouse(ev)
	case *tcell.EventResize:
		h.gfx.Screen.Sync()
	}
	return true
}

// mouse reports movement at cell granularity and clicks on the release of
// the primary button. Real input is dropped while synthetic input is queued.
func (h *host) mouse(ev *tcell.EventMouse) {
	if h.game.PendingInjections() > 0 {
		return
	}
	col, row := ev.Position()
	x, y := h.gfx.CellToScene(col, row)
	if col != h.lastCol || row != h.lastRow {
		h.lastCol, h.lastRow = col, row
		h.game.Pointers().Move(x, y)
	}
	down := ev.Buttons()&tcell.Button1 != 0
	if h.pressed && !down {
		h.game.Pointers().Click(x, y)
	}
	h.pressed = down
}

func (h *host) frame() {
	h.game.Update()
	w, hgt := h.gfx.PixelSize()
	h.game.RenderFrame(w, hgt)
}
