package canopy

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// TPS sets Ebitengine ticks per second. Zero keeps the default of 60.
	TPS int
	// ShowFPS adds an FPS label to the top-left of the scene.
	ShowFPS bool

	// ScreenshotDir overrides EbitenGraphics.ScreenshotDir when set.
	ScreenshotDir string
}

// Run starts game and runs it in an Ebitengine window until the window
// closes. The Game must draw through an *EbitenGraphics.
func Run(game *Game, cfg RunConfig) error {
	gfx, ok := game.gfx.(*EbitenGraphics)
	if !ok {
		return fmt.Errorf("canopy: Run needs an *EbitenGraphics backend, got %T", game.gfx)
	}
	gfx.SetLogger(game.log)
	if cfg.ScreenshotDir != "" {
		gfx.ScreenshotDir = cfg.ScreenshotDir
	}

	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	if cfg.ShowFPS {
		game.Root().AddChild(NewFPSLabel(game, 8, 20))
	}

	if err := game.Start(); err != nil {
		return err
	}
	return ebiten.RunGame(&ebitenHost{game: game, gfx: gfx, lastX: -1, lastY: -1})
}

// ebitenHost adapts a Game to ebiten.Game.
type ebitenHost struct {
	game         *Game
	gfx          *EbitenGraphics
	lastX, lastY int
	cursor       CursorShape
}

// Update feeds real pointer input to the registry unless synthetic input
// is queued, then runs the Game's per-tick work.
func (h *ebitenHost) Update() error {
	if h.game.PendingInjections() == 0 {
		x, y := ebiten.CursorPosition()
		if x != h.lastX || y != h.lastY {
			h.lastX, h.lastY = x, y
			h.game.pointers.Move(float64(x), float64(y))
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			h.game.pointers.Click(float64(x), float64(y))
		}
	}
	h.game.Update()

	if c := h.game.pointers.Cursor(); c != h.cursor {
		h.cursor = c
		ebiten.SetCursorShape(ebitenCursor(c))
	}
	return nil
}

func (h *ebitenHost) Draw(screen *ebiten.Image) {
	h.gfx.SetTarget(screen)
	b := screen.Bounds()
	h.game.RenderFrame(b.Dx(), b.Dy())
}

// Layout makes the surface follow the window size.
func (h *ebitenHost) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func ebitenCursor(c CursorShape) ebiten.CursorShapeType {
	if c == CursorPointer {
		return ebiten.CursorShapePointer
	}
	return ebiten.CursorShapeDefault
}
