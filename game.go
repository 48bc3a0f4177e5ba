package canopy

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// GameState is the lifecycle stage of a Game.
type GameState uint8

const (
	StateIdle         GameState = iota // not started
	StateInitializing                  // waiting for the graphics handshake
	StateLoading                       // assets or fonts outstanding
	StateReady                         // drawing the scene
)

func (s GameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

const defaultLoadConcurrency = 4

// Options configures a Game.
type Options struct {
	// Assets are actor document paths under ActorDir, also used as the
	// lookup keys for Game.Actor and NewActor.
	Assets []string
	// Fonts are font file paths under FontDir, also used as typeface keys.
	Fonts []string
	// Source serves Assets and Fonts. Defaults to DirSource(".").
	Source AssetSource

	// Logger defaults to NewLogger().
	Logger *zerolog.Logger
	// MaxFrameDelta clamps the elapsed time actors advance by per draw.
	// Zero disables clamping.
	MaxFrameDelta time.Duration
	Debug         bool
	// Clock defaults to time.Now. Actors read it to advance animations.
	Clock func() time.Time
	// LoadConcurrency bounds concurrent asset fetches. Defaults to 4.
	LoadConcurrency int
}

type loadKind uint8

const (
	loadActor loadKind = iota
	loadFont
)

type loadKey struct {
	kind loadKind
	path string
}

type loadResult struct {
	loadKey
	actor *Actor
	face  *text.GoTextFaceSource
	err   error
}

type frameListener struct {
	id uint32
	fn func()
}

// FrameHandle allows removing a registered frame listener.
type FrameHandle struct {
	id   uint32
	game *Game
}

// Remove unregisters the frame listener. Safe to call more than once.
func (h FrameHandle) Remove() {
	if h.game != nil {
		h.game.RemoveFrameListener(h)
	}
}

// Game owns the scene root, the loading scene and the asset registry, and
// renders one frame per RenderFrame call. Every method except the loader
// goroutines runs on the frame goroutine.
type Game struct {
	gfx      Graphics
	root     *Node
	loading  *Node
	pointers *PointerRegistry
	log      zerolog.Logger

	source        AssetSource
	clock         func() time.Time
	maxFrameDelta time.Duration
	concurrency   int
	debug         bool

	state        GameState
	assets       []string
	fonts        []string
	loadedAssets int
	loadedFonts  int
	loaded       bool
	completed    map[loadKey]bool
	actors       map[string]*Actor
	typefaces    map[string]*text.GoTextFaceSource
	results      chan loadResult
	loadDone     chan struct{}

	frameListeners []frameListener
	frameScratch   []frameListener
	nextFrameID    uint32

	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner

	width, height int
	frames        uint64
	fps           fpsCounter
}

// NewGame creates a Game drawing root through gfx. Duplicate asset and font
// paths are dropped.
func NewGame(gfx Graphics, root *Node, opts Options) *Game {
	g := &Game{
		gfx:           gfx,
		root:          root,
		pointers:      NewPointerRegistry(),
		source:        opts.Source,
		clock:         opts.Clock,
		maxFrameDelta: opts.MaxFrameDelta,
		concurrency:   opts.LoadConcurrency,
		assets:        dedupe(opts.Assets),
		fonts:         dedupe(opts.Fonts),
		completed:     make(map[loadKey]bool),
		actors:        make(map[string]*Actor),
		typefaces:     make(map[string]*text.GoTextFaceSource),
		loadDone:      make(chan struct{}),
	}
	if opts.Logger != nil {
		g.log = *opts.Logger
	} else {
		g.log = NewLogger()
	}
	if g.source == nil {
		g.source = DirSource(".")
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	if g.concurrency <= 0 {
		g.concurrency = defaultLoadConcurrency
	}
	g.results = make(chan loadResult, len(g.assets)+len(g.fonts))

	root.game = g
	g.loading = NewClearColor(ColorBlack)
	g.loading.AddChild(NewText(100, 100, "Loading...", ColorWhite, "", 30))
	g.loading.game = g

	g.SetDebugMode(opts.Debug)
	return g
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Root returns the scene root.
func (g *Game) Root() *Node {
	return g.root
}

// LoadingScene returns the placeholder drawn until loading completes.
func (g *Game) LoadingScene() *Node {
	return g.loading
}

// Pointers returns the Game's pointer registry. Pass it to NewInteractive
// and Node.Listen.
func (g *Game) Pointers() *PointerRegistry {
	return g.pointers
}

// Logger returns the Game's logger.
func (g *Game) Logger() *zerolog.Logger {
	return &g.log
}

// State returns the lifecycle stage.
func (g *Game) State() GameState {
	return g.state
}

// Loaded reports whether every asset and font finished loading. Once true
// it stays true.
func (g *Game) Loaded() bool {
	return g.loaded
}

// Progress returns the loaded and requested asset and font counts.
func (g *Game) Progress() (assets, assetTotal, fonts, fontTotal int) {
	return g.loadedAssets, len(g.assets), g.loadedFonts, len(g.fonts)
}

// LoadDone is closed once every fetch has finished, successfully or not.
// Completions still have to be applied by Update.
func (g *Game) LoadDone() <-chan struct{} {
	return g.loadDone
}

// Actor returns the loaded actor for key, or nil.
func (g *Game) Actor(key string) *Actor {
	return g.actors[key]
}

// AddActor registers an actor that was loaded outside the Game.
func (g *Game) AddActor(key string, a *Actor) {
	g.actors[key] = a
}

// Typeface returns the loaded typeface for key, or nil.
func (g *Game) Typeface(key string) *text.GoTextFaceSource {
	return g.typefaces[key]
}

// AddTypeface registers a typeface that was loaded outside the Game.
func (g *Game) AddTypeface(key string, src *text.GoTextFaceSource) {
	g.typefaces[key] = src
}

// Width returns the surface width of the last frame.
func (g *Game) Width() int {
	if g.width == 0 {
		w, _ := g.gfx.Size()
		return w
	}
	return g.width
}

// Height returns the surface height of the last frame.
func (g *Game) Height() int {
	if g.height == 0 {
		_, h := g.gfx.Size()
		return h
	}
	return g.height
}

// Frames returns the number of frames rendered.
func (g *Game) Frames() uint64 {
	return g.frames
}

// FPS returns the measured frame rate.
func (g *Game) FPS() float64 {
	return g.fps.fps
}

// now reads the Game's clock. Nil-safe for detached nodes.
func (g *Game) now() time.Time {
	if g == nil {
		return time.Now()
	}
	return g.clock()
}

// --- Lifecycle ---

// Start begins the graphics handshake. It is only valid from StateIdle; a
// second call logs a warning and returns nil. A handshake error returns
// the Game to StateIdle.
func (g *Game) Start() error {
	if g.state != StateIdle {
		g.log.Warn().Str("state", g.state.String()).Msg("game was already started")
		return nil
	}
	g.log.Info().Msg("starting game")
	g.state = StateInitializing
	if err := g.gfx.Initialize(g.onGraphicsReady); err != nil {
		g.state = StateIdle
		return fmt.Errorf("canopy: initialize graphics: %w", err)
	}
	return nil
}

// onGraphicsReady is the handshake callback. It must run on the frame
// goroutine.
func (g *Game) onGraphicsReady() {
	if g.state != StateInitializing {
		return
	}
	g.log.Info().Msg("graphics ready")
	switch {
	case len(g.assets) == 0 && len(g.fonts) == 0:
		close(g.loadDone)
		g.setReady()
		return
	case len(g.assets) == 0:
		// Fonts alone never gate the scene; they land in the typeface
		// registry when Update applies them.
		g.setReady()
	default:
		g.state = StateLoading
	}
	g.log.Info().Int("assets", len(g.assets)).Int("fonts", len(g.fonts)).Msg("loading assets")
	go g.load(context.Background())
}

// load fetches every asset and font with bounded concurrency and queues
// the results for Update.
func (g *Game) load(ctx context.Context) {
	defer close(g.loadDone)

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for _, p := range g.assets {
		eg.Go(func() error {
			a, err := LoadActorFrom(ctx, g.source, p)
			g.results <- loadResult{loadKey: loadKey{loadActor, p}, actor: a, err: err}
			return err
		})
	}
	for _, p := range g.fonts {
		eg.Go(func() error {
			f, err := LoadTypefaceFrom(ctx, g.source, p)
			g.results <- loadResult{loadKey: loadKey{loadFont, p}, face: f, err: err}
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		g.log.Warn().Err(err).Msg("asset loading finished with errors")
	}
}

// Update applies finished loads, advances the test runner and dispatches
// one injected pointer event. Hosts call it once per tick before
// RenderFrame.
func (g *Game) Update() {
	g.drainLoads()
	if g.testRunner != nil {
		g.testRunner.step(g)
	}
	g.processInjectedInput()
}

func (g *Game) drainLoads() {
	for {
		select {
		case r := <-g.results:
			g.complete(r)
		default:
			return
		}
	}
}

// complete applies one load result. Failures are logged and never counted;
// a second completion for the same path is ignored.
func (g *Game) complete(r loadResult) {
	if r.err != nil {
		g.log.Error().Err(r.err).Str("path", r.path).Msg("asset load failed")
		return
	}
	if g.completed[r.loadKey] {
		g.log.Warn().Str("path", r.path).Msg("duplicate load ignored")
		return
	}
	g.completed[r.loadKey] = true
	switch r.kind {
	case loadActor:
		g.actors[r.path] = r.actor
		g.loadedAssets++
		g.log.Info().Str("actor", r.path).Msg("loaded actor")
	case loadFont:
		g.typefaces[r.path] = r.face
		g.loadedFonts++
		g.log.Info().Str("font", r.path).Msg("loaded font")
	}
	g.checkLoaded()
}

func (g *Game) checkLoaded() {
	if g.loaded {
		return
	}
	if g.loadedAssets == len(g.assets) && g.loadedFonts == len(g.fonts) {
		g.setReady()
	}
}

func (g *Game) setReady() {
	g.loaded = true
	g.state = StateReady
	g.log.Info().Msg("load complete")
}

// --- Rendering ---

// RenderFrame draws one frame at the given surface size: nothing before
// Start, the loading scene until every asset is loaded, then the scene root
// followed by the frame listeners in registration order.
func (g *Game) RenderFrame(width, height int) {
	g.width, g.height = width, height
	g.gfx.SetSize(width, height)

	var start time.Time
	if g.debug {
		start = time.Now()
	}

	switch g.state {
	case StateIdle:
	case StateReady:
		g.root.Draw(g.gfx, 0, 0)
		g.frameScratch = append(g.frameScratch[:0], g.frameListeners...)
		for _, l := range g.frameScratch {
			l.fn()
		}
	default:
		g.loading.Draw(g.gfx, 0, 0)
	}

	g.gfx.Flush()
	g.frames++
	g.fps.tick(time.Now())

	if g.debug {
		g.debugFrame(frameStats{
			drawTime:  time.Since(start),
			nodes:     countNodes(g.root),
			listeners: g.pointers.Len(),
		})
	}
}

// AddFrameListener registers fn to run after the scene is drawn on every
// ready frame.
func (g *Game) AddFrameListener(fn func()) FrameHandle {
	g.nextFrameID++
	id := g.nextFrameID
	g.frameListeners = append(g.frameListeners, frameListener{id: id, fn: fn})
	return FrameHandle{id: id, game: g}
}

// RemoveFrameListener unregisters the listener behind h.
func (g *Game) RemoveFrameListener(h FrameHandle) {
	for i := range g.frameListeners {
		if g.frameListeners[i].id == h.id {
			copy(g.frameListeners[i:], g.frameListeners[i+1:])
			g.frameListeners[len(g.frameListeners)-1] = frameListener{}
			g.frameListeners = g.frameListeners[:len(g.frameListeners)-1]
			return
		}
	}
}

// Screenshotter is implemented by backends that can capture frames.
type Screenshotter interface {
	Screenshot(label string)
}

// Screenshot asks the backend to capture the next flushed frame. Logs a
// warning when the backend cannot capture.
func (g *Game) Screenshot(label string) {
	s, ok := g.gfx.(Screenshotter)
	if !ok {
		g.log.Warn().Str("label", label).Msg("graphics backend cannot take screenshots")
		return
	}
	s.Screenshot(label)
}
