package canopy

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"sort"
	"time"
)

// ErrNoFrames is returned when an actor document defines no frames.
var ErrNoFrames = errors.New("canopy: actor has no frames")

const defaultActorFPS = 12

// Frame is a sub-rectangle of an actor page plus the trim offset at which
// it is drawn.
type Frame struct {
	Page             int
	Src              image.Rectangle
	OffsetX, OffsetY float64
}

// Track is a named, ordered frame sequence played at FPS frames per second.
type Track struct {
	Name   string
	Frames []Frame
	FPS    float64
	Loop   bool
}

// Actor is a loaded animation resource: page images, named frames and
// tracks. Actors are shared; per-node playback state lives in an
// ActorInstance.
type Actor struct {
	Pages []image.Image

	frames map[string]Frame
	tracks map[string]*Track
	setup  Frame
}

// Track returns the named track, or nil.
func (a *Actor) Track(name string) *Track {
	return a.tracks[name]
}

// TrackNames returns the track names in sorted order.
func (a *Actor) TrackNames() []string {
	names := make([]string, 0, len(a.tracks))
	for name := range a.tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Frame returns the named frame.
func (a *Actor) Frame(name string) (Frame, bool) {
	f, ok := a.frames[name]
	return f, ok
}

// NewInstance returns a fresh instance showing the actor's setup frame (the
// first frame by name).
func (a *Actor) NewInstance() *ActorInstance {
	return &ActorInstance{actor: a, frame: a.setup}
}

// ActorInstance is the per-node playback state of an Actor.
type ActorInstance struct {
	actor    *Actor
	frame    Frame
	disposed bool
}

// Frame returns the frame the instance will draw.
func (i *ActorInstance) Frame() Frame {
	return i.frame
}

// Draw draws the current frame through g's view transform.
func (i *ActorInstance) Draw(g Graphics) {
	if i.disposed {
		return
	}
	f := i.frame
	if f.Page < 0 || f.Page >= len(i.actor.Pages) || i.actor.Pages[f.Page] == nil {
		return
	}
	g.DrawImage(i.actor.Pages[f.Page], f.Src, f.OffsetX, f.OffsetY)
}

// Dispose stops the instance from drawing.
func (i *ActorInstance) Dispose() {
	i.disposed = true
}

// Disposed reports whether Dispose was called.
func (i *ActorInstance) Disposed() bool {
	return i.disposed
}

// AnimationInstance is the playhead of one Track.
type AnimationInstance struct {
	Track *Track
	Time  float64 // seconds
}

// NewAnimationInstance returns a playhead at time zero.
func NewAnimationInstance(t *Track) *AnimationInstance {
	return &AnimationInstance{Track: t}
}

// Apply poses inst at the frame for the current time. Looping tracks wrap;
// others hold their last frame.
func (a *AnimationInstance) Apply(inst *ActorInstance) {
	if inst == nil || a.Track == nil || len(a.Track.Frames) == 0 {
		return
	}
	n := len(a.Track.Frames)
	idx := int(a.Time * a.Track.FPS)
	if idx < 0 {
		idx = 0
	}
	if a.Track.Loop {
		idx %= n
	} else if idx >= n {
		idx = n - 1
	}
	inst.frame = a.Track.Frames[idx]
}

// --- Loading ---

// LoadActor parses a TexturePacker JSON document and associates the given
// page images. Supports the hash format (single "frames" object with
// "meta.image") and the array format ("textures" with per-page frames). An
// optional "animations" object maps track names to frame name lists and
// "meta.fps" sets their frame rate.
func LoadActor(jsonData []byte, pages []image.Image) (*Actor, error) {
	doc, err := parseActorDoc(jsonData)
	if err != nil {
		return nil, err
	}

	a := &Actor{
		Pages:  pages,
		frames: make(map[string]Frame),
		tracks: make(map[string]*Track),
	}

	if doc.Textures != nil {
		var textures []jsonTexturePage
		if err := json.Unmarshal(doc.Textures, &textures); err != nil {
			return nil, fmt.Errorf("canopy: parse actor textures: %w", err)
		}
		for i, tex := range textures {
			for name, f := range tex.Frames {
				a.frames[name] = f.toFrame(i)
			}
		}
	} else {
		var frames map[string]jsonFrame
		if err := json.Unmarshal(doc.Frames, &frames); err != nil {
			return nil, fmt.Errorf("canopy: parse actor frames: %w", err)
		}
		for name, f := range frames {
			a.frames[name] = f.toFrame(0)
		}
	}

	if len(a.frames) == 0 {
		return nil, ErrNoFrames
	}
	names := make([]string, 0, len(a.frames))
	for name := range a.frames {
		names = append(names, name)
	}
	sort.Strings(names)
	a.setup = a.frames[names[0]]

	fps := doc.Meta.FPS
	if fps <= 0 {
		fps = defaultActorFPS
	}
	for trackName, frameNames := range doc.Animations {
		t := &Track{Name: trackName, FPS: fps, Loop: true}
		for _, fn := range frameNames {
			f, ok := a.frames[fn]
			if !ok {
				return nil, fmt.Errorf("canopy: track %q references unknown frame %q", trackName, fn)
			}
			t.Frames = append(t.Frames, f)
		}
		a.tracks[trackName] = t
	}

	return a, nil
}

// ActorPageNames returns the page image file names referenced by an actor
// document, in page order.
func ActorPageNames(jsonData []byte) ([]string, error) {
	doc, err := parseActorDoc(jsonData)
	if err != nil {
		return nil, err
	}
	if doc.Textures != nil {
		var textures []jsonTexturePage
		if err := json.Unmarshal(doc.Textures, &textures); err != nil {
			return nil, fmt.Errorf("canopy: parse actor textures: %w", err)
		}
		names := make([]string, len(textures))
		for i, tex := range textures {
			names[i] = tex.Image
		}
		return names, nil
	}
	if doc.Meta.Image == "" {
		return nil, fmt.Errorf("canopy: actor meta has no image")
	}
	return []string{doc.Meta.Image}, nil
}

// --- JSON structure types ---

type actorDoc struct {
	Frames     json.RawMessage     `json:"frames"`
	Textures   json.RawMessage     `json:"textures"`
	Animations map[string][]string `json:"animations"`
	Meta       struct {
		Image string  `json:"image"`
		FPS   float64 `json:"fps"`
	} `json:"meta"`
}

func parseActorDoc(data []byte) (*actorDoc, error) {
	var doc actorDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("canopy: failed to parse actor JSON: %w", err)
	}
	if doc.Frames == nil && doc.Textures == nil {
		return nil, fmt.Errorf("canopy: actor JSON has neither \"frames\" nor \"textures\" key")
	}
	return &doc, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (f jsonFrame) toFrame(page int) Frame {
	return Frame{
		Page:    page,
		Src:     image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
		OffsetX: float64(f.SpriteSourceSize.X),
		OffsetY: float64(f.SpriteSourceSize.Y),
	}
}

// --- Node component ---

// ActorView binds a node to a Game actor by key and plays named tracks on
// its own instance.
type ActorView struct {
	Key    string
	Scale  float64
	Tracks []string

	actor       *Actor
	instance    *ActorInstance
	anims       []*AnimationInstance
	lastAdvance time.Time
}

// NewActor creates an actor node at (x, y) drawing the Game actor stored
// under key, scaled by scale, and advancing the named tracks.
func NewActor(x, y float64, key string, scale float64, tracks ...string) *Node {
	n := NewNode(x, y)
	n.Type = NodeTypeActor
	n.Actor = &ActorView{Key: key, Scale: scale, Tracks: tracks}
	return n
}

// Instance returns the bound instance, or nil when the actor is missing.
func (v *ActorView) Instance() *ActorInstance {
	return v.instance
}

// init binds a fresh instance, disposing any previous one.
func (v *ActorView) init(n *Node) {
	v.release()
	game := n.Game()
	v.lastAdvance = game.now()
	if game == nil {
		return
	}
	v.actor = game.Actor(v.Key)
	if v.actor == nil {
		game.log.Warn().Str("actor", v.Key).Msg("actor not loaded")
		return
	}
	v.instance = v.actor.NewInstance()
	for _, name := range v.Tracks {
		t := v.actor.Track(name)
		if t == nil {
			game.log.Warn().Str("actor", v.Key).Str("track", name).Msg("unknown track")
			continue
		}
		v.anims = append(v.anims, NewAnimationInstance(t))
	}
}

func (v *ActorView) draw(n *Node, g Graphics, offX, offY float64) {
	game := n.Game()
	now := game.now()
	elapsed := now.Sub(v.lastAdvance)
	v.lastAdvance = now
	if game != nil && game.maxFrameDelta > 0 && elapsed > game.maxFrameDelta {
		elapsed = game.maxFrameDelta
	}
	if v.instance == nil {
		return
	}
	secs := elapsed.Seconds()
	for _, a := range v.anims {
		a.Time += secs
		a.Apply(v.instance)
	}
	g.Save()
	g.SetView(ScaleTranslate(v.Scale, offX+n.X, offY+n.Y))
	v.instance.Draw(g)
	g.Restore()
}

func (v *ActorView) release() {
	if v.instance != nil {
		v.instance.Dispose()
		v.instance = nil
	}
	v.actor = nil
	v.anims = nil
}
