// Package canopy is a small retained-mode 2D scene graph for [Ebitengine]
// and terminals.
//
// # Quick start
//
// A [Game] owns a scene root, a loading scene, a [PointerRegistry] and the
// assets it loads at start. [Run] opens a window and drives it:
//
//	root := canopy.NewContainer("root")
//	root.AddChild(canopy.NewClearColor(canopy.RGB(30, 30, 40)))
//	root.AddChild(canopy.NewText(40, 60, "hello", canopy.ColorWhite, "", 24))
//
//	game := canopy.NewGame(canopy.NewEbitenGraphics(), root, canopy.Options{})
//	canopy.Run(game, canopy.RunConfig{Title: "hello", Width: 640, Height: 480})
//
// Configuration can also come from YAML with [LoadConfig]; see
// [Config.Options] and [Config.RunConfig].
//
// # Scene graph
//
// Every element is a [Node]. Children are drawn after their parent at an
// offset accumulated from the parents' X and Y. The node's Type selects what
// it draws: containers draw nothing, [NewClearColor] wipes the surface,
// [NewColorCover] fills it, [NewText] draws a label and [NewActor] draws an
// animated actor loaded from a sprite sheet.
//
// Graphics resources are created lazily on a node's first draw. [Node.Destroy]
// releases them for the whole subtree.
//
// # Rebuilding and interaction
//
// [NewDelegate] regenerates a node's children from a build function
// whenever the node is marked dirty. [NewInteractive] adds a
// [PointerListener]: hover changes mark the node dirty, so build can branch
// on Pointer.Hovering().
//
// # Animation
//
// [Node.LerpPosition] and [Node.LerpColor] tween a node over a number of
// drawn frames. A color lerp also recolors the node's direct children.
//
// # Assets
//
// Options.Assets names actor descriptors under [ActorDir] and Options.Fonts
// names TTF files under [FontDir]. They are fetched concurrently from an
// [AssetSource] (a directory, an fs.FS or an HTTP server) while the loading
// scene is shown. Load results are applied on the frame goroutine by
// [Game.Update].
//
// # Testing
//
// [Game.InjectClick] and [Game.InjectPath] queue synthetic pointer input.
// [LoadTestScript] replays a JSON action list and takes screenshots
// through backends that implement [Screenshotter].
//
// [Ebitengine]: https://ebitengine.org
package canopy
