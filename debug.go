package canopy

import "time"

// globalDebug mirrors the most recently set Game debug flag so that node
// operations (which lack a Game pointer) can check it cheaply. Only valid
// with a single Game; multiple Games with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, tree depth and
// child count warnings are logged and per-frame stats are logged at debug
// level.
func (g *Game) SetDebugMode(enabled bool) {
	g.debug = enabled
	globalDebug = enabled
	if enabled {
		debugLog = g.log
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLog.Warn().Int("depth", depth).Int("max", debugMaxTreeDepth).
			Str("node", n.Name).Msg("tree depth exceeds threshold")
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLog.Warn().Int("children", len(n.children)).Int("max", debugMaxChildCount).
			Str("node", n.Name).Msg("child count exceeds threshold")
	}
}

// frameStats holds per-frame metrics. Only populated in debug mode.
type frameStats struct {
	drawTime  time.Duration
	nodes     int
	listeners int
}

// countNodes counts n and every descendant.
func countNodes(n *Node) int {
	count := 1
	for _, c := range n.children {
		count += countNodes(c)
	}
	return count
}

func (g *Game) debugFrame(stats frameStats) {
	if !g.debug {
		return
	}
	g.log.Debug().
		Uint64("frame", g.frames).
		Dur("draw", stats.drawTime).
		Int("nodes", stats.nodes).
		Int("listeners", stats.listeners).
		Msg("frame")
}
