package canopy

// syntheticPointerEvent represents a single injected pointer event in
// surface coordinates.
type syntheticPointerEvent struct {
	x, y  float64
	click bool
}

// InjectMove queues a pointer move at (x, y). Each Update consumes one
// queued event.
func (g *Game) InjectMove(x, y float64) {
	g.injectQueue = append(g.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a move to (x, y) followed by a click there. Consumes
// two frames.
func (g *Game) InjectClick(x, y float64) {
	g.InjectMove(x, y)
	g.injectQueue = append(g.injectQueue, syntheticPointerEvent{x: x, y: y, click: true})
}

// InjectPath queues moves along the line from (fromX, fromY) to (toX, toY),
// one per frame, ending exactly at the destination. Minimum frames is 1.
func (g *Game) InjectPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	for i := 1; i <= frames; i++ {
		t := float64(i) / float64(frames)
		g.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// PendingInjections returns the number of queued synthetic events.
func (g *Game) PendingInjections() int {
	return len(g.injectQueue)
}

// processInjectedInput pops one event from the inject queue and dispatches
// it to the pointer registry. Returns true if an event was consumed.
func (g *Game) processInjectedInput() bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]

	if evt.click {
		g.pointers.Click(evt.x, evt.y)
	} else {
		g.pointers.Move(evt.x, evt.y)
	}
	return true
}
