package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/canopy"
)

// InteractionEventType is the Donburi event type for canopy pointer events.
var InteractionEventType = events.NewEventType[canopy.InteractionEvent]()

// NodeData links an entity to the scene node that represents it.
type NodeData struct {
	Node *canopy.Node
}

// Node is the component holding NodeData.
var Node = donburi.NewComponentType[NodeData]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Events are queued; consume them with Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) canopy.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event canopy.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Bind creates an entity carrying a Node component for n and sets
// n.EntityID to the entity's id.
func Bind(world donburi.World, n *canopy.Node) donburi.Entity {
	e := world.Create(Node)
	Node.SetValue(world.Entry(e), NodeData{Node: n})
	n.EntityID = uint32(e.Id())
	return e
}

// NodeOf returns the node bound to the entity with the given id, or nil.
func NodeOf(world donburi.World, id uint32) *canopy.Node {
	var found *canopy.Node
	Node.Each(world, func(entry *donburi.Entry) {
		if found != nil {
			return
		}
		if d := Node.Get(entry); d.Node != nil && uint32(entry.Entity().Id()) == id {
			found = d.Node
		}
	})
	return found
}
