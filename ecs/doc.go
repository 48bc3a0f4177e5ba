// Package ecs bridges canopy pointer events into a Donburi world.
//
// [NewDonburiStore] publishes every hover change and click as an
// [InteractionEventType] event. [Bind] creates an entity for a node and
// stamps the node's EntityID, so events can be traced back to entities.
//
// Usage:
//
//	world := donburi.NewWorld()
//	game.Pointers().SetEntityStore(ecs.NewDonburiStore(world))
//	ecs.Bind(world, button)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
