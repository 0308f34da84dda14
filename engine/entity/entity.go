package entity

import (
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/partition"
)

// BaseEntity is an entry of the entity list. Index 0 is the world.
type BaseEntity struct {
	index     int
	serial    int
	className string
	list      *List
	handle    partition.Handle
	collision CollisionProperty
}

func (e *BaseEntity) EntIndex() int {
	return e.index
}

func (e *BaseEntity) GetRefEHandle() cmodel.EHandle {
	return cmodel.NewEHandle(e.index, e.serial)
}

func (e *BaseEntity) ClassName() string {
	return e.className
}

func (e *BaseEntity) IsWorld() bool {
	return e.index == 0
}

func (e *BaseEntity) Collision() *CollisionProperty {
	return &e.collision
}

// GetCollideable is how client code reaches the collideable of a partition element.
func (e *BaseEntity) GetCollideable() cmodel.Collideable {
	return &e.collision
}

// relink updates the partition after the collision state changed.
func (e *BaseEntity) relink() {
	if e.list == nil || e.list.grid == nil || e.IsWorld() {
		return
	}
	lists := e.list.listsFor(&e.collision)
	if lists == 0 {
		if e.handle != partition.InvalidHandle {
			e.list.grid.Remove(e.handle)
			e.handle = partition.InvalidHandle
		}
		return
	}
	mins, maxs := e.collision.WorldSpaceSurroundingBounds()
	if e.handle == partition.InvalidHandle {
		e.handle = e.list.grid.Insert(e, lists, mins, maxs)
		return
	}
	e.list.grid.SetLists(e.handle, lists)
	e.list.grid.Move(e.handle, mins, maxs)
}
