package entity

import (
	"fmt"

	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/model"
	"github.com/memmaker/enginetrace/engine/partition"
	"github.com/memmaker/enginetrace/engine/util"
)

const MaxEntities = 1 << 13

// List owns the entities of one side (server or client) and keeps them linked into the
// spatial partition.
type List struct {
	entities     []*BaseEntity
	serials      []int
	free         []int
	grid         *partition.Grid
	solidLists   partition.ListMask
	triggerLists partition.ListMask
}

// NewList creates a list holding only the world entity. Solid entities are linked into
// solidLists, triggers into triggerLists (zero keeps triggers out of the partition).
func NewList(grid *partition.Grid, solidLists, triggerLists partition.ListMask) *List {
	l := &List{
		grid:         grid,
		solidLists:   solidLists,
		triggerLists: triggerLists,
	}
	world := l.Spawn("worldspawn")
	world.collision.solid = cmodel.SolidBSP
	return l
}

func NewServerList(grid *partition.Grid) *List {
	return NewList(grid, partition.EngineSolidEdicts, partition.EngineTriggerEdicts)
}

func NewClientList(grid *partition.Grid) *List {
	return NewList(grid, partition.ClientSolidEdicts, 0)
}

// Spawn allocates a new entity without collision.
func (l *List) Spawn(className string) *BaseEntity {
	var index int
	if n := len(l.free); n > 0 {
		index = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		if len(l.entities) >= MaxEntities {
			util.LogEntityWarning(fmt.Sprintf("entity list full, cannot spawn %s", className))
			return nil
		}
		index = len(l.entities)
		l.entities = append(l.entities, nil)
		l.serials = append(l.serials, 0)
	}
	l.serials[index]++
	e := &BaseEntity{
		index:     index,
		serial:    l.serials[index],
		className: className,
		list:      l,
		handle:    partition.InvalidHandle,
	}
	e.collision.owner = e
	l.entities[index] = e
	util.LogEntityDebug(fmt.Sprintf("spawned %s as %d", className, index))
	return e
}

func (l *List) Remove(e *BaseEntity) {
	if e == nil || e.IsWorld() || l.Lookup(e.index) != e {
		return
	}
	if e.handle != partition.InvalidHandle && l.grid != nil {
		l.grid.Remove(e.handle)
		e.handle = partition.InvalidHandle
	}
	e.list = nil
	l.entities[e.index] = nil
	l.free = append(l.free, e.index)
}

func (l *List) World() *BaseEntity {
	return l.entities[0]
}

// SetWorldModel sets the collision model of the world entity, normally the brush model "*0".
func (l *List) SetWorldModel(m *model.Model) {
	l.World().collision.model = m
	if m != nil {
		l.World().collision.mins, l.World().collision.maxs = m.Mins, m.Maxs
	}
}

func (l *List) Lookup(index int) *BaseEntity {
	if index < 0 || index >= len(l.entities) {
		return nil
	}
	return l.entities[index]
}

// LookupHandle resolves a handle, nil if the entity has been removed since.
func (l *List) LookupHandle(h cmodel.EHandle) *BaseEntity {
	if !h.IsValid() || h.IsStaticProp() {
		return nil
	}
	e := l.Lookup(h.Index())
	if e == nil || e.serial&0x7FFF != h.Serial() {
		return nil
	}
	return e
}

func (l *List) Count() int {
	return len(l.entities) - len(l.free)
}

// LookupCollideable resolves the collideable of a handle; nil interface when absent.
func (l *List) LookupCollideable(h cmodel.EHandle) cmodel.Collideable {
	if e := l.LookupHandle(h); e != nil {
		return &e.collision
	}
	return nil
}

func (l *List) LookupEntity(h cmodel.EHandle) cmodel.Entity {
	if e := l.LookupHandle(h); e != nil {
		return e
	}
	return nil
}

func (l *List) WorldEntity() cmodel.Entity {
	return l.World()
}

// WorldCollideable is nil until the world model is set.
func (l *List) WorldCollideable() cmodel.Collideable {
	if l.World().collision.model == nil {
		return nil
	}
	return &l.World().collision
}

func (l *List) listsFor(c *CollisionProperty) partition.ListMask {
	if c.solid == cmodel.SolidNone {
		return 0
	}
	if c.solidFlags&cmodel.SolidFlagTrigger != 0 {
		return l.triggerLists
	}
	return l.solidLists
}
