package trace

import (
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/partition"
)

// EntityResolver is everything a tracer needs to know about the entity system of its side.
type EntityResolver interface {
	// HandleToCollideable resolves a partition element; nil when it cannot be resolved yet.
	HandleToCollideable(entity cmodel.HandleEntity) cmodel.Collideable
	// CollideableEntity is the entity a hit on c is reported against. Static props report the world.
	CollideableEntity(c cmodel.Collideable) cmodel.Entity
	// SetTraceEntity attributes a hit to the owner of c.
	SetTraceEntity(c cmodel.Collideable, tr *cmodel.Trace)
	WorldCollideable() cmodel.Collideable
	WorldEntity() cmodel.Entity
	IsStaticProp(entity cmodel.HandleEntity) bool
	SolidLists() partition.ListMask
	TriggerLists() partition.ListMask
}

// ClientEntity is a partition element that knows its own collideable.
type ClientEntity interface {
	cmodel.HandleEntity
	cmodel.Entity
	GetCollideable() cmodel.Collideable
}

type baseResolver struct {
	entities EntityLookup
	props    StaticPropRegistry
}

func (r *baseResolver) IsStaticProp(entity cmodel.HandleEntity) bool {
	return r.props != nil && entity != nil && r.props.IsStaticProp(entity)
}

func (r *baseResolver) WorldCollideable() cmodel.Collideable {
	return r.entities.WorldCollideable()
}

func (r *baseResolver) WorldEntity() cmodel.Entity {
	return r.entities.WorldEntity()
}

func (r *baseResolver) staticProp(entity cmodel.HandleEntity) cmodel.Collideable {
	return r.props.GetStaticProp(entity)
}

// setTraceEntity stamps the owner of c onto a hit. Static prop hits point at the world and
// carry the prop index + 1 in the hitbox.
func setTraceEntity(r EntityResolver, props StaticPropRegistry, c cmodel.Collideable, tr *cmodel.Trace) {
	if !tr.DidHit() {
		return
	}
	if c == nil {
		tr.Ent = nil
		return
	}
	tr.Ent = r.CollideableEntity(c)
	if r.IsStaticProp(c.GetEntityHandle()) {
		tr.Hitbox = props.GetStaticPropIndex(c) + 1
	}
}

type serverResolver struct {
	baseResolver
}

// NewServerResolver resolves entities through their handles in the entity list.
func NewServerResolver(entities EntityLookup, props StaticPropRegistry) EntityResolver {
	return &serverResolver{baseResolver{entities: entities, props: props}}
}

func (r *serverResolver) HandleToCollideable(entity cmodel.HandleEntity) cmodel.Collideable {
	if r.IsStaticProp(entity) {
		return r.staticProp(entity)
	}
	return r.entities.LookupCollideable(entity.GetRefEHandle())
}

func (r *serverResolver) CollideableEntity(c cmodel.Collideable) cmodel.Entity {
	handle := c.GetEntityHandle()
	if r.IsStaticProp(handle) {
		return r.entities.WorldEntity()
	}
	if handle == nil {
		return nil
	}
	return r.entities.LookupEntity(handle.GetRefEHandle())
}

func (r *serverResolver) SetTraceEntity(c cmodel.Collideable, tr *cmodel.Trace) {
	setTraceEntity(r, r.props, c, tr)
}

func (r *serverResolver) SolidLists() partition.ListMask {
	return partition.EngineSolidEdicts | partition.EngineStaticProps
}

func (r *serverResolver) TriggerLists() partition.ListMask {
	return partition.EngineTriggerEdicts
}

type clientResolver struct {
	baseResolver
}

// NewClientResolver resolves entities through the partition elements themselves, see ClientEntity.
func NewClientResolver(entities EntityLookup, props StaticPropRegistry) EntityResolver {
	return &clientResolver{baseResolver{entities: entities, props: props}}
}

func (r *clientResolver) HandleToCollideable(entity cmodel.HandleEntity) cmodel.Collideable {
	if r.IsStaticProp(entity) {
		return r.staticProp(entity)
	}
	if ce, ok := entity.(ClientEntity); ok {
		return ce.GetCollideable()
	}
	return nil
}

func (r *clientResolver) CollideableEntity(c cmodel.Collideable) cmodel.Entity {
	handle := c.GetEntityHandle()
	if r.IsStaticProp(handle) {
		return r.entities.WorldEntity()
	}
	if ce, ok := handle.(ClientEntity); ok {
		return ce
	}
	return nil
}

func (r *clientResolver) SetTraceEntity(c cmodel.Collideable, tr *cmodel.Trace) {
	setTraceEntity(r, r.props, c, tr)
}

func (r *clientResolver) SolidLists() partition.ListMask {
	return partition.ClientSolidEdicts | partition.ClientStaticProps
}

func (r *clientResolver) TriggerLists() partition.ListMask {
	return 0
}
