package trace

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
	"github.com/pkg/errors"
)

const (
	phaseWorld    = "trace_world"
	phaseEntities = "trace_entities"
)

// EntityEnumerator is called for every entity found by the enumeration queries. Returning
// false stops the enumeration.
type EntityEnumerator func(entity cmodel.HandleEntity) bool

// EngineTrace answers ray, sweep and point queries against the world, static props and
// entities of one side. It keeps no per query state, so traces may nest: a clipper is
// free to issue further traces while a trace is running.
type EngineTrace struct {
	cfg       Config
	world     WorldCollision
	partition SpatialPartition
	props     StaticPropRegistry
	physics   PhysicsCollision
	models    ModelInfo
	resolver  EntityResolver

	stats      Stats
	timer      *util.Timer
	dispWarned atomic.Bool
	listWarned atomic.Bool
}

// New creates a tracer. The world, the partition and the resolver are required.
func New(cfg Config, deps Dependencies, resolver EntityResolver) *EngineTrace {
	if deps.World == nil || deps.Partition == nil || resolver == nil {
		panic(errors.New("engine trace needs a world, a spatial partition and an entity resolver"))
	}
	t := &EngineTrace{
		cfg:       cfg,
		world:     deps.World,
		partition: deps.Partition,
		props:     deps.StaticProps,
		physics:   deps.Physics,
		models:    deps.Models,
		resolver:  resolver,
	}
	if cfg.ProfilePhases {
		t.timer = util.NewTimer()
	}
	return t
}

// NewServer creates the tracer of the server side.
func NewServer(cfg Config, deps Dependencies, entities EntityLookup) *EngineTrace {
	return New(cfg, deps, NewServerResolver(entities, deps.StaticProps))
}

// NewClient creates the tracer of the client side.
func NewClient(cfg Config, deps Dependencies, entities EntityLookup) *EngineTrace {
	return New(cfg, deps, NewClientResolver(entities, deps.StaticProps))
}

func (t *EngineTrace) Config() Config {
	return t.cfg
}

func (t *EngineTrace) Stats() *Stats {
	return &t.stats
}

// GetStatByIndex returns a counter, or 0 when stats are off or the index is unknown.
func (t *EngineTrace) GetStatByIndex(index int) int64 {
	return t.stats.Get(Stat(index))
}

// Timer holds the phase timings, nil unless ProfilePhases is set.
func (t *EngineTrace) Timer() *util.Timer {
	return t.timer
}

func (t *EngineTrace) count(stat Stat) {
	if t.cfg.CollectStats {
		t.stats.add(stat, 1)
	}
}

func (t *EngineTrace) startPhase(name string) func() float64 {
	if t.timer == nil {
		return func() float64 { return 0 }
	}
	return t.timer.Start(name)
}

// TraceRay traces against the world, then against every entity and static prop along
// the part of the ray that is left.
func (t *EngineTrace) TraceRay(ray cmodel.Ray, mask cmodel.Contents, filter Filter, tr *cmodel.Trace) {
	t.traceRay(ray, mask, filter, nil, t.worldTrace(ray, mask), t.partitionCandidates, tr)
}

// SweepCollideable sweeps the bounds of c from start to end. Physics models sweep the
// bounds of their collision model rotated by angles.
func (t *EngineTrace) SweepCollideable(c cmodel.Collideable, start, end, angles mgl32.Vec3, mask cmodel.Contents, filter Filter, tr *cmodel.Trace) {
	var rootParent *mgl32.Mat4
	if c.GetSolidFlags()&cmodel.SolidFlagRootParentAligned != 0 {
		rootParent = c.GetRootParentToWorldTransform()
	}
	mins, maxs := c.OBBMins(), c.OBBMaxs()
	if c.GetSolid() == cmodel.SolidVPhysics && t.physics != nil && t.models != nil {
		if collide := t.models.GetVCollide(c.GetCollisionModel()); collide != nil && len(collide.Solids) > 0 {
			mins, maxs = t.physics.CollideGetAABB(collide.Solids[0], mgl32.Vec3{}, angles)
		}
	}
	ray := cmodel.NewSweptBox(start, end, mins, maxs)
	t.traceRay(ray, mask, filter, rootParent, t.worldTrace(ray, mask), t.partitionCandidates, tr)
}

func (t *EngineTrace) worldTrace(ray cmodel.Ray, mask cmodel.Contents) func(tr *cmodel.Trace) {
	return func(tr *cmodel.Trace) {
		t.world.BoxTrace(ray, 0, mask, tr)
	}
}

func (t *EngineTrace) partitionCandidates(ray cmodel.Ray) []cmodel.HandleEntity {
	var found []cmodel.HandleEntity
	t.partition.EnumerateElementsAlongRay(t.resolver.SolidLists(), ray, func(entity cmodel.HandleEntity) bool {
		found = append(found, entity)
		return true
	})
	return found
}

// traceRay runs the world phase through traceWorld, then clips the shortened ray against
// the candidates and merges the results.
func (t *EngineTrace) traceRay(ray cmodel.Ray, mask cmodel.Contents, filter Filter, rootParent *mgl32.Mat4, traceWorld func(tr *cmodel.Trace), candidates func(ray cmodel.Ray) []cmodel.HandleEntity, tr *cmodel.Trace) {
	t.count(StatTraceRay)
	if filter == nil {
		filter = FilterHitAll{}
	}
	traceType := filter.GetTraceType()

	tr.Clear()
	if traceType != TraceEntitiesOnly {
		stop := t.startPhase(phaseWorld)
		traceWorld(tr)
		stop()
		t.count(StatWorldTrace)
		t.resolver.SetTraceEntity(t.resolver.WorldCollideable(), tr)
		if tr.Fraction == 0 || traceType == TraceWorldOnly {
			finishTrace(ray, 1, tr)
			return
		}
	} else {
		tr.StartPos = ray.Origin()
		tr.EndPos = tr.StartPos.Add(ray.Delta)
	}

	// entity fractions are relative to the part of the ray in front of the world hit
	worldFraction := tr.Fraction
	entityRay := ray.Scaled(worldFraction)
	tr.FractionLeftSolid /= worldFraction
	tr.Fraction = 1

	stop := t.startPhase(phaseEntities)
	defer stop()
	var entityTrace cmodel.Trace
	for _, entity := range candidates(entityRay) {
		t.count(StatEntityCandidate)
		if t.resolver.IsStaticProp(entity) {
			if traceType == TraceEntitiesOnly {
				continue
			}
			if traceType == TraceEverythingFilterProps && !filter.ShouldHitEntity(entity, mask) {
				continue
			}
		} else if !filter.ShouldHitEntity(entity, mask) {
			continue
		}

		c := t.resolver.HandleToCollideable(entity)
		if c == nil || !cmodel.IsSolid(c.GetSolid(), c.GetSolidFlags()) {
			continue
		}
		t.count(StatEntityClip)
		t.clipRayToCollideable(entityRay, mask, c, rootParent, &entityTrace)
		mergeTrace(&entityTrace, tr)
		if tr.AllSolid {
			break
		}
	}
	finishTrace(ray, worldFraction, tr)
}

// finishTrace scales the fractions back to the full ray and recomputes the end point.
// Swept boxes always report the ray origin as start position.
func finishTrace(ray cmodel.Ray, scale float32, tr *cmodel.Trace) {
	tr.Fraction *= scale
	tr.FractionLeftSolid *= scale
	if tr.FractionLeftSolid > tr.Fraction {
		tr.FractionLeftSolid = tr.Fraction
	}
	tr.EndPos = ray.Origin().Add(ray.Delta.Mul(tr.Fraction))
	if !ray.IsRay {
		tr.StartPos = ray.Origin()
		tr.FractionLeftSolid = 0
	}
}

// ClipRayToEntity clips the ray against one partition element.
func (t *EngineTrace) ClipRayToEntity(ray cmodel.Ray, mask cmodel.Contents, entity cmodel.HandleEntity, tr *cmodel.Trace) {
	var c cmodel.Collideable
	if entity != nil {
		c = t.resolver.HandleToCollideable(entity)
	}
	t.clipRayToCollideable(ray, mask, c, nil, tr)
}

// ClipRayToCollideable clips the ray against a single collideable, ignoring the world.
func (t *EngineTrace) ClipRayToCollideable(ray cmodel.Ray, mask cmodel.Contents, c cmodel.Collideable, tr *cmodel.Trace) {
	t.clipRayToCollideable(ray, mask, c, nil, tr)
}

func (t *EngineTrace) clipRayToCollideable(ray cmodel.Ray, mask cmodel.Contents, c cmodel.Collideable, rootParent *mgl32.Mat4, tr *cmodel.Trace) {
	tr.Clear()
	tr.StartPos = ray.Origin()
	tr.EndPos = tr.StartPos.Add(ray.Delta)
	if c == nil {
		return
	}

	req := clipRequest{
		ray:         ray,
		mask:        mask,
		collideable: c,
		model:       c.GetCollisionModel(),
		rootParent:  rootParent,
	}
	if req.model.IsStudio() {
		if t.models != nil {
			req.studio = t.models.GetStudioModel(req.model)
		}
		if req.studio == nil {
			panic(errors.Errorf("studio model %s is not loaded", req.model.Name))
		}
		if mask&cmodel.ContentsHitbox == 0 && mask&req.studio.Contents == 0 {
			return
		}
	}
	if c.GetSolidFlags()&cmodel.SolidFlagRootParentAligned != 0 {
		req.rootParent = c.GetRootParentToWorldTransform()
	}

	var st clipState
	for i := range clippers {
		stage := &clippers[i]
		if !stage.applies(&req, &st) {
			continue
		}
		t.count(stage.stat)
		if stage.clip(t, &req, &st, tr) {
			st.traced = true
		}
	}

	if req.studio != nil && !st.tracedHitboxes && tr.DidHit() && (!st.customPerformed || tr.Surface.SurfaceProps == 0) {
		tr.Contents = req.studio.Contents
		tr.Surface = cmodel.Surface{Name: cmodel.SurfaceNameStudio, SurfaceProps: req.studio.SurfaceProp}
	}
	if tr.FractionLeftSolid > tr.Fraction {
		tr.FractionLeftSolid = tr.Fraction
	}
	if tr.Ent == nil && tr.DidHit() {
		t.resolver.SetTraceEntity(c, tr)
	}
}

// EnumerateEntitiesAlongRay reports the entities whose bounds the ray touches, triggers
// instead of solid entities when triggers is set. Static props are never reported.
func (t *EngineTrace) EnumerateEntitiesAlongRay(ray cmodel.Ray, triggers bool, fn EntityEnumerator) {
	lists := t.resolver.SolidLists()
	if triggers {
		lists = t.resolver.TriggerLists()
	}
	if lists == 0 {
		return
	}
	t.partition.EnumerateElementsAlongRay(lists, ray, t.skipStaticProps(fn))
}

// EnumerateEntitiesInBox reports the solid entities whose bounds touch the box.
func (t *EngineTrace) EnumerateEntitiesInBox(mins, maxs mgl32.Vec3, fn EntityEnumerator) {
	t.partition.EnumerateElementsInBox(t.resolver.SolidLists(), mins, maxs, t.skipStaticProps(fn))
}

func (t *EngineTrace) skipStaticProps(fn EntityEnumerator) func(entity cmodel.HandleEntity) bool {
	return func(entity cmodel.HandleEntity) bool {
		if t.resolver.IsStaticProp(entity) {
			return true
		}
		return fn(entity)
	}
}

func (t *EngineTrace) warnOnce(flag *atomic.Bool, msg string) {
	if flag.CompareAndSwap(false, true) {
		util.LogTraceWarning(msg)
	}
}

func (t *EngineTrace) String() string {
	return fmt.Sprintf("EngineTrace{solid lists: %d, trigger lists: %d}", t.resolver.SolidLists(), t.resolver.TriggerLists())
}
