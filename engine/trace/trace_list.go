package trace

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
)

// TraceListData caches the world leafs and candidate entities of one volume so that many
// traces inside it skip the tree walk and the partition query. It belongs to the caller.
type TraceListData struct {
	leafs    []int
	entities []cmodel.HandleEntity
	mins     mgl32.Vec3
	maxs     mgl32.Vec3
	valid    bool
	warned   bool
}

func NewTraceListData() *TraceListData {
	return &TraceListData{}
}

// Reset drops the cached volume; the buffers are kept.
func (d *TraceListData) Reset() {
	d.leafs = d.leafs[:0]
	d.entities = d.entities[:0]
	d.mins, d.maxs = mgl32.Vec3{}, mgl32.Vec3{}
	d.valid = false
}

func (d *TraceListData) LeafCount() int {
	return len(d.leafs)
}

func (d *TraceListData) EntityCount() int {
	return len(d.entities)
}

// CanTraceRay reports whether the whole sweep of ray lies inside the cached volume.
func (d *TraceListData) CanTraceRay(ray cmodel.Ray) bool {
	if !d.valid {
		return false
	}
	mins, maxs := ray.Bounds()
	return util.PointInBox(mins, d.mins, d.maxs) && util.PointInBox(maxs, d.mins, d.maxs)
}

func (t *EngineTrace) addListEntity(data *TraceListData) func(entity cmodel.HandleEntity) bool {
	return func(entity cmodel.HandleEntity) bool {
		if len(data.entities) >= t.cfg.MaxTraceListEntities {
			t.count(StatCapOverflow)
			if !data.warned {
				data.warned = true
				util.LogTraceWarning(fmt.Sprintf("trace list is full at %d entities, the rest is ignored", t.cfg.MaxTraceListEntities))
			}
			return false
		}
		data.entities = append(data.entities, entity)
		return true
	}
}

func (t *EngineTrace) leafListFull() {
	t.count(StatCapOverflow)
	t.warnOnce(&t.listWarned, fmt.Sprintf("trace list is full at %d leafs", t.cfg.MaxLeafListCount))
}

// SetupLeafAndEntityListRay caches everything along the ray. Unswept rays cache their box.
func (t *EngineTrace) SetupLeafAndEntityListRay(ray cmodel.Ray, data *TraceListData) {
	if !ray.IsSwept {
		mins, maxs := ray.Bounds()
		t.SetupLeafAndEntityListBox(mins, maxs, data)
		return
	}
	data.Reset()
	var complete bool
	data.leafs, complete = t.world.RayLeafnums(ray, data.leafs, t.cfg.MaxLeafListCount)
	if !complete {
		t.leafListFull()
	}
	t.partition.EnumerateElementsAlongRay(t.resolver.SolidLists(), ray, t.addListEntity(data))
	data.mins, data.maxs = ray.Bounds()
	data.valid = true
}

// SetupLeafAndEntityListBox caches everything touching the box.
func (t *EngineTrace) SetupLeafAndEntityListBox(mins, maxs mgl32.Vec3, data *TraceListData) {
	data.Reset()
	var complete bool
	data.leafs, complete = t.world.BoxLeafnums(mins, maxs, data.leafs, t.cfg.MaxLeafListCount)
	if !complete {
		t.leafListFull()
	}
	t.partition.EnumerateElementsInBox(t.resolver.SolidLists(), mins, maxs, t.addListEntity(data))
	data.mins, data.maxs = mins, maxs
	data.valid = true
}

// TraceRayAgainstLeafAndEntityList works like TraceRay but only considers what data has
// cached. The ray must lie inside the cached volume.
func (t *EngineTrace) TraceRayAgainstLeafAndEntityList(ray cmodel.Ray, data *TraceListData, mask cmodel.Contents, filter Filter, tr *cmodel.Trace) {
	if !data.CanTraceRay(ray) {
		util.LogTraceDebug(fmt.Sprintf("ray %v..%v leaves the cached volume %v..%v", ray.Start, ray.End(), data.mins, data.maxs))
	}
	traceWorld := func(tr *cmodel.Trace) {
		t.world.BoxTraceAgainstLeafList(ray, data.leafs, mask, tr)
	}
	candidates := func(cmodel.Ray) []cmodel.HandleEntity {
		return data.entities
	}
	t.traceRay(ray, mask, filter, nil, traceWorld, candidates, tr)
}
