package trace

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/model"
	"github.com/memmaker/enginetrace/engine/partition"
	"github.com/memmaker/enginetrace/engine/studio"
	"github.com/memmaker/enginetrace/engine/util"
	"github.com/memmaker/enginetrace/engine/vphysics"
)

// WorldCollision is the read-only view of the level's BSP. *bsp.World implements it.
type WorldCollision interface {
	BoxTrace(ray cmodel.Ray, headNode int, mask cmodel.Contents, tr *cmodel.Trace)
	TransformedBoxTrace(ray cmodel.Ray, headNode int, mask cmodel.Contents, origin, angles mgl32.Vec3, tr *cmodel.Trace)
	BoxTraceAgainstLeafList(ray cmodel.Ray, leafs []int, mask cmodel.Contents, tr *cmodel.Trace)
	PointContents(p mgl32.Vec3, headNode int) cmodel.Contents
	TransformedPointContents(p mgl32.Vec3, headNode int, origin, angles mgl32.Vec3) cmodel.Contents
	PointLeafnum(p mgl32.Vec3) int
	LeafContents(leaf int) cmodel.Contents
	LeafCluster(leaf int) int
	BoxLeafnums(mins, maxs mgl32.Vec3, list []int, maxCount int) ([]int, bool)
	RayLeafnums(ray cmodel.Ray, list []int, maxCount int) ([]int, bool)
	InlineModelHeadNode(subModel int) (int, bool)
	BrushesInAABB(mins, maxs mgl32.Vec3, mask cmodel.Contents) []int
	BrushInfo(brush int) ([]mgl32.Vec4, cmodel.Contents, bool)
	DispTrianglesInAABB(mins, maxs mgl32.Vec3, limit int) ([]util.Triangle, bool)
}

// SpatialPartition is the broad phase. *partition.Grid implements it.
type SpatialPartition interface {
	EnumerateElementsAlongRay(lists partition.ListMask, ray cmodel.Ray, fn partition.EnumerateFunc)
	EnumerateElementsInBox(lists partition.ListMask, mins, maxs mgl32.Vec3, fn partition.EnumerateFunc)
	EnumerateElementsAtPoint(lists partition.ListMask, p mgl32.Vec3, fn partition.EnumerateFunc)
}

// StaticPropRegistry is implemented by *staticprop.Manager.
type StaticPropRegistry interface {
	IsStaticProp(entity cmodel.HandleEntity) bool
	GetStaticProp(entity cmodel.HandleEntity) cmodel.Collideable
	GetStaticPropIndex(c cmodel.Collideable) int
}

// PhysicsCollision is implemented by *vphysics.Physics.
type PhysicsCollision interface {
	TraceBox(ray cmodel.Ray, mask cmodel.Contents, info vphysics.ConvexInfo, solid *vphysics.Solid, origin, angles mgl32.Vec3, tr *cmodel.Trace)
	CollideGetAABB(solid *vphysics.Solid, origin, angles mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3)
}

// ModelInfo resolves the studio data and collision models of models. *studio.Cache implements it.
type ModelInfo interface {
	GetStudioModel(m *model.Model) *studio.Model
	GetVCollide(m *model.Model) *vphysics.Collide
}

// EntityLookup resolves entity handles of one side. *entity.List implements it.
type EntityLookup interface {
	LookupCollideable(h cmodel.EHandle) cmodel.Collideable
	LookupEntity(h cmodel.EHandle) cmodel.Entity
	WorldEntity() cmodel.Entity
	// WorldCollideable may be nil while the level is still loading.
	WorldCollideable() cmodel.Collideable
}

// Dependencies are the collaborators of an EngineTrace. Static props and physics are optional.
type Dependencies struct {
	World       WorldCollision
	Partition   SpatialPartition
	StaticProps StaticPropRegistry
	Physics     PhysicsCollision
	Models      ModelInfo
}
