package trace

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/model"
	"github.com/memmaker/enginetrace/engine/studio"
	"github.com/memmaker/enginetrace/engine/util"
	"github.com/pkg/errors"
)

// clipRequest is one ray against one collideable.
type clipRequest struct {
	ray         cmodel.Ray
	mask        cmodel.Contents
	collideable cmodel.Collideable
	model       *model.Model
	studio      *studio.Model
	rootParent  *mgl32.Mat4
}

type clipState struct {
	traced          bool
	customPerformed bool
	tracedHitboxes  bool
}

// clipper is one stage of the clip chain. clip reports whether the stage produced the
// answer for this collideable; later stages only run while nothing has.
type clipper struct {
	stat    Stat
	applies func(req *clipRequest, st *clipState) bool
	clip    func(t *EngineTrace, req *clipRequest, st *clipState, tr *cmodel.Trace) bool
}

var clippers = [...]clipper{
	{stat: StatCustomClip, applies: wantsCustomTest, clip: clipCustom},
	{stat: StatVPhysicsClip, applies: wantsVPhysics, clip: clipVPhysics},
	{stat: StatBSPClip, applies: wantsBSP, clip: clipBSP},
	{stat: StatOBBClip, applies: wantsOBB, clip: clipOBB},
	{stat: StatHitboxClip, applies: wantsHitboxes, clip: clipHitboxes},
	{stat: StatBBoxClip, applies: wantsBBox, clip: clipBBox},
}

func wantsCustomTest(req *clipRequest, st *clipState) bool {
	c := req.collideable
	if c.GetSolid() == cmodel.SolidCustom {
		return true
	}
	if req.ray.IsRay {
		return c.GetSolidFlags()&cmodel.SolidFlagCustomRayTest != 0
	}
	return c.GetSolidFlags()&cmodel.SolidFlagCustomBoxTest != 0
}

func clipCustom(t *EngineTrace, req *clipRequest, st *clipState, tr *cmodel.Trace) bool {
	st.customPerformed = true
	req.collideable.TestCollision(req.ray, req.mask, tr)
	return true
}

func wantsVPhysics(req *clipRequest, st *clipState) bool {
	return !st.traced && req.collideable.GetSolid() == cmodel.SolidVPhysics
}

// clipVPhysics traces against the collision model. Brush models only take this path for
// swept boxes, rays are cheaper through the BSP.
func clipVPhysics(t *EngineTrace, req *clipRequest, st *clipState, tr *cmodel.Trace) bool {
	if t.physics == nil || t.models == nil || req.model == nil {
		return false
	}
	c := req.collideable
	if req.studio != nil {
		collide := t.models.GetVCollide(req.model)
		if collide == nil || len(collide.Solids) == 0 {
			return false
		}
		t.physics.TraceBox(req.ray, req.mask, req.studio.ConvexInfo(), collide.Solids[0], c.GetCollisionOrigin(), c.GetCollisionAngles(), tr)
		return true
	}
	if req.ray.IsRay && req.model.IsBrush() {
		return false
	}
	collide := t.models.GetVCollide(req.model)
	if collide == nil || len(collide.Solids) == 0 {
		return false
	}
	t.physics.TraceBox(req.ray, req.mask, brushConvexInfo{t.world}, collide.Solids[0], c.GetCollisionOrigin(), c.GetCollisionAngles(), tr)
	return true
}

// brushConvexInfo maps collide game data (a brush index) to the brush contents.
type brushConvexInfo struct {
	world WorldCollision
}

func (b brushConvexInfo) GetContents(gameData int) cmodel.Contents {
	_, contents, ok := b.world.BrushInfo(gameData)
	if !ok {
		return cmodel.ContentsSolid
	}
	return contents
}

func wantsBSP(req *clipRequest, st *clipState) bool {
	return !st.traced && req.model.IsBrush()
}

func clipBSP(t *EngineTrace, req *clipRequest, st *clipState, tr *cmodel.Trace) bool {
	headNode, ok := t.world.InlineModelHeadNode(req.model.SubModel)
	if !ok {
		panic(errors.Errorf("model %s references missing inline model %d", req.model.Name, req.model.SubModel))
	}
	c := req.collideable
	t.world.TransformedBoxTrace(req.ray, headNode, req.mask, c.GetCollisionOrigin(), c.GetCollisionAngles(), tr)
	return true
}

func wantsOBB(req *clipRequest, st *clipState) bool {
	return !st.traced && req.collideable.GetSolid() == cmodel.SolidOBB
}

func clipOBB(t *EngineTrace, req *clipRequest, st *clipState, tr *cmodel.Trace) bool {
	c := req.collideable
	var extents mgl32.Vec3
	if !req.ray.IsRay {
		extents = req.ray.Extents
	}
	hit, normal, ok := util.IntersectRayWithOBB(req.ray.Start, req.ray.Delta, extents, cmodel.CollisionToWorldTransform(c), c.OBBMins(), c.OBBMaxs(), cmodel.DistEpsilon)
	if ok {
		applyBoxHit(req.ray, hit, normal, false, tr)
	}
	return true
}

// wantsHitboxes only takes true rays. A ray that misses every hitbox is a miss, swept
// boxes fall through to the bounding box.
func wantsHitboxes(req *clipRequest, st *clipState) bool {
	return req.ray.IsRay && req.studio != nil && req.mask&cmodel.ContentsHitbox != 0 && !st.customPerformed
}

func clipHitboxes(t *EngineTrace, req *clipRequest, st *clipState, tr *cmodel.Trace) bool {
	st.tracedHitboxes = clipRayToHitboxes(req, tr)
	return true
}

func clipRayToHitboxes(req *clipRequest, tr *cmodel.Trace) bool {
	var hitboxTrace cmodel.Trace
	hitboxTrace.Clear()
	hitboxTrace.Contents = tr.Contents
	hitboxTrace.StartPos = req.ray.Origin()
	hitboxTrace.EndPos = hitboxTrace.StartPos.Add(req.ray.Delta)

	c := req.collideable
	if !c.TestHitboxes(req.ray, req.mask, &hitboxTrace) || !hitboxTrace.DidHit() {
		return false
	}
	// a physics model has already reported where the ray leaves the solid
	if c.GetSolid() != cmodel.SolidVPhysics && tr.StartSolid {
		hitboxTrace.StartSolid = true
		hitboxTrace.FractionLeftSolid = tr.FractionLeftSolid
		hitboxTrace.StartPos = tr.StartPos
	}
	*tr = hitboxTrace
	return true
}

func wantsBBox(req *clipRequest, st *clipState) bool {
	return !st.traced
}

// clipBBox is the fallback: the world aligned collision bounds at the collision origin.
// Swept boxes of entities aligned to a root parent are tested in the parent's space.
func clipBBox(t *EngineTrace, req *clipRequest, st *clipState, tr *cmodel.Trace) bool {
	c := req.collideable
	ray := req.ray
	mins, maxs := c.OBBMins(), c.OBBMaxs()
	if ray.IsRay || req.rootParent == nil {
		origin := c.GetCollisionOrigin()
		boxMins := origin.Add(mins).Sub(ray.Extents)
		boxMaxs := origin.Add(maxs).Add(ray.Extents)
		if hit, ok := util.IntersectRayWithBox(ray.Start, ray.Delta, boxMins, boxMaxs, 0); ok {
			applyBoxHit(ray, hit, hit.Normal(), true, tr)
		}
		return true
	}

	toWorld := *req.rootParent
	start := util.ITransformPoint(toWorld, ray.Start)
	delta := util.IRotate(toWorld, ray.Delta)
	origin := util.ITransformPoint(toWorld, c.GetCollisionOrigin())
	hit, ok := util.IntersectRayWithBox(start, delta, origin.Add(mins).Sub(ray.Extents), origin.Add(maxs).Add(ray.Extents), 0)
	if !ok {
		return true
	}
	applyBoxHit(ray, hit, util.Rotate(toWorld, hit.Normal()), true, tr)
	return true
}

// applyBoxHit turns a slab test result into trace fields. normal is in world space.
func applyBoxHit(ray cmodel.Ray, hit util.BoxHit, normal mgl32.Vec3, leftSolid bool, tr *cmodel.Trace) {
	if hit.StartSolid {
		tr.StartSolid = true
		if hit.T2 >= 1 {
			tr.AllSolid = true
			tr.Fraction = 0
			tr.FractionLeftSolid = 0
		} else if leftSolid {
			tr.FractionLeftSolid = hit.T2
		}
	} else {
		tr.Fraction = hit.T1
	}
	tr.Contents = cmodel.ContentsSolid
	tr.StartPos = ray.Origin()
	tr.EndPos = tr.StartPos.Add(ray.Delta.Mul(tr.Fraction))
	if !hit.StartSolid {
		tr.Plane = cmodel.NewPlane(normal, tr.EndPos.Dot(normal))
	}
}
