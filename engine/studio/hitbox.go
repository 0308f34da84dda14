package studio

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
)

// TraceHitboxes finds the closest hitbox of the set along a ray. bones holds the
// bone-to-world matrices, see SetupBones. Only the nearest hit is written to tr.
func (m *Model) TraceHitboxes(set int, bones []mgl32.Mat4, ray cmodel.Ray, tr *cmodel.Trace) bool {
	hitboxes := m.HitboxSet(set)
	if hitboxes == nil || len(bones) < len(m.Bones) {
		return false
	}

	best := -1
	var bestHit util.BoxHit
	var bestNormal mgl32.Vec3
	for i := range hitboxes.Hitboxes {
		hb := &hitboxes.Hitboxes[i]
		hit, normal, ok := util.IntersectRayWithOBB(ray.Start, ray.Delta, ray.Extents, bones[hb.Bone], hb.Mins, hb.Maxs, 0)
		if !ok {
			continue
		}
		if hit.StartSolid {
			hit.T1 = 0
		}
		if best < 0 || hit.T1 < bestHit.T1 {
			best = i
			bestHit = hit
			bestNormal = normal
		}
	}
	if best < 0 || bestHit.T1 >= tr.Fraction {
		return false
	}

	hb := &hitboxes.Hitboxes[best]
	bone := &m.Bones[hb.Bone]
	tr.Fraction = bestHit.T1
	tr.StartSolid = bestHit.StartSolid
	tr.AllSolid = false
	tr.EndPos = ray.Origin().Add(ray.Delta.Mul(tr.Fraction))
	tr.Plane = cmodel.NewPlane(bestNormal, bestNormal.Dot(tr.EndPos))
	tr.Contents = bone.Contents | cmodel.ContentsHitbox
	tr.Surface = cmodel.Surface{
		Name:         cmodel.SurfaceNameStudio,
		Flags:        cmodel.SurfHitbox,
		SurfaceProps: bone.SurfaceProp,
	}
	tr.HitGroup = hb.Group
	tr.Hitbox = best
	tr.PhysicsBone = bone.PhysicsBone
	return true
}
