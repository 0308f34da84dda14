package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BoxHit is the raw slab result of a segment against an axis aligned box.
type BoxHit struct {
	T1, T2     float32 // enter and leave fractions
	HitSide    int     // 0..2 = min face on that axis, 3..5 = max face, -1 = none
	StartSolid bool
}

func (h BoxHit) Hit() bool {
	return h.T1 < h.T2 && h.T1 >= 0
}

// Normal is the outward normal of the entered face.
func (h BoxHit) Normal() mgl32.Vec3 {
	var n mgl32.Vec3
	switch {
	case h.HitSide >= 3:
		n[h.HitSide-3] = 1
	case h.HitSide >= 0:
		n[h.HitSide] = -1
	}
	return n
}

// Axis is the axis of the entered face, -1 if nothing was entered.
func (h BoxHit) Axis() int {
	if h.HitSide >= 3 {
		return h.HitSide - 3
	}
	return h.HitSide
}

// IntersectRayWithBox clips the segment start..start+delta against the box. The entry point is
// pulled back by tolerance units. The second return value is false when the segment neither
// starts inside the box nor enters it.
func IntersectRayWithBox(start, delta, mins, maxs mgl32.Vec3, tolerance float32) (BoxHit, bool) {
	hit := BoxHit{T1: -1, T2: 1, HitSide: -1, StartSolid: true}
	for i := 0; i < 6; i++ {
		var d1, d2 float32
		if i >= 3 {
			d1 = start[i-3] - maxs[i-3]
			d2 = d1 + delta[i-3]
		} else {
			d1 = mins[i] - start[i]
			d2 = d1 - delta[i]
		}

		// completely in front of the face
		if d1 > 0 && d2 > 0 {
			hit.StartSolid = false
			return hit, false
		}
		// completely behind it
		if d1 <= 0 && d2 <= 0 {
			continue
		}
		if d1 > 0 {
			hit.StartSolid = false
		}

		if d1 > d2 {
			f := d1 - tolerance
			if f < 0 {
				f = 0
			}
			f = f / (d1 - d2)
			if f > hit.T1 {
				hit.T1 = f
				hit.HitSide = i
			}
		} else {
			f := (d1 + tolerance) / (d1 - d2)
			if f < hit.T2 {
				hit.T2 = f
			}
		}
	}
	return hit, hit.StartSolid || hit.Hit()
}

// IntersectRayWithOBB clips a segment, optionally swept with world aligned half-size extents,
// against a box given in the local space of obbToWorld. The returned normal is in world space.
func IntersectRayWithOBB(start, delta, extents mgl32.Vec3, obbToWorld mgl32.Mat4, mins, maxs mgl32.Vec3, tolerance float32) (BoxHit, mgl32.Vec3, bool) {
	localStart := ITransformPoint(obbToWorld, start)
	localDelta := IRotate(obbToWorld, delta)
	if !IsZeroVec3(extents) {
		localExtents := IRotateExtents(obbToWorld, extents)
		mins = mins.Sub(localExtents)
		maxs = maxs.Add(localExtents)
	}
	hit, ok := IntersectRayWithBox(localStart, localDelta, mins, maxs, tolerance)
	if !ok {
		return hit, mgl32.Vec3{}, false
	}
	return hit, Rotate(obbToWorld, hit.Normal()), true
}
