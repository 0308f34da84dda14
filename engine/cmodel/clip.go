package cmodel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/util"
)

// Side is one bounding plane of a convex volume.
type Side struct {
	Plane   Plane
	Surface *Surface
	Bevel   bool
}

var emptySurface = Surface{Name: SurfaceNameEmpty}

// ClipBoxToPlanes clips the box with half-size extents moving from start to end against the
// convex volume bounded by sides and updates tr if the volume is hit closer than tr.Fraction.
// The plane distances are pushed out by the box extents.
func ClipBoxToPlanes(start, end, extents mgl32.Vec3, sides []Side, contents Contents, tr *Trace) {
	enterFrac := float32(-1)
	leaveFrac := float32(1)
	var clipSide *Side
	getOut, startOut := false, false
	isPoint := util.IsZeroVec3(extents)

	for i := range sides {
		side := &sides[i]
		if isPoint && side.Bevel {
			continue
		}
		normal := side.Plane.Normal
		dist := side.Plane.Dist
		if !isPoint {
			dist += util.AbsVec3(normal).Dot(extents)
		}

		d1 := start.Dot(normal) - dist
		d2 := end.Dot(normal) - dist

		if d2 > 0 {
			getOut = true
		}
		if d1 > 0 {
			startOut = true
		}

		// completely in front of the face, no intersection
		if d1 > 0 && (d2 >= DistEpsilon || d2 >= d1) {
			return
		}
		// completely behind the face
		if d1 <= 0 && d2 <= 0 {
			continue
		}

		if d1 > d2 {
			f := (d1 - DistEpsilon) / (d1 - d2)
			if f > enterFrac {
				enterFrac = f
				clipSide = side
			}
		} else {
			f := (d1 + DistEpsilon) / (d1 - d2)
			if f < leaveFrac {
				leaveFrac = f
			}
		}
	}

	if !startOut {
		tr.StartSolid = true
		tr.Contents = contents
		if !getOut {
			tr.AllSolid = true
			tr.Fraction = 0
			tr.FractionLeftSolid = 0
			return
		}
		// leaveFrac still at 1 means no plane was crossed on the way out
		if leaveFrac != 1 && leaveFrac > tr.FractionLeftSolid {
			tr.FractionLeftSolid = leaveFrac
			if tr.Fraction <= leaveFrac {
				tr.Fraction = 1
				tr.Surface = emptySurface
			}
		}
		return
	}

	if enterFrac < leaveFrac && enterFrac > -1 && enterFrac < tr.Fraction {
		if enterFrac < 0 {
			enterFrac = 0
		}
		tr.Fraction = enterFrac
		tr.Plane = clipSide.Plane
		if clipSide.Surface != nil {
			tr.Surface = *clipSide.Surface
		} else {
			tr.Surface = emptySurface
		}
		tr.Contents = contents
	}
}

// TriangleSides builds the zero thickness prism of a triangle: front face, back face and
// one outward plane per edge.
func TriangleSides(tri util.Triangle, surface *Surface) [5]Side {
	normal := tri.Normal()
	dist := normal.Dot(tri[0])
	sides := [5]Side{
		{Plane: NewPlane(normal, dist), Surface: surface},
		{Plane: NewPlane(normal.Mul(-1), -dist), Surface: surface},
	}
	for i := 0; i < 3; i++ {
		a, b := tri[i], tri[(i+1)%3]
		outward := b.Sub(a).Cross(normal)
		if outward.LenSqr() == 0 {
			continue
		}
		outward = outward.Normalize()
		sides[2+i] = Side{Plane: NewPlane(outward, outward.Dot(a)), Surface: surface, Bevel: true}
	}
	return sides
}

// ClipBoxToTriangle traces against a single one sided triangle. Rays only hit the front face
// and stop DistEpsilon short of it, boxes are clipped against the triangle prism.
func ClipBoxToTriangle(start, end, extents mgl32.Vec3, tri util.Triangle, contents Contents, surface *Surface, tr *Trace) bool {
	if util.IsZeroVec3(extents) {
		delta := end.Sub(start)
		normal := tri.Normal()
		if delta.Dot(normal) >= 0 {
			return false
		}
		t, hit := util.IntersectSegmentTriangle(start, delta, tri)
		if !hit {
			return false
		}
		t -= DistEpsilon / delta.Len()
		if t < 0 {
			t = 0
		}
		if t >= tr.Fraction {
			return false
		}
		tr.Fraction = t
		tr.Plane = NewPlane(normal, normal.Dot(tri[0]))
		tr.Contents = contents
		if surface != nil {
			tr.Surface = *surface
		}
		return true
	}
	before := tr.Fraction
	sides := TriangleSides(tri, surface)
	ClipBoxToPlanes(start, end, extents, sides[:], contents, tr)
	return tr.Fraction < before
}
