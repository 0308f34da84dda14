package vphysics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
)

// ConvexInfo resolves the contents of a convex from its game data.
type ConvexInfo interface {
	GetContents(gameData int) cmodel.Contents
}

type ConvexInfoFunc func(gameData int) cmodel.Contents

func (f ConvexInfoFunc) GetContents(gameData int) cmodel.Contents {
	return f(gameData)
}

// Physics answers collision queries against solids. It holds no state.
type Physics struct{}

func New() *Physics {
	return &Physics{}
}

// TraceBox sweeps the ray against a solid placed at origin with angles. Convexes whose
// contents are not in mask are ignored; a nil info treats every convex as solid.
func (p *Physics) TraceBox(ray cmodel.Ray, mask cmodel.Contents, info ConvexInfo, solid *Solid, origin, angles mgl32.Vec3, tr *cmodel.Trace) {
	tr.Clear()
	toWorld := util.AngleMatrix(angles, origin)
	start := util.ITransformPoint(toWorld, ray.Start)
	end := start.Add(util.IRotate(toWorld, ray.Delta))
	var extents mgl32.Vec3
	if !ray.IsRay {
		extents = util.IRotateExtents(toWorld, ray.Extents)
	}

	sweepMins := util.MinVec3(start, end).Sub(extents)
	sweepMaxs := util.MaxVec3(start, end).Add(extents)
	for i := range solid.Convexes {
		convex := &solid.Convexes[i]
		if !util.BoxesIntersect(sweepMins, sweepMaxs, convex.Mins, convex.Maxs) {
			continue
		}
		contents := cmodel.ContentsSolid
		if info != nil {
			contents = info.GetContents(convex.GameData)
		}
		if contents&mask == 0 {
			continue
		}
		cmodel.ClipBoxToPlanes(start, end, extents, convex.Sides, contents, tr)
		if tr.AllSolid {
			break
		}
	}
	if !tr.AllSolid && len(solid.Triangles) > 0 {
		contents := cmodel.ContentsSolid
		if info != nil {
			contents = info.GetContents(0)
		}
		if contents&mask != 0 {
			for _, tri := range solid.Triangles {
				cmodel.ClipBoxToTriangle(start, end, extents, tri, contents, nil, tr)
			}
		}
	}

	tr.Finish(ray)
	if tr.Fraction < 1 && !tr.AllSolid {
		normal := util.Rotate(toWorld, tr.Plane.Normal)
		tr.Plane = cmodel.NewPlane(normal, tr.EndPos.Dot(normal))
	}
}

// CollideGetAABB returns the world bounds of a solid placed at origin with angles.
func (p *Physics) CollideGetAABB(solid *Solid, origin, angles mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	return util.TransformAABB(util.AngleMatrix(angles, origin), solid.Mins, solid.Maxs)
}
