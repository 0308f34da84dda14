package cmodel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/util"
)

const (
	PlaneX = iota
	PlaneY
	PlaneZ
	PlaneAnyX
	PlaneAnyY
	PlaneAnyZ
)

type Plane struct {
	Normal   mgl32.Vec3
	Dist     float32
	Type     uint8
	SignBits uint8
}

// NewPlane classifies the plane and computes its sign bits for box tests.
func NewPlane(normal mgl32.Vec3, dist float32) Plane {
	p := Plane{Normal: normal, Dist: dist}
	switch {
	case normal.X() == 1 || normal.X() == -1:
		p.Type = PlaneX
	case normal.Y() == 1 || normal.Y() == -1:
		p.Type = PlaneY
	case normal.Z() == 1 || normal.Z() == -1:
		p.Type = PlaneZ
	default:
		ax, ay, az := util.Abs(normal.X()), util.Abs(normal.Y()), util.Abs(normal.Z())
		switch {
		case ax >= ay && ax >= az:
			p.Type = PlaneAnyX
		case ay >= ax && ay >= az:
			p.Type = PlaneAnyY
		default:
			p.Type = PlaneAnyZ
		}
	}
	for i := 0; i < 3; i++ {
		if normal[i] < 0 {
			p.SignBits |= 1 << i
		}
	}
	return p
}

func (p Plane) IsAxial() bool {
	return p.Type < PlaneAnyX
}

func (p Plane) Distance(point mgl32.Vec3) float32 {
	if p.IsAxial() {
		return point[p.Type]*p.Normal[p.Type] - p.Dist
	}
	return point.Dot(p.Normal) - p.Dist
}

type Surface struct {
	Name         string
	Flags        uint16
	SurfaceProps uint16
}

// Entity is what a trace reports as hit. Index 0 is the world.
type Entity interface {
	EntIndex() int
}

type Trace struct {
	StartPos          mgl32.Vec3
	EndPos            mgl32.Vec3
	Plane             Plane
	Fraction          float32
	FractionLeftSolid float32
	Contents          Contents
	DispFlags         uint16
	AllSolid          bool
	StartSolid        bool
	Surface           Surface
	HitGroup          int
	PhysicsBone       int
	Hitbox            int
	Ent               Entity
}

// Clear resets the trace to a miss.
func (t *Trace) Clear() {
	*t = Trace{
		Fraction: 1,
		Surface:  Surface{Name: SurfaceNameEmpty},
	}
}

func (t *Trace) DidHit() bool {
	return t.Fraction < 1 || t.AllSolid || t.StartSolid
}

func (t *Trace) DidHitWorld() bool {
	return t.Ent != nil && t.Ent.EntIndex() == 0
}

func (t *Trace) DidHitNonWorldEntity() bool {
	return t.Ent != nil && !t.DidHitWorld()
}

// EntIndex returns the index of the hit entity or -1.
func (t *Trace) EntIndex() int {
	if t.Ent == nil {
		return -1
	}
	return t.Ent.EntIndex()
}

// Finish clamps fractionleftsolid to fraction and computes the end points from the
// unscaled ray.
func (t *Trace) Finish(ray Ray) {
	if t.FractionLeftSolid > t.Fraction {
		t.FractionLeftSolid = t.Fraction
	}
	t.StartPos = ray.Origin()
	t.EndPos = t.StartPos.Add(ray.Delta.Mul(t.Fraction))
}
