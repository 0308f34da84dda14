package cmodel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a line segment or a swept axis aligned box. Start is the center of the box,
// Start+StartOffset is the point the caller asked to start from.
type Ray struct {
	Start       mgl32.Vec3
	Delta       mgl32.Vec3
	StartOffset mgl32.Vec3
	Extents     mgl32.Vec3
	IsRay       bool
	IsSwept     bool
}

func NewRay(start, end mgl32.Vec3) Ray {
	delta := end.Sub(start)
	return Ray{
		Start:   start,
		Delta:   delta,
		IsSwept: delta.LenSqr() != 0,
		IsRay:   true,
	}
}

// NewSweptBox sweeps the box mins..maxs (relative to start) from start to end.
func NewSweptBox(start, end, mins, maxs mgl32.Vec3) Ray {
	delta := end.Sub(start)
	extents := maxs.Sub(mins).Mul(0.5)
	offset := mins.Add(maxs).Mul(0.5)
	return Ray{
		Start:       start.Add(offset),
		Delta:       delta,
		Extents:     extents,
		StartOffset: offset.Mul(-1),
		IsSwept:     delta.LenSqr() != 0,
		IsRay:       extents.LenSqr() < 1e-6,
	}
}

// Origin is the start point in caller coordinates.
func (r Ray) Origin() mgl32.Vec3 {
	return r.Start.Add(r.StartOffset)
}

func (r Ray) End() mgl32.Vec3 {
	return r.Start.Add(r.Delta)
}

// InvDelta is 1/Delta per axis with math.MaxFloat32 standing in for zero components.
func (r Ray) InvDelta() mgl32.Vec3 {
	var inv mgl32.Vec3
	for i := 0; i < 3; i++ {
		if r.Delta[i] != 0 {
			inv[i] = 1 / r.Delta[i]
		} else {
			inv[i] = math.MaxFloat32
		}
	}
	return inv
}

// Bounds returns the box enclosing the whole sweep.
func (r Ray) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	end := r.End()
	mins := mgl32.Vec3{}
	maxs := mgl32.Vec3{}
	for i := 0; i < 3; i++ {
		mins[i] = float32(math.Min(float64(r.Start[i]), float64(end[i]))) - r.Extents[i]
		maxs[i] = float32(math.Max(float64(r.Start[i]), float64(end[i]))) + r.Extents[i]
	}
	return mins, maxs
}

// Scaled returns the ray with its delta scaled by fraction.
func (r Ray) Scaled(fraction float32) Ray {
	r.Delta = r.Delta.Mul(fraction)
	r.IsSwept = r.Delta.LenSqr() != 0
	return r
}
