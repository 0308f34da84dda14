package util

import "github.com/go-gl/mathgl/mgl32"

type Triangle [3]mgl32.Vec3

// Normal is the unit normal of the counter-clockwise winding.
func (t Triangle) Normal() mgl32.Vec3 {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	if n.Len() == 0 {
		return n
	}
	return n.Normalize()
}

func (t Triangle) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	return MinVec3(t[0], MinVec3(t[1], t[2])), MaxVec3(t[0], MaxVec3(t[1], t[2]))
}

// IntersectSegmentTriangle returns the fraction along start..start+delta where the segment
// pierces the triangle.
// bench: no allocs, 65ns/op
func IntersectSegmentTriangle(start, delta mgl32.Vec3, tri Triangle) (float32, bool) {
	const EPSILON = 0.000001

	edge1 := tri[1].Sub(tri[0])
	edge2 := tri[2].Sub(tri[0])

	h := delta.Cross(edge2)
	a := edge1.Dot(h)

	if a > -EPSILON && a < EPSILON {
		return 0, false // parallel to the triangle
	}

	f := 1.0 / a
	s := start.Sub(tri[0])
	u := f * s.Dot(h)

	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * delta.Dot(q)

	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t < 0 || t > 1 {
		return 0, false // the line hits, the segment does not
	}
	return t, true
}
