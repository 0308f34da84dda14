package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func abs(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

func Abs(x float32) float32 {
	return abs(x)
}

func Floor(x float32) float32 {
	return float32(math.Floor(float64(x)))
}

func Ceil(x float32) float32 {
	return float32(math.Ceil(float64(x)))
}

func Sin(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func ToRadian(angle float32) float32 {
	return mgl32.DegToRad(angle)
}

func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Min(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Clamp(value, min, max float32) float32 {
	return Min(Max(value, min), max)
}

func Mix(a, b, factor float32) float32 {
	return a*(1-factor) + factor*b
}

func Lerp3(one, two mgl32.Vec3, factor float32) mgl32.Vec3 {
	return mgl32.Vec3{Mix(one.X(), two.X(), factor), Mix(one.Y(), two.Y(), factor), Mix(one.Z(), two.Z(), factor)}
}

func AbsVec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{abs(v.X()), abs(v.Y()), abs(v.Z())}
}

func MinVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{Min(a.X(), b.X()), Min(a.Y(), b.Y()), Min(a.Z(), b.Z())}
}

func MaxVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{Max(a.X(), b.X()), Max(a.Y(), b.Y()), Max(a.Z(), b.Z())}
}

// IsZeroVec3 reports whether every component is exactly zero.
func IsZeroVec3(v mgl32.Vec3) bool {
	return v.X() == 0 && v.Y() == 0 && v.Z() == 0
}

// BoxesIntersect is the closed-interval overlap test of two min/max boxes.
func BoxesIntersect(minsA, maxsA, minsB, maxsB mgl32.Vec3) bool {
	return minsA.X() <= maxsB.X() && maxsA.X() >= minsB.X() &&
		minsA.Y() <= maxsB.Y() && maxsA.Y() >= minsB.Y() &&
		minsA.Z() <= maxsB.Z() && maxsA.Z() >= minsB.Z()
}

func PointInBox(p, mins, maxs mgl32.Vec3) bool {
	return p.X() >= mins.X() && p.X() <= maxs.X() &&
		p.Y() >= mins.Y() && p.Y() <= maxs.Y() &&
		p.Z() >= mins.Z() && p.Z() <= maxs.Z()
}

// AngleMatrix builds the local-to-world matrix for pitch/yaw/roll angles in degrees
// (x = pitch, y = yaw, z = roll) with Z up. The columns are forward, left, up and origin.
func AngleMatrix(angles, origin mgl32.Vec3) mgl32.Mat4 {
	sp, cp := sinCosDeg(angles.X())
	sy, cy := sinCosDeg(angles.Y())
	sr, cr := sinCosDeg(angles.Z())

	forward := mgl32.Vec4{cp * cy, cp * sy, -sp, 0}
	left := mgl32.Vec4{sr*sp*cy - cr*sy, sr*sp*sy + cr*cy, sr * cp, 0}
	up := mgl32.Vec4{cr*sp*cy + sr*sy, cr*sp*sy - sr*cy, cr * cp, 0}
	return mgl32.Mat4FromCols(forward, left, up, origin.Vec4(1))
}

func sinCosDeg(degrees float32) (float32, float32) {
	if degrees == 0 {
		return 0, 1
	}
	rad := float64(mgl32.DegToRad(degrees))
	return float32(math.Sin(rad)), float32(math.Cos(rad))
}

// TransformPoint applies the full affine matrix to p.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// ITransformPoint applies the inverse of a rigid matrix (rotation + translation) to p.
func ITransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return IRotate(m, p.Sub(m.Col(3).Vec3()))
}

func Rotate(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	return m.Mat3().Mul3x1(v)
}

// IRotate rotates v by the transpose of the rotation part of m.
func IRotate(m mgl32.Mat4, v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		m.Col(0).Vec3().Dot(v),
		m.Col(1).Vec3().Dot(v),
		m.Col(2).Vec3().Dot(v),
	}
}

// IRotateExtents returns the half-size of the axis-aligned box in m's local space that
// encloses a world-axis-aligned box with the given half-size.
func IRotateExtents(m mgl32.Mat4, extents mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		AbsVec3(m.Col(0).Vec3()).Dot(extents),
		AbsVec3(m.Col(1).Vec3()).Dot(extents),
		AbsVec3(m.Col(2).Vec3()).Dot(extents),
	}
}

// RotateExtents is the inverse of IRotateExtents: local half-size to enclosing world half-size.
func RotateExtents(m mgl32.Mat4, extents mgl32.Vec3) mgl32.Vec3 {
	r := m.Mat3()
	return mgl32.Vec3{
		AbsVec3(r.Row(0)).Dot(extents),
		AbsVec3(r.Row(1)).Dot(extents),
		AbsVec3(r.Row(2)).Dot(extents),
	}
}

// TransformAABB returns the world-space box enclosing the local box mins/maxs under m.
func TransformAABB(m mgl32.Mat4, mins, maxs mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	center := TransformPoint(m, mins.Add(maxs).Mul(0.5))
	extents := RotateExtents(m, maxs.Sub(mins).Mul(0.5))
	return center.Sub(extents), center.Add(extents)
}
