package util

import "github.com/go-gl/mathgl/mgl32"

type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(tr Int3) Int3 {
	return Int3{i.X - tr.X, i.Y - tr.Y, i.Z - tr.Z}
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

// PositionToCell maps a world position to the cell of a grid with the given cell size.
func PositionToCell(position mgl32.Vec3, invCellSize float32) Int3 {
	return Int3{
		int32(Floor(position.X() * invCellSize)),
		int32(Floor(position.Y() * invCellSize)),
		int32(Floor(position.Z() * invCellSize)),
	}
}
