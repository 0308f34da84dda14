package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WalkCells visits the cells of a grid with the given cell size in the order the segment
// start..end passes through them. It returns true when visit stopped the walk.
func WalkCells(start, end mgl32.Vec3, cellSize float32, visit func(cell Int3) bool) bool {
	invCellSize := 1 / cellSize
	start = start.Mul(invCellSize)
	end = end.Mul(invCellSize)

	cell := PositionToCell(start, 1)
	dir := end.Sub(start)
	length := float64(dir.Len())
	if length == 0 {
		return visit(cell)
	}
	dir = dir.Mul(float32(1 / length))

	var step [3]int32
	var tDelta, tMax [3]float64
	for axis := 0; axis < 3; axis++ {
		tDelta[axis] = math.Abs(1 / float64(dir[axis]))
		tMax[axis] = math.Inf(1)
		var dist float64
		if dir[axis] > 0 {
			step[axis] = 1
			dist = math.Floor(float64(start[axis])) + 1 - float64(start[axis])
		} else {
			step[axis] = -1
			dist = float64(start[axis]) - math.Floor(float64(start[axis]))
		}
		if !math.IsInf(tDelta[axis], 1) {
			tMax[axis] = tDelta[axis] * dist
		}
	}

	for t := 0.0; t <= length; {
		if visit(cell) {
			return true
		}
		axis := 2
		if tMax[0] < tMax[1] {
			if tMax[0] < tMax[2] {
				axis = 0
			}
		} else if tMax[1] < tMax[2] {
			axis = 1
		}
		switch axis {
		case 0:
			cell.X += step[0]
		case 1:
			cell.Y += step[1]
		default:
			cell.Z += step[2]
		}
		t = tMax[axis]
		tMax[axis] += tDelta[axis]
	}
	return false
}
