package bsp

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
)

// DisplacementFromGrid triangulates a height field with (len(heights)-1) x (len(heights[0])-1)
// quads spanning size units from corner. Triangles face +Z.
func DisplacementFromGrid(corner mgl32.Vec3, size mgl32.Vec2, heights [][]float32, contents cmodel.Contents, surface cmodel.Surface) Disp {
	rows := len(heights)
	disp := Disp{
		Contents: contents,
		Surface:  surface,
		Flags:    cmodel.DispSurfFlagSurface | cmodel.DispSurfFlagWalkable,
	}
	if rows < 2 || len(heights[0]) < 2 {
		return disp
	}
	cols := len(heights[0])
	stepX := size.X() / float32(cols-1)
	stepY := size.Y() / float32(rows-1)
	vertex := func(row, col int) mgl32.Vec3 {
		return corner.Add(mgl32.Vec3{float32(col) * stepX, float32(row) * stepY, heights[row][col]})
	}
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols-1; col++ {
			v00 := vertex(row, col)
			v10 := vertex(row, col+1)
			v11 := vertex(row+1, col+1)
			v01 := vertex(row+1, col)
			disp.Triangles = append(disp.Triangles,
				util.Triangle{v00, v10, v11},
				util.Triangle{v00, v11, v01},
			)
		}
	}
	disp.Mins, disp.Maxs = dispBounds(&disp)
	return disp
}
