package trace

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/vphysics"
)

// PointOutsideWorld reports whether p is in the void, outside every visible cluster.
func (t *EngineTrace) PointOutsideWorld(p mgl32.Vec3) bool {
	return t.world.LeafCluster(t.world.PointLeafnum(p)) < 0
}

func (t *EngineTrace) GetLeafContainingPoint(p mgl32.Vec3) int {
	return t.world.PointLeafnum(p)
}

// GetBrushesInAABB returns the sorted indices of world brushes touching the box whose
// contents intersect mask.
func (t *EngineTrace) GetBrushesInAABB(mins, maxs mgl32.Vec3, mask cmodel.Contents) []int {
	return t.world.BrushesInAABB(mins, maxs, mask)
}

// GetBrushInfo returns the planes (normal and distance) and contents of a world brush.
func (t *EngineTrace) GetBrushInfo(brush int) ([]mgl32.Vec4, cmodel.Contents, bool) {
	return t.world.BrushInfo(brush)
}

// GetCollidableFromDisplacementsInAABB builds a triangle soup solid from the displacement
// triangles touching the box. Nil when there are none, or when there are more than
// MaxDispTriangles.
func (t *EngineTrace) GetCollidableFromDisplacementsInAABB(mins, maxs mgl32.Vec3) *vphysics.Solid {
	tris, ok := t.world.DispTrianglesInAABB(mins, maxs, t.cfg.MaxDispTriangles)
	if !ok {
		t.count(StatCapOverflow)
		t.warnOnce(&t.dispWarned, fmt.Sprintf("more than %d displacement triangles in %v..%v, no collision generated", t.cfg.MaxDispTriangles, mins, maxs))
		return nil
	}
	if len(tris) == 0 {
		return nil
	}
	return vphysics.NewSolid(nil, tris)
}
