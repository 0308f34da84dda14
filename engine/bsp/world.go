package bsp

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
)

// Node children >= 0 are node indices, negative children encode leaf -1-child.
type Node struct {
	PlaneNum int
	Children [2]int
}

type Leaf struct {
	Contents cmodel.Contents
	Cluster  int
	Mins     mgl32.Vec3
	Maxs     mgl32.Vec3
	Brushes  []int
	Disps    []int
}

type Brush struct {
	Contents cmodel.Contents
	Sides    []cmodel.Side
	Mins     mgl32.Vec3
	Maxs     mgl32.Vec3
}

// IsBox reports whether every non-bevel side is axial, so the bounds are the brush.
func (b *Brush) IsBox() bool {
	for _, side := range b.Sides {
		if !side.Bevel && !side.Plane.IsAxial() {
			return false
		}
	}
	return true
}

// ContainsPoint tests the point against all sides.
func (b *Brush) ContainsPoint(p mgl32.Vec3) bool {
	for _, side := range b.Sides {
		if side.Bevel {
			continue
		}
		if side.Plane.Distance(p) > 0 {
			return false
		}
	}
	return true
}

type Disp struct {
	Triangles []util.Triangle
	Contents  cmodel.Contents
	Surface   cmodel.Surface
	Flags     uint16
	Mins      mgl32.Vec3
	Maxs      mgl32.Vec3
}

type SubModel struct {
	Mins     mgl32.Vec3
	Maxs     mgl32.Vec3
	Origin   mgl32.Vec3
	HeadNode int
	Brushes  []int
}

// World is a compiled, read-only level. Sub-model 0 is the world itself with head node 0,
// leaf 0 is the solid leaf outside of the level bounds.
type World struct {
	Planes    []cmodel.Plane
	Nodes     []Node
	Leafs     []Leaf
	Brushes   []Brush
	Disps     []Disp
	SubModels []SubModel
}

func (w *World) LeafCount() int {
	return len(w.Leafs)
}

func (w *World) SubModelBounds() [][2]mgl32.Vec3 {
	bounds := make([][2]mgl32.Vec3, len(w.SubModels))
	for i, sm := range w.SubModels {
		bounds[i] = [2]mgl32.Vec3{sm.Mins, sm.Maxs}
	}
	return bounds
}

// SubModelBrushes returns the brush indices of a sub-model.
func (w *World) SubModelBrushes(subModel int) []int {
	if subModel < 0 || subModel >= len(w.SubModels) {
		return nil
	}
	return w.SubModels[subModel].Brushes
}

func (w *World) InlineModelHeadNode(subModel int) (int, bool) {
	if subModel < 0 || subModel >= len(w.SubModels) {
		return 0, false
	}
	return w.SubModels[subModel].HeadNode, true
}

func (w *World) PointLeafnum(p mgl32.Vec3) int {
	return w.pointLeafnum(p, 0)
}

func (w *World) pointLeafnum(p mgl32.Vec3, num int) int {
	for num >= 0 {
		node := &w.Nodes[num]
		if w.Planes[node.PlaneNum].Distance(p) >= 0 {
			num = node.Children[0]
		} else {
			num = node.Children[1]
		}
	}
	return -1 - num
}

func (w *World) LeafContents(leaf int) cmodel.Contents {
	if leaf < 0 || leaf >= len(w.Leafs) {
		return cmodel.ContentsSolid
	}
	return w.Leafs[leaf].Contents
}

func (w *World) LeafCluster(leaf int) int {
	if leaf < 0 || leaf >= len(w.Leafs) {
		return -1
	}
	return w.Leafs[leaf].Cluster
}

// PointContents returns the contents at p in the tree below headNode.
func (w *World) PointContents(p mgl32.Vec3, headNode int) cmodel.Contents {
	leaf := &w.Leafs[w.pointLeafnum(p, headNode)]
	contents := leaf.Contents
	for _, b := range leaf.Brushes {
		brush := &w.Brushes[b]
		if contents&brush.Contents == brush.Contents {
			continue
		}
		if brush.ContainsPoint(p) {
			contents |= brush.Contents
		}
	}
	return contents
}

// TransformedPointContents moves p into the space of a sub-model placed at origin/angles.
func (w *World) TransformedPointContents(p mgl32.Vec3, headNode int, origin, angles mgl32.Vec3) cmodel.Contents {
	local := p.Sub(origin)
	if !util.IsZeroVec3(angles) {
		local = util.ITransformPoint(util.AngleMatrix(angles, origin), p)
	}
	return w.PointContents(local, headNode)
}

// BoxLeafnums collects up to maxCount leafs of the world touching the box. The second result
// is false if the list was truncated.
func (w *World) BoxLeafnums(mins, maxs mgl32.Vec3, list []int, maxCount int) ([]int, bool) {
	complete := true
	var walk func(num int)
	walk = func(num int) {
		for num >= 0 {
			node := &w.Nodes[num]
			plane := &w.Planes[node.PlaneNum]
			switch boxOnPlaneSide(mins, maxs, plane) {
			case 1:
				num = node.Children[0]
			case 2:
				num = node.Children[1]
			default:
				walk(node.Children[0])
				num = node.Children[1]
			}
		}
		if len(list) >= maxCount {
			complete = false
			return
		}
		list = append(list, -1-num)
	}
	walk(0)
	return list, complete
}

// boxOnPlaneSide returns 1 for front, 2 for back and 3 for both.
func boxOnPlaneSide(mins, maxs mgl32.Vec3, plane *cmodel.Plane) int {
	var near, far mgl32.Vec3
	for i := 0; i < 3; i++ {
		if plane.Normal[i] < 0 {
			near[i], far[i] = maxs[i], mins[i]
		} else {
			near[i], far[i] = mins[i], maxs[i]
		}
	}
	sides := 0
	if far.Dot(plane.Normal)-plane.Dist >= 0 {
		sides = 1
	}
	if near.Dot(plane.Normal)-plane.Dist < 0 {
		sides |= 2
	}
	return sides
}

// BrushesInAABB returns the sorted indices of world brushes with contents in mask touching the box.
func (w *World) BrushesInAABB(mins, maxs mgl32.Vec3, mask cmodel.Contents) []int {
	leafs, _ := w.BoxLeafnums(mins, maxs, nil, len(w.Leafs))
	seen := newBitSet(len(w.Brushes))
	var result []int
	for _, leaf := range leafs {
		for _, b := range w.Leafs[leaf].Brushes {
			if seen.testAndSet(b) {
				continue
			}
			brush := &w.Brushes[b]
			if brush.Contents&mask == 0 {
				continue
			}
			if !util.BoxesIntersect(mins, maxs, brush.Mins, brush.Maxs) {
				continue
			}
			result = append(result, b)
		}
	}
	sort.Ints(result)
	return result
}

// BrushInfo returns the planes of a brush as (normal, dist) and its contents.
func (w *World) BrushInfo(brush int) ([]mgl32.Vec4, cmodel.Contents, bool) {
	if brush < 0 || brush >= len(w.Brushes) {
		return nil, 0, false
	}
	b := &w.Brushes[brush]
	planes := make([]mgl32.Vec4, 0, len(b.Sides))
	for _, side := range b.Sides {
		if side.Bevel {
			continue
		}
		planes = append(planes, side.Plane.Normal.Vec4(side.Plane.Dist))
	}
	return planes, b.Contents, true
}

// DispTrianglesInAABB gathers displacement triangles touching the box. It stops and reports
// false as soon as more than limit triangles would be returned.
func (w *World) DispTrianglesInAABB(mins, maxs mgl32.Vec3, limit int) ([]util.Triangle, bool) {
	var tris []util.Triangle
	for i := range w.Disps {
		disp := &w.Disps[i]
		if !util.BoxesIntersect(mins, maxs, disp.Mins, disp.Maxs) {
			continue
		}
		for _, tri := range disp.Triangles {
			triMins, triMaxs := tri.Bounds()
			if !util.BoxesIntersect(mins, maxs, triMins, triMaxs) {
				continue
			}
			if len(tris) >= limit {
				return nil, false
			}
			tris = append(tris, tri)
		}
	}
	return tris, true
}

type bitSet []uint64

func newBitSet(size int) bitSet {
	return make(bitSet, (size+63)/64)
}

func (b bitSet) testAndSet(i int) bool {
	word, bit := i/64, uint(i%64)
	if b[word]&(1<<bit) != 0 {
		return true
	}
	b[word] |= 1 << bit
	return false
}
