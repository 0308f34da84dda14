package bsp

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
)

type traceWork struct {
	world   *World
	start   mgl32.Vec3
	end     mgl32.Vec3
	extents mgl32.Vec3
	isPoint bool
	mask    cmodel.Contents
	tr      *cmodel.Trace

	brushSeen bitSet
	dispSeen  bitSet
}

func (w *World) newTraceWork(ray cmodel.Ray, mask cmodel.Contents, tr *cmodel.Trace) *traceWork {
	work := &traceWork{
		world:     w,
		start:     ray.Start,
		end:       ray.Start.Add(ray.Delta),
		mask:      mask,
		tr:        tr,
		brushSeen: newBitSet(len(w.Brushes)),
		dispSeen:  newBitSet(len(w.Disps)),
	}
	if !ray.IsRay {
		work.extents = ray.Extents
	}
	work.isPoint = util.IsZeroVec3(work.extents)
	return work
}

// BoxTrace traces the ray through the tree below headNode. The trace is cleared first.
func (w *World) BoxTrace(ray cmodel.Ray, headNode int, mask cmodel.Contents, tr *cmodel.Trace) {
	tr.Clear()
	work := w.newTraceWork(ray, mask, tr)
	work.recursiveHullCheck(headNode, 0, 1, work.start, work.end)
	tr.Finish(ray)
}

// TransformedBoxTrace traces against a sub-model placed at origin with the given angles.
// Swept boxes are approximated by the local box enclosing the world aligned one.
func (w *World) TransformedBoxTrace(ray cmodel.Ray, headNode int, mask cmodel.Contents, origin, angles mgl32.Vec3, tr *cmodel.Trace) {
	if util.IsZeroVec3(angles) {
		local := ray
		local.Start = ray.Start.Sub(origin)
		w.BoxTrace(local, headNode, mask, tr)
		if tr.Fraction < 1 && !tr.AllSolid {
			tr.Plane = cmodel.NewPlane(tr.Plane.Normal, tr.Plane.Dist+tr.Plane.Normal.Dot(origin))
		}
		tr.Finish(ray)
		return
	}

	toWorld := util.AngleMatrix(angles, origin)
	local := ray
	local.Start = util.ITransformPoint(toWorld, ray.Start)
	local.Delta = util.IRotate(toWorld, ray.Delta)
	if !ray.IsRay {
		local.Extents = util.IRotateExtents(toWorld, ray.Extents)
	}
	w.BoxTrace(local, headNode, mask, tr)
	tr.Finish(ray)
	if tr.Fraction < 1 && !tr.AllSolid {
		normal := util.Rotate(toWorld, tr.Plane.Normal)
		tr.Plane = cmodel.NewPlane(normal, tr.EndPos.Dot(normal))
	}
}

// BoxTraceAgainstLeafList clips the ray against the brushes and displacements of the given
// world leafs only.
func (w *World) BoxTraceAgainstLeafList(ray cmodel.Ray, leafs []int, mask cmodel.Contents, tr *cmodel.Trace) {
	tr.Clear()
	work := w.newTraceWork(ray, mask, tr)
	for _, leaf := range leafs {
		work.traceToLeaf(leaf)
		if tr.AllSolid {
			break
		}
	}
	tr.Finish(ray)
}

// RayLeafnums collects the world leafs the swept ray passes through, in order along the ray.
func (w *World) RayLeafnums(ray cmodel.Ray, list []int, maxCount int) ([]int, bool) {
	work := w.newTraceWork(ray, 0, nil)
	seen := newBitSet(len(w.Leafs))
	complete := true
	work.walkLeafs(0, work.start, work.end, func(leaf int) {
		if seen.testAndSet(leaf) {
			return
		}
		if len(list) >= maxCount {
			complete = false
			return
		}
		list = append(list, leaf)
	})
	return list, complete
}

func (t *traceWork) split(num int, p1, p2 mgl32.Vec3) (node *Node, t1, t2, offset float32) {
	node = &t.world.Nodes[num]
	plane := &t.world.Planes[node.PlaneNum]
	t1 = plane.Distance(p1)
	t2 = plane.Distance(p2)
	if plane.IsAxial() {
		offset = t.extents[plane.Type]
	} else if !t.isPoint {
		offset = util.AbsVec3(plane.Normal).Dot(t.extents)
	}
	return
}

// splitFractions returns the side to visit first and the fractions where the sweep enters
// and leaves the plane's slab.
func splitFractions(t1, t2, offset float32) (side int, frac, frac2 float32) {
	switch {
	case t1 < t2:
		idist := 1 / (t1 - t2)
		side = 1
		frac2 = (t1 + offset + cmodel.DistEpsilon) * idist
		frac = (t1 - offset + cmodel.DistEpsilon) * idist
	case t1 > t2:
		idist := 1 / (t1 - t2)
		frac2 = (t1 - offset - cmodel.DistEpsilon) * idist
		frac = (t1 + offset + cmodel.DistEpsilon) * idist
	default:
		frac = 1
		frac2 = 0
	}
	return side, util.Clamp(frac, 0, 1), util.Clamp(frac2, 0, 1)
}

func (t *traceWork) recursiveHullCheck(num int, p1f, p2f float32, p1, p2 mgl32.Vec3) {
	if t.tr.Fraction <= p1f {
		return
	}
	if num < 0 {
		t.traceToLeaf(-1 - num)
		return
	}

	node, t1, t2, offset := t.split(num, p1, p2)
	if t1 >= offset && t2 >= offset {
		t.recursiveHullCheck(node.Children[0], p1f, p2f, p1, p2)
		return
	}
	if t1 < -offset && t2 < -offset {
		t.recursiveHullCheck(node.Children[1], p1f, p2f, p1, p2)
		return
	}

	side, frac, frac2 := splitFractions(t1, t2, offset)

	midf := p1f + (p2f-p1f)*frac
	mid := util.Lerp3(p1, p2, frac)
	t.recursiveHullCheck(node.Children[side], p1f, midf, p1, mid)

	midf = p1f + (p2f-p1f)*frac2
	mid = util.Lerp3(p1, p2, frac2)
	t.recursiveHullCheck(node.Children[side^1], midf, p2f, mid, p2)
}

func (t *traceWork) walkLeafs(num int, p1, p2 mgl32.Vec3, visit func(leaf int)) {
	if num < 0 {
		visit(-1 - num)
		return
	}
	node, t1, t2, offset := t.split(num, p1, p2)
	if t1 >= offset && t2 >= offset {
		t.walkLeafs(node.Children[0], p1, p2, visit)
		return
	}
	if t1 < -offset && t2 < -offset {
		t.walkLeafs(node.Children[1], p1, p2, visit)
		return
	}
	side, frac, frac2 := splitFractions(t1, t2, offset)
	t.walkLeafs(node.Children[side], p1, util.Lerp3(p1, p2, frac), visit)
	t.walkLeafs(node.Children[side^1], util.Lerp3(p1, p2, frac2), p2, visit)
}

func (t *traceWork) traceToLeaf(leafnum int) {
	leaf := &t.world.Leafs[leafnum]
	for _, b := range leaf.Brushes {
		if t.brushSeen.testAndSet(b) {
			continue
		}
		brush := &t.world.Brushes[b]
		if brush.Contents&t.mask == 0 {
			continue
		}
		cmodel.ClipBoxToPlanes(t.start, t.end, t.extents, brush.Sides, brush.Contents, t.tr)
		if t.tr.AllSolid {
			return
		}
	}

	for _, d := range leaf.Disps {
		if t.dispSeen.testAndSet(d) {
			continue
		}
		disp := &t.world.Disps[d]
		if disp.Contents&t.mask == 0 {
			continue
		}
		for _, tri := range disp.Triangles {
			if cmodel.ClipBoxToTriangle(t.start, t.end, t.extents, tri, disp.Contents, &disp.Surface, t.tr) {
				t.tr.DispFlags = disp.Flags
			}
		}
	}
}
