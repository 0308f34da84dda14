package bsp

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
)

type testLevel struct {
	world    *World
	subModel int
}

func buildTestLevel(t testing.TB) testLevel {
	b := NewBuilder(DefaultBuildConfig())
	b.AddBrush(AxialBoxBrush(mgl32.Vec3{512, -64, -64}, mgl32.Vec3{576, 64, 64}, cmodel.ContentsSolid, cmodel.Surface{Name: "wall", SurfaceProps: 3}))
	b.AddBrush(AxialBoxBrush(mgl32.Vec3{-1024, -1024, -128}, mgl32.Vec3{1024, 1024, -64}, cmodel.ContentsSolid, cmodel.Surface{Name: "floor", SurfaceProps: 4}))
	b.AddBrush(AxialBoxBrush(mgl32.Vec3{-256, 256, -64}, mgl32.Vec3{-128, 384, 0}, cmodel.ContentsWater|cmodel.ContentsCurrent0, cmodel.Surface{Name: "water"}))
	heights := [][]float32{{16, 16, 16}, {16, 16, 16}, {16, 16, 16}}
	b.AddDisplacement(DisplacementFromGrid(mgl32.Vec3{-512, -512, -64}, mgl32.Vec2{256, 256}, heights, cmodel.ContentsSolid, cmodel.Surface{Name: "grass"}))
	sub := b.AddSubModel(AxialBoxBrush(mgl32.Vec3{-16, -32, -8}, mgl32.Vec3{16, 32, 8}, cmodel.ContentsSolid, cmodel.Surface{Name: "door"}))
	world, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return testLevel{world: world, subModel: sub}
}

func near(a, b float32) bool {
	return util.Abs(a-b) < 1e-4
}

func TestBoxTrace(t *testing.T) {
	level := buildTestLevel(t)
	tests := []struct {
		name       string
		ray        cmodel.Ray
		fraction   float32
		normal     mgl32.Vec3
		surface    string
		dispFlags  uint16
		startSolid bool
	}{
		{"ray into the wall", cmodel.NewRay(mgl32.Vec3{}, mgl32.Vec3{1024, 0, 0}), 0.5, mgl32.Vec3{-1, 0, 0}, "wall", 0, false},
		{"ray into the floor", cmodel.NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, -640}), 0.1, mgl32.Vec3{0, 0, 1}, "floor", 0, false},
		{"ray through empty space", cmodel.NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, 256}), 1, mgl32.Vec3{}, cmodel.SurfaceNameEmpty, 0, false},
		{"ray onto the displacement", cmodel.NewRay(mgl32.Vec3{-400, -370, 0}, mgl32.Vec3{-400, -370, -1000}), 0.048, mgl32.Vec3{0, 0, 1}, "grass", cmodel.DispSurfFlagSurface | cmodel.DispSurfFlagWalkable, false},
		{"box into the wall", cmodel.NewSweptBox(mgl32.Vec3{}, mgl32.Vec3{1024, 0, 0}, mgl32.Vec3{-16, -16, -16}, mgl32.Vec3{16, 16, 16}), 496.0 / 1024, mgl32.Vec3{-1, 0, 0}, "wall", 0, false},
		{"ray leaving the wall", cmodel.NewRay(mgl32.Vec3{544, 0, 0}, mgl32.Vec3{544, 0, 128}), 1, mgl32.Vec3{}, cmodel.SurfaceNameEmpty, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr cmodel.Trace
			level.world.BoxTrace(tt.ray, 0, cmodel.MaskAll, &tr)
			if !near(tr.Fraction, tt.fraction) {
				t.Errorf("fraction = %v, want %v", tr.Fraction, tt.fraction)
			}
			if tr.StartSolid != tt.startSolid {
				t.Errorf("startsolid = %v", tr.StartSolid)
			}
			if tr.Fraction < 1 && tr.Plane.Normal != tt.normal {
				t.Errorf("normal = %v, want %v", tr.Plane.Normal, tt.normal)
			}
			if tr.Surface.Name != tt.surface {
				t.Errorf("surface = %q, want %q", tr.Surface.Name, tt.surface)
			}
			if tr.DispFlags != tt.dispFlags {
				t.Errorf("disp flags = %x", tr.DispFlags)
			}
			if tr.Fraction < 0 || tr.Fraction > 1 || tr.FractionLeftSolid > tr.Fraction {
				t.Errorf("fractions out of range: %v %v", tr.Fraction, tr.FractionLeftSolid)
			}
		})
	}
}

func TestBoxTraceMaskSkipsWater(t *testing.T) {
	level := buildTestLevel(t)
	ray := cmodel.NewRay(mgl32.Vec3{-192, 320, 640}, mgl32.Vec3{-192, 320, -32})
	var tr cmodel.Trace
	level.world.BoxTrace(ray, 0, cmodel.MaskSolid, &tr)
	if tr.Fraction != 1 {
		t.Errorf("solid mask stopped at water, fraction %v", tr.Fraction)
	}
	level.world.BoxTrace(ray, 0, cmodel.MaskWater, &tr)
	if !near(tr.Fraction, 640.0/672) || tr.Contents&cmodel.ContentsWater == 0 {
		t.Errorf("water mask: fraction %v contents %x", tr.Fraction, tr.Contents)
	}
}

func TestPointContents(t *testing.T) {
	level := buildTestLevel(t)
	w := level.world
	tests := []struct {
		point    mgl32.Vec3
		contents cmodel.Contents
		outside  bool
	}{
		{mgl32.Vec3{544, 0, 0}, cmodel.ContentsSolid, true},
		{mgl32.Vec3{0, 0, 0}, cmodel.ContentsEmpty, false},
		{mgl32.Vec3{-192, 320, -32}, cmodel.ContentsWater | cmodel.ContentsCurrent0, false},
		{mgl32.Vec3{20000, 0, 0}, cmodel.ContentsSolid, true},
	}
	for _, tt := range tests {
		if got := w.PointContents(tt.point, 0); got != tt.contents {
			t.Errorf("contents at %v = %x, want %x", tt.point, got, tt.contents)
		}
		cluster := w.LeafCluster(w.PointLeafnum(tt.point))
		if (cluster < 0) != tt.outside {
			t.Errorf("cluster at %v = %d", tt.point, cluster)
		}
	}
}

func TestTransformedTraces(t *testing.T) {
	level := buildTestLevel(t)
	w := level.world
	head, ok := w.InlineModelHeadNode(level.subModel)
	if !ok {
		t.Fatal("sub-model missing")
	}
	if _, ok := w.InlineModelHeadNode(99); ok {
		t.Error("bad sub-model index reported ok")
	}

	var tr cmodel.Trace
	w.TransformedBoxTrace(cmodel.NewRay(mgl32.Vec3{}, mgl32.Vec3{2000, 0, 0}), head, cmodel.MaskAll, mgl32.Vec3{100, 0, 0}, mgl32.Vec3{}, &tr)
	if !near(tr.Fraction, 84.0/2000) {
		t.Errorf("translated fraction = %v", tr.Fraction)
	}
	if tr.Plane.Normal != (mgl32.Vec3{-1, 0, 0}) || tr.Plane.Dist != -84 {
		t.Errorf("translated plane = %+v", tr.Plane)
	}

	w.TransformedBoxTrace(cmodel.NewRay(mgl32.Vec3{100, -2000, 0}, mgl32.Vec3{100, 2000, 0}), head, cmodel.MaskAll, mgl32.Vec3{100, 0, 0}, mgl32.Vec3{0, 90, 0}, &tr)
	if !near(tr.Fraction, 1984.0/4000) {
		t.Errorf("rotated fraction = %v", tr.Fraction)
	}
	if !tr.Plane.Normal.ApproxEqualThreshold(mgl32.Vec3{0, -1, 0}, 1e-5) {
		t.Errorf("rotated normal = %v", tr.Plane.Normal)
	}

	contents := w.TransformedPointContents(mgl32.Vec3{100, 10, 0}, head, mgl32.Vec3{100, 0, 0}, mgl32.Vec3{0, 90, 0})
	if contents != cmodel.ContentsSolid {
		t.Errorf("point inside the rotated door = %x", contents)
	}
	contents = w.TransformedPointContents(mgl32.Vec3{140, 0, 0}, head, mgl32.Vec3{100, 0, 0}, mgl32.Vec3{0, 90, 0})
	if contents != cmodel.ContentsEmpty {
		t.Errorf("point beside the rotated door = %x", contents)
	}
}

func TestLeafListTraceMatchesTreeTrace(t *testing.T) {
	level := buildTestLevel(t)
	w := level.world
	ray := cmodel.NewSweptBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1024, 0, -32}, mgl32.Vec3{-8, -8, -8}, mgl32.Vec3{8, 8, 8})
	leafs, complete := w.RayLeafnums(ray, nil, 4096)
	if !complete || len(leafs) == 0 {
		t.Fatalf("leaf walk: %v %v", leafs, complete)
	}
	if leafs[0] != w.PointLeafnum(ray.Start) {
		t.Errorf("first leaf %d is not the start leaf %d", leafs[0], w.PointLeafnum(ray.Start))
	}
	var fromTree, fromList cmodel.Trace
	w.BoxTrace(ray, 0, cmodel.MaskAll, &fromTree)
	w.BoxTraceAgainstLeafList(ray, leafs, cmodel.MaskAll, &fromList)
	if fromTree.Fraction != fromList.Fraction || fromTree.Plane != fromList.Plane {
		t.Errorf("tree %v/%v, list %v/%v", fromTree.Fraction, fromTree.Plane, fromList.Fraction, fromList.Plane)
	}

	_, complete = w.RayLeafnums(ray, nil, 1)
	if complete {
		t.Error("a one leaf list cannot hold the whole ray")
	}
}

func TestIntrospection(t *testing.T) {
	level := buildTestLevel(t)
	w := level.world

	brushes := w.BrushesInAABB(mgl32.Vec3{500, -10, -10}, mgl32.Vec3{600, 10, 10}, cmodel.MaskAll)
	if len(brushes) != 1 || brushes[0] != 0 {
		t.Errorf("brushes = %v", brushes)
	}
	if got := w.BrushesInAABB(mgl32.Vec3{-200, 300, -10}, mgl32.Vec3{-190, 310, -5}, cmodel.MaskSolid); len(got) != 0 {
		t.Errorf("solid mask returned water brushes %v", got)
	}

	planes, contents, ok := w.BrushInfo(0)
	if !ok || len(planes) != 6 || contents != cmodel.ContentsSolid {
		t.Errorf("brush info: %v %x %v", planes, contents, ok)
	}
	if _, _, ok := w.BrushInfo(-1); ok {
		t.Error("negative brush index reported ok")
	}

	tris, ok := w.DispTrianglesInAABB(mgl32.Vec3{-600, -600, -100}, mgl32.Vec3{-200, -200, 0}, 65535)
	if !ok || len(tris) != 8 {
		t.Errorf("displacement triangles: %d %v", len(tris), ok)
	}
	if tris, ok := w.DispTrianglesInAABB(mgl32.Vec3{-600, -600, -100}, mgl32.Vec3{-200, -200, 0}, 4); ok || tris != nil {
		t.Errorf("capped query returned %d triangles", len(tris))
	}

	leafs, complete := w.BoxLeafnums(mgl32.Vec3{-8, -8, -8}, mgl32.Vec3{8, 8, 8}, nil, 64)
	if !complete || len(leafs) == 0 {
		t.Errorf("box leafs: %v", leafs)
	}
}

func TestBuildErrors(t *testing.T) {
	b := NewBuilder(DefaultBuildConfig())
	b.AddBrush(Brush{Contents: cmodel.ContentsSolid, Sides: make([]cmodel.Side, 2)})
	if _, err := b.Build(); err == nil {
		t.Error("two sided brush accepted")
	}

	cfg := DefaultBuildConfig()
	cfg.WorldMaxs = cfg.WorldMins
	if _, err := NewBuilder(cfg).Build(); err == nil {
		t.Error("empty world bounds accepted")
	}

	b = NewBuilder(DefaultBuildConfig())
	b.AddDisplacement(Disp{})
	if _, err := b.Build(); err == nil {
		t.Error("empty displacement accepted")
	}
}

func BenchmarkBoxTrace(b *testing.B) {
	level := buildTestLevel(b)
	ray := cmodel.NewSweptBox(mgl32.Vec3{}, mgl32.Vec3{1024, 0, -32}, mgl32.Vec3{-16, -16, -16}, mgl32.Vec3{16, 16, 16})
	var tr cmodel.Trace
	for i := 0; i < b.N; i++ {
		level.world.BoxTrace(ray, 0, cmodel.MaskSolid, &tr)
	}
}
