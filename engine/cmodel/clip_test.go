package cmodel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/util"
)

func unitCubeSides() []Side {
	surface := &Surface{Name: "concrete", SurfaceProps: 7}
	var sides []Side
	for axis := 0; axis < 3; axis++ {
		var n mgl32.Vec3
		n[axis] = 1
		sides = append(sides, Side{Plane: NewPlane(n, 1), Surface: surface})
		sides = append(sides, Side{Plane: NewPlane(n.Mul(-1), 1), Surface: surface})
	}
	return sides
}

func clearedTrace() *Trace {
	tr := &Trace{}
	tr.Clear()
	return tr
}

func TestClipBoxToPlanes(t *testing.T) {
	tests := []struct {
		name       string
		start, end mgl32.Vec3
		extents    mgl32.Vec3
		fraction   float32
		fls        float32
		startSolid bool
		allSolid   bool
		normal     mgl32.Vec3
	}{
		{"ray hits the near face", mgl32.Vec3{-10, 0, 0}, mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}, (9 - DistEpsilon) / 20, 0, false, false, mgl32.Vec3{-1, 0, 0}},
		{"box hits the expanded face", mgl32.Vec3{-10, 0, 0}, mgl32.Vec3{10, 0, 0}, mgl32.Vec3{0.5, 0.5, 0.5}, (8.5 - DistEpsilon) / 20, 0, false, false, mgl32.Vec3{-1, 0, 0}},
		{"ray misses", mgl32.Vec3{-10, 5, 0}, mgl32.Vec3{10, 5, 0}, mgl32.Vec3{}, 1, 0, false, false, mgl32.Vec3{}},
		{"ray leaves the solid", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}, 1, (1 - DistEpsilon) / 10, true, false, mgl32.Vec3{}},
		{"ray stays inside", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{}, 0, 0, true, true, mgl32.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := clearedTrace()
			ClipBoxToPlanes(tt.start, tt.end, tt.extents, unitCubeSides(), ContentsSolid, tr)
			if util.Abs(tr.Fraction-tt.fraction) > 1e-6 {
				t.Errorf("fraction = %v, want %v", tr.Fraction, tt.fraction)
			}
			if util.Abs(tr.FractionLeftSolid-tt.fls) > 1e-6 {
				t.Errorf("fractionleftsolid = %v, want %v", tr.FractionLeftSolid, tt.fls)
			}
			if tr.StartSolid != tt.startSolid || tr.AllSolid != tt.allSolid {
				t.Errorf("startsolid/allsolid = %v/%v, want %v/%v", tr.StartSolid, tr.AllSolid, tt.startSolid, tt.allSolid)
			}
			if tt.fraction < 1 && !tt.allSolid {
				if tr.Plane.Normal != tt.normal {
					t.Errorf("normal = %v, want %v", tr.Plane.Normal, tt.normal)
				}
				if tr.Surface.Name != "concrete" || tr.Contents != ContentsSolid {
					t.Errorf("surface/contents not stamped: %+v %x", tr.Surface, tr.Contents)
				}
			}
		})
	}
}

func TestClipBoxToPlanesKeepsCloserHit(t *testing.T) {
	tr := clearedTrace()
	tr.Fraction = 0.1
	ClipBoxToPlanes(mgl32.Vec3{-10, 0, 0}, mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}, unitCubeSides(), ContentsSolid, tr)
	if tr.Fraction != 0.1 {
		t.Errorf("fraction = %v, a farther hit must not replace it", tr.Fraction)
	}
}

func TestClipBoxToTriangle(t *testing.T) {
	tri := util.Triangle{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}}
	surface := &Surface{Name: SurfaceNameDisplacement}

	tr := clearedTrace()
	if !ClipBoxToTriangle(mgl32.Vec3{1, 1, 5}, mgl32.Vec3{1, 1, -5}, mgl32.Vec3{}, tri, ContentsSolid, surface, tr) {
		t.Fatal("ray from above should hit")
	}
	if util.Abs(tr.Fraction-(0.5-DistEpsilon/10)) > 1e-6 {
		t.Errorf("ray fraction = %v", tr.Fraction)
	}
	if tr.Plane.Normal != (mgl32.Vec3{0, 0, 1}) || tr.Surface.Name != SurfaceNameDisplacement {
		t.Errorf("plane/surface = %v %v", tr.Plane, tr.Surface)
	}

	tr = clearedTrace()
	if ClipBoxToTriangle(mgl32.Vec3{1, 1, -5}, mgl32.Vec3{1, 1, 5}, mgl32.Vec3{}, tri, ContentsSolid, surface, tr) {
		t.Error("back facing ray should pass through")
	}

	tr = clearedTrace()
	if !ClipBoxToTriangle(mgl32.Vec3{1, 1, 5}, mgl32.Vec3{1, 1, -5}, mgl32.Vec3{1, 1, 1}, tri, ContentsSolid, surface, tr) {
		t.Fatal("box from above should hit")
	}
	if util.Abs(tr.Fraction-(4-DistEpsilon)/10) > 1e-6 {
		t.Errorf("box fraction = %v", tr.Fraction)
	}
	if tr.Plane.Normal != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("box normal = %v", tr.Plane.Normal)
	}
}

func TestRayConstruction(t *testing.T) {
	ray := NewRay(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 13})
	if !ray.IsRay || !ray.IsSwept {
		t.Errorf("line should be a swept ray: %+v", ray)
	}
	inv := ray.InvDelta()
	if inv.Z() != 0.1 || inv.X() < 1e30 {
		t.Errorf("inverse delta = %v", inv)
	}

	box := NewSweptBox(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{-1, -2, 0}, mgl32.Vec3{1, 2, 4})
	if box.IsRay || box.IsSwept {
		t.Errorf("static box flags: %+v", box)
	}
	if box.Extents != (mgl32.Vec3{1, 2, 2}) || box.Start != (mgl32.Vec3{0, 0, 2}) {
		t.Errorf("box layout: %+v", box)
	}
	if box.Origin() != (mgl32.Vec3{}) {
		t.Errorf("origin = %v", box.Origin())
	}
}

func TestTraceHelpers(t *testing.T) {
	tr := clearedTrace()
	if tr.DidHit() || tr.Fraction != 1 || tr.Surface.Name != SurfaceNameEmpty || tr.EntIndex() != -1 {
		t.Errorf("cleared trace: %+v", tr)
	}
	tr.StartSolid = true
	tr.Fraction = 0.25
	tr.FractionLeftSolid = 0.5
	tr.Finish(NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, 8}))
	if tr.FractionLeftSolid != 0.25 {
		t.Errorf("fractionleftsolid = %v, want it clamped to 0.25", tr.FractionLeftSolid)
	}
	if tr.EndPos != (mgl32.Vec3{0, 0, 2}) {
		t.Errorf("end = %v", tr.EndPos)
	}
}

func TestEHandle(t *testing.T) {
	h := NewEHandle(42, 7)
	if h.Index() != 42 || h.Serial() != 7 || h.IsStaticProp() {
		t.Errorf("handle %x decodes to %d/%d", uint32(h), h.Index(), h.Serial())
	}
	prop := StaticPropHandle(3)
	if !prop.IsStaticProp() || prop.Index() != 3 {
		t.Errorf("static prop handle %x", uint32(prop))
	}
	if InvalidEHandle.IsStaticProp() || InvalidEHandle.IsValid() {
		t.Error("invalid handle reports valid")
	}
}

func TestPlaneClassification(t *testing.T) {
	p := NewPlane(mgl32.Vec3{0, -1, 0}, 4)
	if p.Type != PlaneY || p.SignBits != 2 || !p.IsAxial() {
		t.Errorf("plane %+v", p)
	}
	if p.Distance(mgl32.Vec3{0, -10, 0}) != 6 {
		t.Errorf("distance = %v", p.Distance(mgl32.Vec3{0, -10, 0}))
	}
	q := NewPlane(mgl32.Vec3{0.6, 0.8, 0}, 0)
	if q.Type != PlaneAnyY || q.IsAxial() {
		t.Errorf("plane %+v", q)
	}
}
