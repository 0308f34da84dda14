package trace

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/bsp"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/entity"
	"github.com/memmaker/enginetrace/engine/model"
	"github.com/memmaker/enginetrace/engine/partition"
	"github.com/memmaker/enginetrace/engine/staticprop"
	"github.com/memmaker/enginetrace/engine/studio"
	"github.com/memmaker/enginetrace/engine/util"
	"github.com/memmaker/enginetrace/engine/vphysics"
)

const (
	doorModel  = 1
	waterModel = 2
)

type testScene struct {
	world    *bsp.World
	grid     *partition.Grid
	loader   *model.Loader
	studio   *studio.Cache
	props    *staticprop.Manager
	entities *entity.List
	deps     Dependencies
	tracer   *EngineTrace
}

// buildWorld: a wall at x 512..576, a floor below z -64, a pool of current water, a
// displacement patch and two brush models (a door and a water volume).
func buildWorld(t testing.TB) *bsp.World {
	b := bsp.NewBuilder(bsp.DefaultBuildConfig())
	b.AddBrush(bsp.AxialBoxBrush(mgl32.Vec3{512, -64, -64}, mgl32.Vec3{576, 64, 64}, cmodel.ContentsSolid, cmodel.Surface{Name: "wall", SurfaceProps: 3}))
	b.AddBrush(bsp.AxialBoxBrush(mgl32.Vec3{-1024, -1024, -128}, mgl32.Vec3{1024, 1024, -64}, cmodel.ContentsSolid, cmodel.Surface{Name: "floor", SurfaceProps: 4}))
	b.AddBrush(bsp.AxialBoxBrush(mgl32.Vec3{-256, 256, -64}, mgl32.Vec3{-128, 384, 0}, cmodel.ContentsWater|cmodel.ContentsCurrent0, cmodel.Surface{Name: "water"}))
	heights := [][]float32{{16, 16, 16}, {16, 16, 16}, {16, 16, 16}}
	b.AddDisplacement(bsp.DisplacementFromGrid(mgl32.Vec3{-512, -512, -64}, mgl32.Vec2{256, 256}, heights, cmodel.ContentsSolid, cmodel.Surface{Name: "grass"}))
	b.AddSubModel(bsp.AxialBoxBrush(mgl32.Vec3{-16, -32, -8}, mgl32.Vec3{16, 32, 8}, cmodel.ContentsSolid, cmodel.Surface{Name: "door"}))
	b.AddSubModel(bsp.AxialBoxBrush(mgl32.Vec3{-32, -32, -32}, mgl32.Vec3{32, 32, 32}, cmodel.ContentsWater, cmodel.Surface{Name: "slime"}))
	world, err := b.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return world
}

func newTestScene(t testing.TB, cfg Config, client bool) *testScene {
	world := buildWorld(t)
	s := &testScene{
		world:  world,
		grid:   partition.NewGrid(partition.DefaultConfig()),
		loader: model.NewLoader(),
		studio: studio.NewCache(nil),
	}
	s.loader.RegisterBrushModels(world.SubModelBounds())
	s.props = staticprop.NewManager(s.grid)
	s.deps = Dependencies{
		World:       world,
		Partition:   s.grid,
		StaticProps: s.props,
		Physics:     vphysics.New(),
		Models:      s.studio,
	}
	if client {
		s.entities = entity.NewClientList(s.grid)
		s.tracer = NewClient(cfg, s.deps, s.entities)
	} else {
		s.entities = entity.NewServerList(s.grid)
		s.tracer = NewServer(cfg, s.deps, s.entities)
	}
	s.entities.SetWorldModel(s.loader.ByName(model.InlineName(0)))
	return s
}

func (s *testScene) addBox(className string, origin, mins, maxs mgl32.Vec3) *entity.BaseEntity {
	e := s.entities.Spawn(className)
	c := e.Collision()
	c.SetCollisionBounds(mins, maxs)
	c.SetOrigin(origin)
	c.SetSolid(cmodel.SolidBBox)
	return e
}

func (s *testScene) addCube(className string, origin mgl32.Vec3, halfSize float32) *entity.BaseEntity {
	extents := mgl32.Vec3{halfSize, halfSize, halfSize}
	return s.addBox(className, origin, extents.Mul(-1), extents)
}

func (s *testScene) addBrushEntity(className string, subModel int, origin, angles mgl32.Vec3) *entity.BaseEntity {
	e := s.entities.Spawn(className)
	c := e.Collision()
	c.SetModel(s.loader.ByName(model.InlineName(subModel)))
	c.SetOrigin(origin)
	c.SetAngles(angles)
	c.SetSolid(cmodel.SolidBSP)
	return e
}

func crateModel() *studio.Model {
	mins, maxs := mgl32.Vec3{-16, -16, 0}, mgl32.Vec3{16, 16, 32}
	return &studio.Model{
		Name:        "models/props/crate.mdl",
		Contents:    cmodel.ContentsSolid,
		SurfaceProp: 21,
		Mins:        mins,
		Maxs:        maxs,
		Collide: &vphysics.Collide{Solids: []*vphysics.Solid{
			vphysics.NewSolid([]vphysics.Convex{vphysics.BoxConvex(mins, maxs, 0)}, nil),
		}},
	}
}

// addCrate places a physics crate whose bottom is at origin.
func (s *testScene) addCrate(t testing.TB, origin mgl32.Vec3) *staticprop.Prop {
	prop, err := s.props.AddProp(s.studio.Register(s.loader, crateModel()), origin, mgl32.Vec3{}, cmodel.SolidVPhysics)
	if err != nil {
		t.Fatalf("adding crate: %v", err)
	}
	return prop
}

func npcModel() *studio.Model {
	contents := cmodel.ContentsSolid | cmodel.ContentsMonster
	return &studio.Model{
		Name:        "models/npc.mdl",
		Contents:    contents,
		SurfaceProp: 4,
		Mins:        mgl32.Vec3{-16, -16, 0},
		Maxs:        mgl32.Vec3{16, 16, 72},
		Bones: []studio.Bone{{
			Name:        "root",
			Parent:      -1,
			Rotation:    mgl32.QuatIdent(),
			Contents:    contents,
			SurfaceProp: 9,
		}},
		HitboxSets: []studio.HitboxSet{{
			Name: "default",
			Hitboxes: []studio.Hitbox{
				{Name: "head", Bone: 0, Group: studio.HitGroupHead, Mins: mgl32.Vec3{-8, -8, 0}, Maxs: mgl32.Vec3{8, 8, 16}},
			},
		}},
	}
}

// addNPC spawns a bounding box NPC with hitboxes standing at origin.
func (s *testScene) addNPC(origin mgl32.Vec3) *entity.BaseEntity {
	studioModel := npcModel()
	e := s.entities.Spawn("npc_citizen")
	c := e.Collision()
	c.SetModel(s.studio.Register(s.loader, studioModel))
	c.SetOrigin(origin)
	c.SetSolid(cmodel.SolidBBox)
	c.SetStudio(studioModel, 0)
	return e
}

func near(a, b float32) bool {
	return util.Abs(a-b) < 1e-4
}

func checkInvariants(t *testing.T, ray cmodel.Ray, tr *cmodel.Trace) {
	t.Helper()
	if tr.Fraction < 0 || tr.Fraction > 1 {
		t.Errorf("fraction %v out of range", tr.Fraction)
	}
	if tr.FractionLeftSolid < 0 || tr.FractionLeftSolid > tr.Fraction {
		t.Errorf("fractionleftsolid %v, fraction %v", tr.FractionLeftSolid, tr.Fraction)
	}
	if tr.AllSolid && tr.Fraction != 0 {
		t.Errorf("allsolid with fraction %v", tr.Fraction)
	}
	if !ray.IsRay && tr.FractionLeftSolid != 0 {
		t.Errorf("swept box with fractionleftsolid %v", tr.FractionLeftSolid)
	}
	end := ray.Origin().Add(ray.Delta.Mul(tr.Fraction))
	if !tr.EndPos.ApproxEqualThreshold(end, 1e-3) {
		t.Errorf("endpos %v, want %v", tr.EndPos, end)
	}
}
