package vphysics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/bsp"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
	"github.com/pkg/errors"
)

// Convex is a closed convex hull in the local space of its solid. GameData is handed to
// the contents callback when the convex is hit.
type Convex struct {
	Sides    []cmodel.Side
	GameData int
	Mins     mgl32.Vec3
	Maxs     mgl32.Vec3
}

// Solid is a set of convexes plus an optional one sided triangle soup.
type Solid struct {
	Convexes  []Convex
	Triangles []util.Triangle
	Mins      mgl32.Vec3
	Maxs      mgl32.Vec3
}

type Collide struct {
	Solids []*Solid
}

func BoxConvex(mins, maxs mgl32.Vec3, gameData int) Convex {
	sides := make([]cmodel.Side, 0, 6)
	for axis := 0; axis < 3; axis++ {
		normal := mgl32.Vec3{}
		normal[axis] = 1
		sides = append(sides,
			cmodel.Side{Plane: cmodel.NewPlane(normal, maxs[axis])},
			cmodel.Side{Plane: cmodel.NewPlane(normal.Mul(-1), -mins[axis])},
		)
	}
	return Convex{
		Sides:    sides,
		GameData: gameData,
		Mins:     mins,
		Maxs:     maxs,
	}
}

func NewSolid(convexes []Convex, triangles []util.Triangle) *Solid {
	solid := &Solid{Convexes: convexes, Triangles: triangles}
	mins := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	maxs := mins.Mul(-1)
	for _, convex := range convexes {
		mins = util.MinVec3(mins, convex.Mins)
		maxs = util.MaxVec3(maxs, convex.Maxs)
	}
	for _, tri := range triangles {
		triMins, triMaxs := tri.Bounds()
		mins = util.MinVec3(mins, triMins)
		maxs = util.MaxVec3(maxs, triMaxs)
	}
	if len(convexes) == 0 && len(triangles) == 0 {
		mins, maxs = mgl32.Vec3{}, mgl32.Vec3{}
	}
	solid.Mins, solid.Maxs = mins, maxs
	return solid
}

// CollideFromBrushes turns the brushes of a level sub-model into one solid. Each convex
// carries its brush index as game data.
func CollideFromBrushes(world *bsp.World, subModel int) (*Collide, error) {
	if subModel < 0 || subModel >= len(world.SubModels) {
		return nil, errors.Errorf("sub-model %d out of range", subModel)
	}
	var convexes []Convex
	for _, index := range world.SubModelBrushes(subModel) {
		brush := &world.Brushes[index]
		convexes = append(convexes, Convex{
			Sides:    brush.Sides,
			GameData: index,
			Mins:     brush.Mins,
			Maxs:     brush.Maxs,
		})
	}
	if len(convexes) == 0 {
		return nil, errors.Errorf("sub-model %d has no brushes", subModel)
	}
	return &Collide{Solids: []*Solid{NewSolid(convexes, nil)}}, nil
}

// Cache maps model names to their collision data.
type Cache struct {
	collides map[string]*Collide
}

func NewCache() *Cache {
	return &Cache{collides: make(map[string]*Collide)}
}

func (c *Cache) Add(name string, collide *Collide) {
	c.collides[name] = collide
}

func (c *Cache) Get(name string) *Collide {
	return c.collides[name]
}
