package bsp

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
	"github.com/pkg/errors"
)

type BuildConfig struct {
	MaxDepth  int        `json:"max_depth"`
	WorldMins mgl32.Vec3 `json:"world_mins"`
	WorldMaxs mgl32.Vec3 `json:"world_maxs"`
}

func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		MaxDepth:  32,
		WorldMins: mgl32.Vec3{-16384, -16384, -16384},
		WorldMaxs: mgl32.Vec3{16384, 16384, 16384},
	}
}

// Builder compiles brushes and displacements into a World. It only splits on axial planes
// taken from the item bounds, which is exact for box brushes.
type Builder struct {
	config    BuildConfig
	brushes   []Brush
	disps     []Disp
	subModels [][]int
}

func NewBuilder(config BuildConfig) *Builder {
	return &Builder{
		config:    config,
		subModels: [][]int{nil},
	}
}

// AddBrush adds a brush to the world sub-model and returns its brush index.
func (b *Builder) AddBrush(brush Brush) int {
	b.brushes = append(b.brushes, brush)
	index := len(b.brushes) - 1
	b.subModels[0] = append(b.subModels[0], index)
	return index
}

func (b *Builder) AddDisplacement(disp Disp) int {
	b.disps = append(b.disps, disp)
	return len(b.disps) - 1
}

// AddSubModel adds a movable brush model. Its brushes are given in the model's local space.
func (b *Builder) AddSubModel(brushes ...Brush) int {
	var indices []int
	for _, brush := range brushes {
		b.brushes = append(b.brushes, brush)
		indices = append(indices, len(b.brushes)-1)
	}
	b.subModels = append(b.subModels, indices)
	return len(b.subModels) - 1
}

func (b *Builder) Build() (*World, error) {
	cfg := b.config
	if cfg.MaxDepth <= 0 {
		return nil, errors.Errorf("invalid max depth %d", cfg.MaxDepth)
	}
	for i := 0; i < 3; i++ {
		if cfg.WorldMins[i] >= cfg.WorldMaxs[i] {
			return nil, errors.Errorf("invalid world bounds %v %v", cfg.WorldMins, cfg.WorldMaxs)
		}
	}
	for i := range b.brushes {
		if err := validateBrush(&b.brushes[i]); err != nil {
			return nil, errors.Wrapf(err, "brush %d", i)
		}
	}
	for i := range b.disps {
		if len(b.disps[i].Triangles) == 0 {
			return nil, errors.Errorf("displacement %d has no triangles", i)
		}
	}

	world := &World{
		Brushes: b.brushes,
		Disps:   b.disps,
	}
	// leaf 0 is everything outside the level bounds
	world.Leafs = append(world.Leafs, Leaf{
		Contents: cmodel.ContentsSolid,
		Cluster:  -1,
		Mins:     cfg.WorldMins,
		Maxs:     cfg.WorldMaxs,
	})

	c := &compiler{world: world, maxDepth: cfg.MaxDepth}
	head := c.wrapBounds(cfg.WorldMins, cfg.WorldMaxs)

	var worldItems []item
	for _, index := range b.subModels[0] {
		worldItems = append(worldItems, item{brush: index, disp: -1, mins: b.brushes[index].Mins, maxs: b.brushes[index].Maxs})
	}
	for i := range b.disps {
		disp := &b.disps[i]
		mins, maxs := dispBounds(disp)
		disp.Mins, disp.Maxs = mins, maxs
		worldItems = append(worldItems, item{brush: -1, disp: i, mins: mins, maxs: maxs})
	}
	c.clusters = true
	inside := c.buildNode(worldItems, cfg.WorldMins, cfg.WorldMaxs, 0)
	world.Nodes[head].Children[1] = inside
	world.SubModels = append(world.SubModels, SubModel{Mins: cfg.WorldMins, Maxs: cfg.WorldMaxs, HeadNode: 0, Brushes: b.subModels[0]})

	c.clusters = false
	for i, brushes := range b.subModels[1:] {
		var items []item
		mins := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
		maxs := mins.Mul(-1)
		for _, index := range brushes {
			brush := &b.brushes[index]
			items = append(items, item{brush: index, disp: -1, mins: brush.Mins, maxs: brush.Maxs})
			mins = util.MinVec3(mins, brush.Mins)
			maxs = util.MaxVec3(maxs, brush.Maxs)
		}
		if len(items) == 0 {
			util.LogWorldWarning(fmt.Sprintf("sub-model %d has no brushes", i+1))
			mins, maxs = mgl32.Vec3{}, mgl32.Vec3{}
		}
		pad := mgl32.Vec3{1, 1, 1}
		headNode := c.buildNode(items, mins.Sub(pad), maxs.Add(pad), 0)
		world.SubModels = append(world.SubModels, SubModel{Mins: mins, Maxs: maxs, HeadNode: headNode, Brushes: brushes})
	}

	util.LogWorldDebug(fmt.Sprintf("built world: %d planes, %d nodes, %d leafs, %d brushes, %d displacements, %d sub-models",
		len(world.Planes), len(world.Nodes), len(world.Leafs), len(world.Brushes), len(world.Disps), len(world.SubModels)))
	return world, nil
}

func validateBrush(brush *Brush) error {
	if len(brush.Sides) < 4 {
		return errors.Errorf("only %d sides", len(brush.Sides))
	}
	for i := 0; i < 3; i++ {
		if brush.Mins[i] > brush.Maxs[i] {
			return errors.Errorf("inverted bounds %v %v", brush.Mins, brush.Maxs)
		}
	}
	return nil
}

func dispBounds(disp *Disp) (mgl32.Vec3, mgl32.Vec3) {
	mins, maxs := disp.Triangles[0].Bounds()
	for _, tri := range disp.Triangles[1:] {
		triMins, triMaxs := tri.Bounds()
		mins = util.MinVec3(mins, triMins)
		maxs = util.MaxVec3(maxs, triMaxs)
	}
	return mins, maxs
}

type item struct {
	brush int
	disp  int
	mins  mgl32.Vec3
	maxs  mgl32.Vec3
}

type compiler struct {
	world    *World
	maxDepth int
	clusters bool
}

func (c *compiler) addPlane(normal mgl32.Vec3, dist float32) int {
	c.world.Planes = append(c.world.Planes, cmodel.NewPlane(normal, dist))
	return len(c.world.Planes) - 1
}

func (c *compiler) addNode(planeNum int) int {
	c.world.Nodes = append(c.world.Nodes, Node{PlaneNum: planeNum})
	return len(c.world.Nodes) - 1
}

// wrapBounds chains six nodes whose front sides lead to the outside leaf. It returns the
// last node, its back child is the inside of the level.
func (c *compiler) wrapBounds(mins, maxs mgl32.Vec3) int {
	last := -1
	for axis := 0; axis < 3; axis++ {
		for _, sign := range [2]float32{1, -1} {
			normal := mgl32.Vec3{}
			normal[axis] = sign
			dist := maxs[axis]
			if sign < 0 {
				dist = -mins[axis]
			}
			node := c.addNode(c.addPlane(normal, dist))
			c.world.Nodes[node].Children[0] = -1 // leaf 0
			if last >= 0 {
				c.world.Nodes[last].Children[1] = node
			}
			last = node
		}
	}
	return last
}

func (c *compiler) buildNode(items []item, mins, maxs mgl32.Vec3, depth int) int {
	if depth >= c.maxDepth || len(items) == 0 {
		return c.makeLeaf(items, mins, maxs)
	}
	axis, dist, ok := chooseSplit(items, mins, maxs)
	if !ok {
		return c.makeLeaf(items, mins, maxs)
	}

	var front, back []item
	for _, it := range items {
		if it.maxs[axis] >= dist {
			front = append(front, it)
		}
		if it.mins[axis] <= dist {
			back = append(back, it)
		}
	}

	normal := mgl32.Vec3{}
	normal[axis] = 1
	node := c.addNode(c.addPlane(normal, dist))

	frontMins := mins
	frontMins[axis] = dist
	backMaxs := maxs
	backMaxs[axis] = dist

	frontChild := c.buildNode(front, frontMins, maxs, depth+1)
	backChild := c.buildNode(back, mins, backMaxs, depth+1)
	c.world.Nodes[node].Children = [2]int{frontChild, backChild}
	return node
}

// chooseSplit picks the item face inside the node bounds that splits the fewest items and
// balances the rest.
func chooseSplit(items []item, mins, maxs mgl32.Vec3) (int, float32, bool) {
	bestScore := math.MaxInt32
	bestAxis := -1
	var bestDist float32
	for _, candidate := range items {
		for axis := 0; axis < 3; axis++ {
			for _, dist := range [2]float32{candidate.mins[axis], candidate.maxs[axis]} {
				if dist <= mins[axis] || dist >= maxs[axis] {
					continue
				}
				front, back, spanning := 0, 0, 0
				for _, it := range items {
					switch {
					case it.mins[axis] >= dist:
						front++
					case it.maxs[axis] <= dist:
						back++
					default:
						spanning++
					}
				}
				balance := front - back
				if balance < 0 {
					balance = -balance
				}
				score := spanning*3 + balance
				if score < bestScore {
					bestScore = score
					bestAxis = axis
					bestDist = dist
				}
			}
		}
	}
	return bestAxis, bestDist, bestAxis >= 0
}

func (c *compiler) makeLeaf(items []item, mins, maxs mgl32.Vec3) int {
	leaf := Leaf{Mins: mins, Maxs: maxs}
	for _, it := range items {
		if !util.BoxesIntersect(it.mins, it.maxs, mins, maxs) {
			continue
		}
		if it.disp >= 0 {
			leaf.Disps = append(leaf.Disps, it.disp)
			continue
		}
		leaf.Brushes = append(leaf.Brushes, it.brush)
		brush := &c.world.Brushes[it.brush]
		if brush.IsBox() && util.PointInBox(mins, brush.Mins, brush.Maxs) && util.PointInBox(maxs, brush.Mins, brush.Maxs) {
			leaf.Contents |= brush.Contents
		}
	}
	leaf.Cluster = -1
	if c.clusters && leaf.Contents&cmodel.ContentsSolid == 0 {
		leaf.Cluster = len(c.world.Leafs)
	}
	c.world.Leafs = append(c.world.Leafs, leaf)
	return -1 - (len(c.world.Leafs) - 1)
}

// AxialBoxBrush builds a box brush with one surface on all six faces.
func AxialBoxBrush(mins, maxs mgl32.Vec3, contents cmodel.Contents, surface cmodel.Surface) Brush {
	surf := &surface
	sides := make([]cmodel.Side, 0, 6)
	for axis := 0; axis < 3; axis++ {
		normal := mgl32.Vec3{}
		normal[axis] = 1
		sides = append(sides,
			cmodel.Side{Plane: cmodel.NewPlane(normal, maxs[axis]), Surface: surf},
			cmodel.Side{Plane: cmodel.NewPlane(normal.Mul(-1), -mins[axis]), Surface: surf},
		)
	}
	return Brush{
		Contents: contents,
		Sides:    sides,
		Mins:     mins,
		Maxs:     maxs,
	}
}
