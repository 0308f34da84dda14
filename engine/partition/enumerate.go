package partition

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
)

// bloat keeps candidate selection conservative against the epsilons of the clippers
const bloat float32 = 1

// collector gathers the distinct elements of a query before any callback runs, so callbacks
// may query or modify the grid.
type collector struct {
	grid   *Grid
	lists  ListMask
	seen   []uint64
	found  []cmodel.HandleEntity
	accept func(e *element) bool
}

func (g *Grid) newCollector(lists ListMask, accept func(e *element) bool) *collector {
	return &collector{
		grid:   g,
		lists:  lists,
		seen:   make([]uint64, (len(g.elements)+63)/64),
		accept: accept,
	}
}

func (c *collector) consider(h Handle) {
	word, bit := h/64, uint64(1)<<(uint(h)%64)
	if c.seen[word]&bit != 0 {
		return
	}
	c.seen[word] |= bit
	e := &c.grid.elements[h]
	if !e.alive || e.lists&c.lists == 0 || !c.accept(e) {
		return
	}
	c.found = append(c.found, e.entity)
}

func (c *collector) visitCell(cell util.Int3) {
	for _, h := range c.grid.cells[cell] {
		c.consider(h)
	}
}

func (c *collector) visitRange(lo, hi util.Int3) {
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				c.visitCell(util.Int3{X: x, Y: y, Z: z})
			}
		}
	}
}

func (c *collector) visitLarge() {
	for _, h := range c.grid.large {
		c.consider(h)
	}
}

func (c *collector) emit(fn EnumerateFunc) {
	for _, entity := range c.found {
		if !fn(entity) {
			return
		}
	}
}

// EnumerateElementsInBox calls fn for every element in lists whose bounds touch the box.
func (g *Grid) EnumerateElementsInBox(lists ListMask, mins, maxs mgl32.Vec3, fn EnumerateFunc) {
	qmins := mins.Sub(mgl32.Vec3{bloat, bloat, bloat})
	qmaxs := maxs.Add(mgl32.Vec3{bloat, bloat, bloat})
	c := g.newCollector(lists, func(e *element) bool {
		return util.BoxesIntersect(qmins, qmaxs, e.mins, e.maxs)
	})
	lo, hi := g.cellRange(qmins, qmaxs)
	if cellCount(lo, hi) > len(g.elements) {
		// cheaper to test every element
		for _, h := range g.sortedHandles() {
			c.consider(h)
		}
	} else {
		c.visitRange(lo, hi)
		c.visitLarge()
	}
	c.emit(fn)
}

// EnumerateElementsAtPoint calls fn for every element in lists whose bounds contain p.
func (g *Grid) EnumerateElementsAtPoint(lists ListMask, p mgl32.Vec3, fn EnumerateFunc) {
	c := g.newCollector(lists, func(e *element) bool {
		return util.PointInBox(p, e.mins, e.maxs)
	})
	c.visitCell(util.PositionToCell(p, g.invCellSize))
	c.visitLarge()
	c.emit(fn)
}

// EnumerateElementsAlongRay calls fn for the elements in lists the ray or swept box may
// touch, in the order the ray reaches their cells.
func (g *Grid) EnumerateElementsAlongRay(lists ListMask, ray cmodel.Ray, fn EnumerateFunc) {
	if !ray.IsSwept {
		mins, maxs := ray.Bounds()
		g.EnumerateElementsInBox(lists, mins, maxs, fn)
		return
	}
	extents := ray.Extents.Add(mgl32.Vec3{bloat, bloat, bloat})
	c := g.newCollector(lists, func(e *element) bool {
		_, ok := util.IntersectRayWithBox(ray.Start, ray.Delta, e.mins.Sub(extents), e.maxs.Add(extents), 0)
		return ok
	})
	reach := util.Int3{
		X: int32(util.Ceil(extents.X() * g.invCellSize)),
		Y: int32(util.Ceil(extents.Y() * g.invCellSize)),
		Z: int32(util.Ceil(extents.Z() * g.invCellSize)),
	}
	visit := func(cell util.Int3) {
		c.visitRange(cell.Sub(reach), cell.Add(reach))
	}
	util.WalkCells(ray.Start, ray.End(), g.cellSize, func(cell util.Int3) bool {
		visit(cell)
		return false
	})
	visit(util.PositionToCell(ray.End(), g.invCellSize))
	c.visitLarge()
	c.emit(fn)
}

func (g *Grid) sortedHandles() []Handle {
	handles := make([]Handle, 0, g.Count())
	for i := range g.elements {
		if g.elements[i].alive {
			handles = append(handles, Handle(i))
		}
	}
	return handles
}
