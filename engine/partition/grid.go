package partition

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
)

// ListMask selects the element categories an enumeration looks at.
type ListMask uint32

const (
	EngineSolidEdicts ListMask = 1 << iota
	EngineTriggerEdicts
	EngineStaticProps
	ClientSolidEdicts
	ClientStaticProps
	ClientResponsiveEdicts
	ClientNonStaticEdicts

	AllLists = EngineSolidEdicts | EngineTriggerEdicts | EngineStaticProps | ClientSolidEdicts |
		ClientStaticProps | ClientResponsiveEdicts | ClientNonStaticEdicts
)

// Handle identifies an element inside the grid.
type Handle int32

const InvalidHandle Handle = -1

// EnumerateFunc is called once per element; returning false stops the enumeration.
type EnumerateFunc func(entity cmodel.HandleEntity) bool

type Config struct {
	CellSize float32 `json:"cell_size"`
	// elements covering more cells than this are kept in a list that every query visits
	MaxCellsPerElement int `json:"max_cells_per_element"`
}

func DefaultConfig() Config {
	return Config{
		CellSize:           256,
		MaxCellsPerElement: 512,
	}
}

type element struct {
	entity cmodel.HandleEntity
	lists  ListMask
	mins   mgl32.Vec3
	maxs   mgl32.Vec3
	cells  []util.Int3
	large  bool
	alive  bool
}

// Grid is a uniform grid spatial partition. Element lists inside a cell are kept in
// handle order, so enumerations are deterministic.
type Grid struct {
	cellSize    float32
	invCellSize float32
	maxCells    int
	elements    []element
	free        []Handle
	cells       map[util.Int3][]Handle
	large       []Handle
}

func NewGrid(cfg Config) *Grid {
	defaults := DefaultConfig()
	if cfg.CellSize <= 0 {
		cfg.CellSize = defaults.CellSize
	}
	if cfg.MaxCellsPerElement <= 0 {
		cfg.MaxCellsPerElement = defaults.MaxCellsPerElement
	}
	return &Grid{
		cellSize:    cfg.CellSize,
		invCellSize: 1 / cfg.CellSize,
		maxCells:    cfg.MaxCellsPerElement,
		cells:       make(map[util.Int3][]Handle),
	}
}

func (g *Grid) Count() int {
	return len(g.elements) - len(g.free)
}

// Insert adds an entity with the given world bounds to the lists in mask.
func (g *Grid) Insert(entity cmodel.HandleEntity, lists ListMask, mins, maxs mgl32.Vec3) Handle {
	var h Handle
	if n := len(g.free); n > 0 {
		h = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		h = Handle(len(g.elements))
		g.elements = append(g.elements, element{})
	}
	g.elements[h] = element{entity: entity, lists: lists, alive: true}
	g.link(h, mins, maxs)
	return h
}

// Move relinks an element after its bounds changed.
func (g *Grid) Move(h Handle, mins, maxs mgl32.Vec3) {
	if !g.valid(h) {
		util.LogPartitionWarning(fmt.Sprintf("move of invalid partition handle %d", h))
		return
	}
	g.unlink(h)
	g.link(h, mins, maxs)
}

func (g *Grid) SetLists(h Handle, lists ListMask) {
	if g.valid(h) {
		g.elements[h].lists = lists
	}
}

func (g *Grid) Remove(h Handle) {
	if !g.valid(h) {
		return
	}
	g.unlink(h)
	g.elements[h] = element{}
	g.free = append(g.free, h)
}

func (g *Grid) valid(h Handle) bool {
	return h >= 0 && int(h) < len(g.elements) && g.elements[h].alive
}

func (g *Grid) cellRange(mins, maxs mgl32.Vec3) (util.Int3, util.Int3) {
	return util.PositionToCell(mins, g.invCellSize), util.PositionToCell(maxs, g.invCellSize)
}

func cellCount(lo, hi util.Int3) int {
	return int(hi.X-lo.X+1) * int(hi.Y-lo.Y+1) * int(hi.Z-lo.Z+1)
}

func (g *Grid) link(h Handle, mins, maxs mgl32.Vec3) {
	e := &g.elements[h]
	e.mins, e.maxs = mins, maxs
	lo, hi := g.cellRange(mins, maxs)
	if cellCount(lo, hi) > g.maxCells {
		e.large = true
		g.large = insertSorted(g.large, h)
		util.LogPartitionDebug(fmt.Sprintf("element %d spans %d cells, kept in the large list", h, cellCount(lo, hi)))
		return
	}
	e.large = false
	e.cells = e.cells[:0]
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				cell := util.Int3{X: x, Y: y, Z: z}
				e.cells = append(e.cells, cell)
				g.cells[cell] = insertSorted(g.cells[cell], h)
			}
		}
	}
}

func (g *Grid) unlink(h Handle) {
	e := &g.elements[h]
	if e.large {
		g.large = removeSorted(g.large, h)
		e.large = false
		return
	}
	for _, cell := range e.cells {
		bucket := removeSorted(g.cells[cell], h)
		if len(bucket) == 0 {
			delete(g.cells, cell)
		} else {
			g.cells[cell] = bucket
		}
	}
	e.cells = e.cells[:0]
}

func insertSorted(list []Handle, h Handle) []Handle {
	i := len(list)
	for i > 0 && list[i-1] > h {
		i--
	}
	if i > 0 && list[i-1] == h {
		return list
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = h
	return list
}

func removeSorted(list []Handle, h Handle) []Handle {
	for i, other := range list {
		if other == h {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
