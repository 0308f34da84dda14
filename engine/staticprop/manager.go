package staticprop

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/model"
	"github.com/memmaker/enginetrace/engine/partition"
	"github.com/memmaker/enginetrace/engine/util"
	"github.com/pkg/errors"
)

// Lists are the partition lists static props are linked into.
const Lists = partition.EngineStaticProps | partition.ClientStaticProps

// Prop is a static prop. It is its own collideable and partition element.
type Prop struct {
	index     int
	model     *model.Model
	solid     cmodel.SolidType
	origin    mgl32.Vec3
	angles    mgl32.Vec3
	worldMins mgl32.Vec3
	worldMaxs mgl32.Vec3
	handle    partition.Handle
}

func (p *Prop) Index() int {
	return p.index
}

func (p *Prop) GetRefEHandle() cmodel.EHandle {
	return cmodel.StaticPropHandle(p.index)
}

func (p *Prop) GetEntityHandle() cmodel.HandleEntity {
	return p
}

func (p *Prop) GetSolid() cmodel.SolidType {
	return p.solid
}

func (p *Prop) GetSolidFlags() cmodel.SolidFlags {
	return 0
}

func (p *Prop) GetCollisionModel() *model.Model {
	return p.model
}

func (p *Prop) GetCollisionOrigin() mgl32.Vec3 {
	return p.origin
}

func (p *Prop) GetCollisionAngles() mgl32.Vec3 {
	return p.angles
}

func (p *Prop) OBBMins() mgl32.Vec3 {
	return p.model.Mins
}

func (p *Prop) OBBMaxs() mgl32.Vec3 {
	return p.model.Maxs
}

func (p *Prop) WorldSpaceSurroundingBounds() (mgl32.Vec3, mgl32.Vec3) {
	return p.worldMins, p.worldMaxs
}

func (p *Prop) GetRootParentToWorldTransform() *mgl32.Mat4 {
	return nil
}

func (p *Prop) TestCollision(ray cmodel.Ray, mask cmodel.Contents, tr *cmodel.Trace) bool {
	return false
}

func (p *Prop) TestHitboxes(ray cmodel.Ray, mask cmodel.Contents, tr *cmodel.Trace) bool {
	return false
}

// Manager is the static prop registry of a level.
type Manager struct {
	props []*Prop
	grid  *partition.Grid
}

// NewManager creates an empty registry. Props are linked into grid when it is not nil.
func NewManager(grid *partition.Grid) *Manager {
	return &Manager{grid: grid}
}

// AddProp places a prop. Studio props collide with their vcollide (SolidVPhysics) or their
// bounds (SolidBBox, SolidOBB).
func (m *Manager) AddProp(mdl *model.Model, origin, angles mgl32.Vec3, solid cmodel.SolidType) (*Prop, error) {
	if mdl == nil {
		return nil, errors.New("static prop without model")
	}
	switch solid {
	case cmodel.SolidVPhysics, cmodel.SolidBBox, cmodel.SolidOBB, cmodel.SolidNone:
	default:
		return nil, errors.Errorf("static prop %s: unsupported solid type %s", mdl.Name, solid)
	}
	if len(m.props) >= 1<<16 {
		return nil, errors.Errorf("static prop %s: too many props", mdl.Name)
	}
	prop := &Prop{
		index:  len(m.props),
		model:  mdl,
		solid:  solid,
		origin: origin,
		angles: angles,
		handle: partition.InvalidHandle,
	}
	if solid == cmodel.SolidBBox {
		prop.worldMins, prop.worldMaxs = origin.Add(mdl.Mins), origin.Add(mdl.Maxs)
	} else {
		prop.worldMins, prop.worldMaxs = util.TransformAABB(util.AngleMatrix(angles, origin), mdl.Mins, mdl.Maxs)
	}
	m.props = append(m.props, prop)
	if m.grid != nil && solid != cmodel.SolidNone {
		prop.handle = m.grid.Insert(prop, Lists, prop.worldMins, prop.worldMaxs)
	}
	util.LogEntityDebug(fmt.Sprintf("static prop %d: %s (%s) at %v", prop.index, mdl.Name, solid, origin))
	return prop, nil
}

func (m *Manager) Count() int {
	return len(m.props)
}

func (m *Manager) Prop(index int) *Prop {
	if index < 0 || index >= len(m.props) {
		return nil
	}
	return m.props[index]
}

func (m *Manager) IsStaticProp(entity cmodel.HandleEntity) bool {
	return entity != nil && entity.GetRefEHandle().IsStaticProp()
}

func (m *Manager) GetStaticProp(entity cmodel.HandleEntity) cmodel.Collideable {
	if !m.IsStaticProp(entity) {
		return nil
	}
	if prop := m.Prop(entity.GetRefEHandle().Index()); prop != nil {
		return prop
	}
	return nil
}

// GetStaticPropIndex returns the prop index of a static prop collideable, -1 otherwise.
func (m *Manager) GetStaticPropIndex(c cmodel.Collideable) int {
	entity := c.GetEntityHandle()
	if !m.IsStaticProp(entity) {
		return -1
	}
	return entity.GetRefEHandle().Index()
}
