package entity

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/model"
	"github.com/memmaker/enginetrace/engine/studio"
	"github.com/memmaker/enginetrace/engine/util"
)

// CustomTestFunc replaces the built in clipping of a collideable.
type CustomTestFunc func(ray cmodel.Ray, mask cmodel.Contents, tr *cmodel.Trace) bool

// BoneSetupFunc may adjust the bone-to-world matrices before hitboxes are tested, e.g. to
// run inverse kinematics. It is allowed to run traces of its own.
type BoneSetupFunc func(bones []mgl32.Mat4) []mgl32.Mat4

// CollisionProperty is the collideable of an entity.
type CollisionProperty struct {
	owner      *BaseEntity
	model      *model.Model
	solid      cmodel.SolidType
	solidFlags cmodel.SolidFlags
	origin     mgl32.Vec3
	angles     mgl32.Vec3
	mins       mgl32.Vec3
	maxs       mgl32.Vec3
	parent     *CollisionProperty

	customTest CustomTestFunc
	studio     *studio.Model
	hitboxSet  int
	boneSetup  BoneSetupFunc
}

func (c *CollisionProperty) GetEntityHandle() cmodel.HandleEntity {
	return c.owner
}

func (c *CollisionProperty) GetSolid() cmodel.SolidType {
	return c.solid
}

func (c *CollisionProperty) GetSolidFlags() cmodel.SolidFlags {
	return c.solidFlags
}

func (c *CollisionProperty) GetCollisionModel() *model.Model {
	return c.model
}

func (c *CollisionProperty) GetCollisionOrigin() mgl32.Vec3 {
	return c.origin
}

func (c *CollisionProperty) GetCollisionAngles() mgl32.Vec3 {
	return c.angles
}

func (c *CollisionProperty) OBBMins() mgl32.Vec3 {
	return c.mins
}

func (c *CollisionProperty) OBBMaxs() mgl32.Vec3 {
	return c.maxs
}

// WorldSpaceSurroundingBounds encloses the collision bounds in world space. BBox solids
// ignore the angles.
func (c *CollisionProperty) WorldSpaceSurroundingBounds() (mgl32.Vec3, mgl32.Vec3) {
	if c.solid == cmodel.SolidBBox || c.solidFlags&cmodel.SolidFlagForceWorldAligned != 0 {
		return c.origin.Add(c.mins), c.origin.Add(c.maxs)
	}
	return util.TransformAABB(cmodel.CollisionToWorldTransform(c), c.mins, c.maxs)
}

func (c *CollisionProperty) GetRootParentToWorldTransform() *mgl32.Mat4 {
	if c.parent == nil {
		return nil
	}
	root := c.parent
	for root.parent != nil {
		root = root.parent
	}
	m := cmodel.CollisionToWorldTransform(root)
	return &m
}

func (c *CollisionProperty) TestCollision(ray cmodel.Ray, mask cmodel.Contents, tr *cmodel.Trace) bool {
	if c.customTest == nil {
		return false
	}
	return c.customTest(ray, mask, tr)
}

// TestHitboxes traces the hitboxes of the studio model in the current pose.
func (c *CollisionProperty) TestHitboxes(ray cmodel.Ray, mask cmodel.Contents, tr *cmodel.Trace) bool {
	if c.studio == nil || mask&cmodel.ContentsHitbox == 0 {
		return false
	}
	bones := c.studio.SetupBones(cmodel.CollisionToWorldTransform(c))
	if c.boneSetup != nil {
		bones = c.boneSetup(bones)
	}
	return c.studio.TraceHitboxes(c.hitboxSet, bones, ray, tr)
}

func (c *CollisionProperty) SetModel(m *model.Model) {
	c.model = m
	if m != nil {
		c.mins, c.maxs = m.Mins, m.Maxs
	}
	c.owner.relink()
}

func (c *CollisionProperty) SetSolid(solid cmodel.SolidType) {
	c.solid = solid
	c.owner.relink()
}

func (c *CollisionProperty) SetSolidFlags(flags cmodel.SolidFlags) {
	c.solidFlags = flags
	c.owner.relink()
}

func (c *CollisionProperty) AddSolidFlags(flags cmodel.SolidFlags) {
	c.SetSolidFlags(c.solidFlags | flags)
}

func (c *CollisionProperty) SetCollisionBounds(mins, maxs mgl32.Vec3) {
	c.mins, c.maxs = mins, maxs
	c.owner.relink()
}

func (c *CollisionProperty) SetOrigin(origin mgl32.Vec3) {
	c.origin = origin
	c.owner.relink()
}

func (c *CollisionProperty) SetAngles(angles mgl32.Vec3) {
	c.angles = angles
	c.owner.relink()
}

// SetParent attaches the collideable to a move parent; nil detaches it.
func (c *CollisionProperty) SetParent(parent *CollisionProperty) {
	c.parent = parent
}

func (c *CollisionProperty) SetCustomTest(test CustomTestFunc) {
	c.customTest = test
}

// SetStudio enables hitbox tests against the given hitbox set.
func (c *CollisionProperty) SetStudio(m *studio.Model, hitboxSet int) {
	c.studio = m
	c.hitboxSet = hitboxSet
}

func (c *CollisionProperty) SetBoneSetup(setup BoneSetupFunc) {
	c.boneSetup = setup
}
