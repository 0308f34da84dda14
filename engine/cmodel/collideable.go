package cmodel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/model"
	"github.com/memmaker/enginetrace/engine/util"
)

// EHandle packs an entity list index and a serial number. Static props are marked with
// StaticPropFlag and carry their prop index instead.
type EHandle uint32

const (
	entIndexBits   = 16
	entIndexMask   = 1<<entIndexBits - 1
	serialMask     = 0x7FFF
	StaticPropFlag = EHandle(1 << 31)
	InvalidEHandle = EHandle(0xFFFFFFFF)
)

func NewEHandle(index int, serial int) EHandle {
	return EHandle(uint32(index)&entIndexMask | (uint32(serial)&serialMask)<<entIndexBits)
}

func StaticPropHandle(propIndex int) EHandle {
	return EHandle(uint32(propIndex)&entIndexMask) | StaticPropFlag
}

func (h EHandle) Index() int {
	return int(uint32(h) & entIndexMask)
}

func (h EHandle) Serial() int {
	return int((uint32(h) >> entIndexBits) & serialMask)
}

func (h EHandle) IsValid() bool {
	return h != InvalidEHandle
}

func (h EHandle) IsStaticProp() bool {
	return h.IsValid() && h&StaticPropFlag != 0
}

// HandleEntity is the element stored in the spatial partition.
type HandleEntity interface {
	GetRefEHandle() EHandle
}

// Collideable is the read-only collision surface of anything a trace can hit.
type Collideable interface {
	GetEntityHandle() HandleEntity
	GetSolid() SolidType
	GetSolidFlags() SolidFlags
	GetCollisionModel() *model.Model
	GetCollisionOrigin() mgl32.Vec3
	GetCollisionAngles() mgl32.Vec3
	OBBMins() mgl32.Vec3
	OBBMaxs() mgl32.Vec3
	WorldSpaceSurroundingBounds() (mgl32.Vec3, mgl32.Vec3)
	// GetRootParentToWorldTransform is nil when the collideable has no move parent.
	GetRootParentToWorldTransform() *mgl32.Mat4
	TestCollision(ray Ray, mask Contents, tr *Trace) bool
	TestHitboxes(ray Ray, mask Contents, tr *Trace) bool
}

// CollisionToWorldTransform builds the matrix of a collideable's origin and angles.
func CollisionToWorldTransform(c Collideable) mgl32.Mat4 {
	return util.AngleMatrix(c.GetCollisionAngles(), c.GetCollisionOrigin())
}
