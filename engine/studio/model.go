package studio

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/vphysics"
)

const (
	HitGroupGeneric = iota
	HitGroupHead
	HitGroupChest
	HitGroupStomach
	HitGroupLeftArm
	HitGroupRightArm
	HitGroupLeftLeg
	HitGroupRightLeg
	HitGroupGear = 10
)

type Bone struct {
	Name        string
	Parent      int
	Position    mgl32.Vec3
	Rotation    mgl32.Quat
	Contents    cmodel.Contents
	SurfaceProp uint16
	PhysicsBone int
}

// Hitbox is a box in the space of its bone.
type Hitbox struct {
	Name  string
	Bone  int
	Group int
	Mins  mgl32.Vec3
	Maxs  mgl32.Vec3
}

type HitboxSet struct {
	Name     string
	Hitboxes []Hitbox
}

type Model struct {
	Name        string
	Bones       []Bone
	HitboxSets  []HitboxSet
	Contents    cmodel.Contents
	SurfaceProp uint16
	// rest pose bounds in model space
	Mins    mgl32.Vec3
	Maxs    mgl32.Vec3
	Collide *vphysics.Collide
}

func (b Bone) localTransform() mgl32.Mat4 {
	return mgl32.Translate3D(b.Position.X(), b.Position.Y(), b.Position.Z()).Mul4(b.Rotation.Normalize().Mat4())
}

// SetupBones returns the bone-to-world matrices of the rest pose with the model placed by toWorld.
// Parents always precede their children.
func (m *Model) SetupBones(toWorld mgl32.Mat4) []mgl32.Mat4 {
	transforms := make([]mgl32.Mat4, len(m.Bones))
	for i, bone := range m.Bones {
		parent := toWorld
		if bone.Parent >= 0 {
			parent = transforms[bone.Parent]
		}
		transforms[i] = parent.Mul4(bone.localTransform())
	}
	return transforms
}

func (m *Model) BoneContents(bone int) cmodel.Contents {
	if bone < 0 || bone >= len(m.Bones) {
		return m.Contents
	}
	return m.Bones[bone].Contents
}

// ConvexInfo maps collide game data to contents: 0 is the model, n is bone n-1.
func (m *Model) ConvexInfo() vphysics.ConvexInfo {
	return vphysics.ConvexInfoFunc(func(gameData int) cmodel.Contents {
		if gameData == 0 {
			return m.Contents
		}
		return m.BoneContents(gameData - 1)
	})
}

func (m *Model) HitboxSet(set int) *HitboxSet {
	if set < 0 || set >= len(m.HitboxSets) {
		return nil
	}
	return &m.HitboxSets[set]
}
