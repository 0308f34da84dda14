package cmodel

// Contents is a bitmask of volume contents. Masks are sets of contents a query stops at.
type Contents uint32

const (
	ContentsEmpty Contents = 0

	ContentsSolid              Contents = 0x1
	ContentsWindow             Contents = 0x2
	ContentsAux                Contents = 0x4
	ContentsGrate              Contents = 0x8
	ContentsSlime              Contents = 0x10
	ContentsWater              Contents = 0x20
	ContentsBlockLOS           Contents = 0x40
	ContentsOpaque             Contents = 0x80
	ContentsTestFogVolume      Contents = 0x100
	ContentsTeam1              Contents = 0x800
	ContentsTeam2              Contents = 0x1000
	ContentsIgnoreNodrawOpaque Contents = 0x2000
	ContentsMoveable           Contents = 0x4000
	ContentsAreaPortal         Contents = 0x8000
	ContentsPlayerClip         Contents = 0x10000
	ContentsMonsterClip        Contents = 0x20000
	ContentsCurrent0           Contents = 0x40000
	ContentsCurrent90          Contents = 0x80000
	ContentsCurrent180         Contents = 0x100000
	ContentsCurrent270         Contents = 0x200000
	ContentsCurrentUp          Contents = 0x400000
	ContentsCurrentDown        Contents = 0x800000
	ContentsOrigin             Contents = 0x1000000
	ContentsMonster            Contents = 0x2000000
	ContentsDebris             Contents = 0x4000000
	ContentsDetail             Contents = 0x8000000
	ContentsTranslucent        Contents = 0x10000000
	ContentsLadder             Contents = 0x20000000
	ContentsHitbox             Contents = 0x40000000
)

const (
	MaskAll         Contents = 0xFFFFFFFF
	MaskSolid                = ContentsSolid | ContentsMoveable | ContentsWindow | ContentsMonster | ContentsGrate
	MaskPlayerSolid          = MaskSolid | ContentsPlayerClip
	MaskNPCSolid             = ContentsSolid | ContentsMoveable | ContentsMonsterClip | ContentsWindow | ContentsMonster | ContentsGrate
	MaskWater                = ContentsWater | ContentsMoveable | ContentsSlime
	MaskOpaque               = ContentsSolid | ContentsMoveable | ContentsOpaque
	MaskVisible              = MaskOpaque | ContentsIgnoreNodrawOpaque
	MaskShot                 = ContentsSolid | ContentsMoveable | ContentsMonster | ContentsWindow | ContentsDebris | ContentsHitbox
	MaskShotHull             = ContentsSolid | ContentsMoveable | ContentsMonster | ContentsWindow | ContentsDebris | ContentsGrate
	MaskCurrent              = ContentsCurrent0 | ContentsCurrent90 | ContentsCurrent180 | ContentsCurrent270 | ContentsCurrentUp | ContentsCurrentDown
)

// Surface flags.
const (
	SurfLight    uint16 = 0x1
	SurfSky2D    uint16 = 0x2
	SurfSky      uint16 = 0x4
	SurfWarp     uint16 = 0x8
	SurfTrans    uint16 = 0x10
	SurfNoPortal uint16 = 0x20
	SurfTrigger  uint16 = 0x40
	SurfNoDraw   uint16 = 0x80
	SurfHint     uint16 = 0x100
	SurfSkip     uint16 = 0x200
	SurfNoDecals uint16 = 0x2000
	SurfHitbox   uint16 = 0x8000
)

// Displacement surface flags.
const (
	DispSurfFlagSurface uint16 = 1 << iota
	DispSurfFlagWalkable
	DispSurfFlagBuildable
)

const (
	SurfaceNameEmpty        = "**empty**"
	SurfaceNameStudio       = "**studio**"
	SurfaceNameDisplacement = "**displacement**"
)

// DistEpsilon keeps trace end points slightly off the planes they hit.
const DistEpsilon float32 = 0.03125

type SolidType int

const (
	SolidNone SolidType = iota
	SolidBSP
	SolidBBox
	SolidOBB
	SolidOBBYaw
	SolidCustom
	SolidVPhysics
)

func (s SolidType) String() string {
	switch s {
	case SolidNone:
		return "none"
	case SolidBSP:
		return "bsp"
	case SolidBBox:
		return "bbox"
	case SolidOBB:
		return "obb"
	case SolidOBBYaw:
		return "obb_yaw"
	case SolidCustom:
		return "custom"
	case SolidVPhysics:
		return "vphysics"
	}
	return "unknown"
}

type SolidFlags uint16

const (
	SolidFlagCustomRayTest SolidFlags = 1 << iota
	SolidFlagCustomBoxTest
	SolidFlagNotSolid
	SolidFlagTrigger
	SolidFlagNotStandable
	SolidFlagVolumeContents
	SolidFlagForceWorldAligned
	SolidFlagUseTriggerBounds
	SolidFlagRootParentAligned
	SolidFlagTriggerTouchDebris
)

// IsSolid reports whether a collideable with this solid type and flags blocks traces.
func IsSolid(solid SolidType, flags SolidFlags) bool {
	return solid != SolidNone && flags&SolidFlagNotSolid == 0
}
