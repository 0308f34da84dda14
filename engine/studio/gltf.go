package studio

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
	"github.com/memmaker/enginetrace/engine/util"
	"github.com/memmaker/enginetrace/engine/vphysics"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type GLTFOptions struct {
	Contents    cmodel.Contents
	SurfaceProp uint16
	// BoneSurfaceProps overrides the surface prop per node name.
	BoneSurfaceProps map[string]uint16
}

func DefaultGLTFOptions() GLTFOptions {
	return GLTFOptions{
		Contents: cmodel.ContentsSolid | cmodel.ContentsMonster,
	}
}

// FromGLTF builds a studio model from the node hierarchy of the default scene. Every node
// becomes a bone, every node with a mesh gets a hitbox around its vertices and a box convex
// in the collision model.
func FromGLTF(name string, doc *gltf.Document, opts GLTFOptions) (*Model, error) {
	roots, err := sceneRoots(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", name)
	}
	model := &Model{
		Name:        name,
		Contents:    opts.Contents,
		SurfaceProp: opts.SurfaceProp,
	}
	set := HitboxSet{Name: "default"}

	var addNode func(nodeIndex uint32, parent int, depth int) error
	addNode = func(nodeIndex uint32, parent int, depth int) error {
		if int(nodeIndex) >= len(doc.Nodes) {
			return errors.Errorf("node index %d out of range", nodeIndex)
		}
		if depth > len(doc.Nodes) {
			return errors.Errorf("node %d is part of a cycle", nodeIndex)
		}
		docNode := doc.Nodes[nodeIndex]
		boneIndex := len(model.Bones)
		translation := docNode.TranslationOrDefault()
		rotation := docNode.RotationOrDefault()
		surfaceProp := opts.SurfaceProp
		if prop, ok := opts.BoneSurfaceProps[docNode.Name]; ok {
			surfaceProp = prop
		}
		model.Bones = append(model.Bones, Bone{
			Name:        docNode.Name,
			Parent:      parent,
			Position:    mgl32.Vec3{float32(translation[0]), float32(translation[1]), float32(translation[2])},
			Rotation:    mgl32.Quat{W: float32(rotation[3]), V: mgl32.Vec3{float32(rotation[0]), float32(rotation[1]), float32(rotation[2])}},
			Contents:    opts.Contents,
			SurfaceProp: surfaceProp,
			PhysicsBone: boneIndex,
		})

		if docNode.Mesh != nil {
			mins, maxs, err := meshBounds(doc, *docNode.Mesh)
			if err != nil {
				return errors.Wrapf(err, "node %s", docNode.Name)
			}
			set.Hitboxes = append(set.Hitboxes, Hitbox{
				Name:  docNode.Name,
				Bone:  boneIndex,
				Group: hitGroupFromName(docNode.Name),
				Mins:  mins,
				Maxs:  maxs,
			})
		}
		for _, child := range docNode.Children {
			if err := addNode(child, boneIndex, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range roots {
		if err := addNode(root, -1, 0); err != nil {
			return nil, errors.Wrapf(err, "model %s", name)
		}
	}
	if len(set.Hitboxes) == 0 {
		return nil, errors.Errorf("model %s has no meshes", name)
	}
	model.HitboxSets = []HitboxSet{set}
	model.buildCollide()
	util.LogStudioDebug(fmt.Sprintf("loaded studio model %s: %d bones, %d hitboxes", name, len(model.Bones), len(set.Hitboxes)))
	return model, nil
}

func sceneRoots(doc *gltf.Document) ([]uint32, error) {
	if len(doc.Scenes) == 0 {
		return nil, errors.New("document has no scenes")
	}
	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = int(*doc.Scene)
	}
	if sceneIndex >= len(doc.Scenes) {
		return nil, errors.Errorf("default scene %d out of range", sceneIndex)
	}
	return doc.Scenes[sceneIndex].Nodes, nil
}

func meshBounds(doc *gltf.Document, meshIndex uint32) (mgl32.Vec3, mgl32.Vec3, error) {
	mins := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	maxs := mins.Mul(-1)
	if int(meshIndex) >= len(doc.Meshes) {
		return mins, maxs, errors.Errorf("mesh index %d out of range", meshIndex)
	}
	count := 0
	for _, primitive := range doc.Meshes[meshIndex].Primitives {
		positionIndex, ok := primitive.Attributes["POSITION"]
		if !ok {
			continue
		}
		var positions [][3]float32
		positions, err := modeler.ReadPosition(doc, doc.Accessors[positionIndex], positions)
		if err != nil {
			return mins, maxs, errors.Wrap(err, "reading positions")
		}
		if primitive.Indices != nil {
			// only referenced vertices count
			var indices []uint32
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], indices)
			if err != nil {
				return mins, maxs, errors.Wrap(err, "reading indices")
			}
			for _, index := range indices {
				if int(index) >= len(positions) {
					return mins, maxs, errors.Errorf("vertex index %d out of range", index)
				}
				p := positions[index]
				mins = util.MinVec3(mins, mgl32.Vec3{p[0], p[1], p[2]})
				maxs = util.MaxVec3(maxs, mgl32.Vec3{p[0], p[1], p[2]})
				count++
			}
			continue
		}
		for _, p := range positions {
			mins = util.MinVec3(mins, mgl32.Vec3{p[0], p[1], p[2]})
			maxs = util.MaxVec3(maxs, mgl32.Vec3{p[0], p[1], p[2]})
			count++
		}
	}
	if count == 0 {
		return mins, maxs, errors.Errorf("mesh %d has no positions", meshIndex)
	}
	return mins, maxs, nil
}

func hitGroupFromName(name string) int {
	name = strings.ToLower(name)
	left := strings.Contains(name, "left") || strings.HasSuffix(name, "_l")
	switch {
	case strings.Contains(name, "head"):
		return HitGroupHead
	case strings.Contains(name, "chest") || strings.Contains(name, "spine"):
		return HitGroupChest
	case strings.Contains(name, "stomach") || strings.Contains(name, "pelvis"):
		return HitGroupStomach
	case strings.Contains(name, "arm") || strings.Contains(name, "hand"):
		if left {
			return HitGroupLeftArm
		}
		return HitGroupRightArm
	case strings.Contains(name, "leg") || strings.Contains(name, "foot"):
		if left {
			return HitGroupLeftLeg
		}
		return HitGroupRightLeg
	case strings.Contains(name, "gear"):
		return HitGroupGear
	}
	return HitGroupGeneric
}

// buildCollide creates one box convex per hitbox in model space (rest pose) and computes the
// model bounds. Convex game data is bone index + 1.
func (m *Model) buildCollide() {
	bones := m.SetupBones(mgl32.Ident4())
	var convexes []vphysics.Convex
	for _, hb := range m.HitboxSets[0].Hitboxes {
		mins, maxs := util.TransformAABB(bones[hb.Bone], hb.Mins, hb.Maxs)
		convexes = append(convexes, vphysics.BoxConvex(mins, maxs, hb.Bone+1))
	}
	solid := vphysics.NewSolid(convexes, nil)
	m.Mins, m.Maxs = solid.Mins, solid.Maxs
	m.Collide = &vphysics.Collide{Solids: []*vphysics.Solid{solid}}
}
