package trace

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
)

// currentToWater folds the current contents into plain water.
func currentToWater(contents cmodel.Contents) cmodel.Contents {
	if contents&cmodel.MaskCurrent != 0 {
		return cmodel.ContentsWater
	}
	return contents
}

// GetPointContents returns the contents at p from the world, static props and volume
// entities, and the entity that contributed them. A point inside a static prop is solid
// and attributed to the world.
func (t *EngineTrace) GetPointContents(p mgl32.Vec3) (cmodel.Contents, cmodel.Entity) {
	t.count(StatPointContents)
	contents := currentToWater(t.world.PointContents(p, 0))
	if contents == cmodel.ContentsSolid {
		return contents, nil
	}

	var entityContents cmodel.Contents
	var owner cmodel.Entity
	t.partition.EnumerateElementsAtPoint(t.resolver.SolidLists(), p, func(entity cmodel.HandleEntity) bool {
		c := t.resolver.HandleToCollideable(entity)
		if c == nil {
			return true
		}
		if t.resolver.IsStaticProp(entity) {
			var tr cmodel.Trace
			t.ClipRayToCollideable(cmodel.NewRay(p, p), cmodel.MaskAll, c, &tr)
			if !tr.StartSolid {
				return true
			}
			entityContents = cmodel.ContentsSolid
			owner = t.resolver.WorldEntity()
			return false
		}
		if c.GetSolidFlags()&cmodel.SolidFlagVolumeContents == 0 {
			return true
		}
		found := t.GetPointContentsCollideable(c, p)
		if found == cmodel.ContentsEmpty {
			return true
		}
		entityContents = found
		owner = t.resolver.CollideableEntity(c)
		return false
	})

	if entityContents&cmodel.MaskCurrent != 0 {
		contents = cmodel.ContentsWater
	} else {
		contents |= entityContents
	}
	return contents, owner
}

// GetPointContentsWorldOnly ignores entities and static props.
func (t *EngineTrace) GetPointContentsWorldOnly(p mgl32.Vec3) cmodel.Contents {
	t.count(StatPointContents)
	return currentToWater(t.world.PointContents(p, 0))
}

// GetPointContentsCollideable returns the contents at p inside a brush model collideable.
// Other collideables are empty.
func (t *EngineTrace) GetPointContentsCollideable(c cmodel.Collideable, p mgl32.Vec3) cmodel.Contents {
	m := c.GetCollisionModel()
	if !m.IsBrush() {
		return cmodel.ContentsEmpty
	}
	headNode, ok := t.world.InlineModelHeadNode(m.SubModel)
	if !ok {
		return cmodel.ContentsEmpty
	}
	return t.world.TransformedPointContents(p, headNode, c.GetCollisionOrigin(), c.GetCollisionAngles())
}
