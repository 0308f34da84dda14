package studio

import (
	"github.com/memmaker/enginetrace/engine/model"
	"github.com/memmaker/enginetrace/engine/vphysics"
)

// Cache holds the studio data and collision models keyed by model name.
type Cache struct {
	studio   map[string]*Model
	collides *vphysics.Cache
}

func NewCache(collides *vphysics.Cache) *Cache {
	if collides == nil {
		collides = vphysics.NewCache()
	}
	return &Cache{
		studio:   make(map[string]*Model),
		collides: collides,
	}
}

// Add registers the studio model and its collide.
func (c *Cache) Add(m *Model) {
	c.studio[m.Name] = m
	if m.Collide != nil {
		c.collides.Add(m.Name, m.Collide)
	}
}

func (c *Cache) Collides() *vphysics.Cache {
	return c.collides
}

func (c *Cache) GetStudioModel(m *model.Model) *Model {
	if !m.IsStudio() {
		return nil
	}
	return c.studio[m.Name]
}

// GetVCollide returns the collision model of a studio or brush model.
func (c *Cache) GetVCollide(m *model.Model) *vphysics.Collide {
	if m == nil {
		return nil
	}
	return c.collides.Get(m.Name)
}

// Register adds the model to the cache and the loader and returns its descriptor.
func (c *Cache) Register(loader *model.Loader, m *Model) *model.Model {
	c.Add(m)
	index := loader.Register(&model.Model{
		Name: m.Name,
		Type: model.TypeStudio,
		Mins: m.Mins,
		Maxs: m.Maxs,
	})
	return loader.Get(index)
}
