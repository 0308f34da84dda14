package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Type int

const (
	TypeBad Type = iota
	TypeBrush
	TypeSprite
	TypeStudio
)

func (t Type) String() string {
	switch t {
	case TypeBrush:
		return "brush"
	case TypeSprite:
		return "sprite"
	case TypeStudio:
		return "studio"
	}
	return "bad"
}

// Model describes a collision model. Brush models point at a sub-model of the level,
// studio models are looked up by name in the studio cache.
type Model struct {
	Name     string
	Type     Type
	SubModel int
	Mins     mgl32.Vec3
	Maxs     mgl32.Vec3
}

func (m *Model) IsBrush() bool {
	return m != nil && m.Type == TypeBrush
}

func (m *Model) IsStudio() bool {
	return m != nil && m.Type == TypeStudio
}

// Loader is the model-by-index registry. Index 0 is reserved for the world model.
type Loader struct {
	models []*Model
	byName map[string]int
}

func NewLoader() *Loader {
	return &Loader{
		byName: make(map[string]int),
	}
}

// Register adds the model and returns its index. A name that is already known returns the existing index.
func (l *Loader) Register(m *Model) int {
	if index, ok := l.byName[m.Name]; ok {
		return index
	}
	l.models = append(l.models, m)
	index := len(l.models) - 1
	l.byName[m.Name] = index
	return index
}

// RegisterBrushModels registers one brush model per sub-model, named "*<n>" like inline level models.
func (l *Loader) RegisterBrushModels(bounds [][2]mgl32.Vec3) {
	for i, b := range bounds {
		l.Register(&Model{
			Name:     InlineName(i),
			Type:     TypeBrush,
			SubModel: i,
			Mins:     b[0],
			Maxs:     b[1],
		})
	}
}

func (l *Loader) Get(index int) *Model {
	if index < 0 || index >= len(l.models) {
		return nil
	}
	return l.models[index]
}

func (l *Loader) ByName(name string) *Model {
	index, ok := l.byName[name]
	if !ok {
		return nil
	}
	return l.models[index]
}

func (l *Loader) Count() int {
	return len(l.models)
}
