package trace

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/enginetrace/engine/cmodel"
)

func TestGetPointContents(t *testing.T) {
	s := newTestScene(t, DefaultConfig(), false)
	s.addCrate(t, mgl32.Vec3{200, 0, -16})
	water := s.addBrushEntity("func_water", waterModel, mgl32.Vec3{0, 600, 0}, mgl32.Vec3{})
	water.Collision().AddSolidFlags(cmodel.SolidFlagVolumeContents)
	door := s.addBrushEntity("func_door", doorModel, mgl32.Vec3{0, -600, 0}, mgl32.Vec3{})

	tests := []struct {
		name      string
		point     mgl32.Vec3
		contents  cmodel.Contents
		entity    int
		worldOnly cmodel.Contents
	}{
		{"empty", mgl32.Vec3{0, 0, 0}, cmodel.ContentsEmpty, -1, cmodel.ContentsEmpty},
		{"inside the wall", mgl32.Vec3{544, 0, 0}, cmodel.ContentsSolid, -1, cmodel.ContentsSolid},
		{"current becomes water", mgl32.Vec3{-192, 320, -32}, cmodel.ContentsWater, -1, cmodel.ContentsWater},
		{"inside a static prop", mgl32.Vec3{200, 0, 0}, cmodel.ContentsSolid, 0, cmodel.ContentsEmpty},
		{"inside a volume entity", mgl32.Vec3{0, 600, 0}, cmodel.ContentsWater, water.EntIndex(), cmodel.ContentsEmpty},
		{"brush entities need the volume flag", mgl32.Vec3{0, -600, 0}, cmodel.ContentsEmpty, -1, cmodel.ContentsEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contents, entity := s.tracer.GetPointContents(tt.point)
			if contents != tt.contents {
				t.Errorf("contents = %x, want %x", contents, tt.contents)
			}
			index := -1
			if entity != nil {
				index = entity.EntIndex()
			}
			if index != tt.entity {
				t.Errorf("entity = %d, want %d", index, tt.entity)
			}
			if got := s.tracer.GetPointContentsWorldOnly(tt.point); got != tt.worldOnly {
				t.Errorf("world only contents = %x, want %x", got, tt.worldOnly)
			}
		})
	}

	if got := s.tracer.GetPointContentsCollideable(door.Collision(), mgl32.Vec3{0, -600, 0}); got != cmodel.ContentsSolid {
		t.Errorf("door contents %x", got)
	}
	if got := s.tracer.GetPointContentsCollideable(water.Collision(), mgl32.Vec3{0, 0, 0}); got != cmodel.ContentsEmpty {
		t.Errorf("outside the water volume: %x", got)
	}
	if got := s.tracer.GetPointContentsCollideable(s.props.Prop(0), mgl32.Vec3{200, 0, 0}); got != cmodel.ContentsEmpty {
		t.Errorf("studio collideable contents %x", got)
	}
}
