package trace

import "github.com/memmaker/enginetrace/engine/cmodel"

type TraceType int

const (
	TraceEverything TraceType = iota
	// TraceWorldOnly never looks at entities or static props.
	TraceWorldOnly
	// TraceEntitiesOnly skips the world and static props.
	TraceEntitiesOnly
	// TraceEverythingFilterProps asks the filter about static props too.
	TraceEverythingFilterProps
)

func (t TraceType) String() string {
	switch t {
	case TraceEverything:
		return "everything"
	case TraceWorldOnly:
		return "world_only"
	case TraceEntitiesOnly:
		return "entities_only"
	case TraceEverythingFilterProps:
		return "everything_filter_props"
	}
	return "unknown"
}

// Filter decides which entities a trace may hit.
type Filter interface {
	ShouldHitEntity(entity cmodel.HandleEntity, mask cmodel.Contents) bool
	GetTraceType() TraceType
}

// FilterHitAll hits everything. A nil Filter behaves like it.
type FilterHitAll struct{}

func (FilterHitAll) ShouldHitEntity(entity cmodel.HandleEntity, mask cmodel.Contents) bool {
	return true
}

func (FilterHitAll) GetTraceType() TraceType {
	return TraceEverything
}

type FilterWorldOnly struct{}

func (FilterWorldOnly) ShouldHitEntity(entity cmodel.HandleEntity, mask cmodel.Contents) bool {
	return false
}

func (FilterWorldOnly) GetTraceType() TraceType {
	return TraceWorldOnly
}

type FilterEntitiesOnly struct{}

func (FilterEntitiesOnly) ShouldHitEntity(entity cmodel.HandleEntity, mask cmodel.Contents) bool {
	return true
}

func (FilterEntitiesOnly) GetTraceType() TraceType {
	return TraceEntitiesOnly
}

// FilterSkip ignores one entity, usually the one the trace starts from.
type FilterSkip struct {
	Skip cmodel.HandleEntity
	Type TraceType
}

func (f FilterSkip) ShouldHitEntity(entity cmodel.HandleEntity, mask cmodel.Contents) bool {
	return f.Skip == nil || entity.GetRefEHandle() != f.Skip.GetRefEHandle()
}

func (f FilterSkip) GetTraceType() TraceType {
	return f.Type
}

// FilterFunc adapts a function.
type FilterFunc struct {
	Type      TraceType
	ShouldHit func(entity cmodel.HandleEntity, mask cmodel.Contents) bool
}

func (f FilterFunc) ShouldHitEntity(entity cmodel.HandleEntity, mask cmodel.Contents) bool {
	return f.ShouldHit == nil || f.ShouldHit(entity, mask)
}

func (f FilterFunc) GetTraceType() TraceType {
	return f.Type
}
