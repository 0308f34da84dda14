package trace

import (
	"fmt"
	"strings"
	"sync/atomic"
)

type Stat int

const (
	StatTraceRay Stat = iota
	StatWorldTrace
	StatEntityCandidate
	StatEntityClip
	StatCustomClip
	StatVPhysicsClip
	StatBSPClip
	StatOBBClip
	StatHitboxClip
	StatBBoxClip
	StatPointContents
	StatCapOverflow
	StatCount
)

var statNames = [StatCount]string{
	"trace_ray",
	"world_trace",
	"entity_candidate",
	"entity_clip",
	"custom_clip",
	"vphysics_clip",
	"bsp_clip",
	"obb_clip",
	"hitbox_clip",
	"bbox_clip",
	"point_contents",
	"cap_overflow",
}

func (s Stat) String() string {
	if s < 0 || s >= StatCount {
		return "unknown"
	}
	return statNames[s]
}

// Stats counts what the tracer did. Counters are updated atomically.
type Stats struct {
	counters [StatCount]atomic.Int64
}

func (s *Stats) add(stat Stat, n int64) {
	s.counters[stat].Add(n)
}

func (s *Stats) Get(stat Stat) int64 {
	if stat < 0 || stat >= StatCount {
		return 0
	}
	return s.counters[stat].Load()
}

func (s *Stats) Reset() {
	for i := range s.counters {
		s.counters[i].Store(0)
	}
}

func (s *Stats) String() string {
	var sb strings.Builder
	for i := Stat(0); i < StatCount; i++ {
		sb.WriteString(fmt.Sprintf("%s: %d\n", i, s.Get(i)))
	}
	return sb.String()
}
