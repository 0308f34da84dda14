package trace

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Config holds the limits and debug switches of an EngineTrace.
type Config struct {
	// Limits
	MaxTraceListEntities int `json:"max_trace_list_entities"`
	MaxDispTriangles     int `json:"max_disp_triangles"`
	MaxLeafListCount     int `json:"max_leaf_list_count"`

	// Debug
	CollectStats  bool `json:"collect_stats"`
	ProfilePhases bool `json:"profile_phases"`
}

func DefaultConfig() Config {
	return Config{
		MaxTraceListEntities: 2048,
		MaxDispTriangles:     65535,
		MaxLeafListCount:     4096,

		CollectStats:  true,
		ProfilePhases: false,
	}
}

// ParseConfig reads a JSON document on top of the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing trace config")
	}
	if cfg.MaxTraceListEntities <= 0 || cfg.MaxDispTriangles <= 0 || cfg.MaxLeafListCount <= 0 {
		return cfg, errors.Errorf("trace config limits must be positive: %+v", cfg)
	}
	return cfg, nil
}
