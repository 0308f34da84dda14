package trace

import "github.com/memmaker/enginetrace/engine/cmodel"

// mergeTrace folds the trace of one entity into the running best. A candidate wins when it is
// solid at the start or closer. Once the best trace started in solid it stays startsolid and
// keeps the later of the two exit points.
func mergeTrace(candidate, best *cmodel.Trace) bool {
	if !candidate.AllSolid && !candidate.StartSolid && candidate.Fraction >= best.Fraction {
		return false
	}
	if !best.StartSolid {
		*best = *candidate
		return true
	}
	leftSolid, startPos := best.FractionLeftSolid, best.StartPos
	*best = *candidate
	best.StartSolid = true
	if leftSolid > candidate.FractionLeftSolid {
		best.FractionLeftSolid = leftSolid
		best.StartPos = startPos
	}
	return true
}
