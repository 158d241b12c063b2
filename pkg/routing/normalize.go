// Package routing finds routes over the scored road graph.
package routing

import (
	"math"

	"github.com/paveroute/paveroute/pkg/datastructure"
)

// Normalize min-max scales the three composite cost components across
// the whole graph and stores them on each edge: inverted pavement
// score (worse pavement is larger), uphill-only elevation gain, and
// distance. A component with no spread across the graph normalizes to
// zero so it drops out of the composite cost.
func Normalize(g *datastructure.Graph) {
	var (
		minPaser, maxPaser = math.Inf(1), math.Inf(-1)
		minElev, maxElev   = math.Inf(1), math.Inf(-1)
		minDist, maxDist   = math.Inf(1), math.Inf(-1)
	)
	g.ForEdges(func(e *datastructure.Edge) {
		minPaser, maxPaser = minMax(minPaser, maxPaser, e.InvertedPaser())
		minElev, maxElev = minMax(minElev, maxElev, e.UphillGain())
		minDist, maxDist = minMax(minDist, maxDist, e.GetLength())
	})

	g.ForEdges(func(e *datastructure.Edge) {
		e.SetNormalized(
			scale(e.InvertedPaser(), minPaser, maxPaser),
			scale(e.UphillGain(), minElev, maxElev),
			scale(e.GetLength(), minDist, maxDist),
		)
	})
}

func minMax(lo, hi, v float64) (float64, float64) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}

func scale(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
