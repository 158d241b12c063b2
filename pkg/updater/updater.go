// Package updater writes surveyed pavement scores back onto the road
// graph and derives pavement-weighted travel times.
package updater

import (
	"fmt"

	"github.com/paveroute/paveroute/pkg"
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/monitoring"
	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/streetview"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

// weightedTravelTimeFactor scales travel time by pavement quality:
// a perfect 10 keeps the base time, the factor doubles toward the
// bottom of the scale.
func weightedTravelTimeFactor(paser float64) float64 {
	return 2.0 - paser/10.0
}

// ApplyScores attaches each surveyed score to its edge and to the
// reverse edge when one exists, then recomputes weighted travel times
// for every edge. Unsurveyed edges keep the neutral default score.
func ApplyScores(g *datastructure.Graph, scores []scoring.SegmentScore, log *zap.Logger) error {
	applied := 0
	missing := 0
	for _, s := range scores {
		from, to, key, err := streetview.ParseSegmentID(s.SegmentID)
		if err != nil {
			return util.WrapErrorf(err, util.ErrBadParamInput, "updater.ApplyScores")
		}

		edge := g.FindEdge(from, to, key)
		if edge == nil {
			missing++
			log.Warn("scored segment not in graph", zap.String("segment", s.SegmentID))
			continue
		}
		edge.SetPaserScore(s.Score)
		applied++

		if reverse := g.FindEdge(to, from, key); reverse != nil {
			reverse.SetPaserScore(s.Score)
			applied++
		}
	}
	if applied == 0 && len(scores) > 0 {
		return util.WrapErrorf(fmt.Errorf("none of %d scored segments matched the graph", len(scores)),
			util.ErrBadParamInput, "updater.ApplyScores")
	}

	g.ForEdges(func(e *datastructure.Edge) {
		e.SetWeightedTravelTime(e.GetTravelTime() * weightedTravelTimeFactor(e.GetPaserScore()))
	})
	monitoring.EdgesUpdated.Add(float64(applied))

	stats := Stats(g)
	log.Info("applied pavement scores",
		zap.Int("scoredSegments", len(scores)),
		zap.Int("edgesUpdated", applied),
		zap.Int("segmentsNotInGraph", missing),
		zap.Float64("meanPaser", stats.MeanPaser),
		zap.Float64("minPaser", stats.MinPaser),
		zap.Float64("maxPaser", stats.MaxPaser),
		zap.Int("surveyedEdges", stats.SurveyedEdges))
	return nil
}

// GraphStats summarizes pavement condition across the graph.
type GraphStats struct {
	Edges         int
	SurveyedEdges int
	MeanPaser     float64
	MinPaser      float64
	MaxPaser      float64
}

func Stats(g *datastructure.Graph) GraphStats {
	stats := GraphStats{MinPaser: pkg.MAX_PASER_SCORE, MaxPaser: pkg.MIN_PASER_SCORE}
	var sum float64
	g.ForEdges(func(e *datastructure.Edge) {
		stats.Edges++
		score := e.GetPaserScore()
		sum += score
		if score != pkg.DEFAULT_PASER_SCORE {
			stats.SurveyedEdges++
		}
		if score < stats.MinPaser {
			stats.MinPaser = score
		}
		if score > stats.MaxPaser {
			stats.MaxPaser = score
		}
	})
	if stats.Edges > 0 {
		stats.MeanPaser = sum / float64(stats.Edges)
	} else {
		stats.MinPaser, stats.MaxPaser = 0, 0
	}
	return stats
}
