package updater

import (
	"testing"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// a -> b -> c with reverse edges, 600m each at 30 km/h
func lineGraph() *datastructure.Graph {
	g := datastructure.NewGraph()
	a := g.AddVertex(10.300, 123.870, 1)
	b := g.AddVertex(10.305, 123.870, 2)
	c := g.AddVertex(10.310, 123.870, 3)
	for _, pair := range [][2]datastructure.Index{{a, b}, {b, a}, {b, c}, {c, b}} {
		g.AddEdge(pair[0], pair[1], 600, 30, 0, nil)
	}
	return g
}

func TestApplyScoresSetsBothDirections(t *testing.T) {
	g := lineGraph()

	scores := []scoring.SegmentScore{{SegmentID: "0_1_0", Score: 3.0, NumImages: 4}}
	require.NoError(t, ApplyScores(g, scores, zap.NewNop()))

	assert.Equal(t, 3.0, g.FindEdge(0, 1, 0).GetPaserScore())
	assert.Equal(t, 3.0, g.FindEdge(1, 0, 0).GetPaserScore())
	// unsurveyed edges keep the neutral default
	assert.Equal(t, 5.0, g.FindEdge(1, 2, 0).GetPaserScore())
}

func TestApplyScoresWeightedTravelTime(t *testing.T) {
	g := lineGraph()

	scores := []scoring.SegmentScore{{SegmentID: "0_1_0", Score: 3.0, NumImages: 4}}
	require.NoError(t, ApplyScores(g, scores, zap.NewNop()))

	// 600m at 30km/h is 1.2 min base travel time
	bad := g.FindEdge(0, 1, 0)
	assert.InDelta(t, 1.2*(2.0-3.0/10.0), bad.GetWeightedTravelTime(), 1e-9)

	// default score 5 gives factor 1.5
	unsurveyed := g.FindEdge(1, 2, 0)
	assert.InDelta(t, 1.2*1.5, unsurveyed.GetWeightedTravelTime(), 1e-9)
}

func TestApplyScoresUnknownSegment(t *testing.T) {
	g := lineGraph()

	scores := []scoring.SegmentScore{{SegmentID: "7_8_0", Score: 3.0}}
	err := ApplyScores(g, scores, zap.NewNop())
	assert.Error(t, err)
}

func TestApplyScoresMalformedSegmentID(t *testing.T) {
	g := lineGraph()

	err := ApplyScores(g, []scoring.SegmentScore{{SegmentID: "garbage"}}, zap.NewNop())
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	g := lineGraph()
	require.NoError(t, ApplyScores(g,
		[]scoring.SegmentScore{{SegmentID: "0_1_0", Score: 3.0}}, zap.NewNop()))

	stats := Stats(g)
	assert.Equal(t, 4, stats.Edges)
	assert.Equal(t, 2, stats.SurveyedEdges)
	assert.Equal(t, 3.0, stats.MinPaser)
	assert.Equal(t, 5.0, stats.MaxPaser)
	assert.InDelta(t, 4.0, stats.MeanPaser, 1e-9)
}
