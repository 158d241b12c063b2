package routing

import (
	"testing"

	"github.com/paveroute/paveroute/pkg/costfunction"
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/updater"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// diamondGraph builds two candidate paths from s (0) to t (3):
//
//	s -> 1 -> t   short but broken pavement
//	s -> 2 -> t   longer detour on good pavement
func diamondGraph(t *testing.T) *datastructure.Graph {
	t.Helper()
	g := datastructure.NewGraph()
	s := g.AddVertex(10.300, 123.870, 1)
	bad := g.AddVertex(10.302, 123.870, 2)
	good := g.AddVertex(10.300, 123.874, 3)
	target := g.AddVertex(10.304, 123.874, 4)

	g.AddEdge(s, bad, 250, 30, 0, nil)
	g.AddEdge(bad, target, 250, 30, 0, nil)
	g.AddEdge(s, good, 400, 30, 0, nil)
	g.AddEdge(good, target, 400, 30, 0, nil)

	scores := []scoring.SegmentScore{
		{SegmentID: "0_1_0", Score: 2.0},
		{SegmentID: "1_3_0", Score: 2.0},
		{SegmentID: "0_2_0", Score: 9.0},
		{SegmentID: "2_3_0", Score: 9.0},
	}
	require.NoError(t, updater.ApplyScores(g, scores, zap.NewNop()))
	Normalize(g)
	return g
}

func TestShortestProfileTakesTheDirectPath(t *testing.T) {
	g := diamondGraph(t)
	r := NewRouter(g)

	route, err := r.ShortestPath(0, 3, costfunction.NewShortestCostFunction())
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Index{0, 1, 3}, route.Vertices)
	assert.InDelta(t, 500, route.Cost, 1e-9)
}

func TestCompositeProfileAvoidsBadPavement(t *testing.T) {
	g := diamondGraph(t)
	r := NewRouter(g)

	route, err := r.ShortestPath(0, 3, costfunction.NewCompositeCostFunction())
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Index{0, 2, 3}, route.Vertices)

	analysis := Analyze(route)
	assert.Equal(t, 2, analysis.Segments)
	assert.InDelta(t, 800, analysis.TotalDistanceMeters, 1e-9)
	assert.InDelta(t, 9.0, analysis.MeanPaser, 1e-9)
}

func TestFastestProfilePenalizesPavement(t *testing.T) {
	g := diamondGraph(t)
	r := NewRouter(g)

	// 500m at factor 1.8 costs 1.8 min, 800m at factor 1.1 costs 1.76
	route, err := r.ShortestPath(0, 3, costfunction.NewFastestCostFunction())
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Index{0, 2, 3}, route.Vertices)
}

func TestShortestPathNoRoute(t *testing.T) {
	g := datastructure.NewGraph()
	g.AddVertex(10.300, 123.870, 1)
	g.AddVertex(10.400, 123.970, 2)

	r := NewRouter(g)
	_, err := r.ShortestPath(0, 1, costfunction.NewShortestCostFunction())
	assert.Error(t, err)
}

func TestShortestPathVertexOutOfRange(t *testing.T) {
	g := datastructure.NewGraph()
	g.AddVertex(10.300, 123.870, 1)

	r := NewRouter(g)
	_, err := r.ShortestPath(0, 9, costfunction.NewShortestCostFunction())
	assert.Error(t, err)
}

func TestNormalizeDegenerateComponent(t *testing.T) {
	g := datastructure.NewGraph()
	a := g.AddVertex(10.300, 123.870, 1)
	b := g.AddVertex(10.302, 123.870, 2)
	// same distance, same score, flat: every component has no spread
	g.AddEdge(a, b, 100, 30, 0, nil)
	g.AddEdge(b, a, 100, 30, 0, nil)
	Normalize(g)

	e := g.GetEdge(0)
	assert.Equal(t, 0.0, e.GetNormPaser())
	assert.Equal(t, 0.0, e.GetNormElev())
	assert.Equal(t, 0.0, e.GetNormDist())
}

func TestNormalizeOrdersComponents(t *testing.T) {
	g := diamondGraph(t)

	badEdge := g.FindEdge(0, 1, 0)
	goodEdge := g.FindEdge(0, 2, 0)
	assert.Greater(t, badEdge.GetNormPaser(), goodEdge.GetNormPaser())
	assert.Less(t, badEdge.GetNormDist(), goodEdge.GetNormDist())
}

func TestRouteGeometryFallsBackToVertices(t *testing.T) {
	g := diamondGraph(t)
	r := NewRouter(g)

	route, err := r.ShortestPath(0, 3, costfunction.NewShortestCostFunction())
	require.NoError(t, err)

	coords := RouteGeometry(g, route)
	require.Len(t, coords, 3)
	assert.InDelta(t, 10.300, coords[0].Lat, 1e-9)
	assert.InDelta(t, 10.304, coords[2].Lat, 1e-9)
}
