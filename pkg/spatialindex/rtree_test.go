package spatialindex

import (
	"testing"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapToNearestVertex(t *testing.T) {
	g := datastructure.NewGraph()
	g.AddVertex(10.3000, 123.8700, 1)
	g.AddVertex(10.3050, 123.8700, 2)
	g.AddVertex(10.3100, 123.8700, 3)

	idx := NewVertexIndex(g)

	// just north of the middle vertex
	got, err := idx.SnapToNearestVertex(10.3052, 123.8701, 0.4)
	require.NoError(t, err)
	assert.Equal(t, datastructure.Index(1), got)
}

func TestSnapPrefersClosestStreet(t *testing.T) {
	g := datastructure.NewGraph()
	// a ~1.1km east-west street
	a := g.AddVertex(10.3000, 123.8700, 1)
	b := g.AddVertex(10.3000, 123.8800, 2)
	// an isolated vertex just north of the street
	g.AddVertex(10.3005, 123.8745, 3)
	geom := []geo.Coordinate{{Lat: 10.3000, Lon: 123.8700}, {Lat: 10.3000, Lon: 123.8800}}
	g.AddEdge(a, b, 1095, 30, 0, geom)
	g.AddEdge(b, a, 1095, 30, 0, []geo.Coordinate{geom[1], geom[0]})

	idx := NewVertexIndex(g)

	// the street passes ~22m from the query point, the isolated vertex
	// is ~47m away and both street endpoints are far outside the
	// search box. the snap must follow the street to its western end.
	got, err := idx.SnapToNearestVertex(10.3002, 123.8748, 0.4)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestSnapToNearestVertexOutOfRadius(t *testing.T) {
	g := datastructure.NewGraph()
	g.AddVertex(10.3000, 123.8700, 1)

	idx := NewVertexIndex(g)

	// ~11 km away
	_, err := idx.SnapToNearestVertex(10.4000, 123.8700, 0.4)
	assert.Error(t, err)
}
