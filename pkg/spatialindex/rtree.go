// Package spatialindex snaps query coordinates to the road network.
package spatialindex

import (
	"fmt"
	"math"

	"github.com/tidwall/rtree"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/util"
)

// VertexIndex holds an rtree over graph vertex locations and one over
// edge geometry bounding boxes. Snapping considers both: a street can
// pass much closer to the query point than any of its endpoints.
type VertexIndex struct {
	vertices rtree.RTreeG[datastructure.Index]
	edges    rtree.RTreeG[datastructure.Index]
	graph    *datastructure.Graph
}

func NewVertexIndex(g *datastructure.Graph) *VertexIndex {
	idx := &VertexIndex{graph: g}
	g.ForVertices(func(v *datastructure.Vertex) {
		p := [2]float64{v.GetLon(), v.GetLat()}
		idx.vertices.Insert(p, p, v.GetID())
	})
	g.ForEdges(func(e *datastructure.Edge) {
		path := edgePath(g, e)
		minLon, minLat := math.Inf(1), math.Inf(1)
		maxLon, maxLat := math.Inf(-1), math.Inf(-1)
		for _, c := range path {
			minLon = math.Min(minLon, c.Lon)
			minLat = math.Min(minLat, c.Lat)
			maxLon = math.Max(maxLon, c.Lon)
			maxLat = math.Max(maxLat, c.Lat)
		}
		idx.edges.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, e.GetEdgeId())
	})
	return idx
}

// edgePath is the edge geometry, or the straight endpoint line when no
// geometry was stored.
func edgePath(g *datastructure.Graph, e *datastructure.Edge) []geo.Coordinate {
	if path := e.GetGeometry(); len(path) >= 2 {
		return path
	}
	fromLat, fromLon := g.GetVertexCoordinates(e.GetFrom())
	toLat, toLon := g.GetVertexCoordinates(e.GetTo())
	return []geo.Coordinate{geo.NewCoordinate(fromLat, fromLon), geo.NewCoordinate(toLat, toLon)}
}

// SnapToNearestVertex returns the graph vertex to start routing from
// for a query point, looking only within radiusKm. The query is
// projected onto nearby street geometry, the snap vertex is the
// endpoint of the closest street nearest to that projection.
// ErrNotFound when nothing is that close, for query points far outside
// the covered area.
func (idx *VertexIndex) SnapToNearestVertex(lat, lon, radiusKm float64) (datastructure.Index, error) {
	// degrees spanned by radiusKm, stretched by latitude for longitude
	latDelta := radiusKm / 111.2
	lonDelta := latDelta / math.Cos(util.DegreeToRadians(lat))
	lo := [2]float64{lon - lonDelta, lat - latDelta}
	hi := [2]float64{lon + lonDelta, lat + latDelta}
	query := geo.NewCoordinate(lat, lon)

	best := datastructure.INVALID_INDEX
	bestDist := math.Inf(1)
	idx.vertices.Search(lo, hi, func(_, _ [2]float64, id datastructure.Index) bool {
		vLat, vLon := idx.graph.GetVertexCoordinates(id)
		d := geo.CalculateHaversineDistance(lat, lon, vLat, vLon)
		if d < bestDist {
			bestDist = d
			best = id
		}
		return true
	})

	idx.edges.Search(lo, hi, func(_, _ [2]float64, id datastructure.Index) bool {
		e := idx.graph.GetEdge(id)
		path := edgePath(idx.graph, e)
		for i := 0; i+1 < len(path); i++ {
			d := geo.PointLinePerpendicularDistance(path[i], path[i+1], query) / 1000.0
			if d >= bestDist {
				continue
			}
			proj := geo.ProjectPointToLineCoord(path[i], path[i+1], query)
			bestDist = d
			best = nearestEndpoint(idx.graph, e, proj)
		}
		return true
	})

	if best == datastructure.INVALID_INDEX || bestDist > radiusKm {
		return datastructure.INVALID_INDEX, util.WrapErrorf(
			fmt.Errorf("no road within %.2f km of %.5f,%.5f", radiusKm, lat, lon),
			util.ErrNotFound, "spatialindex.SnapToNearestVertex")
	}
	return best, nil
}

func nearestEndpoint(g *datastructure.Graph, e *datastructure.Edge, proj geo.Coordinate) datastructure.Index {
	fromLat, fromLon := g.GetVertexCoordinates(e.GetFrom())
	toLat, toLon := g.GetVertexCoordinates(e.GetTo())
	dFrom := geo.CalculateHaversineDistance(proj.GetLat(), proj.GetLon(), fromLat, fromLon)
	dTo := geo.CalculateHaversineDistance(proj.GetLat(), proj.GetLon(), toLat, toLon)
	if dFrom <= dTo {
		return e.GetFrom()
	}
	return e.GetTo()
}
