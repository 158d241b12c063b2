package routing

import (
	"github.com/paveroute/paveroute/pkg/costfunction"
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/util"
)

// Analysis summarizes a found route for the rider: how far, how much
// climbing, and how good the pavement is along the way.
type Analysis struct {
	TotalDistanceMeters    float64
	TotalTravelTimeMinutes float64
	UphillGainMeters       float64
	MeanPaser              float64
	MeanCompositeCost      float64
	Segments               int
}

// Analyze walks the route's edges and aggregates their attributes.
func Analyze(route *Route) Analysis {
	a := Analysis{Segments: len(route.Edges)}
	composite := costfunction.NewCompositeCostFunction()

	pasers := make([]float64, 0, len(route.Edges))
	costs := make([]float64, 0, len(route.Edges))
	for _, e := range route.Edges {
		a.TotalDistanceMeters += e.GetLength()
		a.TotalTravelTimeMinutes += e.GetTravelTime()
		a.UphillGainMeters += e.UphillGain()
		pasers = append(pasers, e.GetPaserScore())
		costs = append(costs, composite.Cost(e))
	}
	a.MeanPaser = util.RoundFloat(util.Mean(pasers), 2)
	a.MeanCompositeCost = util.RoundFloat(util.Mean(costs), 4)
	a.TotalDistanceMeters = util.RoundFloat(a.TotalDistanceMeters, 1)
	a.TotalTravelTimeMinutes = util.RoundFloat(a.TotalTravelTimeMinutes, 2)
	a.UphillGainMeters = util.RoundFloat(a.UphillGainMeters, 1)
	return a
}

// RouteGeometry stitches the full coordinate path of a route together,
// dropping the duplicated vertex between consecutive edges.
func RouteGeometry(g *datastructure.Graph, route *Route) []geo.Coordinate {
	coords := make([]geo.Coordinate, 0)
	for i, e := range route.Edges {
		geom := e.GetGeometry()
		if len(geom) == 0 {
			lat, lon := g.GetVertexCoordinates(e.GetFrom())
			toLat, toLon := g.GetVertexCoordinates(e.GetTo())
			geom = []geo.Coordinate{{Lat: lat, Lon: lon}, {Lat: toLat, Lon: toLon}}
		}
		if i > 0 && len(coords) > 0 {
			geom = geom[1:]
		}
		coords = append(coords, geom...)
	}
	if len(coords) == 0 && len(route.Vertices) > 0 {
		for _, v := range route.Vertices {
			lat, lon := g.GetVertexCoordinates(v)
			coords = append(coords, geo.Coordinate{Lat: lat, Lon: lon})
		}
	}
	return coords
}
