package usecases

import (
	"github.com/paveroute/paveroute/pkg/costfunction"
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/routing"
)

type Router interface {
	ShortestPath(source, target datastructure.Index, cf costfunction.CostFunction) (*routing.Route, error)
}

type SpatialIndex interface {
	SnapToNearestVertex(lat, lon, radiusKm float64) (datastructure.Index, error)
}
