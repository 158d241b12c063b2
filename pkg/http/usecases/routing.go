package usecases

import (
	"fmt"

	"github.com/paveroute/paveroute/pkg/costfunction"
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/routing"
	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/streetview"
	"github.com/paveroute/paveroute/pkg/updater"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

type RoutingService struct {
	log          *zap.Logger
	graph        *datastructure.Graph
	router       Router
	spatialIndex SpatialIndex
	snapRadiusKm float64
}

func NewRoutingService(log *zap.Logger, graph *datastructure.Graph, router Router,
	spatialIndex SpatialIndex, snapRadiusKm float64) *RoutingService {
	return &RoutingService{
		log:          log,
		graph:        graph,
		router:       router,
		spatialIndex: spatialIndex,
		snapRadiusKm: snapRadiusKm,
	}
}

func costFunctionFor(profile string) (costfunction.CostFunction, error) {
	switch profile {
	case "", "composite":
		return costfunction.NewCompositeCostFunction(), nil
	case "fastest":
		return costfunction.NewFastestCostFunction(), nil
	case "shortest":
		return costfunction.NewShortestCostFunction(), nil
	default:
		return nil, util.WrapErrorf(fmt.Errorf("unknown profile %q", profile),
			util.ErrBadParamInput, "usecases.costFunctionFor")
	}
}

// Route snaps both endpoints to the network, runs the search under the
// requested profile, and returns the encoded path polyline with its
// analysis.
func (rs *RoutingService) Route(origLat, origLon, dstLat, dstLon float64,
	profile string) (string, routing.Analysis, error) {
	cf, err := costFunctionFor(profile)
	if err != nil {
		return "", routing.Analysis{}, err
	}

	source, err := rs.spatialIndex.SnapToNearestVertex(origLat, origLon, rs.snapRadiusKm)
	if err != nil {
		return "", routing.Analysis{}, err
	}
	target, err := rs.spatialIndex.SnapToNearestVertex(dstLat, dstLon, rs.snapRadiusKm)
	if err != nil {
		return "", routing.Analysis{}, err
	}

	route, err := rs.router.ShortestPath(source, target, cf)
	if err != nil {
		return "", routing.Analysis{}, err
	}

	pathPolyline := geo.PolylineFromCoords(routing.RouteGeometry(rs.graph, route))
	analysis := routing.Analyze(route)

	rs.log.Info("route computed",
		zap.String("profile", cf.Name()),
		zap.Int("segments", analysis.Segments),
		zap.Float64("distanceMeters", analysis.TotalDistanceMeters),
		zap.Float64("meanPaser", analysis.MeanPaser))
	return pathPolyline, analysis, nil
}

// SegmentScore reports the surveyed pavement condition of one segment.
func (rs *RoutingService) SegmentScore(segmentID string) (scoring.SegmentScore, error) {
	from, to, key, err := streetview.ParseSegmentID(segmentID)
	if err != nil {
		return scoring.SegmentScore{}, util.WrapErrorf(err, util.ErrBadParamInput,
			"usecases.SegmentScore")
	}

	edge := rs.graph.FindEdge(from, to, key)
	if edge == nil {
		return scoring.SegmentScore{}, util.WrapErrorf(
			fmt.Errorf("segment %s not in graph", segmentID),
			util.ErrNotFound, "usecases.SegmentScore")
	}
	return scoring.SegmentScore{
		SegmentID: segmentID,
		Score:     edge.GetPaserScore(),
	}, nil
}

func (rs *RoutingService) NetworkStats() updater.GraphStats {
	return updater.Stats(rs.graph)
}
