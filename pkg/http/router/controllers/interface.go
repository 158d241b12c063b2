package controllers

import (
	"github.com/paveroute/paveroute/pkg/routing"
	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/updater"
)

type RoutingService interface {
	Route(origLat, origLon, dstLat, dstLon float64, profile string) (string, routing.Analysis, error)
	SegmentScore(segmentID string) (scoring.SegmentScore, error)
	NetworkStats() updater.GraphStats
}
