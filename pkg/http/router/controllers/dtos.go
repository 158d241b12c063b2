package controllers

import (
	"github.com/paveroute/paveroute/pkg/routing"
	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/updater"
)

type routeRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"required,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"required,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"required,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"required,min=-180,max=180"`
	Profile        string  `json:"profile" validate:"omitempty,oneof=composite fastest shortest"`
}

type routeResponse struct {
	Path              string  `json:"path"`
	Profile           string  `json:"profile"`
	DistanceMeters    float64 `json:"distance_meters"`
	TravelTimeMinutes float64 `json:"travel_time_minutes"`
	UphillGainMeters  float64 `json:"uphill_gain_meters"`
	MeanPaser         float64 `json:"mean_paser"`
	MeanCompositeCost float64 `json:"mean_composite_cost"`
	Segments          int     `json:"segments"`
}

func NewRouteResponse(path, profile string, a routing.Analysis) routeResponse {
	return routeResponse{
		Path:              path,
		Profile:           profile,
		DistanceMeters:    a.TotalDistanceMeters,
		TravelTimeMinutes: a.TotalTravelTimeMinutes,
		UphillGainMeters:  a.UphillGainMeters,
		MeanPaser:         a.MeanPaser,
		MeanCompositeCost: a.MeanCompositeCost,
		Segments:          a.Segments,
	}
}

type segmentScoreResponse struct {
	SegmentID string  `json:"segment_id"`
	Paser     float64 `json:"paser_score"`
	NumImages int     `json:"num_images"`
}

func NewSegmentScoreResponse(s scoring.SegmentScore) segmentScoreResponse {
	return segmentScoreResponse{
		SegmentID: s.SegmentID,
		Paser:     s.Score,
		NumImages: s.NumImages,
	}
}

type statsResponse struct {
	Edges         int     `json:"edges"`
	SurveyedEdges int     `json:"surveyed_edges"`
	MeanPaser     float64 `json:"mean_paser"`
	MinPaser      float64 `json:"min_paser"`
	MaxPaser      float64 `json:"max_paser"`
}

func NewStatsResponse(s updater.GraphStats) statsResponse {
	return statsResponse{
		Edges:         s.Edges,
		SurveyedEdges: s.SurveyedEdges,
		MeanPaser:     s.MeanPaser,
		MinPaser:      s.MinPaser,
		MaxPaser:      s.MaxPaser,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
