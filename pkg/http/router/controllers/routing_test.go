package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	helper "github.com/paveroute/paveroute/pkg/http/router/routerhelper"
	"github.com/paveroute/paveroute/pkg/routing"
	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/updater"
	"github.com/paveroute/paveroute/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRoutingService struct {
	routeErr error
	scoreErr error
}

func (s *stubRoutingService) Route(origLat, origLon, dstLat, dstLon float64,
	profile string) (string, routing.Analysis, error) {
	if s.routeErr != nil {
		return "", routing.Analysis{}, s.routeErr
	}
	return "encoded_polyline", routing.Analysis{
		TotalDistanceMeters: 800,
		MeanPaser:           9.0,
		Segments:            2,
	}, nil
}

func (s *stubRoutingService) SegmentScore(segmentID string) (scoring.SegmentScore, error) {
	if s.scoreErr != nil {
		return scoring.SegmentScore{}, s.scoreErr
	}
	return scoring.SegmentScore{SegmentID: segmentID, Score: 7.5}, nil
}

func (s *stubRoutingService) NetworkStats() updater.GraphStats {
	return updater.GraphStats{Edges: 8, SurveyedEdges: 4, MeanPaser: 6.5, MinPaser: 2, MaxPaser: 9}
}

func newTestServer(svc RoutingService) *httptest.Server {
	router := httprouter.New()
	group := helper.NewRouteGroup(router, "/api")
	New(svc, zap.NewNop()).Routes(group)
	return httptest.NewServer(router)
}

func TestRouteEndpoint(t *testing.T) {
	srv := newTestServer(&stubRoutingService{})
	defer srv.Close()

	url := srv.URL + "/api/route?origin_lat=10.3&origin_lon=123.87&destination_lat=10.31&destination_lon=123.88&profile=composite"
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Path           string  `json:"path"`
			Profile        string  `json:"profile"`
			DistanceMeters float64 `json:"distance_meters"`
			MeanPaser      float64 `json:"mean_paser"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "encoded_polyline", body.Data.Path)
	assert.Equal(t, "composite", body.Data.Profile)
	assert.Equal(t, 800.0, body.Data.DistanceMeters)
	assert.Equal(t, 9.0, body.Data.MeanPaser)
}

func TestRouteEndpointMissingParams(t *testing.T) {
	srv := newTestServer(&stubRoutingService{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/route?origin_lat=10.3")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouteEndpointInvalidLatitude(t *testing.T) {
	srv := newTestServer(&stubRoutingService{})
	defer srv.Close()

	url := srv.URL + "/api/route?origin_lat=95&origin_lon=123.87&destination_lat=10.31&destination_lon=123.88"
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouteEndpointNoPath(t *testing.T) {
	svc := &stubRoutingService{
		routeErr: util.WrapErrorf(fmt.Errorf("no path"), util.ErrNotFound, "test"),
	}
	srv := newTestServer(svc)
	defer srv.Close()

	url := srv.URL + "/api/route?origin_lat=10.3&origin_lon=123.87&destination_lat=10.31&destination_lon=123.88"
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSegmentScoreEndpoint(t *testing.T) {
	srv := newTestServer(&stubRoutingService{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/segments/12_34_0/score")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			SegmentID string  `json:"segment_id"`
			Paser     float64 `json:"paser_score"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "12_34_0", body.Data.SegmentID)
	assert.Equal(t, 7.5, body.Data.Paser)
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(&stubRoutingService{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Edges         int     `json:"edges"`
			SurveyedEdges int     `json:"surveyed_edges"`
			MeanPaser     float64 `json:"mean_paser"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 8, body.Data.Edges)
	assert.Equal(t, 4, body.Data.SurveyedEdges)
	assert.Equal(t, 6.5, body.Data.MeanPaser)
}
