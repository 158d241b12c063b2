package elevation

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeTile writes a square int16 grid as an .hgt file. rows[0] is the
// northern edge of the one-degree cell.
func writeTile(t *testing.T, dir, name string, rows [][]int16) {
	t.Helper()
	size := len(rows)
	buf := make([]byte, 0, size*size*2)
	for _, row := range rows {
		require.Len(t, row, size)
		for _, v := range row {
			buf = binary.BigEndian.AppendUint16(buf, uint16(v))
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf, 0o644))
}

func TestTileName(t *testing.T) {
	assert.Equal(t, "N10E123.hgt", tileName(10.3, 123.87))
	assert.Equal(t, "S34W059.hgt", tileName(-33.4, -58.4))
	assert.Equal(t, "N00E000.hgt", tileName(0.5, 0.5))
}

func TestSRTMProviderInterpolates(t *testing.T) {
	dir := t.TempDir()
	// 2x2 grid: nw=100 ne=200 sw=300 se=400
	writeTile(t, dir, "N10E123.hgt", [][]int16{
		{100, 200},
		{300, 400},
	})

	p := NewSRTMProvider(dir, zap.NewNop())

	// cell corners
	nw, err := p.Elevation(context.Background(), 10.999999, 123.000001)
	require.NoError(t, err)
	assert.InDelta(t, 100, nw, 1.0)

	// center of the cell averages all four samples
	center, err := p.Elevation(context.Background(), 10.5, 123.5)
	require.NoError(t, err)
	assert.InDelta(t, 250, center, 1e-6)
}

func TestSRTMProviderVoidSamples(t *testing.T) {
	dir := t.TempDir()
	writeTile(t, dir, "N10E123.hgt", [][]int16{
		{100, srtmVoid},
		{300, 200},
	})

	p := NewSRTMProvider(dir, zap.NewNop())
	elev, err := p.Elevation(context.Background(), 10.5, 123.5)
	require.NoError(t, err)
	// void filled with the mean of the valid samples
	assert.InDelta(t, 200, elev, 1e-6)
}

func TestSRTMProviderMissingTile(t *testing.T) {
	p := NewSRTMProvider(t.TempDir(), zap.NewNop())
	_, err := p.Elevation(context.Background(), 10.5, 123.5)
	assert.Error(t, err)
}

func TestHTTPProviderBatchLookup(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req lookupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := lookupResponse{}
		for _, loc := range req.Locations {
			resp.Results = append(resp.Results, struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
				Elevation float64 `json:"elevation"`
			}{loc.Latitude, loc.Longitude, loc.Latitude * 10})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := NewHTTPProvider(srv.URL, zap.NewNop())
	require.NoError(t, err)

	points := []geo.Coordinate{{Lat: 10, Lon: 123}, {Lat: 20, Lon: 123}}
	elevs, err := p.Elevations(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200}, elevs)

	// second call is answered from the cache
	_, err = p.Elevations(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestHTTPProviderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewHTTPProvider(srv.URL, zap.NewNop())
	require.NoError(t, err)

	_, err = p.Elevation(context.Background(), 10, 123)
	assert.Error(t, err)
}

type fixedProvider struct {
	byLat map[float64]float64
}

func (f *fixedProvider) Elevation(_ context.Context, lat, _ float64) (float64, error) {
	return f.byLat[lat], nil
}

func (f *fixedProvider) Elevations(ctx context.Context, points []geo.Coordinate) ([]float64, error) {
	out := make([]float64, len(points))
	for i, pt := range points {
		out[i], _ = f.Elevation(ctx, pt.Lat, pt.Lon)
	}
	return out, nil
}

func TestAnnotateGraph(t *testing.T) {
	g := datastructure.NewGraph()
	a := g.AddVertex(10.30, 123.87, 1)
	b := g.AddVertex(10.31, 123.87, 2)
	g.AddEdge(a, b, 1100, 30, 0, nil)
	g.AddEdge(b, a, 1100, 30, 0, nil)

	provider := &fixedProvider{byLat: map[float64]float64{10.30: 12.0, 10.31: 30.0}}
	require.NoError(t, AnnotateGraph(context.Background(), g, provider, zap.NewNop()))

	assert.Equal(t, 12.0, g.GetVertex(a).GetElevation())
	assert.Equal(t, 30.0, g.GetVertex(b).GetElevation())
	assert.Equal(t, 18.0, g.GetEdge(0).GetElevationGain())
	assert.Equal(t, -18.0, g.GetEdge(1).GetElevationGain())
	assert.Equal(t, 0.0, g.GetEdge(1).UphillGain())
}
