package streetview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// two vertices ~222m apart connected both ways
func twoWayGraph() *datastructure.Graph {
	g := datastructure.NewGraph()
	a := g.AddVertex(10.3000, 123.8700, 1)
	b := g.AddVertex(10.3020, 123.8700, 2)
	geom := []geo.Coordinate{{Lat: 10.3000, Lon: 123.8700}, {Lat: 10.3020, Lon: 123.8700}}
	dist := geo.HaversineDistanceMeters(10.3000, 123.8700, 10.3020, 123.8700)
	g.AddEdge(a, b, dist, 30, 0, geom)
	g.AddEdge(b, a, dist, 30, 0, []geo.Coordinate{geom[1], geom[0]})
	return g
}

func TestSamplePointsOnePerDirectionPair(t *testing.T) {
	g := twoWayGraph()

	points := SamplePoints(g, 50, []float64{0})

	// ~222m at 50m spacing puts 3 interior samples on the forward
	// edge, the reverse edge shares them
	require.Len(t, points, 3)
	for i, p := range points {
		assert.Equal(t, "0_1_0", p.SegmentID)
		assert.Equal(t, i, p.Index)
		assert.Equal(t, 0.0, p.Heading)
	}
}

func TestSamplePointsShortSegmentMidpoint(t *testing.T) {
	g := datastructure.NewGraph()
	a := g.AddVertex(10.3000, 123.8700, 1)
	b := g.AddVertex(10.30005, 123.8700, 2)
	geom := []geo.Coordinate{{Lat: 10.3000, Lon: 123.8700}, {Lat: 10.30005, Lon: 123.8700}}
	g.AddEdge(a, b, 5.5, 30, 0, geom)

	points := SamplePoints(g, 10, []float64{0})
	require.Len(t, points, 1)
	assert.InDelta(t, 10.300025, points[0].Lat, 1e-6)
}

func TestSamplePointsMultipleHeadings(t *testing.T) {
	g := twoWayGraph()

	points := SamplePoints(g, 50, []float64{0, 90})
	assert.Len(t, points, 6)
	assert.Equal(t, 0.0, points[0].Heading)
	assert.Equal(t, 90.0, points[1].Heading)
	// index keeps counting across headings
	assert.Equal(t, 1, points[1].Index)
}

func TestDownloadAllStoresAndSkips(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "640x640", r.URL.Query().Get("size"))
		assert.Equal(t, "90", r.URL.Query().Get("fov"))
		assert.Equal(t, "0", r.URL.Query().Get("pitch"))
		w.Write([]byte("jpegdata"))
	}))
	defer srv.Close()

	sink, err := NewDirSink(t.TempDir())
	require.NoError(t, err)

	d := NewDownloader(NewClient(srv.URL, "test-key"), sink, zap.NewNop())

	points := []ImagePoint{
		{SegmentID: "0_1_0", Index: 0, Lat: 10.3, Lng: 123.87, Heading: 0},
		{SegmentID: "0_1_0", Index: 1, Lat: 10.301, Lng: 123.87, Heading: 0},
	}

	metas, err := d.DownloadAll(context.Background(), points)
	require.NoError(t, err)
	assert.Len(t, metas, 2)
	assert.Equal(t, 2, calls)

	// rerun resumes without refetching, metadata still points at the
	// stored files
	metas, err = d.DownloadAll(context.Background(), points)
	require.NoError(t, err)
	assert.Len(t, metas, 2)
	assert.Equal(t, 2, calls)
	for _, m := range metas {
		data, err := os.ReadFile(m.ImagePath)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpegdata"), data)
	}
}

func TestDownloadAllAllFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	sink, err := NewDirSink(t.TempDir())
	require.NoError(t, err)

	d := NewDownloader(NewClient(srv.URL, "test-key"), sink, zap.NewNop())
	_, err = d.DownloadAll(context.Background(), []ImagePoint{{SegmentID: "0_1_0"}})
	assert.Error(t, err)
}
