package osm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paveroute/paveroute/pkg/logger"
)

const overpassFixture = `{
  "version": 0.6,
  "elements": [
    {"type": "node", "id": 1, "lat": 10.2990, "lon": 123.8710},
    {"type": "node", "id": 2, "lat": 10.3000, "lon": 123.8720},
    {"type": "way", "id": 10, "nodes": [1, 2],
     "tags": {"highway": "residential", "name": "V. Rama Avenue"}}
  ]
}`

func TestQueryDecodesElements(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotQuery = r.Form.Get("data")
		w.Write([]byte(overpassFixture))
	}))
	defer srv.Close()

	log, _ := logger.New()
	c := NewClient(srv.URL, log)

	bbox := NewBoundingBox(10.29, 123.86, 10.31, 123.88)
	elements, err := c.QueryRoadNetwork(context.Background(), bbox)
	if err != nil {
		t.Fatalf("QueryRoadNetwork: %v", err)
	}

	if !strings.Contains(gotQuery, "[out:json]") || !strings.Contains(gotQuery, `"highway"`) {
		t.Errorf("query missing expected parts: %s", gotQuery)
	}

	if len(elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(elements))
	}
	way := elements[2]
	if way.Type != "way" || len(way.Nodes) != 2 || way.Tags["highway"] != "residential" {
		t.Errorf("way decoded wrong: %+v", way)
	}
}

func TestQueryUsesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(overpassFixture))
	}))
	defer srv.Close()

	log, _ := logger.New()
	c := NewClient(srv.URL, log)

	bbox := NewBoundingBox(10.29, 123.86, 10.31, 123.88)
	if _, err := c.QueryRoadNetwork(context.Background(), bbox); err != nil {
		t.Fatalf("first query: %v", err)
	}
	if _, err := c.QueryRoadNetwork(context.Background(), bbox); err != nil {
		t.Fatalf("second query: %v", err)
	}

	if calls != 1 {
		t.Errorf("server called %d times, want 1 (second should hit cache)", calls)
	}
}

func TestQueryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	log, _ := logger.New()
	c := NewClient(srv.URL, log)

	if _, err := c.Query(context.Background(), "[out:json];out body;"); err == nil {
		t.Error("expected error on 429 response")
	}
}

func TestRoadNetworkQueryShape(t *testing.T) {
	q := RoadNetworkQuery(NewBoundingBox(1, 2, 3, 4))
	for _, part := range []string{"[out:json];", "way(", `["highway"]`, ">;", "out body;"} {
		if !strings.Contains(q, part) {
			t.Errorf("query %q missing %q", q, part)
		}
	}
}
