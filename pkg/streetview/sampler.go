// Package streetview samples camera points along road segments and
// downloads street-level imagery for them.
package streetview

import (
	"fmt"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/geo"
)

// ImagePoint is one camera location on a road segment. SegmentID is
// the "from_to_key" triple shared by every artifact derived from the
// same segment, Index orders the points along it.
type ImagePoint struct {
	SegmentID string
	EdgeID    datastructure.Index
	Index     int
	Lat       float64
	Lng       float64
	Heading   float64
}

func SegmentID(from, to datastructure.Index, key uint8) string {
	return fmt.Sprintf("%d_%d_%d", from, to, key)
}

// ParseSegmentID splits a "from_to_key" id back into its parts.
func ParseSegmentID(id string) (from, to datastructure.Index, key uint8, err error) {
	var f, t uint32
	var k uint8
	if _, err = fmt.Sscanf(id, "%d_%d_%d", &f, &t, &k); err != nil {
		return 0, 0, 0, fmt.Errorf("malformed segment id %q: %w", id, err)
	}
	return datastructure.Index(f), datastructure.Index(t), k, nil
}

// SamplePoints places camera points every spacingMeters along each
// road segment. Segment endpoints are skipped, they belong to
// junctions where the camera sees the crossing road instead. Segments
// shorter than the spacing get a single midpoint sample. A segment and
// its reverse share imagery, so only one direction is sampled.
func SamplePoints(g *datastructure.Graph, spacingMeters float64, headings []float64) []ImagePoint {
	if len(headings) == 0 {
		headings = []float64{0}
	}

	points := make([]ImagePoint, 0)
	g.ForEdges(func(e *datastructure.Edge) {
		if skipReverse(g, e) {
			return
		}
		geom := e.GetGeometry()
		samples := geo.SampleAlongPath(geom, spacingMeters)

		segID := SegmentID(e.GetFrom(), e.GetTo(), e.GetKey())
		idx := 0
		for _, s := range samples {
			for _, h := range headings {
				points = append(points, ImagePoint{
					SegmentID: segID,
					EdgeID:    e.GetEdgeId(),
					Index:     idx,
					Lat:       s.Lat,
					Lng:       s.Lon,
					Heading:   h,
				})
				idx++
			}
		}
	})
	return points
}

// skipReverse keeps one direction of a two-way segment: the one whose
// from index is smaller. Oneway segments are always kept.
func skipReverse(g *datastructure.Graph, e *datastructure.Edge) bool {
	if e.GetFrom() <= e.GetTo() {
		return false
	}
	return g.HasEdge(e.GetTo(), e.GetFrom(), e.GetKey())
}
