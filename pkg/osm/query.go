package osm

import (
	"fmt"
	"strings"
)

// OverpassBuilder composes Overpass QL queries. All queries request JSON
// output.
type OverpassBuilder struct {
	buf        strings.Builder
	hasElement bool
}

func NewOverpassBuilder() *OverpassBuilder {
	b := &OverpassBuilder{}
	b.buf.WriteString("[out:json];")
	return b
}

// WithWayInBbox adds a way query within a bounding box filtered by tags.
// An empty tag value filters on key presence only.
func (b *OverpassBuilder) WithWayInBbox(bbox BoundingBox, tags map[string]string) *OverpassBuilder {
	b.begin()
	b.buf.WriteString(fmt.Sprintf("way(%f,%f,%f,%f)", bbox.MinLat, bbox.MinLon, bbox.MaxLat, bbox.MaxLon))
	for key, value := range tags {
		if value == "" {
			b.buf.WriteString(fmt.Sprintf("[%q]", key))
		} else {
			b.buf.WriteString(fmt.Sprintf("[%q=%q]", key, value))
		}
	}
	b.buf.WriteString(";")
	return b
}

// WithRecurseNodes recurses down to the nodes of the matched ways so their
// coordinates come back in the same response.
func (b *OverpassBuilder) WithRecurseNodes() *OverpassBuilder {
	b.begin()
	b.buf.WriteString(">;")
	return b
}

func (b *OverpassBuilder) begin() {
	if !b.hasElement {
		b.buf.WriteString("(")
		b.hasElement = true
	}
}

// Build closes the query group and appends the output statement.
func (b *OverpassBuilder) Build() string {
	if b.hasElement {
		return b.buf.String() + ");out body;"
	}
	return b.buf.String() + "out body;"
}

// RoadNetworkQuery is the query stage 1 sends: every highway-tagged way in
// the bounding box plus the nodes they reference.
func RoadNetworkQuery(bbox BoundingBox) string {
	return NewOverpassBuilder().
		WithWayInBbox(bbox, map[string]string{"highway": ""}).
		WithRecurseNodes().
		Build()
}
