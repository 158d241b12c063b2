package osmparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paveroute/paveroute/pkg"
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/osm"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

const fallbackSpeedKmh = 30.0

// Parser builds a routable road graph from raw osm elements. Ways are
// split into graph edges at junction nodes, so an edge is always the
// longest stretch of a way without an intersection in the middle.
type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	return &Parser{log: log}
}

type wayNode struct {
	lat float64
	lon float64
	id  int64
}

// BuildGraph turns overpass elements into a directed graph. A two-way
// way contributes an edge per direction; oneway tags restrict to the
// allowed direction only.
func (p *Parser) BuildGraph(elements []osm.OverpassElement) (*datastructure.Graph, error) {
	nodeCoords := make(map[int64]geo.Coordinate)
	ways := make([]osm.OverpassElement, 0)

	for _, el := range elements {
		switch el.Type {
		case "node":
			nodeCoords[el.ID] = geo.Coordinate{Lat: el.Lat, Lon: el.Lon}
		case "way":
			if isRoadWay(el.Tags) {
				ways = append(ways, el)
			}
		}
	}

	if len(ways) == 0 {
		return nil, util.WrapErrorf(fmt.Errorf("no road ways in %d elements", len(elements)),
			util.ErrBadParamInput, "osmparser.BuildGraph")
	}

	nodeTypes := classifyNodes(ways)

	graph := datastructure.NewGraph()
	vertexOf := make(map[int64]datastructure.Index)

	addVertex := func(n wayNode) datastructure.Index {
		if idx, ok := vertexOf[n.id]; ok {
			return idx
		}
		idx := graph.AddVertex(n.lat, n.lon, n.id)
		vertexOf[n.id] = idx
		return idx
	}

	var skippedWays int
	for _, way := range ways {
		nodes := make([]wayNode, 0, len(way.Nodes))
		complete := true
		for _, nid := range way.Nodes {
			c, ok := nodeCoords[nid]
			if !ok {
				complete = false
				break
			}
			nodes = append(nodes, wayNode{lat: c.Lat, lon: c.Lon, id: nid})
		}
		if !complete || len(nodes) < 2 {
			skippedWays++
			continue
		}

		speed := waySpeedKmh(way.Tags)
		hwType := pkg.GetHighwayType(way.Tags["highway"])
		forward, backward := wayDirections(way.Tags)

		for _, seg := range splitAtJunctions(nodes, nodeTypes) {
			fromIdx := addVertex(seg[0])
			toIdx := addVertex(seg[len(seg)-1])
			geom := make([]geo.Coordinate, len(seg))
			dist := 0.0
			for i, n := range seg {
				geom[i] = geo.Coordinate{Lat: n.lat, Lon: n.lon}
				if i > 0 {
					dist += geo.HaversineDistanceMeters(seg[i-1].lat, seg[i-1].lon, n.lat, n.lon)
				}
			}
			if forward {
				graph.AddEdge(fromIdx, toIdx, dist, speed, hwType, geom)
			}
			if backward {
				graph.AddEdge(toIdx, fromIdx, dist, speed, hwType, util.ReverseG(geom))
			}
		}
	}

	if graph.NumberOfVertices() == 0 {
		return nil, util.WrapErrorf(fmt.Errorf("no routable ways with complete node data"),
			util.ErrBadParamInput, "osmparser.BuildGraph")
	}

	p.log.Info("built road graph",
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("edges", graph.NumberOfEdges()),
		zap.Int("ways", len(ways)),
		zap.Int("skippedWays", skippedWays))

	return graph, nil
}

// classifyNodes marks each node used by the ways as end, between, or
// junction. A node shared by two ways, or used twice within one way,
// is a junction and becomes a split point.
func classifyNodes(ways []osm.OverpassElement) map[int64]NodeType {
	types := make(map[int64]NodeType)
	for _, way := range ways {
		for i, nid := range way.Nodes {
			if _, seen := types[nid]; seen {
				types[nid] = JUNCTION_NODE
				continue
			}
			if i == 0 || i == len(way.Nodes)-1 {
				types[nid] = END_NODE
			} else {
				types[nid] = BETWEEN_NODE
			}
		}
	}
	return types
}

// splitAtJunctions cuts a way's node list into segments that only
// touch junction nodes at their endpoints.
func splitAtJunctions(nodes []wayNode, types map[int64]NodeType) [][]wayNode {
	segments := make([][]wayNode, 0, 1)
	start := 0
	for i := 1; i < len(nodes); i++ {
		if i == len(nodes)-1 || types[nodes[i].id] == JUNCTION_NODE {
			seg := nodes[start : i+1]
			if len(seg) >= 2 && seg[0].id != seg[len(seg)-1].id {
				segments = append(segments, seg)
			} else if len(seg) >= 3 {
				// closed loop, keep it but cut at the midpoint so both
				// halves have distinct endpoints
				mid := len(seg) / 2
				segments = append(segments, seg[:mid+1], seg[mid:])
			}
			start = i
		}
	}
	return segments
}

func isRoadWay(tags map[string]string) bool {
	hw, ok := tags["highway"]
	if !ok {
		return false
	}
	if _, skip := skipHighway[hw]; skip {
		return false
	}
	_, accepted := acceptedHighway[hw]
	return accepted
}

func wayDirections(tags map[string]string) (forward, backward bool) {
	switch strings.TrimSpace(tags["oneway"]) {
	case "yes", "true", "1":
		return true, false
	case "-1", "reverse":
		return false, true
	default:
		return true, true
	}
}

// waySpeedKmh resolves the speed used for travel time. A parseable
// maxspeed tag wins (mph, km/h, and knots are converted), otherwise
// the highway class default applies.
func waySpeedKmh(tags map[string]string) float64 {
	if v, ok := tags["maxspeed"]; ok {
		if kmh, ok := parseMaxspeed(v); ok {
			return kmh
		}
	}
	if def, ok := highwayDefaultSpeed[tags["highway"]]; ok {
		return def
	}
	return fallbackSpeedKmh
}

func parseMaxspeed(v string) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	// "50; 30" style values: take the first
	if idx := strings.IndexAny(v, ";|"); idx >= 0 {
		v = strings.TrimSpace(v[:idx])
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(v, "mph"):
		factor = 1.60934
		v = strings.TrimSpace(strings.TrimSuffix(v, "mph"))
	case strings.HasSuffix(v, "knots"):
		factor = 1.852
		v = strings.TrimSpace(strings.TrimSuffix(v, "knots"))
	case strings.HasSuffix(v, "km/h"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "km/h"))
	case strings.HasSuffix(v, "kmh"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "kmh"))
	case strings.HasSuffix(v, "kph"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "kph"))
	}

	speed, err := strconv.ParseFloat(v, 64)
	if err != nil || speed <= 0 {
		return 0, false
	}
	return speed * factor, true
}
