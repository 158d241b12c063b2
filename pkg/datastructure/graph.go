package datastructure

import (
	"github.com/paveroute/paveroute/pkg"
	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/util"
)

type Index uint32

const INVALID_INDEX = Index(^uint32(0))

type Vertex struct {
	lat       float64
	lon       float64
	elevation float64
	id        Index
	osmID     int64
}

func NewVertex(lat, lon float64, id Index, osmID int64) *Vertex {
	return &Vertex{
		lat:   lat,
		lon:   lon,
		id:    id,
		osmID: osmID,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmID() int64 {
	return v.osmID
}

func (v *Vertex) GetElevation() float64 {
	return v.elevation
}

func (v *Vertex) SetElevation(elevation float64) {
	v.elevation = elevation
}

// Edge is one directed road segment. A segment and its reverse are distinct
// edges; parallel edges between the same vertex pair are told apart by key.
type Edge struct {
	dist               float64 // meter
	speed              float64 // km/h
	travelTime         float64 // minute
	elevationGain      float64 // meter, signed (negative = downhill)
	paserScore         float64
	weightedTravelTime float64 // minute, pavement-penalized
	normPaser          float64
	normElev           float64
	normDist           float64
	geometry           []geo.Coordinate
	id                 Index
	from, to           Index
	key                uint8
	hwType             pkg.OsmHighwayType
}

func NewEdge(id, from, to Index, key uint8, dist, speed float64,
	hwType pkg.OsmHighwayType, geometry []geo.Coordinate) *Edge {
	travelTime := 0.0
	if speed > 0 {
		// dist / (speed in m/s) is seconds
		travelTime = util.SecondsToMinutes(dist / (speed / 3.6))
	}
	return &Edge{
		id:         id,
		from:       from,
		to:         to,
		key:        key,
		dist:       dist,
		speed:      speed,
		travelTime: travelTime,
		paserScore: pkg.DEFAULT_PASER_SCORE,
		hwType:     hwType,
		geometry:   geometry,
	}
}

func (e *Edge) GetEdgeId() Index           { return e.id }
func (e *Edge) GetFrom() Index             { return e.from }
func (e *Edge) GetTo() Index               { return e.to }
func (e *Edge) GetKey() uint8              { return e.key }
func (e *Edge) GetLength() float64         { return e.dist }
func (e *Edge) GetEdgeSpeed() float64      { return e.speed }
func (e *Edge) GetTravelTime() float64     { return e.travelTime }
func (e *Edge) GetElevationGain() float64  { return e.elevationGain }
func (e *Edge) GetPaserScore() float64     { return e.paserScore }
func (e *Edge) GetGeometry() []geo.Coordinate {
	return e.geometry
}
func (e *Edge) GetHighwayType() pkg.OsmHighwayType { return e.hwType }

// UphillGain. only positive elevation gain counts toward route cost,
// downhill rides free.
func (e *Edge) UphillGain() float64 {
	if e.elevationGain < 0 {
		return 0
	}
	return e.elevationGain
}

// InvertedPaser flips the 1..10 scale so that larger means worse pavement.
func (e *Edge) InvertedPaser() float64 {
	return pkg.MAX_PASER_SCORE + pkg.MIN_PASER_SCORE - e.paserScore
}

func (e *Edge) GetWeightedTravelTime() float64 { return e.weightedTravelTime }

func (e *Edge) GetNormPaser() float64 { return e.normPaser }
func (e *Edge) GetNormElev() float64  { return e.normElev }
func (e *Edge) GetNormDist() float64  { return e.normDist }

func (e *Edge) SetElevationGain(gain float64)     { e.elevationGain = gain }
func (e *Edge) SetPaserScore(score float64)       { e.paserScore = score }
func (e *Edge) SetWeightedTravelTime(t float64)   { e.weightedTravelTime = t }
func (e *Edge) SetTravelTime(t float64)           { e.travelTime = t }
func (e *Edge) SetNormalized(paser, elev, dist float64) {
	e.normPaser = paser
	e.normElev = elev
	e.normDist = dist
}

// Graph is the attributed directed road network multigraph.
type Graph struct {
	vertices []Vertex
	edges    []Edge
	outEdges [][]Index // vertex id -> outgoing edge ids
}

func NewGraph() *Graph {
	return &Graph{
		vertices: make([]Vertex, 0),
		edges:    make([]Edge, 0),
		outEdges: make([][]Index, 0),
	}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *Graph) AddVertex(lat, lon float64, osmID int64) Index {
	id := Index(len(g.vertices))
	g.vertices = append(g.vertices, *NewVertex(lat, lon, id, osmID))
	g.outEdges = append(g.outEdges, nil)
	return id
}

// AddEdge appends a directed edge, assigning the next parallel-edge key for
// the (from, to) vertex pair.
func (g *Graph) AddEdge(from, to Index, dist, speed float64,
	hwType pkg.OsmHighwayType, geometry []geo.Coordinate) *Edge {
	key := uint8(0)
	for _, eid := range g.outEdges[from] {
		if g.edges[eid].to == to {
			key++
		}
	}
	id := Index(len(g.edges))
	g.edges = append(g.edges, *NewEdge(id, from, to, key, dist, speed, hwType, geometry))
	g.outEdges[from] = append(g.outEdges[from], id)
	return &g.edges[id]
}

func (g *Graph) GetVertex(id Index) *Vertex {
	return &g.vertices[id]
}

func (g *Graph) GetVertexCoordinates(id Index) (float64, float64) {
	v := &g.vertices[id]
	return v.lat, v.lon
}

func (g *Graph) GetEdge(id Index) *Edge {
	return &g.edges[id]
}

// FindEdge returns the edge (from, to, key), or nil.
func (g *Graph) FindEdge(from, to Index, key uint8) *Edge {
	if int(from) >= len(g.outEdges) {
		return nil
	}
	for _, eid := range g.outEdges[from] {
		e := &g.edges[eid]
		if e.to == to && e.key == key {
			return e
		}
	}
	return nil
}

// HasEdge reports whether any edge (from, to, key) exists.
func (g *Graph) HasEdge(from, to Index, key uint8) bool {
	return g.FindEdge(from, to, key) != nil
}

func (g *Graph) ForOutEdgesOf(u Index, fn func(e *Edge)) {
	for _, eid := range g.outEdges[u] {
		fn(&g.edges[eid])
	}
}

func (g *Graph) ForEdges(fn func(e *Edge)) {
	for i := range g.edges {
		fn(&g.edges[i])
	}
}

func (g *Graph) ForVertices(fn func(v *Vertex)) {
	for i := range g.vertices {
		fn(&g.vertices[i])
	}
}

// ComputeElevationGains derives each edge's signed elevation gain from its
// endpoint vertex elevations.
func (g *Graph) ComputeElevationGains() {
	for i := range g.edges {
		e := &g.edges[i]
		e.elevationGain = g.vertices[e.to].elevation - g.vertices[e.from].elevation
	}
}

// EnsureBidirectional adds a reverse edge with mirrored geometry and negated
// elevation gain for every edge lacking one. The cycling graph treats every
// street as ridable both ways.
func (g *Graph) EnsureBidirectional() int {
	added := 0
	numForward := len(g.edges)
	for eid := 0; eid < numForward; eid++ {
		e := g.edges[eid]
		if g.HasEdge(e.to, e.from, e.key) {
			continue
		}
		revGeom := make([]geo.Coordinate, len(e.geometry))
		for i, c := range e.geometry {
			revGeom[len(e.geometry)-1-i] = c
		}
		rev := g.AddEdge(e.to, e.from, e.dist, e.speed, e.hwType, revGeom)
		rev.SetElevationGain(-e.elevationGain)
		rev.SetPaserScore(e.paserScore)
		added++
	}
	return added
}
