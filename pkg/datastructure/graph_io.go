package datastructure

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/paveroute/paveroute/pkg"
	"github.com/paveroute/paveroute/pkg/geo"
)

// WriteGraph persists the graph to a bzip2 compressed text file, including
// per-edge pavement scores and geometry, so stage outputs round-trip between
// commands.
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)
	defer w.Flush()

	fmt.Fprintf(w, "%d %d\n", len(g.vertices), len(g.edges))

	for i := range g.vertices {
		v := &g.vertices[i]
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)
		elevF := strconv.FormatFloat(v.elevation, 'f', -1, 64)

		fmt.Fprintf(w, "%d %d %s %s %s\n", v.id, v.osmID, latF, lonF, elevF)
	}

	for i := range g.edges {
		e := &g.edges[i]
		distF := strconv.FormatFloat(e.dist, 'f', -1, 64)
		speedF := strconv.FormatFloat(e.speed, 'f', -1, 64)
		ttF := strconv.FormatFloat(e.travelTime, 'f', -1, 64)
		gainF := strconv.FormatFloat(e.elevationGain, 'f', -1, 64)
		paserF := strconv.FormatFloat(e.paserScore, 'f', -1, 64)
		wttF := strconv.FormatFloat(e.weightedTravelTime, 'f', -1, 64)

		fmt.Fprintf(w, "%d %d %d %d %d %s %s %s %s %s %s %d",
			e.id, e.from, e.to, e.key, e.hwType, distF, speedF, ttF, gainF, paserF, wttF,
			len(e.geometry))
		for _, c := range e.geometry {
			fmt.Fprintf(w, " %s %s",
				strconv.FormatFloat(c.Lat, 'f', -1, 64),
				strconv.FormatFloat(c.Lon, 'f', -1, 64))
		}
		fmt.Fprintf(w, "\n")
	}

	return nil
}

// ReadGraph loads a graph file written by WriteGraph.
func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	sc := bufio.NewScanner(bz)
	sc.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	if !sc.Scan() {
		return nil, fmt.Errorf("graph file %s: missing header", filename)
	}
	var numVertices, numEdges int
	if _, err := fmt.Sscanf(sc.Text(), "%d %d", &numVertices, &numEdges); err != nil {
		return nil, fmt.Errorf("graph file %s: bad header: %w", filename, err)
	}

	g := &Graph{
		vertices: make([]Vertex, 0, numVertices),
		edges:    make([]Edge, 0, numEdges),
		outEdges: make([][]Index, numVertices),
	}

	for i := 0; i < numVertices; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("graph file %s: truncated vertex section", filename)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != 5 {
			return nil, fmt.Errorf("graph file %s: bad vertex line %q", filename, sc.Text())
		}
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, err
		}
		osmID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, err
		}
		elevation, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, err
		}
		v := NewVertex(lat, lon, Index(id), osmID)
		v.SetElevation(elevation)
		g.vertices = append(g.vertices, *v)
	}

	for i := 0; i < numEdges; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("graph file %s: truncated edge section", filename)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 12 {
			return nil, fmt.Errorf("graph file %s: bad edge line %q", filename, sc.Text())
		}
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, err
		}
		from, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, err
		}
		to, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return nil, err
		}
		key, err := strconv.ParseUint(fields[3], 10, 8)
		if err != nil {
			return nil, err
		}
		hwType, err := strconv.ParseUint(fields[4], 10, 8)
		if err != nil {
			return nil, err
		}
		floatsIn := fields[5:11]
		floats := make([]float64, 6)
		for j, s := range floatsIn {
			floats[j], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, err
			}
		}
		geomLen, err := strconv.Atoi(fields[11])
		if err != nil {
			return nil, err
		}
		if len(fields) != 12+2*geomLen {
			return nil, fmt.Errorf("graph file %s: edge %d geometry length mismatch", filename, id)
		}
		geometry := make([]geo.Coordinate, geomLen)
		for j := 0; j < geomLen; j++ {
			lat, err := strconv.ParseFloat(fields[12+2*j], 64)
			if err != nil {
				return nil, err
			}
			lon, err := strconv.ParseFloat(fields[12+2*j+1], 64)
			if err != nil {
				return nil, err
			}
			geometry[j] = geo.NewCoordinate(lat, lon)
		}

		e := Edge{
			id:                 Index(id),
			from:               Index(from),
			to:                 Index(to),
			key:                uint8(key),
			hwType:             pkg.OsmHighwayType(hwType),
			dist:               floats[0],
			speed:              floats[1],
			travelTime:         floats[2],
			elevationGain:      floats[3],
			paserScore:         floats[4],
			weightedTravelTime: floats[5],
			geometry:           geometry,
		}
		g.edges = append(g.edges, e)
		g.outEdges[e.from] = append(g.outEdges[e.from], e.id)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}
	return g, nil
}
