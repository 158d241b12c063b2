package osmparser

import (
	"context"
	"os"
	"runtime"

	pmosm "github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/osm"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

// BuildGraphFromPBF reads a local .osm.pbf extract instead of hitting
// the overpass api. When bbox is non-nil, nodes outside it are dropped
// and any way touching a dropped node is skipped.
func (p *Parser) BuildGraphFromPBF(ctx context.Context, path string, bbox *osm.BoundingBox) (*datastructure.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "osmparser.BuildGraphFromPBF os.Open")
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, runtime.NumCPU())
	defer scanner.Close()

	elements := make([]osm.OverpassElement, 0)
	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *pmosm.Node:
			if bbox != nil && !bbox.Contains(obj.Lat, obj.Lon) {
				continue
			}
			elements = append(elements, osm.OverpassElement{
				Type: "node",
				ID:   int64(obj.ID),
				Lat:  obj.Lat,
				Lon:  obj.Lon,
			})
		case *pmosm.Way:
			tags := obj.Tags.Map()
			if !isRoadWay(tags) {
				continue
			}
			nodeIDs := make([]int64, len(obj.Nodes))
			for i, wn := range obj.Nodes {
				nodeIDs[i] = int64(wn.ID)
			}
			elements = append(elements, osm.OverpassElement{
				Type:  "way",
				ID:    int64(obj.ID),
				Tags:  tags,
				Nodes: nodeIDs,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "osmparser.BuildGraphFromPBF scan")
	}

	p.log.Info("scanned pbf extract", zap.String("path", path), zap.Int("elements", len(elements)))

	return p.BuildGraph(elements)
}
