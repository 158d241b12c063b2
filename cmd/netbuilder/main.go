package main

import (
	"context"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/elevation"
	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/logger"
	"github.com/paveroute/paveroute/pkg/osm"
	"github.com/paveroute/paveroute/pkg/osmparser"
	"github.com/paveroute/paveroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// netbuilder downloads the road network around the configured center,
// annotates it with terrain elevation, and writes the base graph file.
func main() {
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	graph, err := buildGraph(ctx, log)
	if err != nil {
		panic(err)
	}

	provider, err := elevationProvider(log)
	if err != nil {
		panic(err)
	}
	if err := elevation.AnnotateGraph(ctx, graph, provider, log); err != nil {
		panic(err)
	}
	mirrored := graph.EnsureBidirectional()
	log.Info("mirrored one-way segments", zap.Int("edges", mirrored))

	graphPath := viper.GetString("GRAPH_PATH")
	if err := graph.WriteGraph(graphPath); err != nil {
		panic(err)
	}
	log.Info("wrote base road graph", zap.String("path", graphPath))
}

func buildGraph(ctx context.Context, log *zap.Logger) (*datastructure.Graph, error) {
	parser := osmparser.NewParser(log)

	minLat, minLon, maxLat, maxLon := geo.BoundingBox(
		viper.GetFloat64("CENTER_LAT"),
		viper.GetFloat64("CENTER_LON"),
		viper.GetFloat64("RADIUS_METERS"))
	bbox := osm.NewBoundingBox(minLat, minLon, maxLat, maxLon)

	if pbfPath := viper.GetString("PBF_PATH"); pbfPath != "" {
		return parser.BuildGraphFromPBF(ctx, pbfPath, &bbox)
	}

	client := osm.NewClient(viper.GetString("OVERPASS_URL"), log)
	elements, err := client.QueryRoadNetwork(ctx, bbox)
	if err != nil {
		return nil, err
	}
	return parser.BuildGraph(elements)
}

func elevationProvider(log *zap.Logger) (elevation.Provider, error) {
	if url := viper.GetString("ELEVATION_URL"); url != "" {
		return elevation.NewHTTPProvider(url, log)
	}
	return elevation.NewSRTMProvider(viper.GetString("SRTM_DIR"), log), nil
}
