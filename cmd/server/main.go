package main

import (
	"context"
	"flag"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/http"
	"github.com/paveroute/paveroute/pkg/http/usecases"
	"github.com/paveroute/paveroute/pkg/logger"
	"github.com/paveroute/paveroute/pkg/routing"
	"github.com/paveroute/paveroute/pkg/spatialindex"
	"github.com/paveroute/paveroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", false, "enable per-ip request rate limiting")
)

// server loads the scored road graph and serves the routing API.
func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	graph, err := datastructure.ReadGraph(viper.GetString("UPDATED_GRAPH_PATH"))
	if err != nil {
		panic(err)
	}
	routing.Normalize(graph)

	vertexIndex := spatialindex.NewVertexIndex(graph)
	router := routing.NewRouter(graph)
	routingService := usecases.NewRoutingService(logger, graph, router,
		vertexIndex, viper.GetFloat64("SNAP_RADIUS_KM"))

	api := http.NewServer(logger)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := api.Use(ctx, logger, *useRateLimit, routingService); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()
	logger.Info("Paveroute API Server Stopped", zap.String("signal", signal.String()))
	cancel()
}
