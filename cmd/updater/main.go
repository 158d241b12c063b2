package main

import (
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/logger"
	"github.com/paveroute/paveroute/pkg/storage"
	"github.com/paveroute/paveroute/pkg/updater"
	"github.com/paveroute/paveroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// updater writes the surveyed scores back onto the base graph and
// saves the scored graph the routing server loads.
func main() {
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	graph, err := datastructure.ReadGraph(viper.GetString("GRAPH_PATH"))
	if err != nil {
		panic(err)
	}

	scores, err := storage.ReadScoresCSV(viper.GetString("SCORES_CSV"))
	if err != nil {
		panic(err)
	}

	if err := updater.ApplyScores(graph, scores, log); err != nil {
		panic(err)
	}

	updatedPath := viper.GetString("UPDATED_GRAPH_PATH")
	if err := graph.WriteGraph(updatedPath); err != nil {
		panic(err)
	}
	log.Info("wrote scored road graph", zap.String("path", updatedPath))
}
