package main

import (
	"context"
	"os"

	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/detection"
	"github.com/paveroute/paveroute/pkg/elevation"
	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/logger"
	"github.com/paveroute/paveroute/pkg/osm"
	"github.com/paveroute/paveroute/pkg/osmparser"
	"github.com/paveroute/paveroute/pkg/pipeline"
	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/storage"
	"github.com/paveroute/paveroute/pkg/streetview"
	"github.com/paveroute/paveroute/pkg/updater"
	"github.com/paveroute/paveroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Runs the whole survey pipeline in one process: fetch the road
// network, download imagery, score the pavement, and write the scored
// graph. The cmd/ binaries run the same stages individually.
func main() {
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	log, err := logger.New()
	if err != nil {
		panic(err)
	}

	runner := pipeline.NewRunner(log,
		pipeline.NewStage("build road network", func(ctx context.Context) error {
			return buildNetwork(ctx, log)
		}),
		pipeline.NewStage("download imagery", func(ctx context.Context) error {
			return downloadImagery(ctx, log)
		}),
		pipeline.NewStage("score pavement", func(ctx context.Context) error {
			return scorePavement(ctx, log)
		}),
		pipeline.NewStage("update graph", func(ctx context.Context) error {
			return updateGraph(log)
		}),
	)

	if err := runner.Run(context.Background()); err != nil {
		log.Fatal("survey pipeline failed", zap.Error(err))
	}
	log.Info("survey pipeline done",
		zap.String("graph", viper.GetString("UPDATED_GRAPH_PATH")))
}

func buildNetwork(ctx context.Context, log *zap.Logger) error {
	parser := osmparser.NewParser(log)

	minLat, minLon, maxLat, maxLon := geo.BoundingBox(
		viper.GetFloat64("CENTER_LAT"),
		viper.GetFloat64("CENTER_LON"),
		viper.GetFloat64("RADIUS_METERS"))
	bbox := osm.NewBoundingBox(minLat, minLon, maxLat, maxLon)

	var (
		graph *datastructure.Graph
		err   error
	)
	if pbfPath := viper.GetString("PBF_PATH"); pbfPath != "" {
		graph, err = parser.BuildGraphFromPBF(ctx, pbfPath, &bbox)
	} else {
		client := osm.NewClient(viper.GetString("OVERPASS_URL"), log)
		var elements []osm.OverpassElement
		elements, err = client.QueryRoadNetwork(ctx, bbox)
		if err == nil {
			graph, err = parser.BuildGraph(elements)
		}
	}
	if err != nil {
		return err
	}

	var provider elevation.Provider
	if url := viper.GetString("ELEVATION_URL"); url != "" {
		provider, err = elevation.NewHTTPProvider(url, log)
		if err != nil {
			return err
		}
	} else {
		provider = elevation.NewSRTMProvider(viper.GetString("SRTM_DIR"), log)
	}
	if err := elevation.AnnotateGraph(ctx, graph, provider, log); err != nil {
		return err
	}
	mirrored := graph.EnsureBidirectional()
	log.Info("mirrored one-way segments", zap.Int("edges", mirrored))

	return graph.WriteGraph(viper.GetString("GRAPH_PATH"))
}

func downloadImagery(ctx context.Context, log *zap.Logger) error {
	graph, err := datastructure.ReadGraph(viper.GetString("GRAPH_PATH"))
	if err != nil {
		return err
	}

	headings := make([]float64, 0)
	for _, h := range viper.GetIntSlice("STREETVIEW_HEADINGS") {
		headings = append(headings, float64(h))
	}
	points := streetview.SamplePoints(graph, viper.GetFloat64("SAMPLE_SPACING_METERS"), headings)

	sink, err := streetview.NewDirSink(viper.GetString("IMAGE_DIR"))
	if err != nil {
		return err
	}
	client := streetview.NewClient(viper.GetString("STREETVIEW_URL"), viper.GetString("STREETVIEW_API_KEY"))

	metas, err := streetview.NewDownloader(client, sink, log).DownloadAll(ctx, points)
	if err != nil {
		return err
	}
	return storage.WriteImageMetaCSV(viper.GetString("METADATA_CSV"), metas)
}

func scorePavement(ctx context.Context, log *zap.Logger) error {
	metas, err := storage.ReadImageMetaCSV(viper.GetString("METADATA_CSV"))
	if err != nil {
		return err
	}

	detectionsCSV := viper.GetString("DETECTIONS_CSV")
	var dets []detection.Detection
	if _, statErr := os.Stat(detectionsCSV); statErr == nil {
		dets, err = detection.ReadCSV(detectionsCSV)
		if err != nil {
			return err
		}
	} else {
		client := detection.NewClient(viper.GetString("DETECTOR_URL"), log)
		for _, meta := range metas {
			image, readErr := os.ReadFile(meta.ImagePath)
			if readErr != nil {
				log.Warn("image not readable, skipping",
					zap.String("path", meta.ImagePath), zap.Error(readErr))
				continue
			}
			imageDets, detErr := client.Detect(ctx, meta, image)
			if detErr != nil {
				return detErr
			}
			dets = append(dets, imageDets...)
		}
		if err := detection.WriteCSV(detectionsCSV, dets); err != nil {
			return err
		}
	}

	regressor, err := scoring.LoadRegressor(viper.GetString("REGRESSOR_PATH"))
	if err != nil {
		return err
	}
	scores := scoring.ScoreSegments(regressor, metas, dets, log)
	return storage.WriteScoresCSV(viper.GetString("SCORES_CSV"), scores)
}

func updateGraph(log *zap.Logger) error {
	graph, err := datastructure.ReadGraph(viper.GetString("GRAPH_PATH"))
	if err != nil {
		return err
	}
	scores, err := storage.ReadScoresCSV(viper.GetString("SCORES_CSV"))
	if err != nil {
		return err
	}
	if err := updater.ApplyScores(graph, scores, log); err != nil {
		return err
	}
	return graph.WriteGraph(viper.GetString("UPDATED_GRAPH_PATH"))
}
