package main

import (
	"context"
	"os"

	"github.com/paveroute/paveroute/pkg/detection"
	"github.com/paveroute/paveroute/pkg/logger"
	"github.com/paveroute/paveroute/pkg/monitoring"
	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/storage"
	"github.com/paveroute/paveroute/pkg/streetview"
	"github.com/paveroute/paveroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// scorer runs damage detection over the downloaded imagery and turns
// the detections into per-segment proxy PASER scores. When a
// detections table already exists it is ingested as-is, so offline
// inference runs can feed the scorer directly.
func main() {
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	metas, err := storage.ReadImageMetaCSV(viper.GetString("METADATA_CSV"))
	if err != nil {
		panic(err)
	}

	detectionsCSV := viper.GetString("DETECTIONS_CSV")
	dets, err := loadOrDetect(ctx, detectionsCSV, metas, log)
	if err != nil {
		panic(err)
	}

	regressor, err := scoring.LoadRegressor(viper.GetString("REGRESSOR_PATH"))
	if err != nil {
		panic(err)
	}
	scores := scoring.ScoreSegments(regressor, metas, dets, log)

	scoresCSV := viper.GetString("SCORES_CSV")
	if err := storage.WriteScoresCSV(scoresCSV, scores); err != nil {
		panic(err)
	}
	log.Info("wrote segment scores", zap.String("path", scoresCSV), zap.Int("segments", len(scores)))

	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		store, err := storage.NewPostgresStore(ctx, dsn, log)
		if err != nil {
			panic(err)
		}
		defer store.Close()
		if err := store.InitSchema(ctx); err != nil {
			panic(err)
		}
		if err := store.SaveDetections(ctx, dets); err != nil {
			panic(err)
		}
		if err := store.UpsertSegmentScores(ctx, scores); err != nil {
			panic(err)
		}
	}

	if brokers := viper.GetStringSlice("KAFKA_BROKERS"); len(brokers) > 0 {
		publisher := storage.NewScorePublisher(brokers, viper.GetString("KAFKA_TOPIC"), log)
		defer publisher.Close()
		if err := publisher.PublishScores(ctx, scores); err != nil {
			panic(err)
		}
	}
}

func loadOrDetect(ctx context.Context, detectionsCSV string,
	metas []streetview.ImageMeta, log *zap.Logger) ([]detection.Detection, error) {
	if _, err := os.Stat(detectionsCSV); err == nil {
		log.Info("ingesting existing detections table", zap.String("path", detectionsCSV))
		return detection.ReadCSV(detectionsCSV)
	}

	client := detection.NewClient(viper.GetString("DETECTOR_URL"), log)
	dets := make([]detection.Detection, 0)
	for _, meta := range metas {
		image, err := os.ReadFile(meta.ImagePath)
		if err != nil {
			log.Warn("image not readable, skipping", zap.String("path", meta.ImagePath), zap.Error(err))
			continue
		}
		imageDets, err := client.Detect(ctx, meta, image)
		if err != nil {
			return nil, err
		}
		monitoring.ImagesScored.Inc()
		dets = append(dets, imageDets...)
	}

	if err := detection.WriteCSV(detectionsCSV, dets); err != nil {
		return nil, err
	}
	log.Info("wrote detections table", zap.String("path", detectionsCSV), zap.Int("detections", len(dets)))
	return dets, nil
}
