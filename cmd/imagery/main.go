package main

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/logger"
	"github.com/paveroute/paveroute/pkg/storage"
	"github.com/paveroute/paveroute/pkg/streetview"
	"github.com/paveroute/paveroute/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// imagery samples camera points along every segment of the base graph
// and downloads street view images for them.
func main() {
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	graph, err := datastructure.ReadGraph(viper.GetString("GRAPH_PATH"))
	if err != nil {
		panic(err)
	}

	headings := make([]float64, 0)
	for _, h := range viper.GetIntSlice("STREETVIEW_HEADINGS") {
		headings = append(headings, float64(h))
	}
	points := streetview.SamplePoints(graph, viper.GetFloat64("SAMPLE_SPACING_METERS"), headings)
	log.Info("sampled camera points", zap.Int("points", len(points)))

	sink, err := newSink(ctx)
	if err != nil {
		panic(err)
	}

	client := streetview.NewClient(viper.GetString("STREETVIEW_URL"), viper.GetString("STREETVIEW_API_KEY"))
	downloader := streetview.NewDownloader(client, sink, log)

	metas, err := downloader.DownloadAll(ctx, points)
	if err != nil {
		panic(err)
	}

	metadataCSV := viper.GetString("METADATA_CSV")
	if err := storage.WriteImageMetaCSV(metadataCSV, metas); err != nil {
		panic(err)
	}
	log.Info("wrote image metadata", zap.String("path", metadataCSV), zap.Int("images", len(metas)))

	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		store, err := storage.NewPostgresStore(ctx, dsn, log)
		if err != nil {
			panic(err)
		}
		defer store.Close()
		if err := store.InitSchema(ctx); err != nil {
			panic(err)
		}
		if err := store.SaveImageMetas(ctx, metas); err != nil {
			panic(err)
		}
	}
}

func newSink(ctx context.Context) (streetview.Sink, error) {
	endpoint := viper.GetString("MINIO_ENDPOINT")
	if endpoint == "" {
		return streetview.NewDirSink(viper.GetString("IMAGE_DIR"))
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(
			viper.GetString("MINIO_ACCESS_KEY"),
			viper.GetString("MINIO_SECRET_KEY"), ""),
	})
	if err != nil {
		return nil, err
	}
	return streetview.NewObjectSink(ctx, mc, viper.GetString("MINIO_BUCKET"))
}
