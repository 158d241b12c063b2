package streetview

import (
	"context"
	"fmt"
	"sort"

	"github.com/paveroute/paveroute/pkg/concurrent"
	"github.com/paveroute/paveroute/pkg/monitoring"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

const downloadWorkers = 8

// ImageMeta describes one stored image, one row of the imagery
// metadata table.
type ImageMeta struct {
	SegmentID string
	Index     int
	Lat       float64
	Lng       float64
	Heading   float64
	ImagePath string
}

type downloadResult struct {
	meta    ImageMeta
	skipped bool
	err     error
}

// Downloader fans camera points out to a worker pool, fetches each
// image once, and stores it through the sink.
type Downloader struct {
	client *Client
	sink   Sink
	log    *zap.Logger
}

func NewDownloader(client *Client, sink Sink, log *zap.Logger) *Downloader {
	return &Downloader{client: client, sink: sink, log: log}
}

func imageName(p ImagePoint) string {
	return fmt.Sprintf("%s_%d_h%g.jpg", p.SegmentID, p.Index, p.Heading)
}

// DownloadAll fetches every camera point and returns metadata for the
// stored images. Points whose image already exists in the sink are
// skipped, a failed point is logged and does not abort the rest.
func (d *Downloader) DownloadAll(ctx context.Context, points []ImagePoint) ([]ImageMeta, error) {
	if len(points) == 0 {
		return nil, nil
	}

	pool := concurrent.NewWorkerPool[ImagePoint, downloadResult](downloadWorkers, len(points))
	pool.Start(func(p ImagePoint) downloadResult {
		name := imageName(p)
		meta := ImageMeta{
			SegmentID: p.SegmentID,
			Index:     p.Index,
			Lat:       p.Lat,
			Lng:       p.Lng,
			Heading:   p.Heading,
		}

		if d.sink.Exists(ctx, name) {
			meta.ImagePath = d.sink.Path(name)
			return downloadResult{meta: meta, skipped: true}
		}

		data, err := d.client.Fetch(ctx, p)
		if err != nil {
			return downloadResult{meta: meta, err: err}
		}
		path, err := d.sink.Put(ctx, name, data)
		if err != nil {
			return downloadResult{meta: meta, err: err}
		}
		monitoring.ImagesDownloaded.Inc()
		meta.ImagePath = path
		return downloadResult{meta: meta}
	})

	for _, p := range points {
		if util.StopConcurrentOperation(ctx) {
			break
		}
		pool.AddJob(p)
	}
	pool.Close()
	pool.Wait()

	metas := make([]ImageMeta, 0, len(points))
	var skipped, failed int
	for res := range pool.CollectResults() {
		if res.err != nil {
			failed++
			d.log.Warn("street view download failed",
				zap.String("segment", res.meta.SegmentID),
				zap.Int("index", res.meta.Index),
				zap.Error(res.err))
			continue
		}
		if res.skipped {
			skipped++
		}
		metas = append(metas, res.meta)
	}

	// pool results arrive in completion order, metadata rows should not
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].SegmentID != metas[j].SegmentID {
			return metas[i].SegmentID < metas[j].SegmentID
		}
		return metas[i].Index < metas[j].Index
	})

	d.log.Info("street view download done",
		zap.Int("points", len(points)),
		zap.Int("stored", len(metas)),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed))

	// an interrupted run resumes from the sink next time
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failed == len(points) {
		return nil, fmt.Errorf("all %d street view downloads failed", failed)
	}
	return metas, nil
}
