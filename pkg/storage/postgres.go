// Package storage persists pipeline artifacts: imagery metadata,
// detections, and segment scores.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paveroute/paveroute/pkg/detection"
	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/streetview"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS images (
	segment_id  TEXT             NOT NULL,
	idx         INT              NOT NULL,
	lat         DOUBLE PRECISION NOT NULL,
	lng         DOUBLE PRECISION NOT NULL,
	heading     DOUBLE PRECISION NOT NULL,
	image_path  TEXT             NOT NULL,
	PRIMARY KEY (segment_id, idx)
);

CREATE TABLE IF NOT EXISTS detections (
	id          BIGSERIAL PRIMARY KEY,
	segment_id  TEXT             NOT NULL,
	idx         INT              NOT NULL,
	image_path  TEXT             NOT NULL,
	class       TEXT             NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	xmin        DOUBLE PRECISION NOT NULL,
	ymin        DOUBLE PRECISION NOT NULL,
	xmax        DOUBLE PRECISION NOT NULL,
	ymax        DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS segment_scores (
	segment_id  TEXT PRIMARY KEY,
	paser_score DOUBLE PRECISION NOT NULL,
	num_images  INT              NOT NULL,
	updated_at  TIMESTAMPTZ      NOT NULL DEFAULT now()
);
`

// PostgresStore keeps pipeline outputs queryable across runs.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, log *zap.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "storage.NewPostgresStore")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "storage.NewPostgresStore ping")
	}
	return &PostgresStore{pool: pool, log: log}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "storage.InitSchema")
	}
	return nil
}

func (s *PostgresStore) SaveImageMetas(ctx context.Context, metas []streetview.ImageMeta) error {
	for _, m := range metas {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO images (segment_id, idx, lat, lng, heading, image_path)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (segment_id, idx) DO UPDATE
			SET lat = EXCLUDED.lat, lng = EXCLUDED.lng,
			    heading = EXCLUDED.heading, image_path = EXCLUDED.image_path`,
			m.SegmentID, m.Index, m.Lat, m.Lng, m.Heading, m.ImagePath)
		if err != nil {
			return util.WrapErrorf(err, util.ErrInternalServerError, "storage.SaveImageMetas")
		}
	}
	s.log.Info("saved image metadata rows", zap.Int("rows", len(metas)))
	return nil
}

func (s *PostgresStore) SaveDetections(ctx context.Context, dets []detection.Detection) error {
	for _, d := range dets {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO detections
				(segment_id, idx, image_path, class, confidence, xmin, ymin, xmax, ymax)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			d.SegmentID, d.Index, d.ImagePath, d.Class, d.Confidence,
			d.XMin, d.YMin, d.XMax, d.YMax)
		if err != nil {
			return util.WrapErrorf(err, util.ErrInternalServerError, "storage.SaveDetections")
		}
	}
	s.log.Info("saved detection rows", zap.Int("rows", len(dets)))
	return nil
}

func (s *PostgresStore) UpsertSegmentScores(ctx context.Context, scores []scoring.SegmentScore) error {
	for _, sc := range scores {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO segment_scores (segment_id, paser_score, num_images, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (segment_id) DO UPDATE
			SET paser_score = EXCLUDED.paser_score,
			    num_images = EXCLUDED.num_images,
			    updated_at = now()`,
			sc.SegmentID, sc.Score, sc.NumImages)
		if err != nil {
			return util.WrapErrorf(err, util.ErrInternalServerError, "storage.UpsertSegmentScores")
		}
	}
	s.log.Info("upserted segment scores", zap.Int("rows", len(scores)))
	return nil
}

func (s *PostgresStore) GetSegmentScore(ctx context.Context, segmentID string) (scoring.SegmentScore, error) {
	var sc scoring.SegmentScore
	err := s.pool.QueryRow(ctx, `
		SELECT segment_id, paser_score, num_images
		FROM segment_scores WHERE segment_id = $1`, segmentID).
		Scan(&sc.SegmentID, &sc.Score, &sc.NumImages)
	if err != nil {
		return scoring.SegmentScore{}, util.WrapErrorf(
			fmt.Errorf("segment %s: %w", segmentID, err),
			util.ErrNotFound, "storage.GetSegmentScore")
	}
	return sc, nil
}
