package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

// ScorePublisher streams segment score updates to a kafka topic so
// downstream consumers (dashboards, alerting on degraded roads) see
// new surveys without polling the database.
type ScorePublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewScorePublisher(brokers []string, topic string, log *zap.Logger) *ScorePublisher {
	return &ScorePublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 100 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
		log: log,
	}
}

func (p *ScorePublisher) Close() error {
	return p.writer.Close()
}

// PublishScores emits one message per segment, keyed by segment id so
// updates for the same segment stay ordered within a partition.
func (p *ScorePublisher) PublishScores(ctx context.Context, scores []scoring.SegmentScore) error {
	msgs := make([]kafka.Message, len(scores))
	for i, s := range scores {
		payload, err := json.Marshal(s)
		if err != nil {
			return util.WrapErrorf(err, util.ErrInternalServerError, "storage.PublishScores marshal")
		}
		msgs[i] = kafka.Message{
			Key:   []byte(s.SegmentID),
			Value: payload,
		}
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "storage.PublishScores write")
	}
	p.log.Info("published segment scores", zap.Int("messages", len(msgs)))
	return nil
}
