package scoring

import (
	"sort"

	"github.com/paveroute/paveroute/pkg/detection"
	"github.com/paveroute/paveroute/pkg/streetview"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

// SegmentScore is the aggregated pavement condition of one road
// segment, the mean of its per-image scores.
type SegmentScore struct {
	SegmentID string
	Score     float64
	NumImages int
}

// ScoreSegments groups detections by image, scores each image, and
// averages image scores per segment. Images with no detections still
// count: metas lists every downloaded image, so clean pavement pulls
// the segment average up.
func ScoreSegments(r *Regressor, metas []streetview.ImageMeta, dets []detection.Detection, log *zap.Logger) []SegmentScore {
	byImage := make(map[string][]detection.Detection)
	for _, d := range dets {
		byImage[d.ImagePath] = append(byImage[d.ImagePath], d)
	}

	segScores := make(map[string][]float64)
	for _, m := range metas {
		score := r.ScoreImage(byImage[m.ImagePath])
		segScores[m.SegmentID] = append(segScores[m.SegmentID], score)
	}

	out := make([]SegmentScore, 0, len(segScores))
	for segID, scores := range segScores {
		out = append(out, SegmentScore{
			SegmentID: segID,
			Score:     util.RoundFloat(util.Mean(scores), 2),
			NumImages: len(scores),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SegmentID < out[j].SegmentID })

	log.Info("scored segments",
		zap.Int("segments", len(out)),
		zap.Int("images", len(metas)),
		zap.Int("detections", len(dets)))
	return out
}
