// Package scoring converts per-image damage detections into proxy
// PASER pavement condition scores.
package scoring

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paveroute/paveroute/pkg"
	"github.com/paveroute/paveroute/pkg/detection"
	"github.com/paveroute/paveroute/pkg/util"
)

// pixel dimensions of the source imagery, bbox areas are normalized
// against this
const (
	imageWidth  = 640.0
	imageHeight = 640.0
)

// feature names the regressor understands
const (
	FeatureTotalDetections = "total_detections"
	FeatureMeanConfidence  = "mean_confidence"
	FeatureMeanBBoxArea    = "mean_bbox_area"
)

// Regressor is a linear model over detection features, trained offline
// against manually rated reference images and exported as a JSON
// coefficient file. An image with no detections scores the neutral
// default, the model only applies where damage was actually seen.
type Regressor struct {
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
}

func LoadRegressor(path string) (*Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "scoring.LoadRegressor")
	}
	var r Regressor
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "scoring.LoadRegressor decode")
	}
	if len(r.Weights) == 0 {
		return nil, util.WrapErrorf(fmt.Errorf("no weights in %s", path),
			util.ErrBadParamInput, "scoring.LoadRegressor")
	}
	return &r, nil
}

// Features builds the feature vector for one image's detections:
// per-class counts, the total count, mean confidence, and the mean
// bbox area as a fraction of the image.
func Features(dets []detection.Detection) map[string]float64 {
	features := make(map[string]float64, len(detection.DamageClasses)+3)
	for _, class := range detection.DamageClasses {
		features["count_"+class] = 0
	}
	if len(dets) == 0 {
		return features
	}

	var confSum, areaSum float64
	for _, d := range dets {
		features["count_"+d.Class]++
		confSum += d.Confidence
		areaSum += (d.XMax - d.XMin) * (d.YMax - d.YMin) / (imageWidth * imageHeight)
	}
	n := float64(len(dets))
	features[FeatureTotalDetections] = n
	features[FeatureMeanConfidence] = confSum / n
	features[FeatureMeanBBoxArea] = areaSum / n
	return features
}

// ScoreImage predicts the PASER score for one image, clamped to the
// valid 1..10 range. An image with no detections gets the neutral
// default score.
func (r *Regressor) ScoreImage(dets []detection.Detection) float64 {
	if len(dets) == 0 {
		return pkg.DEFAULT_PASER_SCORE
	}
	score := r.Intercept
	for name, value := range Features(dets) {
		score += r.Weights[name] * value
	}
	return util.Clamp(score, pkg.MIN_PASER_SCORE, pkg.MAX_PASER_SCORE)
}
