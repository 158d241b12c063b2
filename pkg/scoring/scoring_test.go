package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paveroute/paveroute/pkg"
	"github.com/paveroute/paveroute/pkg/detection"
	"github.com/paveroute/paveroute/pkg/streetview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRegressor() *Regressor {
	return &Regressor{
		Intercept: 9.0,
		Weights: map[string]float64{
			"count_" + detection.ClassPothole:        -2.0,
			"count_" + detection.ClassAlligatorCrack: -1.5,
			"count_" + detection.ClassLongitudinalCrack: -0.5,
			"count_" + detection.ClassTransverseCrack:   -0.5,
			FeatureTotalDetections: -0.25,
			FeatureMeanConfidence:  -1.0,
			FeatureMeanBBoxArea:    -4.0,
		},
	}
}

func TestLoadRegressor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regressor.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"intercept": 9.0, "weights": {"count_pothole": -2.0}}`), 0o644))

	r, err := LoadRegressor(path)
	require.NoError(t, err)
	assert.Equal(t, 9.0, r.Intercept)
	assert.Equal(t, -2.0, r.Weights["count_pothole"])

	_, err = LoadRegressor(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadRegressorRejectsEmptyWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"intercept": 9.0}`), 0o644))

	_, err := LoadRegressor(path)
	assert.Error(t, err)
}

func TestScoreImageNoDetectionsIsNeutralDefault(t *testing.T) {
	r := testRegressor()
	assert.Equal(t, pkg.DEFAULT_PASER_SCORE, r.ScoreImage(nil))
	assert.Equal(t, pkg.DEFAULT_PASER_SCORE, r.ScoreImage([]detection.Detection{}))
}

func TestScoreImageDamageLowersScore(t *testing.T) {
	r := testRegressor()

	pothole := detection.Detection{
		Class: detection.ClassPothole, Confidence: 0.9,
		XMin: 0, YMin: 0, XMax: 320, YMax: 320,
	}

	one := r.ScoreImage([]detection.Detection{pothole})
	assert.Less(t, one, 9.0)

	// 9 - 2 - 0.25 - 0.9 - 4*0.25 = 4.85
	assert.InDelta(t, 4.85, one, 1e-9)

	// heavy damage clamps at the scale floor
	many := make([]detection.Detection, 8)
	for i := range many {
		many[i] = pothole
	}
	assert.Equal(t, 1.0, r.ScoreImage(many))
}

func TestFeatures(t *testing.T) {
	dets := []detection.Detection{
		{Class: detection.ClassPothole, Confidence: 0.8, XMin: 0, YMin: 0, XMax: 64, YMax: 64},
		{Class: detection.ClassPothole, Confidence: 0.6, XMin: 0, YMin: 0, XMax: 64, YMax: 64},
		{Class: detection.ClassAlligatorCrack, Confidence: 0.4, XMin: 0, YMin: 0, XMax: 640, YMax: 640},
	}

	f := Features(dets)
	assert.Equal(t, 2.0, f["count_"+detection.ClassPothole])
	assert.Equal(t, 1.0, f["count_"+detection.ClassAlligatorCrack])
	assert.Equal(t, 0.0, f["count_"+detection.ClassTransverseCrack])
	assert.Equal(t, 3.0, f[FeatureTotalDetections])
	assert.InDelta(t, 0.6, f[FeatureMeanConfidence], 1e-9)
	// (0.01 + 0.01 + 1.0) / 3
	assert.InDelta(t, 0.34, f[FeatureMeanBBoxArea], 1e-9)
}

func TestScoreSegmentsAverageAndCleanImages(t *testing.T) {
	r := testRegressor()

	metas := []streetview.ImageMeta{
		{SegmentID: "0_1_0", Index: 0, ImagePath: "a.jpg"},
		{SegmentID: "0_1_0", Index: 1, ImagePath: "b.jpg"},
		{SegmentID: "2_3_0", Index: 0, ImagePath: "c.jpg"},
	}
	// a.jpg has one pothole, b.jpg and c.jpg are clean
	dets := []detection.Detection{
		{SegmentID: "0_1_0", ImagePath: "a.jpg", Class: detection.ClassPothole,
			Confidence: 0.9, XMin: 0, YMin: 0, XMax: 320, YMax: 320},
	}

	scores := ScoreSegments(r, metas, dets, zap.NewNop())
	require.Len(t, scores, 2)

	assert.Equal(t, "0_1_0", scores[0].SegmentID)
	assert.Equal(t, 2, scores[0].NumImages)
	// (4.85 + 5.0) / 2, rounded to 2 decimals
	assert.InDelta(t, 4.93, scores[0].Score, 1e-9)

	assert.Equal(t, "2_3_0", scores[1].SegmentID)
	assert.Equal(t, pkg.DEFAULT_PASER_SCORE, scores[1].Score)
	assert.Equal(t, 1, scores[1].NumImages)
}
