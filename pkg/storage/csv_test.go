package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/streetview"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageMetaCSVRoundTrip(t *testing.T) {
	metas := []streetview.ImageMeta{
		{SegmentID: "0_1_0", Index: 0, Lat: 10.3, Lng: 123.87, Heading: 0, ImagePath: "0_1_0_0_h0.jpg"},
		{SegmentID: "0_1_0", Index: 1, Lat: 10.3001, Lng: 123.87, Heading: 90, ImagePath: "0_1_0_1_h90.jpg"},
	}

	path := filepath.Join(t.TempDir(), "images.csv")
	require.NoError(t, WriteImageMetaCSV(path, metas))

	got, err := ReadImageMetaCSV(path)
	require.NoError(t, err)
	assert.Equal(t, metas, got)
}

func TestScoresCSVRoundTrip(t *testing.T) {
	scores := []scoring.SegmentScore{
		{SegmentID: "0_1_0", Score: 6.93, NumImages: 2},
		{SegmentID: "2_3_1", Score: 9, NumImages: 1},
	}

	path := filepath.Join(t.TempDir(), "scores.csv")
	require.NoError(t, WriteScoresCSV(path, scores))

	got, err := ReadScoresCSV(path)
	require.NoError(t, err)
	assert.Equal(t, scores, got)
}

func TestReadScoresCSVMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("segment_id,paser_score,num_images\n0_1_0,7.5,notanumber\n"), 0o644))

	_, err := ReadScoresCSV(path)
	assert.Error(t, err)
}

func TestReadScoresCSVMissingFile(t *testing.T) {
	_, err := ReadScoresCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
