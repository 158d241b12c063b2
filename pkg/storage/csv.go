package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/paveroute/paveroute/pkg/scoring"
	"github.com/paveroute/paveroute/pkg/streetview"
	"github.com/paveroute/paveroute/pkg/util"
)

// WriteImageMetaCSV writes the imagery metadata table, one row per
// stored image.
func WriteImageMetaCSV(path string, metas []streetview.ImageMeta) error {
	f, err := os.Create(path)
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "storage.WriteImageMetaCSV")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"segment_id", "index", "lat", "lng", "heading", "image_path"}); err != nil {
		return err
	}
	for _, m := range metas {
		row := []string{
			m.SegmentID,
			strconv.Itoa(m.Index),
			formatF(m.Lat), formatF(m.Lng), formatF(m.Heading),
			m.ImagePath,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ReadImageMetaCSV(path string) ([]streetview.ImageMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "storage.ReadImageMetaCSV")
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "storage.ReadImageMetaCSV header")
	}

	metas := make([]streetview.ImageMeta, 0)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "storage.ReadImageMetaCSV row")
		}
		if len(row) < 6 {
			return nil, util.WrapErrorf(fmt.Errorf("short row, %d columns", len(row)),
				util.ErrBadParamInput, "storage.ReadImageMetaCSV row")
		}
		idx, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "storage.ReadImageMetaCSV index")
		}
		metas = append(metas, streetview.ImageMeta{
			SegmentID: row[0],
			Index:     idx,
			Lat:       parseF(row[2]),
			Lng:       parseF(row[3]),
			Heading:   parseF(row[4]),
			ImagePath: row[5],
		})
	}
	return metas, nil
}

// WriteScoresCSV writes the per-segment score table.
func WriteScoresCSV(path string, scores []scoring.SegmentScore) error {
	f, err := os.Create(path)
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "storage.WriteScoresCSV")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"segment_id", "paser_score", "num_images"}); err != nil {
		return err
	}
	for _, s := range scores {
		row := []string{s.SegmentID, formatF(s.Score), strconv.Itoa(s.NumImages)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ReadScoresCSV(path string) ([]scoring.SegmentScore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "storage.ReadScoresCSV")
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "storage.ReadScoresCSV header")
	}

	scores := make([]scoring.SegmentScore, 0)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "storage.ReadScoresCSV row")
		}
		if len(row) < 3 {
			return nil, util.WrapErrorf(fmt.Errorf("short row, %d columns", len(row)),
				util.ErrBadParamInput, "storage.ReadScoresCSV row")
		}
		numImages, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "storage.ReadScoresCSV num_images")
		}
		scores = append(scores, scoring.SegmentScore{
			SegmentID: row[0],
			Score:     parseF(row[1]),
			NumImages: numImages,
		})
	}
	return scores, nil
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseF(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
