package detection

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/paveroute/paveroute/pkg/streetview"
	"github.com/paveroute/paveroute/pkg/util"
)

var csvHeader = []string{
	"segment_id", "u", "v", "k", "index", "lat", "lng", "heading",
	"image_path", "class", "confidence", "xmin", "ymin", "xmax", "ymax",
}

// WriteCSV writes detections in the detections table format, one row
// per detected defect.
func WriteCSV(path string, dets []Detection) error {
	f, err := os.Create(path)
	if err != nil {
		return util.WrapErrorf(err, util.ErrInternalServerError, "detection.WriteCSV")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, d := range dets {
		u, v, k, err := streetview.ParseSegmentID(d.SegmentID)
		if err != nil {
			return err
		}
		row := []string{
			d.SegmentID,
			strconv.FormatUint(uint64(u), 10),
			strconv.FormatUint(uint64(v), 10),
			strconv.FormatUint(uint64(k), 10),
			strconv.Itoa(d.Index),
			formatF(d.Lat), formatF(d.Lng), formatF(d.Heading),
			d.ImagePath,
			d.Class,
			formatF(d.Confidence),
			formatF(d.XMin), formatF(d.YMin), formatF(d.XMax), formatF(d.YMax),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadCSV loads a detections table written by WriteCSV or by an
// offline inference run.
func ReadCSV(path string) ([]Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "detection.ReadCSV")
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "detection.ReadCSV header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"segment_id", "index", "image_path", "class", "confidence"} {
		if _, ok := col[required]; !ok {
			return nil, util.WrapErrorf(fmt.Errorf("missing column %q", required),
				util.ErrBadParamInput, "detection.ReadCSV header")
		}
	}

	dets := make([]Detection, 0)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "detection.ReadCSV row")
		}

		get := func(name string) string {
			if i, ok := col[name]; ok && i < len(row) {
				return row[i]
			}
			return ""
		}
		idx, err := strconv.Atoi(get("index"))
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "detection.ReadCSV index")
		}
		d := Detection{
			SegmentID:  get("segment_id"),
			Index:      idx,
			Lat:        parseF(get("lat")),
			Lng:        parseF(get("lng")),
			Heading:    parseF(get("heading")),
			ImagePath:  get("image_path"),
			Class:      get("class"),
			Confidence: parseF(get("confidence")),
			XMin:       parseF(get("xmin")),
			YMin:       parseF(get("ymin")),
			XMax:       parseF(get("xmax")),
			YMax:       parseF(get("ymax")),
		}
		dets = append(dets, d)
	}
	return dets, nil
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseF(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
