package elevation

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

const srtmVoid = -32768

// one-degree srtm tile, row 0 is the northern edge
type hgtTile struct {
	samples []int16
	size    int // samples per row, 3601 for srtm1 and 1201 for srtm3
}

// SRTMProvider reads NASA SRTM .hgt tiles from a local directory.
// Tiles are loaded lazily and kept in memory, elevations between grid
// samples are bilinearly interpolated.
type SRTMProvider struct {
	dir   string
	log   *zap.Logger
	mu    sync.Mutex
	tiles map[string]*hgtTile
}

func NewSRTMProvider(dir string, log *zap.Logger) *SRTMProvider {
	return &SRTMProvider{
		dir:   dir,
		log:   log,
		tiles: make(map[string]*hgtTile),
	}
}

func (p *SRTMProvider) Elevation(_ context.Context, lat, lon float64) (float64, error) {
	tile, err := p.tileFor(lat, lon)
	if err != nil {
		return 0, err
	}
	return tile.interpolate(lat, lon)
}

func (p *SRTMProvider) Elevations(ctx context.Context, points []geo.Coordinate) ([]float64, error) {
	out := make([]float64, len(points))
	for i, pt := range points {
		elev, err := p.Elevation(ctx, pt.Lat, pt.Lon)
		if err != nil {
			return nil, err
		}
		out[i] = elev
	}
	return out, nil
}

func tileName(lat, lon float64) string {
	latCell := int(math.Floor(lat))
	lonCell := int(math.Floor(lon))

	ns, latAbs := "N", util.Abs(latCell)
	if latCell < 0 {
		ns = "S"
	}
	ew, lonAbs := "E", util.Abs(lonCell)
	if lonCell < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%s%02d%s%03d.hgt", ns, latAbs, ew, lonAbs)
}

func (p *SRTMProvider) tileFor(lat, lon float64) (*hgtTile, error) {
	name := tileName(lat, lon)

	p.mu.Lock()
	defer p.mu.Unlock()
	if tile, ok := p.tiles[name]; ok {
		return tile, nil
	}

	data, err := os.ReadFile(filepath.Join(p.dir, name))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "elevation.tileFor %s", name)
	}

	numSamples := len(data) / 2
	size := int(math.Sqrt(float64(numSamples)))
	if size*size != numSamples || size < 2 {
		return nil, util.WrapErrorf(fmt.Errorf("%d bytes is not a square int16 grid", len(data)),
			util.ErrInternalServerError, "elevation.tileFor %s", name)
	}

	samples := make([]int16, numSamples)
	for i := range samples {
		samples[i] = int16(binary.BigEndian.Uint16(data[2*i:]))
	}

	tile := &hgtTile{samples: samples, size: size}
	p.tiles[name] = tile
	p.log.Info("loaded srtm tile", zap.String("tile", name), zap.Int("size", size))
	return tile, nil
}

func (t *hgtTile) sample(row, col int) float64 {
	return float64(t.samples[row*t.size+col])
}

// interpolate bilinearly between the four surrounding grid samples.
// Void samples fall back to the nearest valid neighbor of the cell.
func (t *hgtTile) interpolate(lat, lon float64) (float64, error) {
	cellLat := math.Floor(lat)
	cellLon := math.Floor(lon)

	// fractional position inside the tile, y measured from the north edge
	x := (lon - cellLon) * float64(t.size-1)
	y := (1.0 - (lat - cellLat)) * float64(t.size-1)

	col := util.MinInt(int(x), t.size-2)
	row := util.MinInt(int(y), t.size-2)
	fx := x - float64(col)
	fy := y - float64(row)

	v00 := t.sample(row, col)
	v01 := t.sample(row, col+1)
	v10 := t.sample(row+1, col)
	v11 := t.sample(row+1, col+1)

	valid := make([]float64, 0, 4)
	for _, v := range []float64{v00, v01, v10, v11} {
		if v != srtmVoid {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return 0, util.WrapErrorf(fmt.Errorf("all samples void at %.5f,%.5f", lat, lon),
			util.ErrNotFound, "elevation.interpolate")
	}
	if len(valid) < 4 {
		fill := util.Mean(valid)
		if v00 == srtmVoid {
			v00 = fill
		}
		if v01 == srtmVoid {
			v01 = fill
		}
		if v10 == srtmVoid {
			v10 = fill
		}
		if v11 == srtmVoid {
			v11 = fill
		}
	}

	top := v00*(1-fx) + v01*fx
	bottom := v10*(1-fx) + v11*fx
	return top*(1-fy) + bottom*fy, nil
}
