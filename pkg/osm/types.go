// Package osm provides the Overpass API client used to download road
// networks for an area of interest.
package osm

// OverpassElement is one element of an Overpass API response.
type OverpassElement struct {
	ID   int64             `json:"id"`
	Type string            `json:"type"`
	Lat  float64           `json:"lat,omitempty"`
	Lon  float64           `json:"lon,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
	// for ways, the ordered node ids
	Nodes []int64 `json:"nodes,omitempty"`
}

// OverpassResponse is the top level Overpass API JSON document.
type OverpassResponse struct {
	Version  float64           `json:"version"`
	Elements []OverpassElement `json:"elements"`
}

// BoundingBox in degrees, south-west to north-east.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) BoundingBox {
	return BoundingBox{
		MinLat: minLat,
		MinLon: minLon,
		MaxLat: maxLat,
		MaxLon: maxLon,
	}
}

func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
