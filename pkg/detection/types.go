// Package detection talks to the road damage detector service and
// reads/writes its per-image detection records.
package detection

// Detection is one detected pavement defect in one image. Bounding box
// coordinates are pixels in the 640x640 source image.
type Detection struct {
	SegmentID  string  `json:"segment_id"`
	Index      int     `json:"index"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Heading    float64 `json:"heading"`
	ImagePath  string  `json:"image_path"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	XMin       float64 `json:"xmin"`
	YMin       float64 `json:"ymin"`
	XMax       float64 `json:"xmax"`
	YMax       float64 `json:"ymax"`
}

// damage classes the detector emits, RDD2022 naming
const (
	ClassLongitudinalCrack = "longitudinal_crack"
	ClassTransverseCrack   = "transverse_crack"
	ClassAlligatorCrack    = "alligator_crack"
	ClassPothole           = "pothole"
)

// DamageClasses lists every class in the order feature vectors use.
var DamageClasses = []string{
	ClassLongitudinalCrack,
	ClassTransverseCrack,
	ClassAlligatorCrack,
	ClassPothole,
}
