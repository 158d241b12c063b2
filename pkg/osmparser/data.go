package osmparser

type NodeType int

const (
	END_NODE      NodeType = 0
	BETWEEN_NODE  NodeType = 1
	JUNCTION_NODE NodeType = 2
)

var (
	// highway values never put in the cycling graph
	skipHighway = map[string]struct{}{
		"footway":                {},
		"construction":           {},
		"pedestrian":             {},
		"busway":                 {},
		"steps":                  {},
		"bridleway":              {},
		"corridor":               {},
		"street_lamp":            {},
		"bus_stop":               {},
		"crossing":               {},
		"cyclist_waiting_aid":    {},
		"elevator":               {},
		"emergency_bay":          {},
		"emergency_access_point": {},
		"give_way":               {},
		"phone":                  {},
		"ladder":                 {},
		"milestone":              {},
		"passing_place":          {},
		"platform":               {},
		"speed_camera":           {},
		"bus_guideway":           {},
		"speed_display":          {},
		"stop":                   {},
		"toll_gantry":            {},
		"traffic_mirror":         {},
		"traffic_signals":        {},
		"trailhead":              {},
		"motorway":               {},
		"motorway_link":          {},
	}

	// https://wiki.openstreetmap.org/wiki/OSM_tags_for_routing
	// motorways are excluded, cycleway/path are included: bicycles.
	acceptedHighway = map[string]struct{}{
		"trunk":            {},
		"trunk_link":       {},
		"primary":          {},
		"primary_link":     {},
		"secondary":        {},
		"secondary_link":   {},
		"residential":      {},
		"residential_link": {},
		"service":          {},
		"tertiary":         {},
		"tertiary_link":    {},
		"road":             {},
		"track":            {},
		"unclassified":     {},
		"living_street":    {},
		"cycleway":         {},
		"path":             {},
	}

	// fallback speed km/h per highway class when a way has no usable
	// maxspeed tag
	highwayDefaultSpeed = map[string]float64{
		"trunk":            60,
		"trunk_link":       40,
		"primary":          50,
		"primary_link":     35,
		"secondary":        40,
		"secondary_link":   30,
		"tertiary":         30,
		"tertiary_link":    25,
		"residential":      30,
		"residential_link": 25,
		"living_street":    10,
		"service":          20,
		"unclassified":     30,
		"road":             30,
		"track":            15,
		"cycleway":         15,
		"path":             10,
	}
)
