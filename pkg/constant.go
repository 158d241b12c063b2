package pkg

const (
	INF_WEIGHT float64 = 1e15

	// PASER (Pavement Surface Evaluation and Rating) scale is 1 (failed
	// surface) to 10 (excellent). Edges without imagery coverage are assumed
	// fair condition.
	MIN_PASER_SCORE     float64 = 1.0
	MAX_PASER_SCORE     float64 = 10.0
	DEFAULT_PASER_SCORE float64 = 5.0

	// rank order centroid coefficients for the composite edge cost.
	// priority: pavement condition > elevation gain > distance.
	ROC_ALPHA_PASER    float64 = 0.611
	ROC_BETA_ELEVATION float64 = 0.278
	ROC_GAMMA_DISTANCE float64 = 0.111
)

const (
	DEBUG = false
)

type OsmHighwayType uint8

// enum of osm highway classes kept in the cycling graph:
// https://wiki.openstreetmap.org/wiki/Key:highway
const (
	MOTORWAY       OsmHighwayType = 0
	TRUNK          OsmHighwayType = 1
	PRIMARY        OsmHighwayType = 2
	SECONDARY      OsmHighwayType = 3
	TERTIARY       OsmHighwayType = 4
	RESIDENTIAL    OsmHighwayType = 5
	SERVICE        OsmHighwayType = 6
	UNCLASSIFIED   OsmHighwayType = 7
	MOTORWAY_LINK  OsmHighwayType = 8
	TRUNK_LINK     OsmHighwayType = 9
	PRIMARY_LINK   OsmHighwayType = 10
	SECONDARY_LINK OsmHighwayType = 11
	TERTIARY_LINK  OsmHighwayType = 12
	LIVING_STREET  OsmHighwayType = 13
	ROAD           OsmHighwayType = 14
	TRACK          OsmHighwayType = 15
	CYCLEWAY       OsmHighwayType = 16
	PATH           OsmHighwayType = 17
	UNKNOWN        OsmHighwayType = 18
)

func GetHighwayType(roadType string) OsmHighwayType {
	switch roadType {
	case "motorway":
		return MOTORWAY
	case "trunk":
		return TRUNK
	case "primary":
		return PRIMARY
	case "secondary":
		return SECONDARY
	case "tertiary":
		return TERTIARY
	case "unclassified":
		return UNCLASSIFIED
	case "residential":
		return RESIDENTIAL
	case "service":
		return SERVICE
	case "motorway_link":
		return MOTORWAY_LINK
	case "trunk_link":
		return TRUNK_LINK
	case "primary_link":
		return PRIMARY_LINK
	case "secondary_link":
		return SECONDARY_LINK
	case "tertiary_link":
		return TERTIARY_LINK
	case "living_street":
		return LIVING_STREET
	case "road":
		return ROAD
	case "track":
		return TRACK
	case "cycleway":
		return CYCLEWAY
	case "path":
		return PATH
	default:
		return UNKNOWN
	}
}

func (h OsmHighwayType) String() string {
	switch h {
	case MOTORWAY:
		return "motorway"
	case TRUNK:
		return "trunk"
	case PRIMARY:
		return "primary"
	case SECONDARY:
		return "secondary"
	case TERTIARY:
		return "tertiary"
	case UNCLASSIFIED:
		return "unclassified"
	case RESIDENTIAL:
		return "residential"
	case SERVICE:
		return "service"
	case MOTORWAY_LINK:
		return "motorway_link"
	case TRUNK_LINK:
		return "trunk_link"
	case PRIMARY_LINK:
		return "primary_link"
	case SECONDARY_LINK:
		return "secondary_link"
	case TERTIARY_LINK:
		return "tertiary_link"
	case LIVING_STREET:
		return "living_street"
	case ROAD:
		return "road"
	case TRACK:
		return "track"
	case CYCLEWAY:
		return "cycleway"
	case PATH:
		return "path"
	default:
		return "unknown"
	}
}
