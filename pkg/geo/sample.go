package geo

import (
	"math"
)

// PathLengthMeters sums the great-circle length of a coordinate path.
func PathLengthMeters(path []Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += HaversineDistanceMeters(path[i-1].Lat, path[i-1].Lon, path[i].Lat, path[i].Lon)
	}
	return total
}

// PointAlongPath walks the path and returns the coordinate at distMeters from
// its start. Distances past the end clamp to the last coordinate.
func PointAlongPath(path []Coordinate, distMeters float64) Coordinate {
	if len(path) == 0 {
		return Coordinate{}
	}
	if distMeters <= 0 {
		return path[0]
	}

	walked := 0.0
	for i := 1; i < len(path); i++ {
		segLen := HaversineDistanceMeters(path[i-1].Lat, path[i-1].Lon, path[i].Lat, path[i].Lon)
		if walked+segLen >= distMeters {
			if segLen == 0 {
				return path[i]
			}
			frac := (distMeters - walked) / segLen
			return NewCoordinate(
				path[i-1].Lat+(path[i].Lat-path[i-1].Lat)*frac,
				path[i-1].Lon+(path[i].Lon-path[i-1].Lon)*frac,
			)
		}
		walked += segLen
	}
	return path[len(path)-1]
}

// SampleAlongPath returns interior points every spacing meters along the path.
// A path shorter than spacing yields only its midpoint; endpoints are never
// included so adjacent segments do not sample the shared junction twice.
func SampleAlongPath(path []Coordinate, spacingMeters float64) []Coordinate {
	if len(path) < 2 || spacingMeters <= 0 {
		return nil
	}

	length := PathLengthMeters(path)
	if length < spacingMeters {
		return []Coordinate{PointAlongPath(path, length/2.0)}
	}

	n := int(math.Floor(length / spacingMeters))
	points := make([]Coordinate, 0, n)
	for i := 1; i < n; i++ {
		points = append(points, PointAlongPath(path, float64(i)*spacingMeters))
	}
	if len(points) == 0 {
		points = append(points, PointAlongPath(path, length/2.0))
	}
	return points
}
