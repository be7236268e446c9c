// Package geo implements the haversine distance, polyline length, and
// route-overlap primitives of spec.md §4.1.
package geo

import (
	"math"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
)

const earthRadiusMeters = 6_371_000.0

// HaversineMeters returns the great-circle distance between two points in
// meters.
func HaversineMeters(a, b entity.Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lng1 := a.Lng * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lng2 := b.Lng * math.Pi / 180

	dLat := lat2 - lat1
	dLng := lng2 - lng1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// PolylineLengthMeters sums the haversine distance between consecutive
// points; 0 for fewer than two points.
func PolylineLengthMeters(points []entity.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(points); i++ {
		total += HaversineMeters(points[i-1], points[i])
	}
	return total
}

// OverlapSegment is the result of a successful route-overlap computation.
type OverlapSegment struct {
	MeetPoint             entity.Point
	SplitPoint            entity.Point
	OverlapDistanceMeters float64
}

// RouteOverlapSegment implements the §4.1 contract: given ordered coordinate
// sequences left and right and a tolerance in meters, it returns the ordered
// subsequence of left whose points lie within tolerance of some point in
// right. Reports ok=false if fewer than two points match or the matched
// subsequence has zero length.
//
// Complexity is O(len(left) * len(right)), acceptable at the route sizes
// (a few hundred points) this engine expects; callers needing to scale
// further should pre-filter candidates rather than change this predicate
// (internal/matching/selection uses geohash cells to prune group
// combinations, but every user pair in a snapshot is still evaluated here).
func RouteOverlapSegment(left, right []entity.Point, toleranceMeters float64) (OverlapSegment, bool) {
	if len(left) == 0 || len(right) == 0 {
		return OverlapSegment{}, false
	}

	matched := make([]entity.Point, 0, len(left))
	for _, p := range left {
		for _, r := range right {
			if HaversineMeters(p, r) <= toleranceMeters {
				matched = append(matched, p)
				break
			}
		}
	}

	if len(matched) < 2 {
		return OverlapSegment{}, false
	}

	distance := PolylineLengthMeters(matched)
	if distance <= 0 {
		return OverlapSegment{}, false
	}

	return OverlapSegment{
		MeetPoint:             matched[0],
		SplitPoint:            matched[len(matched)-1],
		OverlapDistanceMeters: distance,
	}, true
}
