package lifecycle

import (
	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/geo"
)

const anchorMatchRadiusMeters = 400.0

// namePoint implements §4.5.3: scan every participant's named anchors and
// pick the nearest one within anchorMatchRadiusMeters, falling back to a
// generic label if none is close enough.
func namePoint(point entity.Point, commutes []entity.Commute, fallback string) entity.NamedPoint {
	bestName := ""
	bestDistance := anchorMatchRadiusMeters
	for _, commute := range commutes {
		for _, anchor := range commute.Anchors {
			d := geo.HaversineMeters(point, anchor.Location)
			if d <= bestDistance {
				bestDistance = d
				bestName = anchor.Name
			}
		}
	}
	if bestName == "" {
		bestName = fallback
	}
	return entity.NamedPoint{Name: bestName, Lat: point.Lat, Lng: point.Lng}
}

func nameOverlap(overlap geo.OverlapSegment, commutes []entity.Commute) (start, end entity.NamedPoint) {
	start = namePoint(overlap.MeetPoint, commutes, "Shared route start")
	end = namePoint(overlap.SplitPoint, commutes, "Shared route end")
	return start, end
}
