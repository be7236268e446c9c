package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/geo"
)

func TestNamePoint_FallsBackWhenNoAnchorWithinRadius(t *testing.T) {
	point := entity.Point{Lat: 10, Lng: 10}
	commutes := []entity.Commute{
		{Anchors: []entity.StopAnchor{{Name: "Home", Location: entity.Point{Lat: 0, Lng: 0}}}},
	}
	named := namePoint(point, commutes, "fallback label")
	assert.Equal(t, "fallback label", named.Name)
}

func TestNamePoint_PicksNearestAnchorWithinRadius(t *testing.T) {
	point := entity.Point{Lat: 0, Lng: 0}
	commutes := []entity.Commute{
		{Anchors: []entity.StopAnchor{
			{Name: "Far", Location: entity.Point{Lat: 0.002, Lng: 0}},
			{Name: "Near", Location: entity.Point{Lat: 0.0005, Lng: 0}},
		}},
	}
	named := namePoint(point, commutes, "fallback")
	assert.Equal(t, "Near", named.Name)
}

func TestNameOverlap_NamesStartAndEnd(t *testing.T) {
	overlap := geo.OverlapSegment{
		MeetPoint:  entity.Point{Lat: 0, Lng: 0},
		SplitPoint: entity.Point{Lat: 1, Lng: 1},
	}
	commutes := []entity.Commute{
		{Anchors: []entity.StopAnchor{{Name: "Office", Location: entity.Point{Lat: 0, Lng: 0}}}},
	}
	start, end := nameOverlap(overlap, commutes)
	assert.Equal(t, "Office", start.Name)
	assert.Equal(t, "Shared route end", end.Name)
}
