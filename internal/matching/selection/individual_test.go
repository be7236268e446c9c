package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/geo"
	"github.com/kawanjalan/commute-matcher/internal/matching/scoring"
)

func pair(left, right string, composite float64) scoring.Pair {
	return scoring.Pair{
		LeftUserID:  left,
		RightUserID: right,
		Scores:      entity.Scores{CompositeScore: composite},
		Overlap:     geo.OverlapSegment{OverlapDistanceMeters: 500},
	}
}

func TestSelectIndividual_GreedyByScoreDescending(t *testing.T) {
	pairs := []scoring.Pair{
		pair("a", "b", 0.5),
		pair("c", "d", 0.9),
	}
	selected := SelectIndividual(pairs)
	assert.Len(t, selected, 2)
	assert.Equal(t, []string{"c", "d"}, selected[0].Participants)
	assert.Equal(t, []string{"a", "b"}, selected[1].Participants)
}

func TestSelectIndividual_SkipsAlreadyConsumedUser(t *testing.T) {
	pairs := []scoring.Pair{
		pair("a", "b", 0.9),
		pair("b", "c", 0.8),
	}
	selected := SelectIndividual(pairs)
	assert.Len(t, selected, 1)
	assert.Equal(t, []string{"a", "b"}, selected[0].Participants)
}

func TestSelectIndividual_TieBrokenByTupleOrder(t *testing.T) {
	pairs := []scoring.Pair{
		pair("z", "y", 0.5),
		pair("a", "b", 0.5),
	}
	selected := SelectIndividual(pairs)
	assert.Equal(t, []string{"a", "b"}, selected[0].Participants)
}

func TestSelectIndividual_EmptyInput(t *testing.T) {
	assert.Empty(t, SelectIndividual(nil))
}

func TestSelectIndividual_NoParticipantAppearsTwice(t *testing.T) {
	pairs := []scoring.Pair{
		pair("a", "b", 0.9),
		pair("c", "d", 0.8),
		pair("a", "c", 0.95),
	}
	selected := SelectIndividual(pairs)
	seen := map[string]bool{}
	for _, c := range selected {
		for _, id := range c.Participants {
			assert.False(t, seen[id], "participant %s selected twice", id)
			seen[id] = true
		}
	}
}

func straightRoute(lngStart, lngEnd float64, n int) []entity.Point {
	points := make([]entity.Point, n)
	step := (lngEnd - lngStart) / float64(n-1)
	for i := 0; i < n; i++ {
		points[i] = entity.Point{Lat: 0, Lng: lngStart + step*float64(i)}
	}
	return points
}

func TestBuildPairCompatibilities_OnlyEligiblePairsReturned(t *testing.T) {
	route := straightRoute(0, 0.05, 50)
	cfg := entity.DefaultMatchingConfig().Algorithm

	profiles := map[string]entity.Profile{
		"a": {UserID: "a"},
		"b": {UserID: "b"},
		"c": {UserID: "c"},
	}
	commutes := map[string]entity.Commute{
		"a": {UserID: "a", TransportMode: entity.TransportTransit, TimeWindow: entity.TimeWindow{StartMinute: 480, EndMinute: 540}, RouteCoordinates: route},
		"b": {UserID: "b", TransportMode: entity.TransportTransit, TimeWindow: entity.TimeWindow{StartMinute: 480, EndMinute: 540}, RouteCoordinates: route},
		"c": {UserID: "c", TransportMode: entity.TransportWalk, TimeWindow: entity.TimeWindow{StartMinute: 480, EndMinute: 540}, RouteCoordinates: route},
	}

	pairs := BuildPairCompatibilities(profiles, commutes, cfg)
	assert.Len(t, pairs, 1)
	assert.Equal(t, "a", pairs[0].LeftUserID)
	assert.Equal(t, "b", pairs[0].RightUserID)
}
