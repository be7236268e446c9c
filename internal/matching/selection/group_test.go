package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/geo"
	"github.com/kawanjalan/commute-matcher/internal/matching/scoring"
)

func groupCommute(userID string, pref entity.MatchPreference, min, max int) entity.Commute {
	return entity.Commute{
		UserID:          userID,
		MatchPreference: pref,
		GroupSizePref:   entity.GroupSizePref{Min: min, Max: max},
		RouteCoordinates: []entity.Point{{Lat: 0, Lng: 0}},
	}
}

func TestSelectGroup_FormsTriangleClique(t *testing.T) {
	commutes := map[string]entity.Commute{
		"a": groupCommute("a", entity.PreferenceGroup, 3, 4),
		"b": groupCommute("b", entity.PreferenceGroup, 3, 4),
		"c": groupCommute("c", entity.PreferenceGroup, 3, 4),
	}
	pairs := []scoring.Pair{
		{LeftUserID: "a", RightUserID: "b", Scores: entity.Scores{CompositeScore: 0.8}, Overlap: geo.OverlapSegment{OverlapDistanceMeters: 400}, EstimatedSharedMinutes: 5},
		{LeftUserID: "a", RightUserID: "c", Scores: entity.Scores{CompositeScore: 0.7}, Overlap: geo.OverlapSegment{OverlapDistanceMeters: 300}, EstimatedSharedMinutes: 5},
		{LeftUserID: "b", RightUserID: "c", Scores: entity.Scores{CompositeScore: 0.75}, Overlap: geo.OverlapSegment{OverlapDistanceMeters: 350}, EstimatedSharedMinutes: 5},
	}

	groups := SelectGroup(pairs, commutes, nil)
	assert.Len(t, groups, 1)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, groups[0].Participants)
	assert.Equal(t, entity.KindGroup, groups[0].Kind)
}

func TestSelectGroup_ExcludesIndividualPreferenceUsers(t *testing.T) {
	commutes := map[string]entity.Commute{
		"a": groupCommute("a", entity.PreferenceGroup, 3, 4),
		"b": groupCommute("b", entity.PreferenceGroup, 3, 4),
		"c": groupCommute("c", entity.PreferenceIndividual, 2, 2),
	}
	pairs := []scoring.Pair{
		{LeftUserID: "a", RightUserID: "b", Scores: entity.Scores{CompositeScore: 0.8}, Overlap: geo.OverlapSegment{OverlapDistanceMeters: 400}, EstimatedSharedMinutes: 5},
		{LeftUserID: "a", RightUserID: "c", Scores: entity.Scores{CompositeScore: 0.9}, Overlap: geo.OverlapSegment{OverlapDistanceMeters: 400}, EstimatedSharedMinutes: 5},
		{LeftUserID: "b", RightUserID: "c", Scores: entity.Scores{CompositeScore: 0.9}, Overlap: geo.OverlapSegment{OverlapDistanceMeters: 400}, EstimatedSharedMinutes: 5},
	}

	groups := SelectGroup(pairs, commutes, nil)
	assert.Empty(t, groups)
}

func TestSelectGroup_MissingPairDataExcludesClique(t *testing.T) {
	commutes := map[string]entity.Commute{
		"a": groupCommute("a", entity.PreferenceGroup, 3, 4),
		"b": groupCommute("b", entity.PreferenceGroup, 3, 4),
		"c": groupCommute("c", entity.PreferenceGroup, 3, 4),
	}
	pairs := []scoring.Pair{
		{LeftUserID: "a", RightUserID: "b", Scores: entity.Scores{CompositeScore: 0.8}, Overlap: geo.OverlapSegment{OverlapDistanceMeters: 400}, EstimatedSharedMinutes: 5},
	}

	groups := SelectGroup(pairs, commutes, nil)
	assert.Empty(t, groups)
}

func TestSelectGroup_RemovesConsumedMembersBeforeNextClique(t *testing.T) {
	commutes := map[string]entity.Commute{
		"a": groupCommute("a", entity.PreferenceGroup, 3, 4),
		"b": groupCommute("b", entity.PreferenceGroup, 3, 4),
		"c": groupCommute("c", entity.PreferenceGroup, 3, 4),
		"d": groupCommute("d", entity.PreferenceGroup, 3, 4),
		"e": groupCommute("e", entity.PreferenceGroup, 3, 4),
		"f": groupCommute("f", entity.PreferenceGroup, 3, 4),
	}
	mk := func(l, r string, score float64) scoring.Pair {
		return scoring.Pair{LeftUserID: l, RightUserID: r, Scores: entity.Scores{CompositeScore: score}, Overlap: geo.OverlapSegment{OverlapDistanceMeters: 300}, EstimatedSharedMinutes: 5}
	}
	pairs := []scoring.Pair{
		mk("a", "b", 0.9), mk("a", "c", 0.9), mk("b", "c", 0.9),
		mk("d", "e", 0.8), mk("d", "f", 0.8), mk("e", "f", 0.8),
	}

	groups := SelectGroup(pairs, commutes, nil)
	assert.Len(t, groups, 2)
	seen := map[string]bool{}
	for _, g := range groups {
		for _, id := range g.Participants {
			assert.False(t, seen[id])
			seen[id] = true
		}
	}
}

func TestCellOf_EmptyRouteReturnsEmptyString(t *testing.T) {
	assert.Equal(t, "", CellOf(entity.Commute{}))
}

func TestCellOf_NonEmptyRoute(t *testing.T) {
	c := entity.Commute{RouteCoordinates: []entity.Point{{Lat: 1.5, Lng: 2.5}}}
	assert.NotEmpty(t, CellOf(c))
}
