package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
)

func straightRoute(lngStart, lngEnd float64, n int) []entity.Point {
	points := make([]entity.Point, n)
	step := (lngEnd - lngStart) / float64(n-1)
	for i := 0; i < n; i++ {
		points[i] = entity.Point{Lat: 0, Lng: lngStart + step*float64(i)}
	}
	return points
}

func baseCommute(userID string, mode entity.TransportMode, route []entity.Point) entity.Commute {
	return entity.Commute{
		UserID:           userID,
		TransportMode:    mode,
		GenderPreference: entity.GenderPreferenceAny,
		TimeWindow:       entity.TimeWindow{StartMinute: 480, EndMinute: 540},
		RouteCoordinates: route,
	}
}

func TestInterestScore_BothEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, InterestScore(entity.Profile{}, entity.Profile{}))
}

func TestInterestScore_Jaccard(t *testing.T) {
	left := entity.Profile{Interests: []string{"Hiking", "music", "coffee"}}
	right := entity.Profile{Interests: []string{"hiking", "Music", "reading"}}
	// intersection: hiking, music = 2; union: hiking, music, coffee, reading = 4
	assert.InDelta(t, 0.5, InterestScore(left, right), 1e-9)
}

func TestInterestScore_CaseAndWhitespaceInsensitive(t *testing.T) {
	left := entity.Profile{Interests: []string{" Chess "}}
	right := entity.Profile{Interests: []string{"chess"}}
	assert.InDelta(t, 1.0, InterestScore(left, right), 1e-9)
}

func TestEvaluatePair_RejectsDifferentTransportMode(t *testing.T) {
	left := baseCommute("a", entity.TransportWalk, straightRoute(0, 0.01, 5))
	right := baseCommute("b", entity.TransportTransit, straightRoute(0, 0.01, 5))
	cfg := entity.DefaultMatchingConfig().Algorithm

	_, ok := EvaluatePair(entity.Profile{}, left, entity.Profile{}, right, cfg)
	assert.False(t, ok)
}

func TestEvaluatePair_RejectsInsufficientTimeOverlap(t *testing.T) {
	left := baseCommute("a", entity.TransportTransit, straightRoute(0, 0.01, 5))
	left.TimeWindow = entity.TimeWindow{StartMinute: 480, EndMinute: 490}
	right := baseCommute("b", entity.TransportTransit, straightRoute(0, 0.01, 5))
	right.TimeWindow = entity.TimeWindow{StartMinute: 600, EndMinute: 620}
	cfg := entity.DefaultMatchingConfig().Algorithm

	_, ok := EvaluatePair(entity.Profile{}, left, entity.Profile{}, right, cfg)
	assert.False(t, ok)
}

func TestEvaluatePair_RejectsGenderMismatchWhenSameRequested(t *testing.T) {
	left := baseCommute("a", entity.TransportTransit, straightRoute(0, 0.01, 5))
	left.GenderPreference = entity.GenderPreferenceSame
	right := baseCommute("b", entity.TransportTransit, straightRoute(0, 0.01, 5))
	cfg := entity.DefaultMatchingConfig().Algorithm

	leftProfile := entity.Profile{Gender: "female"}
	rightProfile := entity.Profile{Gender: "male"}
	_, ok := EvaluatePair(leftProfile, left, rightProfile, right, cfg)
	assert.False(t, ok)
}

func TestEvaluatePair_AcceptsMatchingGenderSameRequest(t *testing.T) {
	// Needs enough overlap distance: use a long shared straight route.
	route := straightRoute(0, 0.05, 50)
	left := baseCommute("a", entity.TransportTransit, route)
	left.GenderPreference = entity.GenderPreferenceSame
	right := baseCommute("b", entity.TransportTransit, route)
	cfg := entity.DefaultMatchingConfig().Algorithm

	leftProfile := entity.Profile{Gender: "Female"}
	rightProfile := entity.Profile{Gender: "female"}
	pair, ok := EvaluatePair(leftProfile, left, rightProfile, right, cfg)
	assert.True(t, ok)
	assert.Equal(t, "a", pair.LeftUserID)
	assert.Equal(t, "b", pair.RightUserID)
	assert.Greater(t, pair.Scores.CompositeScore, 0.0)
	assert.GreaterOrEqual(t, pair.EstimatedSharedMinutes, 1)
}

func TestEvaluatePair_RejectsBelowMinOverlapDistance(t *testing.T) {
	// A short route with only a few points in common won't clear the
	// 250m minimum overlap distance default.
	route := straightRoute(0, 0.001, 3)
	left := baseCommute("a", entity.TransportTransit, route)
	right := baseCommute("b", entity.TransportTransit, route)
	cfg := entity.DefaultMatchingConfig().Algorithm

	_, ok := EvaluatePair(entity.Profile{}, left, entity.Profile{}, right, cfg)
	assert.False(t, ok)
}

func TestEvaluatePair_CompositeWeighting(t *testing.T) {
	route := straightRoute(0, 0.05, 50)
	left := baseCommute("a", entity.TransportTransit, route)
	right := baseCommute("b", entity.TransportTransit, route)
	cfg := entity.DefaultMatchingConfig().Algorithm

	leftProfile := entity.Profile{Interests: []string{"chess"}}
	rightProfile := entity.Profile{Interests: []string{"chess"}}
	pair, ok := EvaluatePair(leftProfile, left, rightProfile, right, cfg)
	assert.True(t, ok)

	expected := cfg.OverlapWeight*pair.Scores.OverlapScore + cfg.InterestWeight*pair.Scores.InterestScore
	assert.InDelta(t, expected, pair.Scores.CompositeScore, 1e-9)
}
