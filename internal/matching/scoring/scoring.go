// Package scoring implements the pairwise hard filters and composite score
// of spec.md §4.2. No function here returns an error: missing or degenerate
// data resolves to a rejected pair or a zero score, never a panic.
package scoring

import (
	"math"
	"strings"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/geo"
)

// Pair is a scored, eligible candidate between two users.
type Pair struct {
	LeftUserID            string
	RightUserID           string
	TransportMode         entity.TransportMode
	Scores                entity.Scores
	Overlap               geo.OverlapSegment
	EstimatedSharedMinutes int
}

func normalizedGender(g string) string {
	return strings.ToLower(strings.TrimSpace(g))
}

func genderCompatible(leftProfile entity.Profile, leftCommute entity.Commute, rightProfile entity.Profile, rightCommute entity.Commute) bool {
	left := normalizedGender(leftProfile.Gender)
	right := normalizedGender(rightProfile.Gender)
	if leftCommute.GenderPreference == entity.GenderPreferenceSame && left != right {
		return false
	}
	if rightCommute.GenderPreference == entity.GenderPreferenceSame && left != right {
		return false
	}
	return true
}

func interestSet(interests []string) map[string]struct{} {
	set := make(map[string]struct{}, len(interests))
	for _, raw := range interests {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

// InterestScore is the Jaccard similarity of two trimmed, lower-cased
// interest token sets; 0 if both are empty.
func InterestScore(left, right entity.Profile) float64 {
	leftSet := interestSet(left.Interests)
	rightSet := interestSet(right.Interests)
	if len(leftSet) == 0 && len(rightSet) == 0 {
		return 0
	}

	intersection := 0
	union := make(map[string]struct{}, len(leftSet)+len(rightSet))
	for token := range leftSet {
		union[token] = struct{}{}
		if _, ok := rightSet[token]; ok {
			intersection++
		}
	}
	for token := range rightSet {
		union[token] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

func overlapScore(overlapDistance float64, leftRoute, rightRoute []entity.Point) float64 {
	leftLen := geo.PolylineLengthMeters(leftRoute)
	rightLen := geo.PolylineLengthMeters(rightRoute)
	baseline := math.Min(leftLen, rightLen)
	if baseline <= 0 {
		return 0
	}
	score := overlapDistance / baseline
	if score > 1.0 {
		return 1.0
	}
	return score
}

// EvaluatePair runs the §4.2 hard filters in order and, on success, computes
// the pair's scores. ok is false if any hard filter rejects the pair.
func EvaluatePair(
	leftProfile entity.Profile, leftCommute entity.Commute,
	rightProfile entity.Profile, rightCommute entity.Commute,
	cfg entity.AlgorithmConfig,
) (Pair, bool) {
	if leftCommute.TransportMode != rightCommute.TransportMode {
		return Pair{}, false
	}
	if leftCommute.TimeWindow.OverlapMinutes(rightCommute.TimeWindow) < cfg.MinTimeOverlapMinutes {
		return Pair{}, false
	}
	if !genderCompatible(leftProfile, leftCommute, rightProfile, rightCommute) {
		return Pair{}, false
	}

	overlap, ok := geo.RouteOverlapSegment(leftCommute.RouteCoordinates, rightCommute.RouteCoordinates, cfg.OverlapToleranceMeters)
	if !ok {
		return Pair{}, false
	}
	if overlap.OverlapDistanceMeters < cfg.MinOverlapDistanceMeters {
		return Pair{}, false
	}

	oScore := overlapScore(overlap.OverlapDistanceMeters, leftCommute.RouteCoordinates, rightCommute.RouteCoordinates)
	iScore := InterestScore(leftProfile, rightProfile)
	composite := cfg.OverlapWeight*oScore + cfg.InterestWeight*iScore

	metersPerMinute := cfg.SharedMetersPerMinute
	if metersPerMinute < 1.0 {
		metersPerMinute = 1.0
	}
	estimatedMinutes := int(math.Round(overlap.OverlapDistanceMeters / metersPerMinute))
	if estimatedMinutes < 1 {
		estimatedMinutes = 1
	}

	return Pair{
		LeftUserID:    leftCommute.UserID,
		RightUserID:   rightCommute.UserID,
		TransportMode: leftCommute.TransportMode,
		Scores: entity.Scores{
			OverlapScore:   oScore,
			InterestScore:  iScore,
			CompositeScore: composite,
		},
		Overlap:                overlap,
		EstimatedSharedMinutes: estimatedMinutes,
	}, true
}
