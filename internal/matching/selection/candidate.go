// Package selection implements the greedy individual matcher and the group
// clique selector of spec.md §4.3.
package selection

import (
	"sort"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/geo"
	"github.com/kawanjalan/commute-matcher/internal/matching/scoring"
)

// Candidate is a selected match — a pair or a clique — ready to be turned
// into a match document by the lifecycle controller.
type Candidate struct {
	Participants           []string
	Kind                   entity.MatchKind
	TransportMode          entity.TransportMode
	Scores                 entity.Scores
	Overlap                geo.OverlapSegment
	EstimatedSharedMinutes int
}

// sortedTuple returns ids sorted ascending, used as the deterministic
// tie-break key for equal composite scores.
func sortedTuple(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func tupleLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// BuildPairCompatibilities evaluates every lexicographically ordered pair of
// eligible users against §4.2 and returns the ones that pass.
func BuildPairCompatibilities(
	profilesByID map[string]entity.Profile,
	commutesByID map[string]entity.Commute,
	cfg entity.AlgorithmConfig,
) []scoring.Pair {
	ids := make([]string, 0, len(profilesByID))
	for id := range profilesByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var pairs []scoring.Pair
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			leftID, rightID := ids[i], ids[j]
			pair, ok := scoring.EvaluatePair(
				profilesByID[leftID], commutesByID[leftID],
				profilesByID[rightID], commutesByID[rightID],
				cfg,
			)
			if ok {
				pairs = append(pairs, pair)
			}
		}
	}
	return pairs
}
