package selection

import (
	"sort"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/scoring"
)

// SelectIndividual implements the §4.3 greedy pairwise matcher: sort
// eligible pairs by composite score descending (ties broken by sorted
// participant tuple ascending), then greedily accept pairs that share no
// already-consumed user.
func SelectIndividual(pairs []scoring.Pair) []Candidate {
	sorted := append([]scoring.Pair(nil), pairs...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Scores.CompositeScore != b.Scores.CompositeScore {
			return a.Scores.CompositeScore > b.Scores.CompositeScore
		}
		return tupleLess(
			sortedTuple([]string{a.LeftUserID, a.RightUserID}),
			sortedTuple([]string{b.LeftUserID, b.RightUserID}),
		)
	})

	consumed := make(map[string]struct{})
	var selected []Candidate
	for _, pair := range sorted {
		if _, ok := consumed[pair.LeftUserID]; ok {
			continue
		}
		if _, ok := consumed[pair.RightUserID]; ok {
			continue
		}
		consumed[pair.LeftUserID] = struct{}{}
		consumed[pair.RightUserID] = struct{}{}
		selected = append(selected, Candidate{
			Participants:           []string{pair.LeftUserID, pair.RightUserID},
			Kind:                   entity.KindIndividual,
			TransportMode:          pair.TransportMode,
			Scores:                 pair.Scores,
			Overlap:                pair.Overlap,
			EstimatedSharedMinutes: pair.EstimatedSharedMinutes,
		})
	}
	return selected
}
