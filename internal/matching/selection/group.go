package selection

import (
	"sort"
	"strings"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/geo"
	"github.com/kawanjalan/commute-matcher/internal/matching/scoring"
	"github.com/mmcloughlin/geohash"
)

// geohashBucketThreshold is the available-user count above which group
// enumeration restricts combinations to geohash-adjacent clusters (§9's
// "bucketing by ... geographic cell before enumeration" note) instead of
// considering every combination. Below it, full enumeration is cheap enough
// that pruning would only add risk of missing an edge-of-cell clique for no
// benefit.
const geohashBucketThreshold = 12

// GeohashPrecision is the cell size (≈1.2km) used to bucket users by their
// route's first coordinate for the group-selection pruning optimization.
const GeohashPrecision uint = 6

// CellOf returns the geohash cell for a commute's starting coordinate, or
// "" if the commute has no route. internal/matching/snapshot calls this
// once per commute and passes the result map into SelectGroup.
func CellOf(c entity.Commute) string {
	if len(c.RouteCoordinates) == 0 {
		return ""
	}
	start := c.RouteCoordinates[0]
	return geohash.EncodeWithPrecision(start.Lat, start.Lng, GeohashPrecision)
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// SelectGroup implements the §4.3 group clique selector: repeatedly find the
// single highest-scoring clique among all size-4 and size-3 combinations of
// users whose group_size_pref admits that size (a size-3 clique with a
// higher mean score wins over a size-4 one), remove its members, and repeat
// until no clique of either size remains. cellByUser is the geohash cell (§9) of each
// candidate's route start, used only to prune which combinations are
// enumerated at scale — every returned group is still checked against the
// full pairwise predicate, so an empty or partial cellByUser only costs
// performance, never correctness.
func SelectGroup(pairs []scoring.Pair, commutesByID map[string]entity.Commute, cellByUser map[string]string) []Candidate {
	pairLookup := make(map[string]scoring.Pair, len(pairs))
	for _, p := range pairs {
		pairLookup[pairKey(p.LeftUserID, p.RightUserID)] = p
	}

	available := make(map[string]struct{})
	for id, commute := range commutesByID {
		if commute.MatchPreference == entity.PreferenceGroup || commute.MatchPreference == entity.PreferenceBoth {
			available[id] = struct{}{}
		}
	}

	var selected []Candidate
	for {
		best, bestMembers := bestClique(available, commutesByID, pairLookup, cellByUser)
		if bestMembers == nil {
			break
		}
		selected = append(selected, best)
		for _, member := range bestMembers {
			delete(available, member)
		}
	}
	return selected
}

func bestClique(
	available map[string]struct{},
	commutesByID map[string]entity.Commute,
	pairLookup map[string]scoring.Pair,
	cellByUser map[string]string,
) (Candidate, []string) {
	var bestCandidate Candidate
	var bestMembers []string
	hasBest := false

	for _, targetSize := range []int{4, 3} {
		if len(available) < targetSize {
			continue
		}
		for _, members := range candidateGroups(available, targetSize, cellByUser) {
			if !allSupportSize(members, commutesByID, targetSize) {
				continue
			}
			pairScores, overlaps, minutes, mode, ok := cliquePairData(members, pairLookup)
			if !ok {
				continue
			}
			candidate := aggregateGroup(members, pairScores, overlaps, minutes, mode)
			if !hasBest || candidate.Scores.CompositeScore > bestCandidate.Scores.CompositeScore ||
				(candidate.Scores.CompositeScore == bestCandidate.Scores.CompositeScore &&
					tupleLess(sortedTuple(members), sortedTuple(bestMembers))) {
				bestCandidate = candidate
				bestMembers = append([]string(nil), members...)
				hasBest = true
			}
		}
	}
	return bestCandidate, bestMembers
}

func allSupportSize(members []string, commutesByID map[string]entity.Commute, size int) bool {
	for _, member := range members {
		if !commutesByID[member].SupportsGroupSize(size) {
			return false
		}
	}
	return true
}

func cliquePairData(
	members []string,
	pairLookup map[string]scoring.Pair,
) (pairScores []entity.Scores, overlaps []geo.OverlapSegment, minutes []int, mode entity.TransportMode, ok bool) {
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			pair, found := pairLookup[pairKey(members[i], members[j])]
			if !found {
				return nil, nil, nil, "", false
			}
			pairScores = append(pairScores, pair.Scores)
			overlaps = append(overlaps, pair.Overlap)
			minutes = append(minutes, pair.EstimatedSharedMinutes)
			mode = pair.TransportMode
		}
	}
	return pairScores, overlaps, minutes, mode, true
}

func aggregateGroup(members []string, pairScores []entity.Scores, overlaps []geo.OverlapSegment, minutes []int, mode entity.TransportMode) Candidate {
	var overlapSum, interestSum, compositeSum float64
	for _, s := range pairScores {
		overlapSum += s.OverlapScore
		interestSum += s.InterestScore
		compositeSum += s.CompositeScore
	}
	n := float64(len(pairScores))

	longest := overlaps[0]
	for _, o := range overlaps[1:] {
		if o.OverlapDistanceMeters > longest.OverlapDistanceMeters {
			longest = o
		}
	}

	minuteSum := 0
	for _, m := range minutes {
		minuteSum += m
	}
	avgMinutes := minuteSum / len(minutes)
	if avgMinutes < 1 {
		avgMinutes = 1
	}

	return Candidate{
		Participants:  append([]string(nil), members...),
		Kind:          entity.KindGroup,
		TransportMode: mode,
		Scores: entity.Scores{
			OverlapScore:   overlapSum / n,
			InterestScore:  interestSum / n,
			CompositeScore: compositeSum / n,
		},
		Overlap:                longest,
		EstimatedSharedMinutes: avgMinutes,
	}
}

// candidateGroups enumerates combinations of the given size from available.
// Above geohashBucketThreshold users with full cell coverage, it restricts
// combinations to clusters sharing a geohash cell or an adjacent cell
// instead of considering every combination.
func candidateGroups(available map[string]struct{}, size int, cellByUser map[string]string) [][]string {
	ids := make([]string, 0, len(available))
	for id := range available {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) <= geohashBucketThreshold {
		return combinations(ids, size)
	}
	return bucketedCombinations(ids, size, cellByUser)
}

func combinations(ids []string, size int) [][]string {
	var result [][]string
	n := len(ids)
	if size > n {
		return nil
	}
	indices := make([]int, size)
	for i := range indices {
		indices[i] = i
	}
	for {
		group := make([]string, size)
		for i, idx := range indices {
			group[i] = ids[idx]
		}
		result = append(result, group)

		pos := size - 1
		for pos >= 0 && indices[pos] == n-size+pos {
			pos--
		}
		if pos < 0 {
			break
		}
		indices[pos]++
		for i := pos + 1; i < size; i++ {
			indices[i] = indices[i-1] + 1
		}
	}
	return result
}

func bucketedCombinations(ids []string, size int, cellByUser map[string]string) [][]string {
	clusterCells := make(map[string][]string, len(ids))
	for _, id := range ids {
		cell, known := cellByUser[id]
		if !known || cell == "" {
			return combinations(ids, size)
		}
		neighbors := append(geohash.Neighbors(cell), cell)
		clusterCells[id] = neighbors
	}

	seen := make(map[string]struct{})
	var result [][]string
	for _, seed := range ids {
		seedCells := make(map[string]struct{}, len(clusterCells[seed]))
		for _, c := range clusterCells[seed] {
			seedCells[c] = struct{}{}
		}
		var cluster []string
		for _, id := range ids {
			if _, ok := seedCells[cellByUser[id]]; ok {
				cluster = append(cluster, id)
			}
		}
		for _, group := range combinations(cluster, size) {
			key := strings.Join(group, ",")
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, group)
		}
	}
	return result
}
