package lifecycle

import (
	"sort"
	"strings"
	"time"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/selection"
)

// participantKey returns a canonical, order-independent key for a
// participant set, used to match candidates against existing match
// documents by participant set equality.
func participantKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// findByParticipants returns the first match in matches whose participant
// set equals ids, or nil.
func findByParticipants(matches []entity.Match, ids []string) *entity.Match {
	key := participantKey(ids)
	for i := range matches {
		if participantKey(matches[i].Participants) == key {
			return &matches[i]
		}
	}
	return nil
}

// commutesFor returns the commutes belonging to the given users, in the
// order given, skipping any user absent from commutesByID.
func commutesFor(userIDs []string, commutesByID map[string]entity.Commute) []entity.Commute {
	commutes := make([]entity.Commute, 0, len(userIDs))
	for _, id := range userIDs {
		if c, ok := commutesByID[id]; ok {
			commutes = append(commutes, c)
		}
	}
	return commutes
}

// candidateToMatch builds a fresh match document (§4.5's insert step) from
// a selected candidate, naming its overlap points against the participants'
// commutes (§4.5.3).
func candidateToMatch(source entity.MatchSource, status entity.MatchStatus, candidate selection.Candidate, commutesByID map[string]entity.Commute, now time.Time) entity.Match {
	commutes := commutesFor(candidate.Participants, commutesByID)
	start, end := nameOverlap(candidate.Overlap, commutes)

	decisions := make([]entity.ParticipantDecision, len(candidate.Participants))
	for i, id := range candidate.Participants {
		decisions[i] = entity.ParticipantDecision{UserID: id}
	}

	return entity.Match{
		Source:               source,
		Kind:                 candidate.Kind,
		Status:               status,
		Participants:         append([]string(nil), candidate.Participants...),
		TransportMode:        candidate.TransportMode,
		Scores:                candidate.Scores,
		CompatibilityPercent: compatibilityPercent(candidate.Scores.CompositeScore),
		SharedSegmentStart:   start,
		SharedSegmentEnd:     end,
		EstimatedTimeMinutes: candidate.EstimatedSharedMinutes,
		Decisions:            decisions,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func compatibilityPercent(composite float64) int {
	pct := int(composite*100 + 0.5)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
