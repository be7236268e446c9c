package lifecycle

import (
	"context"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/selection"
	"github.com/kawanjalan/commute-matcher/internal/matching/snapshot"
	"github.com/kawanjalan/commute-matcher/internal/store"
)

// runSuggestionsPhase implements §4.5's suggestions phase for one kind,
// returning the count of newly inserted suggestions.
func (c *Controller) runSuggestionsPhase(ctx context.Context, kind entity.MatchKind) (int, error) {
	snap, err := snapshot.Load(ctx, c.Store, kind, snapshot.PassSuggestions)
	if err != nil {
		return 0, err
	}

	blocked, err := c.blockedUsers(ctx)
	if err != nil {
		return 0, err
	}
	snap = snap.Remove(blocked)

	if snap.Len() < 2 {
		return 0, nil
	}

	pairs := selection.BuildPairCompatibilities(snap.ProfilesByID, snap.CommutesByID, c.Config.Algorithm)
	var candidates []selection.Candidate
	if kind == entity.KindGroup {
		candidates = selection.SelectGroup(pairs, snap.CommutesByID, snap.CellByUser)
	} else {
		candidates = selection.SelectIndividual(pairs)
	}

	openExisting, err := c.openExistingSuggested(ctx, kind)
	if err != nil {
		return 0, err
	}
	slotCount := make(map[string]int)
	for _, m := range openExisting {
		for _, id := range m.Participants {
			slotCount[id]++
		}
	}

	inserted := 0
	now := c.clock()
	for _, candidate := range candidates {
		if findByParticipants(openExisting, candidate.Participants) != nil {
			continue
		}
		if slotBudgetExceeded(candidate.Participants, slotCount, kind, snap.CommutesByID) {
			continue
		}

		match := candidateToMatch(entity.SourceSuggested, entity.StatusSuggested, candidate, snap.CommutesByID, now)
		saved, err := c.Store.InsertMatch(ctx, match)
		if err != nil {
			return inserted, err
		}
		openExisting = append(openExisting, saved)
		for _, id := range candidate.Participants {
			slotCount[id]++
		}
		inserted++
	}
	return inserted, nil
}

// blockedUsers returns users currently in any active match (§4.5 step 2),
// regardless of kind: an active match already consumes the user's travel
// slot for this cycle.
func (c *Controller) blockedUsers(ctx context.Context) (map[string]struct{}, error) {
	active := entity.StatusActive
	matches, err := c.Store.FindMatches(ctx, store.MatchFilter{Statuses: []entity.MatchStatus{active}})
	if err != nil {
		return nil, err
	}
	blocked := make(map[string]struct{})
	for _, m := range matches {
		for _, id := range m.Participants {
			blocked[id] = struct{}{}
		}
	}
	return blocked, nil
}

// openExistingSuggested loads source=suggested matches of this kind and
// keeps the ones still "open" per §4.5 step 5: status ∈ {suggested,
// active}, except that when pass cooldowns are disabled, a suggested match
// any participant has passed on is terminal and excluded.
func (c *Controller) openExistingSuggested(ctx context.Context, kind entity.MatchKind) ([]entity.Match, error) {
	source := entity.SourceSuggested
	matches, err := c.Store.FindMatches(ctx, store.MatchFilter{
		Source: &source,
		Kind:   &kind,
	})
	if err != nil {
		return nil, err
	}

	var open []entity.Match
	for _, m := range matches {
		if m.Status != entity.StatusSuggested && m.Status != entity.StatusActive {
			continue
		}
		if m.Status == entity.StatusSuggested && c.Config.Service.PassCooldownDays <= 0 && anyPassed(m) {
			continue
		}
		open = append(open, m)
	}
	return open, nil
}

func anyPassed(m entity.Match) bool {
	for _, d := range m.Decisions {
		if d.PassedAt != nil {
			return true
		}
	}
	return false
}

// slotBudgetExceeded implements §4.5 step 7's per-kind slot budget.
func slotBudgetExceeded(participants []string, slotCount map[string]int, kind entity.MatchKind, commutesByID map[string]entity.Commute) bool {
	for _, id := range participants {
		budget := 1
		if kind == entity.KindIndividual && commutesByID[id].MatchPreference == entity.PreferenceBoth {
			budget = 2
		}
		if slotCount[id] >= budget {
			return true
		}
	}
	return false
}
