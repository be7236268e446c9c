package lifecycle

import (
	"context"
	"sort"
	"time"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/selection"
	"github.com/kawanjalan/commute-matcher/internal/matching/snapshot"
	"github.com/kawanjalan/commute-matcher/internal/store"
)

// runQueueAssignmentPhase implements §4.5's queue-assignment phase for one
// kind and target commute_date, returning the count of matches promoted or
// freshly assigned.
func (c *Controller) runQueueAssignmentPhase(ctx context.Context, kind entity.MatchKind, target time.Time) (int, error) {
	snap, err := snapshot.Load(ctx, c.Store, kind, snapshot.PassQueue)
	if err != nil {
		return 0, err
	}

	pairs := selection.BuildPairCompatibilities(snap.ProfilesByID, snap.CommutesByID, c.Config.Algorithm)
	var candidates []selection.Candidate
	if kind == entity.KindGroup {
		candidates = selection.SelectGroup(pairs, snap.CommutesByID, snap.CellByUser)
	} else {
		candidates = selection.SelectIndividual(pairs)
	}

	targetStr := target.Format("2006-01-02")
	existingQueue, err := c.Store.FindMatches(ctx, store.MatchFilter{
		Source:      sourcePtr(entity.SourceQueueAssigned),
		CommuteDate: &targetStr,
	})
	if err != nil {
		return 0, err
	}

	suggestedSource := entity.SourceSuggested
	existingSuggested, err := c.Store.FindMatches(ctx, store.MatchFilter{
		Source:   &suggestedSource,
		Kind:     &kind,
		Statuses: []entity.MatchStatus{entity.StatusSuggested, entity.StatusActive},
	})
	if err != nil {
		return 0, err
	}

	queueSource := entity.SourceQueueAssigned
	existingActiveQueue, err := c.Store.FindMatches(ctx, store.MatchFilter{
		Source:   &queueSource,
		Kind:     &kind,
		Statuses: []entity.MatchStatus{entity.StatusActive},
	})
	if err != nil {
		return 0, err
	}

	consumed := make(map[string]struct{})
	for _, m := range existingQueue {
		if !isOpenStatus(m.Status) {
			continue
		}
		for _, id := range m.Participants {
			consumed[id] = struct{}{}
		}
	}
	for _, m := range existingActiveQueue {
		for _, id := range m.Participants {
			consumed[id] = struct{}{}
		}
	}

	promoted := 0

	// Step 5: promotion pass.
	var promotable []entity.Match
	for _, m := range existingSuggested {
		if m.Status != entity.StatusSuggested {
			continue
		}
		if allParticipantsQueued(m.Participants, snap.CommutesByID) {
			promotable = append(promotable, m)
		}
	}
	sort.SliceStable(promotable, func(i, j int) bool {
		return promotable[i].Scores.CompositeScore > promotable[j].Scores.CompositeScore
	})
	for _, m := range promotable {
		if anyConsumed(m.Participants, consumed) {
			continue
		}
		if err := c.promoteToQueue(ctx, &m, target, snap.CommutesByID); err != nil {
			return promoted, err
		}
		markConsumed(m.Participants, consumed)
		promoted++
	}

	// Step 6: fresh assignment pass.
	for _, candidate := range candidates {
		if existing := findByParticipants(existingSuggested, candidate.Participants); existing != nil &&
			(existing.Status == entity.StatusSuggested || existing.Status == entity.StatusActive) {
			if anyConsumed(candidate.Participants, consumed) {
				continue
			}
			if err := c.promoteToQueue(ctx, existing, target, snap.CommutesByID); err != nil {
				return promoted, err
			}
			markConsumed(candidate.Participants, consumed)
			promoted++
			continue
		}

		if anyConsumed(candidate.Participants, consumed) {
			continue
		}
		if existing := findByParticipants(existingQueue, candidate.Participants); existing != nil && isOpenStatus(existing.Status) {
			continue
		}

		now := c.clock()
		match := candidateToMatch(entity.SourceQueueAssigned, entity.StatusAssigned, candidate, snap.CommutesByID, now)
		match.CommuteDate = &target
		saved, err := c.Store.InsertMatch(ctx, match)
		if err != nil {
			return promoted, err
		}

		room, err := c.createChatRoom(ctx, saved.ID, saved.Participants)
		if err != nil {
			return promoted, err
		}
		saved.ChatRoomID = &room.ID
		saved.Status = entity.StatusActive
		saved.UpdatedAt = c.clock()
		if err := c.Store.SaveMatch(ctx, saved); err != nil {
			return promoted, err
		}

		if err := c.pauseCommutes(ctx, candidate.Participants, snap.CommutesByID); err != nil {
			return promoted, err
		}
		markConsumed(candidate.Participants, consumed)
		promoted++
	}

	return promoted, nil
}

// promoteToQueue implements the promotion shared by §4.5 steps 5 and 6:
// force-accept every decision, create a chat room if missing, flip the
// document to an active queue assignment for target, and pause its
// participants' commutes.
func (c *Controller) promoteToQueue(ctx context.Context, m *entity.Match, target time.Time, commutesByID map[string]entity.Commute) error {
	now := c.clock()
	for i := range m.Decisions {
		m.Decisions[i].AcceptedAt = &now
		m.Decisions[i].PassedAt = nil
		m.Decisions[i].PassCooldownUntil = nil
	}

	if m.ChatRoomID == nil {
		room, err := c.createChatRoom(ctx, m.ID, m.Participants)
		if err != nil {
			return err
		}
		m.ChatRoomID = &room.ID
	}

	m.Source = entity.SourceQueueAssigned
	m.Status = entity.StatusActive
	m.CommuteDate = &target
	m.UpdatedAt = now

	if err := c.Store.SaveMatch(ctx, *m); err != nil {
		return err
	}
	return c.pauseCommutes(ctx, m.Participants, commutesByID)
}

// pauseCommutes implements the "pause all participants' commutes" step:
// enable_queue_flow=false, status=paused.
func (c *Controller) pauseCommutes(ctx context.Context, userIDs []string, commutesByID map[string]entity.Commute) error {
	for _, id := range userIDs {
		commute, ok := commutesByID[id]
		if !ok {
			continue
		}
		commute.EnableQueueFlow = false
		commute.Status = entity.CommutePaused
		if err := c.Store.SaveCommute(ctx, commute); err != nil {
			return err
		}
	}
	return nil
}

func allParticipantsQueued(participants []string, commutesByID map[string]entity.Commute) bool {
	for _, id := range participants {
		if _, ok := commutesByID[id]; !ok {
			return false
		}
	}
	return true
}

func anyConsumed(participants []string, consumed map[string]struct{}) bool {
	for _, id := range participants {
		if _, ok := consumed[id]; ok {
			return true
		}
	}
	return false
}

func markConsumed(participants []string, consumed map[string]struct{}) {
	for _, id := range participants {
		consumed[id] = struct{}{}
	}
}

func isOpenStatus(status entity.MatchStatus) bool {
	return status == entity.StatusSuggested || status == entity.StatusAssigned || status == entity.StatusActive
}

func sourcePtr(s entity.MatchSource) *entity.MatchSource { return &s }
