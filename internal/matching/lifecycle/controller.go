// Package lifecycle implements the §4.5 cycle controller: the suggestions
// phase and the queue-assignment phase that turn snapshot-derived candidates
// into match documents, plus the reconciliation (slot budgets, promotion,
// idempotent skips) that keeps repeated cycles from duplicating work.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/store"
)

// Notifier is told about chat rooms the controller creates. It is optional:
// a nil Notifier means the controller only writes the store-side chat room
// document and skips the external notification (§9's chat gateway is a
// separate concern from persistence).
type Notifier interface {
	NotifyChatRoomCreated(ctx context.Context, room entity.ChatRoom) error
}

// Controller runs matching cycles (§4.5) against a Store. A nil Clock falls
// back to entity.Now; tests supply a fixed func so cooldowns and
// commute_date arithmetic are reproducible.
type Controller struct {
	Store    store.Store
	Config   entity.MatchingConfig
	Clock    entity.Clock
	Notifier Notifier
}

// CycleResult reports the counts the REST contract's POST /matching/run
// returns (§6.2).
type CycleResult struct {
	SuggestionsIndividual int
	SuggestionsGroup      int
	AssignmentsIndividual int
	AssignmentsGroup      int
}

// RunCycle runs the suggestions phase for both kinds and, if runQueue is
// true, the queue-assignment phase for both kinds (§4.5's "matching cycle").
func (c *Controller) RunCycle(ctx context.Context, runQueue bool) (CycleResult, error) {
	var result CycleResult

	individualSuggested, err := c.runSuggestionsPhase(ctx, entity.KindIndividual)
	if err != nil {
		return result, fmt.Errorf("suggestions phase (individual): %w", err)
	}
	result.SuggestionsIndividual = individualSuggested

	groupSuggested, err := c.runSuggestionsPhase(ctx, entity.KindGroup)
	if err != nil {
		return result, fmt.Errorf("suggestions phase (group): %w", err)
	}
	result.SuggestionsGroup = groupSuggested

	if !runQueue {
		return result, nil
	}

	target := entity.DateOnly(c.clock().AddDate(0, 0, c.Config.Service.QueueAssignmentDaysAhead))

	individualAssigned, err := c.runQueueAssignmentPhase(ctx, entity.KindIndividual, target)
	if err != nil {
		return result, fmt.Errorf("queue-assignment phase (individual): %w", err)
	}
	result.AssignmentsIndividual = individualAssigned

	groupAssigned, err := c.runQueueAssignmentPhase(ctx, entity.KindGroup, target)
	if err != nil {
		return result, fmt.Errorf("queue-assignment phase (group): %w", err)
	}
	result.AssignmentsGroup = groupAssigned

	return result, nil
}

func (c *Controller) clock() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return entity.Now()
}

// createChatRoom persists a chat room and, if a Notifier is configured,
// publishes the creation event. Failure to notify does not fail the cycle:
// the chat room document is the source of truth (§6.1), the notification is
// a best-effort side channel (component J).
func (c *Controller) createChatRoom(ctx context.Context, matchID string, participants []string) (entity.ChatRoom, error) {
	roomType := "dm"
	if len(participants) > 2 {
		roomType = "group"
	}
	now := c.clock()
	room, err := c.Store.InsertChatRoom(ctx, entity.ChatRoom{
		MatchID:      matchID,
		Participants: append([]string(nil), participants...),
		Type:         roomType,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return entity.ChatRoom{}, err
	}
	if c.Notifier != nil {
		_ = c.Notifier.NotifyChatRoomCreated(ctx, room)
	}
	return room, nil
}
