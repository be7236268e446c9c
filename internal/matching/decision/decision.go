// Package decision implements the participant-facing operations of §4.6:
// Accept, Pass, and the suggestion visibility filter. These operate on a
// single match document at a time and are safe under the engine's
// last-writer-wins concurrency model (§5): each call loads, mutates, and
// writes back once.
package decision

import (
	"context"
	"time"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	engineerrors "github.com/kawanjalan/commute-matcher/internal/matching/errors"
	"github.com/kawanjalan/commute-matcher/internal/store"
)

// Notifier is told about chat rooms Accept creates. Mirrors
// lifecycle.Notifier; kept as a separate declaration so decision does not
// need to import lifecycle for one interface.
type Notifier interface {
	NotifyChatRoomCreated(ctx context.Context, room entity.ChatRoom) error
}

// Service implements Accept/Pass/ListSuggestions against a Store. Clock
// mirrors lifecycle.Controller's: nil defaults to entity.Now.
type Service struct {
	Store    store.Store
	Config   entity.ServiceConfig
	Clock    entity.Clock
	Notifier Notifier
}

func (s *Service) clock() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return entity.Now()
}

// loadSuggestion fetches a match and checks the shared Accept/Pass
// preconditions: must exist, must be source=suggested, caller must be a
// participant.
func (s *Service) loadSuggestion(ctx context.Context, userID, suggestionID string) (entity.Match, error) {
	match, err := s.Store.GetMatch(ctx, suggestionID)
	if err != nil {
		return entity.Match{}, engineerrors.Wrap(engineerrors.KindNotFound, "suggestion not found", err)
	}
	if match.Source != entity.SourceSuggested {
		return entity.Match{}, engineerrors.New(engineerrors.KindNotFound, "suggestion not found")
	}
	if !match.HasParticipant(userID) {
		return entity.Match{}, engineerrors.ErrNotParticipant
	}
	return match, nil
}

// Accept implements §4.6's Accept(user, suggestion_id).
func (s *Service) Accept(ctx context.Context, userID, suggestionID string) (entity.Match, error) {
	match, err := s.loadSuggestion(ctx, userID, suggestionID)
	if err != nil {
		return entity.Match{}, err
	}
	if match.Status != entity.StatusSuggested {
		return match, nil
	}

	now := s.clock()
	decision := match.DecisionFor(userID)
	decision.AcceptedAt = &now
	decision.PassedAt = nil
	decision.PassCooldownUntil = nil

	allAccepted := true
	for _, d := range match.Decisions {
		if d.AcceptedAt == nil {
			allAccepted = false
			break
		}
	}
	if allAccepted {
		if match.ChatRoomID == nil {
			roomType := "dm"
			if len(match.Participants) > 2 {
				roomType = "group"
			}
			room, err := s.Store.InsertChatRoom(ctx, entity.ChatRoom{
				MatchID:      match.ID,
				Participants: append([]string(nil), match.Participants...),
				Type:         roomType,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			if err != nil {
				return entity.Match{}, err
			}
			if s.Notifier != nil {
				_ = s.Notifier.NotifyChatRoomCreated(ctx, room)
			}
			match.ChatRoomID = &room.ID
		}
		match.Status = entity.StatusActive
	}

	match.UpdatedAt = now
	if err := s.Store.SaveMatch(ctx, match); err != nil {
		return entity.Match{}, err
	}
	return match, nil
}

// Pass implements §4.6's Pass(user, suggestion_id).
func (s *Service) Pass(ctx context.Context, userID, suggestionID string) (entity.Match, error) {
	match, err := s.loadSuggestion(ctx, userID, suggestionID)
	if err != nil {
		return entity.Match{}, err
	}
	if match.Status != entity.StatusSuggested {
		return match, nil
	}

	now := s.clock()
	decision := match.DecisionFor(userID)
	decision.PassedAt = &now
	decision.AcceptedAt = nil

	if s.Config.PassCooldownDays > 0 {
		until := now.AddDate(0, 0, s.Config.PassCooldownDays)
		decision.PassCooldownUntil = &until
	} else {
		decision.PassCooldownUntil = &now
		match.Status = entity.StatusCompleted
	}

	match.UpdatedAt = now
	if err := s.Store.SaveMatch(ctx, match); err != nil {
		return entity.Match{}, err
	}
	return match, nil
}

// ListSuggestions implements §4.6's visibility rule for a user's open
// suggestions of the given kind.
func (s *Service) ListSuggestions(ctx context.Context, userID string, kind entity.MatchKind) ([]entity.Match, error) {
	source := entity.SourceSuggested
	status := entity.StatusSuggested
	matches, err := s.Store.FindMatches(ctx, store.MatchFilter{
		Source:   &source,
		Kind:     &kind,
		Statuses: []entity.MatchStatus{status},
	})
	if err != nil {
		return nil, err
	}

	now := s.clock()
	var visible []entity.Match
	for _, m := range matches {
		if !m.HasParticipant(userID) {
			continue
		}
		decision := m.DecisionFor(userID)
		if decision == nil || decision.AcceptedAt != nil {
			continue
		}
		if decision.PassCooldownUntil != nil && decision.PassCooldownUntil.After(now) {
			continue
		}
		if s.Config.PassCooldownDays <= 0 && decision.PassedAt != nil {
			continue
		}
		visible = append(visible, m)
	}
	return visible, nil
}
