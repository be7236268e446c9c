// Package store declares the persistence interface the matching engine
// depends on (spec.md §9: "an interface abstraction Store with methods
// matching the engine's needs"). The engine never imports a concrete driver;
// internal/store/postgres provides the real implementation wired in
// cmd/matcher.
package store

import (
	"context"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
)

// CommuteFilter selects commutes for the snapshot loader (§4.4). UserIDs,
// when set, restricts the result to those owners.
type CommuteFilter struct {
	Status                *entity.CommuteStatus
	EnableSuggestionsFlow *bool
	EnableQueueFlow       *bool
	MatchPreferences      []entity.MatchPreference
	UserIDs               []string
}

// MatchFilter selects match documents for lifecycle reconciliation (§4.5).
type MatchFilter struct {
	Source      *entity.MatchSource
	Kind        *entity.MatchKind
	Statuses    []entity.MatchStatus
	CommuteDate *string // YYYY-MM-DD, matched against Match.CommuteDate
}

// Store is the document-store abstraction the engine reads snapshots from
// and writes match documents to. Implementations must not mutate the
// entity.Commute/entity.Profile/entity.Match values they return; callers
// treat them as copies.
type Store interface {
	// FindCommutes returns commutes matching filter, joined internally to
	// their owning profile is NOT performed here — see FindProfiles.
	FindCommutes(ctx context.Context, filter CommuteFilter) ([]entity.Commute, error)
	// FindProfiles returns profiles for the given user ids. Missing ids are
	// silently omitted from the result (the snapshot loader discards
	// commutes without a matching profile per §4.4).
	FindProfiles(ctx context.Context, userIDs []string) ([]entity.Profile, error)

	FindMatches(ctx context.Context, filter MatchFilter) ([]entity.Match, error)
	GetMatch(ctx context.Context, id string) (entity.Match, error)
	InsertMatch(ctx context.Context, m entity.Match) (entity.Match, error)
	SaveMatch(ctx context.Context, m entity.Match) error

	SaveCommute(ctx context.Context, c entity.Commute) error

	InsertChatRoom(ctx context.Context, room entity.ChatRoom) (entity.ChatRoom, error)
}
