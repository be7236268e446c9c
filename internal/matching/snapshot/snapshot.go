// Package snapshot builds the engine-shaped value objects a matching cycle
// operates on (spec.md §4.4): it reads commutes and profiles subject to the
// suggestions/queue flow filters, joins them by owner id, and discards
// commutes without a matching profile.
package snapshot

import (
	"context"
	"sort"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/selection"
	"github.com/kawanjalan/commute-matcher/internal/store"
)

// Pass distinguishes which flow filter (§4.4) produced the snapshot.
type Pass int

const (
	PassSuggestions Pass = iota
	PassQueue
)

// Snapshot is the in-memory view the selection core runs over.
type Snapshot struct {
	ProfilesByID map[string]entity.Profile
	CommutesByID map[string]entity.Commute
	// CellByUser is each commute's route-start geohash cell (§9), passed
	// through to selection.SelectGroup as a pruning hint.
	CellByUser map[string]string
}

// Load builds a snapshot for the given kind and pass. Suggestions pass:
// enable_suggestions_flow=true and match_preference in {kind, both}. Queue
// pass: status=queued, enable_queue_flow=true, match_preference in
// {kind, both}.
func Load(ctx context.Context, s store.Store, kind entity.MatchKind, pass Pass) (Snapshot, error) {
	preferences := []entity.MatchPreference{kind.AsPreference(), entity.PreferenceBoth}

	filter := store.CommuteFilter{MatchPreferences: preferences}
	switch pass {
	case PassSuggestions:
		enabled := true
		filter.EnableSuggestionsFlow = &enabled
	case PassQueue:
		queued := entity.CommuteQueued
		enabled := true
		filter.Status = &queued
		filter.EnableQueueFlow = &enabled
	}

	commutes, err := s.FindCommutes(ctx, filter)
	if err != nil {
		return Snapshot{}, err
	}
	if len(commutes) == 0 {
		return Snapshot{ProfilesByID: map[string]entity.Profile{}, CommutesByID: map[string]entity.Commute{}, CellByUser: map[string]string{}}, nil
	}

	userIDs := make([]string, 0, len(commutes))
	for _, c := range commutes {
		userIDs = append(userIDs, c.UserID)
	}
	sort.Strings(userIDs)

	profiles, err := s.FindProfiles(ctx, userIDs)
	if err != nil {
		return Snapshot{}, err
	}

	profilesByID := make(map[string]entity.Profile, len(profiles))
	for _, p := range profiles {
		profilesByID[p.UserID] = p
	}

	commutesByID := make(map[string]entity.Commute, len(commutes))
	cellByUser := make(map[string]string, len(commutes))
	for _, c := range commutes {
		if _, ok := profilesByID[c.UserID]; !ok {
			continue // discard commutes without a matching profile (§4.4)
		}
		commutesByID[c.UserID] = c
		cellByUser[c.UserID] = selection.CellOf(c)
	}

	// profilesByID may still hold users whose commute was discarded above;
	// keep it restricted to users with a surviving commute.
	for id := range profilesByID {
		if _, ok := commutesByID[id]; !ok {
			delete(profilesByID, id)
		}
	}

	return Snapshot{ProfilesByID: profilesByID, CommutesByID: commutesByID, CellByUser: cellByUser}, nil
}

// Remove drops the given user ids from the snapshot (used by the lifecycle
// controller to exclude users already in an active match, §4.5 step 2).
func (s Snapshot) Remove(userIDs map[string]struct{}) Snapshot {
	profiles := make(map[string]entity.Profile, len(s.ProfilesByID))
	commutes := make(map[string]entity.Commute, len(s.CommutesByID))
	cells := make(map[string]string, len(s.CellByUser))
	for id, p := range s.ProfilesByID {
		if _, blocked := userIDs[id]; blocked {
			continue
		}
		profiles[id] = p
	}
	for id, c := range s.CommutesByID {
		if _, blocked := userIDs[id]; blocked {
			continue
		}
		commutes[id] = c
	}
	for id, cell := range s.CellByUser {
		if _, blocked := userIDs[id]; blocked {
			continue
		}
		cells[id] = cell
	}
	return Snapshot{ProfilesByID: profiles, CommutesByID: commutes, CellByUser: cells}
}

func (s Snapshot) Len() int { return len(s.ProfilesByID) }
