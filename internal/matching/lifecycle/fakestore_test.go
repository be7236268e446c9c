package lifecycle

import (
	"context"

	"github.com/google/uuid"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/store"
)

// fakeStore is a minimal in-memory store.Store used to exercise the
// lifecycle controller without a real database.
type fakeStore struct {
	commutes map[string]entity.Commute
	profiles map[string]entity.Profile
	matches  map[string]entity.Match
	rooms    map[string]entity.ChatRoom
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		commutes: map[string]entity.Commute{},
		profiles: map[string]entity.Profile{},
		matches:  map[string]entity.Match{},
		rooms:    map[string]entity.ChatRoom{},
	}
}

func (f *fakeStore) FindCommutes(ctx context.Context, filter store.CommuteFilter) ([]entity.Commute, error) {
	var out []entity.Commute
	for _, c := range f.commutes {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.EnableSuggestionsFlow != nil && c.EnableSuggestionsFlow != *filter.EnableSuggestionsFlow {
			continue
		}
		if filter.EnableQueueFlow != nil && c.EnableQueueFlow != *filter.EnableQueueFlow {
			continue
		}
		if len(filter.MatchPreferences) > 0 {
			match := false
			for _, p := range filter.MatchPreferences {
				if c.MatchPreference == p {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) FindProfiles(ctx context.Context, userIDs []string) ([]entity.Profile, error) {
	var out []entity.Profile
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) FindMatches(ctx context.Context, filter store.MatchFilter) ([]entity.Match, error) {
	var out []entity.Match
	for _, m := range f.matches {
		if filter.Source != nil && m.Source != *filter.Source {
			continue
		}
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, st := range filter.Statuses {
				if m.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.CommuteDate != nil {
			if m.CommuteDate == nil || m.CommuteDate.Format("2006-01-02") != *filter.CommuteDate {
				continue
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeStore) GetMatch(ctx context.Context, id string) (entity.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return entity.Match{}, errNotFound
	}
	return m, nil
}

func (f *fakeStore) InsertMatch(ctx context.Context, m entity.Match) (entity.Match, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	f.matches[m.ID] = m
	return m, nil
}

func (f *fakeStore) SaveMatch(ctx context.Context, m entity.Match) error {
	f.matches[m.ID] = m
	return nil
}

func (f *fakeStore) SaveCommute(ctx context.Context, c entity.Commute) error {
	f.commutes[c.UserID] = c
	return nil
}

func (f *fakeStore) InsertChatRoom(ctx context.Context, room entity.ChatRoom) (entity.ChatRoom, error) {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	f.rooms[room.ID] = room
	return room, nil
}

var errNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "not found" }
