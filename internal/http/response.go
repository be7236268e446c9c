package http

import (
	"time"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
)

type namedPointResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type decisionResponse struct {
	UserID            string  `json:"user_id"`
	AcceptedAt        *string `json:"accepted_at,omitempty"`
	PassedAt          *string `json:"passed_at,omitempty"`
	PassCooldownUntil *string `json:"pass_cooldown_until,omitempty"`
}

type matchResponse struct {
	ID                   string              `json:"id"`
	Source               string              `json:"source"`
	Kind                 string              `json:"kind"`
	Status               string              `json:"status"`
	Participants         []string            `json:"participants"`
	TransportMode        string              `json:"transport_mode"`
	CompatibilityPercent int                 `json:"compatibility_percent"`
	SharedSegmentStart   namedPointResponse  `json:"shared_segment_start"`
	SharedSegmentEnd     namedPointResponse  `json:"shared_segment_end"`
	EstimatedTimeMinutes int                 `json:"estimated_time_minutes"`
	Decisions            []decisionResponse  `json:"decisions"`
	ChatRoomID           *string             `json:"chat_room_id,omitempty"`
	CommuteDate          *string             `json:"commute_date,omitempty"`
	CreatedAt            string              `json:"created_at"`
	UpdatedAt            string              `json:"updated_at"`
}

const rfc3339 = "2006-01-02T15:04:05Z07:00"

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(rfc3339)
	return &s
}

func toResponse(m entity.Match) matchResponse {
	decisions := make([]decisionResponse, len(m.Decisions))
	for i, d := range m.Decisions {
		decisions[i] = decisionResponse{
			UserID:            d.UserID,
			AcceptedAt:        formatTimePtr(d.AcceptedAt),
			PassedAt:          formatTimePtr(d.PassedAt),
			PassCooldownUntil: formatTimePtr(d.PassCooldownUntil),
		}
	}

	var commuteDate *string
	if m.CommuteDate != nil {
		s := m.CommuteDate.Format("2006-01-02")
		commuteDate = &s
	}

	return matchResponse{
		ID:                   m.ID,
		Source:               string(m.Source),
		Kind:                 string(m.Kind),
		Status:               string(m.Status),
		Participants:         m.Participants,
		TransportMode:        string(m.TransportMode),
		CompatibilityPercent: m.CompatibilityPercent,
		SharedSegmentStart:   namedPointResponse{Name: m.SharedSegmentStart.Name, Lat: m.SharedSegmentStart.Lat, Lng: m.SharedSegmentStart.Lng},
		SharedSegmentEnd:     namedPointResponse{Name: m.SharedSegmentEnd.Name, Lat: m.SharedSegmentEnd.Lat, Lng: m.SharedSegmentEnd.Lng},
		EstimatedTimeMinutes: m.EstimatedTimeMinutes,
		Decisions:            decisions,
		ChatRoomID:           m.ChatRoomID,
		CommuteDate:          commuteDate,
		CreatedAt:            m.CreatedAt.Format(rfc3339),
		UpdatedAt:            m.UpdatedAt.Format(rfc3339),
	}
}

func toResponses(matches []entity.Match) []matchResponse {
	out := make([]matchResponse, len(matches))
	for i, m := range matches {
		out[i] = toResponse(m)
	}
	return out
}
