// Package commute implements commute ingestion (§4.7): normalizing group
// size preferences, calling the routing planner to produce route geometry,
// deriving the named anchors point naming (§4.5.3) depends on, and
// persisting through the Store. This is the producer of the records the
// engine's snapshot loader consumes; it sits outside the engine's pure
// core.
package commute

import (
	"context"
	"regexp"
	"strings"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	engineerrors "github.com/kawanjalan/commute-matcher/internal/matching/errors"
	"github.com/kawanjalan/commute-matcher/internal/routing"
	"github.com/kawanjalan/commute-matcher/internal/store"
)

// Request is a create/update payload for a commute.
type Request struct {
	StartLat, StartLng float64
	EndLat, EndLng     float64
	TimeWindow         entity.TimeWindow
	TransportMode      entity.TransportMode
	MatchPreference    entity.MatchPreference
	GroupSizePref      entity.GroupSizePref
	GenderPreference   entity.GenderPreference
	EnableQueueFlow    bool
	EnableSuggestions  bool
}

// Service ingests commutes for a single user.
type Service struct {
	Store   store.Store
	Routing *routing.Client
}

// normalizedGroupSize implements original_source's _normalized_group_size:
// individual preference forces (2,2); group preference clamps min>=3,
// max in [min,4].
func normalizedGroupSize(preference entity.MatchPreference, requestedMin, requestedMax int) entity.GroupSizePref {
	if preference == entity.PreferenceIndividual {
		return entity.GroupSizePref{Min: 2, Max: 2}
	}
	min := requestedMin
	if min < 3 {
		min = 3
	}
	if min > 4 {
		min = 4
	}
	max := requestedMax
	if max > 4 {
		max = 4
	}
	if max < min {
		max = min
	}
	return entity.GroupSizePref{Min: min, Max: max}
}

var destinationLabelPattern = regexp.MustCompile(`(?i)\bto\b`)

// isDestinationAnchor implements §4.5.3's anchor-label filter: any segment
// label matching "... to <destination>" except the literal "walk segment".
func isDestinationAnchor(label string) bool {
	if label == "" || strings.EqualFold(label, "walk segment") {
		return false
	}
	return destinationLabelPattern.MatchString(label)
}

func anchorsFromRoute(route routing.Route) []entity.StopAnchor {
	if len(route.Coordinates) == 0 {
		return nil
	}
	anchors := []entity.StopAnchor{
		{Name: "Start", Location: route.Coordinates[0]},
		{Name: "End", Location: route.Coordinates[len(route.Coordinates)-1]},
	}
	for _, segment := range route.Segments {
		if len(segment.Coordinates) == 0 || !isDestinationAnchor(segment.Label) {
			continue
		}
		anchors = append(anchors, entity.StopAnchor{
			Name:     segment.Label,
			Location: segment.Coordinates[len(segment.Coordinates)-1],
		})
	}
	return anchors
}

// Create normalizes, generates route geometry, and saves a new commute for
// userID: status=queued when either flow is enabled, paused otherwise.
func (s *Service) Create(ctx context.Context, userID string, req Request) (entity.Commute, error) {
	if req.TimeWindow.EndMinute <= req.TimeWindow.StartMinute {
		return entity.Commute{}, engineerrors.ErrInvalidTimeWindow
	}

	groupSize := normalizedGroupSize(req.MatchPreference, req.GroupSizePref.Min, req.GroupSizePref.Max)

	route, err := s.Routing.GenerateRoute(ctx, req.StartLat, req.StartLng, req.EndLat, req.EndLng, req.TimeWindow.StartMinute, req.TransportMode)
	if err != nil {
		return entity.Commute{}, err
	}

	status := entity.CommutePaused
	if req.EnableQueueFlow || req.EnableSuggestions {
		status = entity.CommuteQueued
	}

	commute := entity.Commute{
		UserID:                userID,
		TransportMode:         req.TransportMode,
		MatchPreference:       req.MatchPreference,
		GroupSizePref:         groupSize,
		GenderPreference:      req.GenderPreference,
		TimeWindow:            req.TimeWindow,
		EnableSuggestionsFlow: req.EnableSuggestions,
		EnableQueueFlow:       req.EnableQueueFlow,
		Status:                status,
		RouteCoordinates:      route.Coordinates,
		Anchors:               anchorsFromRoute(route),
	}

	if err := s.Store.SaveCommute(ctx, commute); err != nil {
		return entity.Commute{}, err
	}
	return commute, nil
}

// SetQueueFlow toggles enable_queue_flow, flipping status between queued
// and paused per §4.7 (grounded on original_source's set_queue_enabled).
func (s *Service) SetQueueFlow(ctx context.Context, commute entity.Commute, enabled bool) (entity.Commute, error) {
	commute.EnableQueueFlow = enabled
	commute.Status = flowStatus(enabled)
	if err := s.Store.SaveCommute(ctx, commute); err != nil {
		return entity.Commute{}, err
	}
	return commute, nil
}

// SetSuggestionsFlow toggles enable_suggestions_flow, flipping status
// between queued and paused per §4.7 (grounded on original_source's
// set_suggestions_enabled).
func (s *Service) SetSuggestionsFlow(ctx context.Context, commute entity.Commute, enabled bool) (entity.Commute, error) {
	commute.EnableSuggestionsFlow = enabled
	commute.Status = flowStatus(enabled)
	if err := s.Store.SaveCommute(ctx, commute); err != nil {
		return entity.Commute{}, err
	}
	return commute, nil
}

func flowStatus(enabled bool) entity.CommuteStatus {
	if enabled {
		return entity.CommuteQueued
	}
	return entity.CommutePaused
}
