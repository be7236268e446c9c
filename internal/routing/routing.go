// Package routing talks to the external routing planner (§6.3): an
// OTP-shaped HTTP/GraphQL service returning a plan of legs with an encoded
// polyline and a duration. It decodes the polyline, normalizes duration
// formats, and tolerates both plan shapes the planner may return
// (edges→node→legs and itineraries→legs), grounded on original_source's
// routing/service.py.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	engineerrors "github.com/kawanjalan/commute-matcher/internal/matching/errors"
)

// Segment is one leg of a normalized route.
type Segment struct {
	Type             entity.TransportMode
	Coordinates      []entity.Point
	Label            string
	TransitLine      string
	DurationMinutes  int
	HasDuration      bool
}

// Route is the normalized geometry generate_route_for_commute returns:
// coordinates for overlap computation (§4.1), segments for display, and an
// aggregate duration if the planner reported one.
type Route struct {
	Segments             []Segment
	Coordinates          []entity.Point
	TotalDurationMinutes int
	HasDuration          bool
}

// Client calls the routing planner over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: &http.Client{Timeout: timeout}}
}

type planRequest struct {
	FromLat       float64 `json:"from_lat"`
	FromLng       float64 `json:"from_lng"`
	ToLat         float64 `json:"to_lat"`
	ToLng         float64 `json:"to_lng"`
	DepartureISO  string  `json:"departure_iso"`
	TransportMode string  `json:"transport_mode"`
}

// GenerateRoute calls the planner for a single commute leg and returns its
// normalized geometry, or a typed RouteGenerationFailure/UpstreamTimeout
// error (§7).
func (c *Client) GenerateRoute(ctx context.Context, startLat, startLng, endLat, endLng float64, startMinute int, mode entity.TransportMode) (Route, error) {
	if c.BaseURL == "" {
		return Route{}, engineerrors.New(engineerrors.KindRouteGenerationFailure, "routing planner is not configured")
	}

	body, err := json.Marshal(planRequest{
		FromLat: startLat, FromLng: startLng,
		ToLat: endLat, ToLng: endLng,
		DepartureISO:  departureISO(startMinute),
		TransportMode: string(mode),
	})
	if err != nil {
		return Route{}, engineerrors.Wrap(engineerrors.KindRouteGenerationFailure, "encoding planner request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.BaseURL, "/")+"/plan", strings.NewReader(string(body)))
	if err != nil {
		return Route{}, engineerrors.Wrap(engineerrors.KindRouteGenerationFailure, "building planner request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Route{}, engineerrors.Wrap(engineerrors.KindUpstreamTimeout, "routing planner deadline exceeded", err)
		}
		return Route{}, engineerrors.Wrap(engineerrors.KindRouteGenerationFailure, "routing planner unreachable", err)
	}
	defer resp.Body.Close()

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Route{}, engineerrors.Wrap(engineerrors.KindRouteGenerationFailure, "routing planner returned non-JSON", err)
	}

	return normalizeRouteResponse(raw)
}

func departureISO(startMinute int) string {
	now := time.Now()
	hour, minute := startMinute/60, startMinute%60
	departure := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if departure.Before(now) {
		departure = departure.AddDate(0, 0, 1)
	}
	return departure.Format("2006-01-02T15:04-07:00")
}

var isoDurationPattern = regexp.MustCompile(`(?i)^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// durationMinutes implements original_source's _duration_minutes: numeric
// values are seconds, strings may be ISO-8601 durations or bare seconds.
func durationMinutes(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return roundMinutes(v), true
	case string:
		trimmed := strings.ToUpper(strings.TrimSpace(v))
		if trimmed == "" {
			return 0, false
		}
		if m := isoDurationPattern.FindStringSubmatch(trimmed); m != nil {
			hours := atoiOr(m[1], 0)
			minutes := atoiOr(m[2], 0)
			seconds := atoiOr(m[3], 0)
			total := hours*3600 + minutes*60 + seconds
			return roundMinutes(float64(total)), true
		}
		if seconds, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return roundMinutes(seconds), true
		}
	}
	return 0, false
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func roundMinutes(seconds float64) int {
	minutes := int(seconds/60 + 0.5)
	if minutes < 1 {
		return 1
	}
	return minutes
}

func normalizeRouteResponse(raw map[string]any) (Route, error) {
	plan, ok := raw["plan"].(map[string]any)
	if !ok {
		return Route{}, engineerrors.New(engineerrors.KindRouteGenerationFailure, "routing planner response did not include a plan")
	}

	legs := legsFromEdges(plan)
	itineraryDuration, itineraryHasDuration := 0, false
	if legs == nil {
		legs, itineraryDuration, itineraryHasDuration = legsFromItineraries(plan)
	}
	if len(legs) == 0 {
		return Route{}, engineerrors.New(engineerrors.KindRouteGenerationFailure, "routing planner itinerary did not include legs")
	}

	var segments []Segment
	var coordinates []entity.Point
	totalMinutes := 0
	hasDuration := false

	for _, legAny := range legs {
		leg, ok := legAny.(map[string]any)
		if !ok {
			continue
		}
		mode := strings.ToUpper(stringField(leg, "mode"))
		segmentType := entity.TransportTransit
		if mode == "WALK" {
			segmentType = entity.TransportWalk
		}

		geometry, _ := leg["legGeometry"].(map[string]any)
		encoded := ""
		if geometry != nil {
			encoded = stringField(geometry, "points")
		}
		if encoded == "" {
			continue
		}
		points := decodePolyline(encoded)
		if len(points) < 2 {
			continue
		}

		route, _ := leg["route"].(map[string]any)
		shortName, longName := "", ""
		if route != nil {
			shortName = stringField(route, "shortName")
			longName = stringField(route, "longName")
		}
		label := longName
		if label == "" {
			label = shortName
		}
		transitLine := ""
		if segmentType == entity.TransportTransit {
			transitLine = shortName
		}

		durationMin, hasMin := durationMinutes(leg["duration"])
		if hasMin {
			totalMinutes += durationMin
			hasDuration = true
		}

		segments = append(segments, Segment{
			Type:            segmentType,
			Coordinates:     points,
			Label:           label,
			TransitLine:     transitLine,
			DurationMinutes: durationMin,
			HasDuration:     hasMin,
		})
		for _, p := range points {
			if len(coordinates) == 0 || coordinates[len(coordinates)-1] != p {
				coordinates = append(coordinates, p)
			}
		}
	}

	if len(segments) == 0 || len(coordinates) < 2 {
		return Route{}, engineerrors.New(engineerrors.KindRouteGenerationFailure, "routing planner returned no usable route geometry")
	}

	if hasDuration {
		return Route{Segments: segments, Coordinates: coordinates, TotalDurationMinutes: totalMinutes, HasDuration: true}, nil
	}
	return Route{Segments: segments, Coordinates: coordinates, TotalDurationMinutes: itineraryDuration, HasDuration: itineraryHasDuration}, nil
}

func legsFromEdges(plan map[string]any) []any {
	edges, ok := plan["edges"].([]any)
	if !ok || len(edges) == 0 {
		return nil
	}
	firstEdge, ok := edges[0].(map[string]any)
	if !ok {
		return nil
	}
	node, ok := firstEdge["node"].(map[string]any)
	if !ok {
		return nil
	}
	legs, _ := node["legs"].([]any)
	return legs
}

func legsFromItineraries(plan map[string]any) ([]any, int, bool) {
	itineraries, ok := plan["itineraries"].([]any)
	if !ok || len(itineraries) == 0 {
		return nil, 0, false
	}
	first, ok := itineraries[0].(map[string]any)
	if !ok {
		return nil, 0, false
	}
	legs, _ := first["legs"].([]any)
	minutes, has := durationMinutes(first["duration"])
	return legs, minutes, has
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// decodePolyline decodes a Google-encoded polyline (the format OTP's
// legGeometry.points uses) into coordinates.
func decodePolyline(encoded string) []entity.Point {
	var points []entity.Point
	index, lat, lng := 0, 0, 0
	length := len(encoded)

	for index < length {
		deltaLat, nextIndex := decodeSignedValue(encoded, index)
		index = nextIndex
		lat += deltaLat

		deltaLng, nextIndex2 := decodeSignedValue(encoded, index)
		index = nextIndex2
		lng += deltaLng

		points = append(points, entity.Point{Lat: float64(lat) / 1e5, Lng: float64(lng) / 1e5})
	}
	return points
}

func decodeSignedValue(encoded string, index int) (int, int) {
	shift, result := 0, 0
	for {
		if index >= len(encoded) {
			break
		}
		value := int(encoded[index]) - 63
		index++
		result |= (value & 0x1F) << shift
		shift += 5
		if value < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}
