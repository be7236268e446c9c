package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kawanjalan/commute-matcher/internal/matching/decision"
	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/lifecycle"
	"github.com/kawanjalan/commute-matcher/internal/store"
)

// Router wires the §6.2 REST contract onto a gin engine.
type Router struct {
	Controller *lifecycle.Controller
	Decisions  *decision.Service
	Store      store.Store
	Clock      entity.Clock
}

func (r *Router) clock() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return entity.Now()
}

// Register mounts the matching routes under group g, behind AuthMiddleware.
func (r *Router) Register(g gin.IRouter) {
	g.POST("/matching/run", r.runCycle)
	g.GET("/matching/suggestions", r.listSuggestions)
	g.POST("/matching/suggestions/:id/accept", r.accept)
	g.POST("/matching/suggestions/:id/pass", r.pass)
	g.GET("/matching/active", r.listActive)
	g.GET("/matching/assignments", r.listAssignments)
}

func (r *Router) runCycle(c *gin.Context) {
	runQueue, _ := strconv.ParseBool(c.Query("run_queue"))
	result, err := r.Controller.RunCycle(c.Request.Context(), runQueue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"suggestions_individual": result.SuggestionsIndividual,
		"suggestions_group":      result.SuggestionsGroup,
		"assignments_individual": result.AssignmentsIndividual,
		"assignments_group":      result.AssignmentsGroup,
	})
}

func parseKind(c *gin.Context) (entity.MatchKind, bool) {
	switch c.Query("kind") {
	case "individual":
		return entity.KindIndividual, true
	case "group":
		return entity.KindGroup, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be 'individual' or 'group'"})
		return "", false
	}
}

func (r *Router) listSuggestions(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	matches, err := r.Decisions.ListSuggestions(c.Request.Context(), callerUserID(c), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(matches))
}

func (r *Router) accept(c *gin.Context) {
	match, err := r.Decisions.Accept(c.Request.Context(), callerUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(match))
}

func (r *Router) pass(c *gin.Context) {
	match, err := r.Decisions.Pass(c.Request.Context(), callerUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(match))
}

func (r *Router) listActive(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	active := entity.StatusActive
	matches, err := r.Store.FindMatches(c.Request.Context(), store.MatchFilter{
		Kind:     &kind,
		Statuses: []entity.MatchStatus{active},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(filterParticipant(matches, callerUserID(c))))
}

func (r *Router) listAssignments(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	dateStr := c.Query("date")
	if dateStr == "" {
		dateStr = entity.DateOnly(r.clock().AddDate(0, 0, 1)).Format("2006-01-02")
	}

	source := entity.SourceQueueAssigned
	matches, err := r.Store.FindMatches(c.Request.Context(), store.MatchFilter{
		Kind:        &kind,
		Source:      &source,
		CommuteDate: &dateStr,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(filterParticipant(matches, callerUserID(c))))
}

func filterParticipant(matches []entity.Match, userID string) []entity.Match {
	var filtered []entity.Match
	for _, m := range matches {
		if m.HasParticipant(userID) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
