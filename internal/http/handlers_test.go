package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawanjalan/commute-matcher/internal/matching/decision"
	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/lifecycle"
	"github.com/kawanjalan/commute-matcher/internal/store"
	"github.com/kawanjalan/commute-matcher/internal/store/storemock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(s store.Store) (*gin.Engine, *Router) {
	fixed := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	r := &Router{
		Controller: &lifecycle.Controller{Store: s, Config: entity.DefaultMatchingConfig()},
		Decisions:  &decision.Service{Store: s, Config: entity.DefaultMatchingConfig().Service, Clock: func() time.Time { return fixed }},
		Store:      s,
		Clock:      func() time.Time { return fixed },
	}
	engine := gin.New()
	group := engine.Group("/api/v1")
	group.Use(func(c *gin.Context) { c.Set(userIDContextKey, "alice"); c.Next() })
	r.Register(group)
	return engine, r
}

func TestListActive_FiltersToCallerAndMarshalsResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStore := storemock.NewMockStore(ctrl)

	active := entity.StatusActive
	individual := entity.KindIndividual
	mockStore.EXPECT().
		FindMatches(gomock.Any(), store.MatchFilter{Kind: &individual, Statuses: []entity.MatchStatus{active}}).
		Return([]entity.Match{
			{ID: "m1", Kind: entity.KindIndividual, Status: entity.StatusActive, Participants: []string{"alice", "bob"}},
			{ID: "m2", Kind: entity.KindIndividual, Status: entity.StatusActive, Participants: []string{"carol", "dave"}},
		}, nil)

	engine, _ := newTestRouter(mockStore)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/matching/active?kind=individual", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"m1"`)
	assert.NotContains(t, rec.Body.String(), `"id":"m2"`)
}

func TestListActive_MissingKindIsBadRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStore := storemock.NewMockStore(ctrl)

	engine, _ := newTestRouter(mockStore)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/matching/active", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccept_StoreErrorMapsToNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStore := storemock.NewMockStore(ctrl)
	mockStore.EXPECT().GetMatch(gomock.Any(), "missing").Return(entity.Match{}, assertNotFoundErr)

	engine, _ := newTestRouter(mockStore)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/matching/suggestions/missing/accept", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunCycle_ReturnsCountsFromController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStore := storemock.NewMockStore(ctrl)
	mockStore.EXPECT().FindCommutes(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	mockStore.EXPECT().FindProfiles(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	mockStore.EXPECT().FindMatches(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	engine, _ := newTestRouter(mockStore)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/matching/run", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"suggestions_individual":0`)
}

var assertNotFoundErr = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "not found" }
