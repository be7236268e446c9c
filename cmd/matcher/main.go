// Command matcher runs the commute-matching engine: an HTTP server exposing
// the §6.2 REST contract plus a background loop that drives matching cycles
// under a Redis leader lease, mirroring the teacher's cmd/match/main.go
// wiring order (config -> stores -> gateways -> usecase -> handlers ->
// graceful shutdown).
package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kawanjalan/commute-matcher/internal/authid"
	"github.com/kawanjalan/commute-matcher/internal/chatgw"
	"github.com/kawanjalan/commute-matcher/internal/commute"
	"github.com/kawanjalan/commute-matcher/internal/config"
	httpapi "github.com/kawanjalan/commute-matcher/internal/http"
	"github.com/kawanjalan/commute-matcher/internal/logging"
	"github.com/kawanjalan/commute-matcher/internal/matching/decision"
	"github.com/kawanjalan/commute-matcher/internal/matching/entity"
	"github.com/kawanjalan/commute-matcher/internal/matching/lease"
	"github.com/kawanjalan/commute-matcher/internal/matching/lifecycle"
	"github.com/kawanjalan/commute-matcher/internal/routing"
	"github.com/kawanjalan/commute-matcher/internal/store/postgres"
)

const leaseKey = "commute-matcher:cycle-leader"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.New("info")
	log.Info("starting commute-matcher")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, postgres.Config{
		Host: cfg.DB.Host, Port: cfg.DB.Port, Username: cfg.DB.Username,
		Password: cfg.DB.Password, Database: cfg.DB.Database, SSLMode: cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns, IdleConns: cfg.DB.IdleConns,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	store := postgres.New(pool)

	redisClient, err := lease.NewClient(lease.Config{
		Host: cfg.Redis.Host, Port: cfg.Redis.Port, Password: cfg.Redis.Password,
		DB: cfg.Redis.DB, PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	cycleLease := lease.New(redisClient, leaseKey, 30*time.Second)

	gateway, err := chatgw.Connect(cfg.NATS.URL, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to nats")
	}
	defer gateway.Close()

	routingClient := routing.NewClient(cfg.Routing.BaseURL, cfg.Routing.Timeout)

	issuer := authid.Issuer{Secret: []byte(cfg.JWT.Secret), Name: cfg.JWT.Issuer, ExpirationMinutes: cfg.JWT.Expiration}

	controller := &lifecycle.Controller{Store: store, Config: cfg.Matching, Notifier: gateway}
	decisions := &decision.Service{Store: store, Config: cfg.Matching.Service, Notifier: gateway}
	commutes := &commute.Service{Store: store, Routing: routingClient}

	go runCycleLoop(ctx, log, controller, cycleLease, cfg.CycleInterval)

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/api/v1")
	api.Use(httpapi.AuthMiddleware(issuer))

	httpRouter := &httpapi.Router{Controller: controller, Decisions: decisions, Store: store}
	httpRouter.Register(api)
	registerCommuteRoutes(api, commutes)

	srv := &http.Server{Addr: cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port), Handler: router}

	go func() {
		log.WithField("addr", srv.Addr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
}

// runCycleLoop drives matching cycles on cfg.CycleInterval, guarded by a
// Redis leader lease so only one replica runs a cycle at a time (§5's
// "deployers must serialize cycle execution" note).
func runCycleLoop(ctx context.Context, log *logrus.Logger, controller *lifecycle.Controller, cycleLease *lease.Lease, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	queueTick := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			acquired, err := cycleLease.TryAcquire(ctx)
			if err != nil {
				log.WithError(err).Warn("lease acquisition failed")
				continue
			}
			if !acquired {
				continue
			}

			queueTick++
			runQueue := queueTick%5 == 0
			result, err := controller.RunCycle(ctx, runQueue)
			if err != nil {
				log.WithError(err).Error("matching cycle failed")
			} else {
				log.WithFields(logrus.Fields{
					"suggestions_individual": result.SuggestionsIndividual,
					"suggestions_group":      result.SuggestionsGroup,
					"assignments_individual": result.AssignmentsIndividual,
					"assignments_group":      result.AssignmentsGroup,
				}).Info("matching cycle complete")
			}

			if err := cycleLease.Release(ctx); err != nil {
				log.WithError(err).Warn("lease release failed")
			}
		}
	}
}

func registerCommuteRoutes(g gin.IRouter, svc *commute.Service) {
	g.POST("/commutes", func(c *gin.Context) {
		handleCreateCommute(c, svc)
	})
}

func handleCreateCommute(c *gin.Context, svc *commute.Service) {
	var req createCommuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("user_id")
	id, _ := userID.(string)

	commuteReq := commute.Request{
		StartLat: req.StartLat, StartLng: req.StartLng,
		EndLat: req.EndLat, EndLng: req.EndLng,
		TimeWindow:        entity.TimeWindow{StartMinute: req.StartMinute, EndMinute: req.EndMinute},
		TransportMode:     entity.TransportMode(req.TransportMode),
		MatchPreference:   entity.MatchPreference(req.MatchPreference),
		GroupSizePref:     entity.GroupSizePref{Min: req.GroupSizeMin, Max: req.GroupSizeMax},
		GenderPreference:  entity.GenderPreference(req.GenderPreference),
		EnableQueueFlow:   req.EnableQueueFlow,
		EnableSuggestions: req.EnableSuggestions,
	}

	created, err := svc.Create(c.Request.Context(), id, commuteReq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": created.UserID, "status": created.Status})
}

type createCommuteRequest struct {
	StartLat           float64 `json:"start_lat" binding:"required"`
	StartLng           float64 `json:"start_lng" binding:"required"`
	EndLat             float64 `json:"end_lat" binding:"required"`
	EndLng             float64 `json:"end_lng" binding:"required"`
	StartMinute        int     `json:"start_minute"`
	EndMinute          int     `json:"end_minute"`
	TransportMode      string  `json:"transport_mode"`
	MatchPreference    string  `json:"match_preference"`
	GroupSizeMin       int     `json:"group_size_min"`
	GroupSizeMax       int     `json:"group_size_max"`
	GenderPreference   string  `json:"gender_preference"`
	EnableQueueFlow    bool    `json:"enable_queue_flow"`
	EnableSuggestions  bool    `json:"enable_suggestions"`
}
