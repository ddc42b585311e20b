package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/meethub/eventsvc/internal/client/userclient"
	"github.com/meethub/eventsvc/internal/config"
	"github.com/meethub/eventsvc/internal/http/handlers"
	"github.com/meethub/eventsvc/internal/http/middlewares"
	"github.com/meethub/eventsvc/internal/observability"
	"github.com/meethub/eventsvc/internal/redisclient"
	"github.com/meethub/eventsvc/internal/repo/postgres"
	"github.com/meethub/eventsvc/internal/service/events"
	"github.com/meethub/eventsvc/internal/service/teams"
)

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, rdb *redisclient.Client, reg *prometheus.Registry) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	if rdb != nil {
		limiter := middlewares.NewRateLimiter(rdb.Raw(), cfg.RateLimit, cfg.RateWindow)
		r.Use(limiter.Middleware(middlewares.KeyByUserOrIP))
	}

	// health

	pings := map[string]func() error{}

	if pool != nil {
		pings["postgres"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return pool.Ping(ctx)
		}
	}

	if rdb != nil {
		pings["redis"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return rdb.Ping(ctx)
		}
	}

	h := handlers.NewHealthHandler(pings)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up stores, collaborators and policy engines

	eventsRepo := postgres.NewEventsRepo(pool, prom)
	teamRepo := postgres.NewTeamMembersRepo(pool, prom)
	users := userclient.New(cfg.UserServiceURL, cfg.UserServiceTimeout, prom)

	eventSvc := events.NewService(eventsRepo, users, events.VerifyPolicy(cfg.UserVerifyPolicy), log)
	teamSvc := teams.NewService(teamRepo, eventSvc, log)

	eventsHandler := handlers.NewEventsHandler(eventSvc)
	teamsHandler := handlers.NewTeamsHandler(teamSvc)

	// the list endpoint carries no identity header
	r.GET("/events", eventsHandler.ListEvents)

	authed := r.Group("/", middlewares.RequireIdentity())

	authed.POST("/events", eventsHandler.CreateEvent)
	authed.GET("/events/:id", eventsHandler.GetEventByID)
	authed.PATCH("/events/:id", eventsHandler.UpdateEvent)
	authed.DELETE("/events/:id", eventsHandler.DeleteEvent)

	// team management
	authed.POST("/events/teams", teamsHandler.AddTeamMember)
	authed.GET("/events/:id/teams", teamsHandler.GetTeamByEventID)
	authed.PATCH("/events/:id/teams/members/:memberId", teamsHandler.UpdateTeamMember)
	authed.DELETE("/events/:id/teams/members/:memberId", teamsHandler.DeleteTeamMember)

	return r
}
