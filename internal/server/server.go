// Package server wires the HTTP API over the planning core.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vivi-ai/vivi-planner/config"
	"github.com/vivi-ai/vivi-planner/internal/catalog"
	"github.com/vivi-ai/vivi-planner/internal/geo"
	"github.com/vivi-ai/vivi-planner/internal/planner"
	"github.com/vivi-ai/vivi-planner/internal/reasoner"
	"github.com/vivi-ai/vivi-planner/internal/store"
	"github.com/vivi-ai/vivi-planner/internal/taste"
	"github.com/vivi-ai/vivi-planner/internal/telemetry"
)

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Run builds every dependency from config and serves until the listener stops.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Validator = &requestValidator{v: validator.New()}

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })

	var tele *telemetry.Telemetry
	if cfg.Telemetry.Enabled {
		reg := prometheus.NewRegistry()
		tele = telemetry.New(reg)
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	ctx := context.Background()

	// Storage: Postgres when configured, in-memory otherwise. The in-memory
	// store keeps the demo runnable with zero infrastructure.
	var st store.Store
	if cfg.Storage.Postgres.Configured() {
		dsn, err := cfg.Storage.Postgres.DSN()
		if err != nil {
			return err
		}
		if err := Migrate("file://migrations", dsn, "up", 0); err != nil {
			log.Printf("migrations skipped: %v", err)
		}
		pg, err := store.NewWithDSN(ctx, dsn)
		if err != nil {
			return err
		}
		st = pg
	} else {
		log.Printf("postgres not configured, using in-memory store")
		st = store.NewMemory()
	}

	// Catalog cache: Redis when configured, in-process otherwise.
	var cache catalog.Cache
	if cfg.Storage.Redis.Configured() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s): %w", cfg.Storage.Redis.Addr(), err)
		}
		cache = catalog.NewRedisCache(rdb, cfg.Catalog.CacheTTL)
	} else {
		cache = catalog.NewMemoryCache(cfg.Catalog.CacheTTL)
	}

	providers := []catalog.Provider{catalog.NewMock(cfg.Catalog.MaxResults)}
	if cfg.Catalog.Eventbrite.APIKey != "" {
		providers = append(providers, catalog.NewEventbrite(cfg.Catalog.Eventbrite))
	}
	cat := catalog.New(providers, cache, cfg.Catalog.MaxResults, tele)

	// The reasoner is optional; without it the planner runs its fixed pipeline.
	var step planner.StepReasoner
	if cfg.LLM.APIKey != "" {
		r, err := reasoner.NewOpenAI(cfg.LLM)
		if err != nil {
			return err
		}
		step = r
	} else if cfg.Planner.Agentic {
		log.Printf("planner.agentic set but no llm.api_key, falling back to pipeline mode")
	}

	tastes := taste.NewSource(st, cfg.Catalog.CacheTTL)
	orch := planner.NewOrchestrator(cfg.Planner, tastes, cat, step, tele)

	explorer, err := geo.NewExplorer(cfg.Geo)
	if err != nil {
		return err
	}

	api := e.Group("/api")
	ph := &PlanHandler{Orch: orch}
	ph.Register(api)
	uh := &UsersHandler{Store: st}
	uh.Register(api.Group("/users"))
	vh := &VisitsHandler{Store: st, Explorer: explorer}
	vh.Register(api.Group("/visits"))
	gh := &ProgressHandler{Store: st, Explorer: explorer}
	gh.Register(api.Group("/progress"))
	eh := &EventsHandler{Catalog: cat, Planner: cfg.Planner}
	eh.Register(api.Group("/events"))

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":8000"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
