package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/waypath/internal/adapters/http"
	"github.com/samirrijal/waypath/internal/adapters/memcache"
	natsadapter "github.com/samirrijal/waypath/internal/adapters/nats"
	"github.com/samirrijal/waypath/internal/adapters/postgres"
	"github.com/samirrijal/waypath/internal/adapters/tz"
	"github.com/samirrijal/waypath/internal/adapters/valkey"
	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/ports"
	"github.com/samirrijal/waypath/internal/core/usecases"
	"github.com/samirrijal/waypath/internal/pkg/config"
	"github.com/samirrijal/waypath/internal/pkg/logging"
	"github.com/samirrijal/waypath/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("waypath-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Valkey when reachable, otherwise a per-process cache.
	var cache ports.CacheService
	vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix)
	if err == nil {
		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		err = vc.Ping(pingCtx)
		pingCancel()
		if err != nil {
			vc.Close()
		}
	}
	if err != nil {
		slog.Warn("valkey unavailable, using in-memory cache", "error", err)
		ttl := time.Duration(cfg.Valkey.TTL) * time.Second
		cache = memcache.New(ttl, 2*ttl)
	} else {
		defer vc.Close()
		cache = vc
	}

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events will not be published", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	var zones ports.TimezoneResolver
	if r, err := tz.New(); err != nil {
		slog.Warn("timezone finder unavailable", "error", err)
	} else {
		zones = r
	}

	engine := planner.NewEngine()
	itineraryRepo := postgres.NewItineraryRepo(db)
	poiRepo := postgres.NewPOIRepo(db)
	evalRepo := postgres.NewEvaluationRepo(db)

	plannerSvc := usecases.NewPlannerService(engine, itineraryRepo, poiRepo, cache, publisher, zones, usecases.PlannerLimits{
		DefaultPace: domain.PaceName(cfg.Planner.DefaultPace),
		MaxDays:     cfg.Planner.MaxDays,
		MaxPOIs:     cfg.Planner.MaxPOIs,
	})

	deps := &http.Dependencies{
		Planner:        plannerSvc,
		Edits:          usecases.NewEditService(engine, itineraryRepo, cache, publisher),
		Evaluations:    usecases.NewEvaluationService(engine, itineraryRepo, evalRepo),
		Exports:        usecases.NewExportService(plannerSvc),
		Engine:         engine,
		NATS:           natsConn,
		DB:             db,
		Cache:          cache,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		RateLimit:      cfg.Server.RateLimit,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Waypath API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, If-Match, If-None-Match",
		ExposeHeaders:    "Location, ETag, Link",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
