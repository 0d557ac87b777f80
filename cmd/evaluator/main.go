package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/waypath/internal/adapters/nats"
	"github.com/samirrijal/waypath/internal/adapters/postgres"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/ports"
	"github.com/samirrijal/waypath/internal/core/usecases"
	"github.com/samirrijal/waypath/internal/pkg/config"
	"github.com/samirrijal/waypath/internal/pkg/logging"
	"github.com/samirrijal/waypath/internal/pkg/telemetry"
	"github.com/samirrijal/waypath/internal/workflows"
)

func main() {
	cfg, err := config.Load("waypath-evaluator")
	if err != nil {
		log.Fatalf("config: %v", err)
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

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats publisher unavailable, evaluations will not be announced", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	evaluations := usecases.NewEvaluationService(planner.NewEngine(), postgres.NewItineraryRepo(db), postgres.NewEvaluationRepo(db))

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.EvaluationWorkflow)
	w.RegisterActivity(&workflows.EvaluationActivities{
		Evaluations: evaluations,
		Publisher:   publisher,
	})

	// Every stored version announced on the bus gets one evaluation run.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, "itinerary-evaluator", natsadapter.SubjectPrefix+".>")
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()
	if err := sub.SubscribeItineraryEvents(ctx, workflows.EventTrigger(c, cfg.Temporal.TaskQueue)); err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("evaluator worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
