package http

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/waypath/internal/adapters/postgres"
	"github.com/samirrijal/waypath/internal/core/planner"
	"github.com/samirrijal/waypath/internal/core/ports"
	"github.com/samirrijal/waypath/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Planner     *usecases.PlannerService
	Edits       *usecases.EditService
	Evaluations *usecases.EvaluationService
	Exports     *usecases.ExportService
	Engine      *planner.Engine
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       ports.CacheService

	// RequestTimeout bounds each REST handler; zero means 15s.
	RequestTimeout time.Duration
	// RateLimit is the number of requests per minute per IP; zero means 120.
	RateLimit int
	// OpenAPIPath is served under /docs; empty means api/openapi.yaml.
	OpenAPIPath string
}
