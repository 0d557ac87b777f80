package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/waypath/internal/pkg/metrics"
)

type fakeStat struct{ acquired, idle, total int32 }

func (f fakeStat) AcquiredConns() int32 { return f.acquired }
func (f fakeStat) IdleConns() int32     { return f.idle }
func (f fakeStat) TotalConns() int32    { return f.total }

func TestHandler_ExposesRequestMetrics(t *testing.T) {
	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/v1/trips/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", metrics.Handler())

	metrics.UpdateDBPoolMetrics(fakeStat{acquired: 2, idle: 3, total: 5})

	if _, err := app.Test(httptest.NewRequest("GET", "/v1/trips/abc", nil)); err != nil {
		t.Fatalf("request: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	out := string(body)

	for _, want := range []string{
		`waypath_http_requests_total{method="GET",path="/v1/trips/:id",status="200"}`,
		"waypath_db_pool_conns_open 5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
