// Package planner is the deterministic itinerary engine: it clusters POIs,
// schedules them into time blocks, applies targeted edits and checks the
// results. It performs no I/O and never mutates its inputs.
package planner

import (
	"time"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// Engine is the entry point used by the service layer. It is safe for
// concurrent use.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for itinerary creation stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// BuildItinerary builds version 1 of an itinerary.
func (e *Engine) BuildItinerary(req BuildRequest) (*domain.Itinerary, error) {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = e.now().UTC()
	}
	return BuildItinerary(req)
}

// ApplyEdit applies a single edit instruction.
func (e *Engine) ApplyEdit(it *domain.Itinerary, ins domain.EditInstruction) (*domain.EditResult, error) {
	return ApplyEdit(it, ins)
}

// CheckFeasibility checks one day against the named pace.
func (e *Engine) CheckFeasibility(day domain.ItineraryDay, pace domain.PaceName) domain.FeasibilityResult {
	return CheckFeasibility(day, pace)
}

// CheckDiff verifies that edited differs from original only at the target.
func (e *Engine) CheckDiff(original, edited *domain.Itinerary, targetDay int, targetBlock *domain.BlockKind) domain.DiffResult {
	return CheckDiff(original, edited, targetDay, targetBlock)
}
