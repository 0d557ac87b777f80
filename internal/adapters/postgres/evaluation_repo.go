package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// EvaluationRepo implements ports.EvaluationRepository.
type EvaluationRepo struct {
	db *DB
}

func NewEvaluationRepo(db *DB) *EvaluationRepo {
	return &EvaluationRepo{db: db}
}

func (r *EvaluationRepo) Insert(ctx context.Context, ev *domain.Evaluation) error {
	days, err := json.Marshal(ev.Days)
	if err != nil {
		return fmt.Errorf("marshal evaluation days: %w", err)
	}
	issues, err := json.Marshal(ev.StructuralIssues)
	if err != nil {
		return fmt.Errorf("marshal structural issues: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO evaluations (id, trip_id, version, passed, days, structural_issues, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ev.ID, ev.TripID, ev.Version, ev.Passed, days, issues, ev.CreatedAt)
	if err != nil {
		return mapWriteErr(err, "insert evaluation")
	}
	return nil
}

func (r *EvaluationRepo) ListByTrip(ctx context.Context, tripID string, limit int) ([]domain.Evaluation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, trip_id::text, version, passed, days, structural_issues, created_at
		FROM evaluations WHERE trip_id = $1
		ORDER BY created_at DESC LIMIT $2
	`, tripID, limit)
	if err != nil {
		return nil, mapReadErr(err, "evaluations "+tripID)
	}
	defer rows.Close()

	evals := []domain.Evaluation{}
	for rows.Next() {
		var (
			ev           domain.Evaluation
			days, issues []byte
		)
		if err := rows.Scan(&ev.ID, &ev.TripID, &ev.Version, &ev.Passed, &days, &issues, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		if err := json.Unmarshal(days, &ev.Days); err != nil {
			return nil, fmt.Errorf("decode evaluation days: %w", err)
		}
		if err := json.Unmarshal(issues, &ev.StructuralIssues); err != nil {
			return nil, fmt.Errorf("decode structural issues: %w", err)
		}
		evals = append(evals, ev)
	}
	return evals, rows.Err()
}
