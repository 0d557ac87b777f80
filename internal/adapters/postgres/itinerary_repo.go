package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/samirrijal/waypath/internal/core/domain"
)

const (
	pgUniqueViolation = "23505"
	pgInvalidText     = "22P02"
)

// ItineraryRepo implements ports.ItineraryRepository. Each version is stored
// whole as JSONB; trips.current_version points at the latest one.
type ItineraryRepo struct {
	db *DB
}

func NewItineraryRepo(db *DB) *ItineraryRepo {
	return &ItineraryRepo{db: db}
}

func (r *ItineraryRepo) Create(ctx context.Context, trip *domain.Trip, it *domain.Itinerary) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal itinerary: %w", err)
	}

	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO trips (id, city, pace, days, start_date, current_version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		`, trip.ID, trip.City, string(trip.Pace), trip.Days, trip.StartDate.Time(), it.Metadata.Version, trip.CreatedAt)
		if err != nil {
			return mapWriteErr(err, "insert trip")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO itinerary_versions (trip_id, version, itinerary, feasible, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, trip.ID, it.Metadata.Version, data, allFeasible(it), trip.CreatedAt)
		if err != nil {
			return mapWriteErr(err, "insert itinerary version")
		}
		return nil
	})
}

func (r *ItineraryRepo) SaveVersion(ctx context.Context, tripID string, expectedVersion int, it *domain.Itinerary) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("marshal itinerary: %w", err)
	}
	next := expectedVersion + 1

	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE trips SET current_version = $3, updated_at = now()
			WHERE id = $1 AND current_version = $2
		`, tripID, expectedVersion, next)
		if err != nil {
			return mapWriteErr(err, "advance trip version")
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, tripID).Scan(&exists); err != nil {
				return fmt.Errorf("check trip %s: %w", tripID, err)
			}
			if !exists {
				return fmt.Errorf("trip %s: %w", tripID, domain.ErrNotFound)
			}
			return fmt.Errorf("trip %s at version %d: %w", tripID, expectedVersion, domain.ErrVersionConflict)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO itinerary_versions (trip_id, version, itinerary, feasible)
			VALUES ($1, $2, $3, $4)
		`, tripID, next, data, allFeasible(it))
		if err != nil {
			return mapWriteErr(err, "insert itinerary version")
		}
		return nil
	})
}

func (r *ItineraryRepo) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, city, pace, days, start_date, current_version, created_at, updated_at
		FROM trips WHERE id = $1
	`, tripID)
	if err != nil {
		return nil, mapReadErr(err, "trip "+tripID)
	}
	trips, err := collectTrips(rows)
	if err != nil {
		return nil, mapReadErr(err, "trip "+tripID)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("trip %s: %w", tripID, domain.ErrNotFound)
	}
	return &trips[0], nil
}

func (r *ItineraryRepo) Latest(ctx context.Context, tripID string) (*domain.Itinerary, error) {
	var data []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT v.itinerary
		FROM trips t
		JOIN itinerary_versions v ON v.trip_id = t.id AND v.version = t.current_version
		WHERE t.id = $1
	`, tripID).Scan(&data)
	if err != nil {
		return nil, mapReadErr(err, "itinerary "+tripID)
	}
	return decodeItinerary(data)
}

func (r *ItineraryRepo) GetVersion(ctx context.Context, tripID string, version int) (*domain.Itinerary, error) {
	var data []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT itinerary FROM itinerary_versions WHERE trip_id = $1 AND version = $2
	`, tripID, version).Scan(&data)
	if err != nil {
		return nil, mapReadErr(err, fmt.Sprintf("itinerary %s v%d", tripID, version))
	}
	return decodeItinerary(data)
}

func (r *ItineraryRepo) ListTrips(ctx context.Context, limit, offset int) ([]domain.Trip, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, city, pace, days, start_date, current_version, created_at, updated_at
		FROM trips ORDER BY created_at DESC, id LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		var (
			t     domain.Trip
			pace  string
			start time.Time
		)
		if err := rows.Scan(&t.ID, &t.City, &pace, &t.Days, &start, &t.CurrentVersion, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Pace = domain.PaceName(pace)
		t.StartDate = domain.DateOf(start)
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func decodeItinerary(data []byte) (*domain.Itinerary, error) {
	var it domain.Itinerary
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("decode itinerary: %w", err)
	}
	return &it, nil
}

func allFeasible(it *domain.Itinerary) bool {
	for _, d := range it.Days {
		if !d.Feasible {
			return false
		}
	}
	return true
}

func mapWriteErr(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%s: %w", what, domain.ErrVersionConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// mapReadErr turns missing rows and malformed ids into domain.ErrNotFound.
func mapReadErr(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidText {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return notFound(err, what)
}
