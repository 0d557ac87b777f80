package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/pkg/geospatial"
)

// POIRepo implements ports.POIRepository. Proximity search uses a lat/lon
// bounding box in SQL and exact haversine filtering in Go.
type POIRepo struct {
	db *DB
}

func NewPOIRepo(db *DB) *POIRepo {
	return &POIRepo{db: db}
}

const poiColumns = `id, kind, name, category, lat, lon, tags, description, rating`

func (r *POIRepo) UpsertBatch(ctx context.Context, pois []domain.POI) error {
	batch := &pgx.Batch{}
	for _, p := range pois {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags of %s: %w", p.ID, err)
		}
		batch.Queue(`
			INSERT INTO pois (`+poiColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE
			SET kind = EXCLUDED.kind, name = EXCLUDED.name, category = EXCLUDED.category,
			    lat = EXCLUDED.lat, lon = EXCLUDED.lon, tags = EXCLUDED.tags,
			    description = EXCLUDED.description, rating = EXCLUDED.rating, updated_at = now()
		`, p.ID, p.Kind, p.Name, p.Category, p.Location.Lat, p.Location.Lon, tags, p.Description, p.Rating)
	}

	if err := r.db.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert pois: %w", err)
	}
	return nil
}

// GetByIDs returns the POIs in the order of ids. Unknown ids are skipped.
func (r *POIRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.POI, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+poiColumns+` FROM pois WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get pois: %w", err)
	}
	found, err := scanPOIs(rows)
	if err != nil {
		return nil, err
	}

	byID := lo.SliceToMap(found, func(p domain.POI) (string, domain.POI) { return p.ID, p })
	out := make([]domain.POI, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *POIRepo) FindNearby(ctx context.Context, center domain.GeoPoint, radiusKm float64, limit int) ([]domain.POI, error) {
	box := geospatial.BoundingBox(center, radiusKm)
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+poiColumns+` FROM pois
		WHERE lat BETWEEN $1 AND $3 AND lon BETWEEN $2 AND $4
	`, box.MinLat, box.MinLon, box.MaxLat, box.MaxLon)
	if err != nil {
		return nil, fmt.Errorf("find nearby pois: %w", err)
	}
	candidates, err := scanPOIs(rows)
	if err != nil {
		return nil, err
	}
	return rankByDistance(candidates, center, radiusKm, limit), nil
}

// rankByDistance keeps POIs within radiusKm of center, nearest first, with
// Distance filled in.
func rankByDistance(pois []domain.POI, center domain.GeoPoint, radiusKm float64, limit int) []domain.POI {
	out := make([]domain.POI, 0, len(pois))
	for _, p := range pois {
		d := geospatial.Haversine(center, p.Location)
		if d > radiusKm {
			continue
		}
		p.Distance = &d
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Distance < *out[j].Distance })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func scanPOIs(rows pgx.Rows) ([]domain.POI, error) {
	defer rows.Close()

	var pois []domain.POI
	for rows.Next() {
		var (
			p    domain.POI
			tags []byte
		)
		if err := rows.Scan(&p.ID, &p.Kind, &p.Name, &p.Category, &p.Location.Lat, &p.Location.Lon, &tags, &p.Description, &p.Rating); err != nil {
			return nil, fmt.Errorf("scan poi: %w", err)
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &p.Tags); err != nil {
				return nil, fmt.Errorf("decode tags of %s: %w", p.ID, err)
			}
		}
		pois = append(pois, p)
	}
	return pois, rows.Err()
}
