// Package poifeed decodes POI files for bulk loading. A file is either a
// JSON array of POIs or a GeoJSON FeatureCollection of Point features, such
// as an Overpass export.
package poifeed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/samber/lo"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// categoryKeys are the OSM tags that name a POI's category, in priority order.
var categoryKeys = []string{"tourism", "historic", "leisure", "amenity", "shop", "natural"}

// Decode parses data as a POI array or a FeatureCollection. Features without
// a point geometry or a name are skipped; the second return value counts them.
func Decode(data []byte) ([]domain.POI, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pois []domain.POI
		if err := json.Unmarshal(trimmed, &pois); err != nil {
			return nil, 0, fmt.Errorf("decode poi array: %w", err)
		}
		valid := lo.Filter(pois, func(p domain.POI, _ int) bool { return p.ID != "" && p.Location.Valid() })
		return valid, len(pois) - len(valid), nil
	}

	fc, err := geojson.UnmarshalFeatureCollection(trimmed)
	if err != nil {
		return nil, 0, fmt.Errorf("decode feature collection: %w", err)
	}

	pois := make([]domain.POI, 0, len(fc.Features))
	skipped := 0
	for _, f := range fc.Features {
		p, ok := fromFeature(f)
		if !ok {
			skipped++
			continue
		}
		pois = append(pois, p)
	}
	return pois, skipped, nil
}

func fromFeature(f *geojson.Feature) (domain.POI, bool) {
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		return domain.POI{}, false
	}

	tags := make(map[string]string, len(f.Properties))
	for k, v := range f.Properties {
		switch v := v.(type) {
		case string:
			tags[k] = v
		case float64:
			tags[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			tags[k] = strconv.FormatBool(v)
		}
	}

	p := domain.POI{
		ID:          featureID(f, tags),
		Name:        tags["name"],
		Category:    tags["category"],
		Location:    domain.GeoPoint{Lat: pt.Lat(), Lon: pt.Lon()},
		Description: tags["description"],
	}
	if p.ID == "" || p.Name == "" || !p.Location.Valid() {
		return domain.POI{}, false
	}
	if kind, _, ok := strings.Cut(p.ID, "/"); ok {
		p.Kind = kind
	}
	if p.Category == "" {
		for _, k := range categoryKeys {
			if v := tags[k]; v != "" && v != "yes" {
				p.Category = v
				break
			}
		}
	}
	if r, err := strconv.ParseFloat(tags["rating"], 64); err == nil {
		p.Rating = &r
	}
	for _, k := range []string{"id", "@id", "name", "category", "description", "rating"} {
		delete(tags, k)
	}
	if len(tags) > 0 {
		p.Tags = tags
	}
	return p, true
}

// featureID prefers the feature id and falls back to the id properties.
// Overpass ids look like "node/123" and keep their element type prefix.
func featureID(f *geojson.Feature, tags map[string]string) string {
	var id string
	switch v := f.ID.(type) {
	case string:
		id = v
	case float64:
		id = strconv.FormatInt(int64(v), 10)
	}
	if id == "" {
		id = tags["@id"]
	}
	if id == "" {
		id = tags["id"]
	}
	return strings.TrimSpace(id)
}
