package poifeed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/waypath/internal/pkg/poifeed"
)

func TestDecode_FeatureCollection(t *testing.T) {
	data := []byte(`{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "id": "node/1001",
	     "geometry": {"type": "Point", "coordinates": [85.3075, 27.7045]},
	     "properties": {"name": "Kathmandu Durbar Square", "historic": "yes", "tourism": "attraction", "rating": "4.6", "wikidata": "Q1"}},
	    {"type": "Feature",
	     "geometry": {"type": "Point", "coordinates": [85.3240, 27.6710]},
	     "properties": {"@id": "node/1002", "name": "Thamel Kitchen", "amenity": "restaurant"}},
	    {"type": "Feature", "id": "way/7",
	     "geometry": {"type": "LineString", "coordinates": [[85.30, 27.70], [85.31, 27.71]]},
	     "properties": {"name": "Freak Street"}},
	    {"type": "Feature", "id": "node/1003",
	     "geometry": {"type": "Point", "coordinates": [85.31, 27.70]},
	     "properties": {"amenity": "bench"}}
	  ]
	}`)

	pois, skipped, err := poifeed.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, pois, 2)

	durbar := pois[0]
	assert.Equal(t, "node/1001", durbar.ID)
	assert.Equal(t, "node", durbar.Kind)
	assert.Equal(t, "Kathmandu Durbar Square", durbar.Name)
	assert.Equal(t, "attraction", durbar.Category)
	assert.InDelta(t, 27.7045, durbar.Location.Lat, 1e-9)
	assert.InDelta(t, 85.3075, durbar.Location.Lon, 1e-9)
	require.NotNil(t, durbar.Rating)
	assert.InDelta(t, 4.6, *durbar.Rating, 1e-9)
	assert.Equal(t, "Q1", durbar.Tags["wikidata"])
	assert.NotContains(t, durbar.Tags, "name")

	assert.Equal(t, "node/1002", pois[1].ID)
	assert.Equal(t, "restaurant", pois[1].Category)
}

func TestDecode_Array(t *testing.T) {
	data := []byte(`[
	  {"id": "h1", "name": "Swayambhunath", "category": "religious", "location": {"lat": 27.7149, "lon": 85.2904}},
	  {"id": "", "name": "No id", "location": {"lat": 27.7, "lon": 85.3}},
	  {"id": "h3", "name": "Nowhere", "location": {"lat": 0, "lon": 0}}
	]`)

	pois, skipped, err := poifeed.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, pois, 1)
	assert.Equal(t, "h1", pois[0].ID)
}

func TestDecode_Invalid(t *testing.T) {
	_, _, err := poifeed.Decode([]byte(`{"type": "Point"`))
	assert.Error(t, err)
}
