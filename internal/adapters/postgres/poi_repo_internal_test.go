package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/waypath/internal/core/domain"
)

func TestRankByDistance(t *testing.T) {
	center := domain.GeoPoint{Lat: 27.7045, Lon: 85.3075}
	pois := []domain.POI{
		{ID: "far", Location: domain.GeoPoint{Lat: 27.7860, Lon: 85.3075}},  // ~9 km
		{ID: "near", Location: domain.GeoPoint{Lat: 27.7050, Lon: 85.3094}}, // ~0.2 km
		{ID: "mid", Location: domain.GeoPoint{Lat: 27.6710, Lon: 85.3240}},  // ~4 km
	}

	got := rankByDistance(pois, center, 5, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	require.NotNil(t, got[0].Distance)
	assert.Less(t, *got[0].Distance, 0.5)

	assert.Len(t, rankByDistance(pois, center, 20, 1), 1)
	assert.Nil(t, pois[0].Distance)
}
