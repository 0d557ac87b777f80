package planner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
)

var tripStart = domain.NewDate(2024, time.February, 15)

func poi(id, category string, lat, lon float64) domain.POI {
	return domain.POI{
		ID:       id,
		Kind:     "node",
		Name:     "POI " + id,
		Category: category,
		Location: domain.GeoPoint{Lat: lat, Lon: lon},
	}
}

func tagged(p domain.POI, block domain.BlockKind) domain.POI {
	p.Tags = map[string]string{"time_of_day": string(block)}
	return p
}

// kathmanduPOIs is three historic sites a couple of hundred metres apart, a
// fort 9 km north, a restaurant and a cultural village well away from both.
func kathmanduPOIs() []domain.POI {
	return []domain.POI{
		poi("h1", "historic", 27.7045, 85.3075),
		poi("h2", "historic", 27.7050, 85.3094),
		poi("h3", "historic", 27.7036, 85.3090),
		poi("fort", "fort", 27.7860, 85.3075),
		poi("restaurant", "restaurant", 27.6710, 85.3240),
		poi("village", "culture", 27.7045, 85.4300),
	}
}

func buildKathmandu(t *testing.T) *domain.Itinerary {
	t.Helper()
	it, err := planner.BuildItinerary(planner.BuildRequest{
		City:      "Kathmandu",
		POIs:      kathmanduPOIs(),
		Days:      3,
		StartDate: tripStart,
		Pace:      domain.PaceModerate,
	})
	require.NoError(t, err)
	return it
}

// spreadMorning is a one-day fast itinerary whose morning holds three POIs
// roughly 8 km apart.
func spreadMorning(t *testing.T) *domain.Itinerary {
	t.Helper()
	it, err := planner.BuildItinerary(planner.BuildRequest{
		City: "Kathmandu",
		POIs: []domain.POI{
			tagged(poi("a", "park", 27.70, 85.30), domain.BlockMorning),
			tagged(poi("b", "park", 27.70, 85.38), domain.BlockMorning),
			tagged(poi("c", "park", 27.77, 85.30), domain.BlockMorning),
		},
		Days:      1,
		StartDate: tripStart,
		Pace:      domain.PaceFast,
	})
	require.NoError(t, err)
	require.Len(t, it.Days[0].Blocks, 1)
	require.Len(t, it.Days[0].Blocks[0].Activities, 3)
	return it
}

func ptr[T any](v T) *T { return &v }

func activityIDs(b domain.DayBlock) []string {
	ids := make([]string, len(b.Activities))
	for i, a := range b.Activities {
		ids[i] = a.POI.ID
	}
	return ids
}
