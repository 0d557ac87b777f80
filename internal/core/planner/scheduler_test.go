package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/core/planner"
)

func TestScheduleBlock_SequencesWithTravel(t *testing.T) {
	moderate := planner.LookupPace(domain.PaceModerate)
	pois := kathmanduPOIs()[:3]

	block := planner.ScheduleBlock(pois, domain.BlockMorning, domain.NewClock(9, 0), moderate)

	require.Len(t, block.Activities, 3)
	assert.Equal(t, []string{"h1", "h3", "h2"}, activityIDs(block))

	first := block.Activities[0]
	assert.Equal(t, "09:00", first.Start.String())
	assert.Equal(t, "10:00", first.End.String())
	assert.Zero(t, first.TravelTime)

	second := block.Activities[1]
	assert.Equal(t, 20, second.TravelTime)
	assert.Equal(t, "10:20", second.Start.String())
	assert.InDelta(t, 0.18, second.TravelDistanceKm, 0.02)

	assert.Equal(t, "12:40", block.End.String())
	assert.Equal(t, 220, block.Duration)
	assert.Equal(t, 180, block.TotalActivityTime)
	assert.Equal(t, 40, block.TotalTravelTime)
}

func TestScheduleBlock_StopsAtWindowEnd(t *testing.T) {
	relaxed := planner.LookupPace(domain.PaceRelaxed)
	pois := []domain.POI{
		poi("m1", "museum", 27.700, 85.300),
		poi("m2", "museum", 27.701, 85.300),
		poi("m3", "museum", 27.702, 85.300),
	}

	// 180 minute museum visits: only the first fits a 09:30-12:30 window.
	block := planner.ScheduleBlock(pois, domain.BlockMorning, domain.NewClock(9, 30), relaxed)

	require.Len(t, block.Activities, 1)
	assert.Equal(t, "m1", block.Activities[0].POI.ID)
	assert.Equal(t, "12:30", block.End.String())
}

func TestScheduleBlock_LateStartAdmitsNothing(t *testing.T) {
	moderate := planner.LookupPace(domain.PaceModerate)
	block := planner.ScheduleBlock(kathmanduPOIs()[:1], domain.BlockMorning, domain.NewClock(12, 30), moderate)

	assert.Empty(t, block.Activities)
	assert.Zero(t, block.Duration)
}

func TestScheduleDay_PartitionsByTagAndCategory(t *testing.T) {
	moderate := planner.LookupPace(domain.PaceModerate)
	pois := []domain.POI{
		poi("temple", "temple", 27.700, 85.300),
		poi("dinner", "restaurant", 27.701, 85.300),
		poi("garden", "park", 27.702, 85.300),
		tagged(poi("late-museum", "museum", 27.703, 85.300), domain.BlockEvening),
	}

	day := planner.ScheduleDay(1, tripStart, pois, moderate)

	require.Len(t, day.Blocks, 3)
	assert.Equal(t, domain.BlockMorning, day.Blocks[0].Kind)
	assert.Equal(t, []string{"temple"}, activityIDs(day.Blocks[0]))
	assert.Equal(t, []string{"garden"}, activityIDs(day.Blocks[1]))
	assert.ElementsMatch(t, []string{"dinner", "late-museum"}, activityIDs(day.Blocks[2]))
	assert.Equal(t, 4, day.TotalActivities)
	assert.True(t, day.Feasible)
	assert.Empty(t, day.Issues)
}

func TestScheduleDay_CascadesAndWraps(t *testing.T) {
	relaxed := planner.LookupPace(domain.PaceRelaxed)
	pois := []domain.POI{
		tagged(poi("e1", "viewpoint", 27.700, 85.300), domain.BlockEvening),
		tagged(poi("e2", "viewpoint", 27.701, 85.300), domain.BlockEvening),
		tagged(poi("e3", "viewpoint", 27.702, 85.300), domain.BlockEvening),
	}

	day := planner.ScheduleDay(1, tripStart, pois, relaxed)

	// Evening holds two; the third has no later block and wraps to morning.
	require.Len(t, day.Blocks, 2)
	assert.Equal(t, domain.BlockMorning, day.Blocks[0].Kind)
	assert.Equal(t, []string{"e3"}, activityIDs(day.Blocks[0]))
	assert.Equal(t, domain.BlockEvening, day.Blocks[1].Kind)
	assert.Len(t, day.Blocks[1].Activities, 2)
}

func TestScheduleDay_DropsBeyondDailyCap(t *testing.T) {
	relaxed := planner.LookupPace(domain.PaceRelaxed)
	var pois []domain.POI
	for i := 0; i < 7; i++ {
		pois = append(pois, poi(string(rune('a'+i)), "cafe", 27.70+float64(i)*0.001, 85.30))
	}

	day := planner.ScheduleDay(2, tripStart.AddDays(1), pois, relaxed)

	assert.LessOrEqual(t, day.TotalActivities, relaxed.MaxActivitiesPerDay)
	assert.Equal(t, 2, day.Day)
	assert.Equal(t, "2024-02-16", day.Date.String())
}

func TestScheduleDay_RestBetweenBlocks(t *testing.T) {
	moderate := planner.LookupPace(domain.PaceModerate)
	pois := []domain.POI{
		tagged(poi("a1", "park", 27.704, 85.300), domain.BlockAfternoon),
		tagged(poi("a2", "park", 27.705, 85.300), domain.BlockAfternoon),
		tagged(poi("a3", "park", 27.706, 85.300), domain.BlockAfternoon),
		poi("dinner", "restaurant", 27.707, 85.300),
	}

	day := planner.ScheduleDay(1, tripStart, pois, moderate)

	require.Len(t, day.Blocks, 2)
	afternoon, evening := day.Blocks[0], day.Blocks[1]
	assert.Equal(t, "17:40", afternoon.End.String())
	// The evening window opens at 18:30 but an hour of rest pushes it back.
	assert.Equal(t, "18:40", evening.Start.String())
}

func TestScheduleDay_EmptyIsInfeasible(t *testing.T) {
	day := planner.ScheduleDay(1, tripStart, nil, planner.LookupPace(domain.PaceModerate))

	assert.False(t, day.Feasible)
	assert.Contains(t, day.Issues, "no activities scheduled")
	assert.Empty(t, day.Blocks)
}
