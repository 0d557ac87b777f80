package planner

import (
	"github.com/samirrijal/waypath/internal/core/domain"
)

// ScheduleBlock routes pois and packs them into block kind starting at start.
// The first POI that would end after the block window closes stops the
// block; it and everything after it are dropped.
func ScheduleBlock(pois []domain.POI, kind domain.BlockKind, start domain.Clock, pace PaceProfile) domain.DayBlock {
	window := pace.Window(kind)
	block := domain.DayBlock{Kind: kind, Start: start, Activities: []domain.Activity{}}

	cursor := start
	var prev *domain.POI
	for _, p := range OptimizeRoute(pois) {
		a := domain.Activity{POI: p.Clone(), Duration: ActivityDuration(p, pace)}
		if prev != nil {
			a.TravelTime = EstimateTravelTime(prev.Location, p.Location, domain.TravelDriving) + pace.TravelBuffer
			a.TravelDistanceKm = Distance(prev.Location, p.Location)
		}
		a.Start = cursor.Add(a.TravelTime)
		a.End = a.Start.Add(a.Duration)
		if a.End > window.End {
			break
		}
		block.Activities = append(block.Activities, a)
		cursor = a.End
		prev = &a.POI
	}
	block.Recompute()
	return block
}

// ScheduleDay distributes pois over the morning, afternoon and evening
// blocks of one day and schedules each block in turn.
func ScheduleDay(dayNumber int, date domain.Date, pois []domain.POI, pace PaceProfile) domain.ItineraryDay {
	if len(pois) > pace.MaxActivitiesPerDay {
		pois = pois[:pace.MaxActivitiesPerDay]
	}
	buckets := partition(pois, pace.MaxActivitiesPerBlock)

	day := domain.ItineraryDay{Day: dayNumber, Date: date, Blocks: []domain.DayBlock{}}
	var prevEnd *domain.Clock
	for i, kind := range domain.BlockOrder {
		if len(buckets[i]) == 0 {
			continue
		}
		start := pace.Window(kind).Start
		if prevEnd != nil {
			start = max(start, prevEnd.Add(pace.RestBetweenBlocks))
		}
		block := ScheduleBlock(buckets[i], kind, start, pace)
		if len(block.Activities) == 0 {
			continue
		}
		day.Blocks = append(day.Blocks, block)
		end := block.End
		prevEnd = &end
	}

	day.Recompute()
	res := CheckDay(day, pace)
	day.Feasible, day.Issues = res.Feasible, res.Issues
	return day
}

// partition assigns each POI to its preferred block, cascading to later
// blocks and then wrapping to earlier ones once a block holds perBlock POIs.
func partition(pois []domain.POI, perBlock int) [][]domain.POI {
	buckets := make([][]domain.POI, len(domain.BlockOrder))
	n := len(domain.BlockOrder)
	for _, p := range pois {
		pref := preferredBlock(p).Index()
		for step := 0; step < n; step++ {
			i := (pref + step) % n
			if len(buckets[i]) < perBlock {
				buckets[i] = append(buckets[i], p)
				break
			}
		}
	}
	return buckets
}
