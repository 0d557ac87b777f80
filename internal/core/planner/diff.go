package planner

import (
	"fmt"
	"slices"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// CheckDiff compares edited against original and reports every change that
// falls outside targetDay (and targetBlock, when given).
func CheckDiff(original, edited *domain.Itinerary, targetDay int, targetBlock *domain.BlockKind) domain.DiffResult {
	res := domain.DiffResult{ChangedDays: []int{}, UnchangedDays: []int{}, Violations: []string{}}
	violate := func(format string, args ...any) {
		res.Violations = append(res.Violations, fmt.Sprintf(format, args...))
	}

	if original.City != edited.City {
		violate("city changed from %q to %q", original.City, edited.City)
	}
	if original.Duration != edited.Duration {
		violate("duration changed from %d to %d", original.Duration, edited.Duration)
	}
	if !original.StartDate.Equal(edited.StartDate) {
		violate("start date changed from %s to %s", original.StartDate, edited.StartDate)
	}
	if original.Pace != edited.Pace {
		violate("pace changed from %s to %s", original.Pace, edited.Pace)
	}

	for d := 1; d <= original.Duration; d++ {
		before, after := findDay(original, d), findDay(edited, d)
		if before == nil || after == nil {
			if before != after {
				res.ChangedDays = append(res.ChangedDays, d)
				violate("day %d missing from one itinerary", d)
			} else {
				res.UnchangedDays = append(res.UnchangedDays, d)
			}
			continue
		}

		if d != targetDay {
			if daysEqual(before, after) {
				res.UnchangedDays = append(res.UnchangedDays, d)
			} else {
				res.ChangedDays = append(res.ChangedDays, d)
				violate("day %d changed but was not the edit target", d)
			}
			continue
		}

		if before.Day != after.Day || !before.Date.Equal(after.Date) {
			violate("day %d identity changed", d)
		}
		if targetBlock != nil {
			for _, kind := range domain.BlockOrder {
				if kind == *targetBlock {
					continue
				}
				if !blocksEqual(blockOf(before, kind), blockOf(after, kind)) {
					violate("day %d %s block changed but was not the edit target", d, kind)
				}
			}
		}
		if daysEqual(before, after) {
			res.UnchangedDays = append(res.UnchangedDays, d)
		} else {
			res.ChangedDays = append(res.ChangedDays, d)
		}
	}
	return res
}

func findDay(it *domain.Itinerary, n int) *domain.ItineraryDay {
	for i := range it.Days {
		if it.Days[i].Day == n {
			return &it.Days[i]
		}
	}
	return nil
}

func blockOf(day *domain.ItineraryDay, k domain.BlockKind) *domain.DayBlock {
	if i := day.Block(k); i >= 0 {
		return &day.Blocks[i]
	}
	return nil
}

func daysEqual(a, b *domain.ItineraryDay) bool {
	if a.Day != b.Day || !a.Date.Equal(b.Date) ||
		a.TotalActivities != b.TotalActivities ||
		a.TotalActivityTime != b.TotalActivityTime ||
		a.TotalTravelTime != b.TotalTravelTime ||
		a.TotalTime != b.TotalTime ||
		a.Feasible != b.Feasible ||
		!slices.Equal(a.Issues, b.Issues) ||
		len(a.Blocks) != len(b.Blocks) {
		return false
	}
	for i := range a.Blocks {
		if !blocksEqual(&a.Blocks[i], &b.Blocks[i]) {
			return false
		}
	}
	return true
}

// blocksEqual treats two absent blocks as equal.
func blocksEqual(a, b *domain.DayBlock) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Start != b.Start || a.End != b.End ||
		a.Duration != b.Duration ||
		a.TotalActivityTime != b.TotalActivityTime ||
		a.TotalTravelTime != b.TotalTravelTime {
		return false
	}
	return slices.EqualFunc(a.Activities, b.Activities, activitiesEqual)
}

func activitiesEqual(a, b domain.Activity) bool {
	return a.POI.ID == b.POI.ID &&
		a.Start == b.Start &&
		a.End == b.End &&
		a.Duration == b.Duration &&
		a.TravelTime == b.TravelTime &&
		a.TravelDistanceKm == b.TravelDistanceKm
}
