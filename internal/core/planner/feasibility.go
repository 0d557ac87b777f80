package planner

import (
	"fmt"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// DailyCapMinutes is the hard limit on activity plus travel time per day.
const DailyCapMinutes = 720

// CheckDay validates day against the hard limits of pace. Every check runs
// regardless of earlier failures.
func CheckDay(day domain.ItineraryDay, pace PaceProfile) domain.FeasibilityResult {
	issues := []string{}

	count, total := 0, 0
	for _, b := range day.Blocks {
		for _, a := range b.Activities {
			count++
			total += a.Duration + a.TravelTime
		}
	}

	if total > DailyCapMinutes {
		issues = append(issues, fmt.Sprintf("total time %d minutes exceeds %d minute daily cap", total, DailyCapMinutes))
	}
	if count > pace.MaxActivitiesPerDay {
		issues = append(issues, fmt.Sprintf("%d activities exceeds %s limit of %d per day", count, pace.Name, pace.MaxActivitiesPerDay))
	}
	if count == 0 {
		issues = append(issues, "no activities scheduled")
	}

	for _, b := range day.Blocks {
		if len(b.Activities) == 0 {
			continue
		}
		window := pace.Window(b.Kind)
		first, last := b.Activities[0], b.Activities[len(b.Activities)-1]

		if n := len(b.Activities); n > pace.MaxActivitiesPerBlock {
			issues = append(issues, fmt.Sprintf("%s block has %d activities, exceeds limit of %d", b.Kind, n, pace.MaxActivitiesPerBlock))
		}
		if d := last.End.Sub(first.Start); d > window.MaxDuration {
			issues = append(issues, fmt.Sprintf("%s block duration %d minutes exceeds max %d", b.Kind, d, window.MaxDuration))
		}
		if last.End > window.End {
			issues = append(issues, fmt.Sprintf("%s block ends at %s, after window end %s", b.Kind, last.End, window.End))
		}
	}

	return domain.FeasibilityResult{Feasible: len(issues) == 0, Issues: issues}
}

// CheckFeasibility validates day against the named pace, falling back to
// moderate for unknown names.
func CheckFeasibility(day domain.ItineraryDay, pace domain.PaceName) domain.FeasibilityResult {
	return CheckDay(day, LookupPace(pace))
}
