package domain

import (
	"time"

	"github.com/samber/lo"
)

// POI is a named, geolocated place a trip can visit.
type POI struct {
	ID          string            `json:"id"`
	Kind        string            `json:"kind,omitempty"` // node, way, relation
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Location    GeoPoint          `json:"location"`
	Tags        map[string]string `json:"tags,omitempty"`
	Description string            `json:"description,omitempty"`
	Rating      *float64          `json:"rating,omitempty"`
	Distance    *float64          `json:"distance,omitempty"` // computed field, km
}

// Activity is a POI scheduled into a time window.
type Activity struct {
	POI              POI     `json:"poi"`
	Start            Clock   `json:"start"`
	End              Clock   `json:"end"`
	Duration         int     `json:"duration"`
	TravelTime       int     `json:"travel_time"` // from the previous activity, buffer included
	TravelDistanceKm float64 `json:"travel_distance_km"`
}

// DayBlock is one time block of a day and its ordered activities.
type DayBlock struct {
	Kind              BlockKind  `json:"kind"`
	Activities        []Activity `json:"activities"`
	Start             Clock      `json:"start"`
	End               Clock      `json:"end"`
	Duration          int        `json:"duration"`
	TotalActivityTime int        `json:"total_activity_time"`
	TotalTravelTime   int        `json:"total_travel_time"`
}

// Recompute derives the block bounds and totals from its activities.
func (b *DayBlock) Recompute() {
	if len(b.Activities) > 0 {
		b.Start = b.Activities[0].Start
		b.End = b.Activities[len(b.Activities)-1].End
	} else {
		b.End = b.Start
	}
	b.Duration = b.End.Sub(b.Start)
	b.TotalActivityTime = lo.SumBy(b.Activities, func(a Activity) int { return a.Duration })
	b.TotalTravelTime = lo.SumBy(b.Activities, func(a Activity) int { return a.TravelTime })
}

// ItineraryDay is a single day of an itinerary.
type ItineraryDay struct {
	Day               int        `json:"day"`
	Date              Date       `json:"date"`
	Blocks            []DayBlock `json:"blocks"`
	TotalActivities   int        `json:"total_activities"`
	TotalActivityTime int        `json:"total_activity_time"`
	TotalTravelTime   int        `json:"total_travel_time"`
	TotalTime         int        `json:"total_time"`
	Feasible          bool       `json:"feasible"`
	Issues            []string   `json:"issues,omitempty"`
}

// Recompute rebuilds every block and the day totals. Feasibility is left to
// the caller.
func (d *ItineraryDay) Recompute() {
	d.TotalActivities, d.TotalActivityTime, d.TotalTravelTime = 0, 0, 0
	for i := range d.Blocks {
		d.Blocks[i].Recompute()
		d.TotalActivities += len(d.Blocks[i].Activities)
		d.TotalActivityTime += d.Blocks[i].TotalActivityTime
		d.TotalTravelTime += d.Blocks[i].TotalTravelTime
	}
	d.TotalTime = d.TotalActivityTime + d.TotalTravelTime
}

// Block returns the index of the block of kind k, or -1.
func (d *ItineraryDay) Block(k BlockKind) int {
	for i := range d.Blocks {
		if d.Blocks[i].Kind == k {
			return i
		}
	}
	return -1
}

// EditTarget records which part of an itinerary an edit addressed.
type EditTarget struct {
	Kind  EditKind   `json:"kind"`
	Day   int        `json:"day"`
	Block *BlockKind `json:"block,omitempty"`
}

// Metadata carries the lifecycle information of an itinerary.
type Metadata struct {
	CreatedAt time.Time   `json:"created_at"`
	Version   int         `json:"version"`
	Edited    bool        `json:"edited"`
	LastEdit  *EditTarget `json:"last_edit,omitempty"`
}

// Itinerary is a complete day-by-day schedule for a trip.
type Itinerary struct {
	TripID          string         `json:"trip_id,omitempty"`
	City            string         `json:"city"`
	Duration        int            `json:"duration"`
	StartDate       Date           `json:"start_date"`
	Pace            PaceName       `json:"pace"`
	Timezone        string         `json:"timezone,omitempty"`
	Days            []ItineraryDay `json:"days"`
	POICount        int            `json:"poi_count"`
	ActivityCount   int            `json:"activity_count"`
	TotalTravelTime int            `json:"total_travel_time"`
	Metadata        Metadata       `json:"metadata"`
}

// Recompute refreshes the itinerary totals from its days.
func (it *Itinerary) Recompute() {
	it.ActivityCount = lo.SumBy(it.Days, func(d ItineraryDay) int { return d.TotalActivities })
	it.TotalTravelTime = lo.SumBy(it.Days, func(d ItineraryDay) int { return d.TotalTravelTime })
}

// EditInstruction is a single targeted change to an itinerary.
type EditInstruction struct {
	Kind             EditKind   `json:"kind"`
	TargetDay        int        `json:"target_day"`
	TargetBlock      *BlockKind `json:"target_block,omitempty"`
	POI              *POI       `json:"poi,omitempty"`
	ActivityIndex    *int       `json:"activity_index,omitempty"`
	POIID            string     `json:"poi_id,omitempty"`
	DropLast         bool       `json:"drop_last,omitempty"`
	ExtendMinutes    int        `json:"extend_minutes,omitempty"`
	TargetTravelTime *int       `json:"target_travel_time,omitempty"`
}

// EditChanges summarises what an edit did to its target block.
type EditChanges struct {
	Kind    EditKind  `json:"kind"`
	Day     int       `json:"day"`
	Block   BlockKind `json:"block"`
	Added   []string  `json:"added"`
	Removed []string  `json:"removed"`
	Retimed []string  `json:"retimed"`
}

// FeasibilityResult is the outcome of checking a day against its pace.
type FeasibilityResult struct {
	Feasible bool     `json:"feasible"`
	Issues   []string `json:"issues"`
}

// DiffResult partitions days into changed and unchanged and lists any
// change outside the declared edit target.
type DiffResult struct {
	ChangedDays   []int    `json:"changed_days"`
	UnchangedDays []int    `json:"unchanged_days"`
	Violations    []string `json:"violations"`
}

// Valid reports whether the diff found no violations.
func (r DiffResult) Valid() bool { return len(r.Violations) == 0 }

// EditResult bundles everything an applied edit produces.
type EditResult struct {
	Itinerary   *Itinerary        `json:"itinerary"`
	Changes     EditChanges       `json:"changes"`
	Feasibility FeasibilityResult `json:"feasibility"`
	Diff        DiffResult        `json:"diff"`
}

// Trip is the persisted identity of an itinerary across its versions.
type Trip struct {
	ID             string    `json:"id"`
	City           string    `json:"city"`
	Pace           PaceName  `json:"pace"`
	Days           int       `json:"days"`
	StartDate      Date      `json:"start_date"`
	CurrentVersion int       `json:"current_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DayEvaluation is the per-day part of an Evaluation.
type DayEvaluation struct {
	Day      int      `json:"day"`
	Feasible bool     `json:"feasible"`
	Issues   []string `json:"issues"`
}

// Evaluation is a stored pass/fail check of one itinerary version.
type Evaluation struct {
	ID               string          `json:"id"`
	TripID           string          `json:"trip_id"`
	Version          int             `json:"version"`
	Passed           bool            `json:"passed"`
	Days             []DayEvaluation `json:"days"`
	StructuralIssues []string        `json:"structural_issues"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Itinerary event types published on the event bus.
const (
	EventBuilt     = "built"
	EventEdited    = "edited"
	EventEvaluated = "evaluated"
)

// ItineraryEvent is published whenever an itinerary version is stored or
// evaluated. Feasible carries the evaluation result for EventEvaluated.
type ItineraryEvent struct {
	Type     string      `json:"type"`
	TripID   string      `json:"trip_id"`
	Version  int         `json:"version"`
	Edit     *EditTarget `json:"edit,omitempty"`
	Feasible bool        `json:"feasible"`
	Time     time.Time   `json:"time"`
}
