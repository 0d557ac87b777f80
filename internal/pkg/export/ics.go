// Package export renders itineraries into formats other tools understand.
package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/samirrijal/waypath/internal/core/domain"
)

const productID = "-//waypath//itinerary//EN"

// ICS renders every scheduled activity of it as a VEVENT. Wall-clock times
// are interpreted in loc.
func ICS(it *domain.Itinerary, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(fmt.Sprintf("%s, %d days", it.City, it.Duration))
	cal.SetXWRTimezone(loc.String())

	stamp := it.Metadata.CreatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}

	for _, day := range it.Days {
		for _, block := range day.Blocks {
			for i, a := range block.Activities {
				ev := cal.AddEvent(eventUID(it, day.Day, block.Kind, i, a.POI.ID))
				ev.SetDtStampTime(stamp.UTC())
				ev.SetStartAt(day.Date.At(a.Start, loc))
				ev.SetEndAt(day.Date.At(a.End, loc))
				ev.SetSummary(a.POI.Name)
				ev.SetLocation(fmt.Sprintf("%.6f,%.6f", a.POI.Location.Lat, a.POI.Location.Lon))
				ev.SetDescription(describe(day.Day, block.Kind, a))
			}
		}
	}
	return cal.Serialize()
}

func eventUID(it *domain.Itinerary, day int, block domain.BlockKind, idx int, poiID string) string {
	trip := it.TripID
	if trip == "" {
		trip = strings.ToLower(strings.ReplaceAll(it.City, " ", "-"))
	}
	return fmt.Sprintf("%s-v%d-d%d-%s-%d-%s@waypath", trip, it.Metadata.Version, day, block, idx, poiID)
}

func describe(day int, block domain.BlockKind, a domain.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d %s", day, block)
	if a.POI.Category != "" {
		fmt.Fprintf(&b, ", %s", a.POI.Category)
	}
	if a.TravelTime > 0 {
		fmt.Fprintf(&b, ". %d min travel (%.1f km) from the previous stop", a.TravelTime, a.TravelDistanceKm)
	}
	if a.POI.Description != "" {
		b.WriteString(". ")
		b.WriteString(a.POI.Description)
	}
	return b.String()
}
