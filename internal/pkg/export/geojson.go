package export

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// DayGeoJSON returns a FeatureCollection with one Point per activity of day
// and one LineString per block tracing the visiting order.
func DayGeoJSON(day domain.ItineraryDay) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, block := range day.Blocks {
		line := make(orb.LineString, 0, len(block.Activities))
		for i, a := range block.Activities {
			pt := orb.Point{a.POI.Location.Lon, a.POI.Location.Lat}
			line = append(line, pt)

			f := geojson.NewFeature(pt)
			f.ID = a.POI.ID
			f.Properties["name"] = a.POI.Name
			f.Properties["category"] = a.POI.Category
			f.Properties["block"] = string(block.Kind)
			f.Properties["order"] = i
			f.Properties["start"] = a.Start.String()
			f.Properties["end"] = a.End.String()
			f.Properties["travel_time"] = a.TravelTime
			fc.Append(f)
		}
		if len(line) < 2 {
			continue
		}
		f := geojson.NewFeature(line)
		f.Properties["block"] = string(block.Kind)
		f.Properties["total_travel_time"] = block.TotalTravelTime
		fc.Append(f)
	}

	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal day %d geojson: %w", day.Day, err)
	}
	return b, nil
}
