package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// BlockWindow is the allowed time range of one block.
type BlockWindow struct {
	Start       domain.Clock
	End         domain.Clock
	MaxDuration int
}

// PaceProfile is a static bundle of scheduling limits.
type PaceProfile struct {
	Name                  domain.PaceName
	MaxActivitiesPerDay   int
	MaxActivitiesPerBlock int
	MinDuration           int
	DefaultDuration       int
	MaxDuration           int
	TravelBuffer          int
	Windows               map[domain.BlockKind]BlockWindow
	RestBetweenBlocks     int
	ClusterRadiusKm       float64
}

// Window returns the time window of block k.
func (p PaceProfile) Window(k domain.BlockKind) BlockWindow {
	return p.Windows[k]
}

var paces = map[domain.PaceName]PaceProfile{
	domain.PaceRelaxed: {
		Name:                  domain.PaceRelaxed,
		MaxActivitiesPerDay:   4,
		MaxActivitiesPerBlock: 2,
		MinDuration:           60,
		DefaultDuration:       120,
		MaxDuration:           180,
		TravelBuffer:          15,
		Windows: map[domain.BlockKind]BlockWindow{
			domain.BlockMorning:   {Start: domain.NewClock(9, 30), End: domain.NewClock(12, 30), MaxDuration: 180},
			domain.BlockAfternoon: {Start: domain.NewClock(14, 0), End: domain.NewClock(17, 30), MaxDuration: 210},
			domain.BlockEvening:   {Start: domain.NewClock(19, 0), End: domain.NewClock(21, 30), MaxDuration: 150},
		},
		RestBetweenBlocks: 90,
		ClusterRadiusKm:   2,
	},
	domain.PaceModerate: {
		Name:                  domain.PaceModerate,
		MaxActivitiesPerDay:   6,
		MaxActivitiesPerBlock: 3,
		MinDuration:           30,
		DefaultDuration:       60,
		MaxDuration:           120,
		TravelBuffer:          10,
		Windows: map[domain.BlockKind]BlockWindow{
			domain.BlockMorning:   {Start: domain.NewClock(9, 0), End: domain.NewClock(13, 0), MaxDuration: 240},
			domain.BlockAfternoon: {Start: domain.NewClock(14, 0), End: domain.NewClock(18, 0), MaxDuration: 240},
			domain.BlockEvening:   {Start: domain.NewClock(18, 30), End: domain.NewClock(22, 0), MaxDuration: 210},
		},
		RestBetweenBlocks: 60,
		ClusterRadiusKm:   3,
	},
	domain.PaceFast: {
		Name:                  domain.PaceFast,
		MaxActivitiesPerDay:   9,
		MaxActivitiesPerBlock: 4,
		MinDuration:           30,
		DefaultDuration:       45,
		MaxDuration:           90,
		TravelBuffer:          5,
		Windows: map[domain.BlockKind]BlockWindow{
			domain.BlockMorning:   {Start: domain.NewClock(8, 0), End: domain.NewClock(12, 30), MaxDuration: 270},
			domain.BlockAfternoon: {Start: domain.NewClock(13, 0), End: domain.NewClock(18, 0), MaxDuration: 300},
			domain.BlockEvening:   {Start: domain.NewClock(18, 30), End: domain.NewClock(22, 30), MaxDuration: 240},
		},
		RestBetweenBlocks: 30,
		ClusterRadiusKm:   5,
	},
}

// categoryMultipliers scale the default activity duration by POI category.
var categoryMultipliers = map[string]float64{
	"museum":           1.5,
	"gallery":          1.3,
	"zoo":              1.5,
	"theme_park":       1.5,
	"beach":            1.5,
	"fort":             1.2,
	"castle":           1.2,
	"shopping":         1.2,
	"nightlife":        1.3,
	"historic":         1.0,
	"culture":          1.0,
	"restaurant":       1.0,
	"park":             1.0,
	"market":           1.0,
	"monument":         0.8,
	"temple":           0.8,
	"place_of_worship": 0.8,
	"cafe":             0.6,
	"viewpoint":        0.5,
}

// ParsePace returns the profile named s. Unlike LookupPace it never falls
// back.
func ParsePace(s string) (PaceProfile, error) {
	p, ok := paces[domain.PaceName(strings.ToLower(strings.TrimSpace(s)))]
	if !ok {
		return PaceProfile{}, domain.NewValidationError("pace", fmt.Sprintf("unknown pace %q", s))
	}
	return p, nil
}

// Paces returns every profile, relaxed first.
func Paces() []PaceProfile {
	return []PaceProfile{paces[domain.PaceRelaxed], paces[domain.PaceModerate], paces[domain.PaceFast]}
}

// ActivityDuration returns how long poi should be scheduled for at pace p.
func ActivityDuration(poi domain.POI, p PaceProfile) int {
	mult, ok := categoryMultipliers[normalizeCategory(poi.Category)]
	if !ok {
		mult = 1.0
	}
	d := int(math.Round(float64(p.DefaultDuration) * mult))
	return min(max(d, p.MinDuration), p.MaxDuration)
}
