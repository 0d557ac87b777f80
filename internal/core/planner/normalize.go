package planner

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// Every silent default the engine applies lives in this file.

// fallbackTravelMinutes is used when a travel estimate has no usable
// coordinates.
const fallbackTravelMinutes = 15

// timeOfDayTag is the POI tag that pins a POI to a block.
const timeOfDayTag = "time_of_day"

var (
	morningKeywords = []string{"histor", "cultur", "heritage", "museum", "monument", "temple", "fort", "castle", "worship", "archaeolog"}
	eveningKeywords = []string{"food", "restaurant", "nightlife", "dining", "bar", "pub"}
)

// LookupPace returns the profile for name, or the moderate profile when name
// is unknown.
func LookupPace(name domain.PaceName) PaceProfile {
	if p, err := ParsePace(string(name)); err == nil {
		return p
	}
	return paces[domain.PaceModerate]
}

// normalizeCategory folds a category to the snake_case form used as a key.
func normalizeCategory(s string) string {
	s = cases.Lower(language.Und).String(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// travelModeOrDefault treats anything but walking as driving.
func travelModeOrDefault(m domain.TravelMode) domain.TravelMode {
	if m == domain.TravelWalking {
		return domain.TravelWalking
	}
	return domain.TravelDriving
}

// preferredBlock picks the block a POI wants to be scheduled in: an explicit
// time_of_day tag first, then category keywords, then afternoon.
func preferredBlock(p domain.POI) domain.BlockKind {
	if tag, ok := p.Tags[timeOfDayTag]; ok {
		if k, err := domain.ParseBlockKind(tag); err == nil {
			return k
		}
	}
	cat := normalizeCategory(p.Category)
	for _, kw := range morningKeywords {
		if strings.Contains(cat, kw) {
			return domain.BlockMorning
		}
	}
	for _, kw := range eveningKeywords {
		if strings.Contains(cat, kw) {
			return domain.BlockEvening
		}
	}
	return domain.BlockAfternoon
}

// validatePOI rejects POIs the engine cannot schedule.
func validatePOI(field string, p domain.POI) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return domain.NewValidationError(field, "poi id is required")
	case strings.TrimSpace(p.Name) == "":
		return domain.NewValidationError(field, fmt.Sprintf("poi %s has no name", p.ID))
	case !p.Location.Valid():
		return domain.NewValidationError(field, fmt.Sprintf("poi %s has invalid coordinates", p.ID))
	}
	return nil
}

// editTarget is an EditInstruction resolved against a concrete itinerary.
type editTarget struct {
	kind     domain.EditKind
	dayIndex int
	block    domain.BlockKind
	// blockIndex is -1 when the block does not exist yet (add only).
	blockIndex int
}

// resolveEdit validates ins against it and resolves the target block.
func resolveEdit(it *domain.Itinerary, ins domain.EditInstruction) (editTarget, error) {
	kind, err := domain.ParseEditKind(string(ins.Kind))
	if err != nil {
		return editTarget{}, err
	}
	t := editTarget{kind: kind, dayIndex: -1, blockIndex: -1}
	for i := range it.Days {
		if it.Days[i].Day == ins.TargetDay {
			t.dayIndex = i
			break
		}
	}
	if t.dayIndex < 0 {
		return editTarget{}, domain.NewValidationError("target_day",
			fmt.Sprintf("day %d out of range 1..%d", ins.TargetDay, len(it.Days)))
	}
	day := &it.Days[t.dayIndex]

	if kind == domain.EditAdd || kind == domain.EditSwap {
		if ins.POI == nil {
			return editTarget{}, domain.NewValidationError("poi", fmt.Sprintf("required for %s", kind))
		}
		if err := validatePOI("poi", *ins.POI); err != nil {
			return editTarget{}, err
		}
	}

	switch {
	case ins.TargetBlock != nil:
		k, err := domain.ParseBlockKind(string(*ins.TargetBlock))
		if err != nil {
			return editTarget{}, err
		}
		t.block = k
		t.blockIndex = day.Block(k)
		if t.blockIndex < 0 && kind != domain.EditAdd {
			return editTarget{}, domain.NewValidationError("target_block",
				fmt.Sprintf("day %d has no %s block", ins.TargetDay, k))
		}
	case kind == domain.EditAdd:
		t.block = preferredBlock(*ins.POI)
		t.blockIndex = day.Block(t.block)
	default:
		last := lastPopulatedBlock(day)
		if last < 0 {
			return editTarget{}, domain.NewValidationError("target_day",
				fmt.Sprintf("day %d has no activities", ins.TargetDay))
		}
		t.blockIndex = last
		t.block = day.Blocks[last].Kind
	}

	if kind == domain.EditAdd || kind == domain.EditSwap {
		if err := checkUnscheduled(it, t, ins); err != nil {
			return editTarget{}, err
		}
	}
	return t, nil
}

// checkUnscheduled rejects a POI that already appears anywhere in it. A swap
// may put back the activity it replaces.
func checkUnscheduled(it *domain.Itinerary, t editTarget, ins domain.EditInstruction) error {
	replaced := -1
	if t.kind == domain.EditSwap && t.blockIndex >= 0 {
		idx, err := activityIndex(it.Days[t.dayIndex].Blocks[t.blockIndex].Activities, ins.ActivityIndex)
		if err != nil {
			return err
		}
		replaced = idx
	}
	for di, day := range it.Days {
		for bi, b := range day.Blocks {
			for ai, a := range b.Activities {
				if a.POI.ID != ins.POI.ID {
					continue
				}
				if di == t.dayIndex && bi == t.blockIndex && ai == replaced {
					continue
				}
				return domain.NewValidationError("poi",
					fmt.Sprintf("poi %s is already scheduled on day %d", ins.POI.ID, day.Day))
			}
		}
	}
	return nil
}

func lastPopulatedBlock(day *domain.ItineraryDay) int {
	for i := len(day.Blocks) - 1; i >= 0; i-- {
		if len(day.Blocks[i].Activities) > 0 {
			return i
		}
	}
	return -1
}
