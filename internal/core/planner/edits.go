package planner

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/samirrijal/waypath/internal/core/domain"
)

// ErrBlockFull is returned when add targets a block already at its pace cap.
var ErrBlockFull = fmt.Errorf("block is full: %w", domain.ErrValidation)

// ApplyEdit applies ins to a copy of it. The returned itinerary has its
// version bumped and the target day recomputed; it is never modified when an
// error is returned.
func ApplyEdit(it *domain.Itinerary, ins domain.EditInstruction) (*domain.EditResult, error) {
	if it == nil {
		return nil, domain.NewValidationError("itinerary", "itinerary is required")
	}
	t, err := resolveEdit(it, ins)
	if err != nil {
		return nil, fmt.Errorf("apply %s edit: %w", ins.Kind, err)
	}
	pace := LookupPace(it.Pace)

	after := it.Clone()
	day := &after.Days[t.dayIndex]

	var before []domain.Activity
	anchor := pace.Window(t.block).Start
	if t.blockIndex >= 0 {
		b := day.Blocks[t.blockIndex]
		before = b.Activities
		anchor = b.Start
	}

	var acts []domain.Activity
	switch t.kind {
	case domain.EditRelax:
		acts, err = relax(before, ins)
	case domain.EditSwap:
		acts, err = swap(before, anchor, ins, pace)
	case domain.EditAdd:
		acts, err = add(before, anchor, ins, pace)
	case domain.EditRemove:
		acts, err = remove(before, anchor, ins, pace)
	case domain.EditReduceTravel:
		acts, err = reduceTravel(before, anchor, ins, pace)
	}
	if err != nil {
		return nil, fmt.Errorf("apply %s edit: %w", t.kind, err)
	}

	day.Blocks = replaceBlock(day.Blocks, t, acts, anchor)
	day.Recompute()
	feas := CheckDay(*day, pace)
	day.Feasible, day.Issues = feas.Feasible, feas.Issues

	after.Recompute()
	block := t.block
	after.Metadata.Version = it.Metadata.Version + 1
	after.Metadata.Edited = true
	after.Metadata.LastEdit = &domain.EditTarget{Kind: t.kind, Day: ins.TargetDay, Block: &block}

	changes := summarize(before, acts)
	changes.Kind, changes.Day, changes.Block = t.kind, ins.TargetDay, t.block

	return &domain.EditResult{
		Itinerary:   after,
		Changes:     changes,
		Feasibility: feas,
		Diff:        CheckDiff(it, after, ins.TargetDay, &block),
	}, nil
}

// replaceBlock returns a new block list with the target block holding acts.
// An emptied block is dropped; a new one is inserted in block order.
func replaceBlock(blocks []domain.DayBlock, t editTarget, acts []domain.Activity, anchor domain.Clock) []domain.DayBlock {
	out := make([]domain.DayBlock, 0, len(blocks)+1)
	placed := false
	for i, b := range blocks {
		if !placed && t.blockIndex < 0 && b.Kind.Index() > t.block.Index() {
			out = append(out, domain.DayBlock{Kind: t.block, Start: anchor, Activities: acts})
			placed = true
		}
		if i == t.blockIndex {
			placed = true
			if len(acts) == 0 {
				continue
			}
			b.Activities = acts
		}
		out = append(out, b)
	}
	if !placed && len(acts) > 0 {
		out = append(out, domain.DayBlock{Kind: t.block, Start: anchor, Activities: acts})
	}
	return out
}

func relax(acts []domain.Activity, ins domain.EditInstruction) ([]domain.Activity, error) {
	if ins.ExtendMinutes < 0 {
		return nil, domain.NewValidationError("extend_minutes", "must not be negative")
	}
	out := slices.Clone(acts)
	if (ins.DropLast || ins.ExtendMinutes == 0) && len(out) > 1 {
		out = out[:len(out)-1]
	}
	if ins.ExtendMinutes > 0 && len(out) > 0 {
		last := &out[len(out)-1]
		last.Duration += ins.ExtendMinutes
		last.End = last.End.Add(ins.ExtendMinutes)
	}
	return out, nil
}

func swap(acts []domain.Activity, anchor domain.Clock, ins domain.EditInstruction, pace PaceProfile) ([]domain.Activity, error) {
	idx, err := activityIndex(acts, ins.ActivityIndex)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(acts)
	out[idx] = domain.Activity{POI: ins.POI.Clone(), Duration: ActivityDuration(*ins.POI, pace)}
	resequence(out, idx, anchor, pace)
	return out, nil
}

func add(acts []domain.Activity, anchor domain.Clock, ins domain.EditInstruction, pace PaceProfile) ([]domain.Activity, error) {
	if len(acts) >= pace.MaxActivitiesPerBlock {
		return nil, fmt.Errorf("%w: %d of %d activities", ErrBlockFull, len(acts), pace.MaxActivitiesPerBlock)
	}
	out := append(slices.Clone(acts), domain.Activity{POI: ins.POI.Clone(), Duration: ActivityDuration(*ins.POI, pace)})
	resequence(out, len(out)-1, anchor, pace)
	return out, nil
}

func remove(acts []domain.Activity, anchor domain.Clock, ins domain.EditInstruction, pace PaceProfile) ([]domain.Activity, error) {
	if len(acts) == 0 {
		return nil, domain.NewValidationError("target_block", "block has no activities")
	}
	idx := len(acts) - 1
	switch {
	case ins.ActivityIndex != nil:
		i, err := activityIndex(acts, ins.ActivityIndex)
		if err != nil {
			return nil, err
		}
		idx = i
	case ins.POIID != "":
		if i := slices.IndexFunc(acts, func(a domain.Activity) bool { return a.POI.ID == ins.POIID }); i >= 0 {
			idx = i
		}
	}
	out := slices.Delete(slices.Clone(acts), idx, idx+1)
	resequence(out, idx, anchor, pace)
	return out, nil
}

// reduceTravel reroutes the block by nearest neighbour. With a ceiling it
// then drops the last stop of the new route until travel fits or one stop is
// left.
func reduceTravel(acts []domain.Activity, anchor domain.Clock, ins domain.EditInstruction, pace PaceProfile) ([]domain.Activity, error) {
	if ins.TargetTravelTime != nil && *ins.TargetTravelTime < 0 {
		return nil, domain.NewValidationError("target_travel_time", "must not be negative")
	}
	pois := lo.Map(acts, func(a domain.Activity, _ int) domain.POI { return a.POI })
	out := make([]domain.Activity, 0, len(acts))
	for _, i := range routeOrder(pois) {
		out = append(out, domain.Activity{POI: acts[i].POI, Duration: acts[i].Duration})
	}
	resequence(out, 0, anchor, pace)

	if ins.TargetTravelTime != nil {
		ceiling := *ins.TargetTravelTime
		for removals := 0; removals < len(acts)-1 && len(out) > 1 && travelOf(out) > ceiling; removals++ {
			out = out[:len(out)-1]
		}
	}
	return slices.Clip(out), nil
}

func travelOf(acts []domain.Activity) int {
	return lo.SumBy(acts, func(a domain.Activity) int { return a.TravelTime })
}

// activityIndex resolves an optional index, defaulting to the last activity.
func activityIndex(acts []domain.Activity, idx *int) (int, error) {
	if idx == nil {
		if len(acts) == 0 {
			return 0, domain.NewValidationError("activity_index", "block has no activities")
		}
		return len(acts) - 1, nil
	}
	if *idx < 0 || *idx >= len(acts) {
		return 0, domain.NewValidationError("activity_index", fmt.Sprintf("index %d out of range 0..%d", *idx, len(acts)-1))
	}
	return *idx, nil
}

// resequence recomputes travel and times for acts[from:]. The first activity
// of a block starts at anchor with no travel.
func resequence(acts []domain.Activity, from int, anchor domain.Clock, pace PaceProfile) {
	for i := from; i < len(acts); i++ {
		a := &acts[i]
		if i == 0 {
			a.TravelTime, a.TravelDistanceKm = 0, 0
			a.Start = anchor
		} else {
			prev := acts[i-1]
			a.TravelTime = EstimateTravelTime(prev.POI.Location, a.POI.Location, domain.TravelDriving) + pace.TravelBuffer
			a.TravelDistanceKm = Distance(prev.POI.Location, a.POI.Location)
			a.Start = prev.End.Add(a.TravelTime)
		}
		a.End = a.Start.Add(a.Duration)
	}
}

// summarize lists the POIs added, removed and retimed between two versions
// of a block.
func summarize(before, after []domain.Activity) domain.EditChanges {
	prev := lo.SliceToMap(before, func(a domain.Activity) (string, domain.Activity) { return a.POI.ID, a })
	next := lo.SliceToMap(after, func(a domain.Activity) (string, domain.Activity) { return a.POI.ID, a })

	ch := domain.EditChanges{Added: []string{}, Removed: []string{}, Retimed: []string{}}
	for _, a := range after {
		old, ok := prev[a.POI.ID]
		switch {
		case !ok:
			ch.Added = append(ch.Added, a.POI.ID)
		case old.Start != a.Start || old.End != a.End || old.Duration != a.Duration:
			ch.Retimed = append(ch.Retimed, a.POI.ID)
		}
	}
	for _, a := range before {
		if _, ok := next[a.POI.ID]; !ok {
			ch.Removed = append(ch.Removed, a.POI.ID)
		}
	}
	return ch
}
