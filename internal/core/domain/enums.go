package domain

import (
	"fmt"
	"strings"
)

// BlockKind is one of the three time blocks of a day.
type BlockKind string

const (
	BlockMorning   BlockKind = "morning"
	BlockAfternoon BlockKind = "afternoon"
	BlockEvening   BlockKind = "evening"
)

// BlockOrder is the canonical order of blocks within a day.
var BlockOrder = []BlockKind{BlockMorning, BlockAfternoon, BlockEvening}

// ParseBlockKind returns the block kind for s or a validation error.
func ParseBlockKind(s string) (BlockKind, error) {
	switch BlockKind(strings.ToLower(strings.TrimSpace(s))) {
	case BlockMorning:
		return BlockMorning, nil
	case BlockAfternoon:
		return BlockAfternoon, nil
	case BlockEvening:
		return BlockEvening, nil
	}
	return "", NewValidationError("block", fmt.Sprintf("unknown block kind %q", s))
}

// Index returns the position of k in BlockOrder, or -1.
func (k BlockKind) Index() int {
	for i, b := range BlockOrder {
		if b == k {
			return i
		}
	}
	return -1
}

// EditKind identifies one of the targeted edit operations.
type EditKind string

const (
	EditRelax        EditKind = "relax"
	EditSwap         EditKind = "swap"
	EditAdd          EditKind = "add"
	EditRemove       EditKind = "remove"
	EditReduceTravel EditKind = "reduce_travel"
)

// ParseEditKind returns the edit kind for s or a validation error.
func ParseEditKind(s string) (EditKind, error) {
	switch EditKind(strings.ToLower(strings.TrimSpace(s))) {
	case EditRelax:
		return EditRelax, nil
	case EditSwap:
		return EditSwap, nil
	case EditAdd:
		return EditAdd, nil
	case EditRemove:
		return EditRemove, nil
	case EditReduceTravel:
		return EditReduceTravel, nil
	}
	return "", NewValidationError("kind", fmt.Sprintf("unknown edit kind %q", s))
}

// UnmarshalText lets JSON decoding reject unknown edit kinds up front.
func (k *EditKind) UnmarshalText(b []byte) error {
	v, err := ParseEditKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// UnmarshalText lets JSON decoding reject unknown block kinds up front.
func (k *BlockKind) UnmarshalText(b []byte) error {
	v, err := ParseBlockKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// PaceName names one of the static pace profiles.
type PaceName string

const (
	PaceRelaxed  PaceName = "relaxed"
	PaceModerate PaceName = "moderate"
	PaceFast     PaceName = "fast"
)

// TravelMode selects the speed model used for travel estimates.
type TravelMode string

const (
	TravelWalking TravelMode = "walking"
	TravelDriving TravelMode = "driving"
)
