package core

import (
	"fmt"

	"github.com/go-arcade/bookbuild/pkg/statemachine"
)

// MaxRangeGap is the widest allowed high-low ordinal distance: one band or two adjacent bands
const MaxRangeGap = 1

// ValidateRange decides whether a range selection may be recorded.
// State errors win over input errors so a finished deal always reports AlreadySelected.
func ValidateRange(state statemachine.DealState, hasSelection bool, bandCount, low, high int) error {
	switch {
	case state == statemachine.DealRangeSelected:
		return ErrAlreadySelected
	case state != statemachine.DealClosed:
		return ErrNotClosed.With(fmt.Sprintf("deal is %s, close the book before selecting a range", state), "state", string(state))
	case hasSelection:
		return ErrAlreadySelected
	}

	switch {
	case low > high:
		return ErrInvalidBandRange.With(fmt.Sprintf("low ordinal %d is above high ordinal %d", low, high), "low", low, "high", high)
	case low < 0 || high >= bandCount:
		return ErrInvalidBandRange.With(fmt.Sprintf("ordinals must be within 0..%d", bandCount-1), "low", low, "high", high)
	case high-low > MaxRangeGap:
		return ErrInvalidBandRange.With("must select adjacent bands", "low", low, "high", high)
	}
	return nil
}
