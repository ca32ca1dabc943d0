package core

import (
	"fmt"
	"math"
	"strings"
)

const (
	MinBands = 3
	MaxBands = 7
)

// BandSpec is one requested band, in ordinal order
type BandSpec struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Unit  string  `json:"unit"`
}

// Band is a defined band. Ranges are half-open: [Lower, Upper).
type Band struct {
	ID      string  `json:"id"`
	Ordinal int     `json:"ordinal"`
	Label   string  `json:"label"`
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
	Unit    string  `json:"unit"`
}

// ValidateBands checks a full band set: count, finite bounds, strict
// ascending order with no overlap. Touching bands (upper == next lower) are fine.
func ValidateBands(specs []BandSpec) error {
	if len(specs) < MinBands || len(specs) > MaxBands {
		return ErrInvalidBandCount.With(
			fmt.Sprintf("a deal needs between %d and %d bands, got %d", MinBands, MaxBands, len(specs)),
			"count", len(specs),
		)
	}
	for i, s := range specs {
		if !finite(s.Lower) || !finite(s.Upper) || s.Lower >= s.Upper {
			return ErrInvalidBandBounds.With(
				fmt.Sprintf("band %d: lower %v must be below upper %v", i, s.Lower, s.Upper),
				"ordinal", i,
			)
		}
		if i > 0 && s.Lower < specs[i-1].Upper {
			return ErrOverlappingBand.With(
				fmt.Sprintf("band %d [%v, %v) overlaps or precedes band %d [%v, %v)", i, s.Lower, s.Upper, i-1, specs[i-1].Lower, specs[i-1].Upper),
				"ordinal", i,
			)
		}
	}
	return nil
}

// CheckOpenable is the Draft to Open guard on the band count
func CheckOpenable(bandCount int) error {
	if bandCount < MinBands || bandCount > MaxBands {
		return ErrInsufficientBands.With(
			fmt.Sprintf("a deal needs between %d and %d bands to open, has %d", MinBands, MaxBands, bandCount),
			"count", bandCount,
		)
	}
	return nil
}

// DefaultLabel renders "lower-upper unit" for bands submitted without a label
func DefaultLabel(s BandSpec) string {
	label := fmt.Sprintf("%g-%g", s.Lower, s.Upper)
	if u := strings.TrimSpace(s.Unit); u != "" {
		label += " " + u
	}
	return label
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
