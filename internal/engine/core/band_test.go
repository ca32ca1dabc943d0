package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func specs(bounds ...[2]float64) []BandSpec {
	out := make([]BandSpec, 0, len(bounds))
	for _, b := range bounds {
		out = append(out, BandSpec{Lower: b[0], Upper: b[1]})
	}
	return out
}

func TestValidateBands(t *testing.T) {
	tests := []struct {
		name  string
		specs []BandSpec
		want  error
	}{
		{name: "three touching bands", specs: specs([2]float64{10, 12}, [2]float64{12, 14}, [2]float64{14, 16})},
		{name: "seven bands with gaps", specs: specs([2]float64{1, 2}, [2]float64{3, 4}, [2]float64{5, 6}, [2]float64{7, 8}, [2]float64{9, 10}, [2]float64{11, 12}, [2]float64{13, 14})},
		{name: "two bands", specs: specs([2]float64{10, 12}, [2]float64{12, 14}), want: ErrInvalidBandCount},
		{name: "eight bands", specs: specs([2]float64{1, 2}, [2]float64{2, 3}, [2]float64{3, 4}, [2]float64{4, 5}, [2]float64{5, 6}, [2]float64{6, 7}, [2]float64{7, 8}, [2]float64{8, 9}), want: ErrInvalidBandCount},
		{name: "none", specs: nil, want: ErrInvalidBandCount},
		{name: "overlap", specs: specs([2]float64{10, 13}, [2]float64{12, 14}, [2]float64{14, 16}), want: ErrOverlappingBand},
		{name: "descending", specs: specs([2]float64{14, 16}, [2]float64{12, 14}, [2]float64{10, 12}), want: ErrOverlappingBand},
		{name: "empty band", specs: specs([2]float64{10, 10}, [2]float64{12, 14}, [2]float64{14, 16}), want: ErrInvalidBandBounds},
		{name: "inverted band", specs: specs([2]float64{10, 12}, [2]float64{14, 12}, [2]float64{14, 16}), want: ErrInvalidBandBounds},
		{name: "nan bound", specs: specs([2]float64{math.NaN(), 12}, [2]float64{12, 14}, [2]float64{14, 16}), want: ErrInvalidBandBounds},
		{name: "infinite bound", specs: specs([2]float64{10, 12}, [2]float64{12, 14}, [2]float64{14, math.Inf(1)}), want: ErrInvalidBandBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBands(tt.specs)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestCheckOpenable(t *testing.T) {
	for n := 0; n <= 9; n++ {
		err := CheckOpenable(n)
		if n >= MinBands && n <= MaxBands {
			assert.NoError(t, err, "count %d", n)
		} else {
			assert.ErrorIs(t, err, ErrInsufficientBands, "count %d", n)
		}
	}
}

func TestDefaultLabel(t *testing.T) {
	assert.Equal(t, "10-12 x EBITDA", DefaultLabel(BandSpec{Lower: 10, Upper: 12, Unit: "x EBITDA"}))
	assert.Equal(t, "5.25-5.5", DefaultLabel(BandSpec{Lower: 5.25, Upper: 5.5}))
}
