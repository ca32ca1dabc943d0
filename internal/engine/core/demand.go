package core

import (
	"fmt"
	"strings"
)

// Strength of an indication
type Strength string

const (
	StrengthSoft   Strength = "SOFT"
	StrengthStrong Strength = "STRONG"
)

// ParseStrength accepts either case; empty means SOFT
func ParseStrength(s string) (Strength, error) {
	switch Strength(strings.ToUpper(strings.TrimSpace(s))) {
	case StrengthStrong:
		return StrengthStrong, nil
	case StrengthSoft, "":
		return StrengthSoft, nil
	}
	return "", ErrInvalidStrength.With(fmt.Sprintf("unknown strength %q", s))
}

// Weights maps strength to the multiplier of the weighted demand columns
type Weights struct {
	Strong float64 `json:"strong"`
	Soft   float64 `json:"soft"`
}

var DefaultWeights = Weights{Strong: 1.0, Soft: 0.5}

func (w Weights) Of(s Strength) float64 {
	if s == StrengthStrong {
		return w.Strong
	}
	return w.Soft
}

// Key is a stable rendering used in cache keys
func (w Weights) Key() string {
	return fmt.Sprintf("%g:%g", w.Strong, w.Soft)
}

// Indication is the aggregator view of an active ledger entry
type Indication struct {
	BandOrdinal int
	Amount      float64
	Strength    Strength
	Anchor      bool
}

// DealHeader is the part of a deal the aggregator needs
type DealHeader struct {
	ID            string  `json:"dealId"`
	Currency      string  `json:"currency"`
	Target        float64 `json:"targetAmount"`
	LedgerVersion int64   `json:"ledgerVersion"`
}

type BandDemand struct {
	BandID               string   `json:"bandId"`
	Ordinal              int      `json:"ordinal"`
	Label                string   `json:"label"`
	Lower                float64  `json:"lower"`
	Upper                float64  `json:"upper"`
	Count                int      `json:"count"`
	Amount               float64  `json:"amount"`
	WeightedAmount       float64  `json:"weightedAmount"`
	AnchorCount          int      `json:"anchorCount"`
	CumulativeFromTop    float64  `json:"cumulativeFromTop"`
	CumulativeFromBottom float64  `json:"cumulativeFromBottom"`
	Coverage             *float64 `json:"coverage"`
}

// Summary is the derived demand picture. Coverage is nil when the target is zero.
type Summary struct {
	DealHeader
	Weights       Weights      `json:"weights"`
	Bands         []BandDemand `json:"bands"`
	IOICount      int          `json:"ioiCount"`
	AnchorCount   int          `json:"anchorCount"`
	TotalDemand   float64      `json:"totalDemand"`
	TotalWeighted float64      `json:"totalWeightedDemand"`
	Coverage      *float64     `json:"coverage"`
}

// Aggregate derives the demand summary from the active indications.
// bands must be sorted by ordinal; indications on unknown ordinals are ignored.
func Aggregate(deal DealHeader, bands []Band, iois []Indication, w Weights) Summary {
	out := Summary{
		DealHeader: deal,
		Weights:    w,
		Bands:      make([]BandDemand, len(bands)),
	}
	index := make(map[int]int, len(bands))
	for i, b := range bands {
		out.Bands[i] = BandDemand{
			BandID:  b.ID,
			Ordinal: b.Ordinal,
			Label:   b.Label,
			Lower:   b.Lower,
			Upper:   b.Upper,
		}
		index[b.Ordinal] = i
	}

	for _, ioi := range iois {
		i, ok := index[ioi.BandOrdinal]
		if !ok {
			continue
		}
		bd := &out.Bands[i]
		bd.Count++
		bd.Amount += ioi.Amount
		bd.WeightedAmount += ioi.Amount * w.Of(ioi.Strength)
		if ioi.Anchor {
			bd.AnchorCount++
		}
	}

	var running float64
	for i := range out.Bands {
		running += out.Bands[i].Amount
		out.Bands[i].CumulativeFromBottom = running
	}
	running = 0
	for i := len(out.Bands) - 1; i >= 0; i-- {
		running += out.Bands[i].Amount
		out.Bands[i].CumulativeFromTop = running
	}

	for i := range out.Bands {
		bd := &out.Bands[i]
		bd.Coverage = ratio(bd.Amount, deal.Target)
		out.IOICount += bd.Count
		out.AnchorCount += bd.AnchorCount
		out.TotalDemand += bd.Amount
		out.TotalWeighted += bd.WeightedAmount
	}
	out.Coverage = ratio(out.TotalDemand, deal.Target)
	return out
}

func ratio(amount, target float64) *float64 {
	if target == 0 {
		return nil
	}
	r := amount / target
	return &r
}
