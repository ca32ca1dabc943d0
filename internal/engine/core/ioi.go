package core

import (
	"fmt"
	"strings"
)

// LedgerStatus tags a ledger entry. Only one ACTIVE entry exists per investor and deal.
type LedgerStatus string

const (
	LedgerActive     LedgerStatus = "ACTIVE"
	LedgerSuperseded LedgerStatus = "SUPERSEDED"
	LedgerDeleted    LedgerStatus = "DELETED"
)

// IOIRequest is a submit or update. BandID wins over BandOrdinal when both are set.
type IOIRequest struct {
	BandID      string  `json:"bandId"`
	BandOrdinal *int    `json:"bandOrdinal"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Strength    string  `json:"strength"`
	Anchor      bool    `json:"anchor"`
	Note        string  `json:"note"`
}

const maxNoteLen = 2000

// ValidateIndication checks the amount, currency and per-investor maximum
func ValidateIndication(amount float64, currency, dealCurrency string, maxAmount *float64) error {
	if !finite(amount) || amount <= 0 {
		return ErrInvalidAmount.With(fmt.Sprintf("amount must be a positive number, got %v", amount), "amount", amount)
	}
	if currency != "" && !strings.EqualFold(currency, dealCurrency) {
		return ErrCurrencyMismatch.With(
			fmt.Sprintf("deal is denominated in %s, got %s", dealCurrency, currency),
			"currency", currency, "dealCurrency", dealCurrency,
		)
	}
	if maxAmount != nil && *maxAmount > 0 && amount > *maxAmount {
		return ErrAmountExceedsLimit.With(
			fmt.Sprintf("amount %v exceeds the maximum of %v per investor", amount, *maxAmount),
			"amount", amount, "max", *maxAmount,
		)
	}
	return nil
}

// ValidateFreeText bounds notes attached to ledger entries and feedback
func ValidateFreeText(text string) error {
	if len(text) > maxNoteLen {
		return ErrInvalidNote.With(fmt.Sprintf("note is limited to %d characters", maxNoteLen))
	}
	return nil
}
