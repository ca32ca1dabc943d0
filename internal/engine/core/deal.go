package core

import (
	"fmt"
	"net/mail"
	"strings"
)

type DealType string

const (
	DealEquity DealType = "EQUITY"
	DealDebt   DealType = "DEBT"
)

type InvestorType string

const (
	InvestorInstitutional InvestorType = "INSTITUTIONAL"
	InvestorFamilyOffice  InvestorType = "FAMILY_OFFICE"
	InvestorHNWI          InvestorType = "HNWI"
	InvestorSovereign     InvestorType = "SOVEREIGN"
	InvestorOther         InvestorType = "OTHER"
)

func (t InvestorType) Valid() bool {
	switch t {
	case InvestorInstitutional, InvestorFamilyOffice, InvestorHNWI, InvestorSovereign, InvestorOther:
		return true
	}
	return false
}

// DealInput carries the editable attributes of a deal
type DealInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Type         DealType `json:"type"`
	Currency     string   `json:"currency"`
	TargetAmount float64  `json:"targetAmount"`
	MaxIOIAmount *float64 `json:"maxIoiAmount"`
}

// Normalize trims text fields and upper-cases enums
func (in *DealInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Type = DealType(strings.ToUpper(strings.TrimSpace(string(in.Type))))
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
}

func (in DealInput) Validate() error {
	switch {
	case in.Name == "":
		return ErrInvalidDeal.With("name is required", "field", "name")
	case in.Type != DealEquity && in.Type != DealDebt:
		return ErrInvalidDeal.With(fmt.Sprintf("type must be EQUITY or DEBT, got %q", in.Type), "field", "type")
	case in.Currency == "":
		return ErrInvalidDeal.With("currency is required", "field", "currency")
	case !finite(in.TargetAmount) || in.TargetAmount < 0:
		return ErrInvalidDeal.With("target amount must be zero or positive", "field", "targetAmount")
	case in.MaxIOIAmount != nil && (!finite(*in.MaxIOIAmount) || *in.MaxIOIAmount <= 0):
		return ErrInvalidDeal.With("max IOI amount must be positive when set", "field", "maxIoiAmount")
	}
	return nil
}

// InvestorIdentity is who gets invited
type InvestorIdentity struct {
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Type            InvestorType `json:"type"`
	AnchorPotential bool         `json:"anchorPotential"`
}

// Normalize lower-cases the email and defaults the type
func (id *InvestorIdentity) Normalize() {
	id.Name = strings.TrimSpace(id.Name)
	id.Email = strings.ToLower(strings.TrimSpace(id.Email))
	id.Type = InvestorType(strings.ToUpper(strings.TrimSpace(string(id.Type))))
	if id.Type == "" {
		id.Type = InvestorInstitutional
	}
}

func (id InvestorIdentity) Validate() error {
	if id.Name == "" {
		return ErrInvalidInvestor.With("investor name is required", "field", "name")
	}
	addr, err := mail.ParseAddress(id.Email)
	if err != nil || addr.Address != id.Email {
		return ErrInvalidInvestor.With(fmt.Sprintf("invalid email %q", id.Email), "field", "email")
	}
	if !id.Type.Valid() {
		return ErrInvalidInvestor.With(fmt.Sprintf("unknown investor type %q", id.Type), "field", "type")
	}
	return nil
}

type NoteScope string

const (
	NoteGeneral  NoteScope = "GENERAL"
	NoteBand     NoteScope = "BAND"
	NoteInvestor NoteScope = "INVESTOR"
)

// ValidateNote checks a feedback note; BAND and INVESTOR scopes need a reference
func ValidateNote(scope NoteScope, scopeRef, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrInvalidNote.With("note text is required", "field", "text")
	}
	if err := ValidateFreeText(text); err != nil {
		return err
	}
	switch scope {
	case NoteGeneral:
		return nil
	case NoteBand, NoteInvestor:
		if scopeRef == "" {
			return ErrInvalidNote.With(fmt.Sprintf("%s notes need a scope reference", scope), "field", "scopeRef")
		}
		return nil
	}
	return ErrInvalidNote.With(fmt.Sprintf("unknown scope %q", scope), "field", "scope")
}
