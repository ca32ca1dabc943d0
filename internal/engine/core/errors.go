package core

import (
	"errors"
	"fmt"
)

// Kind groups error codes by the rule family that rejected the call
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindState         Kind = "STATE"
	KindAuthorization Kind = "AUTHORIZATION"
	KindCapacity      Kind = "CAPACITY"
	KindToken         Kind = "TOKEN"
	KindNotFound      Kind = "NOT_FOUND"
)

// Error is a rejected operation. Two errors match under errors.Is when
// their codes match, so the package-level sentinels work with copies
// carrying a specific message.
type Error struct {
	Kind   Kind
	Code   string
	Msg    string
	Fields map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// With returns a copy of e carrying msg and the given key/value pairs
func (e *Error) With(msg string, kv ...any) *Error {
	out := &Error{Kind: e.Kind, Code: e.Code, Msg: msg}
	if len(kv) > 0 {
		out.Fields = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			out.Fields[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return out
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

var (
	ErrInvalidAmount      = newError(KindValidation, "InvalidAmount", "amount must be a positive finite number")
	ErrInvalidBandCount   = newError(KindValidation, "InvalidBandCount", "a deal needs between 3 and 7 bands")
	ErrOverlappingBand    = newError(KindValidation, "OverlappingBand", "bands must be ascending and must not overlap")
	ErrInvalidBandBounds  = newError(KindValidation, "InvalidBandBounds", "band lower bound must be below its upper bound")
	ErrInvalidBandRange   = newError(KindValidation, "InvalidBandRange", "must select one band or two adjacent bands")
	ErrInvalidInvestor    = newError(KindValidation, "InvalidInvestor", "investor identity is incomplete")
	ErrInvalidDeal        = newError(KindValidation, "InvalidDeal", "deal attributes are invalid")
	ErrInvalidNote        = newError(KindValidation, "InvalidNote", "note is invalid")
	ErrInvalidStrength    = newError(KindValidation, "InvalidStrength", "strength must be SOFT or STRONG")
	ErrCurrencyMismatch   = newError(KindValidation, "CurrencyMismatch", "currency does not match the deal currency")
	ErrAmountExceedsLimit = newError(KindValidation, "AmountExceedsLimit", "amount exceeds the per-investor maximum")

	ErrBookClosed        = newError(KindState, "BookClosed", "the book is not open")
	ErrBookOpen          = newError(KindState, "BookOpen", "not allowed while the book is open")
	ErrNotClosed         = newError(KindState, "NotClosed", "the book must be closed first")
	ErrInvalidTransition = newError(KindState, "InvalidTransition", "transition not allowed")
	ErrAlreadySelected   = newError(KindState, "AlreadySelected", "a range has already been selected")
	ErrBandsFrozen       = newError(KindState, "BandsFrozen", "bands are frozen once the deal leaves draft")
	ErrInsufficientBands = newError(KindState, "InsufficientBands", "a deal needs between 3 and 7 bands to open")
	ErrNotDraft          = newError(KindState, "NotDraft", "deal attributes can only change while in draft")

	ErrNotOwner   = newError(KindAuthorization, "NotOwner", "caller does not own this resource")
	ErrNotInvited = newError(KindAuthorization, "NotInvited", "caller holds no redeemed invitation for this deal")
	ErrForbidden  = newError(KindAuthorization, "Forbidden", "caller role may not perform this operation")

	ErrCapacityExceeded  = newError(KindCapacity, "CapacityExceeded", "the deal already has 10 live invitations")
	ErrDuplicateInvestor = newError(KindCapacity, "DuplicateInvestor", "investor already holds a live invitation")

	ErrTokenExpired  = newError(KindToken, "TokenExpired", "invitation token has expired")
	ErrTokenInvalid  = newError(KindToken, "TokenInvalid", "invitation token is not valid")
	ErrTokenConsumed = newError(KindToken, "TokenConsumed", "invitation token has already been used")

	ErrDealNotFound       = newError(KindNotFound, "DealNotFound", "deal not found")
	ErrUnknownBand        = newError(KindNotFound, "UnknownBand", "band does not belong to this deal")
	ErrIOINotFound        = newError(KindNotFound, "IOINotFound", "indication not found")
	ErrInvitationNotFound = newError(KindNotFound, "InvitationNotFound", "invitation not found")
	ErrSelectionNotFound  = newError(KindNotFound, "SelectionNotFound", "no range has been selected")
)

// InvalidTransition names the current and attempted states
func InvalidTransition[S ~string](from, to S) *Error {
	return ErrInvalidTransition.With(
		fmt.Sprintf("cannot move deal from %s to %s", from, to),
		"from", string(from), "to", string(to),
	)
}

// AsError extracts the domain error from err, if any
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of a domain error, or "" for infrastructure errors
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return ""
}
