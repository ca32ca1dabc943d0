package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-arcade/bookbuild/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := ErrInvalidAmount.With("amount must be positive, got -5", "amount", -5.0)
	wrapped := fmt.Errorf("submit: %w", err)

	assert.True(t, errors.Is(wrapped, ErrInvalidAmount))
	assert.False(t, errors.Is(wrapped, ErrInvalidBandCount))
	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.Equal(t, -5.0, err.Fields["amount"])
	assert.Equal(t, "InvalidAmount: amount must be positive, got -5", err.Error())
}

func TestInvalidTransition(t *testing.T) {
	err := InvalidTransition(statemachine.DealClosed, statemachine.DealOpen)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "CLOSED", err.Fields["from"])
	assert.Equal(t, "OPEN", err.Fields["to"])
	assert.Contains(t, err.Msg, "CLOSED")
}

func TestKindOf_Infrastructure(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("disk full")))
	_, ok := AsError(nil)
	assert.False(t, ok)
}

func TestActor_Require(t *testing.T) {
	issuer := Issuer("iss-1")
	require.NoError(t, issuer.RequireIssuer("iss-1"))
	assert.ErrorIs(t, issuer.RequireIssuer("iss-2"), ErrNotOwner)
	assert.ErrorIs(t, Investor("inv-1", "d").RequireIssuer("iss-1"), ErrForbidden)

	inv := Investor("inv-1", "deal-1")
	require.NoError(t, inv.RequireInvestorOf("deal-1"))
	assert.ErrorIs(t, inv.RequireInvestorOf("deal-2"), ErrNotInvited)
	assert.ErrorIs(t, issuer.RequireInvestorOf("deal-1"), ErrForbidden)
}
