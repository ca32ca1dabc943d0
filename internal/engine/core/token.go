package core

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// TokenBytes is the entropy of an invitation token before encoding
	TokenBytes = 32
	// MaxLiveInvitations is the seat capacity of one deal
	MaxLiveInvitations = 10
)

// NewInvitationToken returns a clear token for the invitee and the hash to store
func NewInvitationToken() (plain, hash string, err error) {
	buf := make([]byte, TokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate invitation token: %w", err)
	}
	plain = base64.RawURLEncoding.EncodeToString(buf)
	return plain, HashToken(plain), nil
}

// HashToken is the lookup key stored for a clear token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Seat is the token-relevant state of an invitation
type Seat struct {
	InvestorID string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	RevokedAt  *time.Time
}

// Live reports whether the seat counts against the deal capacity:
// not revoked, and either redeemed or still within its expiry.
func (s Seat) Live(now time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	return s.ConsumedAt != nil || now.Before(s.ExpiresAt)
}

// CheckRedeem applies the token policy. It returns firstUse when the
// redemption consumes the seat.
//
// Under the repeatable policy a consumed token keeps authenticating until
// revoked. Under the single-use policy only the investor already bound to the
// seat may present it again.
func CheckRedeem(s Seat, now time.Time, caller *Actor, singleUse bool) (firstUse bool, err error) {
	if s.RevokedAt != nil {
		return false, ErrTokenInvalid.With("invitation has been revoked")
	}
	if s.ConsumedAt == nil {
		if !now.Before(s.ExpiresAt) {
			return false, ErrTokenExpired.With("invitation expired before it was used", "expiresAt", s.ExpiresAt)
		}
		return true, nil
	}
	if !singleUse {
		return false, nil
	}
	if caller != nil && caller.IsInvestor() && caller.ID == s.InvestorID {
		return false, nil
	}
	return false, ErrTokenConsumed
}
