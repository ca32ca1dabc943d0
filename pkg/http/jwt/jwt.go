package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/golang-jwt/jwt/v5"
)

// Claims identify the caller. Role is "ISSUER" or "INVESTOR"; DealID scopes
// investor sessions minted from an invitation.
type Claims struct {
	Role    string `json:"role"`
	ActorID string `json:"actorId"`
	DealID  string `json:"dealId,omitempty"`
	jwt.RegisteredClaims
}

const defaultIssuer = "bookbuild"

// GenToken signs claims with HS256. An empty issuer falls back to "bookbuild".
func GenToken(role, actorID, dealID string, secretKey []byte, issuer string, expire time.Duration) (string, error) {
	if issuer == "" {
		issuer = defaultIssuer
	}
	now := time.Now()
	claims := &Claims{
		Role:    role,
		ActorID: actorID,
		DealID:  dealID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actorID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		log.Errorw("jwt.NewWithClaims err", "error", err)
		return "", err
	}
	return token, nil
}

// ParseToken validates aToken and returns its claims
func ParseToken(aToken, secretKey string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(aToken, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ActorID == "" || claims.Role == "" {
		return nil, errors.New("invalid token: missing actor")
	}
	return claims, nil
}
