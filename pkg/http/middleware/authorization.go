package middleware

import (
	"errors"
	"strings"

	"github.com/go-arcade/bookbuild/pkg/http"
	"github.com/go-arcade/bookbuild/pkg/http/jwt"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
)

// ClaimsKey is the fiber Locals key holding the parsed *jwt.Claims
const ClaimsKey = "claims"

// AuthorizationMiddleware resolves the bearer token into claims.
// Credentials are never checked here, only the token signature and expiry.
func AuthorizationMiddleware(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return unauthorized(c, http.TokenBeEmpty)
		}

		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c, http.TokenBeEmpty)
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return unauthorized(c, http.TokenExpired)
			}
			log.Debugw("parse token failed", "error", err, "path", c.Path())
			return unauthorized(c, http.InvalidToken)
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by AuthorizationMiddleware
func ClaimsFrom(c *fiber.Ctx) (*jwt.Claims, bool) {
	claims, ok := c.Locals(ClaimsKey).(*jwt.Claims)
	return claims, ok
}

func unauthorized(c *fiber.Ctx, rep *http.Response) error {
	return http.WithRepErrStatus(c, fiber.StatusUnauthorized, http.ResponseErr{
		ErrCode: rep.Code,
		ErrMsg:  rep.Msg,
		Path:    c.Path(),
		Kind:    "TOKEN",
	})
}
