package middleware

import (
	"github.com/go-arcade/bookbuild/pkg/id"
	"github.com/gofiber/fiber/v2"
)

// RequestMiddleware set request id
func RequestMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestId := c.Get(fiber.HeaderXRequestID)
		if requestId == "" {
			requestId = id.GetUUID()
		}
		c.Request().Header.Set(fiber.HeaderXRequestID, requestId)
		c.Set(fiber.HeaderXRequestID, requestId)
		c.Locals("request_id", requestId)
		return c.Next()
	}
}
