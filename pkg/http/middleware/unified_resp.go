package middleware

import (
	"github.com/go-arcade/bookbuild/internal/engine/consts"
	httpx "github.com/go-arcade/bookbuild/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// UnifiedResponseMiddleware wraps successful handler output.
// c.Locals(consts.DETAIL, value) sets the response payload,
// c.Locals(consts.OPERATION, true) marks a write without payload.
// Non-2xx responses are left untouched, they already carry the error envelope.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			return nil
		}

		if detail := c.Locals(consts.DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}
		if c.Locals(consts.OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}
		return nil
	}
}
