package middleware

import (
	"runtime/debug"

	"github.com/go-arcade/bookbuild/pkg/http"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// ExceptionMiddleware recovers panics into a 500 error envelope
func ExceptionMiddleware(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic recovered", "path", c.Path(), "panic", r, "stack", string(debug.Stack()))
			err = http.WithRepErrStatus(c, fiber.StatusInternalServerError, http.ResponseErr{
				ErrCode: http.InternalError.Code,
				ErrMsg:  errorToString(r),
				Path:    c.Path(),
			})
		}
	}()

	return c.Next()
}

func errorToString(r any) string {
	switch v := r.(type) {
	case http.ResponseErr:
		if errMsg, ok := v.ErrMsg.(string); ok {
			return errMsg
		}
		return http.InternalError.Msg
	case string:
		return v
	default:
		// never leak internals to the client
		return http.InternalError.Msg
	}
}
