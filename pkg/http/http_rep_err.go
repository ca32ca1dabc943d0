package http

import (
	"github.com/gofiber/fiber/v2"
)

// ResponseErr is the error envelope. Kind and Reason carry the domain error
// taxonomy so clients can tell which rule rejected the call.
type ResponseErr struct {
	ErrCode int            `json:"code"`
	ErrMsg  any            `json:"errMsg"`
	Path    string         `json:"path,omitempty"`
	Kind    string         `json:"kind,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func WithRepErrMsg(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// WithRepErrStatus writes body with the given HTTP status
func WithRepErrStatus(c *fiber.Ctx, status int, body ResponseErr) error {
	return c.Status(status).JSON(body)
}
