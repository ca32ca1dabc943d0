package router

import (
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/pkg/http"
	"github.com/go-arcade/bookbuild/pkg/http/middleware"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// kindStatus maps rejection kinds to the HTTP status and envelope code
var kindStatus = map[core.Kind]struct {
	status int
	rep    *http.Response
}{
	core.KindValidation:    {fiber.StatusBadRequest, http.ValidationFailed},
	core.KindState:         {fiber.StatusConflict, http.StateConflict},
	core.KindAuthorization: {fiber.StatusForbidden, http.PermissionDenied},
	core.KindCapacity:      {fiber.StatusConflict, http.CapacityConflict},
	core.KindToken:         {fiber.StatusUnauthorized, http.TokenRejected},
	core.KindNotFound:      {fiber.StatusNotFound, http.NotFound},
}

// fail renders err in the error envelope. Domain errors keep their kind,
// code and fields; anything else is logged and reported as internal.
func fail(c *fiber.Ctx, err error) error {
	if e, ok := core.AsError(err); ok {
		m, known := kindStatus[e.Kind]
		if known {
			return http.WithRepErrStatus(c, m.status, http.ResponseErr{
				ErrCode: m.rep.Code,
				ErrMsg:  e.Msg,
				Path:    c.Path(),
				Kind:    string(e.Kind),
				Reason:  e.Code,
				Fields:  e.Fields,
			})
		}
	}
	log.WithContext(c.UserContext()).Errorw("request failed", "path", c.Path(), "error", err)
	return http.WithRepErrStatus(c, fiber.StatusInternalServerError, http.ResponseErr{
		ErrCode: http.InternalError.Code,
		ErrMsg:  http.InternalError.Msg,
		Path:    c.Path(),
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	log.Debugw("request parameter parsing failed", "path", c.Path(), "error", err)
	return http.WithRepErrStatus(c, fiber.StatusBadRequest, http.ResponseErr{
		ErrCode: http.RequestParameterParsingFailed.Code,
		ErrMsg:  http.RequestParameterParsingFailed.Msg,
		Path:    c.Path(),
		Kind:    string(core.KindValidation),
	})
}

// actor resolves the caller from the bearer claims
func actor(c *fiber.Ctx) core.Actor {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return core.Actor{}
	}
	return core.Actor{Role: core.Role(claims.Role), ID: claims.ActorID, DealID: claims.DealID}
}
