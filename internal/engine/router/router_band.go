package router

import (
	"github.com/go-arcade/bookbuild/internal/engine/consts"
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/gofiber/fiber/v2"
)

type defineBandsReq struct {
	Bands []core.BandSpec `json:"bands"`
}

func (rt *Router) bandRouter(r fiber.Router, auth fiber.Handler) {
	bandGroup := r.Group("/deals/:dealId/bands")
	{
		bandGroup.Put("", auth, rt.defineBands)
		bandGroup.Get("", auth, rt.listBands)
	}
}

func (rt *Router) defineBands(c *fiber.Ctx) error {
	var req defineBandsReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	bands, err := rt.Services.Band.Define(c.UserContext(), actor(c), c.Params("dealId"), req.Bands)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, bands)
	return nil
}

func (rt *Router) listBands(c *fiber.Ctx) error {
	bands, err := rt.Services.Band.List(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, bands)
	return nil
}
