package router

import (
	"github.com/go-arcade/bookbuild/internal/engine/consts"
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/model"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) ioiRouter(r fiber.Router, auth fiber.Handler) {
	r.Post("/deals/:dealId/iois", auth, rt.submitIOI)
	r.Get("/deals/:dealId/iois", auth, rt.listIOIs)
	r.Get("/deals/:dealId/iois/history", auth, rt.ioiHistory)
	r.Put("/iois/:ioiId", auth, rt.updateIOI)
	r.Delete("/iois/:ioiId", auth, rt.deleteIOI)
}

func (rt *Router) submitIOI(c *fiber.Ctx) error {
	var req core.IOIRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	ioi, err := rt.Services.IOI.Submit(c.UserContext(), actor(c), c.Params("dealId"), req)
	if err != nil {
		return fail(c, err)
	}
	c.Status(fiber.StatusCreated)
	c.Locals(consts.DETAIL, ioi)
	return nil
}

// listIOIs returns the caller's own entry to investors and the whole active book to the issuer
func (rt *Router) listIOIs(c *fiber.Ctx) error {
	a := actor(c)
	var (
		list []model.IOI
		err  error
	)
	if a.IsInvestor() {
		list, err = rt.Services.IOI.ListForInvestor(c.UserContext(), a, c.Params("dealId"))
	} else {
		list, err = rt.Services.IOI.ListAllForIssuer(c.UserContext(), a, c.Params("dealId"))
	}
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, list)
	return nil
}

func (rt *Router) ioiHistory(c *fiber.Ctx) error {
	list, err := rt.Services.IOI.History(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, list)
	return nil
}

func (rt *Router) updateIOI(c *fiber.Ctx) error {
	var req core.IOIRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	ioi, err := rt.Services.IOI.Update(c.UserContext(), actor(c), c.Params("ioiId"), req)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, ioi)
	return nil
}

func (rt *Router) deleteIOI(c *fiber.Ctx) error {
	if err := rt.Services.IOI.Delete(c.UserContext(), actor(c), c.Params("ioiId")); err != nil {
		return fail(c, err)
	}
	c.Locals(consts.OPERATION, "delete ioi")
	return nil
}
