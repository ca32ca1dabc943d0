package router

import (
	"github.com/go-arcade/bookbuild/internal/engine/consts"
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) dealRouter(r fiber.Router, auth fiber.Handler) {
	dealGroup := r.Group("/deals")
	{
		dealGroup.Post("", auth, rt.createDeal)
		dealGroup.Get("", auth, rt.listDeals)
		dealGroup.Get("/:dealId", auth, rt.getDeal)
		dealGroup.Put("/:dealId", auth, rt.updateDeal)
		dealGroup.Delete("/:dealId", auth, rt.deleteDeal)

		// lifecycle
		dealGroup.Post("/:dealId/open", auth, rt.openDeal)
		dealGroup.Post("/:dealId/close", auth, rt.closeDeal)
	}
}

func (rt *Router) createDeal(c *fiber.Ctx) error {
	var req core.DealInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	deal, err := rt.Services.Deal.Create(c.UserContext(), actor(c), req)
	if err != nil {
		return fail(c, err)
	}
	c.Status(fiber.StatusCreated)
	c.Locals(consts.DETAIL, deal)
	return nil
}

func (rt *Router) listDeals(c *fiber.Ctx) error {
	deals, err := rt.Services.Deal.List(c.UserContext(), actor(c))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, deals)
	return nil
}

func (rt *Router) getDeal(c *fiber.Ctx) error {
	deal, err := rt.Services.Deal.Get(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, deal)
	return nil
}

func (rt *Router) updateDeal(c *fiber.Ctx) error {
	var req core.DealInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	deal, err := rt.Services.Deal.Update(c.UserContext(), actor(c), c.Params("dealId"), req)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, deal)
	return nil
}

func (rt *Router) deleteDeal(c *fiber.Ctx) error {
	if err := rt.Services.Deal.Delete(c.UserContext(), actor(c), c.Params("dealId")); err != nil {
		return fail(c, err)
	}
	c.Locals(consts.OPERATION, "delete deal")
	return nil
}

func (rt *Router) openDeal(c *fiber.Ctx) error {
	deal, err := rt.Services.Deal.Open(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, deal)
	return nil
}

func (rt *Router) closeDeal(c *fiber.Ctx) error {
	deal, err := rt.Services.Deal.Close(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, deal)
	return nil
}
