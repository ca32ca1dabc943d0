package router

import (
	"github.com/go-arcade/bookbuild/internal/engine/consts"
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/gofiber/fiber/v2"
)

type selectRangeReq struct {
	Low         *int   `json:"lowOrdinal"`
	High        *int   `json:"highOrdinal"`
	Description string `json:"description"`
}

type addNoteReq struct {
	Scope    core.NoteScope `json:"scope"`
	ScopeRef string         `json:"scopeRef"`
	Text     string         `json:"text"`
}

func (rt *Router) demandRouter(r fiber.Router, auth fiber.Handler) {
	dealGroup := r.Group("/deals/:dealId")
	{
		dealGroup.Get("/summary", auth, rt.summary)
		dealGroup.Get("/report", auth, rt.report)

		// range
		dealGroup.Post("/range", auth, rt.selectRange)
		dealGroup.Get("/range", auth, rt.getRange)

		// feedback notes
		dealGroup.Post("/notes", auth, rt.addNote)
		dealGroup.Get("/notes", auth, rt.listNotes)
	}
}

func (rt *Router) summary(c *fiber.Ctx) error {
	sum, err := rt.Services.Demand.Summary(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, sum)
	return nil
}

func (rt *Router) report(c *fiber.Ctx) error {
	r, err := rt.Services.Report.Build(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, r)
	return nil
}

func (rt *Router) selectRange(c *fiber.Ctx) error {
	var req selectRangeReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if req.Low == nil || req.High == nil {
		return fail(c, core.ErrInvalidBandRange.With("lowOrdinal and highOrdinal are required"))
	}
	sel, err := rt.Services.Range.Select(c.UserContext(), actor(c), c.Params("dealId"), *req.Low, *req.High, req.Description)
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, sel)
	return nil
}

func (rt *Router) getRange(c *fiber.Ctx) error {
	sel, err := rt.Services.Range.Get(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, sel)
	return nil
}

func (rt *Router) addNote(c *fiber.Ctx) error {
	var req addNoteReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	note, err := rt.Services.Note.Add(c.UserContext(), actor(c), c.Params("dealId"), req.Scope, req.ScopeRef, req.Text)
	if err != nil {
		return fail(c, err)
	}
	c.Status(fiber.StatusCreated)
	c.Locals(consts.DETAIL, note)
	return nil
}

func (rt *Router) listNotes(c *fiber.Ctx) error {
	notes, err := rt.Services.Note.List(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, notes)
	return nil
}
