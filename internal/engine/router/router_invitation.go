package router

import (
	"strings"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/consts"
	"github.com/go-arcade/bookbuild/internal/engine/core"
	"github.com/go-arcade/bookbuild/internal/engine/service"
	"github.com/go-arcade/bookbuild/pkg/http/jwt"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/gofiber/fiber/v2"
)

type redeemReq struct {
	Token string `json:"token"`
}

type redeemResp struct {
	*service.Access
	SessionToken string    `json:"sessionToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (rt *Router) invitationRouter(r fiber.Router, auth fiber.Handler) {
	r.Post("/deals/:dealId/invitations", auth, rt.invite)
	r.Get("/deals/:dealId/invitations", auth, rt.listInvitations)
	r.Delete("/invitations/:invitationId", auth, rt.revokeInvitation)
}

func (rt *Router) invite(c *fiber.Ctx) error {
	var req core.InvestorIdentity
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	issued, err := rt.Services.Invitation.Invite(c.UserContext(), actor(c), c.Params("dealId"), req)
	if err != nil {
		return fail(c, err)
	}
	c.Status(fiber.StatusCreated)
	c.Locals(consts.DETAIL, issued)
	return nil
}

func (rt *Router) listInvitations(c *fiber.Ctx) error {
	list, err := rt.Services.Invitation.List(c.UserContext(), actor(c), c.Params("dealId"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(consts.DETAIL, list)
	return nil
}

func (rt *Router) revokeInvitation(c *fiber.Ctx) error {
	if err := rt.Services.Invitation.Revoke(c.UserContext(), actor(c), c.Params("invitationId")); err != nil {
		return fail(c, err)
	}
	c.Locals(consts.OPERATION, "revoke invitation")
	return nil
}

// redeemInvitation trades an invitation token for an investor session.
// A bearer header is optional; single-use tokens need it on re-presentation.
func (rt *Router) redeemInvitation(c *fiber.Ctx) error {
	var req redeemReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	access, err := rt.Services.Invitation.Redeem(c.UserContext(), strings.TrimSpace(req.Token), rt.optionalCaller(c))
	if err != nil {
		return fail(c, err)
	}

	ttl := rt.Bookbuild.SessionTTL
	if ttl <= 0 {
		ttl = rt.Http.Auth.AccessExpire
	}
	token, err := jwt.GenToken(string(core.RoleInvestor), access.InvestorID, access.DealID,
		[]byte(rt.Http.Auth.SecretKey), rt.Http.Auth.Issuer, ttl)
	if err != nil {
		return fail(c, err)
	}
	log.WithContext(c.UserContext()).Infow("investor session issued", "dealId", access.DealID, "investorId", access.InvestorID)

	c.Locals(consts.DETAIL, redeemResp{Access: access, SessionToken: token, ExpiresAt: time.Now().Add(ttl)})
	return nil
}

func (rt *Router) optionalCaller(c *fiber.Ctx) *core.Actor {
	bearer, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok || bearer == "" {
		return nil
	}
	claims, err := jwt.ParseToken(bearer, rt.Http.Auth.SecretKey)
	if err != nil {
		return nil
	}
	return &core.Actor{Role: core.Role(claims.Role), ID: claims.ActorID, DealID: claims.DealID}
}
