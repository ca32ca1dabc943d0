package router_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/internal/engine/repo/repotest"
	"github.com/go-arcade/bookbuild/internal/engine/router"
	"github.com/go-arcade/bookbuild/internal/engine/service"
	httpx "github.com/go-arcade/bookbuild/pkg/http"
	"github.com/go-arcade/bookbuild/pkg/http/jwt"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type envelope struct {
	Code   int            `json:"code"`
	Detail map[string]any `json:"detail"`
	ErrMsg string         `json:"errMsg"`
	Kind   string         `json:"kind"`
	Reason string         `json:"reason"`
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func newClient(t *testing.T) *client {
	t.Helper()
	cfg := conf.BookbuildConfig{}
	cfg.SetDefaults()
	reg := prometheus.NewRegistry()
	deps := &service.Deps{
		Store:   repotest.NewStore(t),
		Metrics: metrics.NewBookbuildMetrics(reg),
		Config:  cfg,
	}
	httpConf := &httpx.Http{Auth: httpx.Auth{SecretKey: secret}}
	httpConf.SetDefaults()
	rt := router.NewRouter(httpConf, cfg, service.NewServices(deps, nil, 0), reg)
	return &client{t: t, app: rt.Router()}
}

func issuerToken(t *testing.T, id string) string {
	t.Helper()
	token, err := jwt.GenToken("ISSUER", id, "", []byte(secret), "", time.Hour)
	require.NoError(t, err)
	return token
}

func (c *client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	var env envelope
	if len(raw) > 0 && raw[0] == '{' {
		// list payloads do not fit Detail; callers only inspect code and status then
		_ = sonic.Unmarshal(raw, &env)
	}
	return resp.StatusCode, env
}

func TestRouter_Health(t *testing.T) {
	c := newClient(t)
	resp, err := c.app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = c.app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_BookFlow(t *testing.T) {
	c := newClient(t)
	iss := issuerToken(t, "issuer-1")

	status, env := c.do(fiber.MethodPost, "/api/v1/deals", iss, map[string]any{
		"name": "Project Atlas", "type": "EQUITY", "currency": "USD", "targetAmount": 1000,
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, httpx.Success.Code, env.Code)
	dealID := env.Detail["id"].(string)
	base := "/api/v1/deals/" + dealID

	status, _ = c.do(fiber.MethodPut, base+"/bands", iss, map[string]any{"bands": []map[string]any{
		{"lower": 10, "upper": 12}, {"lower": 12, "upper": 14}, {"lower": 14, "upper": 16},
	}})
	require.Equal(t, fiber.StatusOK, status)

	status, env = c.do(fiber.MethodPost, base+"/open", iss, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OPEN", env.Detail["state"])

	status, env = c.do(fiber.MethodPost, base+"/invitations", iss, map[string]any{"name": "Fund A", "email": "a@fund.com"})
	require.Equal(t, fiber.StatusCreated, status)
	token := env.Detail["token"].(string)

	status, env = c.do(fiber.MethodPost, "/api/v1/invitations/redeem", "", map[string]any{"token": token})
	require.Equal(t, fiber.StatusOK, status)
	session := env.Detail["sessionToken"].(string)
	assert.Equal(t, dealID, env.Detail["dealId"])

	status, env = c.do(fiber.MethodPost, base+"/iois", session, map[string]any{"bandOrdinal": 1, "amount": 250, "strength": "STRONG"})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "ACTIVE", env.Detail["status"])

	status, env = c.do(fiber.MethodGet, base+"/summary", iss, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 250, env.Detail["totalDemand"])
	assert.EqualValues(t, 0.25, env.Detail["coverage"])

	status, env = c.do(fiber.MethodGet, base+"/summary", session, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "AUTHORIZATION", env.Kind)
	assert.Equal(t, "Forbidden", env.Reason)

	status, env = c.do(fiber.MethodPost, base+"/range", iss, map[string]any{"lowOrdinal": 0, "highOrdinal": 1})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "NotClosed", env.Reason)

	status, _ = c.do(fiber.MethodPost, base+"/close", iss, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, env = c.do(fiber.MethodPost, base+"/range", iss, map[string]any{"lowOrdinal": 0, "highOrdinal": 2})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "InvalidBandRange", env.Reason)

	status, _ = c.do(fiber.MethodPost, base+"/range", iss, map[string]any{"lowOrdinal": 1, "highOrdinal": 2})
	require.Equal(t, fiber.StatusOK, status)

	status, env = c.do(fiber.MethodGet, base+"/report", iss, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, service.Disclaimer, env.Detail["disclaimer"])
}

func TestRouter_Errors(t *testing.T) {
	c := newClient(t)
	iss := issuerToken(t, "issuer-1")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
		kind   string
		reason string
	}{
		{name: "missing token", method: fiber.MethodGet, path: "/api/v1/deals", status: fiber.StatusUnauthorized, kind: "TOKEN"},
		{name: "garbage token", method: fiber.MethodGet, path: "/api/v1/deals", token: "abc", status: fiber.StatusUnauthorized, kind: "TOKEN"},
		{name: "unknown deal", method: fiber.MethodGet, path: "/api/v1/deals/nope", token: iss, status: fiber.StatusNotFound, kind: "NOT_FOUND", reason: "DealNotFound"},
		{name: "invalid deal", method: fiber.MethodPost, path: "/api/v1/deals", token: iss, body: map[string]any{"name": "x", "type": "BOND", "currency": "USD"}, status: fiber.StatusBadRequest, kind: "VALIDATION", reason: "InvalidDeal"},
		{name: "bad redeem token", method: fiber.MethodPost, path: "/api/v1/invitations/redeem", body: map[string]any{"token": "nope"}, status: fiber.StatusUnauthorized, kind: "TOKEN", reason: "TokenInvalid"},
		{name: "unknown route", method: fiber.MethodGet, path: "/api/v1/nothing", status: fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := c.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, env.Kind)
			assert.Equal(t, tt.reason, env.Reason)
		})
	}
}
