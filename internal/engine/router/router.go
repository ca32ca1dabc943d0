// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/internal/engine/service"
	httpx "github.com/go-arcade/bookbuild/pkg/http"
	"github.com/go-arcade/bookbuild/pkg/http/middleware"
	"github.com/go-arcade/bookbuild/pkg/trace/inject"
	"github.com/go-arcade/bookbuild/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Http      *httpx.Http
	Bookbuild conf.BookbuildConfig
	Services  *service.Services
	// Registry is exposed on /metrics when set
	Registry *prometheus.Registry
}

func NewRouter(httpConf *httpx.Http, bookbuild conf.BookbuildConfig, services *service.Services, registry *prometheus.Registry) *Router {
	return &Router{
		Http:      httpConf,
		Bookbuild: bookbuild,
		Services:  services,
		Registry:  registry,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(httpx.FiberConfig(*rt.Http))

	// panic recover
	app.Use(middleware.ExceptionMiddleware)

	// request id
	app.Use(middleware.RequestMiddleware())

	// server span per request
	app.Use(inject.FiberMiddleware())

	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware(rt.Http))
	}

	// unified response
	app.Use(middleware.UnifiedResponseMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	if rt.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1")
	rt.routerGroup(api)

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {
	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey)

	// public: the invitation token is the credential
	r.Post("/invitations/redeem", rt.redeemInvitation)

	rt.dealRouter(r, auth)
	rt.bandRouter(r, auth)
	rt.invitationRouter(r, auth)
	rt.ioiRouter(r, auth)
	rt.demandRouter(r, auth)
}
