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

package http

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

type Http struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	AccessLog       bool   `mapstructure:"accessLog"`
	BodyLimit       int    `mapstructure:"bodyLimit"`
	ReadTimeout     int    `mapstructure:"readTimeout"`
	WriteTimeout    int    `mapstructure:"writeTimeout"`
	IdleTimeout     int    `mapstructure:"idleTimeout"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
	Auth            Auth   `mapstructure:"auth"`
}

type Auth struct {
	SecretKey    string        `mapstructure:"secretKey"`
	Issuer       string        `mapstructure:"issuer"`
	AccessExpire time.Duration `mapstructure:"accessExpire"`
}

func (h *Http) SetDefaults() {
	if h.Host == "" {
		h.Host = "0.0.0.0"
	}
	if h.Port == 0 {
		h.Port = 8080
	}
	if h.ShutdownTimeout == 0 {
		h.ShutdownTimeout = 10
	}
	if h.Auth.Issuer == "" {
		h.Auth.Issuer = "bookbuild"
	}
	if h.Auth.AccessExpire == 0 {
		h.Auth.AccessExpire = 24 * time.Hour
	}
}

// FiberConfig returns the fiber settings shared by the server and tests
func FiberConfig(cfg Http) fiber.Config {
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 1 << 20
	}
	return fiber.Config{
		AppName:               "bookbuild",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ReadTimeout:           time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(cfg.IdleTimeout) * time.Second,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          ErrorHandler,
	}
}

// ErrorHandler renders errors escaping handlers in the error envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code, msg := InternalError.Code, InternalError.Msg
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
		msg = fe.Message
		switch {
		case fe.Code == fiber.StatusNotFound:
			code = NotFound.Code
		case fe.Code < fiber.StatusInternalServerError:
			code = BadRequest.Code
		}
	}
	return WithRepErrStatus(c, status, ResponseErr{ErrCode: code, ErrMsg: msg, Path: c.Path()})
}
