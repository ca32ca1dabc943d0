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

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/internal/engine/router"
	"github.com/go-arcade/bookbuild/pkg/cron"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/go-arcade/bookbuild/pkg/pprof"
	"github.com/go-arcade/bookbuild/pkg/trace"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type App struct {
	HttpApp       *fiber.App
	Logger        *log.Logger
	Scheduler     *cron.Scheduler
	MetricsServer *metrics.Server
	PprofServer   *pprof.Server
	AppConf       *conf.AppConfig
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	store *repo.Store,
	scheduler *cron.Scheduler,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	appConf *conf.AppConfig,
) (*App, func(), error) {
	if err := trace.Init(appConf.Trace); err != nil {
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := store.AutoMigrate(migrateCtx); err != nil {
		return nil, nil, fmt.Errorf("migrate schema: %w", err)
	}

	app := &App{
		HttpApp:       rt.Router(),
		Logger:        logger,
		Scheduler:     scheduler,
		MetricsServer: metricsServer,
		PprofServer:   pprofServer,
		AppConf:       appConf,
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logger.Log.Info("Stopping scheduler...")
		scheduler.Stop()

		if err := metricsServer.Stop(ctx); err != nil {
			logger.Log.Errorw("Metrics server shutdown error", zap.Error(err))
		}
		if err := pprofServer.Stop(ctx); err != nil {
			logger.Log.Errorw("pprof server shutdown error", zap.Error(err))
		}
		if err := trace.Shutdown(ctx); err != nil {
			logger.Log.Errorw("Tracer shutdown error", zap.Error(err))
		}
	}

	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	logger := app.Logger.Log
	appConf := app.AppConf

	if err := app.MetricsServer.Start(); err != nil {
		logger.Errorf("metrics server failed: %v", err)
	}
	if err := app.PprofServer.Start(); err != nil {
		logger.Errorf("pprof server failed: %v", err)
	}
	app.Scheduler.Start()
	logger.Infow("Scheduler started", "jobs", app.Scheduler.Jobs())

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// start HTTP server (async)
	go func() {
		addr := fmt.Sprintf("%s:%d", appConf.Http.Host, appConf.Http.Port)
		logger.Infow("HTTP listener started", "address", addr)
		if err := app.HttpApp.Listen(addr); err != nil {
			logger.Errorw("HTTP listener failed", "address", addr, zap.Error(err))
		}
	}()

	sig := <-quit
	logger.Infof("Received signal: %v, shutting down gracefully...", sig)

	timeout := time.Duration(appConf.Http.ShutdownTimeout) * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	// scheduler, side listeners, tracer, cache and database
	cleanup()

	_ = log.Sync()
	logger.Info("Server shutdown complete")
}
