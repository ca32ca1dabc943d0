//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/bookbuild/internal/engine/bootstrap"
	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/internal/engine/repo"
	"github.com/go-arcade/bookbuild/internal/engine/router"
	"github.com/go-arcade/bookbuild/internal/engine/service"
	"github.com/go-arcade/bookbuild/internal/pkg/notify"
	"github.com/go-arcade/bookbuild/pkg/cache"
	"github.com/go-arcade/bookbuild/pkg/database"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/go-arcade/bookbuild/pkg/pprof"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// config
		conf.ProviderSet,
		// infrastructure
		log.ProviderSet,
		database.ProviderSet,
		cache.ProviderSet,
		metrics.ProviderSet,
		pprof.ProviderSet,
		notify.ProviderSet,
		// bookbuilding
		repo.ProviderSet,
		service.ProviderSet,
		router.ProviderSet,
		// app
		bootstrap.NewApp,
	))
}
