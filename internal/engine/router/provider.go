package router

import (
	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/internal/engine/service"
	"github.com/go-arcade/bookbuild/pkg/http"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideRouter)

func ProvideRouter(httpConf *http.Http, bookbuild conf.BookbuildConfig, services *service.Services, server *metrics.Server) *Router {
	return NewRouter(httpConf, bookbuild, services, server.GetRegistry())
}
