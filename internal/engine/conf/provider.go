package conf

import (
	"github.com/go-arcade/bookbuild/internal/pkg/notify"
	"github.com/go-arcade/bookbuild/pkg/cache"
	"github.com/go-arcade/bookbuild/pkg/database"
	"github.com/go-arcade/bookbuild/pkg/http"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/go-arcade/bookbuild/pkg/pprof"
	"github.com/go-arcade/bookbuild/pkg/trace"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideCacheConfig,
	ProvideMetricsConfig,
	ProvidePprofConfig,
	ProvideTraceConfig,
	ProvideNotifyConfig,
	ProvideBookbuildConfig,
)

func ProvideConf(configPath string) *AppConfig {
	c := NewConf(configPath)
	return &c
}

func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	return &appConf.Http
}

func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideCacheConfig(appConf *AppConfig) cache.Config {
	return appConf.Cache
}

func ProvideMetricsConfig(appConf *AppConfig) metrics.MetricsConfig {
	return appConf.Metrics
}

func ProvidePprofConfig(appConf *AppConfig) pprof.PprofConfig {
	return appConf.Pprof
}

func ProvideTraceConfig(appConf *AppConfig) trace.TraceConfig {
	return appConf.Trace
}

func ProvideNotifyConfig(appConf *AppConfig) notify.Config {
	return appConf.Notify
}

func ProvideBookbuildConfig(appConf *AppConfig) BookbuildConfig {
	return appConf.Bookbuild
}
