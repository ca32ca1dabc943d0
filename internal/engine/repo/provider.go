package repo

import (
	"github.com/go-arcade/bookbuild/internal/engine/conf"
	"github.com/go-arcade/bookbuild/pkg/database"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(ProvideStore)

// ProvideStore builds the store and counts retried transactions
func ProvideStore(db database.IDatabase, cfg conf.BookbuildConfig, m *metrics.BookbuildMetrics) *Store {
	return NewStore(db,
		WithRetries(cfg.WriteRetries),
		WithRetryHook(m.StorageRetry),
	)
}
