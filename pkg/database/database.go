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

package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/go-arcade/bookbuild/pkg/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/opentelemetry/tracing"
)

// IDatabase gives repositories access to the underlying *gorm.DB
type IDatabase interface {
	Database() *gorm.DB
}

// GormDB is the gorm backed IDatabase
type GormDB struct {
	db *gorm.DB
}

// NewGormDB wraps an opened *gorm.DB
func NewGormDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

func (g *GormDB) Database() *gorm.DB {
	return g.db
}

// Close closes the underlying connection pool
func (g *GormDB) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewDatabase opens the configured driver and applies pool settings.
func NewDatabase(cfg Database) (*GormDB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverMySQL:
		if cfg.MySQL.Host == "" || cfg.MySQL.User == "" || cfg.MySQL.DBName == "" {
			return nil, fmt.Errorf("incomplete mysql config: host, user, and dbname are required")
		}
		dialector = mysql.Open(buildMySQLDSN(cfg.MySQL))
	case DriverSQLite, "":
		dialector = sqlite.Open(buildSQLiteDSN(cfg.SQLite))
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.OutPut {
		gormLogger = NewGormLoggerAdapter(logger.Config{
			SlowThreshold:             defaultSlowSQL,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}, logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dataTablePrefix,
			SingularTable: true,
		},
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.Trace {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, fmt.Errorf("failed to register gorm tracing: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}

	if cfg.Driver == DriverMySQL {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime))
		sqlDB.SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime))
	} else {
		// sqlite has a single writer, and an in-memory database lives only
		// as long as its last connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Infow("database connected", "driver", cfg.Driver)
	return NewGormDB(db), nil
}
