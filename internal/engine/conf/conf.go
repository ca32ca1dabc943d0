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

package conf

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/bookbuild/internal/pkg/notify"
	"github.com/go-arcade/bookbuild/pkg/cache"
	"github.com/go-arcade/bookbuild/pkg/database"
	"github.com/go-arcade/bookbuild/pkg/http"
	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/metrics"
	"github.com/go-arcade/bookbuild/pkg/pprof"
	"github.com/go-arcade/bookbuild/pkg/trace"
	"github.com/spf13/viper"
)

// Weights are the strength multipliers used by the weighted demand columns
type Weights struct {
	Strong float64 `mapstructure:"strong"`
	Soft   float64 `mapstructure:"soft"`
}

// BookbuildConfig holds the engine rules that are configuration rather than invariants
type BookbuildConfig struct {
	InvitationTTL   time.Duration `mapstructure:"invitationTTL"`
	SingleUseTokens bool          `mapstructure:"singleUseTokens"`
	Weights         Weights       `mapstructure:"weights"`
	// SweepSpec is a six-field cron spec (with seconds) for the invitation expiry sweep
	SweepSpec    string `mapstructure:"sweepSpec"`
	WriteRetries int    `mapstructure:"writeRetries"`
	// SessionTTL bounds investor sessions minted on redemption
	SessionTTL time.Duration `mapstructure:"sessionTTL"`
}

func (b *BookbuildConfig) SetDefaults() {
	if b.InvitationTTL <= 0 {
		b.InvitationTTL = 168 * time.Hour
	}
	if b.Weights.Strong == 0 && b.Weights.Soft == 0 {
		b.Weights = Weights{Strong: 1.0, Soft: 0.5}
	}
	if b.SweepSpec == "" {
		b.SweepSpec = "0 */5 * * * *"
	}
	if b.WriteRetries <= 0 {
		b.WriteRetries = 5
	}
	if b.SessionTTL <= 0 {
		b.SessionTTL = 12 * time.Hour
	}
}

func (b BookbuildConfig) Validate() error {
	if b.Weights.Strong < 0 || b.Weights.Soft < 0 {
		return fmt.Errorf("bookbuild.weights must be non-negative, got strong=%v soft=%v", b.Weights.Strong, b.Weights.Soft)
	}
	return nil
}

type AppConfig struct {
	Log       log.Conf
	Http      http.Http
	Database  database.Database
	Redis     cache.Redis
	Cache     cache.Config
	Metrics   metrics.MetricsConfig
	Pprof     pprof.PprofConfig
	Trace     trace.TraceConfig
	Notify    notify.Config
	Bookbuild BookbuildConfig
}

// SetDefaults fills every section left empty by the file
func (c *AppConfig) SetDefaults() {
	def := log.SetDefaults()
	if c.Log.Output == "" {
		c.Log.Output = def.Output
	}
	if c.Log.Path == "" {
		c.Log.Path = def.Path
	}
	if c.Log.Filename == "" {
		c.Log.Filename = def.Filename
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Level
	}
	if c.Log.KeepHours == 0 {
		c.Log.KeepHours = def.KeepHours
	}
	if c.Log.RotateSize == 0 {
		c.Log.RotateSize = def.RotateSize
	}
	if c.Log.RotateNum == 0 {
		c.Log.RotateNum = def.RotateNum
	}
	if c.Database.Driver == "" {
		c.Database.Driver = database.DriverSQLite
	}
	if c.Cache.Type == "" {
		c.Cache.Type = cache.TypeMemory
	}
	if c.Cache.LocalMaxBytes == 0 {
		c.Cache.LocalMaxBytes = 32 << 20
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
	if c.Metrics.Host == "" {
		c.Metrics.Host = "0.0.0.0"
	}
	c.Http.SetDefaults()
	c.Pprof.SetDefaults()
	c.Trace.SetDefaults()
	c.Notify.RabbitMQ.SetDefaults()
	c.Bookbuild.SetDefaults()
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile reads a TOML file, overlays BOOKBUILD_* environment variables
// and watches the file for changes.
func LoadConfigFile(confDir string) (AppConfig, error) {
	var out AppConfig

	config := viper.New()
	config.SetConfigFile(confDir)
	config.SetConfigType("toml")
	config.SetEnvPrefix("BOOKBUILD")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
	if err := config.ReadInConfig(); err != nil {
		return out, fmt.Errorf("failed to read configuration file: %w", err)
	}

	if err := config.Unmarshal(&out); err != nil {
		return out, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	out.SetDefaults()
	if err := out.Bookbuild.Validate(); err != nil {
		return out, err
	}

	config.OnConfigChange(func(e fsnotify.Event) {
		// only logged: running components keep the values they were built with
		log.Infow("configuration file changed, restart to apply", "file", e.Name, "op", e.Op.String())
	})
	config.WatchConfig()

	log.Infow("config file loaded", "path", confDir)
	return out, nil
}
