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

package pprof

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/go-arcade/bookbuild/pkg/log"
	"github.com/go-arcade/bookbuild/pkg/safe"
)

// PprofConfig holds the profiling listener settings. It is off unless Enable is set.
type PprofConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

func (p *PprofConfig) SetDefaults() {
	if p.Host == "" {
		p.Host = "127.0.0.1"
	}
	if p.Port == 0 {
		p.Port = 8083
	}
	if p.Path == "" {
		p.Path = "/debug/pprof"
	}
}

// Server exposes net/http/pprof on its own listener, away from the API port
type Server struct {
	config PprofConfig
	server *http.Server
	mu     sync.Mutex
}

func NewServer(config PprofConfig) *Server {
	config.SetDefaults()
	return &Server{config: config}
}

// Handler returns the profiling mux rooted at the configured path
func (s *Server) Handler() http.Handler {
	prefix := s.config.Path
	mux := http.NewServeMux()
	mux.HandleFunc(prefix+"/", pprof.Index)
	mux.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"/profile", pprof.Profile)
	mux.HandleFunc(prefix+"/symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"/trace", pprof.Trace)
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		mux.Handle(prefix+"/"+name, pprof.Handler(name))
	}
	return mux
}

func (s *Server) Start() error {
	if !s.config.Enable {
		log.Debug("pprof server is disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("pprof server already started")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.server = srv

	safe.Go(func() {
		log.Infow("pprof server started", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("pprof server stopped", "error", err)
		}
	})
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
