package pprof

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPprofConfig_SetDefaults(t *testing.T) {
	cfg := PprofConfig{}
	cfg.SetDefaults()
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8083, cfg.Port)
	assert.Equal(t, "/debug/pprof", cfg.Path)
}

func TestServer_Handler(t *testing.T) {
	s := NewServer(PprofConfig{Path: "/prof"})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prof/goroutine?debug=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutine")
}

func TestServer_DisabledIsNoop(t *testing.T) {
	s := NewServer(PprofConfig{})
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop(context.Background()))
}
