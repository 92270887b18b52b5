package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiobook/backend/internal/interfaces/http/dto"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping() error { return p.err }

func newSystemEngine(db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewSystemHandler("studiobook-analytics", "1.2.3", db).RegisterRoutes(engine)
	return engine
}

func TestHealthz_NoDatabaseConfigured(t *testing.T) {
	engine := newSystemEngine(nil)

	w, body := doRequest(engine, "/healthz")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(body.Data, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Empty(t, health.Database)
}

func TestHealthz_DatabaseReachable(t *testing.T) {
	engine := newSystemEngine(stubPinger{})

	w, body := doRequest(engine, "/healthz")

	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(body.Data, &health))
	assert.Equal(t, "ok", health.Database)
}

func TestHealthz_DatabaseDown(t *testing.T) {
	engine := newSystemEngine(stubPinger{err: errors.New("connection refused")})

	w, body := doRequest(engine, "/healthz")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, dto.ErrCodeSourceUnavailable, body.Error.Code)
	assert.Equal(t, "database unreachable", body.Error.Message)
}

func TestGetSystemInfo(t *testing.T) {
	engine := newSystemEngine(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/system/info", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	var info SystemInfoResponse
	require.NoError(t, json.Unmarshal(body.Data, &info))
	assert.Equal(t, "studiobook-analytics", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Uptime)
}
