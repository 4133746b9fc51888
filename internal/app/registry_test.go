package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-employees/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mock.ExpectPing()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	router, err := NewRouter(cfg, db, nil, zap.NewNop())
	require.NoError(t, err)
	return router, mock
}

func TestNewRouter_Routes(t *testing.T) {
	router, _ := newTestRouter(t, config.Default())

	got := map[string]bool{}
	for _, r := range router.Routes() {
		got[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /",
		"GET /healthz",
		"GET /employees/",
		"POST /employees/",
		"GET /employees/:id/",
		"PUT /employees/:id/",
		"DELETE /employees/:id/",
		"GET /api/employees/",
		"POST /api/employees/",
		"GET /api/employees/:id/",
		"PUT /api/employees/:id/",
		"DELETE /api/employees/:id/",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestNewRouter_NoPrefix(t *testing.T) {
	cfg := config.Default()
	cfg.Server.APIPrefix = "/"
	router, _ := newTestRouter(t, cfg)

	for _, r := range router.Routes() {
		assert.NotContains(t, r.Path, "/api/")
	}
}

func TestHealthCheck(t *testing.T) {
	router, mock := newTestRouter(t, config.Default())
	mock.ExpectPing()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	router, mock := newTestRouter(t, config.Default())
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"detail":"database unavailable"}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApiBase(t *testing.T) {
	assert.Equal(t, "/api", apiBase("/api"))
	assert.Equal(t, "/api", apiBase("api/"))
	assert.Equal(t, "", apiBase("/"))
	assert.Equal(t, "", apiBase(""))
}
