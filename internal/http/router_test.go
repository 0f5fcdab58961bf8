package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"payments-monitor/internal/auth"
	"payments-monitor/internal/config"
	"payments-monitor/internal/handlers"
	"payments-monitor/internal/health"
	"payments-monitor/internal/middleware"
	"payments-monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReports struct{}

func (stubReports) Report(ctx context.Context, force bool) (*models.Report, error) {
	return &models.Report{RunID: "r"}, nil
}

func (stubReports) Dashboard(ctx context.Context, force bool) (*models.Dashboard, error) {
	return &models.Dashboard{RunID: "r"}, nil
}

func (stubReports) RefreshNow(ctx context.Context) error { return nil }

func (stubReports) InvalidateCache(ctx context.Context) {}

type stubPinger struct{}

func (stubPinger) Ping(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test"
	cfg.JWT.Issuer = "payments-monitor"
	cfg.JWT.ExpirationHours = 1
	jwtManager := auth.NewJWTManager(cfg)
	token, err := jwtManager.GenerateToken("ops@example.com")
	require.NoError(t, err)

	r := NewRouter(
		handlers.NewAuthHandler(jwtManager, "ops@example.com", "", 0),
		handlers.NewReportHandler(stubReports{}, stubReports{}),
		handlers.NewPreferenceHandler(nil),
		handlers.NewSiteHandler(nil, stubReports{}),
		handlers.NewHealthHandler(health.NewHealthChecker(stubPinger{}, nil, nil)),
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) },
		middleware.NewAuthMiddleware(jwtManager),
	)
	return r, token
}

func TestRouterProtectsAPI(t *testing.T) {
	r, token := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/events?token="+token, nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRouterPublicEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
