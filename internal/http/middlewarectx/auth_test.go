package middlewarectx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/inventory-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthentication(t *testing.T) {
	alice := models.Caller{UserID: 1, Username: "alice", Role: models.RoleStandard}

	tests := []struct {
		name         string
		path         string
		identity     *models.Caller
		wantCalled   bool
		wantStatus   int
		wantLocation string
	}{
		{name: "главная без входа", path: "/", wantCalled: true, wantStatus: http.StatusOK},
		{name: "вход без сессии", path: "/login", wantCalled: true, wantStatus: http.StatusOK},
		{name: "регистрация", path: "/register", wantCalled: true, wantStatus: http.StatusOK},
		{name: "инициализация БД", path: "/init-db", wantCalled: true, wantStatus: http.StatusOK},
		{name: "статика", path: "/static/app.css", wantCalled: true, wantStatus: http.StatusOK},
		{name: "документация только после входа", path: "/docs/index.html", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "метрики не на основном сервере", path: "/metrics", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "проверка живости", path: "/health", wantCalled: true, wantStatus: http.StatusOK},
		{name: "dashboard без входа", path: "/dashboard", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "API без входа", path: "/api/products", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "похожий путь не публичный", path: "/login-admin", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "dashboard после входа", path: "/dashboard", identity: &alice, wantCalled: true, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := middlewarectx.RequireAuthentication(sl.Discard())(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.identity != nil {
				req = req.WithContext(session.WithIdentity(req.Context(), *tt.identity))
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		ctx        func(ctx context.Context) context.Context
		wantCalled bool
		wantStatus int
	}{
		{
			name: "администратор",
			ctx: func(ctx context.Context) context.Context {
				return session.WithIdentity(ctx, models.Caller{UserID: 1, Username: "admin", Role: models.RoleAdmin})
			},
			wantCalled: true,
			wantStatus: http.StatusOK,
		},
		{
			name: "обычный пользователь с именем admin",
			ctx: func(ctx context.Context) context.Context {
				return session.WithIdentity(ctx, models.Caller{UserID: 2, Username: "admin", Role: models.RoleStandard})
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "без сессии",
			ctx:        func(ctx context.Context) context.Context { return ctx },
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := middlewarectx.RequireAdmin(sl.Discard())(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req = req.WithContext(tt.ctx(req.Context()))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.JSONEq(t, `{"status":"Error","error":"forbidden"}`, w.Body.String())
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middlewarectx.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(metrics.Handler)
	r.Get("/api/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/products/1", "/api/products/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "inventory_http_requests_total" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		m := mf.GetMetric()[0]
		labels := map[string]string{}
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, map[string]string{"method": "GET", "route": "/api/products/{id}", "status": "404"}, labels)
		assert.Equal(t, float64(2), m.GetCounter().GetValue())
		found = true
	}
	assert.True(t, found)
}
