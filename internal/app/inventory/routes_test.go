package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/inventory-manager/internal/events"
	"github.com/magabrotheeeer/inventory-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/inventory-manager/internal/http/views"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	authservice "github.com/magabrotheeeer/inventory-manager/internal/services/auth"
	directoryservice "github.com/magabrotheeeer/inventory-manager/internal/services/directory"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

const cookieName = "test_session"

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type testRouter struct {
	handler http.Handler
	store   *session.MemoryStore
	maker   *jwt.MakerImpl
}

// newTestRouter собирает маршруты без хранилища: проверяются только
// пути, которые не доходят до репозитория.
func newTestRouter(t *testing.T) *testRouter {
	t.Helper()
	log := sl.Discard()
	store := session.NewMemoryStore()
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	renderer, err := views.New()
	require.NoError(t, err)

	auth := authservice.NewAuthService(nil, events.Nop{}, log)
	deps := Deps{
		Logger:    log,
		Storage:   okPinger{},
		Auth:      auth,
		Directory: directoryservice.NewDirectoryService(nil, auth, events.Nop{}, log),
		Sessions:  session.NewManager(store, maker, session.Options{CookieName: cookieName, TTL: time.Hour}, log),
		Views:     renderer,
		Metrics:   middlewarectx.NewMetrics(prometheus.NewRegistry()),
	}
	router := chi.NewRouter()
	RegisterRoutes(router, deps)
	return &testRouter{handler: router, store: store, maker: maker}
}

func (tr *testRouter) cookieFor(t *testing.T, caller models.Caller) *http.Cookie {
	t.Helper()
	id := "sid-" + caller.Username
	require.NoError(t, tr.store.Save(context.Background(), id, &session.Data{Identity: &caller}, time.Hour))
	token, err := tr.maker.GenerateToken(id)
	require.NoError(t, err)
	return &http.Cookie{Name: cookieName, Value: token}
}

func (tr *testRouter) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	tr.handler.ServeHTTP(w, req)
	return w
}

func TestRoutes_Anonymous(t *testing.T) {
	tr := newTestRouter(t)

	tests := []struct {
		name         string
		method       string
		path         string
		wantStatus   int
		wantLocation string
	}{
		{name: "корень", method: http.MethodGet, path: "/", wantStatus: http.StatusFound, wantLocation: "/dashboard"},
		{name: "главная страница", method: http.MethodGet, path: "/dashboard", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "api товаров", method: http.MethodGet, path: "/api/products", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "api пользователей", method: http.MethodPost, path: "/api/users", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "страница входа", method: http.MethodGet, path: "/login", wantStatus: http.StatusOK},
		{name: "страница регистрации", method: http.MethodGet, path: "/register", wantStatus: http.StatusOK},
		{name: "проверка живости", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "метрики закрыты", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "документация закрыта", method: http.MethodGet, path: "/docs/index.html", wantStatus: http.StatusFound, wantLocation: "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tr.do(httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
		})
	}
}

func TestRoutes_MetricsServedSeparately(t *testing.T) {
	tr := newTestRouter(t)
	cookie := tr.cookieFor(t, models.Caller{UserID: 1, Username: "admin", Role: models.RoleAdmin})

	// Основной сервер не отдаёт метрики даже после входа.
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusNotFound, tr.do(req).Code)

	metrics := chi.NewRouter()
	RegisterMetricsRoutes(metrics)
	w := httptest.NewRecorder()
	metrics.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRoutes_AdminGroupRejectsStandardUser(t *testing.T) {
	tr := newTestRouter(t)
	cookie := tr.cookieFor(t, models.Caller{UserID: 2, Username: "alice", Role: models.RoleStandard})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/api/users", nil)
		req.AddCookie(cookie)
		w := tr.do(req)

		assert.Equal(t, http.StatusForbidden, w.Code, method)
		assert.JSONEq(t, `{"status":"Error","error":"forbidden"}`, w.Body.String(), method)
	}
}

func TestRoutes_LogoutClearsSession(t *testing.T) {
	tr := newTestRouter(t)
	cookie := tr.cookieFor(t, models.Caller{UserID: 2, Username: "alice", Role: models.RoleStandard})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	w := tr.do(req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	_, err := tr.store.Get(context.Background(), "sid-alice")
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Старый cookie больше не даёт доступа.
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	w = tr.do(req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
