// Package middlewarectx содержит HTTP middleware приложения: проверку
// сессии для закрытых маршрутов, проверку прав администратора и метрики.
package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/inventory-manager/internal/http/response"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// LoginPath — страница, на которую перенаправляются анонимные посетители.
const LoginPath = "/login"

// Открытые маршруты. /health нужен проверкам живости без сессии,
// /metrics обслуживается отдельным сервером.
var (
	publicPaths    = []string{"/", "/login", "/register", "/init-db", "/health"}
	publicPrefixes = []string{"/static/"}
)

// IsPublic сообщает, доступен ли путь без входа.
func IsPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RequireAuthentication перенаправляет на страницу входа все запросы
// к закрытым маршрутам без активной сессии. Должен стоять после session.Manager.Middleware.
func RequireAuthentication(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := session.IdentityFromContext(r.Context()); !ok {
				log.Debug("unauthenticated request redirected",
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin отвечает 403 всем, кто не является администратором.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAdmin"
			identity, ok := session.IdentityFromContext(r.Context())
			if !ok || !identity.IsAdmin() {
				log.Warn("admin access denied",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("username", identity.Username),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
