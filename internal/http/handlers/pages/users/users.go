// Package users отображает список пользователей. Страница доступна только
// администратору, остальные перенаправляются на /dashboard.
package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/inventory-manager/internal/http/views"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// Service возвращает пользователей для администратора.
type Service interface {
	ListUsers(ctx context.Context, caller models.Caller) ([]models.UserWithCount, error)
}

// Sessions — flash-сообщения сессии.
type Sessions interface {
	AddFlash(w http.ResponseWriter, r *http.Request, kind, message string)
	PopFlashes(w http.ResponseWriter, r *http.Request) []session.Flash
}

// Renderer отрисовывает HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, page views.Page) error
}

// Handler обрабатывает GET /users.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	views    Renderer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions Sessions, renderer Renderer) *Handler {
	return &Handler{log: log, service: service, sessions: sessions, views: renderer}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pages.users"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := session.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	list, err := h.service.ListUsers(r.Context(), identity)
	if err != nil {
		if errors.Is(err, apperr.ErrForbidden) {
			log.Warn("non-admin opened users page", slog.String("username", identity.Username))
			h.sessions.AddFlash(w, r, session.FlashError, "Acesso restrito para administradores!")
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		log.Error("failed to list users", sl.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := views.Page{
		Title:    "Usuários",
		Identity: &identity,
		Flashes:  h.sessions.PopFlashes(w, r),
		Data:     views.UsersData{Users: list},
	}
	if err = h.views.Render(w, http.StatusOK, views.PageUsers, page); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}
