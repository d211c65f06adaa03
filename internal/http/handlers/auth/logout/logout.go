// Package logout завершает сессию пользователя.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// Sessions описывает завершение сессии.
type Sessions interface {
	Logout(w http.ResponseWriter, r *http.Request) error
	AddFlash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает GET /logout.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{log: log, sessions: sessions}
}

// ServeHTTP удаляет сессию и перенаправляет на /login. Повторный вызов безопасен.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.sessions.Logout(w, r); err != nil {
		log.Error("failed to delete session", sl.Err(err))
	}
	h.sessions.AddFlash(w, r, session.FlashSuccess, "Logout realizado com sucesso!")
	http.Redirect(w, r, "/login", http.StatusFound)
}
