// Package initdb реализует маршрут инициализации базы данных.
package initdb

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// Service создаёт схему и начальные данные.
type Service interface {
	InitDB(ctx context.Context) error
}

// Sessions — flash-сообщения сессии.
type Sessions interface {
	AddFlash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает GET /init-db.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{log: log, service: service, sessions: sessions}
}

// ServeHTTP инициализирует БД и перенаправляет на /login с сообщением о результате.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.setup.initdb"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.InitDB(r.Context()); err != nil {
		log.Error("failed to initialize database", sl.Err(err))
		h.sessions.AddFlash(w, r, session.FlashError, "Erro ao inicializar banco de dados.")
	} else {
		h.sessions.AddFlash(w, r, session.FlashSuccess, "Banco de dados inicializado com sucesso!")
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}
