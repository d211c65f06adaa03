// Package register реализует страницу регистрации нового пользователя.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/inventory-manager/internal/http/flashmsg"
	"github.com/magabrotheeeer/inventory-manager/internal/http/payload"
	"github.com/magabrotheeeer/inventory-manager/internal/http/views"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// Service описывает регистрацию пользователя.
type Service interface {
	Register(ctx context.Context, req models.NewUser) (*models.User, error)
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

// Handler обрабатывает GET и POST /register.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	views    Renderer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions Sessions, renderer Renderer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		views:    renderer,
	}
}

// Form отображает форму регистрации.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "")
}

// ServeHTTP создаёт учётную запись и перенаправляет на /login.
// При ошибке форма отображается снова с сообщением.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fields, _, err := payload.Decode(r)
	if err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, flashmsg.BadRequest)
		return
	}

	user, err := h.service.Register(r.Context(), payload.NewUser(fields))
	if err != nil {
		var missing *apperr.MissingFieldsError
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &missing):
			log.Info("missing fields", slog.Any("fields", missing.Fields))
			h.render(w, r, http.StatusBadRequest, flashmsg.MissingFields)
		case errors.As(err, &verrs), errors.Is(err, apperr.ErrValidation):
			log.Info("invalid fields", sl.Err(err))
			h.render(w, r, http.StatusBadRequest, flashmsg.InvalidFields)
		case errors.Is(err, apperr.ErrDuplicateUsername):
			log.Info("duplicate username")
			h.render(w, r, http.StatusBadRequest, flashmsg.DuplicateUsername)
		case errors.Is(err, apperr.ErrDuplicateEmail):
			log.Info("duplicate email")
			h.render(w, r, http.StatusBadRequest, flashmsg.DuplicateEmail)
		default:
			log.Error("failed to register user", sl.Err(err))
			h.render(w, r, http.StatusInternalServerError, flashmsg.CreateFailed)
		}
		return
	}

	log.Info("user registered", slog.Int64("id", user.ID))
	h.sessions.AddFlash(w, r, session.FlashSuccess, "Conta criada com sucesso! Faça login.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	flashes := h.sessions.PopFlashes(w, r)
	if errMsg != "" {
		flashes = append(flashes, session.Flash{Kind: session.FlashError, Message: errMsg})
	}
	if err := h.views.Render(w, status, views.PageRegister, views.Page{Title: "Cadastro", Flashes: flashes}); err != nil {
		h.log.Error("failed to render page", slog.String("page", views.PageRegister), sl.Err(err))
	}
}
