// Package login реализует страницу входа: отображение формы и проверку
// учётных данных с открытием сессии.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/inventory-manager/internal/http/payload"
	"github.com/magabrotheeeer/inventory-manager/internal/http/views"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// Request — учётные данные из формы входа.
type Request struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Service описывает проверку учётных данных.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// Sessions описывает работу с сессией, нужную странице входа.
type Sessions interface {
	Login(w http.ResponseWriter, r *http.Request, identity session.Identity) error
	AddFlash(w http.ResponseWriter, r *http.Request, kind, message string)
	PopFlashes(w http.ResponseWriter, r *http.Request) []session.Flash
}

// Renderer отрисовывает HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, page views.Page) error
}

// Handler обрабатывает GET и POST /login.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
	views    Renderer
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions Sessions, renderer Renderer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		views:    renderer,
		validate: validator.New(),
	}
}

// Form отображает форму входа.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, nil)
}

// ServeHTTP проверяет учётные данные. При успехе сессия получает нового
// пользователя и браузер перенаправляется на /dashboard.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fields, _, err := payload.Decode(r)
	if err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, &session.Flash{Kind: session.FlashError, Message: "Requisição inválida."})
		return
	}
	username, _ := fields.String("username")
	password, _ := fields.String("password")
	req := Request{Username: username, Password: password}

	if err = h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		h.render(w, r, http.StatusBadRequest, &session.Flash{Kind: session.FlashError, Message: "Informe usuário e senha."})
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			log.Info("invalid credentials", slog.String("username", req.Username))
			h.render(w, r, http.StatusUnauthorized, &session.Flash{Kind: session.FlashError, Message: "Usuário ou senha incorretos!"})
			return
		}
		log.Error("login failed", sl.Err(err))
		h.render(w, r, http.StatusInternalServerError, &session.Flash{Kind: session.FlashError, Message: "Erro interno, tente novamente."})
		return
	}

	if err = h.sessions.Login(w, r, models.CallerOf(*user)); err != nil {
		log.Error("failed to start session", sl.Err(err))
		h.render(w, r, http.StatusInternalServerError, &session.Flash{Kind: session.FlashError, Message: "Erro interno, tente novamente."})
		return
	}
	h.sessions.AddFlash(w, r, session.FlashSuccess, "Login realizado com sucesso!")

	log.Info("login success", slog.String("username", user.Username))
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, extra *session.Flash) {
	flashes := h.sessions.PopFlashes(w, r)
	if extra != nil {
		flashes = append(flashes, *extra)
	}
	if err := h.views.Render(w, status, views.PageLogin, views.Page{Title: "Entrar", Flashes: flashes}); err != nil {
		h.log.Error("failed to render page", slog.String("page", views.PageLogin), sl.Err(err))
	}
}
