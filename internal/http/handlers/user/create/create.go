// Package create реализует HTTP-обработчик создания пользователя администратором.
//
// Ошибки во входных данных и отказ в доступе всегда возвращаются как JSON.
// Запрос из HTML-формы (urlencoded или multipart) после успеха или
// внутренней ошибки перенаправляется на /users с flash-сообщением.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/inventory-manager/internal/http/flashmsg"
	"github.com/magabrotheeeer/inventory-manager/internal/http/payload"
	"github.com/magabrotheeeer/inventory-manager/internal/http/response"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// Service описывает создание пользователя администратором.
type Service interface {
	CreateUser(ctx context.Context, caller models.Caller, req models.NewUser) (*models.User, error)
}

// Sessions — flash-сообщения сессии.
type Sessions interface {
	AddFlash(w http.ResponseWriter, r *http.Request, kind, message string)
}

// Handler обрабатывает POST /api/users.
type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{log: log, service: service, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Создание пользователя
// @Description Создаёт обычного пользователя. Только для администратора.
// @Tags Users
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body models.NewUser true "Данные пользователя"
// @Success 201 {object} response.UserCreatedResponse
// @Success 302 "Перенаправление на /users для запросов из формы после успеха или внутренней ошибки"
// @Failure 400 {object} response.ErrorResponse "Пропущены поля, поле слишком длинное или пользователь уже существует"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	fields, enc, err := payload.Decode(r)
	if err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	identity, _ := session.IdentityFromContext(r.Context())
	user, err := h.service.CreateUser(r.Context(), identity, payload.NewUser(fields))
	if err != nil {
		status, resp := classify(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to create user", sl.Err(err))
			if enc.IsForm() {
				h.sessions.AddFlash(w, r, session.FlashError, flashmsg.CreateFailed)
				http.Redirect(w, r, "/users", http.StatusFound)
				return
			}
		} else {
			log.Info("user not created", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("user created", slog.Int64("id", user.ID), slog.String("encoding", enc.String()))
	if enc.IsForm() {
		h.sessions.AddFlash(w, r, session.FlashSuccess, flashmsg.UserCreated(user.Username))
		http.Redirect(w, r, "/users", http.StatusFound)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.UserCreated(*user))
}

// classify переводит ошибку сервиса в код ответа и безопасное тело ответа.
func classify(err error) (int, response.ErrorResponse) {
	var missing *apperr.MissingFieldsError
	var verrs validator.ValidationErrors
	var invalid *apperr.ValidationError
	switch {
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, response.Error("forbidden")
	case errors.As(err, &missing):
		return http.StatusBadRequest, response.Error(missing.Error())
	case errors.As(err, &verrs):
		return http.StatusBadRequest, response.ValidationError(verrs)
	case errors.As(err, &invalid):
		return http.StatusBadRequest, response.Error(invalid.Error())
	case errors.Is(err, apperr.ErrDuplicateUsername):
		return http.StatusBadRequest, response.Error(apperr.ErrDuplicateUsername.Error())
	case errors.Is(err, apperr.ErrDuplicateEmail):
		return http.StatusBadRequest, response.Error(apperr.ErrDuplicateEmail.Error())
	}
	return http.StatusInternalServerError, response.Error("internal error")
}
