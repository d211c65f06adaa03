// Package create реализует HTTP-обработчик создания товара.
// Тело принимается в JSON или как форма.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/inventory-manager/internal/http/payload"
	"github.com/magabrotheeeer/inventory-manager/internal/http/response"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// Service описывает создание товара.
type Service interface {
	CreateProduct(ctx context.Context, ownerID int64, fields models.Fields) (*models.Product, error)
}

// Handler обрабатывает POST /api/products.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создание товара
// @Description Создаёт товар текущего пользователя. name и description обязательны.
// @Tags Products
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 201 {object} response.ProductCreatedResponse
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := session.IdentityFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	fields, enc, err := payload.Decode(r)
	if err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("encoding", enc.String()))

	product, err := h.service.CreateProduct(r.Context(), identity.UserID, fields)
	if err != nil {
		var invalid *apperr.ValidationError
		if errors.As(err, &invalid) {
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(invalid.Error()))
			return
		}
		log.Error("failed to create product", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("product created", slog.Int64("id", product.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.ProductCreated(*product))
}
