// Package products отображает товары пользователя и справочник категорий.
package products

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/inventory-manager/internal/http/views"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// Service описывает чтение товаров и категорий.
type Service interface {
	ListProducts(ctx context.Context, ownerID int64) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Sessions — flash-сообщения сессии.
type Sessions interface {
	PopFlashes(w http.ResponseWriter, r *http.Request) []session.Flash
}

// Renderer отрисовывает HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, page views.Page) error
}

// Handler обрабатывает GET /products.
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
	const op = "handlers.pages.products"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := session.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	list, err := h.service.ListProducts(r.Context(), identity.UserID)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := views.Page{
		Title:    "Produtos",
		Identity: &identity,
		Flashes:  h.sessions.PopFlashes(w, r),
		Data:     views.ProductsData{Products: list, Categories: categories},
	}
	if err = h.views.Render(w, http.StatusOK, views.PageProducts, page); err != nil {
		log.Error("failed to render page", sl.Err(err))
	}
}
