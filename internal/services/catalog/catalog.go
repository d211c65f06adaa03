// Package services содержит бизнес-логику каталога: товары владельца,
// справочник категорий и счётчики для главной страницы.
//
// Все операции с товарами выполняются от имени владельца: чужой товар
// неотличим от несуществующего и даёт apperr.ErrNotFound.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/inventory-manager/internal/events"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

// Repository определяет методы хранилища, нужные каталогу.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	ListProductsByOwner(ctx context.Context, userID int64) ([]models.Product, error)
	GetProduct(ctx context.Context, id, userID int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id, userID int64) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CountProductsByOwner(ctx context.Context, userID int64) (int, error)
	CountProducts(ctx context.Context) (int, error)
	CountActiveUsers(ctx context.Context) (int, error)
}

// CatalogService реализует операции над товарами владельца.
type CatalogService struct {
	repo   Repository
	events events.Publisher
	log    *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo Repository, publisher events.Publisher, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		events: publisher,
		log:    log,
	}
}

// ListProducts возвращает товары владельца в порядке создания.
func (s *CatalogService) ListProducts(ctx context.Context, ownerID int64) ([]models.Product, error) {
	const op = "services.catalog.ListProducts"
	products, err := s.repo.ListProductsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// CreateProduct проверяет и приводит поля и создаёт товар владельца.
// name и description обязательны, категория по умолчанию — models.DefaultCategory,
// количество — 0.
func (s *CatalogService) CreateProduct(ctx context.Context, ownerID int64, fields models.Fields) (*models.Product, error) {
	const op = "services.catalog.CreateProduct"
	for _, key := range []string{"name", "description"} {
		if !fields.Has(key) {
			return nil, fmt.Errorf("%s: %w", op, apperr.Invalid(key, "is required"))
		}
	}
	patch, err := parsePatch(fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	product := models.Product{
		Category:    models.DefaultCategory,
		IsAvailable: true,
		UserID:      ownerID,
	}
	patch.Apply(&product)

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new product", slog.Int64("id", created.ID), slog.Int64("owner_id", ownerID))
	s.events.Publish(ctx, events.Event{Type: events.ProductCreated, ActorID: ownerID, EntityID: created.ID})
	return created, nil
}

// UpdateProduct применяет только переданные поля к товару владельца.
// Чтение и запись выполняются в одной транзакции.
func (s *CatalogService) UpdateProduct(ctx context.Context, ownerID, productID int64, fields models.Fields) (*models.Product, error) {
	const op = "services.catalog.UpdateProduct"
	patch, err := parsePatch(fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var updated *models.Product
	err = s.repo.WithinTx(ctx, func(ctx context.Context) error {
		product, err := s.repo.GetProduct(ctx, productID, ownerID)
		if err != nil {
			return err
		}
		patch.Apply(product)
		updated, err = s.repo.UpdateProduct(ctx, *product)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated product", slog.Int64("id", productID), slog.Int64("owner_id", ownerID))
	s.events.Publish(ctx, events.Event{Type: events.ProductUpdated, ActorID: ownerID, EntityID: productID})
	return updated, nil
}

// DeleteProduct безвозвратно удаляет товар владельца.
func (s *CatalogService) DeleteProduct(ctx context.Context, ownerID, productID int64) error {
	const op = "services.catalog.DeleteProduct"
	if err := s.repo.DeleteProduct(ctx, productID, ownerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted product", slog.Int64("id", productID), slog.Int64("owner_id", ownerID))
	s.events.Publish(ctx, events.Event{Type: events.ProductDeleted, ActorID: ownerID, EntityID: productID})
	return nil
}

// ListCategories возвращает весь справочник категорий.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "services.catalog.ListCategories"
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

// Stats считает товары владельца, все товары и активных пользователей.
func (s *CatalogService) Stats(ctx context.Context, ownerID int64) (models.DashboardStats, error) {
	const op = "services.catalog.Stats"
	var stats models.DashboardStats
	var err error
	if stats.UserProducts, err = s.repo.CountProductsByOwner(ctx, ownerID); err != nil {
		return stats, fmt.Errorf("%s: %w", op, err)
	}
	if stats.TotalProducts, err = s.repo.CountProducts(ctx); err != nil {
		return stats, fmt.Errorf("%s: %w", op, err)
	}
	if stats.ActiveUsers, err = s.repo.CountActiveUsers(ctx); err != nil {
		return stats, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
