// Package services инициализирует базу данных: применяет миграции и
// заполняет справочники и демонстрационные данные.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/inventory-manager/internal/config"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/password"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

// Repository определяет методы хранилища, нужные для заполнения БД.
type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateCategory(ctx context.Context, name, description string) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	CountProducts(ctx context.Context) (int, error)
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
}

// MigrateFunc применяет миграции схемы.
type MigrateFunc func() error

// DefaultCategories — справочник категорий по умолчанию.
var DefaultCategories = []struct {
	Name        string
	Description string
}{
	{"Eletrônicos", "Produtos eletrônicos em geral"},
	{"Roupas", "Vestuário e acessórios"},
	{"Livros", "Livros e materiais de leitura"},
	{"Casa", "Produtos para casa"},
	{"Esportes", "Artigos esportivos"},
	{models.DefaultCategory, "Outras categorias"},
}

// SampleUser — демонстрационный пользователь.
var SampleUser = models.NewUser{
	Username: "usuario1",
	Email:    "usuario1@email.com",
	Password: "senha123",
	FullName: "Usuário Teste 1",
}

// SetupService создаёт схему и начальные данные.
type SetupService struct {
	repo    Repository
	migrate MigrateFunc
	admin   config.Admin
	log     *slog.Logger
}

// NewSetupService создает новый экземпляр SetupService.
func NewSetupService(repo Repository, migrate MigrateFunc, admin config.Admin, log *slog.Logger) *SetupService {
	return &SetupService{
		repo:    repo,
		migrate: migrate,
		admin:   admin,
		log:     log,
	}
}

// InitDB применяет миграции и в одной транзакции добавляет недостающие
// категории, администратора, демонстрационного пользователя и, если
// товаров ещё нет, демонстрационные товары. Повторный вызов ничего не меняет.
func (s *SetupService) InitDB(ctx context.Context) error {
	const op = "services.setup.InitDB"
	if err := s.migrate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		for _, c := range DefaultCategories {
			if err := s.repo.CreateCategory(ctx, c.Name, c.Description); err != nil {
				return err
			}
		}

		admin, err := s.ensureUser(ctx, models.NewUser{
			Username: s.admin.AdminUsername,
			Email:    s.admin.AdminEmail,
			Password: s.admin.AdminPassword,
			FullName: "Administrador",
		}, models.RoleAdmin)
		if err != nil {
			return err
		}
		sample, err := s.ensureUser(ctx, SampleUser, models.RoleStandard)
		if err != nil {
			return err
		}

		count, err := s.repo.CountProducts(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, p := range sampleProducts(admin.ID, sample.ID) {
			if _, err := s.repo.CreateProduct(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("database initialized")
	return nil
}

func (s *SetupService) ensureUser(ctx context.Context, req models.NewUser, role models.Role) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user, err = s.repo.CreateUser(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("seeded user", slog.String("username", user.Username), slog.String("role", string(role)))
	return user, nil
}

func sampleProducts(adminID, sampleID int64) []models.Product {
	price := func(v float64) *float64 { return &v }
	return []models.Product{
		{
			Name: "Smartphone XYZ", Description: "Smartphone com 128GB, câmera tripla",
			Price: price(899.99), Category: "Eletrônicos", Quantity: 10, IsAvailable: true, UserID: adminID,
		},
		{
			Name: "Livro Python", Description: "Aprenda Python do zero ao avançado",
			Price: price(49.90), Category: "Livros", Quantity: 25, IsAvailable: true, UserID: adminID,
		},
		{
			Name: "Camiseta Básica", Description: "Camiseta 100% algodão, várias cores",
			Price: price(29.90), Category: "Roupas", Quantity: 50, IsAvailable: true, UserID: sampleID,
		},
	}
}
