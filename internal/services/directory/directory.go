// Package services содержит администрирование учётных записей:
// просмотр всех пользователей и создание новых от имени администратора.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/inventory-manager/internal/events"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

// UserLister возвращает пользователей с количеством их товаров.
type UserLister interface {
	ListUsersWithProductCount(ctx context.Context) ([]models.UserWithCount, error)
}

// AccountCreator создаёт учётную запись с заданной ролью.
type AccountCreator interface {
	CreateAccount(ctx context.Context, req models.NewUser, role models.Role) (*models.User, error)
}

// DirectoryService доступен только администраторам.
type DirectoryService struct {
	users    UserLister
	accounts AccountCreator
	events   events.Publisher
	log      *slog.Logger
}

// NewDirectoryService создает новый экземпляр DirectoryService.
func NewDirectoryService(users UserLister, accounts AccountCreator, publisher events.Publisher, log *slog.Logger) *DirectoryService {
	return &DirectoryService{
		users:    users,
		accounts: accounts,
		events:   publisher,
		log:      log,
	}
}

// ListUsers возвращает всех пользователей с количеством товаров.
func (s *DirectoryService) ListUsers(ctx context.Context, caller models.Caller) ([]models.UserWithCount, error) {
	const op = "services.directory.ListUsers"
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	users, err := s.users.ListUsersWithProductCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// CreateUser создаёт обычного пользователя. Проверки обязательных полей
// и уникальности те же, что при регистрации.
func (s *DirectoryService) CreateUser(ctx context.Context, caller models.Caller, req models.NewUser) (*models.User, error) {
	const op = "services.directory.CreateUser"
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	user, err := s.accounts.CreateAccount(ctx, req, models.RoleStandard)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user created by admin", slog.Int64("id", user.ID), slog.String("admin", caller.Username))
	s.events.Publish(ctx, events.Event{
		Type:     events.UserCreated,
		ActorID:  caller.UserID,
		EntityID: user.ID,
		Username: user.Username,
	})
	return user, nil
}
