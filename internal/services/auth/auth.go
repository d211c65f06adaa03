// Package services содержит бизнес-логику учётных записей: регистрацию,
// вход по паролю и создание пользователей с заданной ролью.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/inventory-manager/internal/events"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/password"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// WithinTx выполняет fn в одной транзакции.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// UsernameExists проверяет, занято ли имя пользователя.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// EmailExists проверяет, зарегистрирован ли email.
	EmailExists(ctx context.Context, email string) (bool, error)
	// CreateUser сохраняет пользователя и возвращает его с присвоенным ID.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByUsername возвращает пользователя или apperr.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию и проверку учётных данных.
type AuthService struct {
	users    UserRepository
	events   events.Publisher
	log      *slog.Logger
	validate *validator.Validate
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, publisher events.Publisher, log *slog.Logger) *AuthService {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return &AuthService{
		users:    users,
		events:   publisher,
		log:      log,
		validate: v,
	}
}

// Register создаёт обычного пользователя по данным формы регистрации.
func (s *AuthService) Register(ctx context.Context, req models.NewUser) (*models.User, error) {
	const op = "services.auth.Register"
	user, err := s.CreateAccount(ctx, req, models.RoleStandard)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.events.Publish(ctx, events.Event{Type: events.UserRegistered, EntityID: user.ID, Username: user.Username})
	return user, nil
}

// CreateAccount проверяет обязательные поля и уникальность, хэширует пароль
// и сохраняет активного пользователя с ролью role. Проверка и вставка
// выполняются в одной транзакции.
func (s *AuthService) CreateAccount(ctx context.Context, req models.NewUser, role models.Role) (*models.User, error) {
	const op = "services.auth.CreateAccount"
	if err := s.checkRequired(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var created *models.User
	err = s.users.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.UsernameExists(ctx, req.Username)
		if err != nil {
			return err
		}
		if exists {
			return apperr.ErrDuplicateUsername
		}
		exists, err = s.users.EmailExists(ctx, req.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperr.ErrDuplicateEmail
		}
		created, err = s.users.CreateUser(ctx, models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hashed,
			FullName:     req.FullName,
			Role:         role,
			IsActive:     true,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user account created",
		slog.Int64("user_id", created.ID),
		slog.String("username", created.Username),
		slog.String("role", string(created.Role)))
	return created, nil
}

// Login возвращает пользователя, если он существует, активен и пароль совпадает.
// Во всех остальных случаях возвращается apperr.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, error) {
	const op = "services.auth.Login"
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
	}
	ok, err := password.Verify(user.PasswordHash, rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
	}
	return user, nil
}

// checkRequired проверяет поля учётной записи. Пустые поля дают
// MissingFieldsError с именами в порядке объявления, а нарушения длины
// возвращаются как validator.ValidationErrors.
func (s *AuthService) checkRequired(req models.NewUser) error {
	err := s.validate.Struct(req)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		var missing []string
		var invalid validator.ValidationErrors
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				missing = append(missing, fe.Field())
			} else {
				invalid = append(invalid, fe)
			}
		}
		if len(missing) > 0 {
			return &apperr.MissingFieldsError{Fields: missing}
		}
		return invalid
	}
	if len(req.Password) > password.MaxLength {
		return apperr.Invalid("password", "is too long")
	}
	return nil
}
