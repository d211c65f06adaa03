package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

const userColumns = `id, username, email, password_hash, full_name, role, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *models.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

// CreateUser сохраняет нового пользователя и возвращает его с присвоенными ID и датами.
// Нарушение уникальности возвращается как apperr.ErrDuplicateUsername или apperr.ErrDuplicateEmail.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if user.Role == "" {
		user.Role = models.RoleStandard
	}
	query := `INSERT INTO users (username, email, password_hash, full_name, role, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + userColumns
	created := &models.User{}
	row := s.conn(ctx).QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.Role, user.IsActive)
	if err := scanUser(row, created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return created, nil
}

// GetUserByUsername возвращает пользователя по точному совпадению username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u := &models.User{}
	if err := scanUser(s.conn(ctx).QueryRowContext(ctx, query, username), u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return u, nil
}

// UsernameExists проверяет, занято ли имя пользователя.
func (s *Storage) UsernameExists(ctx context.Context, username string) (bool, error) {
	const op = "storage.UsernameExists"
	var exists bool
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// EmailExists проверяет, зарегистрирован ли email.
func (s *Storage) EmailExists(ctx context.Context, email string) (bool, error) {
	const op = "storage.EmailExists"
	var exists bool
	err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListUsersWithProductCount возвращает всех пользователей в порядке создания
// вместе с количеством их товаров.
func (s *Storage) ListUsersWithProductCount(ctx context.Context) ([]models.UserWithCount, error) {
	const op = "storage.ListUsersWithProductCount"
	query := `SELECT u.id, u.username, u.email, u.password_hash, u.full_name, u.role,
			      u.is_active, u.created_at, u.updated_at, COUNT(p.id)
			  FROM users u
			  LEFT JOIN products p ON p.user_id = u.id
			  GROUP BY u.id
			  ORDER BY u.id`
	rows, err := s.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.UserWithCount, 0)
	for rows.Next() {
		var u models.UserWithCount
		if err = rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
			&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.ProductsCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountActiveUsers возвращает количество активных учётных записей.
func (s *Storage) CountActiveUsers(ctx context.Context) (int, error) {
	const op = "storage.CountActiveUsers"
	var n int
	if err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
