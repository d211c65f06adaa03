package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

// ListCategories возвращает справочник категорий в порядке создания.
func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "storage.ListCategories"
	rows, err := s.conn(ctx).QueryContext(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		var description sql.NullString
		if err = rows.Scan(&c.ID, &c.Name, &description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if description.Valid {
			d := description.String
			c.Description = &d
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountCategories возвращает количество категорий.
func (s *Storage) CountCategories(ctx context.Context) (int, error) {
	const op = "storage.CountCategories"
	var n int
	if err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// CreateCategory добавляет категорию; существующее название не изменяется.
func (s *Storage) CreateCategory(ctx context.Context, name, description string) error {
	const op = "storage.CreateCategory"
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING`, name, description)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
