package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

const productColumns = `id, name, description, price, category, quantity, is_available, user_id, created_at, updated_at`

func scanProduct(row rowScanner, p *models.Product) error {
	var price sql.NullFloat64
	var category sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &category,
		&p.Quantity, &p.IsAvailable, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	p.Price = nil
	if price.Valid {
		v := price.Float64
		p.Price = &v
	}
	p.Category = category.String
	return nil
}

func nullPrice(price *float64) sql.NullFloat64 {
	if price == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *price, Valid: true}
}

// CreateProduct добавляет товар владельцу product.UserID.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	query := `INSERT INTO products (name, description, price, category, quantity, is_available, user_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + productColumns
	created := &models.Product{}
	row := s.conn(ctx).QueryRowContext(ctx, query,
		product.Name, product.Description, nullPrice(product.Price), product.Category,
		product.Quantity, product.IsAvailable, product.UserID)
	if err := scanProduct(row, created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ListProductsByOwner возвращает товары пользователя в порядке создания.
func (s *Storage) ListProductsByOwner(ctx context.Context, userID int64) ([]models.Product, error) {
	const op = "storage.ListProductsByOwner"
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 ORDER BY id`
	rows, err := s.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err = scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProduct возвращает товар, только если он принадлежит userID.
// Чужой или несуществующий товар даёт apperr.ErrNotFound.
// Внутри транзакции строка блокируется до её завершения.
func (s *Storage) GetProduct(ctx context.Context, id, userID int64) (*models.Product, error) {
	const op = "storage.GetProduct"
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND user_id = $2`
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		query += ` FOR UPDATE`
	}
	p := &models.Product{}
	if err := scanProduct(s.conn(ctx).QueryRowContext(ctx, query, id, userID), p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return p, nil
}

// UpdateProduct сохраняет все изменяемые поля товара владельца.
// updated_at всегда строго увеличивается.
func (s *Storage) UpdateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	query := `UPDATE products
			  SET name = $1, description = $2, price = $3, category = $4,
			      quantity = $5, is_available = $6,
			      updated_at = GREATEST(clock_timestamp(), updated_at + INTERVAL '1 microsecond')
			  WHERE id = $7 AND user_id = $8
			  RETURNING ` + productColumns
	updated := &models.Product{}
	row := s.conn(ctx).QueryRowContext(ctx, query,
		product.Name, product.Description, nullPrice(product.Price), product.Category,
		product.Quantity, product.IsAvailable, product.ID, product.UserID)
	if err := scanProduct(row, updated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return updated, nil
}

// DeleteProduct удаляет товар владельца.
func (s *Storage) DeleteProduct(ctx context.Context, id, userID int64) error {
	const op = "storage.DeleteProduct"
	res, err := s.conn(ctx).ExecContext(ctx,
		`DELETE FROM products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// CountProductsByOwner возвращает количество товаров пользователя.
func (s *Storage) CountProductsByOwner(ctx context.Context, userID int64) (int, error) {
	const op = "storage.CountProductsByOwner"
	var n int
	if err := s.conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// CountProducts возвращает общее количество товаров.
func (s *Storage) CountProducts(ctx context.Context) (int, error) {
	const op = "storage.CountProducts"
	var n int
	if err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
