package models

import "time"

// Category — элемент общего справочника категорий.
// С товарами связана только по названию, без внешнего ключа.
type Category struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
}

// DashboardStats содержит счётчики для главной страницы.
type DashboardStats struct {
	UserProducts  int // Товары текущего пользователя
	TotalProducts int // Все товары в системе
	ActiveUsers   int // Активные учётные записи
}
