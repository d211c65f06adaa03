// Package models содержит доменные модели инвентаря: пользователей,
// товары и категории, а также вспомогательные типы для приёма данных
// из запросов. Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Role описывает уровень доступа пользователя.
type Role string

const (
	// RoleAdmin — администратор, управляющий учётными записями.
	RoleAdmin Role = "admin"
	// RoleStandard — обычный пользователь, работающий только со своими товарами.
	RoleStandard Role = "standard"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64     // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля пользователя
	FullName     string    // Отображаемое имя
	Role         Role      // Роль пользователя
	IsActive     bool      // Признак активной учётной записи
	CreatedAt    time.Time // Дата создания
	UpdatedAt    time.Time // Дата последнего изменения
}

// IsAdmin сообщает, обладает ли пользователь правами администратора.
func (u User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// IsAdmin сообщает, даёт ли роль доступ к администрированию пользователей.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// UserWithCount — пользователь вместе с количеством принадлежащих ему товаров.
type UserWithCount struct {
	User
	ProductsCount int
}

// NewUser содержит поля для создания учётной записи.
// Используется и при регистрации, и при создании пользователя администратором.
// Ограничения max совпадают с длиной колонок таблицы users.
type NewUser struct {
	Username string `json:"username" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,max=120"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required,max=100"`
}

// Caller — аутентифицированный пользователь, от имени которого выполняется операция.
type Caller struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// IsAdmin сообщает, может ли пользователь управлять учётными записями.
func (c Caller) IsAdmin() bool {
	return c.Role.IsAdmin()
}

// CallerOf возвращает Caller для пользователя.
func CallerOf(u User) Caller {
	return Caller{UserID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role}
}
