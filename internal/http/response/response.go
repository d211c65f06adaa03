// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: ошибок, сообщений
// и представлений товаров и пользователей.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

const (
	productTimeLayout = "02/01/2006 15:04"
	userTimeLayout    = "02/01/2006"
)

// ErrorResponse описывает JSON‑ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// MessageResponse описывает успешный ответ с сообщением.
type MessageResponse struct {
	Status  string `json:"status" example:"OK"`
	Message string `json:"message" example:"product updated"`
}

// ProductCreatedResponse — ответ на создание товара.
type ProductCreatedResponse struct {
	Status  string  `json:"status" example:"OK"`
	Message string  `json:"message" example:"product created"`
	Product Product `json:"product"`
}

// UserCreatedResponse — ответ на создание пользователя администратором.
type UserCreatedResponse struct {
	Status  string      `json:"status" example:"OK"`
	Message string      `json:"message" example:"user created"`
	User    UserSummary `json:"user"`
}

// Product — JSON‑представление товара.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Quantity    int      `json:"quantity"`
	IsAvailable bool     `json:"is_available"`
	CreatedAt   string   `json:"created_at" example:"31/12/2024 18:30"`
}

// UserSummary — краткое представление созданного пользователя.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// User — строка списка пользователей.
type User struct {
	UserSummary
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at" example:"31/12/2024"`
	ProductsCount int    `json:"products_count"`
}

// Category — JSON‑представление категории.
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Error возвращает ответ с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// Message возвращает успешный ответ с сообщением.
func Message(msg string) MessageResponse {
	return MessageResponse{
		Status:  StatusOK,
		Message: msg,
	}
}

// ProductCreated оборачивает созданный товар.
func ProductCreated(p models.Product) ProductCreatedResponse {
	return ProductCreatedResponse{
		Status:  StatusOK,
		Message: "product created",
		Product: NewProduct(p),
	}
}

// UserCreated оборачивает созданного пользователя.
func UserCreated(u models.User) UserCreatedResponse {
	return UserCreatedResponse{
		Status:  StatusOK,
		Message: "user created",
		User:    summary(u),
	}
}

// NewProduct переводит товар в JSON‑представление.
func NewProduct(p models.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Quantity:    p.Quantity,
		IsAvailable: p.IsAvailable,
		CreatedAt:   p.CreatedAt.Format(productTimeLayout),
	}
}

// Products переводит список товаров; пустой список даёт [] вместо null.
func Products(list []models.Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, NewProduct(p))
	}
	return out
}

// Users переводит список пользователей с количеством товаров.
func Users(list []models.UserWithCount) []User {
	out := make([]User, 0, len(list))
	for _, u := range list {
		out = append(out, User{
			UserSummary:   summary(u.User),
			IsActive:      u.IsActive,
			CreatedAt:     u.CreatedAt.Format(userTimeLayout),
			ProductsCount: u.ProductsCount,
		})
	}
	return out
}

// Categories переводит справочник категорий.
func Categories(list []models.Category) []Category {
	out := make([]Category, 0, len(list))
	for _, c := range list {
		out = append(out, Category{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return out
}

func summary(u models.User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName}
}

// ValidationError формирует ответ со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
