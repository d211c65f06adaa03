// Package apperr содержит виды ошибок бизнес-логики.
//
// Сервисы оборачивают их через fmt.Errorf("%s: %w", op, err),
// а HTTP-обработчики сопоставляют через errors.Is / errors.As
// и превращают в коды ответа или flash-сообщения.
package apperr

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicateUsername — имя пользователя уже занято.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail — email уже зарегистрирован.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials — неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation — обязательное поле пустое или имеет неверный формат.
	ErrValidation = errors.New("validation error")
	// ErrMissingFields — не переданы обязательные поля.
	ErrMissingFields = errors.New("missing required fields")
	// ErrNotFound — запись не найдена среди записей владельца.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — недостаточно прав.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated — нет активной сессии.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInternal — непредвиденная ошибка хранилища.
	ErrInternal = errors.New("internal error")
)

// MissingFieldsError перечисляет отсутствующие обязательные поля.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Unwrap позволяет сравнивать ошибку с ErrMissingFields через errors.Is.
func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingFields
}

// ValidationError описывает некорректное значение поля.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "field " + e.Field + " " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid создаёт ValidationError для поля.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
