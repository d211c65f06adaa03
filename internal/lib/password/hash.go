// Package password реализует хеширование и проверку паролей через bcrypt.
//
// Открытый пароль нигде не сохраняется: в хранилище попадает только результат Hash.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost — стоимость bcrypt. В тестах можно понизить до bcrypt.MinCost.
var Cost = bcrypt.DefaultCost

// MaxLength — наибольшая длина пароля в байтах, которую принимает bcrypt.
const MaxLength = 72

// Hash возвращает bcrypt‑хэш пароля с солью.
func Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сообщает, соответствует ли пароль хэшу.
//
// Ошибка возвращается только для повреждённого хэша; несовпадение пароля даёт false, nil.
func Verify(hash, password string) (bool, error) {
	const op = "password.Verify"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", op, err)
	}
}
