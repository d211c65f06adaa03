// Package session реализует серверные сессии: данные хранятся в Store,
// а клиент получает только подписанный идентификатор в cookie.
//
// Store подключаемый: MemoryStore подходит для одного экземпляра,
// RedisStore позволяет нескольким экземплярам разделять сессии.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/magabrotheeeer/inventory-manager/internal/models"
)

// ErrNotFound возвращается Store, если сессия отсутствует или истекла.
var ErrNotFound = errors.New("session not found")

// Flash — одноразовое сообщение, показываемое на следующей странице.
type Flash struct {
	Kind    string `json:"kind"` // success или error
	Message string `json:"message"`
}

// Виды flash-сообщений.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Identity — данные пользователя, привязанные к сессии после входа.
type Identity = models.Caller

// Data — содержимое сессии в хранилище.
type Data struct {
	Identity *Identity `json:"identity,omitempty"`
	Flashes  []Flash   `json:"flashes,omitempty"`
}

// Store хранит данные сессий по идентификатору.
type Store interface {
	// Get возвращает данные сессии или ErrNotFound.
	Get(ctx context.Context, id string) (*Data, error)
	// Save сохраняет данные сессии с временем жизни ttl.
	Save(ctx context.Context, id string, data *Data, ttl time.Duration) error
	// Delete удаляет сессию. Отсутствие сессии ошибкой не считается.
	Delete(ctx context.Context, id string) error
	// Close освобождает ресурсы хранилища.
	Close() error
}
