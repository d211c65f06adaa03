// Package jwt подписывает идентификатор сессии, который хранится в cookie.
//
// Сами данные сессии лежат на сервере; в cookie попадает только
// непрозрачный идентификатор, защищённый HMAC-подписью и сроком жизни.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker описывает создание и проверку подписанных токенов сессии.
type Maker interface {
	// GenerateToken подписывает идентификатор сессии.
	GenerateToken(sessionID string) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// SessionClaims — содержимое токена. Идентификатор сессии хранится в поле jti.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionID возвращает идентификатор сессии из токена.
func (c *SessionClaims) SessionID() string {
	return c.ID
}

// MakerImpl реализует Maker на основе секретного ключа и TTL.
type MakerImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
	issuer    string
}

// NewJWTMaker создаёт MakerImpl. Пустой ключ недопустим и приводит к панике.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	if secretKey == "" {
		panic("jwt: empty secret key")
	}
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		issuer:    "inventory-manager",
	}
}
