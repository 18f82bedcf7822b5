package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenPair — пара токенов, выдаваемая при аутентификации/регистрации.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — случайный секрет, который клиент хранит и предъявляет
//     для выпуска новой пары токенов; на сервере хранится только его хэш;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// RefreshToken — данные refresh-токена для управления сессиями.
type RefreshToken struct {
	RefreshToken string
	UserID       uuid.UUID
	IssuedAt     time.Time
	ExpiresAt    time.Time
	Revoked      bool
}
