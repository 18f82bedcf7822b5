package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact — обращение через форму обратной связи.
// UserID — uuid.Nil, если форму отправил анонимный посетитель.
type Contact struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactFilter — фильтры листинга обращений.
type ContactFilter struct {
	// IsRead — nil, если фильтр по статусу прочтения не задан.
	IsRead *bool
}
