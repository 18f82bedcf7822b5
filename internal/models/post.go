package models

import (
	"time"

	"github.com/google/uuid"
)

// PostCategory — рубрика публикации; закрытый enum.
type PostCategory int8

const (
	CategoryNews PostCategory = iota
	CategoryProduct
	CategoryService
	CategoryTutorial
)

func (c PostCategory) String() string {
	switch c {
	case CategoryProduct:
		return "product"
	case CategoryService:
		return "service"
	case CategoryTutorial:
		return "tutorial"
	default:
		return "news"
	}
}

// ParsePostCategory разбирает строковое значение рубрики.
// Пустая строка и неизвестные значения не являются валидной рубрикой.
func ParsePostCategory(s string) (PostCategory, bool) {
	switch s {
	case "news":
		return CategoryNews, true
	case "product":
		return CategoryProduct, true
	case "service":
		return CategoryService, true
	case "tutorial":
		return CategoryTutorial, true
	default:
		return 0, false
	}
}

// Post — публикация пользователя.
// Slug уникален и вычисляется при создании; Approved выставляется
// только администратором при модерации.
type Post struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Title     string       `json:"title"`
	Image     string       `json:"image"`
	Content   string       `json:"content"`
	Author    string       `json:"author"`
	Category  PostCategory `json:"category"`
	Slug      string       `json:"slug"`
	Approved  bool         `json:"approved"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// PostFilter — фильтры листинга публикаций; zero value — «без фильтра».
// Поля-указатели различают «не задано» и «задано, в т.ч. ложное».
type PostFilter struct {
	Title    string
	Author   string
	Category *PostCategory
	Approved *bool
	// UserID ограничивает выдачу публикациями одного автора (my_posts).
	UserID uuid.UUID
}
