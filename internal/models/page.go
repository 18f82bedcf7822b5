package models

// ListOptions — параметры страничной выборки.
// Page нумеруется с единицы; значения нормализуются сервисным слоем
// по конфигу лимитов.
type ListOptions struct {
	Page  int32
	Limit int32
}

// Page — страница выборки со счётчиками для пагинации в URL.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int32 `json:"total_pages"`
}

// TotalPagesFor считает количество страниц для total записей при лимите limit.
func TotalPagesFor(total int64, limit int32) int32 {
	if limit <= 0 {
		return 0
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return int32(pages)
}
