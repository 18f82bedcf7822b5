package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-content-portal/internal/errors"
	"github.com/pribylovaa/go-content-portal/internal/models"
)

// pagePayload — единый конверт данных страницы: имя страницы,
// текущий пользователь (nil для анонима) и данные конкретной страницы.
type pagePayload struct {
	Page string       `json:"page"`
	User *models.User `json:"user,omitempty"`
	Data any          `json:"data,omitempty"`
}

// Page возвращает обработчик данных страницы по её имени из таблицы
// маршрутов. Неизвестное имя — ошибка конфигурации, ловится на старте
// вместе с валидацией таблицы.
func (h *Handlers) Page(name string) (http.HandlerFunc, bool) {
	switch name {
	case "home":
		return h.pagePosts(name, nil), true
	case "news":
		category := models.CategoryNews
		return h.pagePosts(name, &category), true
	case "products":
		category := models.CategoryProduct
		return h.pagePosts(name, &category), true
	case "services":
		category := models.CategoryService
		return h.pagePosts(name, &category), true
	case "tutorials":
		category := models.CategoryTutorial
		return h.pagePosts(name, &category), true
	case "login", "register", "introduce", "contact", "create_post", "my_profile":
		return h.pageStatic(name), true
	case "post_detail", "edit_post":
		return h.pagePostDetail(name), true
	case "my_posts":
		return h.pageMyPosts(name), true
	case "admin_posts":
		return h.pageAdminPosts(name), true
	case "admin_users":
		return h.pageAdminUsers(name), true
	case "admin_contacts":
		return h.pageAdminContacts(name), true
	case "admin_contact_detail":
		return h.pageAdminContactDetail(name), true
	default:
		return nil, false
	}
}

// pageStatic — страницы без серверных данных (формы, статический контент).
func (h *Handlers) pageStatic(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pagePayload{Page: name, User: h.currentUser(r)})
	}
}

// pagePosts — листинги публикаций (главная и рубрики); для всех, кроме
// администратора, сервис отдаёт только одобренные публикации.
func (h *Handlers) pagePosts(name string, category *models.PostCategory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)

		filter := postFilterFromQuery(r)
		if category != nil {
			filter.Category = category
		}

		page, err := h.svc.ListPosts(r.Context(), user, listOptions(r), filter)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, pagePayload{Page: name, User: user, Data: page})
	}
}

func (h *Handlers) pagePostDetail(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)

		post, err := h.svc.PostBySlug(r.Context(), user, chi.URLParam(r, "post_slug"))
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, pagePayload{Page: name, User: user, Data: post})
	}
}

// pageMyPosts — публикации текущего пользователя в любом статусе.
func (h *Handlers) pageMyPosts(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)

		filter := postFilterFromQuery(r)
		filter.UserID = user.ID

		page, err := h.svc.ListPosts(r.Context(), user, listOptions(r), filter)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, pagePayload{Page: name, User: user, Data: page})
	}
}

// pageAdminPosts — модерационный листинг: все публикации с фильтрами,
// включая ?approved=.
func (h *Handlers) pageAdminPosts(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)

		page, err := h.svc.ListPosts(r.Context(), user, listOptions(r), postFilterFromQuery(r))
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, pagePayload{Page: name, User: user, Data: page})
	}
}

func (h *Handlers) pageAdminUsers(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)

		page, err := h.svc.ListUsers(r.Context(), user, listOptions(r))
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, pagePayload{Page: name, User: user, Data: page})
	}
}

func (h *Handlers) pageAdminContacts(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)

		filter := models.ContactFilter{IsRead: boolParam(r, "is_read")}

		page, err := h.svc.ListContacts(r.Context(), user, listOptions(r), filter)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, pagePayload{Page: name, User: user, Data: page})
	}
}

func (h *Handlers) pageAdminContactDetail(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)

		contact, err := h.svc.ContactByID(r.Context(), user, chi.URLParam(r, "contact_id"))
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, pagePayload{Page: name, User: user, Data: contact})
	}
}
