package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-content-portal/internal/errors"
	"github.com/pribylovaa/go-content-portal/internal/service"
)

type createContactRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Content string `json:"content"`
}

// CreateContact принимает обращение с формы обратной связи.
// Доступно и анонимным посетителям; для вошедших сохраняется привязка к аккаунту.
func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	var in createContactRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	input := service.CreateContactInput{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Content: in.Content,
	}

	if user := h.currentUser(r); user != nil {
		input.UserID = user.ID
	}

	contact, err := h.svc.CreateContact(r.Context(), input)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

type markContactReadRequest struct {
	IsRead bool `json:"is_read"`
}

// MarkContactRead помечает обращение прочитанным/непрочитанным (админ).
func (h *Handlers) MarkContactRead(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)

	var in markContactReadRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	contact, err := h.svc.MarkContactRead(r.Context(), user, chi.URLParam(r, "contact_id"), in.IsRead)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}
