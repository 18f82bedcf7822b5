package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/go-content-portal/internal/errors"
	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/service"
)

type updateProfileRequest struct {
	Name      *string `json:"name"`
	Username  *string `json:"username"`
	Sex       *string `json:"sex"`
	AvatarKey *string `json:"avatar_key"`
}

// UpdateProfile — частичное обновление собственного профиля.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	var in updateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	input := service.UpdateProfileInput{
		Name:      in.Name,
		Username:  in.Username,
		AvatarKey: in.AvatarKey,
	}

	if in.Sex != nil {
		sex, ok := models.ParseSex(*in.Sex)
		if !ok {
			apierrors.WriteError(w, r, service.ErrInvalidArgument)
			return
		}

		input.Sex = &sex
	}

	updated, err := h.svc.UpdateProfile(r.Context(), user, input)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	// Профиль в сессии обновляется сразу, чтобы последующие запросы
	// видели новые имя/аватар без повторной аутентификации.
	if sess := h.session(r); sess != nil {
		if err := h.sessions.Store().SaveUser(r.Context(), sess.ID(), updated); err == nil {
			sess.SetUser(updated)
		}
	}

	writeJSON(w, http.StatusOK, updated)
}

type presignUploadRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

// PresignUpload выдаёт presigned PUT URL для загрузки изображения.
func (h *Handlers) PresignUpload(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	var in presignUploadRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	info, err := h.svc.ImageUploadURL(r.Context(), user, service.ImageUploadInput{
		ContentType:   in.ContentType,
		ContentLength: in.ContentLength,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

type setUserActiveRequest struct {
	Active bool `json:"active"`
}

// SetUserActive включает/выключает учётную запись (админ).
func (h *Handlers) SetUserActive(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)

	userID, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	var in setUserActiveRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	updated, err := h.svc.SetUserActive(r.Context(), user, userID, in.Active)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
