package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/pribylovaa/go-content-portal/internal/errors"
	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/service"
)

type createPostRequest struct {
	Title    string `json:"title"`
	Image    string `json:"image"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	var in createPostRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	category, ok := models.ParsePostCategory(in.Category)
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	post, err := h.svc.CreatePost(r.Context(), user, service.CreatePostInput{
		Title:    in.Title,
		Image:    in.Image,
		Content:  in.Content,
		Category: category,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

type updatePostRequest struct {
	Title    *string `json:"title"`
	Image    *string `json:"image"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "post_id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	var in updatePostRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	input := service.UpdatePostInput{
		Title:   in.Title,
		Image:   in.Image,
		Content: in.Content,
	}

	if in.Category != nil {
		category, ok := models.ParsePostCategory(*in.Category)
		if !ok {
			apierrors.WriteError(w, r, service.ErrInvalidArgument)
			return
		}

		input.Category = &category
	}

	post, err := h.svc.UpdatePost(r.Context(), user, postID, input)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "post_id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	if err := h.svc.DeletePost(r.Context(), user, postID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type approvePostRequest struct {
	Approved bool `json:"approved"`
}

// ApprovePost — модерация публикации администратором.
func (h *Handlers) ApprovePost(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)

	postID, err := uuid.Parse(chi.URLParam(r, "post_id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	var in approvePostRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	post, err := h.svc.ApprovePost(r.Context(), user, postID, in.Approved)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// postFilterFromQuery собирает фильтр листинга из query-параметров
// (?title=&author=&category=&approved=).
func postFilterFromQuery(r *http.Request) models.PostFilter {
	q := r.URL.Query()

	filter := models.PostFilter{
		Title:    q.Get("title"),
		Author:   q.Get("author"),
		Approved: boolParam(r, "approved"),
	}

	if v := q.Get("category"); v != "" {
		if category, ok := models.ParsePostCategory(v); ok {
			filter.Category = &category
		}
	}

	return filter
}
