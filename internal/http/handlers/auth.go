package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/pribylovaa/go-content-portal/internal/errors"
	"github.com/pribylovaa/go-content-portal/internal/events"
	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/service"
)

// authResponse — ответ на register/login/refresh: пользователь и момент
// истечения access-токена (для планирования silent refresh на клиенте).
// Сами токены клиенту не отдаются — они живут в серверной сессии.
type authResponse struct {
	User            *models.User `json:"user"`
	AccessExpiresAt int64        `json:"access_expires_at"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Sex      string `json:"sex"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	sex, ok := models.ParseSex(in.Sex)
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	tokens, user, err := h.svc.RegisterUser(r.Context(), in.Name, in.Username, in.Password, sex)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.persistSession(r, h.session(r), user, tokens); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		User:            user,
		AccessExpiresAt: tokens.AccessExpiresAt.Unix(),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	tokens, user, err := h.svc.LoginUser(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.persistSession(r, h.session(r), user, tokens); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:            user,
		AccessExpiresAt: tokens.AccessExpiresAt.Unix(),
	})
}

// Logout завершает сессию по инициативе пользователя: отзывает
// refresh-токен и очищает серверную сессию. Ошибка отзыва уже
// отозванного токена не мешает разлогину.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)

	if tokens := sess.Tokens(); tokens != nil {
		_ = h.svc.RevokeToken(r.Context(), tokens.RefreshToken)
	}

	if err := h.sessions.Drop(r.Context(), sess.ID()); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	sess.SetUser(nil)
	sess.SetTokens(nil)

	w.WriteHeader(http.StatusNoContent)
}

// Refresh выполняет silent refresh: ротирует пару токенов по refresh-токену
// сессии и публикует TokenRefreshed — подписанная сессия заменит пару в
// памяти. Отвергнутый refresh-токен завершает сессию принудительно.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)

	current := sess.Tokens()
	if current == nil {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	tokens, user, err := h.svc.RefreshToken(r.Context(), current.RefreshToken)
	if err != nil {
		// Принудительный разлогин — только для отвергнутого токена.
		// Сбой хранилища не повод уничтожать серверную сессию: клиент
		// получает 500 и повторит refresh позже.
		if refreshRejected(err) {
			h.bus.Emit(events.ForcedLogout{SessionID: sess.ID()})
		}
		apierrors.WriteError(w, r, err)
		return
	}

	store := h.sessions.Store()
	if err := store.SaveUser(r.Context(), sess.ID(), user); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if err := store.SaveTokens(r.Context(), sess.ID(), tokens); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	sess.SetUser(user)
	h.bus.Emit(events.TokenRefreshed{SessionID: sess.ID(), Tokens: *tokens})

	writeJSON(w, http.StatusOK, authResponse{
		User:            user,
		AccessExpiresAt: tokens.AccessExpiresAt.Unix(),
	})
}

// refreshRejected отличает отвергнутый refresh-токен (невалиден, истёк,
// отозван, пользователь заблокирован) от транзиентных ошибок бэкенда.
func refreshRejected(err error) bool {
	return errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrTokenRevoked) ||
		errors.Is(err, service.ErrUserInactive)
}

// Me возвращает пользователя текущей сессии; 401 означает анонима.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
