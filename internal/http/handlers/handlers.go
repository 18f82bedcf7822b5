// handlers реализует HTTP-обработчики портала: страничные данные
// (page-data по таблице маршрутов) и операции (auth/posts/users/contacts).
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pribylovaa/go-content-portal/internal/config"
	"github.com/pribylovaa/go-content-portal/internal/events"
	"github.com/pribylovaa/go-content-portal/internal/http/middleware"
	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/service"
	"github.com/pribylovaa/go-content-portal/internal/sessions"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	svc      *service.Service
	sessions *sessions.Manager
	bus      *events.Bus
	cfg      *config.Config
}

func New(svc *service.Service, mgr *sessions.Manager, bus *events.Bus, cfg *config.Config) *Handlers {
	return &Handlers{
		svc:      svc,
		sessions: mgr,
		bus:      bus,
		cfg:      cfg,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// session возвращает сессию запроса (мидлвар Session отработал раньше).
func (h *Handlers) session(r *http.Request) *sessions.Session {
	return middleware.SessionFrom(r.Context())
}

// currentUser возвращает пользователя сессии (nil — аноним).
func (h *Handlers) currentUser(r *http.Request) *models.User {
	if sess := h.session(r); sess != nil {
		return sess.User()
	}

	return nil
}

// listOptions разбирает query-параметры пагинации (?page=&limit=).
// Нормализация границ выполняется сервисным слоем.
func listOptions(r *http.Request) models.ListOptions {
	var opts models.ListOptions

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			opts.Page = int32(n)
		}
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			opts.Limit = int32(n)
		}
	}

	return opts
}

// boolParam разбирает необязательный булев query-параметр;
// nil — параметр не задан или некорректен.
func boolParam(r *http.Request, name string) *bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}

	return &b
}

// persistSession фиксирует логин в сессии: пишет пользователя и токены
// в персистентное хранилище и заменяет in-memory состояние.
func (h *Handlers) persistSession(r *http.Request, sess *sessions.Session, user *models.User, tokens *models.TokenPair) error {
	store := h.sessions.Store()

	if err := store.SaveUser(r.Context(), sess.ID(), user); err != nil {
		return err
	}

	if err := store.SaveTokens(r.Context(), sess.ID(), tokens); err != nil {
		return err
	}

	sess.SetUser(user)
	sess.SetTokens(tokens)

	return nil
}
