// Package http собирает HTTP-поверхность портала: страницы из таблицы
// маршрутов за guard-цепочкой и операционные JSON-эндпоинты.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-content-portal/internal/http/handlers"
	"github.com/pribylovaa/go-content-portal/internal/http/middleware"
	"github.com/pribylovaa/go-content-portal/internal/routes"
)

// Options — параметры сборки роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter строит роутер портала.
//
// Страницы монтируются из декларативной таблицы маршрутов: каждая получает
// метрики по шаблону пути, проверку политики доступа координатором
// и трекер фоновых операций. Операционные эндпоинты (auth, CRUD)
// полагаются на проверки прав в сервисном слое и отвечают JSON-ошибками
// вместо редиректов.
func NewRouter(h *handlers.Handlers, sessionMW middleware.Middleware, opts Options) (http.Handler, error) {
	table := routes.Table()
	if err := routes.Validate(table); err != nil {
		return nil, fmt.Errorf("http/NewRouter: %w", err)
	}

	coord := routes.NewCoordinator()

	r := chi.NewRouter()

	base := []middleware.Middleware{
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
		sessionMW,
		middleware.Timeout(opts.Timeout),
	}

	var mountErr error
	routes.Walk(table, func(route routes.Route) {
		page, ok := h.Page(route.Name)
		if !ok {
			mountErr = fmt.Errorf("http/NewRouter: no page handler for route %q", route.Name)
			return
		}

		r.Method(http.MethodGet, route.Path, middleware.Chain(
			page,
			append(base,
				middleware.Metrics(route.Path),
				middleware.Guard(coord, route.Policy),
				middleware.Progress(),
			)...,
		))
	})
	if mountErr != nil {
		return nil, mountErr
	}

	api := func(pattern string, handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, append(base, middleware.Metrics(pattern))...)
	}

	r.Method(http.MethodPost, "/auth/register", api("/auth/register", h.Register))
	r.Method(http.MethodPost, "/auth/login", api("/auth/login", h.Login))
	r.Method(http.MethodPost, "/auth/logout", api("/auth/logout", h.Logout))
	r.Method(http.MethodPost, "/auth/refresh", api("/auth/refresh", h.Refresh))
	r.Method(http.MethodGet, "/auth/me", api("/auth/me", h.Me))

	r.Method(http.MethodPost, "/posts", api("/posts", h.CreatePost))
	r.Method(http.MethodPatch, "/posts/{post_id}", api("/posts/{post_id}", h.UpdatePost))
	r.Method(http.MethodDelete, "/posts/{post_id}", api("/posts/{post_id}", h.DeletePost))

	r.Method(http.MethodPatch, "/profile", api("/profile", h.UpdateProfile))
	r.Method(http.MethodPost, "/uploads/presign", api("/uploads/presign", h.PresignUpload))

	r.Method(http.MethodPost, "/contacts", api("/contacts", h.CreateContact))

	r.Method(http.MethodPatch, "/admin/posts/{post_id}/approve",
		api("/admin/posts/{post_id}/approve", h.ApprovePost))
	r.Method(http.MethodPatch, "/admin/users/{user_id}/active",
		api("/admin/users/{user_id}/active", h.SetUserActive))
	r.Method(http.MethodPatch, "/admin/contacts/{contact_id}/read",
		api("/admin/contacts/{contact_id}/read", h.MarkContactRead))

	return r, nil
}
