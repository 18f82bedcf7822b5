package middleware

import (
	"net/http"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/routes"
)

// Guard применяет политику доступа маршрута к текущей сессии.
// Отказ — всегда молчаливый 302 на цель, вычисленную координатором;
// страниц-«ошибок доступа» у портала нет.
func Guard(coord routes.Coordinator, policy routes.AccessPolicy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var user *models.User
			if sess := SessionFrom(r.Context()); sess != nil {
				user = sess.User()
			}

			decision := coord.Decide(policy, user)
			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Progress отмечает навигацию по странице в индикаторе сессии:
// Start перед обработкой, Settle по завершении (в т.ч. при панике ниже).
func Progress() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFrom(r.Context())
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			sess.Progress.Start(r.URL.Path)
			defer sess.Progress.Settle()

			next.ServeHTTP(w, r)
		})
	}
}
