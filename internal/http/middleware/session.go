package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/pribylovaa/go-content-portal/internal/errors"
	"github.com/pribylovaa/go-content-portal/internal/events"
	"github.com/pribylovaa/go-content-portal/internal/routes"
	"github.com/pribylovaa/go-content-portal/internal/service"
	"github.com/pribylovaa/go-content-portal/internal/sessions"
	logctx "github.com/pribylovaa/go-content-portal/pkg/log"
)

// SessionCookie — имя куки с идентификатором браузерной сессии.
const SessionCookie = "portal_sid"

type sessionCtxKey struct{}

// SessionFrom возвращает сессию запроса (nil, если мидлвар не отработал).
func SessionFrom(ctx context.Context) *sessions.Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*sessions.Session)
	return s
}

// Session обеспечивает каждому запросу гидратированную сессию:
//  1. читает идентификатор из куки (либо выдаёт новый и ставит куку);
//  2. получает сессию у менеджера (кэш или гидратация из хранилища);
//  3. если в сессии есть токены, но нет пользователя — аутентифицирует
//     по access-токену и подгружает пользователя;
//  4. отвергнутый токен означает принудительный разлогин: эмитится
//     ForcedLogout и запрос молча уводится на главную.
func Session(mgr *sessions.Manager, bus *events.Bus, svc *service.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionID(r)
			if id == "" {
				id = mgr.NewSessionID()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess, err := mgr.Session(r.Context(), id)
			if err != nil {
				logctx.From(r.Context()).Error("session_hydrate_failed",
					slog.String("session_id", id),
					slog.String("err", err.Error()),
				)
				apierrors.WriteError(w, r, err)
				return
			}

			// Аутентификация по токенам сессии.
			if sess.User() == nil && sess.Tokens() != nil {
				if !authenticate(r, sess, bus, svc) {
					// Токен отвергнут: сессия уже принудительно завершена,
					// пользователь молча уводится на главную.
					http.Redirect(w, r, routes.Home, http.StatusFound)
					return
				}
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionID достаёт идентификатор сессии из куки.
func sessionID(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return ""
	}

	return c.Value
}

// authenticate проверяет access-токен сессии и подгружает пользователя.
// Возвращает false, если токен отвергнут и сессия принудительно завершена.
func authenticate(r *http.Request, sess *sessions.Session, bus *events.Bus, svc *service.Service) bool {
	lg := logctx.From(r.Context())

	uid, _, _, err := svc.ValidateToken(r.Context(), sess.Tokens().AccessToken)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) || errors.Is(err, service.ErrInvalidToken) {
			lg.Warn("session_token_rejected",
				slog.String("session_id", sess.ID()),
			)
			bus.Emit(events.ForcedLogout{SessionID: sess.ID()})
			return false
		}

		lg.Error("session_token_validate_failed",
			slog.String("err", err.Error()),
		)
		return false
	}

	user, err := svc.UserByID(r.Context(), uid)
	if err != nil {
		lg.Warn("session_user_load_failed",
			slog.String("err", err.Error()),
		)
		bus.Emit(events.ForcedLogout{SessionID: sess.ID()})
		return false
	}

	sess.SetUser(user)
	return true
}
