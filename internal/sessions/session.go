package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/pribylovaa/go-content-portal/internal/events"
	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/progress"
)

// Session — единственный источник истины «кто сейчас вошёл» для одной
// браузерной сессии. Пользователь и пара токенов заменяются целиком
// через сеттеры; никакой другой компонент не мутирует это состояние
// напрямую. Сеттеры не пишут в персистентное хранилище: запись —
// явная, отдельная обязанность вызывающего кода.
type Session struct {
	id string

	mu     sync.RWMutex
	user   *models.User
	tokens *models.TokenPair
	// forcedOut выставляется при получении ForcedLogout: сама сессия
	// лишь информируется, очистку состояния выполняет подписчик менеджера.
	forcedOut bool

	detach []func()

	// Progress — индикатор навигации этой сессии.
	Progress progress.Tracker
}

// NewSession создаёт пустую сессию с данным идентификатором.
func NewSession(id string) *Session {
	return &Session{id: id}
}

// ID возвращает идентификатор сессии.
func (s *Session) ID() string { return s.id }

// Hydrate заполняет состояние из персистентного хранилища. Вызывается
// до первого использования сессии; отсутствие записей — нормальный путь,
// ошибкой являются только сбои самого хранилища.
func (s *Session) Hydrate(ctx context.Context, store Store) error {
	const op = "sessions.Session.Hydrate"

	user, _, err := store.LoadUser(ctx, s.id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tokens, _, err := store.LoadTokens(ctx, s.id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.user = user
	s.tokens = tokens
	s.mu.Unlock()

	return nil
}

// SetUser заменяет пользователя сессии целиком (nil — аноним).
func (s *Session) SetUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// SetTokens заменяет пару токенов целиком (nil — токенов нет).
func (s *Session) SetTokens(tokens *models.TokenPair) {
	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()
}

// User возвращает текущего пользователя сессии (nil — аноним).
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user
}

// Tokens возвращает текущую пару токенов (nil — токенов нет).
func (s *Session) Tokens() *models.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tokens
}

// ForcedOut сообщает, была ли сессия принудительно завершена.
func (s *Session) ForcedOut() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.forcedOut
}

// Attach подписывает сессию на шину: TokenRefreshed заменяет пару токенов
// в памяти (silent refresh без перезагрузки страницы), ForcedLogout лишь
// информирует сессию. Парная Detach обязательна при teardown.
func (s *Session) Attach(bus *events.Bus) {
	unsubRefresh := bus.Subscribe(events.KindTokenRefreshed, func(e events.Event) {
		if e.SessionKey() != s.id {
			return
		}

		refreshed := e.(events.TokenRefreshed)
		tokens := refreshed.Tokens
		s.SetTokens(&tokens)
	})

	unsubLogout := bus.Subscribe(events.KindForcedLogout, func(e events.Event) {
		if e.SessionKey() != s.id {
			return
		}

		s.mu.Lock()
		s.forcedOut = true
		s.mu.Unlock()
	})

	s.mu.Lock()
	s.detach = append(s.detach, unsubRefresh, unsubLogout)
	s.mu.Unlock()
}

// Detach снимает все подписки сессии; повторный вызов безопасен.
func (s *Session) Detach() {
	s.mu.Lock()
	detach := s.detach
	s.detach = nil
	s.mu.Unlock()

	for _, unsub := range detach {
		unsub()
	}
}
