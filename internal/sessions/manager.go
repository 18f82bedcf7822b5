package sessions

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-content-portal/internal/events"
)

// clearTimeout ограничивает очистку хранилища при принудительном разлогине.
const clearTimeout = 5 * time.Second

// Manager владеет активными сессиями процесса: выдаёт гидратированные
// Session по идентификатору, кэширует их и реагирует на ForcedLogout
// очисткой персистентного хранилища и сбросом состояния.
//
// ForcedLogout обрабатывают два независимых подписчика: сама Session
// (информируется) и cleanup-подписчик менеджера (очищает хранилище,
// сбрасывает состояние, вытесняет сессию из кэша). Каждый владеет
// собственным сайд-эффектом.
type Manager struct {
	store Store
	bus   *events.Bus
	log   *slog.Logger

	mu      sync.Mutex
	active  map[string]*Session
	cleanup func()
}

// NewManager создаёт менеджер и вешает cleanup-подписку на ForcedLogout.
func NewManager(store Store, bus *events.Bus, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}

	m := &Manager{
		store:  store,
		bus:    bus,
		log:    log,
		active: make(map[string]*Session),
	}

	m.cleanup = bus.Subscribe(events.KindForcedLogout, func(e events.Event) {
		m.forceOut(e.SessionKey())
	})

	return m
}

// Session возвращает сессию по идентификатору: из кэша либо новую,
// гидратированную из хранилища и подписанную на шину.
//
// Пустая после гидратации сессия (ни пользователя, ни токенов) не
// кэшируется и не подписывается: аноним без cookie на каждый запрос
// приносит свежий идентификатор, и кэш с fan-out шины росли бы
// неограниченно. Такая сессия живёт один запрос; в кэш она попадает
// со следующего запроса после логина, когда гидратация находит записи.
func (m *Manager) Session(ctx context.Context, id string) (*Session, error) {
	const op = "sessions.Manager.Session"

	m.mu.Lock()
	if s, ok := m.active[id]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	s := NewSession(id)
	if err := s.Hydrate(ctx, m.store); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.User() == nil && s.Tokens() == nil {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Гонка с параллельной гидратацией: первая победившая остаётся.
	if cached, ok := m.active[id]; ok {
		return cached, nil
	}

	s.Attach(m.bus)
	m.active[id] = s

	return s, nil
}

// NewSessionID выдаёт идентификатор новой сессии.
func (m *Manager) NewSessionID() string {
	return uuid.NewString()
}

// Store возвращает персистентное хранилище: запись в него — явная
// обязанность вызывающих потоков (логин/регистрация/обновление/выход).
func (m *Manager) Store() Store { return m.store }

// Drop завершает сессию по инициативе пользователя: очищает хранилище
// и вытесняет сессию из кэша.
func (m *Manager) Drop(ctx context.Context, id string) error {
	const op = "sessions.Manager.Drop"

	if err := m.store.Clear(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.evict(id)

	return nil
}

// Close снимает cleanup-подписку и отписывает активные сессии.
func (m *Manager) Close() {
	if m.cleanup != nil {
		m.cleanup()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.active {
		s.Detach()
		delete(m.active, id)
	}
}

// forceOut — cleanup-сайд-эффект принудительного разлогина.
func (m *Manager) forceOut(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), clearTimeout)
	defer cancel()

	if err := m.store.Clear(ctx, id); err != nil {
		m.log.Error("session_store_clear_failed",
			slog.String("session_id", id),
			slog.String("err", err.Error()),
		)
	}

	m.mu.Lock()
	s, ok := m.active[id]
	m.mu.Unlock()

	if ok {
		s.SetUser(nil)
		s.SetTokens(nil)
	}

	m.evict(id)
}

func (m *Manager) evict(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.active[id]; ok {
		s.Detach()
		delete(m.active, id)
	}
}
