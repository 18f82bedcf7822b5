// events реализует внутрипроцессную шину сигналов сессионного слоя.
//
// Шина связывает сетевой слой (silent refresh, принудительный разлогин)
// с подписчиками в сессионном слое без прямых ссылок между ними.
//
// Контракт доставки:
//   - Emit синхронный: все подписчики вызываются до возврата из Emit,
//     порядок доставки совпадает с порядком эмиссии;
//   - каждый подписчик получает событие ровно один раз за эмиссию;
//   - нет персистентности, ретраев и доставки между процессами;
//   - Subscribe возвращает функцию отписки; вызывать её при teardown
//     владельца обязательно, повторный вызов безопасен.
package events

import (
	"sync"

	"github.com/pribylovaa/go-content-portal/internal/models"
)

// Kind — тип события; закрытый enum.
type Kind int8

const (
	// KindTokenRefreshed — сетевой слой молча обновил пару токенов.
	KindTokenRefreshed Kind = iota
	// KindForcedLogout — бэкенд отверг токен, сессия принудительно завершена.
	KindForcedLogout
)

// Event — размеченный вариант с фиксированной формой полезной нагрузки.
type Event interface {
	Kind() Kind
	// SessionKey — идентификатор сессии, к которой относится событие.
	SessionKey() string
}

// TokenRefreshed несёт новую пару токенов после silent refresh.
type TokenRefreshed struct {
	SessionID string
	Tokens    models.TokenPair
}

func (TokenRefreshed) Kind() Kind           { return KindTokenRefreshed }
func (e TokenRefreshed) SessionKey() string { return e.SessionID }

// ForcedLogout не несёт полезной нагрузки, кроме идентификатора сессии.
type ForcedLogout struct {
	SessionID string
}

func (ForcedLogout) Kind() Kind           { return KindForcedLogout }
func (e ForcedLogout) SessionKey() string { return e.SessionID }

// Handler — обработчик события.
type Handler func(Event)

type subscriber struct {
	id uint64
	fn Handler
}

// Bus — процессная шина публикации/подписки.
// Нулевое значение непригодно, используйте NewBus.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Kind][]subscriber
}

// NewBus создаёт пустую шину.
func NewBus() *Bus {
	return &Bus{subs: make(map[Kind][]subscriber)}
}

// Subscribe регистрирует обработчик событий типа k и возвращает функцию отписки.
// Отписка обязательна при teardown владельца: после её вызова обработчик
// гарантированно не будет вызван последующими Emit.
func (b *Bus) Subscribe(k Kind, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[k] = append(b.subs[k], subscriber{id: id, fn: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			list := b.subs[k]
			for i, s := range list {
				if s.id == id {
					b.subs[k] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit доставляет событие всем текущим подписчикам его типа.
// Обработчики вызываются вне блокировки: подписка/отписка из обработчика
// не приводит к дедлоку, но не влияет на текущую рассылку.
func (b *Bus) Emit(e Event) {
	b.mu.Lock()
	list := b.subs[e.Kind()]
	snapshot := make([]subscriber, len(list))
	copy(snapshot, list)
	b.mu.Unlock()

	for _, s := range snapshot {
		s.fn(e)
	}
}
