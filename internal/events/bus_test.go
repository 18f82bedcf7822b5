package events

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-content-portal/internal/models"
)

// Тесты шины:
//  - порядок доставки совпадает с порядком эмиссии;
//  - каждый подписчик получает событие ровно один раз;
//  - подписчики других типов событий не вызываются;
//  - после отписки обработчик не вызывается, повторная отписка безопасна.

func TestBus_DeliveryOrderMatchesEmissionOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	var got []string
	unsub := bus.Subscribe(KindTokenRefreshed, func(e Event) {
		got = append(got, e.(TokenRefreshed).Tokens.AccessToken)
	})
	defer unsub()

	bus.Emit(TokenRefreshed{SessionID: "s1", Tokens: models.TokenPair{AccessToken: "t1"}})
	bus.Emit(TokenRefreshed{SessionID: "s1", Tokens: models.TokenPair{AccessToken: "t2"}})
	bus.Emit(TokenRefreshed{SessionID: "s1", Tokens: models.TokenPair{AccessToken: "t3"}})

	require.Equal(t, []string{"t1", "t2", "t3"}, got)
}

func TestBus_AllSubscribersReceiveExactlyOnce(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	first, second := 0, 0
	defer bus.Subscribe(KindForcedLogout, func(Event) { first++ })()
	defer bus.Subscribe(KindForcedLogout, func(Event) { second++ })()

	bus.Emit(ForcedLogout{SessionID: "s1"})

	require.Equal(t, 1, first)
	require.Equal(t, 1, second)
}

func TestBus_KindIsolation(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	calls := 0
	defer bus.Subscribe(KindTokenRefreshed, func(Event) { calls++ })()

	bus.Emit(ForcedLogout{SessionID: "s1"})

	require.Zero(t, calls)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	calls := 0
	unsub := bus.Subscribe(KindForcedLogout, func(Event) { calls++ })

	bus.Emit(ForcedLogout{SessionID: "s1"})
	require.Equal(t, 1, calls)

	unsub()
	bus.Emit(ForcedLogout{SessionID: "s1"})
	require.Equal(t, 1, calls)

	// Повторная отписка — no-op.
	unsub()
	bus.Emit(ForcedLogout{SessionID: "s1"})
	require.Equal(t, 1, calls)
}

func TestBus_UnsubscribeOneKeepsOthers(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	first, second := 0, 0
	unsubFirst := bus.Subscribe(KindForcedLogout, func(Event) { first++ })
	defer bus.Subscribe(KindForcedLogout, func(Event) { second++ })()

	unsubFirst()
	bus.Emit(ForcedLogout{SessionID: "s1"})

	require.Zero(t, first)
	require.Equal(t, 1, second)
}
