package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-content-portal/internal/events"
	"github.com/pribylovaa/go-content-portal/internal/models"
)

// Тесты сессионного слоя поверх miniredis:
//  - две независимые записи (user/tokens), каждая может отсутствовать отдельно;
//  - гидратация отсутствующей сессии — нормальный путь без ошибок;
//  - silent refresh через шину: последняя эмиссия побеждает;
//  - принудительный разлогин: оба подписчика отрабатывают — хранилище
//    очищено, пользователь в памяти отсутствует;
//  - Detach останавливает доставку событий сессии.

func newStore(t *testing.T) Store {
	t.Helper()

	mr := miniredis.RunT(t)
	st, err := NewRedisStore("redis://"+mr.Addr(), "", time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func testUser(role models.Role) *models.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.User{
		ID:        uuid.New(),
		Name:      "Alice",
		Username:  "alice",
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStore_IndependentRecords(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	ctx := context.Background()
	sid := uuid.NewString()

	// Обе записи отсутствуют.
	_, ok, err := st.LoadUser(ctx, sid)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = st.LoadTokens(ctx, sid)
	require.NoError(t, err)
	require.False(t, ok)

	// Сохранили только токены: user по-прежнему отсутствует.
	require.NoError(t, st.SaveTokens(ctx, sid, &models.TokenPair{AccessToken: "a", RefreshToken: "r"}))

	_, ok, err = st.LoadUser(ctx, sid)
	require.NoError(t, err)
	require.False(t, ok)

	tokens, ok, err := st.LoadTokens(ctx, sid)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", tokens.AccessToken)

	// Сохранили пользователя: обе записи на месте.
	user := testUser(models.RoleUser)
	require.NoError(t, st.SaveUser(ctx, sid, user))

	got, ok, err := st.LoadUser(ctx, sid)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, user.Username, got.Username)

	// Clear удаляет обе.
	require.NoError(t, st.Clear(ctx, sid))

	_, ok, err = st.LoadUser(ctx, sid)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = st.LoadTokens(ctx, sid)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSession_HydrateAbsentIsNotAnError(t *testing.T) {
	t.Parallel()

	st := newStore(t)

	s := NewSession(uuid.NewString())
	require.NoError(t, s.Hydrate(context.Background(), st))
	require.Nil(t, s.User())
	require.Nil(t, s.Tokens())
}

func TestSession_HydrateLoadsBothRecords(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	ctx := context.Background()
	sid := uuid.NewString()

	user := testUser(models.RoleAdmin)
	require.NoError(t, st.SaveUser(ctx, sid, user))
	require.NoError(t, st.SaveTokens(ctx, sid, &models.TokenPair{AccessToken: "a", RefreshToken: "r"}))

	s := NewSession(sid)
	require.NoError(t, s.Hydrate(ctx, st))

	require.NotNil(t, s.User())
	require.True(t, s.User().IsAdmin())
	require.NotNil(t, s.Tokens())
	require.Equal(t, "r", s.Tokens().RefreshToken)
}

// Эмиссия TokenRefreshed(T1), затем TokenRefreshed(T2) оставляет в памяти T2.
func TestSession_TokenRefreshedLastWins(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	s := NewSession("sid-1")
	s.Attach(bus)
	defer s.Detach()

	bus.Emit(events.TokenRefreshed{SessionID: "sid-1", Tokens: models.TokenPair{AccessToken: "t1"}})
	bus.Emit(events.TokenRefreshed{SessionID: "sid-1", Tokens: models.TokenPair{AccessToken: "t2"}})

	require.NotNil(t, s.Tokens())
	require.Equal(t, "t2", s.Tokens().AccessToken)
}

// События чужой сессии не трогают состояние.
func TestSession_IgnoresForeignSessionEvents(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	s := NewSession("sid-1")
	s.Attach(bus)
	defer s.Detach()

	bus.Emit(events.TokenRefreshed{SessionID: "sid-2", Tokens: models.TokenPair{AccessToken: "x"}})
	require.Nil(t, s.Tokens())

	bus.Emit(events.ForcedLogout{SessionID: "sid-2"})
	require.False(t, s.ForcedOut())
}

func TestSession_DetachStopsDelivery(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	s := NewSession("sid-1")
	s.Attach(bus)

	s.Detach()
	bus.Emit(events.TokenRefreshed{SessionID: "sid-1", Tokens: models.TokenPair{AccessToken: "late"}})
	require.Nil(t, s.Tokens())

	// Повторный Detach безопасен.
	s.Detach()
}

// ForcedLogout при вошедшем пользователе: после отработки обоих подписчиков
// персистентное хранилище очищено, пользователь в памяти отсутствует.
func TestManager_ForcedLogoutClearsStoreAndSession(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	bus := events.NewBus()
	mgr := NewManager(st, bus, nil)
	defer mgr.Close()

	ctx := context.Background()
	sid := uuid.NewString()

	user := testUser(models.RoleUser)
	require.NoError(t, st.SaveUser(ctx, sid, user))
	require.NoError(t, st.SaveTokens(ctx, sid, &models.TokenPair{AccessToken: "a", RefreshToken: "r"}))

	s, err := mgr.Session(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, s.User())

	bus.Emit(events.ForcedLogout{SessionID: sid})

	require.Nil(t, s.User())
	require.Nil(t, s.Tokens())
	require.True(t, s.ForcedOut())

	_, ok, err := st.LoadUser(ctx, sid)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = st.LoadTokens(ctx, sid)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestManager_SessionCachedBetweenCalls(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	bus := events.NewBus()
	mgr := NewManager(st, bus, nil)
	defer mgr.Close()

	ctx := context.Background()
	sid := uuid.NewString()

	require.NoError(t, st.SaveUser(ctx, sid, testUser(models.RoleUser)))

	first, err := mgr.Session(ctx, sid)
	require.NoError(t, err)

	second, err := mgr.Session(ctx, sid)
	require.NoError(t, err)
	require.Same(t, first, second)
}

// Пустые сессии не оседают в кэше: поток анонимных запросов со свежими
// идентификаторами (боты, curl без cookie) не раздувает память процесса
// и подписки шины.
func TestManager_AnonymousSessionsNotCached(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	bus := events.NewBus()
	mgr := NewManager(st, bus, nil)
	defer mgr.Close()

	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		s, err := mgr.Session(ctx, uuid.NewString())
		require.NoError(t, err)
		require.Nil(t, s.User())
	}

	mgr.mu.Lock()
	cached := len(mgr.active)
	mgr.mu.Unlock()
	require.Zero(t, cached)

	// Сессия с состоянием кэшируется по-прежнему.
	sid := uuid.NewString()
	require.NoError(t, st.SaveTokens(ctx, sid, &models.TokenPair{AccessToken: "a", RefreshToken: "r"}))

	_, err := mgr.Session(ctx, sid)
	require.NoError(t, err)

	mgr.mu.Lock()
	cached = len(mgr.active)
	mgr.mu.Unlock()
	require.Equal(t, 1, cached)
}

func TestManager_DropClearsStoreAndEvicts(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	bus := events.NewBus()
	mgr := NewManager(st, bus, nil)
	defer mgr.Close()

	ctx := context.Background()
	sid := uuid.NewString()

	require.NoError(t, st.SaveUser(ctx, sid, testUser(models.RoleUser)))

	s, err := mgr.Session(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, s.User())

	require.NoError(t, mgr.Drop(ctx, sid))

	_, ok, err := st.LoadUser(ctx, sid)
	require.NoError(t, err)
	require.False(t, ok)

	// Новая выдача по тому же id — гидратация с чистого листа.
	fresh, err := mgr.Session(ctx, sid)
	require.NoError(t, err)
	require.NotSame(t, s, fresh)
	require.Nil(t, fresh.User())
}
