package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

// Файл интеграционных тестов для пакета postgres (репозиторий user.go):
// - поднимает реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяет миграции из ./migrations;
// - проверяет happy-path, уникальность username и сценарии отсутствия записей.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	root := repoRootFromThisFile()
	path := filepath.Join(root, "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает временный экземпляр PostgreSQL через testcontainers-go,
// применяет миграции и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// применяем миграции.
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	for _, name := range []string{
		"1_init_users.up.sql",
		"2_init_refresh_tokens.up.sql",
		"3_init_posts.up.sql",
	} {
		_, err = pool.Exec(ctx, readMigration(t, name))
		require.NoError(t, err, "apply migration %s", name)
	}

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// mustSaveUser — вставляет пользователя с заданным username и возвращает его.
func mustSaveUser(t *testing.T, st *Storage, username string) *models.User {
	t.Helper()

	now := time.Now().UTC()
	u := &models.User{
		ID:        uuid.New(),
		Name:      "Test User",
		Username:  username,
		Sex:       models.SexUnspecified,
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	require.NoError(t, st.SaveUser(context.Background(), u, "hash"))
	return u
}

// TestIntegration_SaveUser_And_UserByUsername_And_ByID_OK — happy-path:
// сохранение пользователя и последующий поиск по username и ID.
func TestIntegration_SaveUser_And_UserByUsername_And_ByID_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "petrov")

	got, hash, err := st.UserByUsername(context.Background(), "petrov")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "hash", hash)
	require.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Second)

	byID, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, byID.Username)
	require.True(t, byID.IsActive)
}

// TestIntegration_SaveUser_UniqueUsername_Violation — конфликт уникальности username.
func TestIntegration_SaveUser_UniqueUsername_Violation(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	mustSaveUser(t, st, "duplicate")

	now := time.Now().UTC()
	second := &models.User{
		ID:        uuid.New(),
		Name:      "Another",
		Username:  "duplicate",
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := st.SaveUser(context.Background(), second, "hash2")
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_UserByID_NotFound — поиск несуществующего пользователя.
func TestIntegration_UserByID_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, _, err = st.UserByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_UpdateUser_OK — частичное обновление профиля и конфликт username.
func TestIntegration_UpdateUser_OK_And_UsernameConflict(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "original")
	mustSaveUser(t, st, "taken")

	u.Name = "Renamed"
	u.Username = "renamed"
	u.Sex = models.SexMale
	u.Avatar = "https://cdn.example.com/a.png"

	updated, err := st.UpdateUser(context.Background(), u)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "renamed", updated.Username)
	require.Equal(t, models.SexMale, updated.Sex)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	u.Username = "taken"
	_, err = st.UpdateUser(context.Background(), u)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_ListUsers_Pagination — постраничная выдача, новые первыми.
func TestIntegration_ListUsers_Pagination(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		mustSaveUser(t, st, fmt.Sprintf("user%d", i))
	}

	page, err := st.ListUsers(context.Background(), models.ListOptions{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.EqualValues(t, 5, page.Total)
	require.EqualValues(t, 3, page.TotalPages)

	last, err := st.ListUsers(context.Background(), models.ListOptions{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
}

// TestIntegration_UpdateActiveStatus — блокировка и разблокировка учётной записи.
func TestIntegration_UpdateActiveStatus(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := mustSaveUser(t, st, "blockme")

	blocked, err := st.UpdateActiveStatus(context.Background(), u.ID, false)
	require.NoError(t, err)
	require.False(t, blocked.IsActive)

	restored, err := st.UpdateActiveStatus(context.Background(), u.ID, true)
	require.NoError(t, err)
	require.True(t, restored.IsActive)

	_, err = st.UpdateActiveStatus(context.Background(), uuid.New(), false)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
