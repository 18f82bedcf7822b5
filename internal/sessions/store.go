// sessions содержит сессионный слой портала: персистентное хранилище
// сессии (Redis), in-memory состояние текущей сессии и менеджер,
// связывающий их с шиной событий.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/go-content-portal/internal/models"
)

// Store — персистентное хранилище сессии: два независимых ключа на сессию —
// сериализованный пользователь и сериализованная пара токенов. Каждый ключ
// может отсутствовать независимо; версионирования схемы нет. Чтение
// отсутствующей записи — нормальный, не ошибочный путь.
type Store interface {
	// SaveUser сохраняет профиль пользователя сессии.
	SaveUser(ctx context.Context, sessionID string, user *models.User) error
	// LoadUser возвращает профиль и признак его наличия.
	LoadUser(ctx context.Context, sessionID string) (*models.User, bool, error)
	// SaveTokens сохраняет пару токенов сессии.
	SaveTokens(ctx context.Context, sessionID string, tokens *models.TokenPair) error
	// LoadTokens возвращает пару токенов и признак её наличия.
	LoadTokens(ctx context.Context, sessionID string) (*models.TokenPair, bool, error)
	// Clear удаляет обе записи сессии.
	Clear(ctx context.Context, sessionID string) error
	// Close закрывает клиент хранилища.
	Close() error
}

type redisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore создаёт хранилище сессий поверх Redis из URL
// (например, redis://:pass@host:6379/0). Если prefix пустой —
// используется "portal:sess:". TTL задаёт срок жизни записей и обычно
// равен сроку жизни refresh-токена.
func NewRedisStore(redisURL, prefix string, ttl time.Duration) (Store, error) {
	if prefix == "" {
		prefix = "portal:sess:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisStore{rdb: rdb, prefix: prefix, ttl: ttl}, nil
}

func (s *redisStore) userKey(id string) string   { return s.prefix + id + ":user" }
func (s *redisStore) tokensKey(id string) string { return s.prefix + id + ":tokens" }

func (s *redisStore) SaveUser(ctx context.Context, sessionID string, user *models.User) error {
	const op = "sessions.redisStore.SaveUser"

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Set(ctx, s.userKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *redisStore) LoadUser(ctx context.Context, sessionID string) (*models.User, bool, error) {
	const op = "sessions.redisStore.LoadUser"

	raw, err := s.rdb.Get(ctx, s.userKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return &user, true, nil
}

func (s *redisStore) SaveTokens(ctx context.Context, sessionID string, tokens *models.TokenPair) error {
	const op = "sessions.redisStore.SaveTokens"

	raw, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Set(ctx, s.tokensKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *redisStore) LoadTokens(ctx context.Context, sessionID string) (*models.TokenPair, bool, error) {
	const op = "sessions.redisStore.LoadTokens"

	raw, err := s.rdb.Get(ctx, s.tokensKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var tokens models.TokenPair
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return &tokens, true, nil
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	const op = "sessions.redisStore.Clear"

	if err := s.rdb.Del(ctx, s.userKey(sessionID), s.tokensKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *redisStore) Close() error {
	return s.rdb.Close()
}
