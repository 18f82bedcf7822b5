package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

// RegisterUser регистрирует нового пользователя и сразу выпускает пару токенов.
func (s *Service) RegisterUser(ctx context.Context, name, username, password string, sex models.Sex) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.RegisterUser"

	normUsername, err := validateUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := validatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	_, _, err = s.storage.UserByUsername(ctx, normUsername)
	if err == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        uuid.New(),
		Name:      name,
		Username:  normUsername,
		Sex:       sex,
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveUser(ctx, user, hashedPassword); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokenPair(ctx, user, "")
}

// LoginUser выполняет вход по username+пароль.
func (s *Service) LoginUser(ctx context.Context, username, password string) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.LoginUser"

	normUsername, err := validateUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, passwordHash, err := s.storage.UserByUsername(ctx, normUsername)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(passwordHash, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrUserInactive)
	}

	return s.issueTokenPair(ctx, user, "")
}

// RefreshToken обновляет пару токенов по refresh-токену (ротация).
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.RefreshToken"

	token, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, token.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !user.IsActive {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrUserInactive)
	}

	return s.issueTokenPair(ctx, user, hashRefreshToken(refreshToken))
}

// RevokeToken отзывает refresh-токен (logout).
func (s *Service) RevokeToken(ctx context.Context, refreshToken string) error {
	const op = "service.auth.RevokeToken"

	revoked, err := s.storage.RevokeRefreshToken(ctx, hashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if !revoked {
		return fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	return nil
}

// ValidateToken проверяет access-токен и возвращает данные из claims.
func (s *Service) ValidateToken(ctx context.Context, accessToken string) (uuid.UUID, string, models.Role, error) {
	const op = "service.auth.ValidateToken"

	uid, username, role, err := s.validateAccessToken(accessToken)
	if err != nil {
		return uuid.Nil, "", models.RoleUser, fmt.Errorf("%s: %w", op, err)
	}

	return uid, username, role, nil
}

// hashRefreshToken возвращает sha256-хэш токена в base64url; в БД хранится только хэш.
func hashRefreshToken(plain string) string {
	hashBytes := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(hashBytes[:])
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateUsername нормализует username и проверяет формат.
// Политика: 3..32 символа, латинские буквы/цифры/подчёркивание/точка,
// первый символ — буква.
func validateUsername(raw string) (string, error) {
	const op = "service.auth.validateUsername"

	username := strings.ToLower(strings.TrimSpace(raw))
	if n := len(username); n < 3 || n > 32 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	for i, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9', r == '_', r == '.':
			if i == 0 {
				return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
			}
		default:
			return "", fmt.Errorf("%s: %w", op, ErrInvalidUsername)
		}
	}

	return username, nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Если oldRefreshHash != "", пытается атомарно отозвать старый refresh-токен.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User, oldRefreshHash string) (*models.TokenPair, *models.User, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(ctx, user, now)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if oldRefreshHash != "" {
		revoked, err := s.storage.RevokeRefreshToken(ctx, oldRefreshHash)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		if !revoked {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}
	}

	plain, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    plain,
		AccessExpiresAt: now.Add(s.cfg.Auth.AccessTokenTTL),
	}, user, nil
}
