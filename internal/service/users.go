package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
	"github.com/pribylovaa/go-content-portal/pkg/log"
)

// UpdateProfileInput — частичное обновление профиля; nil-поля не трогаются.
type UpdateProfileInput struct {
	Name     *string
	Username *string
	Sex      *models.Sex
	// AvatarKey — ключ загруженного в объектное хранилище изображения;
	// перед сохранением загрузка подтверждается.
	AvatarKey *string
}

// ImageUploadInput — параметры запроса presigned-загрузки изображения.
type ImageUploadInput struct {
	ContentType   string
	ContentLength int64
}

// UserByID возвращает пользователя по идентификатору.
func (s *Service) UserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "service/users/UserByID"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UserByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return user, nil
}

// UpdateProfile выполняет частичное обновление профиля пользователя.
//
// Правила:
//   - обновляются только поля, для которых переданы указатели;
//   - username проходит ту же политику, что и при регистрации;
//   - avatar принимает только подтверждённые загрузки из объектного хранилища.
func (s *Service) UpdateProfile(ctx context.Context, actor *models.User, input UpdateProfileInput) (*models.User, error) {
	const op = "service/users/UpdateProfile"

	if actor == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	lg := log.From(ctx).With("op", op, "user_id", actor.ID.String())

	updated := *actor

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			lg.Warn("invalid argument: empty name")

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		updated.Name = name
	}

	if input.Username != nil {
		normUsername, err := validateUsername(*input.Username)
		if err != nil {
			lg.Warn("invalid argument: bad username")

			return nil, fmt.Errorf("%s: %w", op, err)
		}

		updated.Username = normUsername
	}

	if input.Sex != nil {
		if *input.Sex < models.SexUnspecified || *input.Sex > models.SexFemale {
			lg.Warn("invalid argument: sex out of range", "sex", *input.Sex)

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		updated.Sex = *input.Sex
	}

	if input.AvatarKey != nil {
		publicURL, err := s.media.CheckImageUpload(ctx, actor.ID, strings.TrimSpace(*input.AvatarKey))
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFoundObject):
				lg.Warn("avatar upload not found")

				return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
			case errors.Is(err, storage.ErrInvalidArgument):
				lg.Warn("avatar upload rejected")

				return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
			default:
				lg.Error("media error on CheckImageUpload", "err", err)

				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}

		updated.Avatar = publicURL
	}

	result, err := s.storage.UpdateUser(ctx, &updated)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			lg.Warn("username already taken")

			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateUser", "err", err)

			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return result, nil
}

// ListUsers возвращает страницу пользователей; доступно только администратору.
func (s *Service) ListUsers(ctx context.Context, actor *models.User, opts models.ListOptions) (*models.Page[models.User], error) {
	const op = "service/users/ListUsers"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	opts = s.normalizeListOptions(opts)

	page, err := s.storage.ListUsers(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

// SetUserActive включает/выключает учётную запись; доступно только администратору.
//
// Живые сессии заблокированного пользователя не завершаются немедленно:
// флаг is_active проверяется на login и refresh, поэтому сессия
// принудительно закроется на ближайшем refresh (ErrUserInactive —
// отвергнутый токен). Для мгновенного разлогина нужен поиск сессий
// по user_id, которого у хранилища сессий пока нет.
func (s *Service) SetUserActive(ctx context.Context, actor *models.User, userID uuid.UUID, active bool) (*models.User, error) {
	const op = "service/users/SetUserActive"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.UpdateActiveStatus(ctx, userID, active)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateActiveStatus", "err", err)

			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return user, nil
}

// ImageUploadURL выдаёт presigned PUT URL для загрузки изображения
// (аватар или иллюстрация публикации).
func (s *Service) ImageUploadURL(ctx context.Context, actor *models.User, input ImageUploadInput) (*storage.UploadInfo, error) {
	const op = "service/users/ImageUploadURL"

	if actor == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	info, err := s.media.ImageUploadURL(ctx, actor.ID, input.ContentType, input.ContentLength)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidArgument) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return info, nil
}
