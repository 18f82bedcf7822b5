// storage задаёт контракты работы портала с хранилищами данных:
// PostgreSQL (пользователи, refresh-токены, публикации), MongoDB
// (обращения контакт-формы) и MinIO/S3 (изображения).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-content-portal/internal/models"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (username/slug/refresh-token).
	ErrAlreadyExists = errors.New("already exists")
	// ErrExpired — сущность просрочена (refresh-token).
	ErrExpired = errors.New("expired")
	// ErrRevoked — сущность отозвана (refresh-token).
	ErrRevoked = errors.New("revoked")
	// ErrInvalidArgument — некорректные входные данные для стораджа
	// (битый идентификатор, чужой ключ объекта, недопустимый тип файла).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFoundObject — объект в S3 отсутствует (загрузка не состоялась).
	ErrNotFoundObject = errors.New("object not found")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя с хэшем пароля.
	SaveUser(ctx context.Context, user *models.User, passwordHash string) error
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UserByUsername находит пользователя по username; возвращает также
	// хэш пароля для проверки при логине.
	UserByUsername(ctx context.Context, username string) (*models.User, string, error)
	// UpdateUser обновляет профиль (name/username/sex/avatar) и возвращает
	// актуальную запись с серверными timestamp.
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
	// ListUsers возвращает страницу пользователей (для админки).
	ListUsers(ctx context.Context, opts models.ListOptions) (*models.Page[models.User], error)
	// UpdateActiveStatus включает/выключает учётную запись.
	UpdateActiveStatus(ctx context.Context, id uuid.UUID, isActive bool) (*models.User, error)
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет новый refresh-token.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokenByHash находит refresh-токен по его хэшу.
	RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// RevokeRefreshToken пытается отозвать refresh-токен.
	// Возвращает false, если токен уже был отозван.
	RevokeRefreshToken(ctx context.Context, hash string) (bool, error)
	// DeleteExpiredTokens удаляет все просроченные токены.
	DeleteExpiredTokens(ctx context.Context, now time.Time) error
}

// PostStorage выполняет операции над публикациями.
type PostStorage interface {
	// SavePost создаёт публикацию.
	SavePost(ctx context.Context, post *models.Post) error
	// PostBySlug находит публикацию по slug.
	PostBySlug(ctx context.Context, slug string) (*models.Post, error)
	// PostByID находит публикацию по ID.
	PostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// ListPosts возвращает страницу публикаций с фильтрами.
	ListPosts(ctx context.Context, opts models.ListOptions, filter models.PostFilter) (*models.Page[models.Post], error)
	// UpdatePost обновляет title/image/content/category и пересобранный slug.
	UpdatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	// DeletePost удаляет публикацию.
	DeletePost(ctx context.Context, id uuid.UUID) error
	// UpdateApproveStatus выставляет флаг модерации.
	UpdateApproveStatus(ctx context.Context, id uuid.UUID, approved bool) (*models.Post, error)
}

// Storage задаёт контракт работы с реляционной БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	PostStorage
	Close()
}

// ContactStorage выполняет операции над обращениями контакт-формы.
type ContactStorage interface {
	// SaveContact создаёт обращение и возвращает его с серверными полями.
	SaveContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	// ContactByID находит обращение по идентификатору.
	ContactByID(ctx context.Context, id string) (*models.Contact, error)
	// ListContacts возвращает страницу обращений с фильтром по is_read.
	ListContacts(ctx context.Context, opts models.ListOptions, filter models.ContactFilter) (*models.Page[models.Contact], error)
	// UpdateIsReadStatus выставляет статус прочтения.
	UpdateIsReadStatus(ctx context.Context, id string, isRead bool) (*models.Contact, error)
}

// UploadInfo — данные presigned-загрузки изображения.
type UploadInfo struct {
	UploadURL string
	Key       string
	Expires   time.Duration
	// RequiredHeader — заголовки, которые клиент обязан передать при PUT.
	RequiredHeader map[string]string
}

// MediaStorage выполняет операции над объектным хранилищем изображений.
type MediaStorage interface {
	// ImageUploadURL генерирует presigned PUT URL для загрузки изображения.
	ImageUploadURL(ctx context.Context, userID uuid.UUID, contentType string, contentLength int64) (*UploadInfo, error)
	// CheckImageUpload подтверждает загрузку по ключу и возвращает публичный URL.
	CheckImageUpload(ctx context.Context, userID uuid.UUID, key string) (string, error)
}
