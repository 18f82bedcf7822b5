// service содержит бизнес-логику портала:
// регистрацию/аутентификацию пользователей, выпуск/проверку токенов,
// управление публикациями, профилями и обращениями контакт-формы.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилища потокобезопасны.
//   - Ошибки возвращаются сентинелами и далее маппятся транспортом на
//     HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-content-portal/internal/config"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи
	// или отсутствует в хранилище. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — токен отозван (logout/rotation/compromise) и недействителен
	// независимо от срока. Транспорт: HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUsernameTaken — username уже занят другим пользователем.
	// Транспорт: HTTP 409.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrRefreshTokenCollision — исчерпаны попытки сгенерировать уникальный refresh-токен
	// (редкий случай коллизий при сохранении хэша в БД после нескольких ретраев).
	// Транспорт: HTTP 500.
	ErrRefreshTokenCollision = errors.New("refresh token collision")

	// ErrInvalidUsername — username не проходит политику валидации.
	// Транспорт: HTTP 400.
	ErrInvalidUsername = errors.New("invalid username format")

	// ErrWeakPassword — пароль не удовлетворяет политикам сложности.
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrEmptyPassword — пароль пустой. Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrInvalidArgument — входные данные некорректны. Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound — запрошенная сущность отсутствует. Транспорт: HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — сущность с таким уникальным ключом уже существует
	// (например, slug публикации). Транспорт: HTTP 409.
	ErrAlreadyExists = errors.New("already exists")

	// ErrPermissionDenied — операция запрещена для текущего пользователя
	// (чужая публикация, не-админ). Транспорт: HTTP 403.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUserInactive — учётная запись деактивирована администратором.
	// Транспорт: HTTP 403.
	ErrUserInactive = errors.New("user is inactive")
)

// Service описывает бизнес-логику портала.
type Service struct {
	storage  storage.Storage
	contacts storage.ContactStorage
	media    storage.MediaStorage
	cfg      *config.Config
}

// New создаёт новый экземпляр Service.
func New(st storage.Storage, contacts storage.ContactStorage, media storage.MediaStorage, cfg *config.Config) *Service {
	return &Service{
		storage:  st,
		contacts: contacts,
		media:    media,
		cfg:      cfg,
	}
}
