package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
	"github.com/pribylovaa/go-content-portal/pkg/log"
)

// CreateContactInput — данные обращения контакт-формы.
// UserID — uuid.Nil для анонимного посетителя.
type CreateContactInput struct {
	UserID  uuid.UUID
	Name    string
	Phone   string
	Email   string
	Content string
}

// CreateContact сохраняет обращение контакт-формы.
// Доступно и анонимным посетителям — страница контактов открыта всем.
func (s *Service) CreateContact(ctx context.Context, input CreateContactInput) (*models.Contact, error) {
	const op = "service/contacts/CreateContact"

	lg := log.From(ctx).With("op", op)

	name := strings.TrimSpace(input.Name)
	content := strings.TrimSpace(input.Content)
	if name == "" || content == "" {
		lg.Warn("invalid argument: empty name or content")

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	email := strings.TrimSpace(input.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			lg.Warn("invalid argument: bad email")

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
	}

	contact := &models.Contact{
		UserID:  input.UserID,
		Name:    name,
		Phone:   strings.TrimSpace(input.Phone),
		Email:   strings.ToLower(email),
		Content: content,
	}

	result, err := s.contacts.SaveContact(ctx, contact)
	if err != nil {
		lg.Error("storage error on SaveContact", "err", err)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// ContactByID возвращает обращение; доступно только администратору.
func (s *Service) ContactByID(ctx context.Context, actor *models.User, id string) (*models.Contact, error) {
	const op = "service/contacts/ContactByID"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	contact, err := s.contacts.ContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return contact, nil
}

// ListContacts возвращает страницу обращений; доступно только администратору.
func (s *Service) ListContacts(ctx context.Context, actor *models.User, opts models.ListOptions, filter models.ContactFilter) (*models.Page[models.Contact], error) {
	const op = "service/contacts/ListContacts"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	opts = s.normalizeListOptions(opts)

	page, err := s.contacts.ListContacts(ctx, opts, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

// MarkContactRead выставляет статус прочтения; доступно только администратору.
func (s *Service) MarkContactRead(ctx context.Context, actor *models.User, id string, isRead bool) (*models.Contact, error) {
	const op = "service/contacts/MarkContactRead"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	contact, err := s.contacts.UpdateIsReadStatus(ctx, id, isRead)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return contact, nil
}
