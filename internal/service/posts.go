package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

// CreatePostInput — данные новой публикации.
type CreatePostInput struct {
	Title    string
	Image    string
	Content  string
	Category models.PostCategory
}

// UpdatePostInput — частичное обновление публикации; nil-поля не трогаются.
type UpdatePostInput struct {
	Title    *string
	Image    *string
	Content  *string
	Category *models.PostCategory
}

// CreatePost создаёт публикацию от имени пользователя.
// Новая публикация попадает на модерацию (approved=false);
// slug собирается из заголовка, при конфликте добавляется случайный суффикс.
func (s *Service) CreatePost(ctx context.Context, author *models.User, input CreatePostInput) (*models.Post, error) {
	const op = "service.posts.CreatePost"

	if author == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:        uuid.New(),
		UserID:    author.ID,
		Title:     title,
		Image:     strings.TrimSpace(input.Image),
		Content:   content,
		Author:    author.Name,
		Category:  input.Category,
		Slug:      slugify(title),
		Approved:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SavePost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Конфликт slug — добавляем суффикс и пробуем один раз ещё.
			post.Slug = post.Slug + "-" + uuid.NewString()[:8]
			if err := s.storage.SavePost(ctx, post); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			return post, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// PostBySlug возвращает публикацию по slug.
// Непрошедшие модерацию публикации видны только автору и администратору.
func (s *Service) PostBySlug(ctx context.Context, viewer *models.User, slug string) (*models.Post, error) {
	const op = "service.posts.PostBySlug"

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	post, err := s.storage.PostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !post.Approved && !canManagePost(viewer, post) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return post, nil
}

// ListPosts возвращает страницу публикаций с фильтрами.
// Не-админ видит только одобренные публикации; исключение — собственные
// (filter.UserID == viewer.ID), которые доступны в любом статусе.
func (s *Service) ListPosts(ctx context.Context, viewer *models.User, opts models.ListOptions, filter models.PostFilter) (*models.Page[models.Post], error) {
	const op = "service.posts.ListPosts"

	opts = s.normalizeListOptions(opts)

	if !viewer.IsAdmin() {
		ownOnly := viewer != nil && filter.UserID != uuid.Nil && filter.UserID == viewer.ID
		if !ownOnly {
			approved := true
			filter.Approved = &approved
		}
	}

	page, err := s.storage.ListPosts(ctx, opts, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

// UpdatePost обновляет публикацию; доступно автору и администратору.
// Правка автором снимает публикацию с публикации до повторной модерации.
func (s *Service) UpdatePost(ctx context.Context, actor *models.User, postID uuid.UUID, input UpdatePostInput) (*models.Post, error) {
	const op = "service.posts.UpdatePost"

	post, err := s.storage.PostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !canManagePost(actor, post) {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		post.Title = title
		post.Slug = slugify(title)
	}

	if input.Image != nil {
		post.Image = strings.TrimSpace(*input.Image)
	}

	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		post.Content = content
	}

	if input.Category != nil {
		post.Category = *input.Category
	}

	updated, err := s.storage.UpdatePost(ctx, post)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !actor.IsAdmin() && updated.Approved {
		updated, err = s.storage.UpdateApproveStatus(ctx, updated.ID, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return updated, nil
}

// DeletePost удаляет публикацию; доступно автору и администратору.
func (s *Service) DeletePost(ctx context.Context, actor *models.User, postID uuid.UUID) error {
	const op = "service.posts.DeletePost"

	post, err := s.storage.PostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if !canManagePost(actor, post) {
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if err := s.storage.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ApprovePost выставляет статус модерации; доступно только администратору.
func (s *Service) ApprovePost(ctx context.Context, actor *models.User, postID uuid.UUID, approved bool) (*models.Post, error) {
	const op = "service.posts.ApprovePost"

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	post, err := s.storage.UpdateApproveStatus(ctx, postID, approved)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// canManagePost сообщает, может ли пользователь управлять публикацией.
func canManagePost(actor *models.User, post *models.Post) bool {
	if actor == nil {
		return false
	}

	return actor.IsAdmin() || actor.ID == post.UserID
}

// normalizeListOptions приводит параметры страницы к допустимым значениям.
func (s *Service) normalizeListOptions(opts models.ListOptions) models.ListOptions {
	if opts.Page <= 0 {
		opts.Page = 1
	}

	if opts.Limit <= 0 {
		opts.Limit = s.cfg.Limits.Default
	}

	if opts.Limit > s.cfg.Limits.Max {
		opts.Limit = s.cfg.Limits.Max
	}

	return opts
}

// slugify собирает URL-безопасный slug из заголовка:
// строчные латинские буквы и цифры, остальное схлопывается в дефисы.
func slugify(title string) string {
	var b strings.Builder
	prevDash := true

	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			// Нелатинские буквы и цифры оставляем как есть (URL-кодируются транспортом).
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = uuid.NewString()[:8]
	}

	return slug
}
