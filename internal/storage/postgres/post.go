package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

const postColumns = `id, user_id, title, image, content, author, category, slug, approved, created_at, updated_at`

func scanPost(row pgx.Row, post *models.Post) error {
	return row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Image,
		&post.Content,
		&post.Author,
		&post.Category,
		&post.Slug,
		&post.Approved,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
}

// SavePost создаёт публикацию.
func (s *Storage) SavePost(ctx context.Context, post *models.Post) error {
	const op = "storage.postgres.SavePost"

	query := `
		INSERT INTO posts(id, user_id, title, image, content, author, category, slug, approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Title,
		post.Image,
		post.Content,
		post.Author,
		post.Category,
		post.Slug,
		post.Approved,
		post.CreatedAt,
		post.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// PostBySlug находит публикацию по slug.
func (s *Storage) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	const op = "storage.postgres.PostBySlug"

	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`

	var post models.Post
	if err := scanPost(s.db.QueryRow(ctx, query, slug), &post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &post, nil
}

// PostByID находит публикацию по ID.
func (s *Storage) PostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	const op = "storage.postgres.PostByID"

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var post models.Post
	if err := scanPost(s.db.QueryRow(ctx, query, id), &post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &post, nil
}

// ListPosts возвращает страницу публикаций с фильтрами; новые — первыми.
// Фильтры по title/author — регистронезависимое вхождение.
func (s *Storage) ListPosts(ctx context.Context, opts models.ListOptions, filter models.PostFilter) (*models.Page[models.Post], error) {
	const op = "storage.postgres.ListPosts"

	page, limit := normalizePage(opts)

	where, args := buildPostFilter(filter)

	var total int64
	countQuery := `SELECT count(*) FROM posts` + where
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	listQuery := fmt.Sprintf(
		`SELECT %s FROM posts%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		postColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.Post, 0, limit)
	for rows.Next() {
		var post models.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Page[models.Post]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: models.TotalPagesFor(total, limit),
	}, nil
}

// buildPostFilter собирает WHERE-условие и аргументы по заданным фильтрам.
func buildPostFilter(filter models.PostFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Title != "" {
		add(`title ILIKE '%%' || $%d || '%%'`, filter.Title)
	}

	if filter.Author != "" {
		add(`author ILIKE '%%' || $%d || '%%'`, filter.Author)
	}

	if filter.Category != nil {
		add(`category = $%d`, *filter.Category)
	}

	if filter.Approved != nil {
		add(`approved = $%d`, *filter.Approved)
	}

	if filter.UserID != uuid.Nil {
		add(`user_id = $%d`, filter.UserID)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// UpdatePost обновляет содержимое публикации и возвращает актуальную запись.
func (s *Storage) UpdatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	const op = "storage.postgres.UpdatePost"

	query := `
		UPDATE posts
		SET title = $2, image = $3, content = $4, category = $5, slug = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + postColumns

	var updated models.Post
	if err := scanPost(s.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Image, post.Content, post.Category, post.Slug,
	), &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &updated, nil
}

// DeletePost удаляет публикацию.
func (s *Storage) DeletePost(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeletePost"

	cmdTag, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UpdateApproveStatus выставляет флаг модерации.
func (s *Storage) UpdateApproveStatus(ctx context.Context, id uuid.UUID, approved bool) (*models.Post, error) {
	const op = "storage.postgres.UpdateApproveStatus"

	query := `
		UPDATE posts
		SET approved = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + postColumns

	var post models.Post
	if err := scanPost(s.db.QueryRow(ctx, query, id, approved), &post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &post, nil
}
