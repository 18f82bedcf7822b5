package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-content-portal/internal/models"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

const userColumns = `id, name, username, sex, role, avatar, is_active, created_at, updated_at`

func scanUser(row pgx.Row, user *models.User) error {
	return row.Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Sex,
		&user.Role,
		&user.Avatar,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// SaveUser создаёт нового пользователя. Хэш пароля сохраняется отдельной
// колонкой и наружу из стораджа не отдаётся, кроме UserByUsername.
func (s *Storage) SaveUser(ctx context.Context, user *models.User, passwordHash string) error {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users(id, name, username, password_hash, sex, role, avatar, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Username,
		passwordHash,
		user.Sex,
		user.Role,
		user.Avatar,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
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

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	if err := scanUser(s.db.QueryRow(ctx, query, id), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

// UserByUsername находит пользователя по username и возвращает хэш пароля.
func (s *Storage) UserByUsername(ctx context.Context, username string) (*models.User, string, error) {
	const op = "storage.postgres.UserByUsername"

	query := `
		SELECT id, name, username, password_hash, sex, role, avatar, is_active, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var user models.User
	var hash string
	err := s.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&hash,
		&user.Sex,
		&user.Role,
		&user.Avatar,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return &user, hash, nil
}

// UpdateUser обновляет профиль и возвращает актуальную запись.
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage.postgres.UpdateUser"

	query := `
		UPDATE users
		SET name = $2, username = $3, sex = $4, avatar = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	var updated models.User
	if err := scanUser(s.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Username, user.Sex, user.Avatar,
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

// ListUsers возвращает страницу пользователей, новые — первыми.
func (s *Storage) ListUsers(ctx context.Context, opts models.ListOptions) (*models.Page[models.User], error) {
	const op = "storage.postgres.ListUsers"

	page, limit := normalizePage(opts)

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.User, 0, limit)
	for rows.Next() {
		var user models.User
		if err := scanUser(rows, &user); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Page[models.User]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: models.TotalPagesFor(total, limit),
	}, nil
}

// UpdateActiveStatus включает/выключает учётную запись.
func (s *Storage) UpdateActiveStatus(ctx context.Context, id uuid.UUID, isActive bool) (*models.User, error) {
	const op = "storage.postgres.UpdateActiveStatus"

	query := `
		UPDATE users
		SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	var user models.User
	if err := scanUser(s.db.QueryRow(ctx, query, id, isActive), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

// normalizePage защищает от нулевых/отрицательных значений страницы и лимита.
func normalizePage(opts models.ListOptions) (int32, int32) {
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 1
	}

	return page, limit
}
