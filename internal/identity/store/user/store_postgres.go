package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"darum/internal/identity/models"
	"darum/pkg/domain"
	"darum/pkg/platform/sentinel"
)

const uniqueViolationCode = "23505"

// PostgresStore persists identity records in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, user models.User) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, first_name, last_name, roles, enabled, created_at, updated_at)
        VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8, $9)
    `, user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		roleTags(user.Roles), user.Enabled, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return translatePgError(err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT id, email, password_hash, first_name, last_name, roles, enabled, created_at, updated_at
          FROM users
         WHERE id = $1
    `, id)
	return scanUser(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `
        SELECT id, email, password_hash, first_name, last_name, roles, enabled, created_at, updated_at
          FROM users
         WHERE email = lower($1)
    `, email)
	return scanUser(row)
}

func (s *PostgresStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM users WHERE email = lower($1))
    `, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) UpdateRoles(ctx context.Context, id string, roles []domain.Role, updatedAt time.Time) (models.User, error) {
	row := s.pool.QueryRow(ctx, `
        UPDATE users
           SET roles = $1,
               updated_at = $2
         WHERE id = $3
        RETURNING id, email, password_hash, first_name, last_name, roles, enabled, created_at, updated_at
    `, roleTags(roles), updatedAt, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var tags []string
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName,
		&user.LastName, &tags, &user.Enabled, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, translatePgError(err)
	}
	for _, tag := range tags {
		if r, ok := domain.ParseRole(tag); ok {
			user.Roles = append(user.Roles, r)
		}
	}
	return user, nil
}

func roleTags(roles []domain.Role) []string {
	tags := make([]string, len(roles))
	for i, r := range roles {
		tags[i] = string(r)
	}
	return tags
}

func translatePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return sentinel.ErrConflict
	}
	return err
}
