package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tikkit/tikkit-api/internal/domain/entity"
	"github.com/tikkit/tikkit-api/internal/domain/repository"
)

const (
	uniqueViolation     = "23505"
	usersEmailUniqueKey = "users_email_key"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, name, phone, role, status, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, u.Email, u.Password, u.Name, u.Phone, string(u.Role), string(u.Status), u.CreatedAt, u.UpdatedAt, u.DeletedAt)

	if err := row.Scan(&u.ID); err != nil {
		if isEmailConflict(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func isEmailConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return pgErr.ConstraintName == "" || pgErr.ConstraintName == usersEmailUniqueKey
}

var _ repository.UserRepository = (*UserRepository)(nil)
