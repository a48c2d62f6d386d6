package repository

import (
	"context"
	"errors"

	"github.com/tikkit/tikkit-api/internal/domain/entity"
)

// ErrDuplicateEmail is returned by Create when the unique constraint on email rejects the insert.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create inserts u and sets u.ID.
	Create(ctx context.Context, u *entity.User) error
}
