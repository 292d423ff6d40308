package repository

import (
	"context"
	"errors"

	"github.com/userhub/user-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned by lookups when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by Save when the store's unique constraint on
	// email rejects the write. Callers pre-check with ExistsByEmail, but two
	// concurrent saves can both pass the pre-check; the constraint is the
	// backstop and must surface as this error, never as a raw driver error.
	ErrEmailTaken = errors.New("email already taken")
)

// UserRepository defines the interface for user-related storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByEmailExcluding reports whether some OTHER user holds the email.
	ExistsByEmailExcluding(ctx context.Context, email string, id int64) (bool, error)
	// Save inserts when u.ID is zero, otherwise updates. On insert the store
	// assigns ID and CreatedAt and writes them back into u. Updates never
	// touch CreatedAt.
	Save(ctx context.Context, u *entity.User) error
	// DeleteByID is idempotent at the storage layer; deleting a missing id is
	// not an error here, existence is the caller's check.
	DeleteByID(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*entity.User, error)
}
