package repository

import (
	"context"
	"errors"

	"github.com/rkrajat/fullstack-monorpo-starter/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when a create hits the unique email
	// index. The index is the sole backstop against duplicate races.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines user persistence. The auth service is the only
// component that touches it.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
