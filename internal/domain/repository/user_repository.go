package repository

import (
	"context"
	"errors"

	"github.com/identityhub/auth-service/internal/domain/entity"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name     *string
	Surname  *string
	Email    *string
	Username *string
	Password *string
	IsActive *bool
}

// UserRepository defines durable storage for users. Lookups return
// ErrNotFound when no user matches; Create returns ErrAlreadyExists when the
// email (or, racing at the store level, the username) is taken.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}
