package entity

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// User is the aggregate root for the identity domain.
// Password always holds the encoded hash, never the plaintext credential.
//
// Email and username are globally unique; the storage layer carries the
// authoritative constraint.
type User struct {
	ID        string    `validate:"required"`
	Name      string    `validate:"required,min=1,max=100"`
	Surname   string    `validate:"required,min=1,max=100"`
	BirthDate time.Time `validate:"required"`

	Email    string `validate:"required,email"`
	Username string `validate:"required,min=3,max=50"`
	Password string `validate:"required"`

	IsSuperuser bool
	IsActive    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

var validate = validator.New()

// Validate checks the field-level constraints. It runs both when a user is
// built from input and when one is reconstructed from storage.
func (u *User) Validate() error {
	return validate.Struct(u)
}
