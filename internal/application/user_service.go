package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/identityhub/auth-service/internal/domain/entity"
	"github.com/identityhub/auth-service/internal/domain/password"
	repo "github.com/identityhub/auth-service/internal/domain/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service orchestrates the identity lifecycle over the policy, hashing and
// repository capabilities. It holds no state between calls.
type Service struct {
	Repo   repo.UserRepository
	Hasher password.Hasher
	Policy password.Policy
	Logger *logrus.Logger
}

func NewService(r repo.UserRepository, h password.Hasher, p password.Policy, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Hasher: h, Policy: p, Logger: logger}
}

type RegisterInput struct {
	Name      string
	Surname   string
	BirthDate time.Time
	Email     string
	Username  string
	Password  string
}

// Register validates the candidate password against the policy, hashes it
// and stores a new inactive user. The plaintext never reaches the
// repository.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := s.Policy.Validate(in.Password); err != nil {
		return nil, err
	}
	hashed, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &entity.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Surname:   in.Surname,
		BirthDate: in.BirthDate,
		Email:     in.Email,
		Username:  in.Username,
		Password:  hashed,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	created, err := s.Repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": created.ID}).Info("user registered")
	}
	return created, nil
}

// Authenticate never reveals whether the email exists: unknown emails and
// wrong passwords both fail with ErrInvalidCredentials. The active flag is
// not consulted here; an inactive account still authenticates.
func (s *Service) Authenticate(ctx context.Context, email, plaintext string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.Hasher.Verify(plaintext, u.Password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, id)
}

type UpdateInput struct {
	Name     *string
	Surname  *string
	Email    *string
	Username *string
}

// Update applies only the provided fields. Email and username collisions are
// left to the store's unique indexes and surface as ErrAlreadyExists.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*entity.User, error) {
	return s.Repo.Update(ctx, id, repo.UserUpdate{
		Name:     in.Name,
		Surname:  in.Surname,
		Email:    in.Email,
		Username: in.Username,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": id}).Info("user deleted")
	}
	return nil
}

// Activate is idempotent: activating an already-active user succeeds and
// re-confirms the state. Deactivate is symmetric.
func (s *Service) Activate(ctx context.Context, id string) (*entity.User, error) {
	return s.setActive(ctx, id, true)
}

func (s *Service) Deactivate(ctx context.Context, id string) (*entity.User, error) {
	return s.setActive(ctx, id, false)
}

func (s *Service) setActive(ctx context.Context, id string, active bool) (*entity.User, error) {
	return s.Repo.Update(ctx, id, repo.UserUpdate{IsActive: &active})
}
