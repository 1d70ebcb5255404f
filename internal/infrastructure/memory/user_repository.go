// Package memory provides an in-memory UserRepository used by tests. The
// uniqueness check and insert happen under one lock, so it enforces the same
// guarantee the unique indexes give the postgres adapter.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/identityhub/auth-service/internal/domain/entity"
	"github.com/identityhub/auth-service/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]entity.User)}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, repository.ErrAlreadyExists
		}
	}
	stored := *u
	r.users[stored.ID] = stored
	out := stored
	return &out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Exists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) Update(_ context.Context, id string, upd repository.UserUpdate) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Same guarantee the unique indexes give the postgres adapter on update.
	for otherID, existing := range r.users {
		if otherID == id {
			continue
		}
		if upd.Email != nil && existing.Email == *upd.Email {
			return nil, repository.ErrAlreadyExists
		}
		if upd.Username != nil && existing.Username == *upd.Username {
			return nil, repository.ErrAlreadyExists
		}
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Surname != nil {
		u.Surname = *upd.Surname
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	out := u
	return &out, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
