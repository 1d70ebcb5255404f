package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/identityhub/auth-service/internal/domain/entity"
	"github.com/identityhub/auth-service/internal/domain/repository"
)

// SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

const userColumns = `id, name, surname, birth_date, email, username, password, is_superuser, is_active, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Surname, &u.BirthDate, &u.Email, &u.Username,
		&u.Password, &u.IsSuperuser, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create inserts a new user. The email pre-check is a fast-fail only; the
// unique indexes on email and username are the authoritative guard, so a
// concurrent insert that slips past the pre-check still surfaces as
// ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	exists, err := r.Exists(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrAlreadyExists
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+userColumns,
		u.ID, u.Name, u.Surname, u.BirthDate, u.Email, u.Username,
		u.Password, u.IsSuperuser, u.IsActive, u.CreatedAt, u.UpdatedAt)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1
	`, username))
}

func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	return exists, err
}

// Update applies only the fields set on upd and refreshes updated_at.
func (r *UserRepository) Update(ctx context.Context, id string, upd repository.UserUpdate) (*entity.User, error) {
	set := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Surname != nil {
		add("surname", *upd.Surname)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Username != nil {
		add("username", *upd.Username)
	}
	if upd.Password != nil {
		add("password", *upd.Password)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
