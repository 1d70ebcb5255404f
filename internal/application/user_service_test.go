package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/identityhub/auth-service/internal/domain/password"
	repo "github.com/identityhub/auth-service/internal/domain/repository"
	"github.com/identityhub/auth-service/internal/infrastructure/memory"
	"github.com/identityhub/auth-service/internal/infrastructure/policy"
)

// stubHasher is a fast stand-in for the argon2 adapter; the real adapter has
// its own tests.
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	return "stub$" + hex.EncodeToString(sum[:]), nil
}

func (stubHasher) Verify(plaintext, encoded string) bool {
	h, _ := stubHasher{}.Hash(plaintext)
	return h == encoded
}

func newTestService() (*Service, *memory.UserRepository) {
	r := memory.NewUserRepository()
	svc := NewService(r, stubHasher{}, policy.New(policy.Rules{MinLength: 8}), nil)
	return svc, r
}

func arthurInput() RegisterInput {
	return RegisterInput{
		Name:      "Arthur",
		Surname:   "Henrique",
		BirthDate: time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
		Email:     "a@example.com",
		Username:  "arthurh",
		Password:  "secure_password_123",
	}
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.Register(context.Background(), arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if u.IsActive {
		t.Fatal("new users must start inactive")
	}
	if u.IsSuperuser {
		t.Fatal("new users must not be superusers")
	}
	if u.Password == "secure_password_123" {
		t.Fatal("stored password must never equal the plaintext")
	}
	if !(stubHasher{}).Verify("secure_password_123", u.Password) {
		t.Fatal("stored hash must verify against the plaintext")
	}
	if u.UpdatedAt.Before(u.CreatedAt) {
		t.Fatal("updated_at must not precede created_at")
	}
}

func TestRegisterPolicyViolation(t *testing.T) {
	svc, r := newTestService()
	in := arthurInput()
	in.Password = "short"

	_, err := svc.Register(context.Background(), in)
	var policyErr *password.PolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PolicyError, got %v", err)
	}
	if exists, _ := r.Exists(context.Background(), in.Email); exists {
		t.Fatal("rejected registration must not persist a user")
	}
}

func TestRegisterInvalidEmail(t *testing.T) {
	svc, _ := newTestService()
	in := arthurInput()
	in.Email = "not-an-email"
	if _, err := svc.Register(context.Background(), in); err == nil {
		t.Fatal("expected a validation error for a malformed email")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, arthurInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	in := arthurInput()
	in.Username = "someoneelse"
	if _, err := svc.Register(ctx, in); !errors.Is(err, repo.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegisterConcurrentDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inputs := []RegisterInput{arthurInput(), arthurInput()}
	inputs[0].Email = "dup@example.com"
	inputs[1].Email = "dup@example.com"
	inputs[1].Username = "otherusername"

	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, inputs[i])
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repo.ErrAlreadyExists):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Fatalf("expected exactly one success and one conflict, got ok=%d conflict=%d", ok, conflict)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.Authenticate(ctx, "a@example.com", "secure_password_123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != registered.ID {
		t.Fatalf("authenticated wrong user: %s", u.ID)
	}
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, arthurInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPw := svc.Authenticate(ctx, "a@example.com", "wrong_pw")
	_, unknown := svc.Authenticate(ctx, "nonexistent@example.com", "x")

	if !errors.Is(wrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if !errors.Is(unknown, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
	// Unknown account must not be distinguishable from a bad password.
	if wrongPw.Error() != unknown.Error() {
		t.Fatal("failure messages must be identical")
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	u, err := svc.Register(ctx, arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.IsActive {
		t.Fatal("precondition: user should be inactive")
	}
	// Activation gates authorization, not authentication.
	if _, err := svc.Authenticate(ctx, "a@example.com", "secure_password_123"); err != nil {
		t.Fatalf("inactive account must still authenticate, got %v", err)
	}
}

func TestAuthenticateEmailCaseSensitive(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, arthurInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "A@example.com", "secure_password_123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("email lookup is byte-wise; expected ErrInvalidCredentials, got %v", err)
	}
}

func TestActivateIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	u, err := svc.Register(ctx, arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	first, err := svc.Activate(ctx, u.ID)
	if err != nil || !first.IsActive {
		t.Fatalf("first activate: %v active=%v", err, first != nil && first.IsActive)
	}
	second, err := svc.Activate(ctx, u.ID)
	if err != nil || !second.IsActive {
		t.Fatalf("second activate must succeed and re-confirm state: %v", err)
	}

	deactivated, err := svc.Deactivate(ctx, u.ID)
	if err != nil || deactivated.IsActive {
		t.Fatalf("deactivate: %v active=%v", err, deactivated != nil && deactivated.IsActive)
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	created, err := svc.Register(ctx, arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	name := "Rayssa"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Rayssa" {
		t.Fatalf("name not updated: %s", updated.Name)
	}
	if updated.Email != created.Email || updated.Username != created.Username ||
		updated.Password != created.Password || updated.IsActive != created.IsActive {
		t.Fatal("fields outside the partial update must be unchanged")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatal("updated_at must strictly increase on a successful update")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("created_at must never change")
	}
}

func TestUpdateDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, arthurInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	in := arthurInput()
	in.Email = "b@example.com"
	in.Username = "otherusername"
	second, err := svc.Register(ctx, in)
	if err != nil {
		t.Fatalf("second register: %v", err)
	}

	email := "a@example.com"
	if _, err := svc.Update(ctx, second.ID, UpdateInput{Email: &email}); !errors.Is(err, repo.ErrAlreadyExists) {
		t.Fatalf("update to taken email: expected ErrAlreadyExists, got %v", err)
	}
	username := "arthurh"
	if _, err := svc.Update(ctx, second.ID, UpdateInput{Username: &username}); !errors.Is(err, repo.ErrAlreadyExists) {
		t.Fatalf("update to taken username: expected ErrAlreadyExists, got %v", err)
	}
}

func TestNotFoundSymmetry(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	id := uuid.NewString()

	name := "X"
	ops := map[string]error{}
	_, ops["get"] = svc.Get(ctx, id)
	_, ops["update"] = svc.Update(ctx, id, UpdateInput{Name: &name})
	ops["delete"] = svc.Delete(ctx, id)
	_, ops["activate"] = svc.Activate(ctx, id)
	_, ops["deactivate"] = svc.Deactivate(ctx, id)

	for op, err := range ops {
		if !errors.Is(err, repo.ErrNotFound) {
			t.Fatalf("%s on a nonexistent id: expected ErrNotFound, got %v", op, err)
		}
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	u, err := svc.Register(ctx, arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, u.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
