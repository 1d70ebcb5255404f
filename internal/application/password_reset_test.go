package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/identityhub/auth-service/internal/domain/password"
	"github.com/identityhub/auth-service/internal/infrastructure/memory"
	"github.com/identityhub/auth-service/internal/infrastructure/policy"
	"github.com/identityhub/auth-service/pkg/mailer"
)

type memTokenStore struct {
	tokens map[string]string
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]string)}
}

func (s *memTokenStore) Set(_ context.Context, token, userID string, _ time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *memTokenStore) Get(_ context.Context, token string) (string, error) {
	return s.tokens[token], nil
}

func (s *memTokenStore) Del(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

type capturePublisher struct {
	jobs []mailer.EmailJob
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	job, ok := body.(mailer.EmailJob)
	if !ok {
		return errors.New("unexpected payload type")
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func newResetFixture(t *testing.T) (*ResetService, *Service, *memTokenStore, *capturePublisher) {
	t.Helper()
	r := memory.NewUserRepository()
	pol := policy.New(policy.Rules{MinLength: 8})
	svc := NewService(r, stubHasher{}, pol, nil)
	tokens := newMemTokenStore()
	pub := &capturePublisher{}
	reset := NewResetService(r, tokens, stubHasher{}, pol, pub, nil, "https://app.example.com/reset-password", 0)
	return reset, svc, tokens, pub
}

func TestInitiateResetIssuesTokenAndEmail(t *testing.T) {
	reset, svc, tokens, pub := newResetFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := reset.InitiateReset(ctx, u.Email); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	if len(tokens.tokens) != 1 {
		t.Fatalf("expected one stored token, got %d", len(tokens.tokens))
	}
	for token, userID := range tokens.tokens {
		if userID != u.ID {
			t.Fatalf("token mapped to wrong user: %s", userID)
		}
		if len(pub.jobs) != 1 {
			t.Fatalf("expected one email job, got %d", len(pub.jobs))
		}
		job := pub.jobs[0]
		if job.To != u.Email || job.Template != mailer.TemplateResetPassword {
			t.Fatalf("unexpected job: %+v", job)
		}
		link, _ := job.Data["ResetLink"].(string)
		if !strings.Contains(link, token) {
			t.Fatalf("reset link must carry the token: %s", link)
		}
	}
}

func TestInitiateResetUnknownEmailIsSilent(t *testing.T) {
	reset, _, tokens, pub := newResetFixture(t)

	if err := reset.InitiateReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must not error, got %v", err)
	}
	if len(tokens.tokens) != 0 || len(pub.jobs) != 0 {
		t.Fatal("unknown email must not issue a token or an email")
	}
}

func TestCompleteResetChangesCredentialAndConsumesToken(t *testing.T) {
	reset, svc, tokens, _ := newResetFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	tokens.tokens["tok123"] = u.ID

	if err := reset.CompleteReset(ctx, "tok123", "brand_new_password"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := svc.Authenticate(ctx, u.Email, "brand_new_password"); err != nil {
		t.Fatalf("new password must authenticate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, u.Email, "secure_password_123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}

	// The token is single-use.
	if err := reset.CompleteReset(ctx, "tok123", "another_password_1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("consumed token must be rejected, got %v", err)
	}
}

func TestCompleteResetForDeletedAccount(t *testing.T) {
	reset, svc, tokens, _ := newResetFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	tokens.tokens["tok123"] = u.ID
	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// A live token pointing at a deleted account is a dead token, not an
	// internal error.
	if err := reset.CompleteReset(ctx, "tok123", "brand_new_password"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
	if _, ok := tokens.tokens["tok123"]; ok {
		t.Fatal("dead token must be consumed")
	}
}

func TestCompleteResetRejectsBadToken(t *testing.T) {
	reset, _, _, _ := newResetFixture(t)
	ctx := context.Background()

	if err := reset.CompleteReset(ctx, "unknown", "good_password_1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
	if err := reset.CompleteReset(ctx, "", "good_password_1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("empty token: expected ErrInvalidResetToken, got %v", err)
	}
}

func TestCompleteResetAppliesPolicy(t *testing.T) {
	reset, svc, tokens, _ := newResetFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, arthurInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	tokens.tokens["tok123"] = u.ID

	err = reset.CompleteReset(ctx, "tok123", "short")
	var policyErr *password.PolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PolicyError, got %v", err)
	}
	// A rejected password must not consume the token.
	if _, ok := tokens.tokens["tok123"]; !ok {
		t.Fatal("token must survive a policy rejection")
	}
}
