package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/identityhub/auth-service/internal/domain/password"
	repo "github.com/identityhub/auth-service/internal/domain/repository"
	"github.com/identityhub/auth-service/pkg/mailer"
)

var ErrInvalidResetToken = errors.New("invalid or expired reset token")

const defaultResetTokenTTL = 30 * time.Minute

// Publisher enqueues outbound email jobs.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ResetService implements the password reset flow: an opaque token is issued
// and mailed out, then exchanged together with a new password for a
// credential update.
type ResetService struct {
	Repo     repo.UserRepository
	Tokens   TokenStore
	Hasher   password.Hasher
	Policy   password.Policy
	Pub      Publisher
	Logger   *logrus.Logger
	ResetURL string
	TokenTTL time.Duration
}

func NewResetService(r repo.UserRepository, tokens TokenStore, h password.Hasher, p password.Policy, pub Publisher, logger *logrus.Logger, resetURL string, ttl time.Duration) *ResetService {
	if ttl <= 0 {
		ttl = defaultResetTokenTTL
	}
	return &ResetService{
		Repo:     r,
		Tokens:   tokens,
		Hasher:   h,
		Policy:   p,
		Pub:      pub,
		Logger:   logger,
		ResetURL: resetURL,
		TokenTTL: ttl,
	}
}

// InitiateReset issues a reset token for the account behind email. Unknown
// emails are dropped silently so the endpoint cannot be used to probe for
// accounts.
func (s *ResetService) InitiateReset(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := newToken(32)
	if err != nil {
		return err
	}
	if err := s.Tokens.Set(ctx, token, u.ID, s.TokenTTL); err != nil {
		return err
	}

	if s.Pub != nil {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: mailer.TemplateResetPassword,
			Data: map[string]any{
				"Name":      u.Name,
				"ResetLink": s.ResetURL + "?token=" + token,
				"ExpiresIn": s.TokenTTL.String(),
			},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue reset email failed")
		}
	}
	return nil
}

// CompleteReset swaps the stored credential for the hash of newPassword and
// consumes the token. The policy applies to the new password exactly as it
// does on registration.
func (s *ResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	userID, err := s.Tokens.Get(ctx, token)
	if err != nil {
		return err
	}
	if userID == "" {
		return ErrInvalidResetToken
	}

	if err := s.Policy.Validate(newPassword); err != nil {
		return err
	}
	hashed, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.Repo.Update(ctx, userID, repo.UserUpdate{Password: &hashed}); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// The account behind the token is gone; the token is dead.
			_ = s.Tokens.Del(ctx, token)
			return ErrInvalidResetToken
		}
		return err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": userID}).Info("password reset completed")
	}
	return s.Tokens.Del(ctx, token)
}

func newToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
