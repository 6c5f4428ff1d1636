package application

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shoply/shoply-api/internal/domain/entity"
	"github.com/shoply/shoply-api/internal/domain/repository"
	"github.com/shoply/shoply-api/pkg/helpers"
	"github.com/shoply/shoply-api/pkg/mailer"
)

const resetTokenBytes = 32

// PasswordResetService manages pending reset claims: a hashed opaque token
// mailed as a link, consumed at most once.
type PasswordResetService struct {
	Repo            repository.PasswordResetRepository
	Mail            mailer.Notifier
	Logger          *logrus.Logger
	TokenTTL        time.Duration
	RequestCooldown time.Duration
	FrontendOrigin  string
}

func NewPasswordResetService(repo repository.PasswordResetRepository, mail mailer.Notifier, logger *logrus.Logger, tokenTTL, requestCooldown time.Duration, frontendOrigin string) *PasswordResetService {
	return &PasswordResetService{
		Repo:            repo,
		Mail:            mail,
		Logger:          logger,
		TokenTTL:        tokenTTL,
		RequestCooldown: requestCooldown,
		FrontendOrigin:  frontendOrigin,
	}
}

// Request stages a reset claim and mails the link. It always succeeds from
// the caller's point of view: a recent prior request short-circuits silently
// (anti-spam), and no signal reveals whether the email has an account.
func (s *PasswordResetService) Request(ctx context.Context, emailRaw string) error {
	email := strings.ToLower(strings.TrimSpace(emailRaw))

	if recent, err := s.Repo.GetByEmail(ctx, email); err == nil && recent != nil {
		if time.Since(recent.UpdatedAt) < s.RequestCooldown {
			return nil
		}
	}

	token, err := helpers.GenOpaqueToken(resetTokenBytes)
	if err != nil {
		return err
	}
	tokenHash, err := helpers.HashSecret(token)
	if err != nil {
		return err
	}

	now := time.Now()
	r := &entity.PasswordReset{
		ID:        uuid.NewString(),
		Email:     email,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(s.TokenTTL),
		Used:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Put(ctx, r); err != nil {
		return err
	}

	link := s.buildResetLink(r.ID, token)
	if err := s.Mail.SendPasswordReset(ctx, email, link, s.TokenTTL); err != nil {
		s.Logger.WithError(err).WithField("email", email).Error("send password reset failed")
		return err
	}
	return nil
}

// VerifyAndConsume checks the token, marks the record used, and returns the
// email it was issued for. The used record stays in the store until the
// retention sweep removes it, so it can never be consumed twice.
func (s *PasswordResetService) VerifyAndConsume(ctx context.Context, resetID, token string) (string, error) {
	r, err := s.Repo.Get(ctx, resetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidReset
		}
		return "", err
	}
	if r.Used || r.Expired(time.Now()) {
		return "", ErrInvalidReset
	}
	if !helpers.CompareHashAndSecret(r.TokenHash, token) {
		return "", ErrInvalidReset
	}

	r.Used = true
	r.UpdatedAt = time.Now()
	if err := s.Repo.Update(ctx, r); err != nil {
		return "", err
	}
	return r.Email, nil
}

func (s *PasswordResetService) buildResetLink(id, token string) string {
	u, err := url.Parse(s.FrontendOrigin)
	if err != nil {
		u = &url.URL{Scheme: "http", Host: "localhost:3000"}
	}
	u.Path = "/reset"
	q := u.Query()
	q.Set("resetId", id)
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
