package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shoply/shoply-api/internal/domain/entity"
	"github.com/shoply/shoply-api/internal/domain/repository"
	"github.com/shoply/shoply-api/pkg/helpers"
	"github.com/shoply/shoply-api/pkg/mailer"
)

// VerificationService manages pending identity claims: a hashed 6-digit code
// plus a staged signup payload, consumed exactly once.
type VerificationService struct {
	Repo           repository.VerificationRepository
	Mail           mailer.Notifier
	Logger         *logrus.Logger
	CodeTTL        time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
}

func NewVerificationService(repo repository.VerificationRepository, mail mailer.Notifier, logger *logrus.Logger, codeTTL, resendCooldown time.Duration, maxAttempts int) *VerificationService {
	return &VerificationService{
		Repo:           repo,
		Mail:           mail,
		Logger:         logger,
		CodeTTL:        codeTTL,
		ResendCooldown: resendCooldown,
		MaxAttempts:    maxAttempts,
	}
}

// Create stages a new verification for (email, kind), replacing any prior
// one. The raw code is mailed for local signups and returned to the caller;
// the Google flow hands it to the frontend via redirect instead of email.
func (s *VerificationService) Create(ctx context.Context, email, kind string, payload entity.StagedProfile) (*entity.Verification, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	code, err := helpers.GenOTPCode()
	if err != nil {
		return nil, "", err
	}
	codeHash, err := helpers.HashSecret(code)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	v := &entity.Verification{
		ID:        uuid.NewString(),
		Email:     email,
		Kind:      kind,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(s.CodeTTL),
		Attempts:  0,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Put(ctx, v); err != nil {
		return nil, "", err
	}

	if kind == entity.VerificationLocal {
		if err := s.Mail.SendVerificationCode(ctx, email, code, s.CodeTTL); err != nil {
			s.Logger.WithError(err).WithField("email", email).Error("send verification code failed")
			return nil, "", err
		}
	}
	return v, code, nil
}

// Resend regenerates the code after the cooldown, resetting expiry and
// attempts. Non-local kinds no-op successfully: no code was ever mailed.
func (s *VerificationService) Resend(ctx context.Context, verificationID string) (*entity.Verification, error) {
	v, err := s.Repo.Get(ctx, verificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	if v.Kind != entity.VerificationLocal {
		return v, nil
	}
	if time.Since(v.UpdatedAt) < s.ResendCooldown {
		return nil, ErrResendCooldown
	}

	code, err := helpers.GenOTPCode()
	if err != nil {
		return nil, err
	}
	codeHash, err := helpers.HashSecret(code)
	if err != nil {
		return nil, err
	}
	v.CodeHash = codeHash
	v.ExpiresAt = time.Now().Add(s.CodeTTL)
	v.Attempts = 0
	v.UpdatedAt = time.Now()
	// Put rather than Update: a resend restarts the retention window too.
	if err := s.Repo.Put(ctx, v); err != nil {
		return nil, err
	}
	if err := s.Mail.SendVerificationCode(ctx, v.Email, code, s.CodeTTL); err != nil {
		s.Logger.WithError(err).WithField("email", v.Email).Error("resend verification code failed")
		return nil, err
	}
	return v, nil
}

// VerifyAndConsume checks the code and deletes the record on success. A
// consumed record can never be confirmed again; a mismatch burns an attempt.
func (s *VerificationService) VerifyAndConsume(ctx context.Context, verificationID, code string) (*entity.Verification, error) {
	v, err := s.Repo.Get(ctx, verificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidVerification
		}
		return nil, err
	}
	if v.Expired(time.Now()) {
		return nil, ErrInvalidVerification
	}
	if v.Attempts >= s.MaxAttempts {
		return nil, ErrTooManyAttempts
	}
	if !helpers.CompareHashAndSecret(v.CodeHash, code) {
		v.Attempts++
		v.UpdatedAt = time.Now()
		if uerr := s.Repo.Update(ctx, v); uerr != nil {
			s.Logger.WithError(uerr).WithField("verification_id", v.ID).Warn("attempt counter update failed")
		}
		return nil, ErrInvalidCode
	}

	if err := s.Repo.Delete(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}
