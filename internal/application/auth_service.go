package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shoply/shoply-api/internal/domain/entity"
	"github.com/shoply/shoply-api/internal/domain/repository"
	"github.com/shoply/shoply-api/pkg/helpers"
)

// AuthService orchestrates signup, signin, token rotation, email
// verification, password reset, and Google login over the three stores.
type AuthService struct {
	Users         repository.UserRepository
	Verifications *VerificationService
	Resets        *PasswordResetService
	JWT           *helpers.JWTManager
	Logger        *logrus.Logger
}

func NewAuthService(users repository.UserRepository, verifications *VerificationService, resets *PasswordResetService, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:         users,
		Verifications: verifications,
		Resets:        resets,
		JWT:           jwt,
		Logger:        logger,
	}
}

// SignupInput carries the signup form. Address fields are optional on the
// direct path and filled later via the profile surface.
type SignupInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// OAuthResult is either a finished login (User and Tokens set) or a staged
// first-time identity (Verification and Code set) awaiting confirmation.
type OAuthResult struct {
	User         *entity.User
	Tokens       helpers.TokenPair
	Verification *entity.Verification
	Code         string
}

// Signup creates the user directly, without an OTP step.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, helpers.TokenPair, error) {
	hash, err := helpers.HashSecret(in.Password)
	if err != nil {
		return nil, helpers.TokenPair{}, err
	}
	u := userFromInput(in, hash)
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, helpers.TokenPair{}, ErrEmailTaken
		}
		return nil, helpers.TokenPair{}, err
	}
	tokens, err := s.issueAndPersist(ctx, u)
	if err != nil {
		return nil, helpers.TokenPair{}, err
	}
	return u, tokens, nil
}

// InitiateSignup stages the full signup payload behind an emailed code.
// No user row exists until the code is confirmed.
func (s *AuthService) InitiateSignup(ctx context.Context, in SignupInput) (*entity.Verification, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashSecret(in.Password)
	if err != nil {
		return nil, err
	}
	payload := entity.StagedProfile{
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Phone:        in.Phone,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
	}
	v, _, err := s.Verifications.Create(ctx, email, entity.VerificationLocal, payload)
	return v, err
}

// ConfirmVerification consumes the code and finalizes the account: local
// kind creates the user from the staged payload, google kind finds or
// creates a minimal one.
func (s *AuthService) ConfirmVerification(ctx context.Context, verificationID, code string) (*entity.User, helpers.TokenPair, error) {
	v, err := s.Verifications.VerifyAndConsume(ctx, verificationID, code)
	if err != nil {
		return nil, helpers.TokenPair{}, err
	}

	var u *entity.User
	switch v.Kind {
	case entity.VerificationGoogle:
		u, err = s.findOrCreateOAuthUser(ctx, v.Email, v.Payload.Name)
	default:
		u = &entity.User{
			Name:         v.Payload.Name,
			Email:        v.Email,
			PasswordHash: v.Payload.PasswordHash,
			Phone:        v.Payload.Phone,
			AddressLine1: v.Payload.AddressLine1,
			AddressLine2: v.Payload.AddressLine2,
			City:         v.Payload.City,
			State:        v.Payload.State,
			PostalCode:   v.Payload.PostalCode,
			Country:      v.Payload.Country,
			Roles:        []string{entity.RoleUser},
		}
		if cerr := s.Users.Create(ctx, u); cerr != nil {
			if errors.Is(cerr, repository.ErrDuplicateEmail) {
				err = ErrEmailTaken
			} else {
				err = cerr
			}
		}
	}
	if err != nil {
		return nil, helpers.TokenPair{}, err
	}

	tokens, err := s.issueAndPersist(ctx, u)
	if err != nil {
		return nil, helpers.TokenPair{}, err
	}
	return u, tokens, nil
}

// Signin validates credentials and issues a fresh pair. The error is the
// same whether the email or the password was wrong.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*entity.User, helpers.TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, helpers.TokenPair{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndSecret(u.PasswordHash, password) {
		return nil, helpers.TokenPair{}, ErrInvalidCredentials
	}
	tokens, err := s.issueAndPersist(ctx, u)
	if err != nil {
		return nil, helpers.TokenPair{}, err
	}
	return u, tokens, nil
}

// RefreshTokens rotates the pair. The presented token must match the single
// stored hash; rotation makes the old refresh token unusable immediately.
func (s *AuthService) RefreshTokens(ctx context.Context, userID, presented string) (helpers.TokenPair, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil || u.RefreshTokenHash == nil {
		return helpers.TokenPair{}, ErrAccessDenied
	}
	if !helpers.CompareHashAndToken(*u.RefreshTokenHash, presented) {
		return helpers.TokenPair{}, ErrAccessDenied
	}
	return s.issueAndPersist(ctx, u)
}

// Logout clears the stored refresh hash unconditionally.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.Users.SetRefreshTokenHash(ctx, userID, nil)
}

// OAuthLogin finalizes a Google identity. A registered email gets tokens
// directly; a first-time email is staged through the verification store
// (kind google, no code email) so account creation stays behind an explicit
// confirmation step.
func (s *AuthService) OAuthLogin(ctx context.Context, email, name string) (OAuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		tokens, terr := s.issueAndPersist(ctx, u)
		if terr != nil {
			return OAuthResult{}, terr
		}
		return OAuthResult{User: u, Tokens: tokens}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return OAuthResult{}, err
	}

	v, code, err := s.Verifications.Create(ctx, email, entity.VerificationGoogle, entity.StagedProfile{Name: name})
	if err != nil {
		return OAuthResult{}, err
	}
	return OAuthResult{Verification: v, Code: code}, nil
}

// ForgotPassword delegates to the reset store; generic success regardless.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.Resets.Request(ctx, email)
}

// ResetPassword consumes the reset claim and overwrites the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, resetID, token, newPassword string) error {
	email, err := s.Resets.VerifyAndConsume(ctx, resetID, token)
	if err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidReset
		}
		return err
	}
	hash, err := helpers.HashSecret(newPassword)
	if err != nil {
		return err
	}
	return s.Users.SetPassword(ctx, u.ID, hash)
}

func (s *AuthService) findOrCreateOAuthUser(ctx context.Context, email, name string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if name == "" {
		name = "User"
	}
	// Random unusable password: the account can only sign in via Google
	// until a password reset sets a real one.
	random, err := helpers.GenOpaqueToken(32)
	if err != nil {
		return nil, err
	}
	hash, err := helpers.HashSecret(random)
	if err != nil {
		return nil, err
	}
	u = &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Roles:        []string{entity.RoleUser},
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a creation race; the winner's row is the account.
			return s.Users.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return u, nil
}

// issueAndPersist signs a fresh pair and stores the bcrypt hash of the new
// refresh token, invalidating any previous one.
func (s *AuthService) issueAndPersist(ctx context.Context, u *entity.User) (helpers.TokenPair, error) {
	roles := u.Roles
	if len(roles) == 0 {
		roles = []string{entity.RoleUser}
	}
	tokens, err := s.JWT.Issue(u.ID, u.Email, roles)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("token signing failed")
		return helpers.TokenPair{}, err
	}
	rtHash, err := helpers.HashToken(tokens.RefreshToken)
	if err != nil {
		return helpers.TokenPair{}, err
	}
	if err := s.Users.SetRefreshTokenHash(ctx, u.ID, &rtHash); err != nil {
		return helpers.TokenPair{}, err
	}
	return tokens, nil
}

func userFromInput(in SignupInput, passwordHash string) *entity.User {
	return &entity.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: passwordHash,
		Phone:        in.Phone,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
		Roles:        []string{entity.RoleUser},
	}
}
