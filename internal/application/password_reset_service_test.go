package application

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestResets(t *testing.T, cooldown time.Duration) (*PasswordResetService, *fakeResetRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeResetRepo()
	mail := &fakeNotifier{}
	svc := NewPasswordResetService(repo, mail, testLogger(), 15*time.Minute, cooldown, "http://localhost:3000")
	return svc, repo, mail
}

func parseResetLink(t *testing.T, link string) (resetID, token string) {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	require.NotEmpty(t, q.Get("resetId"))
	require.NotEmpty(t, q.Get("token"))
	return q.Get("resetId"), q.Get("token")
}

func TestResetRequest_MailsLinkWithClaim(t *testing.T) {
	svc, repo, mail := newTestResets(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "Alice@Example.com"))
	require.Equal(t, 1, mail.count())
	require.Equal(t, "alice@example.com", mail.last().To)

	resetID, _ := parseResetLink(t, mail.last().Link)
	r, err := repo.Get(ctx, resetID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", r.Email)
	require.False(t, r.Used)
}

func TestResetRequest_CooldownSendsOneEmail(t *testing.T) {
	svc, _, mail := newTestResets(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "bob@example.com"))
	// Second request inside the cooldown still reports success, sends nothing.
	require.NoError(t, svc.Request(ctx, "bob@example.com"))
	require.Equal(t, 1, mail.count())
}

func TestResetVerifyAndConsume_SingleUse(t *testing.T) {
	svc, _, mail := newTestResets(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "carol@example.com"))
	resetID, token := parseResetLink(t, mail.last().Link)

	email, err := svc.VerifyAndConsume(ctx, resetID, token)
	require.NoError(t, err)
	require.Equal(t, "carol@example.com", email)

	_, err = svc.VerifyAndConsume(ctx, resetID, token)
	require.ErrorIs(t, err, ErrInvalidReset)
}

func TestResetVerifyAndConsume_WrongToken(t *testing.T) {
	svc, _, mail := newTestResets(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "dave@example.com"))
	resetID, _ := parseResetLink(t, mail.last().Link)

	_, err := svc.VerifyAndConsume(ctx, resetID, "not-the-token")
	require.ErrorIs(t, err, ErrInvalidReset)
}

func TestResetVerifyAndConsume_Expired(t *testing.T) {
	svc, repo, mail := newTestResets(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "erin@example.com"))
	resetID, token := parseResetLink(t, mail.last().Link)

	r, err := repo.Get(ctx, resetID)
	require.NoError(t, err)
	r.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, repo.Update(ctx, r))

	_, err = svc.VerifyAndConsume(ctx, resetID, token)
	require.ErrorIs(t, err, ErrInvalidReset)
}

func TestResetVerifyAndConsume_UnknownID(t *testing.T) {
	svc, _, _ := newTestResets(t, time.Minute)

	_, err := svc.VerifyAndConsume(context.Background(), "missing", "token")
	require.ErrorIs(t, err, ErrInvalidReset)
}
