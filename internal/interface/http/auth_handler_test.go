package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/shoply/shoply-api/internal/application"
	"github.com/shoply/shoply-api/internal/domain/entity"
	"github.com/shoply/shoply-api/internal/domain/repository"
	"github.com/shoply/shoply-api/internal/interface/middleware"
	"github.com/shoply/shoply-api/pkg/helpers"
	"github.com/shoply/shoply-api/pkg/validation"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*entity.User{}} }

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(u.Email)
	for _, e := range m.users {
		if e.Email == email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.Email = email
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) SetRefreshTokenHash(_ context.Context, id string, hash *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, in *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[in.ID]
	if !ok {
		return repository.ErrNotFound
	}
	*u = *in
	return nil
}

func (m *memUserRepo) SetPassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memVerifRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Verification
}

func newMemVerifRepo() *memVerifRepo { return &memVerifRepo{byID: map[string]*entity.Verification{}} }

func (m *memVerifRepo) Put(_ context.Context, v *entity.Verification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.byID[v.ID] = &cp
	return nil
}

func (m *memVerifRepo) Get(_ context.Context, id string) (*entity.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memVerifRepo) Update(_ context.Context, v *entity.Verification) error {
	return m.Put(context.Background(), v)
}

func (m *memVerifRepo) Delete(_ context.Context, v *entity.Verification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, v.ID)
	return nil
}

type memResetRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.PasswordReset
}

func newMemResetRepo() *memResetRepo { return &memResetRepo{byID: map[string]*entity.PasswordReset{}} }

func (m *memResetRepo) Put(_ context.Context, r *entity.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *memResetRepo) Get(_ context.Context, id string) (*entity.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memResetRepo) GetByEmail(_ context.Context, email string) (*entity.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memResetRepo) Update(_ context.Context, r *entity.PasswordReset) error {
	return m.Put(context.Background(), r)
}

type nopNotifier struct{}

func (nopNotifier) SendVerificationCode(context.Context, string, string, time.Duration) error {
	return nil
}
func (nopNotifier) SendPasswordReset(context.Context, string, string, time.Duration) error {
	return nil
}

var initValidation sync.Once

func newTestRouter(t *testing.T) (*gin.Engine, *application.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	initValidation.Do(validation.Init)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwt := helpers.NewJWTManager("test-access", "test-refresh", 15*time.Minute, 168*time.Hour)
	verifications := application.NewVerificationService(newMemVerifRepo(), nopNotifier{}, logger, 5*time.Minute, 30*time.Second, 5)
	resets := application.NewPasswordResetService(newMemResetRepo(), nopNotifier{}, logger, 15*time.Minute, time.Minute, "http://localhost:3000")
	auth := application.NewAuthService(newMemUserRepo(), verifications, resets, jwt, logger)

	cookies := helpers.NewCookieManager("localhost", false, 168*time.Hour)
	h := NewAuthHandler(auth, jwt, logger, cookies)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/signin", h.Signin)
	api.POST("/auth/refresh", h.Refresh)
	api.POST("/auth/logout", middleware.Auth(jwt), h.Logout)
	api.GET("/auth/me", middleware.Auth(jwt), h.Me)
	api.POST("/auth/password/forgot", h.ForgotPassword)
	return r, auth
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.RefreshCookieName {
			return c
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

func TestSignupEndpoint_SetsRefreshCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/signup", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "access_token")

	c := refreshCookie(t, w)
	require.True(t, c.HttpOnly)
	require.Equal(t, "/api/auth", c.Path)
}

func TestSignupEndpoint_ValidationError(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/signup", gin.H{
		"name": "Alice", "email": "not-an-email", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "email")
	require.Contains(t, w.Body.String(), "password")
}

func TestSigninEndpoint_WrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/signup", gin.H{
		"name": "Bob", "email": "bob@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/auth/signin", gin.H{"email": "bob@example.com", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid credentials")

	// Unknown email carries the same message.
	w = postJSON(t, r, "/api/auth/signin", gin.H{"email": "nobody@example.com", "password": "whatever"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestRefreshEndpoint_NoCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/refresh", gin.H{})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefreshEndpoint_RotatesAndKillsOldToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/signup", gin.H{
		"name": "Carol", "email": "carol@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	old := refreshCookie(t, w)

	w = postJSON(t, r, "/api/auth/refresh", gin.H{}, old)
	require.Equal(t, http.StatusOK, w.Code)
	rotated := refreshCookie(t, w)
	require.NotEqual(t, old.Value, rotated.Value)

	// Replaying the rotated-out cookie must fail.
	w = postJSON(t, r, "/api/auth/refresh", gin.H{}, old)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = postJSON(t, r, "/api/auth/refresh", gin.H{}, rotated)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMeEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/signup", gin.H{
		"name": "Dana", "email": "dana@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "dana@example.com")
}

func TestForgotPasswordEndpoint_AlwaysOK(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/password/forgot", gin.H{"email": "no-such-user@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"ok":true`)
}

func TestLogoutEndpoint_ClearsCookieAndSession(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/auth/signup", gin.H{
		"name": "Eve", "email": "eve@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	rt := refreshCookie(t, w)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Stored hash is gone; the cookie no longer refreshes.
	w = postJSON(t, r, "/api/auth/refresh", gin.H{}, rt)
	require.Equal(t, http.StatusForbidden, w.Code)
}
