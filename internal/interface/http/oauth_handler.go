package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/shoply/shoply-api/config"
	"github.com/shoply/shoply-api/internal/application"
	"github.com/shoply/shoply-api/pkg/helpers"
	"github.com/shoply/shoply-api/pkg/response"
)

const (
	oauthStateKeyPrefix = "auth:oauth:state:"
	oauthStateTTL       = 10 * time.Minute

	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// OAuthHandler drives the Google login round trip. The state nonce lives in
// redis so the flow survives multiple API instances.
type OAuthHandler struct {
	Auth           *application.AuthService
	Cookies        *helpers.CookieManager
	Redis          *redis.Client
	Logger         *logrus.Logger
	OAuth          *oauth2.Config
	FrontendOrigin string
}

func NewOAuthHandler(cfg *config.Config, auth *application.AuthService, cookies *helpers.CookieManager, rdb *redis.Client, logger *logrus.Logger) *OAuthHandler {
	return &OAuthHandler{
		Auth:    auth,
		Cookies: cookies,
		Redis:   rdb,
		Logger:  logger,
		OAuth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		FrontendOrigin: cfg.FrontendOrigin,
	}
}

type googleUserinfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Redirect - GET /api/auth/google
func (h *OAuthHandler) Redirect(c *gin.Context) {
	state := uuid.NewString()
	if err := h.Redis.Set(c.Request.Context(), oauthStateKeyPrefix+state, "1", oauthStateTTL).Err(); err != nil {
		h.Logger.WithError(err).Error("failed to store oauth state")
		response.Fail(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.OAuth.AuthCodeURL(state))
}

// Callback - GET /api/auth/google/callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		h.redirectError(c, "oauth_failed")
		return
	}
	if !h.consumeState(c.Request.Context(), state) {
		h.redirectError(c, "invalid_state")
		return
	}

	token, err := h.OAuth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.Logger.WithError(err).Warn("google code exchange failed")
		h.redirectError(c, "oauth_failed")
		return
	}
	info, err := h.fetchUserinfo(c.Request.Context(), token)
	if err != nil {
		h.Logger.WithError(err).Warn("google userinfo fetch failed")
		h.redirectError(c, "oauth_failed")
		return
	}
	if info.Email == "" {
		h.redirectError(c, "google_no_email")
		return
	}

	res, err := h.Auth.OAuthLogin(c.Request.Context(), info.Email, info.Name)
	if err != nil {
		h.Logger.WithError(err).Error("google login failed")
		h.redirectError(c, "oauth_failed")
		return
	}

	// First-time identity: hand the staged verification to the frontend,
	// which posts it back through the confirm endpoint.
	if res.Verification != nil {
		q := url.Values{}
		q.Set("verificationId", res.Verification.ID)
		q.Set("code", res.Code)
		c.Redirect(http.StatusTemporaryRedirect, h.FrontendOrigin+"/oauth/callback?"+q.Encode())
		return
	}

	h.Cookies.SetRefresh(c, res.Tokens.RefreshToken)
	c.Redirect(http.StatusTemporaryRedirect, h.FrontendOrigin+"/oauth/callback")
}

// consumeState validates and burns the nonce in one pass.
func (h *OAuthHandler) consumeState(ctx context.Context, state string) bool {
	n, err := h.Redis.Del(ctx, oauthStateKeyPrefix+state).Result()
	if err != nil {
		h.Logger.WithError(err).Error("failed to consume oauth state")
		return false
	}
	return n == 1
}

func (h *OAuthHandler) fetchUserinfo(ctx context.Context, token *oauth2.Token) (*googleUserinfo, error) {
	client := h.OAuth.Client(ctx, token)
	resp, err := client.Get(googleUserinfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (h *OAuthHandler) redirectError(c *gin.Context, reason string) {
	q := url.Values{}
	q.Set("error", reason)
	c.Redirect(http.StatusTemporaryRedirect, h.FrontendOrigin+"/oauth/callback?"+q.Encode())
}
