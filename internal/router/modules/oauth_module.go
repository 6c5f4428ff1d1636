package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/shoply/shoply-api/internal/interface/http"
)

// OAuthModule mounts the Google login routes. The module is only registered
// when a client id and secret are configured.

type OAuthModule struct {
	Handler *handlers.OAuthHandler
}

func NewOAuthModule(h *handlers.OAuthHandler) *OAuthModule {
	return &OAuthModule{Handler: h}
}

func (m *OAuthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/auth/google", m.Handler.Redirect)
	rg.GET("/auth/google/callback", m.Handler.Callback)
}
