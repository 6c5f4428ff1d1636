package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/shoply/shoply-api/internal/interface/http"
	"github.com/shoply/shoply-api/internal/interface/middleware"
	"github.com/shoply/shoply-api/pkg/helpers"
)

// AuthModule wires the credential lifecycle routes.
// Public: signup, signup/initiate, verify, signin, refresh, password flows
// Protected: logout, me

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", m.Handler.Signup)
	rg.POST("/auth/signup/initiate", m.Handler.SignupInitiate)
	rg.POST("/auth/verify/confirm", m.Handler.VerifyConfirm)
	rg.POST("/auth/verify/request", m.Handler.VerifyResend)
	rg.POST("/auth/signin", m.Handler.Signin)
	rg.POST("/auth/refresh", m.Handler.Refresh)
	rg.POST("/auth/password/forgot", m.Handler.ForgotPassword)
	rg.POST("/auth/password/reset", m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/auth/me", m.Handler.Me)
	}
}
