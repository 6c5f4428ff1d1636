package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/shoply/shoply-api/internal/domain/entity"
	handlers "github.com/shoply/shoply-api/internal/interface/http"
	"github.com/shoply/shoply-api/internal/interface/middleware"
	"github.com/shoply/shoply-api/pkg/helpers"
)

// UserModule wires the profile surface. Everything here requires a bearer
// token; search additionally requires the admin role.

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/me", m.Handler.GetMe)
		auth.PATCH("/me", m.Handler.UpdateMe)
		auth.POST("/me/avatar", m.Handler.UploadAvatar)
		auth.GET("/search", middleware.RequireRoles(entity.RoleAdmin), m.Handler.Search)
	}
}
