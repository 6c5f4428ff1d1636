package router

import (
	"github.com/shoply/shoply-api/internal/application"
	"github.com/shoply/shoply-api/internal/container"
	"github.com/shoply/shoply-api/internal/infrastructure/postgres"
	"github.com/shoply/shoply-api/internal/infrastructure/redisstore"
	handlers "github.com/shoply/shoply-api/internal/interface/http"
	"github.com/shoply/shoply-api/internal/router/modules"
)

// InitModules builds the services from the container singletons and registers
// every feature module. Called once during startup, after the container is
// populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	users := postgres.NewUserRepository(container.GetPGPool())
	verifications := redisstore.NewVerificationRepository(container.GetRedis(), cfg.VerificationRetention)
	resets := redisstore.NewPasswordResetRepository(container.GetRedis(), cfg.ResetRetention)

	verificationSvc := application.NewVerificationService(
		verifications,
		container.GetNotifier(),
		container.GetLogger(),
		cfg.VerificationCodeTTL,
		cfg.VerificationResendCooldown,
		cfg.VerificationMaxAttempts,
	)
	resetSvc := application.NewPasswordResetService(
		resets,
		container.GetNotifier(),
		container.GetLogger(),
		cfg.ResetTokenTTL,
		cfg.ResetRequestCooldown,
		cfg.FrontendOrigin,
	)
	authSvc := application.NewAuthService(users, verificationSvc, resetSvc, container.GetJWT(), container.GetLogger())
	userSvc := application.NewUserService(users, container.GetLogger(), container.GetGCS(), cfg.GCSBucket, container.GetES(), cfg.ESUsersIndex)

	authHandler := handlers.NewAuthHandler(authSvc, container.GetJWT(), container.GetLogger(), container.GetCookies())
	userHandler := handlers.NewUserHandler(userSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))

	if cfg.GoogleOAuthEnabled() {
		oauthHandler := handlers.NewOAuthHandler(cfg, authSvc, container.GetCookies(), container.GetRedis(), container.GetLogger())
		r.Add(modules.NewOAuthModule(oauthHandler))
	}
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
