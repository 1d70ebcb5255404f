package router

import (
	userapp "github.com/identityhub/auth-service/internal/application"
	"github.com/identityhub/auth-service/internal/container"
	"github.com/identityhub/auth-service/internal/infrastructure/hash"
	pginfra "github.com/identityhub/auth-service/internal/infrastructure/postgres"
	"github.com/identityhub/auth-service/internal/infrastructure/policy"
	handlers "github.com/identityhub/auth-service/internal/interface/http"
	"github.com/identityhub/auth-service/internal/router/modules"
)

// InitModules builds the service graph from the container singletons and
// registers all feature modules. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	hasher := hash.NewArgon2(uint32(cfg.Argon2Time))
	pwdPolicy := policy.New(policy.Rules{
		MinLength:    cfg.PasswordMinLength,
		RequireDigit: cfg.PasswordRequireDigit,
		RequireUpper: cfg.PasswordRequireUpper,
	})

	svc := userapp.NewService(userRepo, hasher, pwdPolicy, logger)
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, logger)))

	var pub userapp.Publisher
	if rp := container.GetRabbitPub(); rp != nil {
		pub = rp
	}
	reset := userapp.NewResetService(
		userRepo,
		userapp.NewRedisTokenStore(container.GetRedis()),
		hasher,
		pwdPolicy,
		pub,
		logger,
		cfg.ResetPasswordURL,
		cfg.ResetTokenTTL,
	)
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(reset, logger)))

	r.AddRoot(modules.NewHealthModule(handlers.NewHealthHandler(container.GetPGPool(), container.GetRedis())))
}
