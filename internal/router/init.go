package router

import (
	appuser "github.com/tikkit/tikkit-api/internal/application"
	"github.com/tikkit/tikkit-api/internal/container"
	"github.com/tikkit/tikkit-api/internal/infrastructure/messaging"
	pginfra "github.com/tikkit/tikkit-api/internal/infrastructure/postgres"
	"github.com/tikkit/tikkit-api/internal/infrastructure/search"
	handlers "github.com/tikkit/tikkit-api/internal/interface/http"
	"github.com/tikkit/tikkit-api/internal/interface/middleware"
	"github.com/tikkit/tikkit-api/internal/router/modules"
	"github.com/tikkit/tikkit-api/pkg/helpers"
)

type UserModuleDeps struct {
	Service *appuser.Service
	Handler *handlers.UserHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetDB())

	service := appuser.NewService(
		repo,
		helpers.NewBcryptHasher(cfg.BcryptCost),
		container.GetLogger(),
		buildListeners()...,
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{
		Service: service,
		Handler: handler,
	}
}

// buildListeners hooks the optional integrations that main managed to connect.
func buildListeners() []appuser.RegistrationListener {
	cfg := container.GetConfig()
	var ls []appuser.RegistrationListener
	if pub := container.GetRabbitPub(); pub != nil {
		ls = append(ls, messaging.NewWelcomeMailer(pub, cfg))
	}
	if es := container.GetES(); es != nil {
		ls = append(ls, search.NewUserIndexer(es, cfg.ESUsersIndex))
	}
	return ls
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	userDeps := buildUserDeps()

	var allow middleware.AllowFunc
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	r.Add(modules.NewUserModule(userDeps.Handler, container.GetRedis(), cfg.RateLimitRegister, cfg.RateLimitCheckEmail, allow))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetRedis()))
	}
}
