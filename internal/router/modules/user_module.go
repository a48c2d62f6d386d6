package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/tikkit/tikkit-api/internal/interface/http"
	"github.com/tikkit/tikkit-api/internal/interface/middleware"
)

// UserModule wires the registration endpoints.
// Public: POST /api/users/register, GET /api/users/check-email
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client

	RegisterPerMinute   int
	CheckEmailPerMinute int
	Allow               middleware.AllowFunc
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, registerPerMinute, checkEmailPerMinute int, allow middleware.AllowFunc) *UserModule {
	return &UserModule{
		Handler:             h,
		Redis:               rdb,
		RegisterPerMinute:   registerPerMinute,
		CheckEmailPerMinute: checkEmailPerMinute,
		Allow:               allow,
	}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, m.RegisterPerMinute, time.Minute, middleware.KeyByIPAndPath(), m.Allow)
	checkLimiter := middleware.RateLimit(m.Redis, m.CheckEmailPerMinute, time.Minute, middleware.KeyByIPAndPath(), m.Allow)

	users := rg.Group("/users")
	users.POST("/register", registerLimiter, m.Handler.Register)
	users.GET("/check-email", checkLimiter, m.Handler.CheckEmail)
}
