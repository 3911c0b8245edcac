package httptransport

import (
	"log/slog"

	"github.com/campwire/community-core/internal/ratelimit"
	"github.com/campwire/community-core/internal/token"
	"github.com/campwire/community-core/internal/transport/http/handler"
	"github.com/campwire/community-core/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// rateExempt is the explicit allow-list of routes the credential rate gate
// never applies to, by policy.
var rateExempt = []string{"/me"}

func NewRouter(logger *slog.Logger, accountHandler *handler.AccountHandler, itemHandler *handler.ItemHandler, tokens *token.Service, limiter ratelimit.Limiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens, logger)
	gate := middleware.RateGate(limiter, logger, rateExempt)

	// Credential endpoints are the only rate-gated routes.
	auth := r.Group("/auth", gate)
	auth.POST("/register", accountHandler.Register)
	auth.POST("/login", accountHandler.Login)

	me := r.Group("/me", authMW)
	me.GET("", accountHandler.Me)
	me.PATCH("", accountHandler.UpdateMe)

	items := r.Group("/items", authMW)
	items.POST("/:id/bookmark", itemHandler.ToggleBookmark)
	items.DELETE("/:id", itemHandler.Delete)

	return r
}
