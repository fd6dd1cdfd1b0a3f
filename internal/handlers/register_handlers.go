package handlers

import (
	"log/slog"

	"github.com/SscSPs/heartchain_backend/cmd/docs"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/middleware"
	"github.com/SscSPs/heartchain_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerHealthRoutes(r, services.Health)

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerAuthRoutes(r, services.Auth)

	setupAPIRoutes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIRoutes configures the /api group. Admin routes sit behind the JWT middleware.
func setupAPIRoutes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	api := r.Group("/api")
	admin := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret))

	limited := rateLimitMiddleware(cfg.RateLimit)

	registerCampaignRoutes(api, admin, service.Campaign, service.Donation)
	registerDonationRoutes(api, service.Donation)
	registerPaymentRoutes(api, admin, limited, service.Payment, service.Reconciliation)
	registerBlockchainRoutes(api, limited, service.WalletTransaction)
}

// rateLimitMiddleware builds the per-IP limiter for public write routes. An
// invalid rate disables limiting rather than the routes.
func rateLimitMiddleware(rate string) gin.HandlerFunc {
	instance, err := middleware.NewIPRateLimiter(rate)
	if err != nil {
		slog.Warn("Invalid RATE_LIMIT, rate limiting disabled", slog.String("rate", rate), slog.String("error", err.Error()))
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(instance)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
