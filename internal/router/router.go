package router

import (
	"github.com/gin-gonic/gin"

	"declara/internal/config"
	"declara/internal/domain"
	"declara/internal/handler"
	"declara/internal/middleware"
	"declara/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	fileH *handler.FileHandler,
	sessionH *handler.SessionHandler,
	partnerH *handler.PartnerHandler,
	ruleH *handler.RuleHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("/:id", fileH.Get)
	files.GET("/:id/download-url", fileH.DownloadURL)

	// Session routes - the intake pipeline
	sessions := protected.Group("/sessions")
	sessions.POST("", sessionH.Create)
	sessions.GET("", sessionH.List)
	sessions.GET("/:id", sessionH.Get)
	sessions.POST("/:id/parse", sessionH.Parse)
	sessions.GET("/:id/draft", sessionH.Draft)
	sessions.GET("/:id/outputs", sessionH.Outputs)
	sessions.POST("/:id/corrections", sessionH.RecordCorrection)
	sessions.GET("/:id/corrections", sessionH.ListCorrections)
	sessions.POST("/:id/finalize", sessionH.Finalize)
	sessions.GET("/:id/matches", partnerH.ListMatches)

	// Partner master and the manual-match queue
	partners := protected.Group("/partners")
	partners.POST("", middleware.RequireRole(domain.RoleAdmin), partnerH.Create)
	partners.GET("", partnerH.List)
	protected.POST("/matches/:id/resolve", partnerH.ResolveMatch)

	// Learned customer rules
	ruleRoutes := protected.Group("/rules")
	ruleRoutes.GET("", ruleH.List)
	ruleRoutes.PATCH("/:id", middleware.RequireRole(domain.RoleAdmin), ruleH.SetActive)
	ruleRoutes.POST("/learn", middleware.RequireRole(domain.RoleAdmin), ruleH.TriggerLearn)

	return r
}
