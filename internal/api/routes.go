package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/threatflux/secureReviewGo/docs" // swagger spec
	"github.com/threatflux/secureReviewGo/internal/middleware"
	"github.com/threatflux/secureReviewGo/internal/utils"
)

func (s *Server) registerRoutes() {
	s.logger.Debug("Registering API routes")

	api := s.router.Group("/api", middleware.SecureHeaders())
	if s.limiter != nil {
		api.Use(middleware.RateLimitMiddleware(s.limiter))
	}

	api.GET("/", s.info)
	api.GET("/health", s.health)

	api.POST("/scan/analyze", s.analyzeScan)
	api.GET("/scan/:scanId", s.getScan)
	api.GET("/attack-simulation/:scanId", s.getAttackSimulation)
	api.GET("/secure-fix/:vulnId", s.getSecureFix)
	api.GET("/compliance/:scanId", s.getCompliance)

	api.GET("/demo/sample-code", s.getSampleCode)
	api.GET("/education/lessons", s.getLessons)

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"),
		ginSwagger.DocExpansion("list"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	s.router.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Not Found")
	})
}
