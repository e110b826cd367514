package app

import (
	"mock_interview_backend/docs"
	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/middleware"
	"mock_interview_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/signup", c.auth.Signup)
			auth.POST("/login", c.auth.Login)
		}

		interview := api.Group("/interview")
		{
			interview.GET("/questions", c.interview.Questions)
			interview.POST("/evaluate", c.interview.Evaluate)
		}

		authorized := api.Group("")
		authorized.Use(middleware.AuthMiddleware(cfg))
		{
			authorized.GET("/auth/profile", c.auth.GetProfile)
			authorized.PUT("/auth/profile", c.auth.UpdateProfile)
			authorized.POST("/auth/avatar", c.auth.UploadAvatar)
			authorized.POST("/interviews/save", c.interview.SaveResult)
			authorized.GET("/interviews/history", c.interview.History)
		}
	}
}
