package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/khoahotran/profile-builder/pkg/logger"
	"github.com/khoahotran/profile-builder/pkg/metrics"
)

type RouterConfig struct {
	ServiceName    string
	UploadDir      string
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig, profileHandler *ProfileHandler, pictureHandler *PictureHandler, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.ServiceName),
		CorrelationIDMiddleware(),
		RequestLogger(log),
		metrics.GinMiddleware(),
		CORS(cfg.AllowedOrigins),
		ErrorMiddleware(log),
	)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Profile API Server is running"})
	})
	router.GET("/metrics", metrics.Handler())
	router.Static("/uploads", cfg.UploadDir)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		profile := api.Group("/profile")
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)

			profile.POST("/upload-picture", pictureHandler.UploadPicture)
			profile.DELETE("/picture", pictureHandler.DeletePicture)

			profile.PUT("/education", profileHandler.AddEducation)
			profile.DELETE("/education/:id", profileHandler.DeleteEducation)

			profile.PUT("/projects", profileHandler.AddProject)
			profile.DELETE("/projects/:id", profileHandler.DeleteProject)

			profile.PUT("/skills", profileHandler.AddSkill)
			profile.DELETE("/skills/:id", profileHandler.DeleteSkill)
		}
	}

	return router
}
