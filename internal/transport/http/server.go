package http

import (
	"context"

	"github.com/gin-gonic/gin"

	"legaldraft-analyzer/internal/bootstrap"
	"legaldraft-analyzer/internal/platform/database"
	rabbitmqClient "legaldraft-analyzer/internal/platform/rabbitmq"
	redisClient "legaldraft-analyzer/internal/platform/redis"
	"legaldraft-analyzer/internal/transport/http/handler"
	"legaldraft-analyzer/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(app.Logger), middleware.CORS())
	router.MaxMultipartMemory = app.Config.App.MaxUploadBytes

	healthHandler := handler.NewHealthHandler(app.Config.App.Name, app.Config.App.Env, app.StartedAt, dependencyChecks(app))
	analysisHandler := handler.NewAnalysisHandler(app.Analysis, app.Config.App.MaxUploadBytes)
	feedbackHandler := handler.NewFeedbackHandler(app.Feedback)

	router.GET("/healthz", healthHandler.Check)

	v1 := router.Group("/api/v1")
	v1.POST("/analyze", analysisHandler.Analyze)
	v1.POST("/feedback", feedbackHandler.Save)

	// Unversioned paths used by the existing frontend.
	router.POST("/analyze", analysisHandler.Analyze)
	router.POST("/feedback", feedbackHandler.Save)

	return router
}

func dependencyChecks(app *bootstrap.App) map[string]handler.DependencyCheck {
	checks := map[string]handler.DependencyCheck{
		"database": func(ctx context.Context) error {
			return database.Ping(ctx, app.DB)
		},
	}
	if app.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx, app.Redis)
		}
	}
	if app.MQConn != nil {
		checks["rabbitmq"] = func(context.Context) error {
			return rabbitmqClient.Healthy(app.MQConn)
		}
	}
	return checks
}
