package router

import (
	"recommendationService/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupIndexRoutes(e *echo.Echo, handler *rest.IndexHandler) {
	e.GET("/", handler.Index)
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// SetupRecommendationRoutes mounts the collection; clickLimiter guards the
// click action and may be nil.
func SetupRecommendationRoutes(e *echo.Echo, handler *rest.RecommendationHandler, clickLimiter echo.MiddlewareFunc) {
	recommendations := e.Group("/recommendations")

	recommendations.GET("", handler.ListRecommendations)
	recommendations.GET("/:id", handler.GetRecommendation)
	recommendations.POST("", handler.CreateRecommendation)
	recommendations.PUT("/:id", handler.UpdateRecommendation)
	recommendations.DELETE("/:id", handler.DeleteRecommendation)

	var clickMiddleware []echo.MiddlewareFunc
	if clickLimiter != nil {
		clickMiddleware = append(clickMiddleware, clickLimiter)
	}
	recommendations.PUT("/:id/clicked", handler.ClickRecommendation, clickMiddleware...)
}
