package router

import (
	"customerSegmentation/internal/middleware"
	"customerSegmentation/internal/rest"
	"customerSegmentation/pkg/metrics"

	"github.com/labstack/echo/v4"
)

func SetupSegmentationRoutes(api *echo.Group, handler *rest.SegmentationHandler) {
	segments := api.Group("/segments")

	segments.GET("", handler.ListSegments)
	segments.GET("/:name", handler.GetSegment)
	segments.POST("/predict", handler.Predict)
	segments.POST("/report", handler.Report)

	api.GET("/strategy", handler.Strategy)
	api.GET("/categories", handler.Categories)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.SegmentationHandler, jwtSecret string) {
	admin := api.Group("/admin", middleware.AuthMiddleware(jwtSecret), middleware.AdminOnly())

	admin.GET("/bundle", handler.BundleInfo)
}

func SetupOpsRoutes(e *echo.Echo, handler *rest.SegmentationHandler) {
	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
