package server

import (
	"github.com/labstack/echo/v4"

	"github.com/ethica-ai/ethica/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Dataset routes
	apiRoutes.POST("/upload", routes.UploadDatasetHandler)
	apiRoutes.POST("/fingerprint/generate", routes.GenerateFingerprintHandler)
	apiRoutes.POST("/bias/analyze", routes.AnalyzeBiasHandler)
	apiRoutes.POST("/bias/analyze/async", routes.AnalyzeBiasAsyncHandler)

	// Assessment routes
	apiRoutes.POST("/assessment/score", routes.ScoreAssessmentHandler)
	apiRoutes.POST("/report/composite", routes.CompositeReportHandler)

	// Session routes
	apiRoutes.GET("/sessions/:id/files", routes.GetSessionFilesHandler)
	apiRoutes.DELETE("/sessions/:id", routes.DeleteSessionHandler)
}
