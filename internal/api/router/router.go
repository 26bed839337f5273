package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sportcity/escenarios-export/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "escenarios-export-service",
		})
	})

	exportHandler := handler.NewExportHandler(deps)

	v1 := r.Group("/api/v1")
	{
		scenarios := v1.Group("/scenarios/export")
		{
			scenarios.POST("", exportHandler.StartScenarioExport)
			scenarios.GET("/:job_id/status", exportHandler.ScenarioExportStatus)
			scenarios.GET("/:job_id/download", exportHandler.ScenarioExportDownload)
			scenarios.GET("/:job_id/download/file", exportHandler.ScenarioExportFile)
		}

		subScenarios := v1.Group("/sub-scenarios/export")
		{
			subScenarios.POST("", exportHandler.StartSubScenarioExport)
			subScenarios.GET("/:job_id/status", exportHandler.SubScenarioExportStatus)
			subScenarios.GET("/:job_id/download", exportHandler.SubScenarioExportDownload)
			subScenarios.GET("/:job_id/download/file", exportHandler.SubScenarioExportFile)
		}

		exports := v1.Group("/exports")
		{
			exports.GET("/stats", exportHandler.Stats)
			exports.POST("/cleanup", exportHandler.Cleanup)
		}
	}

	return r
}
