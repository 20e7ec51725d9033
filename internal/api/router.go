// Package api wires the HTTP routes.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sigfinder/sigfinder-go/internal/config"
	"github.com/sigfinder/sigfinder-go/internal/handler"
	"github.com/sigfinder/sigfinder-go/internal/metrics"
	"github.com/sigfinder/sigfinder-go/internal/middleware"
	"github.com/sigfinder/sigfinder-go/internal/service"
	websock "github.com/sigfinder/sigfinder-go/internal/websocket"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config    *config.Config
	Datasets  *service.DatasetService
	Live      *service.LiveService
	Analysis  *service.AnalysisService
	Hub       *websock.Hub
	Collector *metrics.Collector
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", deps.Collector.Handler())
	r.GET("/ws", func(c *gin.Context) {
		if err := websock.Serve(deps.Hub, c.Writer, c.Request); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
		}
	})

	authHandler := handler.NewAuthHandler(deps.Config.JWTSecret)
	liveHandler := handler.NewLiveHandler(deps.Live)
	markerHandler := handler.NewMarkerHandler(deps.Live)
	datasetHandler := handler.NewDatasetHandler(deps.Datasets)
	analysisHandler := handler.NewAnalysisHandler(deps.Analysis)
	settingsHandler := handler.NewSettingsHandler(deps.Live, deps.Analysis)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", middleware.RateLimit(10, time.Minute), authHandler.Login)

		// Read-only routes stay open; mutating routes require a token.
		api.GET("/live/status", liveHandler.Status)
		api.GET("/markers", markerHandler.List)
		api.GET("/datasets", datasetHandler.List)
		api.GET("/datasets/:id", datasetHandler.Get)
		api.GET("/settings", settingsHandler.GetSettings)

		authed := api.Group("")
		authed.Use(middleware.JWTAuth(deps.Config.JWTSecret))
		{
			live := authed.Group("/live")
			{
				live.POST("/session/start", liveHandler.StartSession)
				live.POST("/session/stop", liveHandler.StopSession)
				live.POST("/session/pause", liveHandler.PauseLogging(true))
				live.POST("/session/resume", liveHandler.PauseLogging(false))
				// Ingest is high rate; cap it well above any real GPS/SDR feed.
				ingest := live.Group("", middleware.RateLimit(6000, time.Minute))
				{
					ingest.POST("/nmea", liveHandler.IngestNMEA)
					ingest.POST("/rssi", liveHandler.IngestRSSI)
				}
			}

			authed.DELETE("/markers", markerHandler.Clear)

			authed.POST("/datasets", datasetHandler.Upload)
			authed.PATCH("/datasets/:id/visible", datasetHandler.SetVisible)
			authed.DELETE("/datasets/:id", datasetHandler.Delete)

			authed.POST("/analysis/run", analysisHandler.Run)

			authed.PUT("/settings/trigger", settingsHandler.SetTrigger)
			authed.PUT("/settings/analysis", settingsHandler.SetMinRSSI)
		}
	}

	return r
}
