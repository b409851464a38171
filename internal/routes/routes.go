package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BCschwifty/sys-API/internal/controllers"
	"github.com/BCschwifty/sys-API/internal/middleware"
)

// Controllers bundles the handler sets the router wires up.
type Controllers struct {
	Metrics   *controllers.MetricsController
	History   *controllers.HistoryController
	Monitors  *controllers.MonitorsController
	WebSocket *controllers.WebSocketController
}

// Register mounts all API routes on r. jwtSecret empty disables auth.
func Register(r *gin.Engine, ctrl Controllers, jwtSecret string) {
	limiter := middleware.NewRateLimiter(100, 200)
	api := r.Group("/", middleware.RateLimit(limiter), middleware.Auth(jwtSecret))

	metrics := api.Group("/metrics")
	{
		metrics.GET("", ctrl.Metrics.GetAll)
		metrics.GET("/cpu", ctrl.Metrics.GetCPU)
		metrics.GET("/memory", ctrl.Metrics.GetMemory)
		metrics.GET("/disk", ctrl.Metrics.GetDisks)
		metrics.GET("/network", ctrl.Metrics.GetNetwork)
		metrics.GET("/sensors", ctrl.Metrics.GetSensors)
		metrics.GET("/processes", ctrl.Metrics.GetProcesses)
		metrics.GET("/connectivity", ctrl.Metrics.GetConnectivity)
	}

	api.GET("/system", ctrl.Metrics.GetHost)
	api.GET("/history", ctrl.History.Get)

	monitors := api.Group("/monitors")
	{
		monitors.POST("", ctrl.Monitors.Create)
		monitors.GET("", ctrl.Monitors.List)
		monitors.GET("/:id", ctrl.Monitors.Get)
		monitors.DELETE("/:id", ctrl.Monitors.Delete)
	}
	api.GET("/events", ctrl.Monitors.Events)

	api.GET("/ws", ctrl.WebSocket.Serve)

	// Self-instrumentation, outside the rate limiter so scrapes never
	// compete with API clients.
	r.GET("/internal/metrics", gin.WrapH(promhttp.Handler()))
}
