package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BCschwifty/sys-API/internal/cache"
	"github.com/BCschwifty/sys-API/internal/daemon"
	"github.com/BCschwifty/sys-API/internal/models"
)

// MetricsController serves current metric values out of the sampled cache.
type MetricsController struct {
	Sampler *cache.Sampler
	Daemon  *daemon.Daemon
}

// GetAll returns the combined snapshot. Unavailable categories are absent
// from the response; only a total failure is an error.
func (mc *MetricsController) GetAll(c *gin.Context) {
	load, err := mc.Daemon.Collect(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrAllMetricsFailed) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, load)
}

func (mc *MetricsController) GetCPU(c *gin.Context) {
	respond(c, func() (any, error) { return mc.Sampler.CPU(c.Request.Context()) })
}

func (mc *MetricsController) GetMemory(c *gin.Context) {
	respond(c, func() (any, error) { return mc.Sampler.Memory(c.Request.Context()) })
}

func (mc *MetricsController) GetDisks(c *gin.Context) {
	respond(c, func() (any, error) { return mc.Sampler.Disks(c.Request.Context()) })
}

func (mc *MetricsController) GetNetwork(c *gin.Context) {
	respond(c, func() (any, error) { return mc.Sampler.Network(c.Request.Context()) })
}

func (mc *MetricsController) GetSensors(c *gin.Context) {
	respond(c, func() (any, error) { return mc.Sampler.Sensors(c.Request.Context()) })
}

func (mc *MetricsController) GetProcesses(c *gin.Context) {
	respond(c, func() (any, error) { return mc.Sampler.Processes(c.Request.Context()) })
}

func (mc *MetricsController) GetConnectivity(c *gin.Context) {
	respond(c, func() (any, error) { return mc.Sampler.Connectivity(c.Request.Context()) })
}

func (mc *MetricsController) GetHost(c *gin.Context) {
	respond(c, func() (any, error) { return mc.Sampler.Host(c.Request.Context()) })
}

// respond maps collection errors onto HTTP statuses.
func respond(c *gin.Context, fetch func() (any, error)) {
	v, err := fetch()
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMetricUnavailable):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrCollectionTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrInsufficientSampleData):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, v)
}
