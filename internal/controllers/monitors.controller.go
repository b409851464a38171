package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BCschwifty/sys-API/internal/models"
	"github.com/BCschwifty/sys-API/internal/monitor"
)

// MonitorsController exposes monitor lifecycle and event queries.
type MonitorsController struct {
	Engine *monitor.Engine
}

// Create registers a new monitor from the request body.
func (mc *MonitorsController) Create(c *gin.Context) {
	var spec models.CreateMonitor
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := mc.Engine.Create(spec)
	if err != nil {
		if errors.Is(err, models.ErrInvalidMonitorSpec) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// List returns all registered monitors.
func (mc *MonitorsController) List(c *gin.Context) {
	c.JSON(http.StatusOK, mc.Engine.List())
}

// Get returns one monitor by id.
func (mc *MonitorsController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid monitor id"})
		return
	}
	m, ok := mc.Engine.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "monitor not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// Delete removes a monitor and all of its engine-held state.
func (mc *MonitorsController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid monitor id"})
		return
	}
	if err := mc.Engine.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Events returns recorded status-change events, optionally filtered by
// monitorId.
func (mc *MonitorsController) Events(c *gin.Context) {
	var filter *uuid.UUID
	if raw := c.Query("monitorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid monitorId"})
			return
		}
		filter = &id
	}
	c.JSON(http.StatusOK, mc.Engine.Events(filter))
}
