package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BCschwifty/sys-API/internal/history"
)

// HistoryController serves the recorded load snapshots.
type HistoryController struct {
	Store *history.Store
}

// Get returns history entries, optionally bounded by from/to query params
// (RFC 3339). Bounds are exclusive; an omitted bound is open.
func (hc *HistoryController) Get(c *gin.Context) {
	from, ok := parseTimeParam(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, "to")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, hc.Store.Query(from, to))
}

func parseTimeParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " timestamp, want RFC 3339"})
		return time.Time{}, false
	}
	return t, true
}
