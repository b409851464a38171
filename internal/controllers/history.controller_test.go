package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BCschwifty/sys-API/internal/clock"
	"github.com/BCschwifty/sys-API/internal/history"
	"github.com/BCschwifty/sys-API/internal/models"
)

func newHistoryRouter(store *history.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hc := &HistoryController{Store: store}
	r.GET("/history", hc.Get)
	return r
}

func TestHistoryGetBounds(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewManual(base)
	store := history.NewStore(clk)

	for i := 0; i < 3; i++ {
		store.Record(&models.SystemLoad{})
		clk.Advance(time.Minute)
	}

	r := newHistoryRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/history?from="+base.Format(time.RFC3339), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var entries []history.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// from is exclusive, so the entry recorded exactly at base is omitted.
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}

func TestHistoryGetNoParamsReturnsAll(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	store := history.NewStore(clk)
	store.Record(&models.SystemLoad{})
	store.Record(&models.SystemLoad{})

	r := newHistoryRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	r.ServeHTTP(w, req)

	var entries []history.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}

func TestHistoryGetRejectsBadTimestamp(t *testing.T) {
	store := history.NewStore(clock.System())
	r := newHistoryRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/history?from=yesterday", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
