package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BCschwifty/sys-API/internal/bus"
	"github.com/BCschwifty/sys-API/internal/cache"
	"github.com/BCschwifty/sys-API/internal/clock"
	"github.com/BCschwifty/sys-API/internal/config"
	"github.com/BCschwifty/sys-API/internal/connectivity"
	"github.com/BCschwifty/sys-API/internal/controllers"
	"github.com/BCschwifty/sys-API/internal/daemon"
	"github.com/BCschwifty/sys-API/internal/history"
	"github.com/BCschwifty/sys-API/internal/monitor"
	"github.com/BCschwifty/sys-API/internal/provider"
	"github.com/BCschwifty/sys-API/internal/routes"
	"github.com/BCschwifty/sys-API/internal/stream"
)

func main() {
	cfg := config.Load()
	clk := clock.System()

	hw := provider.New(clk)
	checker := connectivity.NewChecker(cfg.PingTargets)

	var pinger cache.ConnectivityChecker
	if checker != nil {
		pinger = checker
	}

	sampler := cache.NewSampler(hw, pinger, clk, cache.Options{
		DefaultTTL: cfg.CacheTTL,
		TTLs: map[cache.Category]time.Duration{
			cache.CategoryProcesses:    cfg.SlowCacheTTL,
			cache.CategoryConnectivity: cfg.SlowCacheTTL,
		},
		MaxSampleAge:   cfg.MaxSampleAge,
		SampleDelay:    cfg.SampleDelay,
		CollectTimeout: cfg.CollectTimeout,
	})

	b := bus.New()
	defer b.Close()

	store := history.NewStore(clk)
	historian := history.NewManager(store, b, cfg.Retention)
	engine := monitor.New(clk, b, cfg.DefaultInertia)
	hub := stream.NewHub(b)
	collector := daemon.New(sampler, b, clk, cfg.PollInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	historian.Start(ctx)
	defer historian.Stop()
	engine.Start(ctx)
	defer engine.Stop()
	hub.Start(ctx)
	defer hub.Stop()
	go collector.Run(ctx)

	r := gin.Default()
	routes.Register(r, routes.Controllers{
		Metrics:   &controllers.MetricsController{Sampler: sampler, Daemon: collector},
		History:   &controllers.HistoryController{Store: historian.Store()},
		Monitors:  &controllers.MonitorsController{Engine: engine},
		WebSocket: controllers.NewWebSocketController(hub),
	}, cfg.JWTSecret)

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
