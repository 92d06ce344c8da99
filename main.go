package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/config"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/router"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	db, err := config.OpenStore(ctx, cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	utils.InfoLogger.Printf("Connected to %s database", cfg.DBDriver)

	app := services.NewContainer(services.Deps{
		Store:    db,
		Hub:      hub.New(hub.DefaultHistory),
		Tokens:   utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		Revoker:  config.OpenRevoker(ctx, cfg),
		Capacity: cfg.HostelCapacity,
	})

	monitor := services.NewOverdueMonitor(app.Payments, cfg.OverdueInterval)
	monitor.Start()
	defer monitor.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.SetupRouter(app, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("graceful shutdown: %v", err)
	}
}
