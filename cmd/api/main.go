package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "sanogestion/api/swagger" // swagger docs
	"sanogestion/internal/app"
	"sanogestion/internal/config"
	"sanogestion/internal/database"
	"sanogestion/internal/session"

	"github.com/gin-gonic/gin"
)

// @title           Sano Gestion API
// @version         1.0
// @description     Back office of Sano Logistic: personnel, departmental sales, ledgers, invoices, weekly reports and meeting minutes.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name sano_session
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg.Database.DSN(), !cfg.IsRelease())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	application, err := app.New(cfg, db)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Bootstrap(ctx); err != nil {
		log.Fatalf("Administrator bootstrap failed: %v", err)
	}

	go application.Hub.Run()
	defer application.Hub.Stop()

	sweeper, err := session.StartSweeper(application.Sessions, cfg.Session.SweepSchedule)
	if err != nil {
		log.Fatalf("Invalid SESSION_SWEEP_SCHEDULE: %v", err)
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
