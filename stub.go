package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservas/config"
	"reservas/database"
	"reservas/handlers"
	"reservas/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// runStub serves the in-memory reservation API until SIGINT or SIGTERM.
func runStub(logger *zap.Logger) {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := database.InitDB()
	if err != nil {
		logger.Sugar().Fatalf("stub: %v", err)
	}

	hb := handlers.NewHandlerBundle(store, config.AppConfig.TokenTTL)
	router := routes.NewRouter(hb, logger, config.AppConfig.MaxRequestsPerMin)

	port := config.AppConfig.StubPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting stub API on %s (seed accounts %s, %s)...",
		srv.Addr, database.SeedAdminEmail, database.SeedStudentEmail)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("stub: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("stub: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("stub: server forced to shutdown: %v", err)
	}
	logger.Sugar().Info("stub: server stopped gracefully")
}
