package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fisker/zhr-backend/internal/api/router"
	"github.com/fisker/zhr-backend/pkg/config"
	"github.com/fisker/zhr-backend/pkg/database"
	"github.com/fisker/zhr-backend/pkg/logger"
	pkgredis "github.com/fisker/zhr-backend/pkg/redis"
)

// StartServer 启动 HTTP 服务器并在收到退出信号后优雅关闭
func StartServer(application *App) {
	cfg := application.Config
	handlers := application.Handlers

	// Setup router
	r := router.Setup(
		handlers.Auth,
		handlers.ForwardingConfig,
		handlers.Dispatcher,
		handlers.Notification,
		handlers.Employee,
		handlers.Organization,
		application.Services.Auth,
	)

	// Start delivery retry worker
	if application.DeliveryWorker != nil {
		application.DeliveryWorker.Start()
	}

	// Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.APIPort)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Print startup banner
	printStartupBanner(cfg)

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Infof("\nShutting down gracefully...")

	// Create shutdown context with 10s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// 1. Shutdown HTTP server (stop accepting new requests first)
	logger.Infof("  → Stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Infof("  Warning: HTTP server shutdown error: %v", err)
	} else {
		logger.Infof("  ✓ HTTP server stopped")
	}

	// 2. Stop delivery retry worker (finish the in-flight batch)
	if application.DeliveryWorker != nil {
		logger.Infof("  → Stopping delivery worker...")
		application.DeliveryWorker.Stop()
		logger.Infof("  ✓ Delivery worker stopped")
	}

	// 3. Close Redis if enabled
	if cfg.Redis.Enabled {
		logger.Infof("  → Closing Redis...")
		pkgredis.Close()
		logger.Infof("  ✓ Redis closed")
	}

	// 4. Close database
	logger.Infof("  → Closing database...")
	database.Close()
	logger.Infof("  ✓ Database closed")

	logger.Infof("")
	logger.Infof("Shutdown complete")
	logger.Infof("")
}

// printStartupBanner 打印启动横幅
func printStartupBanner(cfg *config.Config) {
	logger.Infof("")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("ZHR Backend - Approval Workflow & Notification Platform")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("")
	logger.Infof("Features:")
	logger.Infof("   • Two-Level Approval Workflow - leave / loan / advance-salary / overtime / attendance")
	logger.Infof("   • Configurable Approver Resolution - manager, department head, specific employee")
	logger.Infof("   • Notification Delivery - in-app push, email/sms webhook with retry")
	logger.Infof("   • Live Push - WebSocket notifications for online users")
	logger.Infof("")
	logger.Infof("🔀 Endpoints:")
	logger.Infof("   • API        - http://localhost:%d/api", cfg.Server.APIPort)
	logger.Infof("   • WebSocket  - ws://localhost:%d/api/ws/notifications", cfg.Server.APIPort)
	logger.Infof("   • Metrics    - http://localhost:%d/metrics", cfg.Server.APIPort)
	logger.Infof("")
	logger.Infof("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Infof("")
}
