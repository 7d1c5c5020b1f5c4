package app

import (
	"github.com/fisker/zhr-backend/internal/notification"
	"github.com/fisker/zhr-backend/internal/scheduler"
	"github.com/fisker/zhr-backend/pkg/config"
	"github.com/fisker/zhr-backend/pkg/database"
	"github.com/fisker/zhr-backend/pkg/logger"
)

// App 应用程序上下文
type App struct {
	Config         *config.Config
	Repos          *Repositories
	Services       *Services
	Handlers       *Handlers
	DeliveryWorker *scheduler.DeliveryWorker
}

// Initialize 初始化应用程序
func Initialize(cfgPath string) (*App, error) {
	// 1. Bootstrap (logger, database, redis)
	cfg, err := Bootstrap(cfgPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			database.Close()
		}
	}()

	// 2. Initialize repositories
	repos := InitializeRepositories()
	logger.Infof("Repositories initialized")

	// 3. Initialize services (approval engine + notification pipeline)
	services := InitializeServices(repos, cfg)
	logger.Infof("Services initialized")

	// 4. Initialize delivery retry worker
	var worker *scheduler.DeliveryWorker
	if cfg.Notification.WorkerEnabled {
		worker = scheduler.NewDeliveryWorker(
			&cfg.Notification,
			repos.DeliveryAttempt,
			repos.Notification,
			notification.NewEmailSender(&cfg.Notification),
			notification.NewSMSSender(&cfg.Notification),
		)
		logger.Infof("Delivery worker initialized")
	} else {
		logger.Warnf("Delivery worker disabled - email/sms deliveries will stay pending")
	}

	// 5. Initialize handlers
	handlers := InitializeHandlers(repos, services)
	logger.Infof("Handlers initialized")

	return &App{
		Config:         cfg,
		Repos:          repos,
		Services:       services,
		Handlers:       handlers,
		DeliveryWorker: worker,
	}, nil
}
