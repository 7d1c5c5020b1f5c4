package app

import (
	"log"
	"os"

	"github.com/fisker/zhr-backend/pkg/config"
	"github.com/fisker/zhr-backend/pkg/database"
	"github.com/fisker/zhr-backend/pkg/logger"
	pkgredis "github.com/fisker/zhr-backend/pkg/redis"
)

// Bootstrap 初始化基础设施（logger, database, redis）
func Bootstrap(cfgPath string) (*config.Config, error) {
	// 支持通过环境变量指定配置文件路径
	if cfgPath == "" {
		cfgPath = os.Getenv("ZHR_CONFIG")
		if cfgPath == "" {
			cfgPath = "config/config.yaml"
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	// Initialize logger
	if err := logger.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	logger.Infof("Database initialized successfully")

	// Initialize Redis (optional, for multi-instance delivery worker lease)
	if err := pkgredis.Init(&cfg.Redis); err != nil {
		logger.Warnf("⚠️  Redis initialization failed: %v", err)
		logger.Info("   → Delivery worker will run without a lease (single-instance mode)")
	} else if cfg.Redis.Enabled {
		logger.Infof("✅ Redis initialized successfully - delivery worker lease enabled")
	} else {
		logger.Info("ℹ️  Redis is disabled in config - single-instance mode")
	}

	return cfg, nil
}
