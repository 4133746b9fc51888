package app

import (
	"go-employees/internal/config"
	"go-employees/internal/employee"
	"go-employees/internal/messaging/kafka"
	"go-employees/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure and returns the HTTP engine together with
// a cleanup func releasing the connections.
func BuildApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	log := logger.Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	log.Info("database connection established")

	if cfg.Database.AutoMigrate {
		if err := gormDB.AutoMigrate(&employee.Employee{}, &kafka.OutboxEvent{}); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		log.Info("schema migrated")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries, logger)
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		log.Info("redis connection established")
	} else {
		log.Info("redis not configured, idempotency keys are ignored")
	}

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = sqlDB.Close()
	}

	router, err := NewRouter(cfg, gormDB, rdb, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return router, cleanup, nil
}
