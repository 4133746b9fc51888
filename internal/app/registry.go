package app

import (
	"net/http"
	"strings"

	"go-employees/internal/config"
	"go-employees/internal/employee"
	"go-employees/internal/messaging/kafka"
	"go-employees/internal/middleware"
	"go-employees/internal/shared/apperror"
	"go-employees/internal/shared/response"
	"go-employees/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// NewRouter builds the engine with the middleware chain and every module.
// rdb may be nil.
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ContextLogger(logger))
	router.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst))

	if err := registerModules(router, cfg, db, rdb, logger); err != nil {
		return nil, err
	}
	return router, nil
}

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	publisher := employee.NewOutboxEventPublisher(outboxRepo, cfg.Kafka.Topic)
	employeeService := employee.NewService(db, employeeRepo, publisher, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	webHandler := web.NewHandler(apiBase(cfg.Server.APIPrefix))

	// --- Routes Registration ---
	if err := web.RegisterRoutes(router, webHandler); err != nil {
		return err
	}
	router.GET("/healthz", healthCheck(db))

	employee.RegisterRoutes(router.Group("/"), employeeHandler, rdb, cfg.Redis.IdempotencyTTL)
	if prefix := apiBase(cfg.Server.APIPrefix); prefix != "" {
		employee.RegisterRoutes(router.Group(prefix), employeeHandler, rdb, cfg.Redis.IdempotencyTTL)
	}

	return nil
}

// apiBase normalizes the prefix to "/api" form; "" and "/" mean none.
func apiBase(prefix string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, apperror.WrapAs(apperror.ErrServiceUnavailable, err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
