package employee

import (
	"time"

	"go-employees/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the collection at /employees/ and single records at
// /employees/:id/. rdb may be nil, which turns off Idempotency-Key replay.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	idempotencyTTL time.Duration,
) {
	employees := r.Group("/employees")
	{
		employees.GET("/", handler.List)
		employees.POST("/",
			middleware.Idempotency(rdb, idempotencyTTL),
			handler.Create,
		)

		employees.GET("/:id/", handler.GetByID)
		employees.PUT("/:id/", handler.Update)
		employees.DELETE("/:id/", handler.Delete)
	}
}
