package customers

import (
	"github.com/gin-gonic/gin"

	"customer-svc/internal/config"
	"customer-svc/internal/loaders"
	"customer-svc/internal/metrics"
	"customer-svc/internal/middleware"
)

// RegisterRoutes wires the customer endpoints under /customers and starts the
// import worker pool. The returned pool must be stopped on shutdown.
func RegisterRoutes(
	router *gin.RouterGroup,
	db *loaders.PostgresClient,
	photos Uploader,
	rdb *loaders.RedisClient,
	tokens middleware.TokenValidator,
	m *metrics.Metrics,
	cfg *config.Config,
) *WorkerPool {
	store := NewPostgresStore(db)
	service := NewService(store, photos, m)

	queueCapacity := cfg.BatchSize * cfg.WorkerCount
	pool := NewWorkerPool(cfg.WorkerCount, queueCapacity)
	pool.SetProcessFunc(service.ProcessImportJob)
	pool.Start()

	controller := NewController(service, pool)

	group := router.Group("/customers")
	group.Use(middleware.NoStore())
	group.Use(middleware.RequireAuth(tokens))
	group.Use(middleware.ReadThrough(rdb, cfg.CacheTTL))

	group.GET("", controller.List)
	group.POST("", controller.Create)
	group.PUT("", controller.Update)
	group.DELETE("", controller.Delete)
	group.POST("/import", controller.Import)

	return pool
}
