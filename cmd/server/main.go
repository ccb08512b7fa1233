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
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"customer-svc/internal/api/auth"
	"customer-svc/internal/api/customers"
	"customer-svc/internal/blobstore"
	"customer-svc/internal/config"
	"customer-svc/internal/loaders"
	"customer-svc/internal/metrics"
	"customer-svc/internal/utils"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := utils.InitLogger(cfg.LogLevel, cfg.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer utils.Zlog.Sync()

	ctx := context.Background()

	db, err := loaders.NewPostgresClient(ctx, cfg.DatabaseURL)
	if err != nil {
		utils.Zlog.Fatal("Failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	rdb, err := loaders.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		utils.Zlog.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	photos, err := blobstore.New(blobstore.Config{
		Bucket:          cfg.PhotoBucket,
		Region:          cfg.PhotoRegion,
		AccessKeyID:     cfg.PhotoAccessKey,
		SecretAccessKey: cfg.PhotoSecretKey,
		Endpoint:        cfg.PhotoEndpoint,
		PublicBaseURL:   cfg.PhotoPublicBase,
	})
	if err != nil {
		utils.Zlog.Fatal("Failed to initialize blob store", zap.Error(err))
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(m.Instrument())

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	tokens := auth.RegisterRoutes(api, cfg)
	pool := customers.RegisterRoutes(api, db, photos, rdb, tokens, m, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		utils.Zlog.Info("Starting server",
			zap.String("port", cfg.ServerPort),
			zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Zlog.Error("Server shutdown failed", zap.Error(err))
	}
	pool.Stop(shutdownCtx)

	utils.Zlog.Info("Shutdown complete")
}
