package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "medcare/docs"
	"medcare/internal/cache"
	"medcare/internal/repository"
	"medcare/internal/service"
	"medcare/internal/storage"
	"medcare/internal/transport/rest"
	"medcare/internal/transport/websocket"
	"medcare/pkg/database"
	"medcare/pkg/metrics"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	cfg, logger := a.cfg, a.logger

	if cfg.Migrations.AutoApply {
		if err := database.RunMigrations(ctx, a.db, cfg.Migrations.Dir, logger); err != nil {
			logger.Error("failed to apply migrations", zap.Error(err))
			return err
		}
	}

	var fileStorage storage.FileStorage
	if cfg.S3.Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3, logger)
		if err != nil {
			logger.Error("failed to initialize S3 storage", zap.Error(err))
			return err
		}
		fileStorage = s3Storage
		logger.Info("S3 storage initialized", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		logger.Warn("S3 storage is not configured, profile image uploads are disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New("medcare", reg)

	readCache := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	readCache.OnLookup(func(entity string, hit bool) {
		result := "miss"
		if hit {
			result = "hit"
		}
		appMetrics.CacheLookups.WithLabelValues(entity, result).Inc()
	})

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	services := service.NewServices(service.Deps{
		Repos:       repository.NewRepositories(a.db),
		Logger:      logger,
		Config:      cfg,
		FileStorage: fileStorage,
		Cache:       readCache,
		Metrics:     appMetrics,
		Notifier:    hub,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	rest.NewHandler(services, logger, cfg, appMetrics, hub).InitRoutes(router)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logger.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))

	select {
	case err := <-serveErr:
		logger.Error("server failed", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
