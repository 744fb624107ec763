package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"repair-office/internal/repositories"
	"repair-office/internal/routes"
	"repair-office/pkg/config"
	"repair-office/pkg/database/postgresql"
	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/filestorage"
	applogger "repair-office/pkg/logger"
	"repair-office/pkg/middleware"
	"repair-office/pkg/pdf"
	"repair-office/pkg/service"
	"repair-office/pkg/utils"
	"repair-office/pkg/validation"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	db := postgresql.NewDB(pool, logger)

	cache, err := newCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}

	storage, err := newFileStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	renderer, err := pdf.NewChromePool(ctx, pdf.Options{
		PoolSize:    cfg.PDF.PoolSize,
		ChromePath:  cfg.PDF.ChromePath,
		AcquireWait: cfg.PDF.AcquireWait,
	}, logger.Named("pdf"))
	if err != nil {
		return fmt.Errorf("start pdf renderer: %w", err)
	}
	defer renderer.Close()

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)

	e := newEcho(cfg, logger)
	routes.InitRouter(e, routes.Deps{
		DB:          db,
		TxBeginner:  db,
		Cache:       cache,
		FileStorage: storage,
		Renderer:    renderer,
		JWT:         jwtSvc,
		Config:      cfg,
	}, &routes.Loggers{
		Main:      logger,
		Auth:      logger.Named("auth"),
		Repair:    logger.Named("repair"),
		Project:   logger.Named("project"),
		Quotation: logger.Named("quotation"),
	})

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("server exited")
	return nil
}

func newEcho(cfg *config.Config, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.RequestLogger(logger.Named("http")))

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	if cfg.Storage.Driver != "minio" {
		absPath, err := filepath.Abs(cfg.Server.UploadDir)
		if err != nil {
			logger.Fatal("resolve upload dir", zap.Error(err))
		}
		e.Static(cfg.Storage.PublicBaseURL, absPath)
	}

	return e
}

func newCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (repositories.CacheRepositoryInterface, error) {
	if cfg.Driver != "redis" {
		logger.Info("using in-process cache")
		return repositories.NewMemoryCacheRepository(nil), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddress, err)
	}
	logger.Info("using redis cache", zap.String("address", cfg.RedisAddress))
	return repositories.NewRedisCacheRepository(client), nil
}

func newFileStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (filestorage.FileStorageInterface, error) {
	if cfg.Storage.Driver == "minio" {
		return filestorage.NewMinioFileStorage(ctx, filestorage.MinioConfig{
			Endpoint:   cfg.Storage.MinioEndpoint,
			AccessKey:  cfg.Storage.MinioAccessKey,
			SecretKey:  cfg.Storage.MinioSecretKey,
			Bucket:     cfg.Storage.MinioBucket,
			UseSSL:     cfg.Storage.MinioUseSSL,
			PublicBase: cfg.Storage.PublicBaseURL,
		}, logger.Named("minio"))
	}

	if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return filestorage.NewLocalFileStorage(cfg.Server.UploadDir, cfg.Storage.PublicBaseURL)
}
