package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"cloudquote/internal/alicloud"
	"cloudquote/internal/config"
	"cloudquote/internal/domain"
	"cloudquote/internal/interpret"
	"cloudquote/internal/llm/dashscope"
	"cloudquote/internal/logging"
	"cloudquote/internal/pipeline"
	"cloudquote/internal/port"
	"cloudquote/internal/pricing"
	"cloudquote/internal/repository/postgres"
	"cloudquote/internal/resolve"
	"cloudquote/internal/router"
	"cloudquote/internal/service"
	s3storage "cloudquote/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	repo := postgres.NewBatchRepository(db)

	var storage port.ObjectStorage
	if cfg.Storage.Bucket != "" {
		storage, err = s3storage.NewClient(ctx, cfg.Storage, logger.Named("s3"))
		if err != nil {
			return err
		}
	} else {
		logger.Info("no storage bucket configured, workbook upload disabled")
	}

	llm := dashscope.NewClient(cfg.DashScope, logger.Named("dashscope"))
	ecs := alicloud.NewClient(cfg.AliCloud, logger.Named("alicloud"))

	var cache port.InterpretationCache
	if cfg.Pipeline.CacheInterpretations {
		cache = interpret.NewMemoryCache()
	}
	interpreter := interpret.New(llm, cache, logger.Named("interpret"))
	resolver := resolve.New(ecs, cfg.Pipeline.FailFast, logger.Named("resolve"))
	quoter := pricing.New(ecs, pricing.Options{
		ChargeType:   domain.ChargeType(cfg.Pipeline.ChargeType),
		Unit:         domain.PriceUnit(cfg.Pipeline.PriceUnit),
		Period:       cfg.Pipeline.Period,
		SystemDiskGB: cfg.Pipeline.SystemDiskGB,
	}, logger.Named("pricing"))

	runner := pipeline.NewRunner(interpreter, resolver, quoter, pipeline.Options{
		Region:   cfg.AliCloud.Region,
		Category: domain.ProductCategory(cfg.Pipeline.Category),
		Workers:  cfg.Pipeline.Workers,
	}, logger.Named("pipeline"))

	svc := service.NewQuotationService(runner, llm, repo, storage, cfg.AliCloud.Region, logger.Named("service"))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router.New(cfg.Server.Mode, svc, db, logger.Named("http")),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
