package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gormlogger "gorm.io/gorm/logger"

	httpadp "toolshare-backend/internal/adapter/http"
	idem "toolshare-backend/internal/adapter/middleware"
	"toolshare-backend/internal/adapter/repository/mysql"
	"toolshare-backend/internal/config"
	"toolshare-backend/internal/domain/borrow"
	"toolshare-backend/internal/infrastructure/cache"
	"toolshare-backend/internal/infrastructure/db"
	"toolshare-backend/internal/infrastructure/kafka"
	ucBorrow "toolshare-backend/internal/usecase/borrow"
	"toolshare-backend/internal/usecase/report"
	"toolshare-backend/internal/usecase/sweep"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api: exit", slog.Any("err", err))
		os.Exit(1)
	}
}

func run() error {
	// optional local .env; real environment wins
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormLevel := gormlogger.Warn
	if level <= slog.LevelDebug {
		gormLevel = gormlogger.Info
	}
	gdb, err := db.OpenGorm(cfg.MySQLDSN(), gormLevel)
	if err != nil {
		return err
	}
	logger.Info("gorm: connected")
	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, gdb); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var publisher borrow.Publisher = borrow.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := kafka.NewSyncProducer(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		p := kafka.NewPublisher(prod, cfg.KafkaTopic, logger)
		defer p.Close()
		publisher = p
		logger.Info("kafka: publishing borrow request events", slog.String("topic", cfg.KafkaTopic))
	}

	borrows := mysql.NewBorrowRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	sweeper := sweep.New(borrows, tx,
		sweep.WithLocker(cache.NewRedisLocker(rdb), cfg.SweepLockTTL),
		sweep.WithPublisher(publisher),
		sweep.WithLogger(logger))
	borrowUC := ucBorrow.NewUsecase(borrows, tx,
		ucBorrow.WithPublisher(publisher),
		ucBorrow.WithReconciler(sweeper),
		ucBorrow.WithLogger(logger),
		ucBorrow.WithDefaultDurationDays(cfg.DefaultDurationDays))
	reportUC := report.NewUsecase(borrows)

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweeper.Run(ctx, cfg.SweepInterval)
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	// routes
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	health := httpadp.NewHandler(map[string]httpadp.Check{
		"mysql": sqlDB.PingContext,
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	httpadp.Register(e,
		health,
		httpadp.NewBorrowHandler(borrowUC),
		httpadp.NewReportHandler(reportUC),
		idem.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		stop()
		<-sweepDone
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", slog.Any("err", err))
	}
	<-sweepDone
	logger.Info("stopped")
	return nil
}
