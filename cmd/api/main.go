package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "treasury-desk/internal/adapter/http"
	appmw "treasury-desk/internal/adapter/middleware"
	"treasury-desk/internal/adapter/pubsub"
	"treasury-desk/internal/adapter/repository/mysql"
	"treasury-desk/internal/config"
	"treasury-desk/internal/domain/event"
	"treasury-desk/internal/infrastructure/cache"
	"treasury-desk/internal/infrastructure/db"
	"treasury-desk/internal/infrastructure/logger"
	flaguc "treasury-desk/internal/usecase/flag"
	"treasury-desk/internal/usecase/progress"
	"treasury-desk/internal/usecase/watch"
	withdrawaluc "treasury-desk/internal/usecase/withdrawal"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), cfg.AppEnv, zl)
	if err != nil {
		zl.Fatal("open mysql", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := mysql.AutoMigrate(gdb); err != nil {
			zl.Fatal("auto migrate", zap.Error(err))
		}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		zl.Fatal("mysql handle", zap.Error(err))
	}
	checks := []httpadp.Check{{Name: "mysql", Ping: sqlDB.PingContext}}

	withdrawals := mysql.NewWithdrawalRepository(gdb)
	flags := mysql.NewFlagRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	progressUC := progress.NewUsecase(withdrawals)
	// read side for the hub; it never publishes
	hub := watch.NewHub(flaguc.NewUsecase(flags, nil, nil, zl), progressUC, zl)
	defer hub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		pub  event.Publisher = hub
		idem echo.MiddlewareFunc
	)
	if cfg.RedisEnabled {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, zl)
		if err != nil {
			zl.Fatal("open redis", zap.Error(err))
		}
		defer rdb.Close()

		// every instance hears every change, including its own
		pub = pubsub.NewRedisPublisher(rdb, cfg.EventsChannel)
		sub := pubsub.NewRedisSubscriber(rdb, cfg.EventsChannel, hub.Notify, zl)
		if err := sub.Start(ctx); err != nil {
			zl.Fatal("subscribe change events", zap.Error(err))
		}
		idem = appmw.Idempotency(rdb, cfg.IdempotencyTTL(), zl)
		checks = append(checks, httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	} else {
		zl.Warn("redis disabled: idempotency off, live updates limited to this instance")
	}

	withdrawalUC := withdrawaluc.NewUsecase(withdrawals, tx, pub, zl)
	flagUC := flaguc.NewUsecase(flags, tx, pub, zl)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				zl.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zl.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	httpadp.Register(e, httpadp.Handlers{
		Health:      httpadp.NewHandler(checks...),
		Withdrawals: httpadp.NewWithdrawalHandler(withdrawalUC, progressUC, zl),
		Flags:       httpadp.NewFlagHandler(flagUC, zl),
		Streams:     httpadp.NewStreamHandler(hub, zl),
	}, idem)

	addr := ":" + cfg.AppPort
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
