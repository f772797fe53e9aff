package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/httpserver"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/search"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/pkg/config"
	pkgdb "github.com/Skotchmaster/restaurant/pkg/db"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	loggingmw "github.com/Skotchmaster/restaurant/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)
	baseCtx := logging.IntoContext(context.Background(), logger)

	ctx, cancel := context.WithTimeout(baseCtx, 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	store := repo.New(db)
	if err := store.Migrate(baseCtx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var publisher service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		defer producer.Close()
		publisher = producer
	} else {
		logger.Info("event_stream_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	menuSvc := &service.MenuService{Repo: store, Events: publisher}
	if cfg.ESURL != "" {
		ctx, cancel := context.WithTimeout(baseCtx, 10*time.Second)
		index, err := search.NewMenuIndex(ctx, search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		cancel()
		if err != nil {
			logger.Warn("search_index_disabled", "error", err)
		} else {
			menuSvc.Index = index
			if err := menuSvc.ReindexAll(baseCtx); err != nil {
				logger.Warn("menu_reindex_failed", "error", err)
			}
		}
	}

	authSvc := &service.AuthService{Repo: store, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL, PasswordCost: cfg.BcryptCost}
	if err := authSvc.SeedAdmin(baseCtx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Menu:         &httpserver.MenuHTTP{Svc: menuSvc},
		Tables:       &httpserver.TableHTTP{Svc: &service.TableService{Repo: store, Events: publisher}},
		Reservations: &httpserver.ReservationHTTP{Svc: &service.ReservationService{Repo: store, Events: publisher}},
		Orders:       &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: store, Events: publisher}},
		Auth:         &httpserver.AuthHTTP{Svc: authSvc},
		JWTSecret:    cfg.JWTSecret,
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("stopped")
}
