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
	"github.com/sirupsen/logrus"

	"github.com/reservation-desk/backend/internal/client"
	"github.com/reservation-desk/backend/internal/config"
	"github.com/reservation-desk/backend/internal/db"
	"github.com/reservation-desk/backend/internal/handler"
	"github.com/reservation-desk/backend/internal/logger"
	"github.com/reservation-desk/backend/internal/metrics"
	"github.com/reservation-desk/backend/internal/service"
)

// @title Reservation Desk API
// @version 1.0
// @description Reservation timetable and account API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if err := logger.Init(cfg.Log); err != nil {
		logrus.WithError(err).Fatal("failed to init logger")
	}

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		logrus.WithError(err).WithField("timezone", cfg.Server.Timezone).Fatal("invalid TIMEZONE")
	}

	ctx := context.Background()

	// PostgreSQL
	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect postgres")
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to ensure schema")
	}

	// 토큰 / 로그인 잠금
	tokens, err := service.NewTokenIssuer(cfg.Auth)
	if err != nil {
		logrus.WithError(err).Fatal("invalid auth config")
	}

	guard := service.NoopLoginGuard()
	if cfg.Redis.Addr != "" {
		rdb, err := client.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("failed to connect redis")
		}
		defer rdb.Close()

		redisGuard, err := service.NewRedisLoginGuard(rdb, cfg.Auth.LoginMaxFailures, cfg.Auth.LoginLockoutTTL)
		if err != nil {
			logrus.WithError(err).Fatal("invalid login lockout config")
		}
		guard = redisGuard
	} else {
		logrus.Warn("REDIS_ADDR not set, login lockout disabled")
	}

	// 아바타 저장소
	var objects service.ObjectStore
	if cfg.Minio.Endpoint != "" {
		minioStore, err := client.NewMinioStore(ctx, cfg.Minio)
		if err != nil {
			logrus.WithError(err).Fatal("failed to init minio")
		}
		objects = minioStore
	} else {
		logrus.Warn("MINIO_ENDPOINT not set, avatar upload disabled")
	}

	authService := service.NewAuthService(store, service.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, guard, loc)
	if cfg.Auth.RootUsername != "" || cfg.Auth.RootPassword != "" {
		if err := authService.EnsureRoot(ctx, cfg.Auth.RootUsername, cfg.Auth.RootPassword); err != nil {
			logrus.WithError(err).Fatal("failed to ensure root account")
		}
	}
	reservationService := service.NewReservationService(store)
	avatarService := service.NewAvatarService(store, objects)
	movieService := service.NewMovieService(store)

	metrics.Register()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterConfig{
		Reservations:      handler.NewReservationHandler(reservationService),
		Auth:              handler.NewAuthHandler(authService),
		Users:             handler.NewUserHandler(authService, avatarService),
		Movies:            handler.NewMovieHandler(movieService),
		Tokens:            tokens,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		AuthRatePerMinute: cfg.Auth.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
