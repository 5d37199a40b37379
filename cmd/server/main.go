package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"refearn/config"
	"refearn/internal/cache"
	"refearn/internal/database"
	"refearn/internal/domain"
	"refearn/internal/repository"
	"refearn/internal/router"
	"refearn/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logrus.Fatalf("migrate: %v", err)
	}

	settingRepo := repository.NewSettingRepository(db)
	defaults := service.NewPolicyProvider(settingRepo, cfg.Commission).Defaults()
	defaults[domain.SettingMaxReferrals] = strconv.Itoa(cfg.Commission.MaxReferrals)
	if err := settingRepo.SeedDefaults(defaults); err != nil {
		logrus.Fatalf("seed settings: %v", err)
	}

	var cacheClient *cache.Client
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			logrus.Warnf("redis unavailable, caching disabled: %v", err)
		} else {
			cacheClient = cache.New(rdb, cfg.Redis.TTL)
		}
	}

	engine := router.Setup(cfg, db, cacheClient)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logrus.Infof("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server shutdown: %v", err)
	}
	logrus.Info("server stopped")
}
