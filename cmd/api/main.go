package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	httpadp "campus-rentals-backend/internal/adapter/http"
	repo "campus-rentals-backend/internal/adapter/repository/mysql"
	"campus-rentals-backend/internal/config"
	"campus-rentals-backend/internal/infrastructure/cache"
	"campus-rentals-backend/internal/infrastructure/db"
	"campus-rentals-backend/internal/infrastructure/logging"
	"campus-rentals-backend/internal/usecase/distribution"
	"campus-rentals-backend/internal/usecase/loan"
	"campus-rentals-backend/internal/usecase/structure"
)

func main() {
	cfg := config.Load()
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if cfg.DBAutoMigrate {
		if err := gdb.AutoMigrate(repo.Models()...); err != nil {
			log.Fatalf("auto-migrate: %v", err)
		}
		log.Info("gorm: auto-migrated schema")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	checks := map[string]httpadp.Check{
		"db":    sqlDB.PingContext,
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	repos := repo.NewRepos(gdb)
	tx := repo.NewGormUoW(gdb)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.Register(e, httpadp.Routes{
		Health:        httpadp.NewHandler(checks),
		Loans:         httpadp.NewLoanHandler(loan.NewUsecase(repos, tx)),
		Structures:    httpadp.NewStructureHandler(structure.NewUsecase(repos, tx)),
		Distributions: httpadp.NewDistributionHandler(distribution.NewUsecase(repos, tx)),
		JWTSecret:     []byte(cfg.JWTSecret),
		Redis:         rdb,
		IdempTTL:      time.Duration(cfg.IdempTTLSecs) * time.Second,
	})

	addr := ":" + cfg.AppPort
	log.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
