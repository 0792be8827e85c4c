// Command syncdebt rebuilds the cached debt figures of every property from
// its active loans.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	repo "campus-rentals-backend/internal/adapter/repository/mysql"
	"campus-rentals-backend/internal/config"
	"campus-rentals-backend/internal/infrastructure/db"
	"campus-rentals-backend/internal/infrastructure/logging"
	"campus-rentals-backend/internal/usecase/debt"
)

func main() {
	cfg := config.Load()
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := repo.NewRepos(gdb)
	rep, err := debt.NewSyncer(repos.Properties, repo.NewGormUoW(gdb)).SyncAll(ctx)
	if err != nil {
		log.Fatalf("sync: %v", err)
	}
	log.WithFields(log.Fields{
		"updated":   rep.Updated,
		"unchanged": rep.Unchanged,
		"failed":    rep.Failed,
	}).Info("debt sync finished")
	if rep.Failed > 0 {
		os.Exit(1)
	}
}
