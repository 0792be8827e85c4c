// Command migrate applies the embedded MySQL schema migrations.
//
//	migrate up
//	migrate down [steps]
//	migrate version
package main

import (
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"campus-rentals-backend/internal/config"
	"campus-rentals-backend/internal/infrastructure/db"
	"campus-rentals-backend/internal/infrastructure/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up | down [steps] | version")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cfg := config.Load()
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal(err)
	}
	if cfg.DBDriver != config.DriverMySQL {
		log.Fatalf("migrations target MySQL; DB_DRIVER=%s uses DB_AUTO_MIGRATE instead", cfg.DBDriver)
	}

	gdb, err := db.OpenGorm(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()

	m, err := db.NewMigrator(sqlDB)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil {
				log.Fatalf("invalid steps %q", os.Args[2])
			}
		}
		err = m.Down(steps)
	case "version":
		v, dirty, ok, verr := m.Version()
		if verr != nil {
			log.Fatal(verr)
		}
		if !ok {
			log.Info("no migrations applied yet")
			return
		}
		log.WithFields(log.Fields{"version": v, "dirty": dirty}).Info("migration version")
	default:
		usage()
	}
	if err != nil {
		log.Fatal(err)
	}
}
