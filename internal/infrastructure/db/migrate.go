package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/mysql/*.sql
var mysqlMigrations embed.FS

// MigrationSource exposes the embedded MySQL migrations.
func MigrationSource() (source.Driver, error) {
	return iofs.New(mysqlMigrations, "migrations/mysql")
}

// Migrator runs the embedded schema migrations against a MySQL pool. The
// pool DSN must allow multiStatements.
type Migrator struct {
	m *migrate.Migrate
}

func NewMigrator(sqlDB *sql.DB) (*Migrator, error) {
	src, err := MigrationSource()
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	drv, err := mysql.WithInstance(sqlDB, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("open migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "mysql", drv)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration.
func (mg *Migrator) Up() error {
	err := mg.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("migrate: no new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	v, _, _ := mg.m.Version()
	log.WithField("version", v).Info("migrate: up")
	return nil
}

// Down rolls back steps migrations.
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("invalid steps %d", steps)
	}
	err := mg.m.Steps(-steps)
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("migrate: nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	v, _, verr := mg.m.Version()
	if errors.Is(verr, migrate.ErrNilVersion) {
		log.Info("migrate: rolled back to empty schema")
		return nil
	}
	log.WithField("version", v).Info("migrate: down")
	return nil
}

// Version reports the applied version; ok is false when nothing is applied.
func (mg *Migrator) Version() (version uint, dirty, ok bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, true, nil
}

// Close releases the source. The *sql.DB stays owned by the caller.
func (mg *Migrator) Close() error {
	srcErr, _ := mg.m.Close()
	return srcErr
}
