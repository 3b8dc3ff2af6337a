package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restroadmin/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const pingTimeout = 5 * time.Second

// DB is the process-wide connection pool. It is built once in main and passed
// to whatever needs storage.
type DB struct {
	*sql.DB
}

// Connect opens the pool, applies pool limits and checks the server is reachable.
func Connect(ctx context.Context, cfg config.Database) (*DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{DB: conn}, nil
}

// ConnectAndMigrate connects and, when enabled, brings the schema up to date.
func ConnectAndMigrate(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if !cfg.RunMigrations {
		return db, nil
	}
	if err := Migrate(cfg.Database.DSN()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded up migrations. It uses its own connection because
// closing the migrator closes the database handle it was given.
func Migrate(dsn string) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		conn.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		driver.Close()
		return fmt.Errorf("read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logrus.WithFields(logrus.Fields{"source": srcErr, "database": dbErr}).Warn("failed to close migrator")
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("database schema is up to date")
	return nil
}

// Tx runs fn inside a transaction. The transaction is committed when fn returns
// nil and rolled back otherwise, including when fn panics.
func Tx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logrus.WithError(rbErr).Error("failed to rollback transaction after panic")
			}
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logrus.WithError(rbErr).Error("failed to rollback transaction")
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

// Shutdown closes the pool. It is safe to call on a nil handle.
func (db *DB) Shutdown() error {
	if db == nil || db.DB == nil {
		return nil
	}
	return db.DB.Close()
}
