package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/translation-progress-api/pkg/schema/config"
)

var (
	factDB     *sqlx.DB
	factDriver string
	initOnce   sync.Once
	dbMu       sync.RWMutex
)

// InitFactStore opens the fact store connection for the configured driver.
func InitFactStore(ctx context.Context) error {
	var initErr error
	initOnce.Do(func() {
		if err := config.GetInitError(); err != nil {
			initErr = fmt.Errorf("load database config: %w", err)
			return
		}
		cfg := config.GetConfig()

		var (
			conn *sqlx.DB
			err  error
		)
		switch cfg.Driver {
		case config.DriverSQLite:
			conn, err = OpenSQLite(ctx, cfg.SQLitePath)
		default:
			conn, err = OpenPostgres(ctx, cfg.PostgresURI)
		}
		if err != nil {
			initErr = err
			return
		}

		dbMu.Lock()
		factDB = conn
		factDriver = cfg.Driver
		dbMu.Unlock()
	})
	return initErr
}

// GetDB returns the fact store database instance
func GetDB() *sqlx.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return factDB
}

// Driver returns the driver name the fact store was opened with
func Driver() string {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return factDriver
}

// Close closes the fact store connection
func Close() error {
	dbMu.Lock()
	defer dbMu.Unlock()
	if factDB != nil {
		return factDB.Close()
	}
	return nil
}
