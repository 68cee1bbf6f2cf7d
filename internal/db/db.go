package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens a GORM connection for the given URL. The scheme picks the
// dialector: postgres:// or sqlite://.
func Init(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(databaseURL, "postgres://"):
		dialector = postgres.Open(databaseURL)
		log.Println("Connecting to PostgreSQL database...")
	case strings.HasPrefix(databaseURL, "sqlite://"):
		dsn := strings.TrimPrefix(databaseURL, "sqlite://")
		// Foreign keys are off by default in SQLite; the referential
		// integrity checks depend on this pragma.
		if !strings.Contains(dsn, "_pragma") {
			dsn += "?_pragma=foreign_keys(1)"
		}
		dialector = sqlite.Open(dsn)
		log.Println("Connecting to SQLite database at", dsn)
	default:
		return nil, fmt.Errorf("invalid database URL %q: must start with postgres:// or sqlite://", databaseURL)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if dialector.Name() == "sqlite" {
		// SQLite allows one writer; funneling through one connection
		// turns lock contention into queueing instead of busy errors.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Println("Database connection established.")
	return gdb, nil
}
