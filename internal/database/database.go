// Package database opens the embedded store used by the catalog and
// narrows gorm to the small set of operations the repository layer is
// allowed to perform: insert, delete-by-predicate, sorted fetch, and
// transactional commit.
package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readkeeper/read/internal/migrate"
)

// InMemoryDSN keeps the whole store in process memory. Used by tests and
// the -memory override.
const InMemoryDSN = "file::memory:?cache=shared"

type Database struct {
	DB *gorm.DB
}

// Open connects to the sqlite store at dbPath (or an in-memory store when
// inMemory is set) and runs the schema migration pipeline to completion
// before returning the handle. A migration failure aborts the open; a
// half-migrated store is never handed to callers.
func Open(dbPath string, inMemory bool) (*Database, error) {
	dsn := dbPath
	if inMemory {
		dsn = InMemoryDSN
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate.Run(db); err != nil {
		return nil, err
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
