// Package migrate upgrades a catalog store through its schema versions,
// ending at the relational Book/Author/Series model. The pipeline runs
// once, during database open, before any other code touches the store.
package migrate

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/readkeeper/read/internal/entities"
	"github.com/readkeeper/read/internal/logger"
)

// CurrentVersion is the schema version steady-state code expects.
const CurrentVersion = 4

// MigrationError aborts the whole pipeline. The failing stage's
// transaction is rolled back, so the store is left at the last fully
// applied version, never in between.
type MigrationError struct {
	Stage string
	Err   error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration stage %s failed: %v", e.Stage, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

type stage struct {
	name  string
	from  int
	apply func(tx *gorm.DB) error
}

var stages = []stage{
	{name: "v1-to-v2", from: 1, apply: migrateV1toV2},
	{name: "v2-to-v3", from: 2, apply: migrateV2toV3},
	{name: "v3-to-v4", from: 3, apply: migrateV3toV4},
}

// Run brings the store up to CurrentVersion. Fresh stores are created at
// the final schema and stamped; stores that predate version tracking are
// treated as version 1. Each stage commits atomically together with its
// version bump.
func Run(db *gorm.DB) error {
	log := logger.WithComponent("migrate")

	if err := db.AutoMigrate(&schemaInfo{}); err != nil {
		return &MigrationError{Stage: "version-tracking", Err: err}
	}

	version, err := storedVersion(db)
	if err != nil {
		return &MigrationError{Stage: "version-tracking", Err: err}
	}

	if version == 0 {
		if err := initFresh(db); err != nil {
			return &MigrationError{Stage: "init", Err: err}
		}
		log.Debugf("created fresh store at schema version %d", CurrentVersion)
		return nil
	}

	for _, st := range stages {
		if st.from < version {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := st.apply(tx); err != nil {
				return err
			}
			return setVersion(tx, st.from+1)
		})
		if err != nil {
			return &MigrationError{Stage: st.name, Err: err}
		}
		log.Infof("migrated schema v%d to v%d", st.from, st.from+1)
	}
	return nil
}

// storedVersion reports the store's schema version, 0 for a fresh store.
func storedVersion(db *gorm.DB) (int, error) {
	var info schemaInfo
	err := db.First(&info).Error
	if err == nil {
		return info.Version, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	// No stamp. A legacy_books table means the store predates version
	// tracking and starts the pipeline at version 1.
	if db.Migrator().HasTable("legacy_books") {
		return 1, nil
	}
	return 0, nil
}

func setVersion(tx *gorm.DB, version int) error {
	var info schemaInfo
	err := tx.First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&schemaInfo{Version: version}).Error
	}
	if err != nil {
		return err
	}
	info.Version = version
	return tx.Save(&info).Error
}

func initFresh(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&entities.Book{},
			&entities.Author{},
			&entities.Series{},
			&entities.BookAuthor{},
		); err != nil {
			return err
		}
		return setVersion(tx, CurrentVersion)
	})
}
