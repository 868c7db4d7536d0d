package db

import (
	"hubsync/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Contact{},
		&models.Company{},
		&models.Deal{},
		&models.SyncState{},
		&models.SyncRun{},
	)
}
