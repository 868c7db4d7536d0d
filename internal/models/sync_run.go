package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncRun is one row per job invocation, kept for audit. Detail holds the
// per-object-type breakdown (pages, records, retries, watermark, error).
type SyncRun struct {
	ID         string         `gorm:"primaryKey;type:text"`
	StartedAt  time.Time      `gorm:"type:timestamptz;not null;index"`
	FinishedAt *time.Time     `gorm:"type:timestamptz"`
	Status     string         `gorm:"type:text;not null"`
	Detail     datatypes.JSON `gorm:"type:jsonb"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
