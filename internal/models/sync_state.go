package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncState is the per-object-type checkpoint row. LastSyncTime is the
// watermark used as the lower bound of the next incremental fetch; it moves
// only after a fully successful run. The remaining fields are bookkeeping and
// may change on failed attempts.
type SyncState struct {
	ObjectType    string         `gorm:"primaryKey;type:text"`
	LastSyncTime  *time.Time     `gorm:"type:timestamptz;index"`
	LastSuccessAt *time.Time     `gorm:"type:timestamptz"`
	LastAttemptAt *time.Time     `gorm:"type:timestamptz"`
	LastError     *string        `gorm:"type:text"`
	StatsJSON     datatypes.JSON `gorm:"column:stats;type:jsonb"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
