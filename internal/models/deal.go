package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Deal struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	HubSpotID string `gorm:"column:hubspot_id;type:text;not null;uniqueIndex"`

	Name      *string          `gorm:"type:text;index"`
	Stage     *string          `gorm:"type:text;index"`
	Pipeline  *string          `gorm:"type:text"`
	Amount    *decimal.Decimal `gorm:"type:numeric(30,10)"`
	CloseDate *time.Time       `gorm:"type:timestamptz"`
	OwnerID   *string          `gorm:"column:owner_id;type:text;index"`

	Archived      bool           `gorm:"not null;default:false"`
	RawProperties datatypes.JSON `gorm:"type:jsonb"`

	ExternalCreatedAt *time.Time `gorm:"column:created_at;type:timestamptz"`
	ExternalUpdatedAt *time.Time `gorm:"column:updated_at;type:timestamptz;index"`
	LastSyncedAt      time.Time  `gorm:"type:timestamptz;not null"`
}

func (Deal) TableName() string {
	return "hubspot_deals"
}
