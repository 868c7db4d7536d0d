package models

import (
	"time"

	"gorm.io/datatypes"
)

type Contact struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	HubSpotID string `gorm:"column:hubspot_id;type:text;not null;uniqueIndex"`

	Email          *string `gorm:"type:text;index"`
	FirstName      *string `gorm:"type:text"`
	LastName       *string `gorm:"type:text"`
	Phone          *string `gorm:"type:text"`
	Company        *string `gorm:"type:text"`
	LeadStatus     *string `gorm:"type:text"`
	LifecycleStage *string `gorm:"type:text"`

	Archived      bool           `gorm:"not null;default:false"`
	RawProperties datatypes.JSON `gorm:"type:jsonb"`

	ExternalCreatedAt *time.Time `gorm:"column:created_at;type:timestamptz"`
	ExternalUpdatedAt *time.Time `gorm:"column:updated_at;type:timestamptz;index"`
	LastSyncedAt      time.Time  `gorm:"type:timestamptz;not null"`
}

func (Contact) TableName() string {
	return "hubspot_contacts"
}
