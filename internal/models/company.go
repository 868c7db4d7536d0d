package models

import (
	"time"

	"gorm.io/datatypes"
)

type Company struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	HubSpotID string `gorm:"column:hubspot_id;type:text;not null;uniqueIndex"`

	Name     *string `gorm:"type:text;index"`
	Domain   *string `gorm:"type:text;index"`
	Phone    *string `gorm:"type:text"`
	Industry *string `gorm:"type:text"`
	City     *string `gorm:"type:text"`
	State    *string `gorm:"type:text"`
	Country  *string `gorm:"type:text"`
	Website  *string `gorm:"type:text"`

	Archived      bool           `gorm:"not null;default:false"`
	RawProperties datatypes.JSON `gorm:"type:jsonb"`

	ExternalCreatedAt *time.Time `gorm:"column:created_at;type:timestamptz"`
	ExternalUpdatedAt *time.Time `gorm:"column:updated_at;type:timestamptz;index"`
	LastSyncedAt      time.Time  `gorm:"type:timestamptz;not null"`
}

func (Company) TableName() string {
	return "hubspot_companies"
}
