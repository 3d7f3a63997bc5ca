package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle is one make/model/year-range entry parts can be matched against.
type Vehicle struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Make          string          `gorm:"column:make;not null"`
	Model         string          `gorm:"column:model;not null"`
	YearFrom      int             `gorm:"column:year_from;not null"`
	YearTo        int             `gorm:"column:year_to;not null"`
	Engine        *string         `gorm:"column:engine"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	Compatibility []Compatibility `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the column default is unavailable (sqlite).
func (v *Vehicle) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
