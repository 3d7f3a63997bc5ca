package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Compatibility links a product to a vehicle it fits.
type Compatibility struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_compat_product_vehicle"`
	VehicleID     uuid.UUID `gorm:"column:vehicle_id;type:uuid;not null;uniqueIndex:idx_compat_product_vehicle"`
	TechnicalNote *string   `gorm:"column:technical_note"`
	Product       *Product  `gorm:"foreignKey:ProductID"`
	Vehicle       *Vehicle  `gorm:"foreignKey:VehicleID"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns an ID when the column default is unavailable (sqlite).
func (c *Compatibility) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
