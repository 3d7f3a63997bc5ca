package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents one catalog part. Stock is the live, shared count that
// cart reconciliation reads; it is decremented elsewhere without coordination.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU           string          `gorm:"column:sku;not null;uniqueIndex"`
	Name          string          `gorm:"column:name;not null"`
	Description   *string         `gorm:"column:description"`
	Brand         *string         `gorm:"column:brand"`
	SalePrice     decimal.Decimal `gorm:"column:sale_price;type:numeric(18,2);not null"`
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:numeric(18,2);not null"`
	Stock         int             `gorm:"column:stock;not null;default:0"`
	Aisle         *string         `gorm:"column:aisle"`
	Shelf         *string         `gorm:"column:shelf"`
	ImageURL      *string         `gorm:"column:image_url"`
	IsVisible     bool            `gorm:"column:is_visible;not null;default:true"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	Compatibility []Compatibility `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the column default is unavailable (sqlite).
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
