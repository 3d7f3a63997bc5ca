package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/refaccionariaweb/storefront-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  brand TEXT,
  sale_price TEXT NOT NULL,
  purchase_price TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  aisle TEXT,
  shelf TEXT,
  image_url TEXT,
  is_visible INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	vehicles := `
CREATE TABLE IF NOT EXISTS vehicles (
  id TEXT PRIMARY KEY,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  year_from INTEGER NOT NULL,
  year_to INTEGER NOT NULL,
  engine TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	compatibilities := `
CREATE TABLE IF NOT EXISTS compatibilities (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  vehicle_id TEXT NOT NULL,
  technical_note TEXT,
  created_at DATETIME,
  UNIQUE (product_id, vehicle_id)
);`

	for _, stmt := range []string{products, vehicles, compatibilities} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		SKU:           fmt.Sprintf("SKU-%s", uuid.NewString()),
		Name:          "Test Brake Pad",
		SalePrice:     decimal.RequireFromString("499.00"),
		PurchasePrice: decimal.RequireFromString("320.00"),
		Stock:         stock,
		IsVisible:     true,
		IsActive:      true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustCreateTestVehicle(t *testing.T, tx *gorm.DB) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		ID:       uuid.New(),
		Make:     "Nissan",
		Model:    "Tsuru",
		YearFrom: 1992,
		YearTo:   2017,
		IsActive: true,
	}
	if err := tx.Create(vehicle).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	return vehicle
}

func mustLinkCompatibility(t *testing.T, tx *gorm.DB, productID, vehicleID uuid.UUID) *models.Compatibility {
	t.Helper()
	link := &models.Compatibility{
		ID:        uuid.New(),
		ProductID: productID,
		VehicleID: vehicleID,
	}
	if err := tx.Create(link).Error; err != nil {
		t.Fatalf("create compatibility: %v", err)
	}
	return link
}
