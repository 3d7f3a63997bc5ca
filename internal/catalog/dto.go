package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refaccionariaweb/storefront-backend/pkg/db/models"
)

// ProductDTO is the serializable product view returned by the service.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Brand       *string         `json:"brand,omitempty"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Stock       int             `json:"stock"`
	Aisle       *string         `json:"aisle,omitempty"`
	Shelf       *string         `json:"shelf,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	IsVisible   bool            `json:"is_visible"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductDetailDTO adds the fitment list to the product view.
type ProductDetailDTO struct {
	ProductDTO
	CompatibleVehicles []CompatibilityDTO `json:"compatible_vehicles"`
}

// VehicleDTO is the serializable vehicle view.
type VehicleDTO struct {
	ID       uuid.UUID `json:"id"`
	Make     string    `json:"make"`
	Model    string    `json:"model"`
	YearFrom int       `json:"year_from"`
	YearTo   int       `json:"year_to"`
	Engine   *string   `json:"engine,omitempty"`
	IsActive bool      `json:"is_active"`
}

// CompatibilityDTO is one product-to-vehicle fitment link.
type CompatibilityDTO struct {
	ID            uuid.UUID   `json:"id"`
	ProductID     uuid.UUID   `json:"product_id"`
	VehicleID     uuid.UUID   `json:"vehicle_id"`
	TechnicalNote *string     `json:"technical_note,omitempty"`
	Vehicle       *VehicleDTO `json:"vehicle,omitempty"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU           string
	Name          string
	Description   *string
	Brand         *string
	SalePrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	Stock         int
	Aisle         *string
	Shelf         *string
	ImageURL      *string
	IsVisible     bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU           *string
	Name          *string
	Description   *string
	Brand         *string
	SalePrice     *decimal.Decimal
	PurchasePrice *decimal.Decimal
	Stock         *int
	Aisle         *string
	Shelf         *string
	ImageURL      *string
	IsVisible     *bool
}

// CreateVehicleInput holds the validated payload to create a vehicle.
type CreateVehicleInput struct {
	Make     string
	Model    string
	YearFrom int
	YearTo   int
	Engine   *string
}

// UpdateVehicleInput holds optional mutation values for a vehicle.
type UpdateVehicleInput struct {
	Make     *string
	Model    *string
	YearFrom *int
	YearTo   *int
	Engine   *string
}

// LinkCompatibilityInput holds the payload to link a product to a vehicle.
type LinkCompatibilityInput struct {
	ProductID     uuid.UUID
	VehicleID     uuid.UUID
	TechnicalNote *string
}

func toProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		SalePrice:   product.SalePrice,
		Stock:       product.Stock,
		Aisle:       product.Aisle,
		Shelf:       product.Shelf,
		ImageURL:    product.ImageURL,
		IsVisible:   product.IsVisible,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *toProductDTO(&products[i]))
	}
	return out
}

func toVehicleDTO(vehicle *models.Vehicle) *VehicleDTO {
	return &VehicleDTO{
		ID:       vehicle.ID,
		Make:     vehicle.Make,
		Model:    vehicle.Model,
		YearFrom: vehicle.YearFrom,
		YearTo:   vehicle.YearTo,
		Engine:   vehicle.Engine,
		IsActive: vehicle.IsActive,
	}
}

func toVehicleDTOs(vehicles []models.Vehicle) []VehicleDTO {
	out := make([]VehicleDTO, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, *toVehicleDTO(&vehicles[i]))
	}
	return out
}

func toCompatibilityDTO(link *models.Compatibility) *CompatibilityDTO {
	dto := &CompatibilityDTO{
		ID:            link.ID,
		ProductID:     link.ProductID,
		VehicleID:     link.VehicleID,
		TechnicalNote: link.TechnicalNote,
	}
	if link.Vehicle != nil {
		dto.Vehicle = toVehicleDTO(link.Vehicle)
	}
	return dto
}

func toCompatibilityDTOs(links []models.Compatibility) []CompatibilityDTO {
	out := make([]CompatibilityDTO, 0, len(links))
	for i := range links {
		out = append(out, *toCompatibilityDTO(&links[i]))
	}
	return out
}
