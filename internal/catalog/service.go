package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/refaccionariaweb/storefront-backend/internal/cart"
	"github.com/refaccionariaweb/storefront-backend/pkg/db/models"
	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
	"github.com/refaccionariaweb/storefront-backend/pkg/logger"
)

// Service exposes catalog management and the snapshot read the cart
// policy layer depends on.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetailDTO, error)
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	ListVisibleProducts(ctx context.Context, search string) ([]ProductDTO, error)
	ListArchivedProducts(ctx context.Context) ([]ProductDTO, error)
	ArchiveProduct(ctx context.Context, id uuid.UUID) error
	RestoreProduct(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, stock int) (*ProductDTO, error)

	GetSnapshot(ctx context.Context, id uuid.UUID) (*cart.ProductSnapshot, error)

	CreateVehicle(ctx context.Context, input CreateVehicleInput) (*VehicleDTO, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*VehicleDTO, error)
	ListVehicles(ctx context.Context) ([]VehicleDTO, error)
	ListArchivedVehicles(ctx context.Context) ([]VehicleDTO, error)
	ArchiveVehicle(ctx context.Context, id uuid.UUID) error
	RestoreVehicle(ctx context.Context, id uuid.UUID) error
	ListProductsForVehicle(ctx context.Context, vehicleID uuid.UUID) ([]ProductDTO, error)

	LinkCompatibility(ctx context.Context, input LinkCompatibilityInput) (*CompatibilityDTO, error)
	UpdateCompatibilityNote(ctx context.Context, id uuid.UUID, note *string) error
	UnlinkCompatibility(ctx context.Context, id uuid.UUID) error
	ListCompatibilities(ctx context.Context, productID uuid.UUID) ([]CompatibilityDTO, error)
}

type service struct {
	repo   *Repository
	events *InventoryEvents
	logg   *logger.Logger
}

// NewService constructs a catalog service. Events may be nil when no broker
// is configured.
func NewService(repo *Repository, events *InventoryEvents, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, events: events, logg: logg}, nil
}

// CreateProduct validates and inserts a catalog part.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		SKU:           strings.TrimSpace(input.SKU),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Brand:         input.Brand,
		SalePrice:     input.SalePrice,
		PurchasePrice: input.PurchasePrice,
		Stock:         input.Stock,
		Aisle:         input.Aisle,
		Shelf:         input.Shelf,
		ImageURL:      input.ImageURL,
		IsVisible:     input.IsVisible,
		IsActive:      true,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return toProductDTO(created), nil
}

// UpdateProduct applies the provided fields to an existing product. A stock
// change emits an inventory event.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	stockChanged := false
	if input.SKU != nil {
		if strings.TrimSpace(*input.SKU) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Brand != nil {
		product.Brand = input.Brand
	}
	if input.SalePrice != nil {
		if input.SalePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale price cannot be negative")
		}
		product.SalePrice = *input.SalePrice
	}
	if input.PurchasePrice != nil {
		if input.PurchasePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase price cannot be negative")
		}
		product.PurchasePrice = *input.PurchasePrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		stockChanged = product.Stock != *input.Stock
		product.Stock = *input.Stock
	}
	if input.Aisle != nil {
		product.Aisle = input.Aisle
	}
	if input.Shelf != nil {
		product.Shelf = input.Shelf
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsVisible != nil {
		product.IsVisible = *input.IsVisible
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	if stockChanged {
		s.events.StockChanged(ctx, updated)
	}
	return toProductDTO(updated), nil
}

// GetProduct returns a product with its fitment list.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetailDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProductDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &ProductDetailDTO{
		ProductDTO:         *toProductDTO(product),
		CompatibleVehicles: toCompatibilityDTOs(product.Compatibility),
	}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return toProductDTOs(products), nil
}

func (s *service) ListVisibleProducts(ctx context.Context, search string) ([]ProductDTO, error) {
	products, err := s.repo.ListVisibleProducts(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list visible products")
	}
	return toProductDTOs(products), nil
}

func (s *service) ListArchivedProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListArchivedProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list archived products")
	}
	return toProductDTOs(products), nil
}

// ArchiveProduct moves a product to the trash. Archived products disappear
// from storefront listings and cart snapshots but keep their history.
func (s *service) ArchiveProduct(ctx context.Context, id uuid.UUID) error {
	return s.setProductActive(ctx, id, false)
}

// RestoreProduct brings a trashed product back.
func (s *service) RestoreProduct(ctx context.Context, id uuid.UUID) error {
	return s.setProductActive(ctx, id, true)
}

func (s *service) setProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.SetProductActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set product active")
	}
	return nil
}

// SetStock overwrites the live stock count and emits an inventory event.
func (s *service) SetStock(ctx context.Context, id uuid.UUID, stock int) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product, err := s.repo.UpdateStock(ctx, id, stock)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
	}

	s.events.StockChanged(ctx, product)
	return toProductDTO(product), nil
}

// GetSnapshot returns the live stock and price view for one sellable
// product. Archived and hidden products read as not found, which the cart
// treats as discontinued.
func (s *service) GetSnapshot(ctx context.Context, id uuid.UUID) (*cart.ProductSnapshot, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product snapshot")
	}
	if !product.IsActive || !product.IsVisible {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &cart.ProductSnapshot{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.SalePrice,
		ImageURL:  product.ImageURL,
		Stock:     product.Stock,
	}, nil
}

// CreateVehicle validates and inserts a vehicle entry.
func (s *service) CreateVehicle(ctx context.Context, input CreateVehicleInput) (*VehicleDTO, error) {
	if err := validateVehicleInput(input); err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		Make:     strings.TrimSpace(input.Make),
		Model:    strings.TrimSpace(input.Model),
		YearFrom: input.YearFrom,
		YearTo:   input.YearTo,
		Engine:   input.Engine,
		IsActive: true,
	}

	created, err := s.repo.CreateVehicle(ctx, vehicle)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return toVehicleDTO(created), nil
}

// UpdateVehicle applies the provided fields to an existing vehicle.
func (s *service) UpdateVehicle(ctx context.Context, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error) {
	vehicle, err := s.loadVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Make != nil {
		if strings.TrimSpace(*input.Make) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "make cannot be empty")
		}
		vehicle.Make = strings.TrimSpace(*input.Make)
	}
	if input.Model != nil {
		if strings.TrimSpace(*input.Model) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "model cannot be empty")
		}
		vehicle.Model = strings.TrimSpace(*input.Model)
	}
	if input.YearFrom != nil {
		vehicle.YearFrom = *input.YearFrom
	}
	if input.YearTo != nil {
		vehicle.YearTo = *input.YearTo
	}
	if vehicle.YearFrom > vehicle.YearTo {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year range is inverted")
	}
	if input.Engine != nil {
		vehicle.Engine = input.Engine
	}

	updated, err := s.repo.UpdateVehicle(ctx, vehicle)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle")
	}
	return toVehicleDTO(updated), nil
}

// GetVehicle returns one vehicle entry.
func (s *service) GetVehicle(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	vehicle, err := s.loadVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return toVehicleDTO(vehicle), nil
}

func (s *service) ListVehicles(ctx context.Context) ([]VehicleDTO, error) {
	vehicles, err := s.repo.ListVehicles(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	return toVehicleDTOs(vehicles), nil
}

func (s *service) ListArchivedVehicles(ctx context.Context) ([]VehicleDTO, error) {
	vehicles, err := s.repo.ListArchivedVehicles(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list archived vehicles")
	}
	return toVehicleDTOs(vehicles), nil
}

// ArchiveVehicle moves a vehicle to the trash.
func (s *service) ArchiveVehicle(ctx context.Context, id uuid.UUID) error {
	return s.setVehicleActive(ctx, id, false)
}

// RestoreVehicle brings a trashed vehicle back.
func (s *service) RestoreVehicle(ctx context.Context, id uuid.UUID) error {
	return s.setVehicleActive(ctx, id, true)
}

func (s *service) setVehicleActive(ctx context.Context, id uuid.UUID, active bool) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	if err := s.repo.SetVehicleActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set vehicle active")
	}
	return nil
}

// ListProductsForVehicle returns the storefront fitment lookup: visible
// parts known to fit the given vehicle.
func (s *service) ListProductsForVehicle(ctx context.Context, vehicleID uuid.UUID) ([]ProductDTO, error) {
	if vehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	if _, err := s.loadVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}
	products, err := s.repo.ListProductsByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products by vehicle")
	}
	return toProductDTOs(products), nil
}

// LinkCompatibility records that a product fits a vehicle. The existence
// checks and the insert share one transaction.
func (s *service) LinkCompatibility(ctx context.Context, input LinkCompatibilityInput) (*CompatibilityDTO, error) {
	if input.ProductID == uuid.Nil || input.VehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id and vehicle id are required")
	}

	var link *models.Compatibility
	err := s.repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.FindProductByID(ctx, input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if _, err := txRepo.FindVehicleByID(ctx, input.VehicleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
		}

		created, err := txRepo.CreateCompatibility(ctx, &models.Compatibility{
			ProductID:     input.ProductID,
			VehicleID:     input.VehicleID,
			TechnicalNote: input.TechnicalNote,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "compatibility already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create compatibility")
		}
		link = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCompatibilityDTO(link), nil
}

// UpdateCompatibilityNote changes the technical note on an existing link.
func (s *service) UpdateCompatibilityNote(ctx context.Context, id uuid.UUID, note *string) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "compatibility id is required")
	}
	if err := s.repo.UpdateCompatibilityNote(ctx, id, note); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "compatibility not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update compatibility")
	}
	return nil
}

// UnlinkCompatibility removes a fitment link. Idempotent.
func (s *service) UnlinkCompatibility(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "compatibility id is required")
	}
	if err := s.repo.DeleteCompatibility(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete compatibility")
	}
	return nil
}

func (s *service) ListCompatibilities(ctx context.Context, productID uuid.UUID) ([]CompatibilityDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	links, err := s.repo.ListCompatibilitiesByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list compatibilities")
	}
	return toCompatibilityDTOs(links), nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) loadVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	vehicle, err := s.repo.FindVehicleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return vehicle, nil
}

func validateProductInput(input CreateProductInput) error {
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.SalePrice.IsNegative() || input.PurchasePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}

func validateVehicleInput(input CreateVehicleInput) error {
	if strings.TrimSpace(input.Make) == "" || strings.TrimSpace(input.Model) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "make and model are required")
	}
	if input.YearFrom <= 0 || input.YearTo <= 0 || input.YearFrom > input.YearTo {
		return pkgerrors.New(pkgerrors.CodeValidation, "year range is invalid")
	}
	return nil
}
