package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/refaccionariaweb/storefront-backend/pkg/db/models"
)

// Repository wires together catalog persistence for products, vehicles and
// their compatibility links.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the full product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindProductByID loads a product without associations.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductDetail loads a product with its compatibility links and the
// vehicles behind them.
func (r *Repository) FindProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Compatibility", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Compatibility.Vehicle").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns active products, newest first.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListVisibleProducts returns active, online-visible products, optionally
// filtered by a case-insensitive name/sku match.
func (r *Repository) ListVisibleProducts(ctx context.Context, search string) ([]models.Product, error) {
	tx := r.db.WithContext(ctx).
		Where("is_active = ? AND is_visible = ?", true, true)
	if term := strings.TrimSpace(search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}

	var products []models.Product
	if err := tx.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListArchivedProducts returns trashed products, newest first.
func (r *Repository) ListArchivedProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", false).
		Order("updated_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// SetProductActive flips the archive flag on a product.
func (r *Repository) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStock sets the live stock count for a product and returns the
// refreshed row.
func (r *Repository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) (*models.Product, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", stock)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindProductByID(ctx, id)
}

// CreateVehicle inserts a new vehicle row.
func (r *Repository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

// UpdateVehicle saves the full vehicle row.
func (r *Repository) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.db.WithContext(ctx).Save(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

// FindVehicleByID loads a vehicle without associations.
func (r *Repository) FindVehicleByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// ListVehicles returns active vehicles ordered by make, model and year.
func (r *Repository) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("make ASC, model ASC, year_from ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// ListArchivedVehicles returns trashed vehicles, newest first.
func (r *Repository) ListArchivedVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Where("is_active = ?", false).
		Order("updated_at DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// SetVehicleActive flips the archive flag on a vehicle.
func (r *Repository) SetVehicleActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateCompatibility links a product to a vehicle.
func (r *Repository) CreateCompatibility(ctx context.Context, link *models.Compatibility) (*models.Compatibility, error) {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

// FindCompatibilityByID loads one link row.
func (r *Repository) FindCompatibilityByID(ctx context.Context, id uuid.UUID) (*models.Compatibility, error) {
	var link models.Compatibility
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// UpdateCompatibilityNote changes the technical note on a link.
func (r *Repository) UpdateCompatibilityNote(ctx context.Context, id uuid.UUID, note *string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Compatibility{}).
		Where("id = ?", id).
		Update("technical_note", note)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCompatibility removes a link. Deleting an absent link is a no-op.
func (r *Repository) DeleteCompatibility(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Compatibility{}).Error
}

// ListCompatibilitiesByProduct returns the vehicle links for a product,
// vehicles preloaded.
func (r *Repository) ListCompatibilitiesByProduct(ctx context.Context, productID uuid.UUID) ([]models.Compatibility, error) {
	var links []models.Compatibility
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// ListProductsByVehicle returns the visible, active products that fit the
// given vehicle.
func (r *Repository) ListProductsByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN compatibilities ON compatibilities.product_id = products.id").
		Where("compatibilities.vehicle_id = ?", vehicleID).
		Where("products.is_active = ? AND products.is_visible = ?", true, true).
		Order("products.name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// isUniqueViolation detects duplicate-key failures from either Postgres
// driver in use.
func isUniqueViolation(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
