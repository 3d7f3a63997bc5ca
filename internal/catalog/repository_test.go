package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryListVisibleProducts(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	visible := mustCreateTestProduct(t, conn, 5)
	hidden := mustCreateTestProduct(t, conn, 5)
	require.NoError(t, conn.Model(hidden).Update("is_visible", false).Error)
	archived := mustCreateTestProduct(t, conn, 5)
	require.NoError(t, conn.Model(archived).Update("is_active", false).Error)

	products, err := repo.ListVisibleProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, visible.ID, products[0].ID)
}

func TestRepositoryListVisibleProductsSearch(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	match := mustCreateTestProduct(t, conn, 5)
	require.NoError(t, conn.Model(match).Update("name", "Amortiguador delantero").Error)
	other := mustCreateTestProduct(t, conn, 5)
	require.NoError(t, conn.Model(other).Update("name", "Filtro de aceite").Error)

	products, err := repo.ListVisibleProducts(ctx, "amorti")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, match.ID, products[0].ID)
}

func TestRepositoryUpdateStock(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, 5)

	updated, err := repo.UpdateStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)

	_, err = repo.UpdateStock(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryArchiveAndRestoreProduct(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, 5)

	require.NoError(t, repo.SetProductActive(ctx, product.ID, false))
	archived, err := repo.ListArchivedProducts(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)

	require.NoError(t, repo.SetProductActive(ctx, product.ID, true))
	archived, err = repo.ListArchivedProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, archived)

	assert.ErrorIs(t, repo.SetProductActive(ctx, uuid.New(), false), gorm.ErrRecordNotFound)
}

func TestRepositoryProductDetailPreloadsVehicles(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, 5)
	vehicle := mustCreateTestVehicle(t, conn)
	mustLinkCompatibility(t, conn, product.ID, vehicle.ID)

	detail, err := repo.FindProductDetail(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, detail.Compatibility, 1)
	require.NotNil(t, detail.Compatibility[0].Vehicle)
	assert.Equal(t, vehicle.ID, detail.Compatibility[0].Vehicle.ID)
}

func TestRepositoryListProductsByVehicle(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	vehicle := mustCreateTestVehicle(t, conn)
	fits := mustCreateTestProduct(t, conn, 5)
	mustLinkCompatibility(t, conn, fits.ID, vehicle.ID)

	hiddenFit := mustCreateTestProduct(t, conn, 5)
	require.NoError(t, conn.Model(hiddenFit).Update("is_visible", false).Error)
	mustLinkCompatibility(t, conn, hiddenFit.ID, vehicle.ID)

	mustCreateTestProduct(t, conn, 5)

	products, err := repo.ListProductsByVehicle(ctx, vehicle.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, fits.ID, products[0].ID)
}

func TestRepositoryDeleteCompatibilityIdempotent(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, 5)
	vehicle := mustCreateTestVehicle(t, conn)
	link := mustLinkCompatibility(t, conn, product.ID, vehicle.ID)

	require.NoError(t, repo.DeleteCompatibility(ctx, link.ID))
	require.NoError(t, repo.DeleteCompatibility(ctx, link.ID))

	links, err := repo.ListCompatibilitiesByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestRepositoryVehicleArchiveFlow(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	vehicle := mustCreateTestVehicle(t, conn)

	require.NoError(t, repo.SetVehicleActive(ctx, vehicle.ID, false))
	active, err := repo.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	trashed, err := repo.ListArchivedVehicles(ctx)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Equal(t, vehicle.ID, trashed[0].ID)
}
