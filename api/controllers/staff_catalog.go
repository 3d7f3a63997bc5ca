package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refaccionariaweb/storefront-backend/api/responses"
	"github.com/refaccionariaweb/storefront-backend/api/validators"
	"github.com/refaccionariaweb/storefront-backend/internal/catalog"
	"github.com/refaccionariaweb/storefront-backend/pkg/logger"
)

type createProductRequest struct {
	SKU           string          `json:"sku" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Description   *string         `json:"description"`
	Brand         *string         `json:"brand"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"required"`
	Stock         int             `json:"stock" validate:"gte=0"`
	Aisle         *string         `json:"aisle"`
	Shelf         *string         `json:"shelf"`
	ImageURL      *string         `json:"image_url"`
	IsVisible     bool            `json:"is_visible"`
}

type updateProductRequest struct {
	SKU           *string          `json:"sku"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Brand         *string          `json:"brand"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Stock         *int             `json:"stock"`
	Aisle         *string          `json:"aisle"`
	Shelf         *string          `json:"shelf"`
	ImageURL      *string          `json:"image_url"`
	IsVisible     *bool            `json:"is_visible"`
}

type setStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

type createVehicleRequest struct {
	Make     string  `json:"make" validate:"required"`
	Model    string  `json:"model" validate:"required"`
	YearFrom int     `json:"year_from" validate:"required,gt=0"`
	YearTo   int     `json:"year_to" validate:"required,gt=0"`
	Engine   *string `json:"engine"`
}

type updateVehicleRequest struct {
	Make     *string `json:"make"`
	Model    *string `json:"model"`
	YearFrom *int    `json:"year_from"`
	YearTo   *int    `json:"year_to"`
	Engine   *string `json:"engine"`
}

type linkCompatibilityRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	VehicleID     uuid.UUID `json:"vehicle_id" validate:"required"`
	TechnicalNote *string   `json:"technical_note"`
}

type updateCompatibilityRequest struct {
	TechnicalNote *string `json:"technical_note"`
}

// StaffCreateProduct inserts a new catalog part.
func StaffCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			SKU:           payload.SKU,
			Name:          payload.Name,
			Description:   payload.Description,
			Brand:         payload.Brand,
			SalePrice:     payload.SalePrice,
			PurchasePrice: payload.PurchasePrice,
			Stock:         payload.Stock,
			Aisle:         payload.Aisle,
			Shelf:         payload.Shelf,
			ImageURL:      payload.ImageURL,
			IsVisible:     payload.IsVisible,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// StaffUpdateProduct applies a partial update to a product.
func StaffUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateProduct(r.Context(), id, catalog.UpdateProductInput{
			SKU:           payload.SKU,
			Name:          payload.Name,
			Description:   payload.Description,
			Brand:         payload.Brand,
			SalePrice:     payload.SalePrice,
			PurchasePrice: payload.PurchasePrice,
			Stock:         payload.Stock,
			Aisle:         payload.Aisle,
			Shelf:         payload.Shelf,
			ImageURL:      payload.ImageURL,
			IsVisible:     payload.IsVisible,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// StaffListProducts returns every active product, including hidden ones.
func StaffListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// StaffGetProduct returns one product with fitment data, archived included.
func StaffGetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// StaffListTrashedProducts returns the product trash.
func StaffListTrashedProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListArchivedProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// StaffArchiveProduct moves a product to the trash.
func StaffArchiveProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ArchiveProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "archived"})
	}
}

// StaffRestoreProduct brings a trashed product back.
func StaffRestoreProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RestoreProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "restored"})
	}
}

// StaffSetStock overwrites the live stock count for a product.
func StaffSetStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.SetStock(r.Context(), id, payload.Stock)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// StaffCreateVehicle inserts a new vehicle entry.
func StaffCreateVehicle(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createVehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateVehicle(r.Context(), catalog.CreateVehicleInput{
			Make:     payload.Make,
			Model:    payload.Model,
			YearFrom: payload.YearFrom,
			YearTo:   payload.YearTo,
			Engine:   payload.Engine,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// StaffUpdateVehicle applies a partial update to a vehicle.
func StaffUpdateVehicle(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateVehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateVehicle(r.Context(), id, catalog.UpdateVehicleInput{
			Make:     payload.Make,
			Model:    payload.Model,
			YearFrom: payload.YearFrom,
			YearTo:   payload.YearTo,
			Engine:   payload.Engine,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// StaffGetVehicle returns one vehicle, archived included.
func StaffGetVehicle(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.GetVehicle(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

// StaffListTrashedVehicles returns the vehicle trash.
func StaffListTrashedVehicles(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicles, err := svc.ListArchivedVehicles(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicles)
	}
}

// StaffArchiveVehicle moves a vehicle to the trash.
func StaffArchiveVehicle(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ArchiveVehicle(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "archived"})
	}
}

// StaffRestoreVehicle brings a trashed vehicle back.
func StaffRestoreVehicle(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RestoreVehicle(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "restored"})
	}
}

// StaffLinkCompatibility records that a product fits a vehicle.
func StaffLinkCompatibility(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload linkCompatibilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.LinkCompatibility(r.Context(), catalog.LinkCompatibilityInput{
			ProductID:     payload.ProductID,
			VehicleID:     payload.VehicleID,
			TechnicalNote: payload.TechnicalNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

// StaffUpdateCompatibility changes the technical note on a link.
func StaffUpdateCompatibility(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCompatibilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateCompatibilityNote(r.Context(), id, payload.TechnicalNote); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// StaffUnlinkCompatibility removes a fitment link.
func StaffUnlinkCompatibility(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.UnlinkCompatibility(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// StaffListCompatibilities returns the fitment links for a product.
func StaffListCompatibilities(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		links, err := svc.ListCompatibilities(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, links)
	}
}
