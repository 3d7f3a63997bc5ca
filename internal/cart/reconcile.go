package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
)

// Adjustment reasons reported by a reconciliation pass.
const (
	ReasonDiscontinued = "discontinued"
	ReasonOutOfStock   = "out_of_stock"
	ReasonCapped       = "capped"
)

// ProductSnapshot is the read-only catalog view the cart policy compares
// against. The cart never mutates catalog state.
type ProductSnapshot struct {
	ID        uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	ImageURL  *string
	Stock     int
}

// ProductReader is the catalog boundary. Implementations return a
// not-found coded error when the product is missing or not sellable.
type ProductReader interface {
	GetSnapshot(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
}

// Adjustment records one line the reconciler had to touch.
type Adjustment struct {
	ProductID uuid.UUID
	Reason    string
}

// Result describes one reconciliation pass over a cart.
type Result struct {
	Changed     bool
	Adjustments []Adjustment
}

// Reconciler re-validates cart lines against live stock on every cart read.
type Reconciler struct {
	products ProductReader
}

// NewReconciler builds a reconciler backed by the given catalog reader.
func NewReconciler(products ProductReader) (*Reconciler, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &Reconciler{products: products}, nil
}

// Reconcile walks every line, fetches the current stock snapshot and adjusts
// quantities and validity flags in place. Discontinued and out-of-stock are
// outcomes, not errors. A failed catalog lookup leaves that line untouched
// and does not stop the other lines; the lookup failures are aggregated into
// the returned error so the caller can log them.
func (r *Reconciler) Reconcile(ctx context.Context, c *Cart) (Result, error) {
	var res Result
	var errs error

	for i := range c.Lines {
		line := &c.Lines[i]

		snap, err := r.products.GetSnapshot(ctx, line.ProductID)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				line.Quantity = 0
				line.StockCeiling = 0
				line.IsValid = false
				line.ErrorMessage = msgPtr(MsgDiscontinued)
				res.Changed = true
				res.Adjustments = append(res.Adjustments, Adjustment{
					ProductID: line.ProductID,
					Reason:    ReasonDiscontinued,
				})
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("reconcile product %s: %w", line.ProductID, err))
			continue
		}

		switch {
		case snap.Stock == 0:
			// Quantity stays as the user's last desired value so the line
			// can recover if stock returns.
			line.StockCeiling = 0
			line.IsValid = false
			line.ErrorMessage = msgPtr(MsgOutOfStock)
			res.Changed = true
			res.Adjustments = append(res.Adjustments, Adjustment{
				ProductID: line.ProductID,
				Reason:    ReasonOutOfStock,
			})

		case line.Quantity > snap.Stock:
			line.Quantity = snap.Stock
			line.StockCeiling = snap.Stock
			line.IsValid = true
			line.ErrorMessage = msgPtr(MsgReduced)
			res.Changed = true
			res.Adjustments = append(res.Adjustments, Adjustment{
				ProductID: line.ProductID,
				Reason:    ReasonCapped,
			})

		default:
			line.StockCeiling = snap.Stock
			line.IsValid = true
			line.ErrorMessage = nil
		}
	}

	return res, errs
}
