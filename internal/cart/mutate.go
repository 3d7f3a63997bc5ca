package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
)

// AddOutcome classifies the result of an add-to-cart call.
type AddOutcome string

const (
	AddOutcomeAdded      AddOutcome = "added"
	AddOutcomePartial    AddOutcome = "partial"
	AddOutcomeNoCapacity AddOutcome = "no_capacity"
)

// AddResult carries the outcome of one Add call for the presentation layer.
type AddResult struct {
	Outcome   AddOutcome `json:"outcome"`
	Requested int        `json:"requested"`
	Added     int        `json:"added"`
	Message   string     `json:"message"`
}

// Mutator applies write operations to a cart, enforcing the same stock
// ceiling the reconciler applies at read time. Adds fulfil as much of the
// requested quantity as current stock allows instead of rejecting the
// whole request.
type Mutator struct {
	products ProductReader
}

// NewMutator builds a mutator backed by the given catalog reader.
func NewMutator(products ProductReader) (*Mutator, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &Mutator{products: products}, nil
}

// Add puts qty more units of the product into the cart, capped at current
// stock. It reads the catalog exactly once. A missing product returns a
// not-found error without touching the cart.
func (m *Mutator) Add(ctx context.Context, c *Cart, productID uuid.UUID, qty int) (*AddResult, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested quantity must be positive")
	}

	snap, err := m.products.GetSnapshot(ctx, productID)
	if err != nil {
		return nil, err
	}

	line := c.Find(productID)
	alreadyInCart := 0
	if line != nil {
		alreadyInCart = line.Quantity
	}
	desiredTotal := alreadyInCart + qty

	if desiredTotal > snap.Stock {
		freeCapacity := snap.Stock - alreadyInCart
		if freeCapacity <= 0 {
			return &AddResult{
				Outcome:   AddOutcomeNoCapacity,
				Requested: qty,
				Added:     0,
				Message:   "no capacity left",
			}, nil
		}
		m.applyQuantity(c, line, snap, snap.Stock)
		return &AddResult{
			Outcome:   AddOutcomePartial,
			Requested: qty,
			Added:     freeCapacity,
			Message:   fmt.Sprintf("partially added %d of %d requested, limit reached", freeCapacity, qty),
		}, nil
	}

	m.applyQuantity(c, line, snap, desiredTotal)
	return &AddResult{
		Outcome:   AddOutcomeAdded,
		Requested: qty,
		Added:     qty,
		Message:   fmt.Sprintf("added %d", qty),
	}, nil
}

func (m *Mutator) applyQuantity(c *Cart, line *Line, snap *ProductSnapshot, quantity int) {
	if line == nil {
		c.Lines = append(c.Lines, Line{
			ProductID:    snap.ID,
			Name:         snap.Name,
			UnitPrice:    snap.UnitPrice,
			ImageURL:     snap.ImageURL,
			Quantity:     quantity,
			StockCeiling: snap.Stock,
			IsValid:      true,
		})
		return
	}
	line.Quantity = quantity
	line.StockCeiling = snap.Stock
	line.IsValid = true
	line.ErrorMessage = nil
}

// SetQuantity updates a line's quantity against its cached stock ceiling
// without a fresh catalog read. Out-of-range quantities and unknown products
// are a no-op; it reports whether the cart was updated.
func SetQuantity(c *Cart, productID uuid.UUID, qty int) bool {
	if qty <= 0 {
		return false
	}
	line := c.Find(productID)
	if line == nil || qty > line.StockCeiling {
		return false
	}
	line.Quantity = qty
	return true
}
