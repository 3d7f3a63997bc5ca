package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Messages attached to lines the policy layer flagged. The storefront renders
// them verbatim.
const (
	MsgDiscontinued = "discontinued"
	MsgOutOfStock   = "out of stock"
	MsgReduced      = "reduced to available stock"
)

// Line is one desired-purchase row in a session cart. Name, price and image
// are snapshotted at add time; StockCeiling is the last stock count observed
// for the product and bounds quantity updates without a fresh catalog read.
type Line struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ImageURL     *string         `json:"image_url,omitempty"`
	Quantity     int             `json:"quantity"`
	StockCeiling int             `json:"stock_ceiling"`
	IsValid      bool            `json:"is_valid"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

// Total computes the line total. It is never stored.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered set of lines for one session, unique by product id.
// Lines keep insertion order. The zero value is an empty, usable cart.
type Cart struct {
	Lines []Line `json:"lines"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Find returns a pointer to the line for the given product, or nil.
func (c *Cart) Find(productID uuid.UUID) *Line {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Remove deletes the line for the given product if present. It reports
// whether a line was removed and is a no-op otherwise.
func (c *Cart) Remove(productID uuid.UUID) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Subtotal sums the totals of purchasable lines. Invalid lines stay visible
// but contribute nothing.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.Lines {
		if !line.IsValid {
			continue
		}
		sum = sum.Add(line.Total())
	}
	return sum
}

// TotalQuantity sums the quantities of purchasable lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		if !line.IsValid {
			continue
		}
		total += line.Quantity
	}
	return total
}

// IsEmpty reports whether the cart holds no lines at all.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func msgPtr(msg string) *string {
	return &msg
}
