package cart

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
)

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(10)
	mut, err := NewMutator(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := New()
	for _, qty := range []int{0, -1, -42} {
		if _, err := mut.Add(context.Background(), c, productID, qty); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for qty %d, got %v", qty, err)
		}
	}
	if !c.IsEmpty() {
		t.Fatalf("expected cart untouched by rejected adds")
	}
	if reader.calls != 0 {
		t.Fatalf("expected no catalog reads, got %d", reader.calls)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	mut, _ := NewMutator(reader)

	c := New()
	_, err := mut.Add(context.Background(), c, uuid.New(), 2)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected no line for unknown product")
	}
}

func TestAddCreatesLineWithSnapshot(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(10)
	mut, _ := NewMutator(reader)

	c := New()
	result, err := mut.Add(context.Background(), c, productID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != AddOutcomeAdded || result.Added != 3 {
		t.Fatalf("expected full add of 3, got %+v", result)
	}

	line := c.Find(productID)
	if line == nil {
		t.Fatalf("expected a new line")
	}
	snap := reader.snapshots[productID]
	if line.Name != snap.Name || !line.UnitPrice.Equal(snap.UnitPrice) {
		t.Fatalf("expected snapshotted name and price, got %+v", line)
	}
	if line.Quantity != 3 || line.StockCeiling != 10 || !line.IsValid {
		t.Fatalf("unexpected line state: %+v", line)
	}
	if reader.calls != 1 {
		t.Fatalf("expected exactly one catalog read, got %d", reader.calls)
	}
}

func TestAddAccumulatesExistingLine(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(10)
	mut, _ := NewMutator(reader)

	c := New()
	if _, err := mut.Add(context.Background(), c, productID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := mut.Add(context.Background(), c, productID, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(c.Lines) != 1 {
		t.Fatalf("expected a single line per product, got %d", len(c.Lines))
	}
	if c.Lines[0].Quantity != 5 {
		t.Fatalf("expected accumulated quantity 5, got %d", c.Lines[0].Quantity)
	}
}

func TestAddPartialFulfilment(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(5)
	mut, _ := NewMutator(reader)

	c := &Cart{Lines: []Line{{ProductID: productID, Quantity: 3, StockCeiling: 5, IsValid: true}}}

	result, err := mut.Add(context.Background(), c, productID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != AddOutcomePartial {
		t.Fatalf("expected partial outcome, got %s", result.Outcome)
	}
	if result.Added != 2 || result.Requested != 10 {
		t.Fatalf("expected 2 of 10 added, got %+v", result)
	}
	if want := "partially added 2 of 10 requested, limit reached"; result.Message != want {
		t.Fatalf("expected message %q, got %q", want, result.Message)
	}
	if c.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity capped to stock 5, got %d", c.Lines[0].Quantity)
	}
}

func TestAddNoCapacityLeavesCartUnchanged(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(5)
	mut, _ := NewMutator(reader)

	c := &Cart{Lines: []Line{{ProductID: productID, Quantity: 5, StockCeiling: 5, IsValid: true}}}

	result, err := mut.Add(context.Background(), c, productID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != AddOutcomeNoCapacity || result.Added != 0 {
		t.Fatalf("expected no-capacity outcome, got %+v", result)
	}
	if c.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity unchanged at 5, got %d", c.Lines[0].Quantity)
	}
}

func TestAddZeroStockProductCreatesNothing(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(0)
	mut, _ := NewMutator(reader)

	c := New()
	result, err := mut.Add(context.Background(), c, productID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != AddOutcomeNoCapacity {
		t.Fatalf("expected no-capacity outcome, got %s", result.Outcome)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected no line created for zero-stock product")
	}
}

func TestSetQuantityWithinCeiling(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	c := &Cart{Lines: []Line{{ProductID: productID, Quantity: 2, StockCeiling: 6, IsValid: true}}}

	if !SetQuantity(c, productID, 6) {
		t.Fatalf("expected update within ceiling to apply")
	}
	if c.Lines[0].Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", c.Lines[0].Quantity)
	}
	if SetQuantity(c, uuid.New(), 1) {
		t.Fatalf("expected unknown product to be a no-op")
	}
}

func TestSetQuantityBoundsProperty(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		ceiling := rng.Intn(20) + 1
		initial := rng.Intn(ceiling + 1)
		c := &Cart{Lines: []Line{{ProductID: productID, Quantity: initial, StockCeiling: ceiling, IsValid: true}}}

		n := rng.Intn(61) - 20
		applied := SetQuantity(c, productID, n)

		inBounds := n > 0 && n <= ceiling
		if applied != inBounds {
			t.Fatalf("n=%d ceiling=%d: applied=%v, want %v", n, ceiling, applied, inBounds)
		}
		want := initial
		if inBounds {
			want = n
		}
		if c.Lines[0].Quantity != want {
			t.Fatalf("n=%d ceiling=%d: quantity=%d, want %d", n, ceiling, c.Lines[0].Quantity, want)
		}
	}
}
