package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
	"github.com/refaccionariaweb/storefront-backend/pkg/logger"
)

type stubCartStore struct {
	carts   map[string]*Cart
	saves   int
	clears  int
	loadErr error
	saveErr error
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: map[string]*Cart{}}
}

func (s *stubCartStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if c, ok := s.carts[sessionID]; ok {
		return c, nil
	}
	return New(), nil
}

func (s *stubCartStore) Save(_ context.Context, sessionID string, c *Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.carts[sessionID] = c
	return nil
}

func (s *stubCartStore) Clear(_ context.Context, sessionID string) error {
	s.clears++
	delete(s.carts, sessionID)
	return nil
}

func newTestService(t *testing.T, store sessionCartStore, reader ProductReader) Service {
	t.Helper()
	rec, err := NewReconciler(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mut, err := NewMutator(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(store, rec, mut, logg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestServiceGetCartReconcilesAndPersists(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(3)
	store := newStubCartStore()
	store.carts["sess-1"] = &Cart{Lines: []Line{
		{ProductID: productID, Quantity: 7, StockCeiling: 10, IsValid: true},
	}}

	svc := newTestService(t, store, reader)

	view, err := svc.GetCart(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Notice != NoticeInventoryChanged {
		t.Fatalf("expected inventory-changed notice, got %q", view.Notice)
	}
	if view.Cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity capped to 3, got %d", view.Cart.Lines[0].Quantity)
	}
	if store.saves != 1 {
		t.Fatalf("expected one save after adjustment, got %d", store.saves)
	}
}

func TestServiceGetCartUnchangedSkipsSave(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(10)
	store := newStubCartStore()
	store.carts["sess-1"] = &Cart{Lines: []Line{
		{ProductID: productID, Quantity: 2, StockCeiling: 10, IsValid: true},
	}}

	svc := newTestService(t, store, reader)

	view, err := svc.GetCart(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Notice != "" {
		t.Fatalf("expected no notice, got %q", view.Notice)
	}
	if store.saves != 0 {
		t.Fatalf("expected no save, got %d", store.saves)
	}
}

func TestServiceGetCartToleratesLookupFailures(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	broken := uuid.New()
	reader.failures[broken] = context.DeadlineExceeded
	store := newStubCartStore()
	store.carts["sess-1"] = &Cart{Lines: []Line{
		{ProductID: broken, Quantity: 2, StockCeiling: 5, IsValid: true},
	}}

	svc := newTestService(t, store, reader)

	view, err := svc.GetCart(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("expected lookup failure to be non-fatal, got %v", err)
	}
	if view.Cart.Lines[0].Quantity != 2 || !view.Cart.Lines[0].IsValid {
		t.Fatalf("expected stale line served as-is, got %+v", view.Cart.Lines[0])
	}
}

func TestServiceAddItemPersistsOutcome(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(5)
	store := newStubCartStore()
	svc := newTestService(t, store, reader)

	view, err := svc.AddItem(context.Background(), "sess-1", productID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Add == nil || view.Add.Outcome != AddOutcomeAdded {
		t.Fatalf("expected added outcome, got %+v", view.Add)
	}
	if store.saves != 1 {
		t.Fatalf("expected cart persisted, got %d saves", store.saves)
	}

	view, err = svc.AddItem(context.Background(), "sess-1", productID, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Add.Outcome != AddOutcomePartial || view.Add.Added != 2 {
		t.Fatalf("expected partial add of 2, got %+v", view.Add)
	}
}

func TestServiceAddItemValidationDoesNotPersist(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := reader.add(5)
	store := newStubCartStore()
	svc := newTestService(t, store, reader)

	if _, err := svc.AddItem(context.Background(), "sess-1", productID, 0); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("expected no save, got %d", store.saves)
	}
}

func TestServiceUpdateItemOutOfBoundsIsNoOp(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := uuid.New()
	store := newStubCartStore()
	store.carts["sess-1"] = &Cart{Lines: []Line{
		{ProductID: productID, Quantity: 2, StockCeiling: 4, IsValid: true},
	}}
	svc := newTestService(t, store, reader)

	view, err := svc.UpdateItem(context.Background(), "sess-1", productID, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity unchanged, got %d", view.Cart.Lines[0].Quantity)
	}
	if store.saves != 0 {
		t.Fatalf("expected no save for a no-op update, got %d", store.saves)
	}

	view, err = svc.UpdateItem(context.Background(), "sess-1", productID, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Cart.Lines[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", view.Cart.Lines[0].Quantity)
	}
	if store.saves != 1 {
		t.Fatalf("expected one save, got %d", store.saves)
	}
}

func TestServiceRemoveItemIdempotent(t *testing.T) {
	t.Parallel()

	reader := newStubReader()
	productID := uuid.New()
	store := newStubCartStore()
	store.carts["sess-1"] = &Cart{Lines: []Line{{ProductID: productID, Quantity: 1, IsValid: true}}}
	svc := newTestService(t, store, reader)

	view, err := svc.RemoveItem(context.Background(), "sess-1", productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !view.Cart.IsEmpty() {
		t.Fatalf("expected empty cart after removal")
	}
	if store.saves != 1 {
		t.Fatalf("expected one save, got %d", store.saves)
	}

	if _, err := svc.RemoveItem(context.Background(), "sess-1", productID); err != nil {
		t.Fatalf("expected repeat removal to be a no-op, got %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("expected no extra save, got %d", store.saves)
	}
}

func TestServiceClearCart(t *testing.T) {
	t.Parallel()

	store := newStubCartStore()
	store.carts["sess-1"] = New()
	svc := newTestService(t, store, newStubReader())

	if err := svc.ClearCart(context.Background(), "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.clears != 1 {
		t.Fatalf("expected one clear, got %d", store.clears)
	}
}
