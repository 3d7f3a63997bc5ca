package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refaccionariaweb/storefront-backend/api/middleware"
	"github.com/refaccionariaweb/storefront-backend/internal/cart"
	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
)

type stubCartService struct {
	view *cart.View
	err  error
}

func (s stubCartService) GetCart(ctx context.Context, sessionID string) (*cart.View, error) {
	return s.view, s.err
}

func (s stubCartService) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*cart.View, error) {
	return s.view, s.err
}

func (s stubCartService) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*cart.View, error) {
	return s.view, s.err
}

func (s stubCartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*cart.View, error) {
	return s.view, s.err
}

func (s stubCartService) ClearCart(ctx context.Context, sessionID string) error {
	return s.err
}

func cartWithLine(qty int, price string) *cart.Cart {
	c := cart.New()
	c.Lines = append(c.Lines, cart.Line{
		ProductID:    uuid.New(),
		Name:         "Amortiguador delantero",
		UnitPrice:    decimal.RequireFromString(price),
		Quantity:     qty,
		StockCeiling: qty,
		IsValid:      true,
	})
	return c
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), uuid.NewString()))
}

func TestCartGetSuccess(t *testing.T) {
	view := &cart.View{Cart: cartWithLine(2, "349.90"), Notice: cart.NoticeInventoryChanged}
	handler := CartGet(stubCartService{view: view}, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartViewResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Notice != cart.NoticeInventoryChanged {
		t.Fatalf("unexpected notice: %q", envelope.Data.Notice)
	}
	if !envelope.Data.Subtotal.Equal(decimal.RequireFromString("699.80")) {
		t.Fatalf("unexpected subtotal: %s", envelope.Data.Subtotal)
	}
	if envelope.Data.TotalQuantity != 2 {
		t.Fatalf("unexpected total quantity: %d", envelope.Data.TotalQuantity)
	}
}

func TestCartGetMissingSession(t *testing.T) {
	handler := CartGet(stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	body := strings.NewReader(`{"product_id":"` + uuid.NewString() + `","quantity":0}`)
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemSurfacesOutcome(t *testing.T) {
	view := &cart.View{
		Cart: cartWithLine(3, "120.00"),
		Add: &cart.AddResult{
			Outcome:   cart.AddOutcomePartial,
			Requested: 10,
			Added:     3,
			Message:   "partially added 3 of 10 requested, limit reached",
		},
	}
	handler := CartAddItem(stubCartService{view: view}, nil)

	body := strings.NewReader(`{"product_id":"` + uuid.NewString() + `","quantity":10}`)
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartViewResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Add == nil || envelope.Data.Add.Outcome != cart.AddOutcomePartial {
		t.Fatalf("expected partial outcome, got %+v", envelope.Data.Add)
	}
	if envelope.Data.Add.Added != 3 {
		t.Fatalf("unexpected added count: %d", envelope.Data.Add.Added)
	}
}

func TestCartUpdateItemInvalidProductID(t *testing.T) {
	handler := CartUpdateItem(stubCartService{}, nil)

	body := strings.NewReader(`{"quantity":2}`)
	req := withSession(httptest.NewRequest(http.MethodPatch, "/api/v1/cart/items/not-a-uuid", body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartGetDependencyFailure(t *testing.T) {
	handler := CartGet(stubCartService{err: pkgerrors.New(pkgerrors.CodeDependency, "load cart")}, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
