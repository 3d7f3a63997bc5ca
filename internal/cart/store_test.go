package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
	redislib "github.com/refaccionariaweb/storefront-backend/pkg/redis"
)

type fakeBlobStore struct {
	values  map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeBlobStore) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	value, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return value, nil
}

func (f *fakeBlobStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeBlobStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) CartKey(sessionID string) string { return "refa:cart:" + sessionID }

func TestStoreLoadMissingKeyReturnsEmptyCart(t *testing.T) {
	t.Parallel()

	store, err := NewStore(newFakeBlobStore(), fakeKeyer{}, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, err := store.Load(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected empty cart for missing key")
	}
}

func TestStoreSaveRoundTripRefreshesTTL(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	store, _ := NewStore(blobs, fakeKeyer{}, 30*time.Minute)

	img := "https://cdn.example.com/pads.jpg"
	original := &Cart{Lines: []Line{{
		ProductID:    uuid.New(),
		Name:         "brake pad set",
		UnitPrice:    decimal.RequireFromString("499.00"),
		ImageURL:     &img,
		Quantity:     2,
		StockCeiling: 8,
		IsValid:      true,
	}}}

	if err := store.Save(context.Background(), "sess-1", original); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := blobs.ttls["refa:cart:sess-1"]; got != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %s", got)
	}

	loaded, err := store.Load(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(loaded.Lines))
	}
	line := loaded.Lines[0]
	if line.ProductID != original.Lines[0].ProductID {
		t.Fatalf("expected product id preserved")
	}
	if !line.UnitPrice.Equal(original.Lines[0].UnitPrice) {
		t.Fatalf("expected unit price preserved, got %s", line.UnitPrice)
	}
	if line.ImageURL == nil || *line.ImageURL != img {
		t.Fatalf("expected image url preserved")
	}
}

func TestStoreLoadCorruptBlobStartsOver(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	blobs.values["refa:cart:sess-1"] = "{not json"
	store, _ := NewStore(blobs, fakeKeyer{}, 30*time.Minute)

	c, err := store.Load(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected fresh cart for corrupt blob")
	}
}

func TestStoreLoadDependencyFailure(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	blobs.getErr = context.DeadlineExceeded
	store, _ := NewStore(blobs, fakeKeyer{}, 30*time.Minute)

	if _, err := store.Load(context.Background(), "sess-1"); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestStoreClearDeletesKey(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	store, _ := NewStore(blobs, fakeKeyer{}, 30*time.Minute)

	if err := store.Save(context.Background(), "sess-1", New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Clear(context.Background(), "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := blobs.values["refa:cart:sess-1"]; ok {
		t.Fatalf("expected key deleted")
	}
	if err := store.Clear(context.Background(), "sess-1"); err != nil {
		t.Fatalf("expected clearing an absent cart to be a no-op, got %v", err)
	}
}

func TestStoreRejectsBlankSession(t *testing.T) {
	t.Parallel()

	store, _ := NewStore(newFakeBlobStore(), fakeKeyer{}, 30*time.Minute)

	if _, err := store.Load(context.Background(), "  "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := store.Save(context.Background(), "", New()); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStoreSerializedShape(t *testing.T) {
	t.Parallel()

	blobs := newFakeBlobStore()
	store, _ := NewStore(blobs, fakeKeyer{}, 30*time.Minute)

	c := &Cart{Lines: []Line{{
		ProductID:    uuid.New(),
		Name:         "oil filter",
		UnitPrice:    decimal.RequireFromString("129.50"),
		Quantity:     1,
		StockCeiling: 4,
		IsValid:      true,
	}}}
	if err := store.Save(context.Background(), "sess-1", c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(blobs.values["refa:cart:sess-1"]), &decoded); err != nil {
		t.Fatalf("expected valid json blob: %v", err)
	}
	if _, ok := decoded["lines"]; !ok {
		t.Fatalf("expected top-level lines field, got %v", decoded)
	}
}
