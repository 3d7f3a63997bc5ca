package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/refaccionariaweb/storefront-backend/pkg/logger"
	"github.com/refaccionariaweb/storefront-backend/pkg/metrics"
)

// NoticeInventoryChanged is surfaced when reconciliation adjusted any line.
const NoticeInventoryChanged = "some items in your cart were updated to match current inventory"

type sessionCartStore interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// View is the response shape handlers render: the adjusted cart plus the
// user-facing signals produced while handling the request.
type View struct {
	Cart   *Cart
	Notice string
	Add    *AddResult
}

// Service orchestrates load, policy and save around each cart request.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error)
	UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type service struct {
	store      sessionCartStore
	reconciler *Reconciler
	mutator    *Mutator
	logg       *logger.Logger
	metrics    *metrics.CartMetrics
}

// NewService wires the cart store, reconciler and mutator together. Metrics
// may be nil for callers that do not export them.
func NewService(store sessionCartStore, reconciler *Reconciler, mutator *Mutator, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if reconciler == nil {
		return nil, fmt.Errorf("reconciler required")
	}
	if mutator == nil {
		return nil, fmt.Errorf("mutator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:      store,
		reconciler: reconciler,
		mutator:    mutator,
		logg:       logg,
		metrics:    cartMetrics,
	}, nil
}

// GetCart loads the session cart, reconciles it against live stock and
// persists it back when anything changed. Catalog lookup failures leave the
// affected lines stale rather than failing the whole read.
func (s *service) GetCart(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	res, recErr := s.reconciler.Reconcile(ctx, c)
	s.observeReconcile(res, recErr, time.Since(started))

	if recErr != nil {
		ctx = s.logg.WithSessionID(ctx, sessionID)
		s.logg.Warn(s.logg.WithField(ctx, "error", recErr.Error()), "cart reconciliation left stale lines")
	}

	view := &View{Cart: c}
	if res.Changed {
		view.Notice = NoticeInventoryChanged
		if err := s.store.Save(ctx, sessionID, c); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// AddItem applies the partial-fulfilment add policy and persists the result.
func (s *service) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.mutator.Add(ctx, c, productID, qty)
	if err != nil {
		return nil, err
	}
	s.metrics.IncAddOutcome(string(result.Outcome))

	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return &View{Cart: c, Add: result}, nil
}

// UpdateItem sets a line's quantity within its cached stock ceiling.
// Out-of-range requests leave the cart untouched.
func (s *service) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*View, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if SetQuantity(c, productID, qty) {
		if err := s.store.Save(ctx, sessionID, c); err != nil {
			return nil, err
		}
	}
	return &View{Cart: c}, nil
}

// RemoveItem deletes a line. Removing an absent product is a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*View, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if c.Remove(productID) {
		if err := s.store.Save(ctx, sessionID, c); err != nil {
			return nil, err
		}
	}
	return &View{Cart: c}, nil
}

// ClearCart drops the whole session cart.
func (s *service) ClearCart(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

func (s *service) observeReconcile(res Result, err error, elapsed time.Duration) {
	outcome := "unchanged"
	switch {
	case err != nil:
		outcome = "error"
	case res.Changed:
		outcome = "changed"
	}
	s.metrics.ObserveReconcile(outcome, elapsed)
	for _, adj := range res.Adjustments {
		s.metrics.IncLineAdjustment(adj.Reason)
	}
}
