package catalog

import (
	"context"
	"encoding/json"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/refaccionariaweb/storefront-backend/pkg/db/models"
	"github.com/refaccionariaweb/storefront-backend/pkg/logger"
)

const inventoryUpdatedEvent = "inventory.updated"

// InventoryEventPayload is the wire shape of an inventory.updated event.
type InventoryEventPayload struct {
	ProductID  uuid.UUID `json:"product_id"`
	SKU        string    `json:"sku"`
	Stock      int       `json:"stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type gcpPublisher struct {
	pub *gcppubsub.Publisher
}

func (g gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return g.pub.Publish(ctx, msg)
}

// InventoryEvents emits best-effort stock-change notifications. A nil
// publisher disables emission entirely; publish failures are logged and
// never surfaced to the write path.
type InventoryEvents struct {
	pub  publisher
	logg *logger.Logger
}

// NewInventoryEvents wraps a Pub/Sub publisher. Pass nil to disable events.
func NewInventoryEvents(pub *gcppubsub.Publisher, logg *logger.Logger) *InventoryEvents {
	if pub == nil {
		return &InventoryEvents{logg: logg}
	}
	return &InventoryEvents{pub: gcpPublisher{pub: pub}, logg: logg}
}

// StockChanged publishes an inventory.updated event for the product. The
// publish confirmation is awaited off the request path.
func (e *InventoryEvents) StockChanged(ctx context.Context, product *models.Product) {
	if e == nil || e.pub == nil {
		return
	}

	payload, err := json.Marshal(InventoryEventPayload{
		ProductID:  product.ID,
		SKU:        product.SKU,
		Stock:      product.Stock,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		e.warn(ctx, err)
		return
	}

	result := e.pub.Publish(ctx, &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type": inventoryUpdatedEvent,
			"product_id": product.ID.String(),
		},
	})

	// Outlive the request so a slow broker cannot stall the handler.
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	go func() {
		defer cancel()
		if _, err := result.Get(waitCtx); err != nil {
			e.warn(waitCtx, err)
		}
	}()
}

func (e *InventoryEvents) warn(ctx context.Context, err error) {
	if e.logg == nil {
		return
	}
	e.logg.Warn(e.logg.WithField(ctx, "error", err.Error()), "inventory event publish failed")
}
