package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/DanielCanisOrtega/tienda-backend/internal/repository"
)

// LowStockJobPayload carries a low stock alert task.
type LowStockJobPayload struct {
	StoreID     string `json:"store_id"`
	ProductName string `json:"product_name"`
	Remaining   int    `json:"remaining"`
	MinQuantity int    `json:"min_quantity"`
}

// LowStockWorker emails the store owner when a product drops below its
// minimum quantity after a sale.
type LowStockWorker struct {
	stores  repository.StoreRepository
	users   repository.UserRepository
	mailer  Sender
	breaker Breaker
}

func NewLowStockWorker(stores repository.StoreRepository, users repository.UserRepository, mailer Sender, breaker Breaker) *LowStockWorker {
	return &LowStockWorker{stores: stores, users: users, mailer: mailer, breaker: breaker}
}

func (w *LowStockWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var p LowStockJobPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid low stock payload: %w", err)
	}

	storeID, err := uuid.Parse(p.StoreID)
	if err != nil {
		return fmt.Errorf("invalid store id in low stock payload: %w", err)
	}
	store, err := w.stores.FindByID(ctx, storeID)
	if err != nil {
		return fmt.Errorf("resolve store for low stock alert: %w", err)
	}
	owner, err := w.users.FindByID(ctx, store.OwnerID)
	if err != nil {
		return fmt.Errorf("resolve store owner: %w", err)
	}
	if owner.Email == nil || *owner.Email == "" {
		// Nothing to notify — owner never registered an email.
		log.Warn().Str("store_id", p.StoreID).Msg("low stock alert skipped, owner has no email")
		return nil
	}

	subject := fmt.Sprintf("Stock bajo: %s — %s", p.ProductName, store.Name)
	body := fmt.Sprintf(
		"El producto %q en %s quedó con %d unidades (mínimo configurado: %d).\n\nConsidera reabastecer pronto.",
		p.ProductName, store.Name, p.Remaining, p.MinQuantity,
	)

	err = w.breaker.Execute(func() error {
		return w.mailer.Send(*owner.Email, subject, body, "")
	})
	if err != nil {
		return fmt.Errorf("send low stock alert: %w", err)
	}
	log.Info().
		Str("store_id", p.StoreID).
		Str("product", p.ProductName).
		Int("remaining", p.Remaining).
		Msg("low stock alert sent")
	return nil
}
