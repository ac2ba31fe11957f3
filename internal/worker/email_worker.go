package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Sender abstracts the SMTP mailer so tests can fake delivery.
type Sender interface {
	Send(to, subject, body, attachmentPath string) error
}

// Breaker abstracts the circuit breaker around outbound SMTP.
type Breaker interface {
	Execute(fn func() error) error
}

// EmailJobPayload carries a receipt email task.
type EmailJobPayload struct {
	To      string `json:"to"`
	SaleID  string `json:"sale_id"`
	Store   string `json:"store"`
	Total   string `json:"total"`
	PDFPath string `json:"pdf_path"`
}

// EmailWorker delivers receipt emails through the circuit breaker.
type EmailWorker struct {
	mailer  Sender
	breaker Breaker
}

func NewEmailWorker(mailer Sender, breaker Breaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker}
}

func (w *EmailWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var p EmailJobPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid email payload: %w", err)
	}

	subject := fmt.Sprintf("Tu recibo de compra — %s", p.Store)
	body := fmt.Sprintf(
		"Gracias por tu compra en %s.\n\nVenta: %s\nTotal: $%s\n\nAdjuntamos tu recibo en PDF.",
		p.Store, p.SaleID, p.Total,
	)

	err := w.breaker.Execute(func() error {
		return w.mailer.Send(p.To, subject, body, p.PDFPath)
	})
	if err != nil {
		return fmt.Errorf("send receipt email for sale %s: %w", p.SaleID, err)
	}
	log.Info().Str("sale_id", p.SaleID).Str("to", p.To).Msg("receipt email sent")
	return nil
}
