package payment

import (
	"context"
	"time"

	"github.com/noah-isme/backend-galeri/internal/pricing"
)

// Charge is the payment request handed to a provider after checkout capture.
type Charge struct {
	OrderID  string
	Amount   pricing.Money
	Currency string
}

// Receipt is the provider's confirmation of a charge.
type Receipt struct {
	Reference   string
	Status      string
	ConfirmedAt time.Time
}

// Provider confirms charges with an external payment service. The storefront
// treats this as an opaque action: it hands over the charge and records the
// receipt.
type Provider interface {
	Confirm(ctx context.Context, charge Charge) (Receipt, error)
}
