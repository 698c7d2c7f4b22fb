package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// StatusConfirmed is the terminal status a sandbox charge settles into.
const StatusConfirmed = "CONFIRMED"

// Sandbox simulates a payment provider: every charge is confirmed after an
// optional artificial delay, with a reference derived deterministically from
// the order id so replays produce the same receipt.
type Sandbox struct {
	Latency time.Duration
	Now     func() time.Time
}

// Confirm implements Provider.
func (s Sandbox) Confirm(ctx context.Context, charge Charge) (Receipt, error) {
	if strings.TrimSpace(charge.OrderID) == "" {
		return Receipt{}, errors.New("payment: order id is required")
	}
	if charge.Amount < 0 {
		return Receipt{}, errors.New("payment: amount must not be negative")
	}
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	sum := sha256.Sum256([]byte(charge.OrderID))
	return Receipt{
		Reference:   "SBX-" + strings.ToUpper(hex.EncodeToString(sum[:6])),
		Status:      StatusConfirmed,
		ConfirmedAt: now(),
	}, nil
}
