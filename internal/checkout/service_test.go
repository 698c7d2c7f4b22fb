package checkout

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-galeri/internal/cart"
	"github.com/noah-isme/backend-galeri/internal/catalog"
	"github.com/noah-isme/backend-galeri/internal/common"
	"github.com/noah-isme/backend-galeri/internal/events"
	"github.com/noah-isme/backend-galeri/internal/payment"
	"github.com/noah-isme/backend-galeri/internal/pricing"
)

type stubProvider struct {
	receipt payment.Receipt
	err     error
	charges []payment.Charge
}

func (p *stubProvider) Confirm(_ context.Context, charge payment.Charge) (payment.Receipt, error) {
	p.charges = append(p.charges, charge)
	if p.err != nil {
		return payment.Receipt{}, p.err
	}
	return p.receipt, nil
}

type recordingNotifier struct {
	events []events.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev events.Event) error {
	n.events = append(n.events, ev)
	return nil
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore(pricing.Fixed{Amount: 500})
	store.Add(catalog.Item{ID: "1", Author: "a", DownloadURL: "u"})
	store.Add(catalog.Item{ID: "2", Author: "b", DownloadURL: "u"})
	store.SetQuantity("2", 2)
	return store
}

func validInput() Input {
	return Input{Name: "Ada Lovelace", Address: "12 Analytical Way", PhoneNumber: "+628111222333"}
}

func TestCreateConfirmsAndResetsCart(t *testing.T) {
	store := filledCart(t)
	provider := &stubProvider{receipt: payment.Receipt{Reference: "SBX-TEST", Status: payment.StatusConfirmed}}
	notifier := &recordingNotifier{}
	svc := &Service{
		Validate: validator.New(),
		Provider: provider,
		Events:   &events.Bus{Notifiers: []events.Notifier{notifier}},
		Currency: "USD",
		Now:      func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) },
	}

	conf, err := svc.Create(context.Background(), "cart-1", store, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.OrderID == "" {
		t.Fatal("expected an order id")
	}
	if conf.TotalCost != 1500 {
		t.Fatalf("expected total 1500, got %d", conf.TotalCost)
	}
	if conf.Status != payment.StatusConfirmed || conf.PaymentRef != "SBX-TEST" {
		t.Fatalf("unexpected receipt mapping: %+v", conf)
	}

	// The charge carries the snapshot total.
	if len(provider.charges) != 1 || provider.charges[0].Amount != 1500 {
		t.Fatalf("unexpected charges: %+v", provider.charges)
	}

	// Cart must be emptied on success.
	state := store.State()
	if len(state.LineItems) != 0 || state.TotalCost != 0 {
		t.Fatalf("cart not reset after checkout: %+v", state)
	}

	if len(notifier.events) != 1 || notifier.events[0].Topic != events.TopicCheckoutCompleted {
		t.Fatalf("expected a checkout.completed event, got %+v", notifier.events)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	store := filledCart(t)
	svc := &Service{Validate: validator.New(), Provider: &stubProvider{}, Currency: "USD"}

	_, err := svc.Create(context.Background(), "cart-1", store, Input{Name: "  ", Address: "somewhere"})
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != "VALIDATION" || appErr.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected error shape: %+v", appErr)
	}
	if _, ok := appErr.Details["name"]; !ok {
		t.Fatalf("expected name in details, got %+v", appErr.Details)
	}
	if _, ok := appErr.Details["phoneNumber"]; !ok {
		t.Fatalf("expected phoneNumber in details, got %+v", appErr.Details)
	}

	// Validation failure must not touch the cart.
	if len(store.State().LineItems) != 2 {
		t.Fatal("cart mutated by failed validation")
	}
}

func TestCreateRejectsEmptyCart(t *testing.T) {
	store := cart.NewStore(pricing.Fixed{Amount: 500})
	svc := &Service{Validate: validator.New(), Provider: &stubProvider{}, Currency: "USD"}

	_, err := svc.Create(context.Background(), "cart-1", store, validInput())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCreatePaymentFailureKeepsCart(t *testing.T) {
	store := filledCart(t)
	svc := &Service{
		Validate: validator.New(),
		Provider: &stubProvider{err: errors.New("provider down")},
		Currency: "USD",
	}

	_, err := svc.Create(context.Background(), "cart-1", store, validInput())
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != "PAYMENT" || appErr.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("unexpected error shape: %+v", appErr)
	}

	// A failed charge leaves the cart intact for retry.
	if len(store.State().LineItems) != 2 {
		t.Fatal("cart reset despite failed payment")
	}
}
