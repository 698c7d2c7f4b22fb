package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-galeri/internal/cart"
	"github.com/noah-isme/backend-galeri/internal/common"
	"github.com/noah-isme/backend-galeri/internal/events"
	"github.com/noah-isme/backend-galeri/internal/payment"
	"github.com/noah-isme/backend-galeri/internal/pricing"
)

// ErrEmptyCart rejects checkout attempts against a cart with no line items.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// Input carries the buyer details captured by the checkout form.
type Input struct {
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// Confirmation is the order record produced by a completed checkout. The
// total is the cart snapshot taken at the moment checkout began.
type Confirmation struct {
	OrderID     string        `json:"orderId"`
	Name        string        `json:"name"`
	Address     string        `json:"address"`
	PhoneNumber string        `json:"phoneNumber"`
	TotalCost   pricing.Money `json:"totalCost"`
	Currency    string        `json:"currency"`
	Status      string        `json:"status"`
	PaymentRef  string        `json:"paymentRef"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Service validates checkout input, snapshots the cart total, confirms the
// charge with the payment provider, and resets the cart.
type Service struct {
	Validate *validator.Validate
	Provider payment.Provider
	Events   *events.Bus
	Currency string
	Now      func() time.Time
}

// Create runs the checkout flow for one cart.
func (s *Service) Create(ctx context.Context, cartID string, store *cart.Store, in Input) (Confirmation, error) {
	if s == nil || s.Provider == nil {
		return Confirmation{}, errors.New("checkout service not configured")
	}
	if store == nil {
		return Confirmation{}, errors.New("checkout: cart is required")
	}
	if err := s.validateInput(in); err != nil {
		return Confirmation{}, err
	}

	state := store.State()
	if len(state.LineItems) == 0 {
		return Confirmation{}, ErrEmptyCart
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	orderID := uuid.NewString()
	receipt, err := s.Provider.Confirm(ctx, payment.Charge{
		OrderID:  orderID,
		Amount:   state.TotalCost,
		Currency: s.Currency,
	})
	if err != nil {
		return Confirmation{}, &common.AppError{
			Code:       "PAYMENT",
			Message:    "payment confirmation failed",
			HTTPStatus: http.StatusBadGateway,
			Err:        err,
		}
	}

	conf := Confirmation{
		OrderID:     orderID,
		Name:        strings.TrimSpace(in.Name),
		Address:     strings.TrimSpace(in.Address),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		TotalCost:   state.TotalCost,
		Currency:    s.Currency,
		Status:      receipt.Status,
		PaymentRef:  receipt.Reference,
		CreatedAt:   now(),
	}
	store.Reset()

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicCheckoutCompleted, cartID, map[string]any{
			"orderId": conf.OrderID,
			"total":   conf.TotalCost,
			"status":  conf.Status,
		})
	}
	return conf, nil
}

func (s *Service) validateInput(in Input) error {
	validate := s.Validate
	if validate == nil {
		validate = validator.New()
	}
	// required fields must not be whitespace-only either
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	details := map[string]any{}
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fieldName(fe.Field())] = fmt.Sprintf("failed on %s", fe.Tag())
		}
	}
	return &common.AppError{
		Code:       "VALIDATION",
		Message:    "missing required checkout fields",
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
		Details:    details,
	}
}

func fieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}
