package gateway

import (
	"context"
	"fmt"
	"math"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"catalog-svc/models"
)

// Stripe implements Gateway against the live Stripe API.
type Stripe struct{}

func NewStripe(secretKey string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{}
}

func (s *Stripe) CreateIntent(_ context.Context, amount float64, currency, email string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(currency),
	}
	if email != "" {
		params.ReceiptEmail = stripe.String(email)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("gateway: create stripe intent: %w", err)
	}
	return fromStripeIntent(pi), nil
}

func (s *Stripe) GetIntent(_ context.Context, intentID string) (Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.AddExpand("latest_charge")

	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return Intent{}, fmt.Errorf("gateway: get stripe intent: %w", err)
	}
	return fromStripeIntent(pi), nil
}

func (s *Stripe) CancelIntent(_ context.Context, intentID string) (Intent, error) {
	pi, err := paymentintent.Cancel(intentID, &stripe.PaymentIntentCancelParams{})
	if err != nil {
		return Intent{}, fmt.Errorf("gateway: cancel stripe intent: %w", err)
	}
	return fromStripeIntent(pi), nil
}

func fromStripeIntent(pi *stripe.PaymentIntent) Intent {
	in := Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       float64(pi.Amount) / 100,
		Currency:     string(pi.Currency),
		Status:       mapStripeStatus(pi.Status),
	}
	if pi.LatestCharge != nil {
		in.ReceiptURL = pi.LatestCharge.ReceiptURL
	}
	return in
}

func mapStripeStatus(s stripe.PaymentIntentStatus) models.PaymentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentStatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return models.PaymentStatusCanceled
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return models.PaymentStatusRequiresPaymentMethod
	default:
		return models.PaymentStatusPending
	}
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
