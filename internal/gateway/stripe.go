// internal/gateway/stripe.go
package gateway

import (
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"

	"github.com/dungeun/video-platform-sub018/internal/money"
)

// StripeGateway confirms card payments against Stripe. The paymentKey carried
// by the confirmation callback is the PaymentIntent id.
type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) Confirm(paymentKey string, amount money.Amount) error {
	pi, err := paymentintent.Get(paymentKey, nil)
	if err != nil {
		return fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("payment intent %s is not succeeded (status %s)", paymentKey, pi.Status)
	}

	if pi.Amount != amount.Int64() {
		return fmt.Errorf("payment intent %s charged %d, expected %d", paymentKey, pi.Amount, amount.Int64())
	}

	return nil
}

func (g *StripeGateway) Cancel(paymentKey string, amount money.Amount, reason string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentKey),
		Amount:        stripe.Int64(amount.Int64()),
		Reason:        stripe.String("requested_by_customer"),
	}

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to process refund: %w", err)
	}

	return nil
}
