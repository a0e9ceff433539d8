// internal/gateway/gateway.go
package gateway

import (
	"github.com/dungeun/video-platform-sub018/internal/money"
)

// PaymentGateway is the external payment-service collaborator. The engine
// treats it as authoritative for the external leg only; local Payment state
// transitions stay inside the engine's own transaction.
type PaymentGateway interface {
	// Confirm verifies that the gateway-side charge identified by paymentKey
	// succeeded for exactly amount.
	Confirm(paymentKey string, amount money.Amount) error

	// Cancel refunds (or voids) the gateway-side charge.
	Cancel(paymentKey string, amount money.Amount, reason string) error
}
