package reconcile

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/models"
)

// Notifier is told about payments whose settlement has committed. Delivery (mail, chat) is the
// implementation's business; an error never undoes the settlement.
//
//go:generate mockgen -destination=mocks/mock_reconcile.go -package=mock_reconcile -source=notifier.go
type Notifier interface {
	PaymentSettled(ctx context.Context, payment models.Payment) error
}

// SettingsProvider exposes the advisory payment tolerance.
type SettingsProvider interface {
	PaymentTolerance(ctx context.Context) (decimal.Decimal, error)
}

// LogNotifier writes settlement events to the application log.
type LogNotifier struct{}

func (LogNotifier) PaymentSettled(ctx context.Context, payment models.Payment) error {
	log := logger.WithComponent("notifier")
	log.Info().
		Uint("payment_id", payment.ID).
		Str("status", payment.Status).
		Str("match_type", payment.MatchType).
		Str("amount", payment.Amount.String()).
		Msg("Payment settled")
	return nil
}
