// Package reconcile matches bank transfers to invoices and invoice bundles, records payments,
// and cascades settlement into orders.
package reconcile

import (
	"context"
	"time"

	"github.com/yourusername/solarlink-recon/ledger"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "solarlink.reconcile"

type Service struct {
	store    *ledger.Store
	settings SettingsProvider
	notifier Notifier
	tracer   trace.Tracer
	now      func() time.Time
}

func NewService(store *ledger.Store, settings SettingsProvider, notifier Notifier) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Service{
		store:    store,
		settings: settings,
		notifier: notifier,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// UnmatchedTransactions lists bank transactions awaiting a payment.
func (s *Service) UnmatchedTransactions(ctx context.Context) ([]models.BankTransaction, error) {
	return s.store.UnmatchedTransactions(ctx)
}

// UnpaidInvoices lists invoices that can still be targeted by a payment.
func (s *Service) UnpaidInvoices(ctx context.Context) ([]models.Invoice, error) {
	return s.store.UnpaidInvoices(ctx)
}

// UnpaidBundles lists bundles that can still be targeted by a payment.
func (s *Service) UnpaidBundles(ctx context.Context) ([]models.InvoiceBundle, error) {
	return s.store.UnpaidBundles(ctx)
}

func (s *Service) Payment(ctx context.Context, id uint) (*models.Payment, error) {
	return s.store.GetPayment(ctx, id)
}

// notifySettled runs after commit; failures are logged only.
func (s *Service) notifySettled(ctx context.Context, payment models.Payment) {
	if err := s.notifier.PaymentSettled(ctx, payment); err != nil {
		log := logger.WithComponent("reconcile")
		log.Warn().Err(err).Uint("payment_id", payment.ID).Msg("Settlement notification failed")
	}
}
