package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/solarlink-recon/ledger"
	"github.com/yourusername/solarlink-recon/ledger/ledgertest"
	"github.com/yourusername/solarlink-recon/models"
	"github.com/yourusername/solarlink-recon/settings"
	"gorm.io/gorm"
)

var (
	settledAt = time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
	txnDate   = time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
)

type testEnv struct {
	svc *Service
	db  *gorm.DB
	fx  *ledgertest.Fixtures
}

func newTestEnv(t *testing.T, notifier Notifier) *testEnv {
	t.Helper()
	db := ledgertest.NewDB(t)
	prefs := settings.NewStore(db, settings.Defaults{
		PaymentTolerance: ledgertest.Yen(1000),
		TaxRate:          decimal.RequireFromString("0.10"),
	})
	svc := NewService(ledger.NewStore(db), prefs, notifier)
	svc.now = func() time.Time { return settledAt }
	return &testEnv{svc: svc, db: db, fx: ledgertest.NewFixtures(t, db)}
}

func (e *testEnv) invoice(t *testing.T, id uint) models.Invoice {
	t.Helper()
	var inv models.Invoice
	require.NoError(t, e.db.First(&inv, id).Error)
	return inv
}

func (e *testEnv) bundle(t *testing.T, id uint) models.InvoiceBundle {
	t.Helper()
	var b models.InvoiceBundle
	require.NoError(t, e.db.First(&b, id).Error)
	return b
}

func (e *testEnv) order(t *testing.T, id uint) models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, e.db.Preload("Items").First(&o, id).Error)
	return o
}

func (e *testEnv) txn(t *testing.T, id uint) models.BankTransaction {
	t.Helper()
	var txn models.BankTransaction
	require.NoError(t, e.db.First(&txn, id).Error)
	return txn
}

func (e *testEnv) payments(t *testing.T) []models.Payment {
	t.Helper()
	var ps []models.Payment
	require.NoError(t, e.db.Order("id ASC").Find(&ps).Error)
	return ps
}

func ptr[T any](v T) *T { return &v }
