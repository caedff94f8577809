package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/solarlink-recon/ledger/ledgertest"
	"github.com/yourusername/solarlink-recon/models"
)

func TestStore(t *testing.T) {
	db := ledgertest.NewDB(t)
	store := NewStore(db, Defaults{
		PaymentTolerance: decimal.NewFromInt(1000),
		TaxRate:          decimal.RequireFromString("0.10"),
	})
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		tol, err := store.PaymentTolerance(ctx)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1000).Equal(tol))

		rate, err := store.TaxRate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "0.1", rate.String())
	})

	t.Run("Override and replace", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, models.SettingPaymentTolerance, decimal.NewFromInt(500)))
		require.NoError(t, store.Set(ctx, models.SettingPaymentTolerance, decimal.NewFromInt(300)))

		tol, err := store.PaymentTolerance(ctx)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(300).Equal(tol))
	})

	t.Run("Corrupt value", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Setting{Key: models.SettingTaxRate, Value: "ten percent"}).Error)
		_, err := store.TaxRate(ctx)
		assert.Error(t, err)
	})
}
