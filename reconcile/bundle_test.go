package reconcile

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/solarlink-recon/ledger/ledgertest"
	"github.com/yourusername/solarlink-recon/models"
)

func TestCreateBundle(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	member := env.fx.Member("山田工務店", "", "")
	invA := env.fx.Invoice(member, 100000)
	invB := env.fx.Invoice(member, 55000)

	bundle, err := env.svc.CreateBundle(ctx, member.ID, []uint{invA.ID, invB.ID})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bundle.BundleNo, "BND-"))
	assert.Equal(t, models.BundleStatusCreated, bundle.Status)
	assert.True(t, ledgertest.Yen(155000).Equal(bundle.TotalAmount))
	assert.Len(t, bundle.Items, 2)

	bundles, err := env.svc.UnpaidBundles(ctx)
	require.NoError(t, err)
	require.Len(t, bundles, 1)
	assert.Equal(t, bundle.ID, bundles[0].ID)

	invoices, err := env.svc.UnpaidInvoices(ctx)
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestCreateBundleRejectsInvalidInvoices(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	member := env.fx.Member("山田工務店", "", "")
	other := env.fx.Member("佐藤電設", "", "")
	a := env.fx.Invoice(member, 1000)
	b := env.fx.Invoice(member, 2000)
	foreign := env.fx.Invoice(other, 3000)
	paid := env.fx.Invoice(member, 4000)
	require.NoError(t, env.db.Model(paid).Update("status", models.InvoiceStatusPaid).Error)
	bundledA := env.fx.Invoice(member, 5000)
	bundledB := env.fx.Invoice(member, 6000)
	env.fx.Bundle(member, bundledA, bundledB)
	pending := env.fx.Invoice(member, 7000)
	_, err := env.svc.CreateManualPayment(ctx, ManualPaymentInput{InvoiceID: &pending.ID, Amount: ptr(ledgertest.Yen(100))})
	require.NoError(t, err)

	tests := []struct {
		name       string
		memberID   uint
		ids        []uint
		wantErr    error
		validation bool
	}{
		{"single invoice", member.ID, []uint{a.ID}, nil, true},
		{"duplicate invoice", member.ID, []uint{a.ID, a.ID}, nil, true},
		{"no member", 0, []uint{a.ID, b.ID}, nil, true},
		{"other member's invoice", member.ID, []uint{a.ID, foreign.ID}, nil, true},
		{"paid invoice", member.ID, []uint{a.ID, paid.ID}, nil, true},
		{"invoice already bundled", member.ID, []uint{a.ID, bundledA.ID}, ErrConflict, false},
		{"invoice with live payment", member.ID, []uint{a.ID, pending.ID}, ErrConflict, false},
		{"missing invoice", member.ID, []uint{a.ID, 9999}, ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateBundle(ctx, tt.memberID, tt.ids)
			require.Error(t, err)
			if tt.validation {
				assert.True(t, IsValidation(err), err.Error())
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.InvoiceBundle{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
