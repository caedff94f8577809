package reconcile

import (
	"fmt"
	"time"

	"github.com/yourusername/solarlink-recon/ledger"
	"github.com/yourusername/solarlink-recon/models"
)

// settle applies a settled payment to its target inside u: the invoice (or the bundle and every
// member invoice) becomes paid and each billed order with its items is confirmed. Any failure
// leaves u to be rolled back, so a bundle settles completely or not at all.
func settle(u *ledger.Unit, p *models.Payment, at time.Time) error {
	switch {
	case p.InvoiceID != nil:
		return settleStandaloneInvoice(u, *p.InvoiceID, at)
	case p.BundleID != nil:
		return settleBundle(u, *p.BundleID, at)
	default:
		return newValidationError("target", "payment has neither invoice nor bundle")
	}
}

func settleBundle(u *ledger.Unit, bundleID uint, at time.Time) error {
	if err := u.MarkBundlePaid(bundleID, at); err != nil {
		return fmt.Errorf("settle bundle %d: %w", bundleID, err)
	}
	invoiceIDs, err := u.BundleInvoiceIDs(bundleID)
	if err != nil {
		return err
	}
	if len(invoiceIDs) == 0 {
		return fmt.Errorf("settle bundle %d: bundle has no invoices", bundleID)
	}
	for _, id := range invoiceIDs {
		if err := settleInvoice(u, id, at); err != nil {
			return fmt.Errorf("settle bundle %d: %w", bundleID, err)
		}
	}
	return nil
}

// settleStandaloneInvoice settles an invoice paid on its own. An invoice that joined an open
// bundle after the payment was planned is only payable through that bundle.
func settleStandaloneInvoice(u *ledger.Unit, invoiceID uint, at time.Time) error {
	if _, err := u.Invoice(invoiceID); err != nil {
		return fmt.Errorf("settle invoice %d: %w", invoiceID, err)
	}
	bundled, err := u.InvoiceInOpenBundle(invoiceID)
	if err != nil {
		return err
	}
	if bundled {
		return fmt.Errorf("settle invoice %d: invoice is in an open bundle: %w", invoiceID, ErrConflict)
	}
	return settleInvoice(u, invoiceID, at)
}

func settleInvoice(u *ledger.Unit, invoiceID uint, at time.Time) error {
	orderID, err := u.MarkInvoicePaid(invoiceID, at)
	if err != nil {
		return fmt.Errorf("settle invoice %d: %w", invoiceID, err)
	}
	if err := u.ConfirmOrder(orderID, at); err != nil {
		return fmt.Errorf("settle invoice %d: %w", invoiceID, err)
	}
	if err := u.ConfirmOrderItems(orderID); err != nil {
		return fmt.Errorf("settle invoice %d: %w", invoiceID, err)
	}
	return nil
}
