package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/solarlink-recon/ledger"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/models"
)

// CreateBundle groups unpaid invoices of one member into a bundle payable by a single transfer.
// The bundle total is the exact sum of the invoice totals.
func (s *Service) CreateBundle(ctx context.Context, memberID uint, invoiceIDs []uint) (*models.InvoiceBundle, error) {
	if memberID == 0 {
		return nil, newValidationError("member_id", "member is required")
	}
	if len(invoiceIDs) < 2 {
		return nil, newValidationError("invoice_ids", "a bundle needs at least two invoices")
	}
	seen := make(map[uint]bool, len(invoiceIDs))
	for _, id := range invoiceIDs {
		if seen[id] {
			return nil, newValidationError("invoice_ids", fmt.Sprintf("invoice %d listed twice", id))
		}
		seen[id] = true
	}

	bundle := &models.InvoiceBundle{
		BundleNo: "BND-" + strings.ToUpper(uuid.NewString()[:8]),
		MemberID: memberID,
		Status:   models.BundleStatusCreated,
	}
	err := s.store.InUnit(ctx, func(u *ledger.Unit) error {
		total := decimal.Zero
		for _, id := range invoiceIDs {
			inv, err := u.Invoice(id)
			if err != nil {
				return fmt.Errorf("invoice %d: %w", id, err)
			}
			if inv.MemberID != memberID {
				return newValidationError("invoice_ids", fmt.Sprintf("invoice %s belongs to another member", inv.InvoiceNo))
			}
			if !inv.IsUnpaid() {
				return newValidationError("invoice_ids", fmt.Sprintf("invoice %s is %s", inv.InvoiceNo, inv.Status))
			}
			inBundle, err := u.InvoiceInOpenBundle(id)
			if err != nil {
				return err
			}
			if inBundle {
				return fmt.Errorf("invoice %s is already in an open bundle: %w", inv.InvoiceNo, ErrConflict)
			}
			if err := noLivePayment(u, "invoice_id", id); err != nil {
				return err
			}
			total = total.Add(inv.TotalAmount)
		}
		bundle.TotalAmount = total
		return u.CreateBundle(bundle, invoiceIDs)
	})
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("bundle")
	log.Info().
		Uint("bundle_id", bundle.ID).
		Uint("member_id", memberID).
		Int("invoices", len(invoiceIDs)).
		Str("total", bundle.TotalAmount.String()).
		Msg("Invoice bundle created")
	return bundle, nil
}
