package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/solarlink-recon/ledger"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/models"
)

// ManualPaymentInput is an operator's pairing of money received with one invoice or bundle.
type ManualPaymentInput struct {
	InvoiceID  *uint
	BundleID   *uint
	BankTxnID  *uint
	Amount     *decimal.Decimal
	Note       string
	OperatorID uint
}

// ManualPaymentResult carries the created payment and the advisory tolerance check.
type ManualPaymentResult struct {
	Payment         models.Payment  `json:"payment"`
	Tolerance       decimal.Decimal `json:"tolerance"`
	WithinTolerance bool            `json:"within_tolerance"`
}

func (in ManualPaymentInput) validate() error {
	if (in.InvoiceID == nil) == (in.BundleID == nil) {
		return newValidationError("target", "exactly one of invoice_id or bundle_id is required")
	}
	if in.Amount == nil {
		return newValidationError("amount", "amount is required")
	}
	if !in.Amount.IsPositive() {
		return newValidationError("amount", "amount must be positive")
	}
	if !in.Amount.Equal(in.Amount.Truncate(0)) {
		return newValidationError("amount", "amount must be whole yen")
	}
	return nil
}

// CreateManualPayment records a payment entered by an operator. An amount equal to the target's
// total is matched and settled at once; any other amount stays pending with the signed
// difference until an operator approves or rejects it. A referenced bank transaction is consumed
// either way.
func (s *Service) CreateManualPayment(ctx context.Context, in ManualPaymentInput) (*ManualPaymentResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	tolerance, err := s.settings.PaymentTolerance(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payment tolerance: %w", err)
	}

	payment := &models.Payment{
		InvoiceID:   in.InvoiceID,
		BundleID:    in.BundleID,
		BankTxnID:   in.BankTxnID,
		Amount:      *in.Amount,
		MatchType:   models.MatchTypeManual,
		Note:        in.Note,
		CreatedByID: &in.OperatorID,
	}

	at := s.now()
	err = s.store.InUnit(ctx, func(u *ledger.Unit) error {
		total, err := s.targetTotal(u, in)
		if err != nil {
			return err
		}

		if in.BankTxnID != nil {
			if err := consumeForManual(u, *in.BankTxnID); err != nil {
				return err
			}
		}

		diff := payment.Amount.Sub(total)
		payment.Difference = decimal.NewNullDecimal(diff)
		if diff.IsZero() {
			payment.Status = models.PaymentStatusMatched
		} else {
			payment.Status = models.PaymentStatusPending
		}

		if err := u.CreatePayment(payment); err != nil {
			return err
		}
		if payment.Status == models.PaymentStatusMatched {
			return settle(u, payment, at)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("manual-match")
	log.Info().
		Uint("payment_id", payment.ID).
		Uint("operator_id", in.OperatorID).
		Str("status", payment.Status).
		Str("difference", payment.Difference.Decimal.String()).
		Msg("Manual payment recorded")
	if payment.Status == models.PaymentStatusMatched {
		s.notifySettled(ctx, *payment)
	}

	return &ManualPaymentResult{
		Payment:         *payment,
		Tolerance:       tolerance,
		WithinTolerance: payment.Difference.Decimal.Abs().LessThanOrEqual(tolerance),
	}, nil
}

// targetTotal checks that the requested invoice or bundle can take a payment and returns its total.
func (s *Service) targetTotal(u *ledger.Unit, in ManualPaymentInput) (decimal.Decimal, error) {
	if in.InvoiceID != nil {
		inv, err := u.Invoice(*in.InvoiceID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invoice %d: %w", *in.InvoiceID, err)
		}
		switch inv.Status {
		case models.InvoiceStatusPaid:
			return decimal.Zero, fmt.Errorf("invoice %s is already paid: %w", inv.InvoiceNo, ErrConflict)
		case models.InvoiceStatusCancelled:
			return decimal.Zero, newValidationError("invoice_id", "invoice is cancelled")
		}
		inBundle, err := u.InvoiceInOpenBundle(inv.ID)
		if err != nil {
			return decimal.Zero, err
		}
		if inBundle {
			return decimal.Zero, newValidationError("invoice_id", "invoice is part of an open bundle; pay the bundle instead")
		}
		if err := noLivePayment(u, "invoice_id", inv.ID); err != nil {
			return decimal.Zero, err
		}
		return inv.TotalAmount, nil
	}

	bundle, err := u.Bundle(*in.BundleID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bundle %d: %w", *in.BundleID, err)
	}
	if !bundle.IsOpen() {
		return decimal.Zero, fmt.Errorf("bundle %s is already paid: %w", bundle.BundleNo, ErrConflict)
	}
	if err := noLivePayment(u, "bundle_id", bundle.ID); err != nil {
		return decimal.Zero, err
	}
	return bundle.TotalAmount, nil
}

func noLivePayment(u *ledger.Unit, column string, id uint) error {
	live, err := u.HasLivePayment(column, id)
	if err != nil {
		return err
	}
	if live {
		return fmt.Errorf("%s %d already has a live payment: %w", strings.TrimSuffix(column, "_id"), id, ErrConflict)
	}
	return nil
}

func consumeForManual(u *ledger.Unit, txnID uint) error {
	txn, err := u.Transaction(txnID)
	if err != nil {
		return fmt.Errorf("bank transaction %d: %w", txnID, err)
	}
	if txn.Matched {
		return fmt.Errorf("bank transaction %d: %w", txnID, ErrAlreadyMatched)
	}
	if err := u.ConsumeTransaction(txnID); err != nil {
		return fmt.Errorf("consume transaction %d: %w", txnID, err)
	}
	return nil
}

// ApprovePayment signs off a pending payment and settles its target regardless of the difference.
func (s *Service) ApprovePayment(ctx context.Context, paymentID, operatorID uint, note string) (*models.Payment, error) {
	var payment *models.Payment
	at := s.now()
	err := s.store.InUnit(ctx, func(u *ledger.Unit) error {
		p, err := reviewable(u, paymentID)
		if err != nil {
			return err
		}
		review := ledger.PaymentReview{ReviewerID: operatorID, At: at, Note: appendNote(p.Note, note)}
		if err := u.TransitionPayment(p.ID, models.PaymentStatusPending, models.PaymentStatusApproved, review); err != nil {
			return fmt.Errorf("approve payment %d: %w", p.ID, err)
		}
		if err := settle(u, p, at); err != nil {
			return err
		}
		p.Status = models.PaymentStatusApproved
		p.ApprovedByID = &operatorID
		p.ApprovedAt = &at
		p.Note = review.Note
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("manual-match")
	log.Info().Uint("payment_id", payment.ID).Uint("operator_id", operatorID).Msg("Payment approved")
	s.notifySettled(ctx, *payment)
	return payment, nil
}

// RejectPayment declines a pending payment. The target stays unpaid and the bank transaction,
// if any, returns to the unmatched pool.
func (s *Service) RejectPayment(ctx context.Context, paymentID, operatorID uint, reason string) (*models.Payment, error) {
	var payment *models.Payment
	at := s.now()
	err := s.store.InUnit(ctx, func(u *ledger.Unit) error {
		p, err := reviewable(u, paymentID)
		if err != nil {
			return err
		}
		review := ledger.PaymentReview{ReviewerID: operatorID, At: at, Note: appendNote(p.Note, reason)}
		if err := u.TransitionPayment(p.ID, models.PaymentStatusPending, models.PaymentStatusRejected, review); err != nil {
			return fmt.Errorf("reject payment %d: %w", p.ID, err)
		}
		if p.BankTxnID != nil {
			if err := u.ReleaseTransaction(*p.BankTxnID); err != nil {
				return fmt.Errorf("release transaction %d: %w", *p.BankTxnID, err)
			}
		}
		p.Status = models.PaymentStatusRejected
		p.ApprovedByID = &operatorID
		p.ApprovedAt = &at
		p.Note = review.Note
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("manual-match")
	log.Info().Uint("payment_id", payment.ID).Uint("operator_id", operatorID).Msg("Payment rejected")
	return payment, nil
}

func reviewable(u *ledger.Unit, paymentID uint) (*models.Payment, error) {
	p, err := u.Payment(paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment %d: %w", paymentID, err)
	}
	if p.Status != models.PaymentStatusPending {
		return nil, fmt.Errorf("payment %d is %s: %w", p.ID, p.Status, ErrInvalidTransition)
	}
	return p, nil
}

func appendNote(existing, addition string) string {
	addition = strings.TrimSpace(addition)
	switch {
	case addition == "":
		return existing
	case existing == "":
		return addition
	default:
		return existing + "\n" + addition
	}
}
