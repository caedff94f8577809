package ledger

import (
	"fmt"
	"time"

	"github.com/yourusername/solarlink-recon/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Unit is one atomic unit of work. Every write it performs becomes visible on Commit and is
// discarded on Rollback.
type Unit struct {
	tx   *gorm.DB
	done bool
}

func (u *Unit) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Commit().Error; err != nil {
		return fmt.Errorf("commit unit: %w", translate(err))
	}
	return nil
}

func (u *Unit) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback().Error
}

func (u *Unit) locked() *gorm.DB {
	return u.tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Transaction reads a bank transaction, locking the row where the database supports it.
func (u *Unit) Transaction(id uint) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	if err := u.locked().First(&txn, id).Error; err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

// ConsumeTransaction flips matched from false to true.
func (u *Unit) ConsumeTransaction(id uint) error {
	res := u.tx.Model(&models.BankTransaction{}).
		Where("id = ? AND matched = ?", id, false).
		Update("matched", true)
	return u.guard(res, &models.BankTransaction{}, id)
}

// ReleaseTransaction returns a consumed transaction to the unmatched pool.
func (u *Unit) ReleaseTransaction(id uint) error {
	res := u.tx.Model(&models.BankTransaction{}).
		Where("id = ? AND matched = ?", id, true).
		Update("matched", false)
	return u.guard(res, &models.BankTransaction{}, id)
}

func (u *Unit) Invoice(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := u.locked().First(&invoice, id).Error; err != nil {
		return nil, translate(err)
	}
	return &invoice, nil
}

func (u *Unit) Bundle(id uint) (*models.InvoiceBundle, error) {
	var bundle models.InvoiceBundle
	if err := u.locked().First(&bundle, id).Error; err != nil {
		return nil, translate(err)
	}
	return &bundle, nil
}

// BundleInvoiceIDs lists the invoices joined to a bundle in id order.
func (u *Unit) BundleInvoiceIDs(bundleID uint) ([]uint, error) {
	var ids []uint
	err := u.tx.Model(&models.InvoiceBundleItem{}).
		Where("bundle_id = ?", bundleID).
		Order("invoice_id ASC").
		Pluck("invoice_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load bundle %d invoices: %w", bundleID, err)
	}
	return ids, nil
}

// InvoiceInOpenBundle reports whether the invoice is currently part of an unpaid bundle.
func (u *Unit) InvoiceInOpenBundle(invoiceID uint) (bool, error) {
	var count int64
	err := openBundleMembers(u.tx).
		Where("invoice_bundle_items.invoice_id = ?", invoiceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check bundle membership of invoice %d: %w", invoiceID, err)
	}
	return count > 0, nil
}

// HasLivePayment reports whether a non-rejected payment targets the invoice or bundle
// identified by column ("invoice_id" or "bundle_id").
func (u *Unit) HasLivePayment(column string, id uint) (bool, error) {
	var count int64
	err := u.tx.Model(&models.Payment{}).
		Where("status <> ?", models.PaymentStatusRejected).
		Where(column+" = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check live payments on %s %d: %w", column, id, err)
	}
	return count > 0, nil
}

func (u *Unit) CreatePayment(payment *models.Payment) error {
	if err := u.tx.Create(payment).Error; err != nil {
		return fmt.Errorf("create payment: %w", translate(err))
	}
	return nil
}

func (u *Unit) Payment(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := u.locked().First(&payment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

// PaymentReview carries the fields written when an operator decides on a pending payment.
type PaymentReview struct {
	ReviewerID uint
	At         time.Time
	Note       string
}

// TransitionPayment moves a payment from one status to another, stamping the reviewer.
func (u *Unit) TransitionPayment(id uint, from, to string, review PaymentReview) error {
	res := u.tx.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":         to,
			"approved_by_id": review.ReviewerID,
			"approved_at":    review.At,
			"note":           review.Note,
		})
	return u.guard(res, &models.Payment{}, id)
}

// MarkInvoicePaid settles an unpaid invoice and returns the order it bills.
func (u *Unit) MarkInvoicePaid(id uint, at time.Time) (uint, error) {
	invoice, err := u.Invoice(id)
	if err != nil {
		return 0, err
	}
	res := u.tx.Model(&models.Invoice{}).
		Where("id = ? AND status IN ?", id, models.InvoiceUnpaidStatuses).
		Updates(map[string]interface{}{"status": models.InvoiceStatusPaid, "paid_at": at})
	if err := u.guard(res, &models.Invoice{}, id); err != nil {
		return 0, err
	}
	return invoice.OrderID, nil
}

// MarkBundlePaid settles an open bundle. Member invoices are settled separately.
func (u *Unit) MarkBundlePaid(id uint, at time.Time) error {
	res := u.tx.Model(&models.InvoiceBundle{}).
		Where("id = ? AND status IN ?", id, models.BundleOpenStatuses).
		Updates(map[string]interface{}{"status": models.BundleStatusPaid, "paid_at": at})
	return u.guard(res, &models.InvoiceBundle{}, id)
}

// ConfirmOrder moves an order forward to confirmed. Orders already confirmed or beyond are
// left as they are; a missing order is an error.
func (u *Unit) ConfirmOrder(id uint, at time.Time) error {
	res := u.tx.Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, models.OrderStatusesBeforeConfirmed).
		Updates(map[string]interface{}{"status": models.OrderStatusConfirmed, "confirmed_at": at})
	if res.Error != nil {
		return fmt.Errorf("confirm order %d: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return u.exists(&models.Order{}, id)
}

// ConfirmOrderItems moves every line of an order forward to confirmed.
func (u *Unit) ConfirmOrderItems(orderID uint) error {
	err := u.tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND status IN ?", orderID, models.OrderStatusesBeforeConfirmed).
		Update("status", models.OrderStatusConfirmed).Error
	if err != nil {
		return fmt.Errorf("confirm items of order %d: %w", orderID, err)
	}
	return nil
}

// CreateBundle inserts a bundle together with its join rows.
func (u *Unit) CreateBundle(bundle *models.InvoiceBundle, invoiceIDs []uint) error {
	bundle.Items = make([]models.InvoiceBundleItem, 0, len(invoiceIDs))
	for _, id := range invoiceIDs {
		bundle.Items = append(bundle.Items, models.InvoiceBundleItem{InvoiceID: id})
	}
	if err := u.tx.Omit("Member").Create(bundle).Error; err != nil {
		return fmt.Errorf("create bundle: %w", translate(err))
	}
	return nil
}

// guard turns a zero-row guarded update into ErrConflict, or ErrNotFound when the row is gone.
func (u *Unit) guard(res *gorm.DB, model interface{}, id uint) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if err := u.exists(model, id); err != nil {
		return err
	}
	return ErrConflict
}

func (u *Unit) exists(model interface{}, id uint) error {
	var count int64
	if err := u.tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%T %d: %w", model, id, ErrNotFound)
	}
	return nil
}
