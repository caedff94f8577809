// Package ledger is the relational store behind payment reconciliation. Reads outside a Unit are
// snapshots for planning; every state change goes through a Unit, whose guarded updates fail with
// ErrConflict when another writer got there first.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/solarlink-recon/logger"
	"github.com/yourusername/solarlink-recon/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record was changed by a concurrent update")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for collaborators that share the connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// UnmatchedTransactions returns every bank transaction not yet consumed, most recent first.
func (s *Store) UnmatchedTransactions(ctx context.Context) ([]models.BankTransaction, error) {
	var txns []models.BankTransaction
	err := s.db.WithContext(ctx).
		Where("matched = ?", false).
		Order("transaction_date DESC").Order("id DESC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("load unmatched transactions: %w", err)
	}
	return txns, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uint) (*models.BankTransaction, error) {
	var txn models.BankTransaction
	if err := s.db.WithContext(ctx).First(&txn, id).Error; err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

// UnpaidInvoices returns settleable invoices in id order. Invoices that already carry a live
// payment or belong to an open bundle are left out; they can only be settled through that
// payment or bundle.
func (s *Store) UnpaidInvoices(ctx context.Context) ([]models.Invoice, error) {
	db := s.db.WithContext(ctx)
	var invoices []models.Invoice
	err := db.Preload("Member").
		Where("status IN ?", models.InvoiceUnpaidStatuses).
		Where("id NOT IN (?)", livePaymentTargets(db, "invoice_id")).
		Where("id NOT IN (?)", openBundleMembers(db)).
		Order("id ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("load unpaid invoices: %w", err)
	}
	return invoices, nil
}

// UnpaidBundles returns open bundles without a live payment, in id order.
func (s *Store) UnpaidBundles(ctx context.Context) ([]models.InvoiceBundle, error) {
	db := s.db.WithContext(ctx)
	var bundles []models.InvoiceBundle
	err := db.Preload("Member").Preload("Items").
		Where("status IN ?", models.BundleOpenStatuses).
		Where("id NOT IN (?)", livePaymentTargets(db, "bundle_id")).
		Order("id ASC").
		Find(&bundles).Error
	if err != nil {
		return nil, fmt.Errorf("load unpaid bundles: %w", err)
	}
	return bundles, nil
}

func (s *Store) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (s *Store) SaveRun(ctx context.Context, run *models.ReconciliationRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("save reconciliation run: %w", err)
	}
	return nil
}

func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*models.ReconciliationRun, error) {
	var run models.ReconciliationRun
	if err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &run, nil
}

// Begin opens a unit of work. Callers must end it with Commit or Rollback.
func (s *Store) Begin(ctx context.Context) (*Unit, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin unit: %w", tx.Error)
	}
	return &Unit{tx: tx}, nil
}

// InUnit runs fn inside a unit of work, committing when fn returns nil and rolling back otherwise.
func (s *Store) InUnit(ctx context.Context, fn func(u *Unit) error) error {
	u, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			u.Rollback()
			panic(r)
		}
	}()

	if err := fn(u); err != nil {
		if rbErr := u.Rollback(); rbErr != nil {
			log := logger.WithComponent("ledger")
			log.Error().Err(rbErr).Msg("Rollback failed")
		}
		return err
	}
	return u.Commit()
}

func livePaymentTargets(db *gorm.DB, column string) *gorm.DB {
	return db.Model(&models.Payment{}).
		Select(column).
		Where("status <> ?", models.PaymentStatusRejected).
		Where(column + " IS NOT NULL")
}

func openBundleMembers(db *gorm.DB) *gorm.DB {
	return db.Table("invoice_bundle_items").
		Select("invoice_bundle_items.invoice_id").
		Joins("JOIN invoice_bundles ON invoice_bundles.id = invoice_bundle_items.bundle_id").
		Where("invoice_bundles.status IN ?", models.BundleOpenStatuses).
		Where("invoice_bundles.deleted_at IS NULL")
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}
