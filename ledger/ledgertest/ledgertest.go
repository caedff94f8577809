// Package ledgertest provides an in-memory SQLite ledger and fixture builders for tests.
package ledgertest

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/solarlink-recon/config"
	"github.com/yourusername/solarlink-recon/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory database. The pool is limited to one connection so the
// in-memory schema is shared by every query.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// Yen builds a whole-yen amount.
func Yen(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Fixtures creates related records with sensible defaults.
type Fixtures struct {
	t   testing.TB
	db  *gorm.DB
	seq int
}

func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) next() int {
	f.seq++
	return f.seq
}

func (f *Fixtures) Member(name, payerName, payerKana string) *models.Member {
	f.t.Helper()
	m := &models.Member{
		Code:          fmt.Sprintf("M%04d", f.next()),
		Name:          name,
		PayerName:     payerName,
		PayerNameKana: payerKana,
	}
	require.NoError(f.t, f.db.Create(m).Error)
	return m
}

func (f *Fixtures) Partner() *models.Partner {
	f.t.Helper()
	p := &models.Partner{Code: fmt.Sprintf("P%04d", f.next()), Name: "Sunrise Panels"}
	require.NoError(f.t, f.db.Create(p).Error)
	return p
}

// Order creates a pending order with the given number of pending items.
func (f *Fixtures) Order(member *models.Member, items int) *models.Order {
	f.t.Helper()
	partner := f.Partner()
	o := &models.Order{
		OrderNo:   fmt.Sprintf("ORD-%04d", f.next()),
		MemberID:  member.ID,
		PartnerID: partner.ID,
		Status:    models.OrderStatusPending,
	}
	for i := 0; i < items; i++ {
		o.Items = append(o.Items, models.OrderItem{
			ProductName: fmt.Sprintf("Module %d", i+1),
			Quantity:    1,
			UnitPrice:   Yen(10000),
			Status:      models.OrderStatusPending,
		})
	}
	require.NoError(f.t, f.db.Create(o).Error)
	return o
}

// Invoice creates an issued invoice for a fresh order of member totalling total yen.
func (f *Fixtures) Invoice(member *models.Member, total int64) *models.Invoice {
	f.t.Helper()
	return f.InvoiceForOrder(member, f.Order(member, 2), total)
}

func (f *Fixtures) InvoiceForOrder(member *models.Member, order *models.Order, total int64) *models.Invoice {
	f.t.Helper()
	tax := Yen(total).Div(decimal.NewFromFloat(1.1)).Mul(decimal.NewFromFloat(0.1)).Round(0)
	inv := &models.Invoice{
		InvoiceNo:   fmt.Sprintf("INV-%04d", f.next()),
		OrderID:     order.ID,
		PartnerID:   order.PartnerID,
		MemberID:    member.ID,
		Amount:      Yen(total).Sub(tax),
		TaxAmount:   tax,
		TotalAmount: Yen(total),
		Status:      models.InvoiceStatusIssued,
		IssuedAt:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(f.t, f.db.Omit("Member").Create(inv).Error)
	return inv
}

// Bundle groups invoices into an open bundle whose total is their sum.
func (f *Fixtures) Bundle(member *models.Member, invoices ...*models.Invoice) *models.InvoiceBundle {
	f.t.Helper()
	total := decimal.Zero
	b := &models.InvoiceBundle{
		BundleNo: fmt.Sprintf("BND-%04d", f.next()),
		MemberID: member.ID,
		Status:   models.BundleStatusCreated,
	}
	for _, inv := range invoices {
		total = total.Add(inv.TotalAmount)
		b.Items = append(b.Items, models.InvoiceBundleItem{InvoiceID: inv.ID})
	}
	b.TotalAmount = total
	require.NoError(f.t, f.db.Omit("Member").Create(b).Error)
	return b
}

// Transaction creates an unmatched bank transaction.
func (f *Fixtures) Transaction(amount int64, payerName, payerKana string, date time.Time) *models.BankTransaction {
	f.t.Helper()
	txn := &models.BankTransaction{
		TransactionDate: date,
		PayerName:       payerName,
		PayerNameKana:   payerKana,
		Amount:          Yen(amount),
		Memo:            "振込",
	}
	require.NoError(f.t, f.db.Create(txn).Error)
	return txn
}

func (f *Fixtures) User(role string, memberID *uint) *models.User {
	f.t.Helper()
	n := f.next()
	u := &models.User{
		Email:        fmt.Sprintf("user%d@example.jp", n),
		Name:         fmt.Sprintf("User %d", n),
		PasswordHash: "x",
		Role:         role,
		MemberID:     memberID,
		IsActive:     true,
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}
