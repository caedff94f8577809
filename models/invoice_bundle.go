package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BundleStatusCreated = "created"
	BundleStatusSent    = "sent"
	BundleStatusPaid    = "paid"
)

// BundleOpenStatuses are the states of a bundle that still awaits payment.
var BundleOpenStatuses = []string{BundleStatusCreated, BundleStatusSent}

// InvoiceBundle groups several unpaid invoices of one member into a single payable unit.
type InvoiceBundle struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`
	BundleNo    string              `gorm:"uniqueIndex;size:50;not null" json:"bundle_no"`
	MemberID    uint                `gorm:"not null;index" json:"member_id"`
	Member      Member              `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	TotalAmount decimal.Decimal     `gorm:"type:numeric(15,0);not null" json:"total_amount"`
	Status      string              `gorm:"size:20;default:'created';index" json:"status"` // created, sent, paid
	PaidAt      *time.Time          `json:"paid_at"`
	Items       []InvoiceBundleItem `gorm:"foreignKey:BundleID" json:"items,omitempty"`
}

// TableName overrides the table name
func (InvoiceBundle) TableName() string {
	return "invoice_bundles"
}

// IsOpen reports whether the bundle can still be settled.
func (b InvoiceBundle) IsOpen() bool {
	return b.Status == BundleStatusCreated || b.Status == BundleStatusSent
}

// InvoiceBundleItem is the join row between a bundle and one of its invoices.
type InvoiceBundleItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	BundleID  uint      `gorm:"not null;uniqueIndex:idx_bundle_items_bundle_invoice" json:"bundle_id"`
	InvoiceID uint      `gorm:"not null;uniqueIndex:idx_bundle_items_bundle_invoice;index" json:"invoice_id"`
	Invoice   Invoice   `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

// TableName overrides the table name
func (InvoiceBundleItem) TableName() string {
	return "invoice_bundle_items"
}
