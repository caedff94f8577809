package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	InvoiceStatusIssued    = "issued"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// InvoiceUnpaidStatuses are the states from which an invoice can still be settled.
var InvoiceUnpaidStatuses = []string{InvoiceStatusIssued, InvoiceStatusSent}

type Invoice struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	InvoiceNo   string          `gorm:"uniqueIndex;size:50;not null" json:"invoice_no"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	PartnerID   uint            `gorm:"not null;index" json:"partner_id"`
	MemberID    uint            `gorm:"not null;index" json:"member_id"`
	Member      Member          `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Amount      decimal.Decimal `gorm:"type:numeric(15,0);not null" json:"amount"`
	TaxAmount   decimal.Decimal `gorm:"type:numeric(15,0);not null" json:"tax_amount"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(15,0);not null" json:"total_amount"`
	Status      string          `gorm:"size:20;default:'issued';index" json:"status"` // issued, sent, paid, cancelled
	IssuedAt    time.Time       `json:"issued_at"`
	DueDate     *time.Time      `json:"due_date"`
	PaidAt      *time.Time      `json:"paid_at"`
}

// TableName overrides the table name
func (Invoice) TableName() string {
	return "invoices"
}

// IsUnpaid reports whether the invoice can still be settled.
func (i Invoice) IsUnpaid() bool {
	return i.Status == InvoiceStatusIssued || i.Status == InvoiceStatusSent
}
