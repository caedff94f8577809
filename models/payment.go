package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusMatched  = "matched"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"

	MatchTypeAuto   = "auto"
	MatchTypeManual = "manual"
)

// Payment records money received against exactly one invoice or one bundle.
// Difference is NULL only for exact automatic matches.
type Payment struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	DeletedAt    gorm.DeletedAt      `gorm:"index" json:"-"`
	InvoiceID    *uint               `json:"invoice_id"`
	BundleID     *uint               `json:"bundle_id"`
	BankTxnID    *uint               `json:"bank_txn_id"`
	Amount       decimal.Decimal     `gorm:"type:numeric(15,0);not null" json:"amount"`
	Status       string              `gorm:"size:20;default:'pending';index" json:"status"` // pending, matched, approved, rejected
	MatchType    string              `gorm:"size:10;not null" json:"match_type"`            // auto, manual
	MatchRule    string              `gorm:"size:30" json:"match_rule,omitempty"`
	Difference   decimal.NullDecimal `gorm:"type:numeric(15,0)" json:"difference"`
	Note         string              `gorm:"type:text" json:"note"`
	CreatedByID  *uint               `json:"created_by_id"`
	ApprovedByID *uint               `json:"approved_by_id"`
	ApprovedAt   *time.Time          `json:"approved_at"`
}

// TableName overrides the table name
func (Payment) TableName() string {
	return "payments"
}
