package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankTransaction is one imported bank statement line. Matched flips to true exactly once,
// when a live payment is recorded against it.
type BankTransaction struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	DeletedAt       gorm.DeletedAt      `gorm:"index" json:"-"`
	TransactionDate time.Time           `gorm:"not null;index" json:"transaction_date"`
	PayerName       string              `gorm:"size:255" json:"payer_name"`
	PayerNameKana   string              `gorm:"size:255" json:"payer_name_kana"`
	Amount          decimal.Decimal     `gorm:"type:numeric(15,0);not null" json:"amount"`
	Balance         decimal.NullDecimal `gorm:"type:numeric(15,0)" json:"balance"`
	Memo            string              `gorm:"type:text" json:"memo"`
	Matched         bool                `gorm:"default:false;index" json:"matched"`
}

// TableName overrides the table name
func (BankTransaction) TableName() string {
	return "bank_transactions"
}
