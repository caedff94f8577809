package models

import (
	"time"

	"gorm.io/gorm"
)

// Member is a contractor organization that receives invoices and pays them by bank transfer.
// PayerName and PayerNameKana are the names the member's bank prints on incoming transfers.
type Member struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Code          string         `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	PayerName     string         `gorm:"size:255" json:"payer_name"`
	PayerNameKana string         `gorm:"size:255" json:"payer_name_kana"`
}

// TableName overrides the table name
func (Member) TableName() string {
	return "members"
}

// Partner is a manufacturer that issues invoices to members.
type Partner struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Code      string         `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name      string         `gorm:"size:255;not null" json:"name"`
}

// TableName overrides the table name
func (Partner) TableName() string {
	return "partners"
}
