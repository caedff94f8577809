package models

import "time"

const (
	SettingPaymentTolerance = "payment_tolerance"
	SettingTaxRate          = "tax_rate"
)

// Setting is a key/value row maintained by administrators.
type Setting struct {
	Key       string    `gorm:"primaryKey;column:setting_key;size:100" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Setting) TableName() string {
	return "settings"
}
