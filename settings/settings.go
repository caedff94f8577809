// Package settings serves administrator-maintained business settings. Rows in the settings
// table override the defaults taken from the environment.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yourusername/solarlink-recon/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Defaults struct {
	PaymentTolerance decimal.Decimal
	TaxRate          decimal.Decimal
}

type Store struct {
	db       *gorm.DB
	defaults Defaults
}

func NewStore(db *gorm.DB, defaults Defaults) *Store {
	return &Store{db: db, defaults: defaults}
}

// PaymentTolerance is the advisory amount within which an operator may accept a differenced payment.
func (s *Store) PaymentTolerance(ctx context.Context) (decimal.Decimal, error) {
	return s.decimal(ctx, models.SettingPaymentTolerance, s.defaults.PaymentTolerance)
}

// TaxRate is the consumption tax rate applied when invoices are issued.
func (s *Store) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	return s.decimal(ctx, models.SettingTaxRate, s.defaults.TaxRate)
}

// Set stores a decimal setting, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value decimal.Decimal) error {
	row := models.Setting{Key: key, Value: value.String()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("store setting %s: %w", key, err)
	}
	return nil
}

func (s *Store) decimal(ctx context.Context, key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	var row models.Setting
	err := s.db.WithContext(ctx).Where("setting_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("load setting %s: %w", key, err)
	}
	value, err := decimal.NewFromString(row.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("setting %s holds %q: %w", key, row.Value, err)
	}
	return value, nil
}
