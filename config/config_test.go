package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PAYMENT_TOLERANCE", "")
	t.Setenv("TAX_RATE", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "1000", cfg.PaymentTolerance.String())
	assert.Equal(t, "0.1", cfg.TaxRate.String())
}

func TestLoadConfigRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"tolerance", "PAYMENT_TOLERANCE"},
		{"tax rate", "TAX_RATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, "ten")
			_, err := LoadConfig()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Config{JWTSecret: "s"}).Validate())
	assert.Error(t, (&Config{DatabaseURL: "postgres://localhost/solarlink"}).Validate())
	assert.NoError(t, (&Config{DatabaseURL: "postgres://localhost/solarlink", JWTSecret: "s"}).Validate())
}
