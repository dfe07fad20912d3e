package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInvoicingFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoicing.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewInvoicingConfigHolder_ReadsFileAndKeepsDefaults(t *testing.T) {
	path := writeInvoicingFile(t, `
invoicing:
  rates:
    energy: 0.05
    gas: "0.08"
`)

	holder, err := NewInvoicingConfigHolder(Config{Invoice: InvoiceConfig{ConfigPath: path}})
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, "0.05", cfg.Rates["energy"])
	assert.Equal(t, "0.08", cfg.Rates["gas"])
	assert.Equal(t, "0.23", cfg.Rates["landlord_rent"])
	assert.Equal(t, "0.08", cfg.Rates["trash"])
}

func TestNewInvoicingConfigHolder_RejectsOutOfRangeRate(t *testing.T) {
	path := writeInvoicingFile(t, `
invoicing:
  rates:
    energy: 1.5
`)

	_, err := NewInvoicingConfigHolder(Config{Invoice: InvoiceConfig{ConfigPath: path}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoicing.rates.energy")
}

func TestInvoicingConfigHolder_ReloadKeepsLastValidConfig(t *testing.T) {
	holder, err := NewStaticInvoicingConfigHolder(InvoicingConfig{Rates: map[string]string{"energy": "0.05"}})
	require.NoError(t, err)

	v := viper.New()
	v.Set("invoicing.rates.energy", "abc")
	require.Error(t, holder.reload(v))
	assert.Equal(t, "0.05", holder.Get().Rates["energy"])

	v.Set("invoicing.rates.energy", "0.07")
	require.NoError(t, holder.reload(v))
	assert.Equal(t, "0.07", holder.Get().Rates["energy"])
}

func TestDefaultInvoicingConfig_IsValid(t *testing.T) {
	assert.NoError(t, validateInvoicingConfig(DefaultInvoicingConfig()))
}

func TestNewStaticInvoicingConfigHolder_RejectsUnknownCategory(t *testing.T) {
	_, err := NewStaticInvoicingConfigHolder(InvoicingConfig{Rates: map[string]string{"parking": "0.23"}})
	assert.ErrorContains(t, err, "unknown category")
}
