package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InvoicingConfig is the hot-reloadable part of invoicing: the statutory VAT
// rates keyed by category name, as decimal fractions.
type InvoicingConfig struct {
	Rates map[string]string `mapstructure:"rates"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		Rates: map[string]string{
			"landlord_rent":       "0.23",
			"housing_rent":        "0.23",
			"cold_water":          "0.08",
			"hot_water":           "0.08",
			"gas":                 "0.23",
			"energy":              "0.23",
			"heat":                "0.23",
			"gas_subscription":    "0.23",
			"energy_subscription": "0.23",
			"heat_subscription":   "0.23",
			"trash":               "0.08",
		},
	}
}

type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

// NewInvoicingConfigHolder loads invoicing.yml from the usual locations, or
// from path when set, and watches it for changes.
func NewInvoicingConfigHolder(cfg Config) (*InvoicingConfigHolder, error) {
	v := viper.New()

	if cfg.Invoice.ConfigPath != "" {
		v.SetConfigFile(cfg.Invoice.ConfigPath)
	} else {
		v.SetConfigName("invoicing")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/rentflow")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RENTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvoicingConfig()
	for key, rate := range defaults.Rates {
		v.SetDefault("invoicing.rates."+key, rate)
	}

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	holder := &InvoicingConfigHolder{}
	if err := holder.reload(v); err != nil {
		return nil, err
	}

	if found {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			if err := holder.reload(v); err != nil {
				zap.L().Warn("invalid invoicing config ignored", zap.String("file", e.Name), zap.Error(err))
				return
			}
			zap.L().Info("invoicing config reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

// NewStaticInvoicingConfigHolder returns a holder that never reloads.
func NewStaticInvoicingConfigHolder(cfg InvoicingConfig) (*InvoicingConfigHolder, error) {
	cfg = withDefaultRates(cfg)
	if err := validateInvoicingConfig(cfg); err != nil {
		return nil, err
	}
	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)
	return holder, nil
}

func (h *InvoicingConfigHolder) Get() InvoicingConfig {
	return h.current.Load().(InvoicingConfig)
}

// reload stores the config read by v, keeping the previous one when invalid.
func (h *InvoicingConfigHolder) reload(v *viper.Viper) error {
	var cfg InvoicingConfig
	if err := v.UnmarshalKey("invoicing", &cfg); err != nil {
		return err
	}
	cfg = withDefaultRates(cfg)
	if err := validateInvoicingConfig(cfg); err != nil {
		return err
	}
	h.current.Store(cfg)
	return nil
}

// withDefaultRates fills categories the file leaves out with statutory rates.
func withDefaultRates(cfg InvoicingConfig) InvoicingConfig {
	rates := make(map[string]string, len(cfg.Rates))
	for key, rate := range DefaultInvoicingConfig().Rates {
		rates[key] = rate
	}
	for key, rate := range cfg.Rates {
		rates[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(rate)
	}
	cfg.Rates = rates
	return cfg
}

func validateInvoicingConfig(cfg InvoicingConfig) error {
	if len(cfg.Rates) == 0 {
		return errors.New("invoicing.rates cannot be empty")
	}
	known := DefaultInvoicingConfig().Rates
	one := decimal.NewFromInt(1)
	for key, raw := range cfg.Rates {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("invoicing.rates.%s: unknown category", key)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invoicing.rates.%s: %w", key, err)
		}
		if rate.IsNegative() || rate.GreaterThan(one) {
			return fmt.Errorf("invoicing.rates.%s must be within [0, 1], got %s", key, raw)
		}
	}
	return nil
}
