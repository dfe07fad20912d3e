package taxcase

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/rentflow/internal/config"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	"github.com/smallbiznis/rentflow/internal/taxcase/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxcase.service",
	fx.Provide(provideDefaults),
	fx.Provide(service.NewCalculator),
)

// holderDefaults reads the statutory rates from the hot-reloaded invoicing config.
type holderDefaults struct {
	holder *config.InvoicingConfigHolder
}

func provideDefaults(holder *config.InvoicingConfigHolder) service.DefaultsSource {
	return holderDefaults{holder: holder}
}

func (h holderDefaults) StatutoryRates() taxdomain.RateSet {
	if h.holder == nil {
		return taxdomain.StatutoryRates()
	}
	return RateSetFromConfig(h.holder.Get().Rates)
}

// RateSetFromConfig converts configured rates, keeping statutory values for
// categories the config leaves out.
func RateSetFromConfig(rates map[string]string) taxdomain.RateSet {
	out := taxdomain.StatutoryRates()
	for key, raw := range rates {
		category := taxdomain.Category(key)
		if !category.Valid() {
			continue
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		out = out.With(category, rate)
	}
	return out
}
