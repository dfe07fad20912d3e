package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/rentflow/internal/observability/metrics"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// amountPlaces is the number of fraction digits kept on every amount.
const amountPlaces = 2

// DefaultsSource provides the statutory rate table in force.
type DefaultsSource interface {
	StatutoryRates() taxdomain.RateSet
}

type staticDefaults struct{}

func (staticDefaults) StatutoryRates() taxdomain.RateSet { return taxdomain.StatutoryRates() }

type Params struct {
	fx.In

	Log      *zap.Logger
	Defaults DefaultsSource          `optional:"true"`
	Metrics  *metrics.InvoiceMetrics `optional:"true"`
}

// Calculator prices invoices. It holds no per-invoice state and is safe for
// concurrent use.
type Calculator struct {
	log      *zap.Logger
	defaults DefaultsSource
	metrics  *metrics.InvoiceMetrics
}

func NewCalculator(p Params) *Calculator {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	defaults := p.Defaults
	if defaults == nil {
		defaults = staticDefaults{}
	}
	return &Calculator{
		log:      log.Named("taxcase.calculator"),
		defaults: defaults,
		metrics:  p.Metrics,
	}
}

// Calculate prices every line of in and sums the lines the property carries.
func (c *Calculator) Calculate(ctx context.Context, in taxdomain.Input) (taxdomain.Result, error) {
	result, err := Compute(in, c.defaults.StatutoryRates())
	if err != nil {
		return taxdomain.Result{}, err
	}

	if !result.Matched {
		c.log.Warn("no VAT rule covers party/purpose combination, statutory rates applied",
			zap.String("landlord", string(in.Case.Landlord)),
			zap.String("tenant", string(in.Case.Tenant)),
			zap.String("purpose", string(in.Case.Purpose)),
		)
		c.metrics.RecordUnmatchedTaxRule(string(in.Case.Landlord), string(in.Case.Tenant), string(in.Case.Purpose))
	}

	return result, nil
}

// Compute is the pure pricing function behind Calculator.
func Compute(in taxdomain.Input, defaults taxdomain.RateSet) (taxdomain.Result, error) {
	if err := in.Validate(); err != nil {
		return taxdomain.Result{}, err
	}

	rates, ruleID, matched := ResolveRates(in.Case, defaults)

	lines := make([]taxdomain.TaxLine, 0, len(taxdomain.BilledCategories))
	total := decimal.Zero
	for _, category := range taxdomain.BilledCategories {
		line := priceLine(category, in.Figures, rates.Rate(category))
		line.Included = in.Capabilities.Includes(category)
		if line.Included {
			total = total.Add(line.Gross)
		}
		lines = append(lines, line)
	}

	return taxdomain.Result{
		Case:    in.Case,
		Rule:    ruleID,
		Matched: matched,
		Rates:   rates,
		Lines:   lines,
		Total:   total.Round(amountPlaces),
	}, nil
}

// priceLine derives tax and gross from the same rounded net so the two
// never drift apart.
func priceLine(category taxdomain.Category, figures taxdomain.Figures, rate decimal.Decimal) taxdomain.TaxLine {
	raw := figures.UnitPrice(category)
	if category.IsMetered() {
		raw = raw.Mul(figures.Quantity(category))
	}

	net := raw.Round(amountPlaces)
	tax := net.Mul(rate).Round(amountPlaces)
	gross := tax.Add(net).Round(amountPlaces)

	return taxdomain.TaxLine{
		Category: category,
		Net:      net,
		Rate:     rate,
		Tax:      tax,
		Gross:    gross,
	}
}
