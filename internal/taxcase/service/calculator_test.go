package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallbiznis/rentflow/internal/observability/metrics"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCompute_ExemptResidentialColdWater(t *testing.T) {
	figures := fullFigures()
	figures.ColdWaterQuantity = nd("10")
	figures.ColdWaterPrice = nd("5.00")

	result, err := Compute(taxdomain.Input{
		Case:         taxdomain.NewCaseKey(false, false, taxdomain.PurposeLive),
		Figures:      figures,
		Capabilities: taxdomain.Capabilities{HasHW: false, HasGas: false, HasHeat: true},
	}, taxdomain.StatutoryRates())
	require.NoError(t, err)

	line, ok := result.Line(taxdomain.CategoryColdWater)
	require.True(t, ok)
	assert.Equal(t, "50.00", line.Net.StringFixed(2))
	assert.True(t, line.Rate.IsZero())
	assert.True(t, line.Exempt())
	assert.Equal(t, "0.00", line.Tax.StringFixed(2))
	assert.Equal(t, "50.00", line.Gross.StringFixed(2))

	for _, l := range result.Lines {
		assert.True(t, l.Rate.IsZero(), "%s should be exempt", l.Category)
	}
}

func TestCompute_CompanyBusinessLandlordRent(t *testing.T) {
	figures := fullFigures()
	figures.LandlordRent = nd("1000.00")

	result, err := Compute(taxdomain.Input{
		Case:         taxdomain.NewCaseKey(true, true, taxdomain.PurposeWork),
		Figures:      figures,
		Capabilities: allCapabilities(),
	}, taxdomain.StatutoryRates())
	require.NoError(t, err)

	line, ok := result.Line(taxdomain.CategoryLandlordRent)
	require.True(t, ok)
	assert.True(t, line.Rate.Equal(d("0.23")))
	assert.Equal(t, "230.00", line.Tax.StringFixed(2))
	assert.Equal(t, "1230.00", line.Gross.StringFixed(2))
	assert.True(t, result.Matched)
}

func TestCompute_RoundsHalfAwayFromZero(t *testing.T) {
	figures := fullFigures()
	figures.HousingRent = nd("2.50")     // tax 0.575
	figures.ColdWaterPrice = nd("3.335") // net 3.335
	figures.ColdWaterQuantity = nd("1")

	result, err := Compute(taxdomain.Input{
		Case:         taxdomain.NewCaseKey(true, true, taxdomain.PurposeWork),
		Figures:      figures,
		Capabilities: allCapabilities(),
	}, taxdomain.StatutoryRates())
	require.NoError(t, err)

	housing, _ := result.Line(taxdomain.CategoryHousingRent)
	assert.Equal(t, "0.58", housing.Tax.StringFixed(2))
	assert.Equal(t, "3.08", housing.Gross.StringFixed(2))

	cold, _ := result.Line(taxdomain.CategoryColdWater)
	assert.Equal(t, "3.34", cold.Net.StringFixed(2))
	assert.Equal(t, "0.27", cold.Tax.StringFixed(2))
	assert.Equal(t, "3.61", cold.Gross.StringFixed(2))
}

func TestCompute_LineInvariants(t *testing.T) {
	keys := []taxdomain.CaseKey{
		taxdomain.NewCaseKey(false, false, taxdomain.PurposeLive),
		taxdomain.NewCaseKey(false, true, taxdomain.PurposeLive),
		taxdomain.NewCaseKey(true, true, taxdomain.PurposeLive),
		taxdomain.NewCaseKey(true, true, taxdomain.PurposeWork),
		taxdomain.NewCaseKey(false, false, taxdomain.PurposeHotel),
		taxdomain.NewCaseKey(false, false, taxdomain.PurposeWork),
		taxdomain.NewCaseKey(true, false, taxdomain.PurposeHotel),
	}

	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			result, err := Compute(taxdomain.Input{
				Case:         key,
				Figures:      fullFigures(),
				Capabilities: allCapabilities(),
			}, taxdomain.StatutoryRates())
			require.NoError(t, err)
			require.Len(t, result.Lines, len(taxdomain.BilledCategories))

			sum := d("0")
			for _, line := range result.Lines {
				assert.True(t, line.Gross.Equal(line.Net.Add(line.Tax)), "%s gross != net + tax", line.Category)
				assert.True(t, line.Tax.Equal(line.Net.Mul(line.Rate).Round(2)), "%s tax != round(net*rate)", line.Category)
				assert.False(t, line.Net.IsNegative())
				sum = sum.Add(line.Gross)
			}
			assert.True(t, result.Total.Equal(sum), "total %s != sum %s", result.Total, sum)
		})
	}
}

func TestCompute_GatingExcludesLinesFromTotal(t *testing.T) {
	key := taxdomain.NewCaseKey(true, true, taxdomain.PurposeWork)

	all, err := Compute(taxdomain.Input{Case: key, Figures: fullFigures(), Capabilities: allCapabilities()}, taxdomain.StatutoryRates())
	require.NoError(t, err)

	noGas, err := Compute(taxdomain.Input{
		Case:         key,
		Figures:      fullFigures(),
		Capabilities: taxdomain.Capabilities{HasHW: true, HasGas: false, HasHeat: true},
	}, taxdomain.StatutoryRates())
	require.NoError(t, err)

	gas, _ := all.Line(taxdomain.CategoryGas)
	gasSub, _ := all.Line(taxdomain.CategoryGasSubscription)
	assert.True(t, noGas.Total.Equal(all.Total.Sub(gas.Gross).Sub(gasSub.Gross)))

	for _, line := range noGas.IncludedLines() {
		assert.NotEqual(t, taxdomain.CategoryGas, line.Category)
		assert.NotEqual(t, taxdomain.CategoryGasSubscription, line.Category)
	}
	assert.Len(t, noGas.IncludedLines(), len(taxdomain.BilledCategories)-2)
}

func TestCompute_AbsentOptionalFiguresCountAsZeroWhenGatedOff(t *testing.T) {
	figures := fullFigures()
	figures.HotWaterPrice.Valid = false
	figures.GasPrice.Valid = false
	figures.GasQuantity.Valid = false
	figures.GasSubscription.Valid = false
	figures.HeatPrice.Valid = false
	figures.HeatQuantity.Valid = false
	figures.HeatSubscription.Valid = false

	result, err := Compute(taxdomain.Input{
		Case:         taxdomain.NewCaseKey(true, true, taxdomain.PurposeWork),
		Figures:      figures,
		Capabilities: taxdomain.Capabilities{},
	}, taxdomain.StatutoryRates())
	require.NoError(t, err)

	gas, _ := result.Line(taxdomain.CategoryGas)
	assert.True(t, gas.Gross.IsZero())
	assert.False(t, gas.Included)
	assert.Len(t, result.IncludedLines(), 5)
}

func TestCompute_Preconditions(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*taxdomain.Figures)
		caps      taxdomain.Capabilities
		wantField string
		wantErr   error
	}{
		{
			name:      "energy price is always required",
			mutate:    func(f *taxdomain.Figures) { f.EnergyPrice.Valid = false },
			caps:      allCapabilities(),
			wantField: "energy_price",
			wantErr:   taxdomain.ErrMissingField,
		},
		{
			name:      "gas price required when the property has gas",
			mutate:    func(f *taxdomain.Figures) { f.GasPrice.Valid = false },
			caps:      taxdomain.Capabilities{HasGas: true},
			wantField: "gas_price",
			wantErr:   taxdomain.ErrMissingField,
		},
		{
			name:      "heat subscription required when the property has heat",
			mutate:    func(f *taxdomain.Figures) { f.HeatSubscription.Valid = false },
			caps:      taxdomain.Capabilities{HasHeat: true},
			wantField: "heat_subscription",
			wantErr:   taxdomain.ErrMissingField,
		},
		{
			name:      "negative amounts are rejected",
			mutate:    func(f *taxdomain.Figures) { f.LandlordRent = nd("-1") },
			caps:      allCapabilities(),
			wantField: "landlord_rent",
			wantErr:   taxdomain.ErrNegativeAmount,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			figures := fullFigures()
			tc.mutate(&figures)

			_, err := Compute(taxdomain.Input{
				Case:         taxdomain.NewCaseKey(true, true, taxdomain.PurposeWork),
				Figures:      figures,
				Capabilities: tc.caps,
			}, taxdomain.StatutoryRates())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr))

			var fieldErr *taxdomain.FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tc.wantField, fieldErr.Field)
		})
	}
}

func TestCalculator_FlagsUnmatchedCombination(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := prometheus.NewRegistry()

	calc := NewCalculator(Params{
		Log:     zap.New(core),
		Metrics: metrics.NewInvoiceMetrics(reg, metrics.Config{ServiceName: "rentflow"}),
	})

	result, err := calc.Calculate(context.Background(), taxdomain.Input{
		Case:         taxdomain.NewCaseKey(true, false, taxdomain.PurposeLive),
		Figures:      fullFigures(),
		Capabilities: allCapabilities(),
	})
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, taxdomain.RuleStatutoryFallback, result.Rule)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "company", entry.ContextMap()["landlord"])
	assert.Equal(t, "individual", entry.ContextMap()["tenant"])

	count, err := testutil.GatherAndCount(reg, "rentflow_tax_rule_unmatched_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

type fixedDefaults struct{ rates taxdomain.RateSet }

func (f fixedDefaults) StatutoryRates() taxdomain.RateSet { return f.rates }

func TestCalculator_UsesDefaultsSource(t *testing.T) {
	calc := NewCalculator(Params{
		Log: zap.NewNop(),
		Defaults: fixedDefaults{
			rates: taxdomain.StatutoryRates().With(taxdomain.CategoryEnergy, d("0.05")),
		},
	})

	result, err := calc.Calculate(context.Background(), taxdomain.Input{
		Case:         taxdomain.NewCaseKey(true, true, taxdomain.PurposeWork),
		Figures:      fullFigures(),
		Capabilities: allCapabilities(),
	})
	require.NoError(t, err)

	energy, _ := result.Line(taxdomain.CategoryEnergy)
	assert.True(t, energy.Rate.Equal(d("0.05")))
}
