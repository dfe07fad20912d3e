package taxcase

import (
	"testing"

	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	"github.com/stretchr/testify/assert"
)

func TestRateSetFromConfig(t *testing.T) {
	rates := RateSetFromConfig(map[string]string{
		"energy":  "0.05",
		"unknown": "0.99",
		"gas":     "not-a-number",
	})

	assert.True(t, rates.Rate(taxdomain.CategoryEnergy).Equal(decimal.RequireFromString("0.05")))
	assert.True(t, rates.Rate(taxdomain.CategoryGas).Equal(taxdomain.RateStandard))
	assert.True(t, rates.Rate(taxdomain.CategoryColdWater).Equal(taxdomain.RateReduced))
}

func TestHolderDefaults_NilHolderUsesStatutory(t *testing.T) {
	assert.True(t, holderDefaults{}.StatutoryRates().Equal(taxdomain.StatutoryRates()))
}
