package service

import (
	"testing"

	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolveRates_DecisionList(t *testing.T) {
	defaults := taxdomain.StatutoryRates()

	cases := []struct {
		name             string
		key              taxdomain.CaseKey
		wantRule         taxdomain.RuleID
		wantMatched      bool
		wantLandlordRent string
		wantAllZero      bool
	}{
		{
			name:        "individual residential let is fully exempt",
			key:         taxdomain.NewCaseKey(false, false, taxdomain.PurposeLive),
			wantRule:    taxdomain.RuleIndividualResidential,
			wantMatched: true,
			wantAllZero: true,
		},
		{
			name:             "company tenant of individual residential let",
			key:              taxdomain.NewCaseKey(false, true, taxdomain.PurposeLive),
			wantRule:         taxdomain.RuleCompanyTenantResidential,
			wantMatched:      true,
			wantLandlordRent: "0",
		},
		{
			name:             "company to company residential",
			key:              taxdomain.NewCaseKey(true, true, taxdomain.PurposeLive),
			wantRule:         taxdomain.RuleCompanyResidential,
			wantMatched:      true,
			wantLandlordRent: "0",
		},
		{
			name:             "company to company business",
			key:              taxdomain.NewCaseKey(true, true, taxdomain.PurposeWork),
			wantRule:         taxdomain.RuleCompanyBusiness,
			wantMatched:      true,
			wantLandlordRent: "0.23",
		},
		{
			name:             "individual short-term let",
			key:              taxdomain.NewCaseKey(false, false, taxdomain.PurposeHotel),
			wantRule:         taxdomain.RuleIndividualShortTerm,
			wantMatched:      true,
			wantLandlordRent: "0.08",
		},
		{
			name:             "individual business let",
			key:              taxdomain.NewCaseKey(false, false, taxdomain.PurposeWork),
			wantRule:         taxdomain.RuleIndividualBusiness,
			wantMatched:      true,
			wantLandlordRent: "0.23",
		},
		{
			name:             "company landlord with individual tenant falls back",
			key:              taxdomain.NewCaseKey(true, false, taxdomain.PurposeLive),
			wantRule:         taxdomain.RuleStatutoryFallback,
			wantMatched:      false,
			wantLandlordRent: "0.23",
		},
		{
			name:             "individual landlord with company tenant short-term falls back",
			key:              taxdomain.NewCaseKey(false, true, taxdomain.PurposeHotel),
			wantRule:         taxdomain.RuleStatutoryFallback,
			wantMatched:      false,
			wantLandlordRent: "0.23",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rates, rule, matched := ResolveRates(tc.key, defaults)
			assert.Equal(t, tc.wantRule, rule)
			assert.Equal(t, tc.wantMatched, matched)

			if tc.wantAllZero {
				for _, c := range taxdomain.RatedCategories {
					assert.True(t, rates.Rate(c).IsZero(), "rate of %s", c)
				}
				return
			}

			assert.True(t, rates.Rate(taxdomain.CategoryLandlordRent).Equal(d(tc.wantLandlordRent)),
				"landlord rent rate = %s", rates.Rate(taxdomain.CategoryLandlordRent))
			for _, c := range taxdomain.RatedCategories {
				if c == taxdomain.CategoryLandlordRent {
					continue
				}
				assert.True(t, rates.Rate(c).Equal(defaults.Rate(c)), "rate of %s changed", c)
			}
		})
	}
}

func TestResolveRates_DoesNotMutateDefaults(t *testing.T) {
	defaults := taxdomain.StatutoryRates()

	_, _, _ = ResolveRates(taxdomain.NewCaseKey(false, false, taxdomain.PurposeLive), defaults)
	_, _, _ = ResolveRates(taxdomain.NewCaseKey(false, false, taxdomain.PurposeHotel), defaults)

	assert.True(t, defaults.Equal(taxdomain.StatutoryRates()))
}

func TestResolveRates_UsesConfiguredDefaults(t *testing.T) {
	custom := taxdomain.StatutoryRates().With(taxdomain.CategoryHousingRent, decimal.RequireFromString("0.05"))

	rates, _, _ := ResolveRates(taxdomain.NewCaseKey(true, true, taxdomain.PurposeLive), custom)

	assert.True(t, rates.Rate(taxdomain.CategoryHousingRent).Equal(d("0.05")))
	assert.True(t, rates.Rate(taxdomain.CategoryLandlordRent).IsZero())
}
