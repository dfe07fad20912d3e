package service

import (
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
)

// rule is one row of the VAT decision list.
type rule struct {
	id    taxdomain.RuleID
	key   taxdomain.CaseKey
	apply func(defaults taxdomain.RateSet) taxdomain.RateSet
}

var (
	individual = taxdomain.PartyIndividual
	company    = taxdomain.PartyCompany
)

func keepDefaults(defaults taxdomain.RateSet) taxdomain.RateSet { return defaults }

func exemptLandlordRent(defaults taxdomain.RateSet) taxdomain.RateSet {
	return defaults.With(taxdomain.CategoryLandlordRent, decimal.Zero)
}

// rules is evaluated top to bottom; the first matching key wins.
var rules = []rule{
	{
		id:  taxdomain.RuleIndividualResidential,
		key: taxdomain.CaseKey{Landlord: individual, Tenant: individual, Purpose: taxdomain.PurposeLive},
		apply: func(defaults taxdomain.RateSet) taxdomain.RateSet {
			return defaults.Exempt()
		},
	},
	{
		id:    taxdomain.RuleCompanyTenantResidential,
		key:   taxdomain.CaseKey{Landlord: individual, Tenant: company, Purpose: taxdomain.PurposeLive},
		apply: exemptLandlordRent,
	},
	{
		id:    taxdomain.RuleCompanyResidential,
		key:   taxdomain.CaseKey{Landlord: company, Tenant: company, Purpose: taxdomain.PurposeLive},
		apply: exemptLandlordRent,
	},
	{
		id:    taxdomain.RuleCompanyBusiness,
		key:   taxdomain.CaseKey{Landlord: company, Tenant: company, Purpose: taxdomain.PurposeWork},
		apply: keepDefaults,
	},
	{
		id:  taxdomain.RuleIndividualShortTerm,
		key: taxdomain.CaseKey{Landlord: individual, Tenant: individual, Purpose: taxdomain.PurposeHotel},
		apply: func(defaults taxdomain.RateSet) taxdomain.RateSet {
			return defaults.With(taxdomain.CategoryLandlordRent, taxdomain.RateReduced)
		},
	},
	{
		id:    taxdomain.RuleIndividualBusiness,
		key:   taxdomain.CaseKey{Landlord: individual, Tenant: individual, Purpose: taxdomain.PurposeWork},
		apply: keepDefaults,
	},
}

// ResolveRates selects the rate set for key. When no rule covers key the
// defaults are returned with matched=false so the caller can flag the gap.
func ResolveRates(key taxdomain.CaseKey, defaults taxdomain.RateSet) (rates taxdomain.RateSet, id taxdomain.RuleID, matched bool) {
	for _, r := range rules {
		if r.key == key {
			return r.apply(defaults), r.id, true
		}
	}
	return defaults, taxdomain.RuleStatutoryFallback, false
}
