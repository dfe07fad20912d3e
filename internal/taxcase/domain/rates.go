package domain

import "github.com/shopspring/decimal"

// Statutory VAT rates, as fractions of the net amount.
var (
	RateStandard = decimal.RequireFromString("0.23")
	RateReduced  = decimal.RequireFromString("0.08")

	// TrashRate applies to waste collection once it is billed.
	TrashRate = RateReduced
)

// RateSet maps every rated category to its VAT rate.
// A RateSet is never modified in place; With returns a copy.
type RateSet struct {
	rates map[Category]decimal.Decimal
}

// NewRateSet copies the provided rates. Categories not present default to zero.
func NewRateSet(rates map[Category]decimal.Decimal) RateSet {
	out := make(map[Category]decimal.Decimal, len(RatedCategories))
	for _, c := range RatedCategories {
		out[c] = decimal.Zero
	}
	for c, r := range rates {
		out[c] = r
	}
	return RateSet{rates: out}
}

// StatutoryRates returns the default rate table.
func StatutoryRates() RateSet {
	return NewRateSet(map[Category]decimal.Decimal{
		CategoryLandlordRent:       RateStandard,
		CategoryHousingRent:        RateStandard,
		CategoryColdWater:          RateReduced,
		CategoryHotWater:           RateReduced,
		CategoryGas:                RateStandard,
		CategoryEnergy:             RateStandard,
		CategoryHeat:               RateStandard,
		CategoryGasSubscription:    RateStandard,
		CategoryEnergySubscription: RateStandard,
		CategoryHeatSubscription:   RateStandard,
		CategoryTrash:              TrashRate,
	})
}

// Rate returns the rate of c, zero when unknown.
func (s RateSet) Rate(c Category) decimal.Decimal {
	if s.rates == nil {
		return decimal.Zero
	}
	return s.rates[c]
}

// With returns a copy of s with c set to rate.
func (s RateSet) With(c Category, rate decimal.Decimal) RateSet {
	out := NewRateSet(s.rates)
	out.rates[c] = rate
	return out
}

// Exempt returns a set with every rate at zero.
func (RateSet) Exempt() RateSet {
	return NewRateSet(nil)
}

// Map returns a copy of the underlying rates.
func (s RateSet) Map() map[Category]decimal.Decimal {
	out := make(map[Category]decimal.Decimal, len(RatedCategories))
	for _, c := range RatedCategories {
		out[c] = s.Rate(c)
	}
	return out
}

// Equal reports whether both sets carry the same rates.
func (s RateSet) Equal(other RateSet) bool {
	for _, c := range RatedCategories {
		if !s.Rate(c).Equal(other.Rate(c)) {
			return false
		}
	}
	return true
}
