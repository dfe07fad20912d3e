package domain

import (
	"github.com/shopspring/decimal"
)

// Figures are the monetary inputs of one invoice. Optional utilities are
// represented by an invalid NullDecimal and count as zero.
type Figures struct {
	LandlordRent decimal.NullDecimal
	HousingRent  decimal.NullDecimal

	ColdWaterPrice    decimal.NullDecimal
	ColdWaterQuantity decimal.NullDecimal
	HotWaterPrice     decimal.NullDecimal
	HotWaterQuantity  decimal.NullDecimal
	GasPrice          decimal.NullDecimal
	GasQuantity       decimal.NullDecimal
	EnergyPrice       decimal.NullDecimal
	EnergyQuantity    decimal.NullDecimal
	HeatPrice         decimal.NullDecimal
	HeatQuantity      decimal.NullDecimal

	GasSubscription    decimal.NullDecimal
	EnergySubscription decimal.NullDecimal
	HeatSubscription   decimal.NullDecimal
}

// Capabilities are the property flags that gate optional utilities.
type Capabilities struct {
	HasHW   bool
	HasGas  bool
	HasHeat bool
}

// Includes reports whether the line for c belongs on the invoice.
func (c Capabilities) Includes(cat Category) bool {
	switch cat {
	case CategoryHotWater:
		return c.HasHW
	case CategoryGas, CategoryGasSubscription:
		return c.HasGas
	case CategoryHeat, CategoryHeatSubscription:
		return c.HasHeat
	case CategoryTrash:
		return false
	default:
		return true
	}
}

// Input is everything the calculator needs for one invoice.
type Input struct {
	Case         CaseKey
	Figures      Figures
	Capabilities Capabilities
}

// Part is one figure of a line: its field name and value.
type Part struct {
	Field string
	Value decimal.NullDecimal
}

// Parts returns the figures that price c. Metered lines return the unit
// price followed by the quantity; fixed fees return a single amount.
func (f Figures) Parts(c Category) []Part {
	switch c {
	case CategoryLandlordRent:
		return []Part{{"landlord_rent", f.LandlordRent}}
	case CategoryHousingRent:
		return []Part{{"housing_rent", f.HousingRent}}
	case CategoryColdWater:
		return []Part{{"cold_water_price", f.ColdWaterPrice}, {"cold_water_quantity", f.ColdWaterQuantity}}
	case CategoryHotWater:
		return []Part{{"hot_water_price", f.HotWaterPrice}, {"hot_water_quantity", f.HotWaterQuantity}}
	case CategoryGas:
		return []Part{{"gas_price", f.GasPrice}, {"gas_quantity", f.GasQuantity}}
	case CategoryEnergy:
		return []Part{{"energy_price", f.EnergyPrice}, {"energy_quantity", f.EnergyQuantity}}
	case CategoryHeat:
		return []Part{{"heat_price", f.HeatPrice}, {"heat_quantity", f.HeatQuantity}}
	case CategoryGasSubscription:
		return []Part{{"gas_subscription", f.GasSubscription}}
	case CategoryEnergySubscription:
		return []Part{{"energy_subscription", f.EnergySubscription}}
	case CategoryHeatSubscription:
		return []Part{{"heat_subscription", f.HeatSubscription}}
	}
	return nil
}

// UnitPrice returns the price of one unit of c (the fee itself for fixed lines).
func (f Figures) UnitPrice(c Category) decimal.Decimal {
	parts := f.Parts(c)
	if len(parts) == 0 {
		return decimal.Zero
	}
	return valueOrZero(parts[0].Value)
}

// Quantity returns the billed quantity of c, one for fixed fees.
func (f Figures) Quantity(c Category) decimal.Decimal {
	parts := f.Parts(c)
	if len(parts) < 2 {
		return decimal.NewFromInt(1)
	}
	return valueOrZero(parts[1].Value)
}

// Validate checks the figures required by the property's capabilities.
// The first violation is returned as a *FieldError.
func (in Input) Validate() error {
	for _, c := range BilledCategories {
		required := in.Capabilities.Includes(c)
		for _, part := range in.Figures.Parts(c) {
			if !part.Value.Valid {
				if required {
					return missingField(part.Field)
				}
				continue
			}
			if part.Value.Decimal.IsNegative() {
				return negativeAmount(part.Field)
			}
		}
	}
	return nil
}

func valueOrZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

// TaxLine is the priced result for one category.
type TaxLine struct {
	Category Category
	Net      decimal.Decimal
	Rate     decimal.Decimal
	Tax      decimal.Decimal
	Gross    decimal.Decimal
	Included bool
}

// Exempt reports whether the line carries no VAT.
func (l TaxLine) Exempt() bool { return l.Rate.IsZero() }

// RuleID names the rule that selected the rate set.
type RuleID string

const (
	RuleIndividualResidential    RuleID = "individual_residential_exempt"
	RuleCompanyTenantResidential RuleID = "company_tenant_residential"
	RuleCompanyResidential       RuleID = "company_residential"
	RuleCompanyBusiness          RuleID = "company_business"
	RuleIndividualShortTerm      RuleID = "individual_short_term"
	RuleIndividualBusiness       RuleID = "individual_business"
	RuleStatutoryFallback        RuleID = "statutory_fallback"
)

// Result is the outcome of pricing one invoice.
type Result struct {
	Case    CaseKey
	Rule    RuleID
	Matched bool
	Rates   RateSet
	Lines   []TaxLine
	Total   decimal.Decimal
}

// Line returns the line for c.
func (r Result) Line(c Category) (TaxLine, bool) {
	for _, line := range r.Lines {
		if line.Category == c {
			return line, true
		}
	}
	return TaxLine{}, false
}

// IncludedLines returns the lines that belong on the document, in order.
func (r Result) IncludedLines() []TaxLine {
	out := make([]TaxLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		if line.Included {
			out = append(out, line)
		}
	}
	return out
}
