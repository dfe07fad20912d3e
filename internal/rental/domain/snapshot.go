package domain

import (
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
)

// Snapshot is the read-only set of records one invoice is generated from.
type Snapshot struct {
	Invoice  Invoice
	Rent     Rent
	Landlord Landlord
	Tenant   Tenant
	Property Property
	State    *State
}

// TaxInput maps the snapshot onto the VAT calculator input.
func (s Snapshot) TaxInput() (taxdomain.Input, error) {
	purpose, err := taxdomain.ParsePurpose(s.Rent.Purpose)
	if err != nil {
		return taxdomain.Input{}, err
	}

	inv := s.Invoice
	return taxdomain.Input{
		Case: taxdomain.NewCaseKey(s.Landlord.IsCompany, s.Tenant.IsCompany, purpose),
		Figures: taxdomain.Figures{
			LandlordRent:       present(inv.LandlordRent),
			HousingRent:        present(inv.HousingRent),
			ColdWaterPrice:     present(inv.ColdWaterPrice),
			ColdWaterQuantity:  present(inv.ColdWaterQuantity),
			HotWaterPrice:      inv.HotWaterPrice,
			HotWaterQuantity:   inv.HotWaterQuantity,
			GasPrice:           inv.GasPrice,
			GasQuantity:        inv.GasQuantity,
			EnergyPrice:        present(inv.EnergyPrice),
			EnergyQuantity:     present(inv.EnergyQuantity),
			HeatPrice:          inv.HeatPrice,
			HeatQuantity:       inv.HeatQuantity,
			GasSubscription:    inv.GasSubscription,
			EnergySubscription: present(inv.EnergySubscription),
			HeatSubscription:   inv.HeatSubscription,
		},
		Capabilities: taxdomain.Capabilities{
			HasHW:   s.Property.HasHW,
			HasGas:  s.Property.HasGas,
			HasHeat: s.Property.HasHeat,
		},
	}, nil
}

func present(v decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(v)
}
