// Package domain holds the VAT case model used to price a rental invoice.
package domain

// Category identifies one chargeable item of a rental invoice.
type Category string

const (
	CategoryLandlordRent       Category = "landlord_rent"
	CategoryHousingRent        Category = "housing_rent"
	CategoryColdWater          Category = "cold_water"
	CategoryHotWater           Category = "hot_water"
	CategoryGas                Category = "gas"
	CategoryEnergy             Category = "energy"
	CategoryHeat               Category = "heat"
	CategoryGasSubscription    Category = "gas_subscription"
	CategoryEnergySubscription Category = "energy_subscription"
	CategoryHeatSubscription   Category = "heat_subscription"

	// CategoryTrash carries a rate but is never billed.
	CategoryTrash Category = "trash"
)

// BilledCategories lists the invoice lines in document order.
var BilledCategories = []Category{
	CategoryLandlordRent,
	CategoryHousingRent,
	CategoryColdWater,
	CategoryHotWater,
	CategoryGas,
	CategoryEnergy,
	CategoryHeat,
	CategoryGasSubscription,
	CategoryEnergySubscription,
	CategoryHeatSubscription,
}

// RatedCategories lists every category that owns a VAT rate.
var RatedCategories = append(append([]Category{}, BilledCategories...), CategoryTrash)

// IsMetered reports whether the line is priced as unit price times consumption.
func (c Category) IsMetered() bool {
	switch c {
	case CategoryColdWater, CategoryHotWater, CategoryGas, CategoryEnergy, CategoryHeat:
		return true
	}
	return false
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, item := range RatedCategories {
		if item == c {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }
