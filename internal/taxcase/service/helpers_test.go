package service

import (
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
)

func nd(value string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(value))
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// fullFigures fills every figure so any capability combination validates.
func fullFigures() taxdomain.Figures {
	return taxdomain.Figures{
		LandlordRent:       nd("1000.00"),
		HousingRent:        nd("350.40"),
		ColdWaterPrice:     nd("12.35"),
		ColdWaterQuantity:  nd("4.2"),
		HotWaterPrice:      nd("38.10"),
		HotWaterQuantity:   nd("1.75"),
		GasPrice:           nd("2.9167"),
		GasQuantity:        nd("37"),
		EnergyPrice:        nd("0.8123"),
		EnergyQuantity:     nd("143"),
		HeatPrice:          nd("95.20"),
		HeatQuantity:       nd("1.3"),
		GasSubscription:    nd("19.99"),
		EnergySubscription: nd("27.50"),
		HeatSubscription:   nd("45.00"),
	}
}

func allCapabilities() taxdomain.Capabilities {
	return taxdomain.Capabilities{HasHW: true, HasGas: true, HasHeat: true}
}
