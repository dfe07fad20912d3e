package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotTaxInput(t *testing.T) {
	snap := Snapshot{
		Invoice: Invoice{
			LandlordRent:       decimal.NewFromInt(1000),
			HousingRent:        decimal.NewFromInt(300),
			ColdWaterPrice:     decimal.RequireFromString("12.5"),
			ColdWaterQuantity:  decimal.NewFromInt(4),
			EnergyPrice:        decimal.RequireFromString("0.9"),
			EnergyQuantity:     decimal.NewFromInt(100),
			EnergySubscription: decimal.NewFromInt(20),
			GasPrice:           decimal.NewNullDecimal(decimal.NewFromInt(3)),
		},
		Rent:     Rent{Purpose: "work"},
		Landlord: Landlord{IsCompany: true},
		Tenant:   Tenant{IsCompany: true},
		Property: Property{HasGas: true},
	}

	in, err := snap.TaxInput()
	require.NoError(t, err)

	assert.Equal(t, taxdomain.NewCaseKey(true, true, taxdomain.PurposeWork), in.Case)
	assert.True(t, in.Capabilities.HasGas)
	assert.False(t, in.Capabilities.HasHW)
	assert.True(t, in.Figures.LandlordRent.Valid)
	assert.True(t, in.Figures.LandlordRent.Decimal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, in.Figures.GasPrice.Valid)
	assert.False(t, in.Figures.HeatPrice.Valid)
}

func TestSnapshotTaxInput_UnknownPurpose(t *testing.T) {
	snap := Snapshot{Rent: Rent{Purpose: "storage"}}

	_, err := snap.TaxInput()
	assert.ErrorIs(t, err, taxdomain.ErrInvalidPurpose)
}
