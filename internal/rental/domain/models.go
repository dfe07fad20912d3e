// Package domain contains persistence models for leases and their parties.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Landlord owns properties and issues invoices.
type Landlord struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Name        string       `gorm:"type:text;not null"`
	IsCompany   bool         `gorm:"not null;default:false"`
	NIP         *string      `gorm:"type:text"`
	PESEL       *string      `gorm:"type:text"`
	Street      string       `gorm:"type:text;not null"`
	PostalCode  string       `gorm:"type:text;not null"`
	City        string       `gorm:"type:text;not null"`
	BankAccount string       `gorm:"type:text;not null"`
	LogoURL     *string      `gorm:"type:text"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Landlord) TableName() string { return "landlords" }

// Tenant rents a property.
type Tenant struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	Name       string       `gorm:"type:text;not null"`
	IsCompany  bool         `gorm:"not null;default:false"`
	NIP        *string      `gorm:"type:text"`
	PESEL      *string      `gorm:"type:text"`
	Street     string       `gorm:"type:text;not null"`
	PostalCode string       `gorm:"type:text;not null"`
	City       string       `gorm:"type:text;not null"`
	Email      string       `gorm:"type:text"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Tenant) TableName() string { return "tenants" }

// Property is a rentable unit. The Has* flags gate optional utility lines.
type Property struct {
	ID         snowflake.ID    `gorm:"primaryKey"`
	LandlordID snowflake.ID    `gorm:"not null;index"`
	Street     string          `gorm:"type:text;not null"`
	PostalCode string          `gorm:"type:text;not null"`
	City       string          `gorm:"type:text;not null"`
	Area       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	HasHW      bool            `gorm:"column:has_hw;not null;default:false"`
	HasGas     bool            `gorm:"not null;default:false"`
	HasHeat    bool            `gorm:"not null;default:false"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Property) TableName() string { return "properties" }

// Rent is a lease between one landlord, one tenant and one property.
type Rent struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	LandlordID  snowflake.ID `gorm:"not null;index"`
	TenantID    snowflake.ID `gorm:"not null;index"`
	PropertyID  snowflake.ID `gorm:"not null;index"`
	Purpose     string       `gorm:"type:text;not null"`
	PayDayDelay int          `gorm:"not null;default:0"`
	StartDate   time.Time    `gorm:"not null"`
	EndDate     *time.Time   `gorm:""`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Rent) TableName() string { return "rents" }

// State is a utility meter reading taken for a lease.
type State struct {
	ID        snowflake.ID        `gorm:"primaryKey"`
	RentID    snowflake.ID        `gorm:"not null;index"`
	ReadAt    time.Time           `gorm:"not null"`
	ColdWater decimal.Decimal     `gorm:"type:numeric(12,3);not null"`
	HotWater  decimal.NullDecimal `gorm:"type:numeric(12,3)"`
	Gas       decimal.NullDecimal `gorm:"type:numeric(12,3)"`
	Energy    decimal.Decimal     `gorm:"type:numeric(12,3);not null"`
	Heat      decimal.NullDecimal `gorm:"type:numeric(12,3)"`
	CreatedAt time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (State) TableName() string { return "states" }

// Invoice carries the unit prices, consumptions and fees billed for one state.
type Invoice struct {
	ID      snowflake.ID `gorm:"primaryKey"`
	RentID  snowflake.ID `gorm:"not null;index"`
	StateID snowflake.ID `gorm:"not null;index"`

	LandlordRent decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	HousingRent  decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	ColdWaterPrice    decimal.Decimal     `gorm:"type:numeric(12,4);not null"`
	ColdWaterQuantity decimal.Decimal     `gorm:"type:numeric(12,3);not null"`
	HotWaterPrice     decimal.NullDecimal `gorm:"type:numeric(12,4)"`
	HotWaterQuantity  decimal.NullDecimal `gorm:"type:numeric(12,3)"`
	GasPrice          decimal.NullDecimal `gorm:"type:numeric(12,4)"`
	GasQuantity       decimal.NullDecimal `gorm:"type:numeric(12,3)"`
	EnergyPrice       decimal.Decimal     `gorm:"type:numeric(12,4);not null"`
	EnergyQuantity    decimal.Decimal     `gorm:"type:numeric(12,3);not null"`
	HeatPrice         decimal.NullDecimal `gorm:"type:numeric(12,4)"`
	HeatQuantity      decimal.NullDecimal `gorm:"type:numeric(12,3)"`

	GasSubscription    decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	EnergySubscription decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	HeatSubscription   decimal.NullDecimal `gorm:"type:numeric(12,2)"`

	Comment     *string             `gorm:"type:text"`
	Distributed bool                `gorm:"not null;default:false"`
	TotalGross  decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	IssuedAt    *time.Time          `gorm:""`
	CreatedAt   time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Invoice) TableName() string { return "invoices" }

// Models lists the tables owned by this context, in dependency order.
func Models() []any {
	return []any{
		&Landlord{},
		&Tenant{},
		&Property{},
		&Rent{},
		&State{},
		&Invoice{},
	}
}
