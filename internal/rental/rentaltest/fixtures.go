// Package rentaltest seeds lease snapshots for tests.
package rentaltest

import (
	"context"
	"net/url"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/rentflow/internal/rental/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects the shape of a seeded lease.
type Options struct {
	LandlordCompany bool
	TenantCompany   bool
	Purpose         string
	HasHW           bool
	HasGas          bool
	HasHeat         bool
	PayDayDelay     int
	Comment         *string
	LogoURL         *string
	CreatedAt       time.Time
}

// DefaultOptions is a residential let between individuals with every utility.
func DefaultOptions() Options {
	return Options{
		Purpose:     "live",
		HasHW:       true,
		HasGas:      true,
		HasHeat:     true,
		PayDayDelay: 14,
		CreatedAt:   time.Date(2026, 9, 30, 10, 0, 0, 0, time.UTC),
	}
}

type Seeder struct {
	db   *gorm.DB
	node *snowflake.Node
}

func NewSeeder(db *gorm.DB, node *snowflake.Node) *Seeder {
	return &Seeder{db: db, node: node}
}

// Migrate creates the rental tables.
func (s *Seeder) Migrate() error {
	return s.db.AutoMigrate(domain.Models()...)
}

// SeedSnapshot inserts a complete lease and returns what was stored.
func (s *Seeder) SeedSnapshot(ctx context.Context, opts Options) (domain.Snapshot, error) {
	snap := BuildSnapshot(s.node, opts)
	records := []any{&snap.Landlord, &snap.Tenant, &snap.Property, &snap.Rent, snap.State, &snap.Invoice}
	for _, record := range records {
		if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
			return domain.Snapshot{}, err
		}
	}
	return snap, nil
}

// BuildSnapshot returns a complete lease without storing it.
func BuildSnapshot(node *snowflake.Node, opts Options) domain.Snapshot {
	createdAt := opts.CreatedAt
	if createdAt.IsZero() {
		createdAt = DefaultOptions().CreatedAt
	}

	landlord := domain.Landlord{
		ID:          node.Generate(),
		Name:        "Jan Kowalski",
		IsCompany:   opts.LandlordCompany,
		Street:      "ul. Długa 5",
		PostalCode:  "00-238",
		City:        "Warszawa",
		BankAccount: "PL61 1090 1014 0000 0712 1981 2874",
		LogoURL:     opts.LogoURL,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if opts.LandlordCompany {
		landlord.Name = "Kowalski Nieruchomości sp. z o.o."
		landlord.NIP = strPtr("5261040828")
	} else {
		landlord.PESEL = strPtr("80010112345")
	}

	tenant := domain.Tenant{
		ID:         node.Generate(),
		Name:       "Anna Nowak",
		IsCompany:  opts.TenantCompany,
		Street:     "ul. Krótka 12",
		PostalCode: "30-001",
		City:       "Kraków",
		Email:      "anna.nowak@example.com",
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if opts.TenantCompany {
		tenant.Name = "Nowak Consulting S.A."
		tenant.NIP = strPtr("6770065406")
	} else {
		tenant.PESEL = strPtr("92071314764")
	}

	property := domain.Property{
		ID:         node.Generate(),
		LandlordID: landlord.ID,
		Street:     "ul. Słoneczna 3/7",
		PostalCode: "00-789",
		City:       "Warszawa",
		Area:       decimal.RequireFromString("48.50"),
		HasHW:      opts.HasHW,
		HasGas:     opts.HasGas,
		HasHeat:    opts.HasHeat,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	purpose := opts.Purpose
	if purpose == "" {
		purpose = "live"
	}
	rent := domain.Rent{
		ID:          node.Generate(),
		LandlordID:  landlord.ID,
		TenantID:    tenant.ID,
		PropertyID:  property.ID,
		Purpose:     purpose,
		PayDayDelay: opts.PayDayDelay,
		StartDate:   createdAt.AddDate(-1, 0, 0),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	state := domain.State{
		ID:        node.Generate(),
		RentID:    rent.ID,
		ReadAt:    createdAt,
		ColdWater: decimal.RequireFromString("112.400"),
		Energy:    decimal.RequireFromString("5321.000"),
		CreatedAt: createdAt,
	}

	invoice := domain.Invoice{
		ID:                 node.Generate(),
		RentID:             rent.ID,
		StateID:            state.ID,
		LandlordRent:       decimal.RequireFromString("2400.00"),
		HousingRent:        decimal.RequireFromString("612.35"),
		ColdWaterPrice:     decimal.RequireFromString("14.25"),
		ColdWaterQuantity:  decimal.RequireFromString("3.5"),
		EnergyPrice:        decimal.RequireFromString("0.85"),
		EnergyQuantity:     decimal.RequireFromString("143"),
		EnergySubscription: decimal.RequireFromString("27.50"),
		Comment:            opts.Comment,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
	if opts.HasHW {
		invoice.HotWaterPrice = decimal.NewNullDecimal(decimal.RequireFromString("38.10"))
		invoice.HotWaterQuantity = decimal.NewNullDecimal(decimal.RequireFromString("1.2"))
		state.HotWater = decimal.NewNullDecimal(decimal.RequireFromString("40.100"))
	}
	if opts.HasGas {
		invoice.GasPrice = decimal.NewNullDecimal(decimal.RequireFromString("3.10"))
		invoice.GasQuantity = decimal.NewNullDecimal(decimal.RequireFromString("37"))
		invoice.GasSubscription = decimal.NewNullDecimal(decimal.RequireFromString("19.90"))
		state.Gas = decimal.NewNullDecimal(decimal.RequireFromString("904.000"))
	}
	if opts.HasHeat {
		invoice.HeatPrice = decimal.NewNullDecimal(decimal.RequireFromString("95.20"))
		invoice.HeatQuantity = decimal.NewNullDecimal(decimal.RequireFromString("1.3"))
		invoice.HeatSubscription = decimal.NewNullDecimal(decimal.RequireFromString("45.00"))
		state.Heat = decimal.NewNullDecimal(decimal.RequireFromString("77.300"))
	}

	return domain.Snapshot{
		Invoice:  invoice,
		Rent:     rent,
		Landlord: landlord,
		Tenant:   tenant,
		Property: property,
		State:    &state,
	}
}

func strPtr(v string) *string { return &v }

// OpenMemoryDB opens a named in-memory sqlite database with the rental tables.
// Distinct names give isolated databases.
func OpenMemoryDB(name string) (*gorm.DB, error) {
	dsn := "file:" + url.PathEscape(name) + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return nil, err
	}
	return db, nil
}
