package server

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	rentaldomain "github.com/smallbiznis/rentflow/internal/rental/domain"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
)

type previewLandlord struct {
	Name        string  `json:"name" binding:"required"`
	IsCompany   bool    `json:"is_company"`
	NIP         *string `json:"nip"`
	PESEL       *string `json:"pesel"`
	Street      string  `json:"street"`
	PostalCode  string  `json:"postal_code"`
	City        string  `json:"city"`
	BankAccount string  `json:"bank_account"`
	LogoURL     *string `json:"logo_url"`
}

type previewTenant struct {
	Name       string  `json:"name" binding:"required"`
	IsCompany  bool    `json:"is_company"`
	NIP        *string `json:"nip"`
	PESEL      *string `json:"pesel"`
	Street     string  `json:"street"`
	PostalCode string  `json:"postal_code"`
	City       string  `json:"city"`
}

type previewProperty struct {
	Street     string          `json:"street"`
	PostalCode string          `json:"postal_code"`
	City       string          `json:"city"`
	Area       decimal.Decimal `json:"area"`
	HasHW      bool            `json:"has_hw"`
	HasGas     bool            `json:"has_gas"`
	HasHeat    bool            `json:"has_heat"`
}

type previewRent struct {
	Purpose     string `json:"purpose" binding:"required,oneof=live work hotel"`
	PayDayDelay int    `json:"pay_day_delay"`
}

type previewState struct {
	ReadAt    time.Time           `json:"read_at" binding:"required"`
	ColdWater decimal.Decimal     `json:"cold_water"`
	HotWater  decimal.NullDecimal `json:"hot_water"`
	Gas       decimal.NullDecimal `json:"gas"`
	Energy    decimal.Decimal     `json:"energy"`
	Heat      decimal.NullDecimal `json:"heat"`
}

type previewInvoice struct {
	ID        string     `json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	Comment   *string    `json:"comment"`

	LandlordRent       decimal.NullDecimal `json:"landlord_rent"`
	HousingRent        decimal.NullDecimal `json:"housing_rent"`
	ColdWaterPrice     decimal.NullDecimal `json:"cold_water_price"`
	ColdWaterQuantity  decimal.NullDecimal `json:"cold_water_quantity"`
	HotWaterPrice      decimal.NullDecimal `json:"hot_water_price"`
	HotWaterQuantity   decimal.NullDecimal `json:"hot_water_quantity"`
	GasPrice           decimal.NullDecimal `json:"gas_price"`
	GasQuantity        decimal.NullDecimal `json:"gas_quantity"`
	EnergyPrice        decimal.NullDecimal `json:"energy_price"`
	EnergyQuantity     decimal.NullDecimal `json:"energy_quantity"`
	HeatPrice          decimal.NullDecimal `json:"heat_price"`
	HeatQuantity       decimal.NullDecimal `json:"heat_quantity"`
	GasSubscription    decimal.NullDecimal `json:"gas_subscription"`
	EnergySubscription decimal.NullDecimal `json:"energy_subscription"`
	HeatSubscription   decimal.NullDecimal `json:"heat_subscription"`
}

type previewRequest struct {
	Landlord previewLandlord `json:"landlord"`
	Tenant   previewTenant   `json:"tenant"`
	Property previewProperty `json:"property"`
	Rent     previewRent     `json:"rent"`
	State    *previewState   `json:"state"`
	Invoice  previewInvoice  `json:"invoice"`
}

// snapshot converts the request into the records an invoice is composed from.
// A missing invoice id is generated and a missing creation time defaults to now.
func (r previewRequest) snapshot(node *snowflake.Node, now time.Time) (rentaldomain.Snapshot, error) {
	inv := r.Invoice
	required := []struct {
		field string
		value decimal.NullDecimal
	}{
		{"landlord_rent", inv.LandlordRent},
		{"housing_rent", inv.HousingRent},
		{"cold_water_price", inv.ColdWaterPrice},
		{"cold_water_quantity", inv.ColdWaterQuantity},
		{"energy_price", inv.EnergyPrice},
		{"energy_quantity", inv.EnergyQuantity},
		{"energy_subscription", inv.EnergySubscription},
	}
	for _, req := range required {
		if !req.value.Valid {
			return rentaldomain.Snapshot{}, &taxdomain.FieldError{Field: req.field, Err: taxdomain.ErrMissingField}
		}
	}

	invoiceID := node.Generate()
	if id := strings.TrimSpace(inv.ID); id != "" {
		parsed, err := snowflake.ParseString(id)
		if err != nil {
			return rentaldomain.Snapshot{}, newValidationError("invoice.id", "invalid_id", "invalid id")
		}
		invoiceID = parsed
	}
	createdAt := now
	if inv.CreatedAt != nil {
		createdAt = *inv.CreatedAt
	}

	landlord := rentaldomain.Landlord{
		ID:          node.Generate(),
		Name:        r.Landlord.Name,
		IsCompany:   r.Landlord.IsCompany,
		NIP:         r.Landlord.NIP,
		PESEL:       r.Landlord.PESEL,
		Street:      r.Landlord.Street,
		PostalCode:  r.Landlord.PostalCode,
		City:        r.Landlord.City,
		BankAccount: r.Landlord.BankAccount,
		LogoURL:     r.Landlord.LogoURL,
	}
	tenant := rentaldomain.Tenant{
		ID:         node.Generate(),
		Name:       r.Tenant.Name,
		IsCompany:  r.Tenant.IsCompany,
		NIP:        r.Tenant.NIP,
		PESEL:      r.Tenant.PESEL,
		Street:     r.Tenant.Street,
		PostalCode: r.Tenant.PostalCode,
		City:       r.Tenant.City,
	}
	property := rentaldomain.Property{
		ID:         node.Generate(),
		LandlordID: landlord.ID,
		Street:     r.Property.Street,
		PostalCode: r.Property.PostalCode,
		City:       r.Property.City,
		Area:       r.Property.Area,
		HasHW:      r.Property.HasHW,
		HasGas:     r.Property.HasGas,
		HasHeat:    r.Property.HasHeat,
	}
	rent := rentaldomain.Rent{
		ID:          node.Generate(),
		LandlordID:  landlord.ID,
		TenantID:    tenant.ID,
		PropertyID:  property.ID,
		Purpose:     r.Rent.Purpose,
		PayDayDelay: r.Rent.PayDayDelay,
		StartDate:   createdAt,
	}

	snap := rentaldomain.Snapshot{
		Landlord: landlord,
		Tenant:   tenant,
		Property: property,
		Rent:     rent,
		Invoice: rentaldomain.Invoice{
			ID:                 invoiceID,
			RentID:             rent.ID,
			LandlordRent:       inv.LandlordRent.Decimal,
			HousingRent:        inv.HousingRent.Decimal,
			ColdWaterPrice:     inv.ColdWaterPrice.Decimal,
			ColdWaterQuantity:  inv.ColdWaterQuantity.Decimal,
			HotWaterPrice:      inv.HotWaterPrice,
			HotWaterQuantity:   inv.HotWaterQuantity,
			GasPrice:           inv.GasPrice,
			GasQuantity:        inv.GasQuantity,
			EnergyPrice:        inv.EnergyPrice.Decimal,
			EnergyQuantity:     inv.EnergyQuantity.Decimal,
			HeatPrice:          inv.HeatPrice,
			HeatQuantity:       inv.HeatQuantity,
			GasSubscription:    inv.GasSubscription,
			EnergySubscription: inv.EnergySubscription.Decimal,
			HeatSubscription:   inv.HeatSubscription,
			Comment:            inv.Comment,
			CreatedAt:          createdAt,
		},
	}
	if r.State != nil {
		state := &rentaldomain.State{
			ID:        node.Generate(),
			RentID:    rent.ID,
			ReadAt:    r.State.ReadAt,
			ColdWater: r.State.ColdWater,
			HotWater:  r.State.HotWater,
			Gas:       r.State.Gas,
			Energy:    r.State.Energy,
			Heat:      r.State.Heat,
		}
		snap.State = state
		snap.Invoice.StateID = state.ID
	}
	return snap, nil
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// bindError turns a binding failure into field-level validation errors.
func bindError(err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return invalidRequestError()
	}

	out := &ValidationErrors{}
	for _, fe := range vErrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Code:    fe.Tag(),
			Message: "invalid value",
		})
	}
	return out
}
