// Package locale holds the wording and number formatting used on invoice
// documents.
package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyTitle         = "doc.title"
	KeyNumber        = "doc.number"
	KeyIssuePlace    = "doc.issue_place"
	KeyIssueDate     = "doc.issue_date"
	KeySaleDate      = "doc.sale_date"
	KeyDueDate       = "doc.due_date"
	KeyBillingPeriod = "doc.billing_period"
	KeyMeterReadAt   = "doc.meter_read_at"
	KeySeller        = "doc.seller"
	KeyBuyer         = "doc.buyer"
	KeyProperty      = "doc.property"
	KeyComment       = "doc.comment"
	KeyBankAccount   = "doc.bank_account"
	KeyAmountDue     = "doc.amount_due"

	KeyColIndex     = "col.index"
	KeyColItem      = "col.item"
	KeyColUnit      = "col.unit"
	KeyColQuantity  = "col.quantity"
	KeyColUnitPrice = "col.unit_price"
	KeyColNet       = "col.net"
	KeyColRate      = "col.rate"
	KeyColTax       = "col.tax"
	KeyColGross     = "col.gross"

	KeyTotal  = "item.total"
	KeyExempt = "rate.exempt"
)

const (
	unitMonth      = "unit.month"
	unitCubicMeter = "unit.m3"
	unitKWh        = "unit.kwh"
	unitGJ         = "unit.gj"
)

var entries = map[string][2]string{ // key: {pl, en}
	KeyTitle:         {"Faktura VAT", "VAT invoice"},
	KeyNumber:        {"Nr", "No."},
	KeyIssuePlace:    {"Miejsce wystawienia", "Place of issue"},
	KeyIssueDate:     {"Data wystawienia", "Issue date"},
	KeySaleDate:      {"Data sprzedaży", "Sale date"},
	KeyDueDate:       {"Termin płatności", "Payment due"},
	KeyBillingPeriod: {"Okres rozliczeniowy", "Billing period"},
	KeyMeterReadAt:   {"Odczyt liczników", "Meter reading"},
	KeySeller:        {"Sprzedawca", "Seller"},
	KeyBuyer:         {"Nabywca", "Buyer"},
	KeyProperty:      {"Lokal", "Property"},
	KeyComment:       {"Uwagi", "Notes"},
	KeyBankAccount:   {"Numer konta", "Bank account"},
	KeyAmountDue:     {"Do zapłaty", "Amount due"},

	KeyColIndex:     {"Lp.", "#"},
	KeyColItem:      {"Nazwa", "Description"},
	KeyColUnit:      {"J.m.", "Unit"},
	KeyColQuantity:  {"Ilość", "Qty"},
	KeyColUnitPrice: {"Cena jedn. netto", "Unit price"},
	KeyColNet:       {"Wartość netto", "Net"},
	KeyColRate:      {"Stawka VAT", "VAT rate"},
	KeyColTax:       {"Kwota VAT", "VAT"},
	KeyColGross:     {"Wartość brutto", "Gross"},

	KeyTotal:  {"Razem", "Total"},
	KeyExempt: {"zw.", "exempt"},

	unitMonth:      {"mies.", "month"},
	unitCubicMeter: {"m³", "m³"},
	unitKWh:        {"kWh", "kWh"},
	unitGJ:         {"GJ", "GJ"},

	itemKey(taxdomain.CategoryLandlordRent):       {"Czynsz najmu", "Rent"},
	itemKey(taxdomain.CategoryHousingRent):        {"Czynsz administracyjny", "Housing association fee"},
	itemKey(taxdomain.CategoryColdWater):          {"Zimna woda", "Cold water"},
	itemKey(taxdomain.CategoryHotWater):           {"Ciepła woda", "Hot water"},
	itemKey(taxdomain.CategoryGas):                {"Gaz", "Gas"},
	itemKey(taxdomain.CategoryEnergy):             {"Energia elektryczna", "Electricity"},
	itemKey(taxdomain.CategoryHeat):               {"Ogrzewanie", "Heating"},
	itemKey(taxdomain.CategoryGasSubscription):    {"Abonament gazowy", "Gas standing charge"},
	itemKey(taxdomain.CategoryEnergySubscription): {"Abonament energetyczny", "Electricity standing charge"},
	itemKey(taxdomain.CategoryHeatSubscription):   {"Abonament ciepłowniczy", "Heating standing charge"},
}

var units = map[taxdomain.Category]string{
	taxdomain.CategoryColdWater: unitCubicMeter,
	taxdomain.CategoryHotWater:  unitCubicMeter,
	taxdomain.CategoryGas:       unitCubicMeter,
	taxdomain.CategoryEnergy:    unitKWh,
	taxdomain.CategoryHeat:      unitGJ,
}

var dateLayouts = map[language.Tag]string{
	language.Polish:  "02.01.2006",
	language.English: "2006-01-02",
}

var supported = []language.Tag{language.Polish, language.English}

var messages = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range entries {
		_ = b.SetString(language.Polish, key, text[0])
		_ = b.SetString(language.English, key, text[1])
	}
	return b
}()

// Catalog renders document wording and amounts for one language.
type Catalog struct {
	tag        language.Tag
	printer    *message.Printer
	decimalSep string
}

// Lookup returns the catalog for a locale code such as "pl" or "en-GB".
func Lookup(code string) (Catalog, error) {
	parsed, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: %q", invoicedomain.ErrUnsupportedLocale, code)
	}
	base, _ := parsed.Base()
	for _, tag := range supported {
		if b, _ := tag.Base(); b == base {
			p := message.NewPrinter(tag, message.Catalog(messages))
			return Catalog{tag: tag, printer: p, decimalSep: decimalSeparator(p)}, nil
		}
	}
	return Catalog{}, fmt.Errorf("%w: %q", invoicedomain.ErrUnsupportedLocale, code)
}

// MustLookup is Lookup for locales known to be supported.
func MustLookup(code string) Catalog {
	c, err := Lookup(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the BCP 47 code of the catalog.
func (c Catalog) Code() string { return c.tag.String() }

// T translates a message key.
func (c Catalog) T(key string) string {
	return c.printer.Sprintf(key)
}

// Item returns the description of an invoice line.
func (c Catalog) Item(cat taxdomain.Category) string {
	return c.T(itemKey(cat))
}

// Unit returns the billing unit of an invoice line.
func (c Catalog) Unit(cat taxdomain.Category) string {
	if key, ok := units[cat]; ok {
		return c.T(key)
	}
	return c.T(unitMonth)
}

// RateLabel renders a VAT rate as a percentage, or the exempt marker for zero.
func (c Catalog) RateLabel(rate decimal.Decimal) string {
	if rate.IsZero() {
		return c.T(KeyExempt)
	}
	return rate.Shift(2).String() + "%"
}

// Amount formats a monetary amount with two decimals using the locale's
// separators.
func (c Catalog) Amount(v decimal.Decimal) string {
	return c.localize(v.StringFixed(2))
}

// Quantity formats a consumption figure with every stored decimal, so that
// quantity times unit price matches the net value.
func (c Catalog) Quantity(v decimal.Decimal) string {
	return c.localize(v.String())
}

// localize swaps the separators of a plain decimal string for the locale's.
func (c Catalog) localize(plain string) string {
	sign := ""
	if strings.HasPrefix(plain, "-") {
		sign, plain = "-", plain[1:]
	}
	whole, frac, _ := strings.Cut(plain, ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = c.printer.Sprintf("%d", n)
	}
	if frac == "" {
		return sign + whole
	}
	return sign + whole + c.decimalSep + frac
}

// Money appends the currency code to Amount.
func (c Catalog) Money(v decimal.Decimal, currency string) string {
	if currency == "" {
		return c.Amount(v)
	}
	return c.Amount(v) + " " + currency
}

// Date formats a calendar date.
func (c Catalog) Date(t time.Time) string {
	return t.Format(dateLayouts[c.tag])
}

// Period formats a billing period as MM/YYYY.
func (c Catalog) Period(p invoicedomain.BillingPeriod) string {
	return fmt.Sprintf("%02d/%04d", int(p.Month), p.Year)
}

func itemKey(cat taxdomain.Category) string {
	return "item." + string(cat)
}

func decimalSeparator(p *message.Printer) string {
	s := p.Sprintf("%.1f", 1.5)
	return strings.TrimSuffix(strings.TrimPrefix(s, "1"), "5")
}
