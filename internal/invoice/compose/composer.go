// Package compose turns a priced invoice into a renderer-agnostic document.
package compose

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/rentflow/internal/clock"
	"github.com/smallbiznis/rentflow/internal/config"
	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
	"github.com/smallbiznis/rentflow/internal/invoice/format"
	"github.com/smallbiznis/rentflow/internal/invoice/locale"
	rentaldomain "github.com/smallbiznis/rentflow/internal/rental/domain"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config config.Config
	Clock  clock.Clock
}

// Composer lays out invoice documents. Dates come from the injected clock.
type Composer struct {
	clock          clock.Clock
	numberTemplate string
	currency       string
	catalog        locale.Catalog
}

func New(p Params) (*Composer, error) {
	return NewComposer(p.Clock, p.Config.Invoice)
}

func NewComposer(c clock.Clock, cfg config.InvoiceConfig) (*Composer, error) {
	if c == nil {
		c = clock.New()
	}
	catalog, err := locale.Lookup(cfg.Locale)
	if err != nil {
		return nil, err
	}
	template := cfg.NumberTemplate
	if strings.TrimSpace(template) == "" {
		template = format.DefaultInvoiceNumberTemplate
	}
	return &Composer{
		clock:          c,
		numberTemplate: template,
		currency:       cfg.Currency,
		catalog:        catalog,
	}, nil
}

// Compose builds the document for snap priced as result.
func (c *Composer) Compose(snap rentaldomain.Snapshot, result taxdomain.Result) (invoicedomain.Document, error) {
	if err := validateHeader(snap); err != nil {
		return invoicedomain.Document{}, err
	}

	in, err := snap.TaxInput()
	if err != nil {
		return invoicedomain.Document{}, err
	}

	number, err := format.FormatInvoiceNumber(c.numberTemplate, snap.Invoice.CreatedAt, snap.Invoice.ID.Int64())
	if err != nil {
		return invoicedomain.Document{}, err
	}

	now := c.clock.Now()
	header := invoicedomain.Header{
		IssuePlace:    snap.Landlord.City,
		IssueDate:     format.Day(now),
		SaleDate:      format.Day(now),
		DueDate:       format.DueDate(now, snap.Rent.PayDayDelay),
		BillingPeriod: format.BillingPeriodFor(now),
		Landlord: partyBlock(snap.Landlord.Name, snap.Landlord.IsCompany, snap.Landlord.NIP, snap.Landlord.PESEL,
			invoicedomain.Address{Street: snap.Landlord.Street, PostalCode: snap.Landlord.PostalCode, City: snap.Landlord.City}),
		Tenant: partyBlock(snap.Tenant.Name, snap.Tenant.IsCompany, snap.Tenant.NIP, snap.Tenant.PESEL,
			invoicedomain.Address{Street: snap.Tenant.Street, PostalCode: snap.Tenant.PostalCode, City: snap.Tenant.City}),
		Property: invoicedomain.Address{
			Street:     snap.Property.Street,
			PostalCode: snap.Property.PostalCode,
			City:       snap.Property.City,
		},
	}
	if logo := snap.Landlord.LogoURL; logo != nil && strings.TrimSpace(*logo) != "" {
		header.LogoURL = logo
	}
	if snap.State != nil {
		readAt := snap.State.ReadAt
		header.MeterReadAt = &readAt
	}

	items := make([]invoicedomain.LineItem, 0, len(result.Lines)+1)
	netSum, taxSum := decimal.Zero, decimal.Zero
	index := 0
	for _, cat := range taxdomain.BilledCategories {
		line, ok := result.Line(cat)
		if !ok || !line.Included {
			continue
		}
		index++
		items = append(items, invoicedomain.LineItem{
			Index:       index,
			Kind:        invoicedomain.ItemKindCharge,
			Category:    cat,
			Description: c.catalog.Item(cat),
			Unit:        c.catalog.Unit(cat),
			Quantity:    c.catalog.Quantity(in.Figures.Quantity(cat)),
			UnitPrice:   in.Figures.UnitPrice(cat),
			Net:         line.Net,
			Rate:        line.Rate,
			RateLabel:   c.catalog.RateLabel(line.Rate),
			Exempt:      line.Exempt(),
			Tax:         line.Tax,
			Gross:       line.Gross,
		})
		netSum = netSum.Add(line.Net)
		taxSum = taxSum.Add(line.Tax)
	}

	items = append(items, invoicedomain.LineItem{
		Kind:        invoicedomain.ItemKindTotal,
		Description: c.catalog.T(locale.KeyTotal),
		Net:         netSum,
		Tax:         taxSum,
		Gross:       result.Total,
	})

	var comment *string
	if snap.Invoice.Comment != nil && strings.TrimSpace(*snap.Invoice.Comment) != "" {
		text := strings.TrimSpace(*snap.Invoice.Comment)
		comment = &text
	}

	return invoicedomain.Document{
		InvoiceID:   snap.Invoice.ID.String(),
		Number:      number,
		Header:      header,
		Items:       items,
		Comment:     comment,
		BankAccount: snap.Landlord.BankAccount,
		Total:       result.Total,
		Currency:    c.currency,
		Locale:      c.catalog.Code(),
	}, nil
}

func partyBlock(name string, isCompany bool, nip, pesel *string, addr invoicedomain.Address) invoicedomain.PartyBlock {
	block := invoicedomain.PartyBlock{Name: name, Address: addr}
	if isCompany {
		block.IDLabel = invoicedomain.IDLabelNIP
		block.IDValue = deref(nip)
	} else {
		block.IDLabel = invoicedomain.IDLabelPESEL
		block.IDValue = deref(pesel)
	}
	return block
}

func validateHeader(snap rentaldomain.Snapshot) error {
	required := []struct {
		field string
		value string
	}{
		{"landlord.name", snap.Landlord.Name},
		{"landlord.street", snap.Landlord.Street},
		{"landlord.postal_code", snap.Landlord.PostalCode},
		{"landlord.city", snap.Landlord.City},
		{"landlord.bank_account", snap.Landlord.BankAccount},
		{"tenant.name", snap.Tenant.Name},
		{"tenant.street", snap.Tenant.Street},
		{"tenant.postal_code", snap.Tenant.PostalCode},
		{"tenant.city", snap.Tenant.City},
		{"landlord." + idField(snap.Landlord.IsCompany), partyID(snap.Landlord.IsCompany, snap.Landlord.NIP, snap.Landlord.PESEL)},
		{"tenant." + idField(snap.Tenant.IsCompany), partyID(snap.Tenant.IsCompany, snap.Tenant.NIP, snap.Tenant.PESEL)},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &taxdomain.FieldError{Field: r.field, Err: taxdomain.ErrMissingField}
		}
	}
	return nil
}

func idField(isCompany bool) string {
	if isCompany {
		return "nip"
	}
	return "pesel"
}

func partyID(isCompany bool, nip, pesel *string) string {
	if isCompany {
		return deref(nip)
	}
	return deref(pesel)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
