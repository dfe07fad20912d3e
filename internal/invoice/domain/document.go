// Package domain describes the renderer-agnostic invoice document.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
)

// Party identification labels.
const (
	IDLabelNIP   = "NIP"
	IDLabelPESEL = "PESEL"
)

// ItemKind separates priced rows from the closing total row.
type ItemKind string

const (
	ItemKindCharge ItemKind = "charge"
	ItemKindTotal  ItemKind = "total"
)

// Document is everything a renderer needs to print one invoice.
type Document struct {
	InvoiceID   string          `json:"invoice_id"`
	Number      string          `json:"number"`
	Header      Header          `json:"header"`
	Items       []LineItem      `json:"items"`
	Comment     *string         `json:"comment,omitempty"`
	BankAccount string          `json:"bank_account"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Locale      string          `json:"locale"`
}

// Charges returns the numbered rows, without the total row.
func (d Document) Charges() []LineItem {
	out := make([]LineItem, 0, len(d.Items))
	for _, item := range d.Items {
		if item.Kind == ItemKindCharge {
			out = append(out, item)
		}
	}
	return out
}

type Header struct {
	IssuePlace    string        `json:"issue_place"`
	IssueDate     time.Time     `json:"issue_date"`
	SaleDate      time.Time     `json:"sale_date"`
	DueDate       time.Time     `json:"due_date"`
	BillingPeriod BillingPeriod `json:"billing_period"`
	Landlord      PartyBlock    `json:"landlord"`
	Tenant        PartyBlock    `json:"tenant"`
	Property      Address       `json:"property"`
	LogoURL       *string       `json:"logo_url,omitempty"`
	MeterReadAt   *time.Time    `json:"meter_read_at,omitempty"`
}

// BillingPeriod is the calendar month an invoice settles.
type BillingPeriod struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

type Address struct {
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
}

// PartyBlock identifies a landlord or tenant. IDLabel is NIP for companies
// and PESEL for individuals.
type PartyBlock struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
	IDLabel string  `json:"id_label"`
	IDValue string  `json:"id_value"`
}

// LineItem is one row of the invoice table. Index is 1-based over charge rows
// and zero on the total row.
type LineItem struct {
	Index       int                `json:"index"`
	Kind        ItemKind           `json:"kind"`
	Category    taxdomain.Category `json:"category,omitempty"`
	Description string             `json:"description"`
	Unit        string             `json:"unit,omitempty"`
	Quantity    string             `json:"quantity,omitempty"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
	Net         decimal.Decimal    `json:"net"`
	Rate        decimal.Decimal    `json:"rate"`
	RateLabel   string             `json:"rate_label,omitempty"`
	Exempt      bool               `json:"exempt"`
	Tax         decimal.Decimal    `json:"tax"`
	Gross       decimal.Decimal    `json:"gross"`
}
