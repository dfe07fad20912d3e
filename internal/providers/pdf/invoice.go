// Package pdf renders invoice documents to PDF with maroto.
package pdf

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
	"github.com/smallbiznis/rentflow/internal/invoice/locale"
	"github.com/smallbiznis/rentflow/internal/invoice/render"
)

var (
	headStyle  = props.Text{Style: fontstyle.Bold, Size: 8}
	headRight  = props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}
	cellStyle  = props.Text{Size: 8}
	cellRight  = props.Text{Size: 8, Align: align.Right}
	totalRight = props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}
)

// Renderer lays out invoice documents on A4 pages.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Format() string { return render.FormatPDF }

func (r *Renderer) ContentType() string { return "application/pdf" }

func (r *Renderer) Render(ctx context.Context, doc invoicedomain.Document) ([]byte, error) {
	if err := render.CheckDocument(ctx, render.FormatPDF, doc); err != nil {
		return nil, err
	}
	catalog, err := locale.Lookup(doc.Locale)
	if err != nil {
		return nil, render.NewRenderError(render.FormatPDF, render.ErrCodeInvalidDocument, "unknown document locale", err)
	}

	cfg, err := newConfig()
	if err != nil {
		return nil, render.NewRenderError(render.FormatPDF, render.ErrCodeRenderFailed, "load pdf fonts", err)
	}

	m := maroto.New(cfg)

	addHeader(m, doc, catalog)
	addParties(m, doc, catalog)
	addItems(m, doc, catalog)
	addFooter(m, doc, catalog)

	out, err := m.Generate()
	if err != nil {
		return nil, render.NewRenderError(render.FormatPDF, render.ErrCodeRenderFailed, "generate pdf", err)
	}

	return out.GetBytes(), nil
}

func addHeader(m core.Maroto, doc invoicedomain.Document, l locale.Catalog) {
	h := doc.Header
	if logo := localLogo(h.LogoURL); logo != "" {
		m.AddRow(25,
			image.NewFromFileCol(3, logo, props.Rect{Percent: 80}),
			col.New(9),
		)
	}

	m.AddRow(10,
		text.NewCol(8, l.T(locale.KeyTitle)+" "+doc.Number, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		col.New(4).Add(
			text.New(l.T(locale.KeyIssuePlace)+": "+h.IssuePlace, props.Text{Size: 8, Align: align.Right}),
			text.New(l.T(locale.KeyIssueDate)+": "+l.Date(h.IssueDate), props.Text{Size: 8, Top: 4, Align: align.Right}),
		),
	)
	m.AddRow(12,
		col.New(8).Add(
			text.New(l.T(locale.KeyBillingPeriod)+": "+l.Period(h.BillingPeriod), props.Text{Size: 9}),
		),
		col.New(4).Add(
			text.New(l.T(locale.KeySaleDate)+": "+l.Date(h.SaleDate), props.Text{Size: 8, Align: align.Right}),
			text.New(l.T(locale.KeyDueDate)+": "+l.Date(h.DueDate), props.Text{Size: 8, Top: 4, Align: align.Right}),
		),
	)
}

func addParties(m core.Maroto, doc invoicedomain.Document, l locale.Catalog) {
	h := doc.Header
	m.AddRow(30,
		partyCol(l.T(locale.KeySeller), h.Landlord),
		partyCol(l.T(locale.KeyBuyer), h.Tenant),
		col.New(4).Add(
			text.New(l.T(locale.KeyProperty), props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(h.Property.Street, props.Text{Size: 8, Top: 5}),
			text.New(h.Property.PostalCode+" "+h.Property.City, props.Text{Size: 8, Top: 9}),
		),
	)
}

func partyCol(title string, p invoicedomain.PartyBlock) core.Col {
	return col.New(4).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9}),
		text.New(p.Name, props.Text{Size: 8, Top: 5}),
		text.New(p.Address.Street, props.Text{Size: 8, Top: 9}),
		text.New(p.Address.PostalCode+" "+p.Address.City, props.Text{Size: 8, Top: 13}),
		text.New(p.IDLabel+": "+p.IDValue, props.Text{Size: 8, Top: 17}),
	)
}

func addItems(m core.Maroto, doc invoicedomain.Document, l locale.Catalog) {
	m.AddRow(8,
		text.NewCol(1, l.T(locale.KeyColIndex), headStyle),
		text.NewCol(3, l.T(locale.KeyColItem), headStyle),
		text.NewCol(1, l.T(locale.KeyColQuantity), headRight),
		text.NewCol(2, l.T(locale.KeyColUnitPrice), headRight),
		text.NewCol(1, l.T(locale.KeyColNet), headRight),
		text.NewCol(1, l.T(locale.KeyColRate), headRight),
		text.NewCol(1, l.T(locale.KeyColTax), headRight),
		text.NewCol(2, l.T(locale.KeyColGross), headRight),
	)
	m.AddRow(1, line.NewCol(12))

	for _, item := range doc.Items {
		if item.Kind == invoicedomain.ItemKindTotal {
			m.AddRow(1, line.NewCol(12))
			m.AddRow(8,
				col.New(1),
				text.NewCol(3, item.Description, props.Text{Style: fontstyle.Bold, Size: 8}),
				col.New(3),
				text.NewCol(1, l.Amount(item.Net), totalRight),
				col.New(1),
				text.NewCol(1, l.Amount(item.Tax), totalRight),
				text.NewCol(2, l.Amount(item.Gross), totalRight),
			)
			continue
		}
		m.AddRow(7,
			text.NewCol(1, strconv.Itoa(item.Index), cellStyle),
			text.NewCol(3, item.Description, cellStyle),
			text.NewCol(1, item.Quantity+" "+item.Unit, cellRight),
			text.NewCol(2, l.Amount(item.UnitPrice), cellRight),
			text.NewCol(1, l.Amount(item.Net), cellRight),
			text.NewCol(1, item.RateLabel, cellRight),
			text.NewCol(1, l.Amount(item.Tax), cellRight),
			text.NewCol(2, l.Amount(item.Gross), cellRight),
		)
	}
}

func addFooter(m core.Maroto, doc invoicedomain.Document, l locale.Catalog) {
	m.AddRow(12,
		col.New(6),
		text.NewCol(3, l.T(locale.KeyAmountDue), props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}),
		text.NewCol(3, l.Money(doc.Total, doc.Currency), props.Text{Style: fontstyle.Bold, Size: 10, Top: 4, Align: align.Right}),
	)
	if doc.Comment != nil {
		m.AddRow(10,
			text.NewCol(12, l.T(locale.KeyComment)+": "+*doc.Comment, props.Text{Size: 8, Top: 3}),
		)
	}
	m.AddRow(10,
		text.NewCol(12, l.T(locale.KeyBankAccount)+": "+doc.BankAccount, props.Text{Size: 9, Top: 3}),
	)
}

// localLogo returns the logo path when it points at a readable local file.
// Remote logos are left to the HTML output.
func localLogo(logoURL *string) string {
	if logoURL == nil {
		return ""
	}
	path := strings.TrimPrefix(strings.TrimSpace(*logoURL), "file://")
	if path == "" || strings.Contains(path, "://") {
		return ""
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}
