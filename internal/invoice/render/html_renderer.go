package render

import (
	"bytes"
	"context"
	"html/template"

	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
	"github.com/smallbiznis/rentflow/internal/invoice/locale"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="{{.Doc.Locale}}">
<head>
  <meta charset="utf-8" />
  <title>{{.L.T "doc.title"}} {{.Doc.Number}}</title>
  <style>
    :root {
      --primary: #1a1f36;
      --font: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: var(--font);
      color: #1a1f36;
      background: #f7f9fc;
      -webkit-font-smoothing: antialiased;
    }
    .invoice-card {
      background: #ffffff;
      max-width: 900px;
      margin: 0 auto;
      padding: 60px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
    }
    .header {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .header-left h1 {
      margin: 0;
      font-size: 24px;
      font-weight: 700;
      color: #1a1f36;
    }
    .header-right {
      text-align: right;
      font-weight: 600;
      color: #8792a2;
      font-size: 16px;
    }
    
    .meta-grid {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .col {
      flex: 1;
    }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    .value {
      font-size: 14px;
      line-height: 1.5;
      color: #1a1f36;
    }
    
    .amount-large {
      font-size: 32px;
      font-weight: 700;
      color: #1a1f36;
      margin-bottom: 4px;
    }
    
    table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 30px;
    }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
      font-weight: 600;
      letter-spacing: 0.3px;
    }
    td {
      padding: 16px 0;
      border-bottom: 1px solid #e3e8ee;
      font-size: 14px;
      color: #1a1f36;
      vertical-align: top;
    }
    .td-right { text-align: right; white-space: nowrap; }
    .row-total td { font-weight: 700; border-bottom: none; }
    
    .item-title { font-weight: 600; margin-bottom: 2px; }
    .item-sub { font-size: 12px; color: #697386; }
    
    .totals {
      width: 100%;
      display: flex;
      flex-direction: column;
      align-items: flex-end;
    }
    .total-row {
      display: flex;
      justify-content: space-between;
      width: 250px;
      padding: 6px 0;
      font-size: 14px;
    }
    .total-label { color: #697386; }
    .total-value { color: #1a1f36; text-align: right; font-weight: 500; }
    .total-final {
      border-top: 1px solid #e3e8ee;
      margin-top: 10px;
      padding-top: 10px;
      font-weight: 700;
      font-size: 16px;
      color: #1a1f36;
    }
    
    .footer {
      margin-top: 60px;
      font-size: 12px;
      color: #8792a2;
      border-top: 1px solid #e3e8ee;
      padding-top: 20px;
    }
    
    /* Spacer utility */
    .mt-4 { margin-top: 4px; }
  </style>
</head>
<body>
  <div class="invoice-card">
    <div class="header">
      <div class="header-left">
        <h1>{{.L.T "doc.title"}}</h1>
        <div class="label mt-4" style="margin-top: 12px;">{{.L.T "doc.number"}}</div>
        <div class="value">{{.Doc.Number}}</div>
      </div>
      <div class="header-right">
        {{if .Logo}}<img src="{{.Logo}}" style="max-height: 40px;" alt="{{.Doc.Header.Landlord.Name}}">{{end}}
        <div class="value">{{.L.T "doc.issue_place"}}: {{.Doc.Header.IssuePlace}}</div>
        <div class="value">{{.L.T "doc.issue_date"}}: {{.L.Date .Doc.Header.IssueDate}}</div>
        <div class="value">{{.L.T "doc.sale_date"}}: {{.L.Date .Doc.Header.SaleDate}}</div>
      </div>
    </div>

    <div class="meta-grid">
      {{template "party" (party (.L.T "doc.seller") .Doc.Header.Landlord)}}
      {{template "party" (party (.L.T "doc.buyer") .Doc.Header.Tenant)}}
      <div class="col" style="flex: 0 0 220px;">
        <div class="label">{{.L.T "doc.property"}}</div>
        <div class="value">{{.Doc.Header.Property.Street}}<br>{{.Doc.Header.Property.PostalCode}} {{.Doc.Header.Property.City}}</div>
        <div class="label" style="margin-top: 16px;">{{.L.T "doc.billing_period"}}</div>
        <div class="value">{{.L.Period .Doc.Header.BillingPeriod}}</div>
        {{if .ReadAt}}
        <div class="label" style="margin-top: 16px;">{{.L.T "doc.meter_read_at"}}</div>
        <div class="value">{{.ReadAt}}</div>
        {{end}}
      </div>
    </div>

    <table>
      <thead>
        <tr>
          <th>{{.L.T "col.index"}}</th>
          <th style="width: 30%;">{{.L.T "col.item"}}</th>
          <th>{{.L.T "col.unit"}}</th>
          <th class="td-right">{{.L.T "col.quantity"}}</th>
          <th class="td-right">{{.L.T "col.unit_price"}}</th>
          <th class="td-right">{{.L.T "col.net"}}</th>
          <th class="td-right">{{.L.T "col.rate"}}</th>
          <th class="td-right">{{.L.T "col.tax"}}</th>
          <th class="td-right">{{.L.T "col.gross"}}</th>
        </tr>
      </thead>
      <tbody>
        {{range .Doc.Items}}
        {{if eq .Kind "total"}}
        <tr class="row-total">
          <td></td>
          <td colspan="4">{{.Description}}</td>
          <td class="td-right">{{$.L.Amount .Net}}</td>
          <td></td>
          <td class="td-right">{{$.L.Amount .Tax}}</td>
          <td class="td-right">{{$.L.Amount .Gross}}</td>
        </tr>
        {{else}}
        <tr>
          <td>{{.Index}}</td>
          <td><div class="item-title">{{.Description}}</div></td>
          <td>{{.Unit}}</td>
          <td class="td-right">{{.Quantity}}</td>
          <td class="td-right">{{$.L.Amount .UnitPrice}}</td>
          <td class="td-right">{{$.L.Amount .Net}}</td>
          <td class="td-right">{{.RateLabel}}</td>
          <td class="td-right">{{$.L.Amount .Tax}}</td>
          <td class="td-right" style="font-weight: 500;">{{$.L.Amount .Gross}}</td>
        </tr>
        {{end}}
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="total-row total-final">
        <span class="total-label" style="color: #1a1f36;">{{.L.T "doc.amount_due"}}</span>
        <span class="total-value">{{.L.Money .Doc.Total .Doc.Currency}}</span>
      </div>
      <div class="total-row">
        <span class="total-label">{{.L.T "doc.due_date"}}</span>
        <span class="total-value">{{.L.Date .Doc.Header.DueDate}}</span>
      </div>
    </div>

    <div class="footer">
      {{if .Comment}}<div><strong>{{.L.T "doc.comment"}}:</strong> {{.Comment}}</div><br>{{end}}
      {{.L.T "doc.bank_account"}}: {{.Doc.BankAccount}}
    </div>
  </div>
</body>
</html>
{{define "party"}}
      <div class="col">
        <div class="label">{{.Title}}</div>
        <div class="value">
          <strong>{{.Party.Name}}</strong><br>
          {{.Party.Address.Street}}<br>
          {{.Party.Address.PostalCode}} {{.Party.Address.City}}<br>
          {{.Party.IDLabel}}: {{.Party.IDValue}}
        </div>
      </div>
{{end}}`

type HTMLRenderer struct {
	tpl *template.Template
}

type htmlView struct {
	Doc     invoicedomain.Document
	L       locale.Catalog
	Logo    string
	ReadAt  string
	Comment string
}

type partyView struct {
	Title string
	Party invoicedomain.PartyBlock
}

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"party": func(title string, p invoicedomain.PartyBlock) partyView {
			return partyView{Title: title, Party: p}
		},
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) Format() string { return FormatHTML }

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Render(ctx context.Context, doc invoicedomain.Document) ([]byte, error) {
	if err := CheckDocument(ctx, FormatHTML, doc); err != nil {
		return nil, err
	}
	catalog, err := locale.Lookup(doc.Locale)
	if err != nil {
		return nil, NewRenderError(FormatHTML, ErrCodeInvalidDocument, "unknown document locale", err)
	}

	view := htmlView{Doc: doc, L: catalog}
	if doc.Header.LogoURL != nil {
		view.Logo = *doc.Header.LogoURL
	}
	if doc.Header.MeterReadAt != nil {
		view.ReadAt = catalog.Date(*doc.Header.MeterReadAt)
	}
	if doc.Comment != nil {
		view.Comment = *doc.Comment
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return nil, NewRenderError(FormatHTML, ErrCodeRenderFailed, "template execution failed", err)
	}

	return buf.Bytes(), nil
}
