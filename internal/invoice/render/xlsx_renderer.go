package render

import (
	"bytes"
	"context"

	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
	"github.com/smallbiznis/rentflow/internal/invoice/locale"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxSummarySheet = "Invoice"
	xlsxItemsSheet   = "Items"

	// built-in "0.00" number format
	xlsxAmountFormat = 2
)

// XLSXRenderer writes the document as a two-sheet workbook: header fields
// and the item table with numeric amount cells.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

func (r *XLSXRenderer) Format() string { return FormatXLSX }

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Render(ctx context.Context, doc invoicedomain.Document) ([]byte, error) {
	if err := CheckDocument(ctx, FormatXLSX, doc); err != nil {
		return nil, err
	}
	catalog, err := locale.Lookup(doc.Locale)
	if err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeInvalidDocument, "unknown document locale", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSummarySheet); err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "rename sheet", err)
	}
	if _, err := f.NewSheet(xlsxItemsSheet); err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "create items sheet", err)
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: xlsxAmountFormat})
	if err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "create style", err)
	}

	h := doc.Header
	summary := [][2]any{
		{catalog.T(locale.KeyTitle), doc.Number},
		{catalog.T(locale.KeyIssuePlace), h.IssuePlace},
		{catalog.T(locale.KeyIssueDate), catalog.Date(h.IssueDate)},
		{catalog.T(locale.KeySaleDate), catalog.Date(h.SaleDate)},
		{catalog.T(locale.KeyDueDate), catalog.Date(h.DueDate)},
		{catalog.T(locale.KeyBillingPeriod), catalog.Period(h.BillingPeriod)},
		{catalog.T(locale.KeySeller), h.Landlord.Name},
		{h.Landlord.IDLabel, h.Landlord.IDValue},
		{catalog.T(locale.KeyBuyer), h.Tenant.Name},
		{h.Tenant.IDLabel, h.Tenant.IDValue},
		{catalog.T(locale.KeyProperty), h.Property.Street + ", " + h.Property.PostalCode + " " + h.Property.City},
		{catalog.T(locale.KeyBankAccount), doc.BankAccount},
		{catalog.T(locale.KeyAmountDue), doc.Total.InexactFloat64()},
	}
	amountRow := len(summary)
	if doc.Comment != nil {
		summary = append(summary, [2]any{catalog.T(locale.KeyComment), *doc.Comment})
	}
	for i, row := range summary {
		if err := setRow(f, xlsxSummarySheet, i+1, row[0], row[1]); err != nil {
			return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "write summary", err)
		}
	}
	if err := styleRow(f, xlsxSummarySheet, amountRow, 2, 2, amountStyle); err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "style summary", err)
	}
	if err := f.SetColWidth(xlsxSummarySheet, "A", "A", 24); err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "size summary", err)
	}
	if err := f.SetColWidth(xlsxSummarySheet, "B", "B", 48); err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "size summary", err)
	}

	if err := setRow(f, xlsxItemsSheet, 1,
		catalog.T(locale.KeyColIndex),
		catalog.T(locale.KeyColItem),
		catalog.T(locale.KeyColUnit),
		catalog.T(locale.KeyColQuantity),
		catalog.T(locale.KeyColUnitPrice),
		catalog.T(locale.KeyColNet),
		catalog.T(locale.KeyColRate),
		catalog.T(locale.KeyColTax),
		catalog.T(locale.KeyColGross),
	); err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "write item header", err)
	}

	for i, item := range doc.Items {
		row := i + 2
		var values []any
		if item.Kind == invoicedomain.ItemKindTotal {
			values = []any{"", item.Description, "", "", "",
				item.Net.InexactFloat64(), "", item.Tax.InexactFloat64(), item.Gross.InexactFloat64()}
		} else {
			values = []any{item.Index, item.Description, item.Unit, item.Quantity,
				item.UnitPrice.InexactFloat64(), item.Net.InexactFloat64(), item.RateLabel,
				item.Tax.InexactFloat64(), item.Gross.InexactFloat64()}
		}
		if err := setRow(f, xlsxItemsSheet, row, values...); err != nil {
			return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "write items", err)
		}
		if err := styleRow(f, xlsxItemsSheet, row, 5, 9, amountStyle); err != nil {
			return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "style items", err)
		}
	}
	if err := f.SetColWidth(xlsxItemsSheet, "B", "B", 32); err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "size items", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, NewRenderError(FormatXLSX, ErrCodeRenderFailed, "write workbook", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// styleRow applies style to columns fromCol..toCol of one row.
func styleRow(f *excelize.File, sheet string, row, fromCol, toCol, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}
