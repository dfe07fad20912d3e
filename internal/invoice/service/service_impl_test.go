package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/rentflow/internal/clock"
	"github.com/smallbiznis/rentflow/internal/config"
	"github.com/smallbiznis/rentflow/internal/invoice/compose"
	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
	"github.com/smallbiznis/rentflow/internal/invoice/render"
	"github.com/smallbiznis/rentflow/internal/observability/metrics"
	rentaldomain "github.com/smallbiznis/rentflow/internal/rental/domain"
	"github.com/smallbiznis/rentflow/internal/rental/rentaltest"
	"github.com/smallbiznis/rentflow/internal/rental/repository"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	taxservice "github.com/smallbiznis/rentflow/internal/taxcase/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Format() string      { return "mock" }
func (m *mockRenderer) ContentType() string { return "application/x-mock" }

func (m *mockRenderer) Render(ctx context.Context, doc invoicedomain.Document) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockLock struct {
	mock.Mock
}

func (m *mockLock) TryLockInvoice(ctx context.Context, invoiceID string) (string, bool, error) {
	args := m.Called(ctx, invoiceID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockLock) ReleaseInvoice(ctx context.Context, invoiceID, token string) error {
	return m.Called(ctx, invoiceID, token).Error(0)
}

type fixture struct {
	db      *gorm.DB
	seeder  *rentaltest.Seeder
	svc     invoicedomain.Service
	mock    *mockRenderer
	metrics *prometheus.Registry
}

func newFixture(t *testing.T, opts ...func(*ServiceParam)) fixture {
	t.Helper()
	db, err := rentaltest.OpenMemoryDB(t.Name())
	require.NoError(t, err)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	c := clock.NewFakeClock(now)
	composer, err := compose.NewComposer(c, config.InvoiceConfig{
		NumberTemplate: "{ID}/{MM}/{YYYY}",
		Locale:         "pl",
		Currency:       "PLN",
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.NewInvoiceMetrics(reg, metrics.Config{ServiceName: "rentflow", Environment: "test"})
	mr := &mockRenderer{}

	params := ServiceParam{
		DB:         db,
		Log:        zap.NewNop(),
		Clock:      c,
		Repo:       repository.Provide(),
		Calculator: taxservice.NewCalculator(taxservice.Params{Log: zap.NewNop(), Metrics: m}),
		Composer:   composer,
		Renderers:  render.NewRegistry(render.FormatHTML, render.NewHTMLRenderer(), render.NewXLSXRenderer(), mr),
		Metrics:    m,
	}
	for _, opt := range opts {
		opt(&params)
	}
	svc := NewService(params)

	return fixture{
		db:      db,
		seeder:  rentaltest.NewSeeder(db, node),
		svc:     svc,
		mock:    mr,
		metrics: reg,
	}
}

func documentsMetric(format, status string, value string) string {
	return `
# HELP rentflow_invoice_documents_total Invoice documents generated by output format and outcome.
# TYPE rentflow_invoice_documents_total counter
rentflow_invoice_documents_total{env="test",format="` + format + `",service="rentflow",status="` + status + `"} ` + value + `
`
}

func TestGenerateDocument_HTML(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.seeder.SeedSnapshot(ctx, rentaltest.DefaultOptions())
	require.NoError(t, err)

	resp, err := f.svc.GenerateDocument(ctx, invoicedomain.GenerateRequest{InvoiceID: snap.Invoice.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, "text/html; charset=utf-8", resp.ContentType)
	assert.Contains(t, string(resp.Content), resp.Document.Number)
	assert.True(t, strings.HasPrefix(resp.Filename, "invoice-"+snap.Invoice.ID.String()+"-09-2026-anna-nowak"))
	assert.True(t, strings.HasSuffix(resp.Filename, ".html"))

	var stored rentaldomain.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", snap.Invoice.ID).Error)
	require.True(t, stored.TotalGross.Valid)
	assert.True(t, stored.TotalGross.Decimal.Equal(resp.Document.Total))
	require.NotNil(t, stored.IssuedAt)
	assert.True(t, stored.IssuedAt.Equal(now))

	require.NoError(t, testutil.GatherAndCompare(f.metrics,
		strings.NewReader(documentsMetric("html", metrics.DocumentStatusOK, "1")),
		"rentflow_invoice_documents_total"))
}

func TestGenerateDocument_TotalMatchesCalculator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	opts := rentaltest.DefaultOptions()
	opts.LandlordCompany = true
	opts.TenantCompany = true
	opts.Purpose = "work"
	snap, err := f.seeder.SeedSnapshot(ctx, opts)
	require.NoError(t, err)

	in, err := snap.TaxInput()
	require.NoError(t, err)
	want, err := taxservice.Compute(in, taxdomain.StatutoryRates())
	require.NoError(t, err)

	resp, err := f.svc.GenerateDocument(ctx, invoicedomain.GenerateRequest{InvoiceID: snap.Invoice.ID.String(), Format: "xlsx"})
	require.NoError(t, err)

	assert.True(t, resp.Document.Total.Equal(want.Total))
	sum := decimal.Zero
	for _, item := range resp.Document.Charges() {
		sum = sum.Add(item.Gross)
	}
	assert.True(t, sum.Equal(want.Total))
	assert.True(t, strings.HasSuffix(resp.Filename, ".xlsx"))
}

func TestGenerateDocument_RenderErrorIsPropagated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.seeder.SeedSnapshot(ctx, rentaltest.DefaultOptions())
	require.NoError(t, err)

	cause := errors.New("printer on fire")
	renderErr := render.NewRenderError("mock", render.ErrCodeRenderFailed, "failed", cause)
	f.mock.On("Render", mock.Anything, mock.Anything).Return(nil, renderErr)

	_, err = f.svc.GenerateDocument(ctx, invoicedomain.GenerateRequest{InvoiceID: snap.Invoice.ID.String(), Format: "mock"})
	assert.Same(t, renderErr, err)
	assert.ErrorIs(t, err, cause)
	f.mock.AssertExpectations(t)

	var stored rentaldomain.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", snap.Invoice.ID).Error)
	assert.False(t, stored.TotalGross.Valid)
	assert.Nil(t, stored.IssuedAt)

	require.NoError(t, testutil.GatherAndCompare(f.metrics,
		strings.NewReader(documentsMetric("mock", metrics.DocumentStatusRenderError, "1")),
		"rentflow_invoice_documents_total"))
}

func TestGenerateDocument_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GenerateDocument(ctx, invoicedomain.GenerateRequest{InvoiceID: "abc"})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidInvoiceID)

	_, err = f.svc.GenerateDocument(ctx, invoicedomain.GenerateRequest{InvoiceID: "123", Format: "docx"})
	assert.ErrorIs(t, err, invoicedomain.ErrUnsupportedFormat)

	_, err = f.svc.GenerateDocument(ctx, invoicedomain.GenerateRequest{InvoiceID: "123"})
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)
}

func TestGenerateDocument_MissingFigure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.seeder.SeedSnapshot(ctx, rentaltest.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&rentaldomain.Invoice{}).
		Where("id = ?", snap.Invoice.ID).
		Update("gas_price", nil).Error)

	_, err = f.svc.GenerateDocument(ctx, invoicedomain.GenerateRequest{InvoiceID: snap.Invoice.ID.String()})

	var fieldErr *taxdomain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "gas_price", fieldErr.Field)
}

func TestPreview_StoresNothing(t *testing.T) {
	f := newFixture(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	snap := rentaltest.BuildSnapshot(node, rentaltest.DefaultOptions())

	doc, err := f.svc.Preview(context.Background(), invoicedomain.PreviewRequest{Snapshot: snap})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.Number)
	assert.Equal(t, invoicedomain.ItemKindTotal, doc.Items[len(doc.Items)-1].Kind)

	var count int64
	require.NoError(t, f.db.Model(&rentaldomain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGenerateDocument_LockHeld(t *testing.T) {
	lock := &mockLock{}
	f := newFixture(t, func(p *ServiceParam) { p.Lock = lock })
	ctx := context.Background()

	snap, err := f.seeder.SeedSnapshot(ctx, rentaltest.DefaultOptions())
	require.NoError(t, err)
	id := snap.Invoice.ID.String()

	lock.On("TryLockInvoice", mock.Anything, id).Return("", false, nil).Once()

	_, err = f.svc.GenerateDocument(ctx, invoicedomain.GenerateRequest{InvoiceID: id, Format: "mock"})
	assert.ErrorIs(t, err, invoicedomain.ErrGenerationInProgress)
	lock.AssertNotCalled(t, "ReleaseInvoice", mock.Anything, mock.Anything, mock.Anything)
	f.mock.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
}

func TestGenerateDocument_LockReleased(t *testing.T) {
	lock := &mockLock{}
	f := newFixture(t, func(p *ServiceParam) { p.Lock = lock })
	ctx := context.Background()

	snap, err := f.seeder.SeedSnapshot(ctx, rentaltest.DefaultOptions())
	require.NoError(t, err)
	id := snap.Invoice.ID.String()

	lock.On("TryLockInvoice", mock.Anything, id).Return("token-1", true, nil).Once()
	lock.On("ReleaseInvoice", mock.Anything, id, "token-1").Return(nil).Once()
	f.mock.On("Render", mock.Anything, mock.Anything).Return([]byte("ok"), nil).Once()

	resp, err := f.svc.GenerateDocument(ctx, invoicedomain.GenerateRequest{InvoiceID: id, Format: "mock"})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), resp.Content)
	lock.AssertExpectations(t)
}
