package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/rentflow/internal/clock"
	"github.com/smallbiznis/rentflow/internal/invoice/compose"
	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
	"github.com/smallbiznis/rentflow/internal/invoice/render"
	"github.com/smallbiznis/rentflow/internal/observability/metrics"
	"github.com/smallbiznis/rentflow/internal/observability/tracing"
	rentaldomain "github.com/smallbiznis/rentflow/internal/rental/domain"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	taxservice "github.com/smallbiznis/rentflow/internal/taxcase/service"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	Repo       rentaldomain.Repository
	Calculator *taxservice.Calculator
	Composer   *compose.Composer
	Renderers  *render.Registry
	Metrics    *metrics.InvoiceMetrics `optional:"true"`
	Lock       GenerationLock          `optional:"true"`
}

// GenerationLock serializes document generation per invoice.
type GenerationLock interface {
	TryLockInvoice(ctx context.Context, invoiceID string) (token string, ok bool, err error)
	ReleaseInvoice(ctx context.Context, invoiceID, token string) error
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	clock      clock.Clock
	repo       rentaldomain.Repository
	calculator *taxservice.Calculator
	composer   *compose.Composer
	renderers  *render.Registry
	metrics    *metrics.InvoiceMetrics
	lock       GenerationLock
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("invoice.service"),

		clock:      p.Clock,
		repo:       p.Repo,
		calculator: p.Calculator,
		composer:   p.Composer,
		renderers:  p.Renderers,
		metrics:    p.Metrics,
		lock:       p.Lock,
	}
}

// GenerateDocument prices a stored invoice, renders it and records the
// grand total on the invoice.
func (s *Service) GenerateDocument(ctx context.Context, req invoicedomain.GenerateRequest) (resp invoicedomain.GenerateResponse, err error) {
	renderer, err := s.renderers.Get(req.Format)
	if err != nil {
		s.metrics.RecordDocument(req.Format, metrics.DocumentStatusInvalid)
		return invoicedomain.GenerateResponse{}, err
	}
	format := renderer.Format()

	id, err := parseID(strings.TrimSpace(req.InvoiceID))
	if err != nil {
		s.metrics.RecordDocument(format, metrics.DocumentStatusInvalid)
		return invoicedomain.GenerateResponse{}, invoicedomain.ErrInvalidInvoiceID
	}

	ctx, span := tracing.StartSpan(ctx, "invoice.GenerateDocument",
		attribute.String("invoice.id", id.String()),
		attribute.String("invoice.format", format),
	)
	defer func() {
		tracing.EndSpan(span, err)
		s.metrics.RecordDocument(format, documentStatus(err))
	}()

	release, err := s.acquire(ctx, id.String())
	if err != nil {
		return invoicedomain.GenerateResponse{}, err
	}
	defer release()

	snap, err := s.repo.LoadSnapshot(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, rentaldomain.ErrNotFound) {
			return invoicedomain.GenerateResponse{}, invoicedomain.ErrInvoiceNotFound
		}
		return invoicedomain.GenerateResponse{}, err
	}

	doc, err := s.compose(ctx, *snap)
	if err != nil {
		return invoicedomain.GenerateResponse{}, err
	}

	start := time.Now()
	content, err := renderer.Render(ctx, doc)
	s.metrics.ObserveRender(format, time.Since(start))
	if err != nil {
		s.log.Error("failed to render invoice document",
			zap.String("invoice_id", id.String()),
			zap.String("format", format),
			zap.Error(err),
		)
		return invoicedomain.GenerateResponse{}, err
	}

	if err = s.repo.SaveTotal(ctx, s.db, id, doc.Total, s.clock.Now()); err != nil {
		s.log.Error("failed to store invoice total",
			zap.String("invoice_id", id.String()),
			zap.Error(err),
		)
		return invoicedomain.GenerateResponse{}, err
	}

	s.log.Info("invoice document generated",
		zap.String("invoice_id", id.String()),
		zap.String("number", doc.Number),
		zap.String("format", format),
		zap.String("total", doc.Total.StringFixed(2)),
	)

	return invoicedomain.GenerateResponse{
		Document:    doc,
		Content:     content,
		ContentType: renderer.ContentType(),
		Filename:    filename(doc, snap.Tenant.Name, format),
	}, nil
}

// Preview composes a document from a caller-supplied snapshot. Nothing is
// stored.
func (s *Service) Preview(ctx context.Context, req invoicedomain.PreviewRequest) (doc invoicedomain.Document, err error) {
	ctx, span := tracing.StartSpan(ctx, "invoice.Preview")
	defer func() { tracing.EndSpan(span, err) }()

	return s.compose(ctx, req.Snapshot)
}

func (s *Service) compose(ctx context.Context, snap rentaldomain.Snapshot) (invoicedomain.Document, error) {
	in, err := snap.TaxInput()
	if err != nil {
		return invoicedomain.Document{}, err
	}

	result, err := s.calculator.Calculate(ctx, in)
	if err != nil {
		return invoicedomain.Document{}, err
	}

	return s.composer.Compose(snap, result)
}

func (s *Service) acquire(ctx context.Context, invoiceID string) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	token, ok, err := s.lock.TryLockInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invoicedomain.ErrGenerationInProgress
	}
	return func() {
		if err := s.lock.ReleaseInvoice(context.WithoutCancel(ctx), invoiceID, token); err != nil {
			s.log.Warn("failed to release invoice lock", zap.String("invoice_id", invoiceID), zap.Error(err))
		}
	}, nil
}

func documentStatus(err error) string {
	var renderErr *render.RenderError
	switch {
	case err == nil:
		return metrics.DocumentStatusOK
	case errors.As(err, &renderErr):
		return metrics.DocumentStatusRenderError
	case errors.Is(err, taxdomain.ErrMissingField),
		errors.Is(err, taxdomain.ErrNegativeAmount),
		errors.Is(err, taxdomain.ErrInvalidPurpose),
		errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		return metrics.DocumentStatusInvalid
	default:
		return metrics.DocumentStatusError
	}
}

func filename(doc invoicedomain.Document, tenant, format string) string {
	return slug.Make("invoice "+doc.Number+" "+tenant) + "." + format
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(raw)
}
