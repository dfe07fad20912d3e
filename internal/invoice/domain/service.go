package domain

import (
	"context"
	"errors"

	rentaldomain "github.com/smallbiznis/rentflow/internal/rental/domain"
)

type GenerateRequest struct {
	InvoiceID string
	Format    string
}

type GenerateResponse struct {
	Document    Document
	Content     []byte
	ContentType string
	Filename    string
}

type PreviewRequest struct {
	Snapshot rentaldomain.Snapshot
}

type Service interface {
	GenerateDocument(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Preview(ctx context.Context, req PreviewRequest) (Document, error)
}

var (
	ErrInvalidInvoiceID   = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound    = errors.New("invoice_not_found")
	ErrUnsupportedFormat  = errors.New("unsupported_format")
	ErrUnsupportedLocale  = errors.New("unsupported_locale")
	ErrInvalidNumberToken = errors.New("invalid_number_template")

	ErrGenerationInProgress = errors.New("generation_in_progress")
)
