package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DocumentStatusOK          = "ok"
	DocumentStatusInvalid     = "invalid"
	DocumentStatusRenderError = "render_error"
	DocumentStatusError       = "error"
)

// InvoiceMetrics captures invoice pricing and document generation signals.
type InvoiceMetrics struct {
	documents      *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	unmatchedRules *prometheus.CounterVec
}

var (
	invoiceMetricsOnce sync.Once
	invoiceMetrics     *InvoiceMetrics
)

// Invoice returns the process-wide invoice metrics registered on the default registerer.
func Invoice(cfg Config) *InvoiceMetrics {
	invoiceMetricsOnce.Do(func() {
		invoiceMetrics = NewInvoiceMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return invoiceMetrics
}

// NewInvoiceMetrics registers the invoice collectors on registerer.
func NewInvoiceMetrics(registerer prometheus.Registerer, cfg Config) *InvoiceMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "rentflow"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	documents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "rentflow_invoice_documents_total",
		Help:        "Invoice documents generated by output format and outcome.",
		ConstLabels: constLabels,
	}, []string{"format", "status"})
	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "rentflow_invoice_render_duration_seconds",
		Help:        "Time spent turning a composed invoice document into bytes.",
		Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		ConstLabels: constLabels,
	}, []string{"format"})
	unmatchedRules := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "rentflow_tax_rule_unmatched_total",
		Help:        "Invoices priced with statutory defaults because no VAT rule covers the party/purpose combination.",
		ConstLabels: constLabels,
	}, []string{"landlord", "tenant", "purpose"})

	documents = registerCounterVec(registerer, documents)
	renderDuration = registerHistogramVec(registerer, renderDuration)
	unmatchedRules = registerCounterVec(registerer, unmatchedRules)

	return &InvoiceMetrics{
		documents:      documents,
		renderDuration: renderDuration,
		unmatchedRules: unmatchedRules,
	}
}

// RecordDocument counts one generation attempt.
func (m *InvoiceMetrics) RecordDocument(format, status string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(normalizeLabel(format), normalizeLabel(status)).Inc()
}

// ObserveRender records how long a renderer took.
func (m *InvoiceMetrics) ObserveRender(format string, d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(normalizeLabel(format)).Observe(d.Seconds())
}

// RecordUnmatchedTaxRule counts a VAT case that fell back to statutory defaults.
func (m *InvoiceMetrics) RecordUnmatchedTaxRule(landlord, tenant, purpose string) {
	if m == nil {
		return
	}
	m.unmatchedRules.WithLabelValues(normalizeLabel(landlord), normalizeLabel(tenant), normalizeLabel(purpose)).Inc()
}

func registerCounterVec(registerer prometheus.Registerer, vec *prometheus.CounterVec) *prometheus.CounterVec {
	if err := registerer.Register(vec); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return vec
}

func registerHistogramVec(registerer prometheus.Registerer, vec *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := registerer.Register(vec); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
	}
	return vec
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
