package render

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentflow/internal/clock"
	"github.com/smallbiznis/rentflow/internal/config"
	"github.com/smallbiznis/rentflow/internal/invoice/compose"
	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
	"github.com/smallbiznis/rentflow/internal/rental/rentaltest"
	taxdomain "github.com/smallbiznis/rentflow/internal/taxcase/domain"
	taxservice "github.com/smallbiznis/rentflow/internal/taxcase/service"
	"github.com/stretchr/testify/require"
)

func composeDocument(t *testing.T, localeCode string, opts rentaltest.Options) invoicedomain.Document {
	t.Helper()
	node, err := snowflake.NewNode(5)
	require.NoError(t, err)

	snap := rentaltest.BuildSnapshot(node, opts)
	in, err := snap.TaxInput()
	require.NoError(t, err)
	result, err := taxservice.Compute(in, taxdomain.StatutoryRates())
	require.NoError(t, err)

	composer, err := compose.NewComposer(
		clock.NewFakeClock(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)),
		config.InvoiceConfig{NumberTemplate: "{ID}/{MM}/{YYYY}", Locale: localeCode, Currency: "PLN"},
	)
	require.NoError(t, err)

	doc, err := composer.Compose(snap, result)
	require.NoError(t, err)
	return doc
}
