package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
)

const DefaultInvoiceNumberTemplate = "{ID}/{MM}/{YYYY}"

// FormatInvoiceNumber renders an invoice number from a template, the
// invoice's creation time and its identifier. The same invoice always gets
// the same number, whenever it is rendered.
func FormatInvoiceNumber(
	template string,
	createdAt time.Time,
	id int64,
) (string, error) {

	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("%w: empty template", invoicedomain.ErrInvalidNumberToken)
	}

	if id <= 0 {
		return "", fmt.Errorf("%w: invalid invoice id %d", invoicedomain.ErrInvalidNumberToken, id)
	}

	out := template

	out = strings.ReplaceAll(out, "{ID}", strconv.FormatInt(id, 10))

	out = strings.ReplaceAll(out, "{YYYY}", createdAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", createdAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", createdAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", createdAt.Format("02"))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		return fmt.Sprintf("%0*d", width, id)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("%w: unresolved token in %q", invoicedomain.ErrInvalidNumberToken, out)
	}

	return out, nil
}
