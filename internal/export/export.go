// Package export renders a calculated breakdown as CSV or as copy-friendly text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// Format names an export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case "", FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown export format: %q", s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "text/plain"
}

// Filename is the suggested download name for CSV exports.
const Filename = "bill_splitter_breakdown.csv"

var header = []string{"Person", "Subtotal", "Tax Share", "Service Share", "Total Due"}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// WriteCSV writes one row per result under a Person/Subtotal/Tax Share/Service Share/Total Due header.
func WriteCSV(w io.Writer, b *models.Breakdown) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range b.Results {
		row := []string{r.Person, money(r.Subtotal), money(r.TaxShare), money(r.ServiceShare), money(r.TotalDue)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Person, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// Summary returns one line per person:
//
//	Alice: 73.20 (Subtotal 60.00 + Tax 6.00 + Service 7.20)
func Summary(b *models.Breakdown) string {
	lines := make([]string, len(b.Results))
	for i, r := range b.Results {
		lines[i] = fmt.Sprintf("%s: %s (Subtotal %s + Tax %s + Service %s)",
			r.Person, money(r.TotalDue), money(r.Subtotal), money(r.TaxShare), money(r.ServiceShare))
	}
	return strings.Join(lines, "\n")
}

// GrandTotalLine formats the bill's grand total.
func GrandTotalLine(t models.BillTotals) string {
	return fmt.Sprintf("Grand Total (bill + tax + service): %s", money(t.GrandTotal))
}

// Write renders b in the given format.
func Write(w io.Writer, f Format, b *models.Breakdown) error {
	if f == FormatCSV {
		return WriteCSV(w, b)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", Summary(b), GrandTotalLine(b.Totals))
	return err
}
