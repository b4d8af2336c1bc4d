package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleBreakdown() *models.Breakdown {
	return &models.Breakdown{
		Results: []models.AllocationResult{
			{ParticipantID: "a", Person: "Alice", Subtotal: d("60"), TaxShare: d("6"), ServiceShare: d("7.2"), TotalDue: d("73.2")},
			{ParticipantID: "b", Person: "Bob, Jr.", Subtotal: d("40"), TaxShare: d("4"), ServiceShare: d("4.8"), TotalDue: d("48.8")},
		},
		Totals: models.BillTotals{ComputedTax: d("10"), ComputedService: d("12"), GrandTotal: d("122")},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleBreakdown()))

	want := "Person,Subtotal,Tax Share,Service Share,Total Due\n" +
		"Alice,60.00,6.00,7.20,73.20\n" +
		"\"Bob, Jr.\",40.00,4.00,4.80,48.80\n"
	assert.Equal(t, want, buf.String())
}

func TestSummary(t *testing.T) {
	want := "Alice: 73.20 (Subtotal 60.00 + Tax 6.00 + Service 7.20)\n" +
		"Bob, Jr.: 48.80 (Subtotal 40.00 + Tax 4.00 + Service 4.80)"
	assert.Equal(t, want, Summary(sampleBreakdown()))
	assert.Equal(t, "", Summary(&models.Breakdown{}))
}

func TestGrandTotalLine(t *testing.T) {
	assert.Equal(t, "Grand Total (bill + tax + service): 122.00", GrandTotalLine(sampleBreakdown().Totals))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleBreakdown()))
	assert.Contains(t, buf.String(), "Alice: 73.20")
	assert.Contains(t, buf.String(), "Grand Total (bill + tax + service): 122.00\n")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" CSV ", FormatCSV, false},
		{"text", FormatText, false},
		{"", FormatText, false},
		{"xlsx", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "text/plain", FormatText.ContentType())
}
