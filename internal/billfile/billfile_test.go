package billfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/models"
)

func TestParse(t *testing.T) {
	bill, err := Parse(strings.NewReader(`
total_bill: 100
tax:
  percent: 10
service:
  fixed: "12.50"
participants:
  - name: Alice
    items:
      - label: Pizza
        price: 60
      - label: Soda
        price: 0.1
  - name: Alice
  - name: Bob
    items:
      - label: Pasta
        price: 39.90
`))
	require.NoError(t, err)

	assert.Equal(t, "100", bill.Config.TotalBill.String())
	assert.Equal(t, models.ChargePercent, bill.Config.Tax.Kind)
	assert.Equal(t, "10", bill.Config.Tax.Value.String())
	assert.Equal(t, models.ChargeFixed, bill.Config.Service.Kind)
	assert.Equal(t, "12.5", bill.Config.Service.Value.String())

	require.Len(t, bill.Participants, 3)
	assert.Equal(t, "Alice", bill.Participants[0].Name)
	assert.Equal(t, "Alice", bill.Participants[1].Name)
	assert.NotEqual(t, bill.Participants[0].ID, bill.Participants[1].ID)
	require.Len(t, bill.Participants[0].Items, 2)
	assert.Equal(t, "0.1", bill.Participants[0].Items[1].Price.String())
	assert.Empty(t, bill.Participants[1].Items)
	assert.Equal(t, "39.9", bill.Participants[2].Items[0].Price.String())
}

func TestParse_DefaultsChargesToZeroPercent(t *testing.T) {
	bill, err := Parse(strings.NewReader("total_bill: 10\nparticipants:\n  - name: Solo\n"))
	require.NoError(t, err)
	assert.Equal(t, models.ChargePercent, bill.Config.Tax.Kind)
	assert.True(t, bill.Config.Tax.Value.IsZero())
	assert.Equal(t, models.ChargePercent, bill.Config.Service.Kind)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"both variants", "total_bill: 1\ntax:\n  percent: 1\n  fixed: 2\n", "exactly one"},
		{"no variant", "total_bill: 1\nservice: {}\n", "exactly one"},
		{"bad amount", "total_bill: ten\n", "invalid amount"},
		{"unknown field", "total: 1\n", "total"},
		{"amount is a list", "total_bill: [1]\n", "expected an amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.yaml")
	require.NoError(t, os.WriteFile(path, []byte("total_bill: 5\nparticipants:\n  - name: A\n"), 0644))

	bill, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, bill.Participants, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
