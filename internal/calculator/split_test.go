package calculator

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(Places), msgAndArgs...)
}

func person(id, name string, prices ...string) models.Participant {
	p := models.Participant{ID: id, Name: name}
	for i, price := range prices {
		p.Items = append(p.Items, models.Item{Label: fmt.Sprintf("item-%d", i), Price: d(price)})
	}
	return p
}

func TestResolveCharge(t *testing.T) {
	tests := []struct {
		name   string
		charge models.Charge
		base   string
		want   string
	}{
		{"percent of base", models.Percentage(d("10")), "100", "10.00"},
		{"fractional percent", models.Percentage(d("12.5")), "80", "10.00"},
		{"percent rounds half to even down", models.Percentage(d("1")), "12.5", "0.12"},
		{"percent rounds half to even up", models.Percentage(d("1")), "13.5", "0.14"},
		{"zero percent", models.Percentage(decimal.Zero), "100", "0.00"},
		{"fixed ignores base", models.FixedAmount(d("5")), "100", "5.00"},
		{"fixed with zero base", models.FixedAmount(d("7.25")), "0", "7.25"},
		{"negative percent propagates", models.Percentage(d("-10")), "50", "-5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAmount(t, tt.want, ResolveCharge(tt.charge, d(tt.base)))
		})
	}
}

func TestComputeBreakdown(t *testing.T) {
	tests := []struct {
		name         string
		config       models.BillConfig
		participants []models.Participant
		validate     func(t *testing.T, b *models.Breakdown)
	}{
		{
			name: "proportional tax and service",
			config: models.BillConfig{
				TotalBill: d("100"),
				Tax:       models.Percentage(d("10")),
				Service:   models.Percentage(d("12")),
			},
			participants: []models.Participant{
				person("a", "Alice", "60"),
				person("b", "Bob", "40"),
			},
			validate: func(t *testing.T, b *models.Breakdown) {
				assert.False(t, b.EqualSplit)
				assertAmount(t, "10.00", b.Totals.ComputedTax)
				assertAmount(t, "12.00", b.Totals.ComputedService)
				assertAmount(t, "122.00", b.Totals.GrandTotal)

				require.Len(t, b.Results, 2)
				alice, bob := b.Results[0], b.Results[1]
				assert.Equal(t, "Alice", alice.Person)
				assertAmount(t, "60.00", alice.Subtotal)
				assertAmount(t, "6.00", alice.TaxShare)
				assertAmount(t, "7.20", alice.ServiceShare)
				assertAmount(t, "73.20", alice.TotalDue)

				assert.Equal(t, "Bob", bob.Person)
				assertAmount(t, "40.00", bob.Subtotal)
				assertAmount(t, "4.00", bob.TaxShare)
				assertAmount(t, "4.80", bob.ServiceShare)
				assertAmount(t, "48.80", bob.TotalDue)
			},
		},
		{
			name: "no items - split equally",
			config: models.BillConfig{
				TotalBill: d("50"),
				Tax:       models.FixedAmount(d("5")),
				Service:   models.FixedAmount(decimal.Zero),
			},
			participants: []models.Participant{
				person("a", "Alice"),
				person("b", "Bob"),
			},
			validate: func(t *testing.T, b *models.Breakdown) {
				assert.True(t, b.EqualSplit)
				assertAmount(t, "55.00", b.Totals.GrandTotal)
				for _, r := range b.Results {
					assertAmount(t, "27.50", r.TotalDue, r.Person)
					assertAmount(t, "27.50", r.Subtotal, r.Person)
					assertAmount(t, "2.50", r.TaxShare, r.Person)
					assertAmount(t, "0.00", r.ServiceShare, r.Person)
				}
			},
		},
		{
			name: "no items - single participant pays everything",
			config: models.BillConfig{
				TotalBill: d("42.10"),
				Tax:       models.Percentage(d("8")),
				Service:   models.FixedAmount(d("3")),
			},
			participants: []models.Participant{person("a", "Alice")},
			validate: func(t *testing.T, b *models.Breakdown) {
				assert.True(t, b.EqualSplit)
				require.Len(t, b.Results, 1)
				assert.Equal(t, b.Totals.GrandTotal.String(), b.Results[0].TotalDue.String())
			},
		},
		{
			name: "single participant with items takes all tax and service on top of their items",
			config: models.BillConfig{
				TotalBill: d("73.45"),
				Tax:       models.Percentage(d("7.5")),
				Service:   models.Percentage(d("15")),
			},
			participants: []models.Participant{person("a", "Alice", "20.15", "33.30")},
			validate: func(t *testing.T, b *models.Breakdown) {
				assert.False(t, b.EqualSplit)
				require.Len(t, b.Results, 1)
				assertAmount(t, "53.45", b.Results[0].Subtotal)
				assertAmount(t, b.Totals.ComputedTax.StringFixed(Places), b.Results[0].TaxShare)
				assertAmount(t, b.Totals.ComputedService.StringFixed(Places), b.Results[0].ServiceShare)
				// Items cover less than the bill, so the total due is below the grand total.
				assertAmount(t, "69.98", b.Results[0].TotalDue)
				assertAmount(t, "89.98", b.Totals.GrandTotal)
			},
		},
		{
			name: "single participant whose items equal the bill owes the grand total",
			config: models.BillConfig{
				TotalBill: d("73.45"),
				Tax:       models.Percentage(d("7.5")),
				Service:   models.Percentage(d("15")),
			},
			participants: []models.Participant{person("a", "Alice", "40.15", "33.30")},
			validate: func(t *testing.T, b *models.Breakdown) {
				require.Len(t, b.Results, 1)
				assertAmount(t, "89.98", b.Results[0].TotalDue)
				assert.True(t, b.Results[0].TotalDue.Equal(b.Totals.GrandTotal))
			},
		},
		{
			name: "participant without items owes nothing",
			config: models.BillConfig{
				TotalBill: d("90"),
				Tax:       models.Percentage(d("10")),
				Service:   models.FixedAmount(d("6")),
			},
			participants: []models.Participant{
				person("a", "Alice", "30"),
				person("b", "Bob"),
				person("c", "Charlie", "45", "15"),
			},
			validate: func(t *testing.T, b *models.Breakdown) {
				require.Len(t, b.Results, 3)
				bob := b.Results[1]
				assert.Equal(t, "Bob", bob.Person)
				assertAmount(t, "0.00", bob.Subtotal)
				assertAmount(t, "0.00", bob.TaxShare)
				assertAmount(t, "0.00", bob.ServiceShare)
				assertAmount(t, "0.00", bob.TotalDue)

				// Alice has 1/3 of the item value, Charlie 2/3.
				assertAmount(t, "3.00", b.Results[0].TaxShare)
				assertAmount(t, "2.00", b.Results[0].ServiceShare)
				assertAmount(t, "35.00", b.Results[0].TotalDue)
				assertAmount(t, "6.00", b.Results[2].TaxShare)
				assertAmount(t, "4.00", b.Results[2].ServiceShare)
				assertAmount(t, "70.00", b.Results[2].TotalDue)
			},
		},
		{
			name: "duplicate names stay separate",
			config: models.BillConfig{
				TotalBill: d("30"),
				Tax:       models.Percentage(decimal.Zero),
				Service:   models.Percentage(decimal.Zero),
			},
			participants: []models.Participant{
				person("first", "Sam", "10"),
				person("second", "Sam", "20"),
			},
			validate: func(t *testing.T, b *models.Breakdown) {
				require.Len(t, b.Results, 2)
				assert.Equal(t, "first", b.Results[0].ParticipantID)
				assertAmount(t, "10.00", b.Results[0].TotalDue)
				assert.Equal(t, "second", b.Results[1].ParticipantID)
				assertAmount(t, "20.00", b.Results[1].TotalDue)
			},
		},
		{
			name: "item value need not match the bill base",
			config: models.BillConfig{
				TotalBill: d("100"),
				Tax:       models.Percentage(d("10")),
				Service:   models.Percentage(decimal.Zero),
			},
			participants: []models.Participant{
				person("a", "Alice", "15"),
				person("b", "Bob", "5"),
			},
			validate: func(t *testing.T, b *models.Breakdown) {
				// Tax still comes from the bill base; subtotals come from items.
				assertAmount(t, "15.00", b.Results[0].Subtotal)
				assertAmount(t, "7.50", b.Results[0].TaxShare)
				assertAmount(t, "22.50", b.Results[0].TotalDue)
				assertAmount(t, "2.50", b.Results[1].TaxShare)
				assertAmount(t, "110.00", b.Totals.GrandTotal)
			},
		},
		{
			name: "shares are rounded independently",
			config: models.BillConfig{
				TotalBill: d("10"),
				Tax:       models.FixedAmount(d("1")),
				Service:   models.FixedAmount(decimal.Zero),
			},
			participants: []models.Participant{
				person("a", "A", "1"),
				person("b", "B", "1"),
				person("c", "C", "1"),
			},
			validate: func(t *testing.T, b *models.Breakdown) {
				sum := decimal.Zero
				for _, r := range b.Results {
					assertAmount(t, "0.33", r.TaxShare)
					sum = sum.Add(r.TaxShare)
				}
				// 0.99 against a computed tax of 1.00 is the accepted rounding gap.
				assertAmount(t, "0.99", sum)
				assertAmount(t, "1.00", b.Totals.ComputedTax)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ComputeBreakdown(tt.config, tt.participants)
			require.NoError(t, err)
			tt.validate(t, b)
		})
	}
}

func TestComputeBreakdown_FallbackSubtotal(t *testing.T) {
	config := models.BillConfig{
		TotalBill: d("90"),
		Tax:       models.Percentage(d("10")),
		Service:   models.FixedAmount(d("6")),
	}
	participants := []models.Participant{person("a", "Alice"), person("b", "Bob"), person("c", "Charlie")}

	t.Run("grand total is the default", func(t *testing.T) {
		b, err := ComputeBreakdown(config, participants)
		require.NoError(t, err)
		for _, r := range b.Results {
			assertAmount(t, "35.00", r.Subtotal)
			assertAmount(t, "3.00", r.TaxShare)
			assertAmount(t, "2.00", r.ServiceShare)
			assertAmount(t, "35.00", r.TotalDue)
		}
	})

	t.Run("bill base keeps shares additive", func(t *testing.T) {
		b, err := ComputeBreakdown(config, participants, WithFallbackSubtotal(FallbackBillBase))
		require.NoError(t, err)
		for _, r := range b.Results {
			assertAmount(t, "30.00", r.Subtotal)
			assertAmount(t, "35.00", r.TotalDue)
			assert.True(t, r.Subtotal.Add(r.TaxShare).Add(r.ServiceShare).Equal(r.TotalDue))
		}
	})
}

func TestComputeBreakdown_Validation(t *testing.T) {
	valid := models.BillConfig{
		TotalBill: d("10"),
		Tax:       models.Percentage(d("10")),
		Service:   models.FixedAmount(d("1")),
	}
	roster := []models.Participant{person("a", "Alice", "10")}

	tests := []struct {
		name         string
		config       models.BillConfig
		participants []models.Participant
		wantField    string
	}{
		{
			name:         "zero total bill",
			config:       models.BillConfig{TotalBill: decimal.Zero, Tax: valid.Tax, Service: valid.Service},
			participants: roster,
			wantField:    "total_bill",
		},
		{
			name:         "negative total bill",
			config:       models.BillConfig{TotalBill: d("-1"), Tax: valid.Tax, Service: valid.Service},
			participants: roster,
			wantField:    "total_bill",
		},
		{
			name:         "no participants",
			config:       valid,
			participants: nil,
			wantField:    "participants",
		},
		{
			name:         "blank name",
			config:       valid,
			participants: []models.Participant{person("a", "  ", "1")},
			wantField:    "participants[0].name",
		},
		{
			name:         "negative price",
			config:       valid,
			participants: []models.Participant{person("a", "Alice", "1"), person("b", "Bob", "2", "-3")},
			wantField:    "participants[1].items[1].price",
		},
		{
			name:         "negative tax",
			config:       models.BillConfig{TotalBill: d("10"), Tax: models.Percentage(d("-5")), Service: valid.Service},
			participants: roster,
			wantField:    "tax",
		},
		{
			name:         "negative service",
			config:       models.BillConfig{TotalBill: d("10"), Tax: valid.Tax, Service: models.FixedAmount(d("-0.01"))},
			participants: roster,
			wantField:    "service",
		},
		{
			name:         "missing charge kind",
			config:       models.BillConfig{TotalBill: d("10"), Tax: models.Charge{Value: d("1")}, Service: valid.Service},
			participants: roster,
			wantField:    "tax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ComputeBreakdown(tt.config, tt.participants)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestComputeBreakdown_ValidationMessages(t *testing.T) {
	_, err := ComputeBreakdown(models.BillConfig{
		Tax:     models.Percentage(decimal.Zero),
		Service: models.Percentage(decimal.Zero),
	}, []models.Participant{person("a", "Alice")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total bill must be greater than zero")

	_, err = ComputeBreakdown(models.BillConfig{
		TotalBill: d("1"),
		Tax:       models.Percentage(decimal.Zero),
		Service:   models.Percentage(decimal.Zero),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one participant is required")
}

func TestComputeBreakdown_DoesNotMutateInput(t *testing.T) {
	participants := []models.Participant{person("a", "Alice", "12.345"), person("b", "Bob")}
	before := participants[0].Items[0].Price.String()

	_, err := ComputeBreakdown(models.BillConfig{
		TotalBill: d("12.345"),
		Tax:       models.Percentage(d("10")),
		Service:   models.Percentage(d("10")),
	}, participants)
	require.NoError(t, err)

	assert.Equal(t, before, participants[0].Items[0].Price.String())
	assert.Len(t, participants[1].Items, 0)
}

// Sums of rounded shares stay within half a cent per participant of the totals.
func TestComputeBreakdown_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randAmount := func(max int64) decimal.Decimal {
		return decimal.New(rng.Int63n(max*100), -2)
	}

	for run := 0; run < 200; run++ {
		n := 1 + rng.Intn(6)
		participants := make([]models.Participant, n)
		itemsTotal := decimal.Zero
		for i := range participants {
			participants[i] = models.Participant{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("P%d", i)}
			for j := rng.Intn(4); j > 0; j-- {
				price := randAmount(80)
				itemsTotal = itemsTotal.Add(price)
				participants[i].Items = append(participants[i].Items, models.Item{Label: "x", Price: price})
			}
		}

		config := models.BillConfig{TotalBill: randAmount(500).Add(d("0.01"))}
		if rng.Intn(2) == 0 {
			config.Tax = models.Percentage(randAmount(25))
		} else {
			config.Tax = models.FixedAmount(randAmount(40))
		}
		if rng.Intn(2) == 0 {
			config.Service = models.Percentage(randAmount(20))
		} else {
			config.Service = models.FixedAmount(randAmount(30))
		}

		b, err := ComputeBreakdown(config, participants)
		require.NoError(t, err)

		tax := ResolveCharge(config.Tax, config.TotalBill)
		service := ResolveCharge(config.Service, config.TotalBill)
		assert.True(t, tax.Equal(b.Totals.ComputedTax))
		assert.True(t, service.Equal(b.Totals.ComputedService))
		assert.True(t, Round(config.TotalBill.Add(resolve(config.Tax, config.TotalBill)).Add(resolve(config.Service, config.TotalBill))).Equal(b.Totals.GrandTotal))
		assert.Equal(t, itemsTotal.IsZero(), b.EqualSplit)

		tolerance := d("0.01").Mul(decimal.NewFromInt(int64(n)))
		var subtotals, taxes, services decimal.Decimal
		for _, r := range b.Results {
			subtotals = subtotals.Add(r.Subtotal)
			taxes = taxes.Add(r.TaxShare)
			services = services.Add(r.ServiceShare)
		}
		if !b.EqualSplit {
			assert.True(t, subtotals.Sub(itemsTotal).Abs().LessThanOrEqual(tolerance), "run %d subtotals", run)
		}
		assert.True(t, taxes.Sub(tax).Abs().LessThanOrEqual(tolerance), "run %d tax", run)
		assert.True(t, services.Sub(service).Abs().LessThanOrEqual(tolerance), "run %d service", run)
	}
}
