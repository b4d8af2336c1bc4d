package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// Places is the number of decimal places every monetary output is rounded to.
const Places = 2

var hundred = decimal.NewFromInt(100)

// FallbackSubtotal selects what Subtotal means in the equal-split fallback.
type FallbackSubtotal string

const (
	// FallbackGrandTotal reports each person's equal share of the grand total
	// as their subtotal, so Subtotal == TotalDue in the fallback.
	FallbackGrandTotal FallbackSubtotal = "grand_total"

	// FallbackBillBase reports TotalBill/n as the subtotal, keeping
	// Subtotal + TaxShare + ServiceShare == TotalDue as in the itemized branch.
	FallbackBillBase FallbackSubtotal = "bill_base"
)

// ParseFallbackSubtotal parses a FallbackSubtotal name. Empty means FallbackGrandTotal.
func ParseFallbackSubtotal(s string) (FallbackSubtotal, error) {
	switch FallbackSubtotal(strings.ToLower(strings.TrimSpace(s))) {
	case "", FallbackGrandTotal:
		return FallbackGrandTotal, nil
	case FallbackBillBase:
		return FallbackBillBase, nil
	default:
		return "", fmt.Errorf("unknown fallback subtotal mode: %q", s)
	}
}

type options struct {
	fallback FallbackSubtotal
}

// Option configures ComputeBreakdown.
type Option func(*options)

// WithFallbackSubtotal sets the subtotal semantics of the equal-split fallback.
func WithFallbackSubtotal(mode FallbackSubtotal) Option {
	return func(o *options) {
		if mode != "" {
			o.fallback = mode
		}
	}
}

// Round rounds a monetary amount to Places using round-half-even.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Places)
}

// ResolveCharge resolves a tax or service charge against the bill base.
// Percentages give base * p / 100; fixed amounts are returned as-is.
// Negative values are not rejected here and simply give negative amounts.
func ResolveCharge(charge models.Charge, base decimal.Decimal) decimal.Decimal {
	return Round(resolve(charge, base))
}

func resolve(charge models.Charge, base decimal.Decimal) decimal.Decimal {
	if charge.Kind == models.ChargeFixed {
		return charge.Value
	}
	return base.Mul(charge.Value).Div(hundred)
}

// ComputeBreakdown splits a bill among participants.
//
// When at least one item is priced, each participant pays their item subtotal
// plus tax and service in proportion to subtotal / total item value. When no
// one has priced items, the grand total is split evenly. Every output amount
// is rounded independently, so the rounded shares may differ from the rounded
// totals by up to half a cent per participant.
func ComputeBreakdown(config models.BillConfig, participants []models.Participant, opts ...Option) (*models.Breakdown, error) {
	o := options{fallback: FallbackGrandTotal}
	for _, opt := range opts {
		opt(&o)
	}

	if err := Validate(config, participants); err != nil {
		return nil, err
	}

	subtotals := make([]decimal.Decimal, len(participants))
	totalItemsValue := decimal.Zero
	for i, p := range participants {
		subtotals[i] = p.ItemSubtotal()
		totalItemsValue = totalItemsValue.Add(subtotals[i])
	}

	tax := resolve(config.Tax, config.TotalBill)
	service := resolve(config.Service, config.TotalBill)
	grandTotal := config.TotalBill.Add(tax).Add(service)

	breakdown := &models.Breakdown{
		Results: make([]models.AllocationResult, len(participants)),
		Totals: models.BillTotals{
			ComputedTax:     Round(tax),
			ComputedService: Round(service),
			GrandTotal:      Round(grandTotal),
		},
	}

	// No priced items anywhere: split evenly.
	if totalItemsValue.IsZero() {
		breakdown.EqualSplit = true
		n := decimal.NewFromInt(int64(len(participants)))
		subtotal := grandTotal.Div(n)
		if o.fallback == FallbackBillBase {
			subtotal = config.TotalBill.Div(n)
		}
		for i, p := range participants {
			breakdown.Results[i] = models.AllocationResult{
				ParticipantID: p.ID,
				Person:        p.Name,
				Subtotal:      Round(subtotal),
				TaxShare:      Round(tax.Div(n)),
				ServiceShare:  Round(service.Div(n)),
				TotalDue:      Round(grandTotal.Div(n)),
			}
		}
		return breakdown, nil
	}

	for i, p := range participants {
		ratio := subtotals[i].Div(totalItemsValue)
		taxShare := ratio.Mul(tax)
		serviceShare := ratio.Mul(service)
		breakdown.Results[i] = models.AllocationResult{
			ParticipantID: p.ID,
			Person:        p.Name,
			Subtotal:      Round(subtotals[i]),
			TaxShare:      Round(taxShare),
			ServiceShare:  Round(serviceShare),
			TotalDue:      Round(subtotals[i].Add(taxShare).Add(serviceShare)),
		}
	}

	return breakdown, nil
}

// Validate checks the inputs ComputeBreakdown requires.
func Validate(config models.BillConfig, participants []models.Participant) error {
	if !config.TotalBill.IsPositive() {
		return invalid("total_bill", "total bill must be greater than zero")
	}
	if err := validateCharge("tax", config.Tax); err != nil {
		return err
	}
	if err := validateCharge("service", config.Service); err != nil {
		return err
	}
	if len(participants) == 0 {
		return invalid("participants", "at least one participant is required")
	}
	for i, p := range participants {
		if strings.TrimSpace(p.Name) == "" {
			return invalid(fmt.Sprintf("participants[%d].name", i), "participant name is required")
		}
		for j, it := range p.Items {
			if it.Price.IsNegative() {
				return invalid(fmt.Sprintf("participants[%d].items[%d].price", i, j), "price cannot be negative")
			}
		}
	}
	return nil
}

func validateCharge(field string, c models.Charge) error {
	switch c.Kind {
	case models.ChargePercent, models.ChargeFixed:
	default:
		return invalid(field, "unknown charge kind %q", c.Kind)
	}
	if c.Value.IsNegative() {
		return invalid(field, "%s cannot be negative", field)
	}
	return nil
}
