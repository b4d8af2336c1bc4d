package models

import "github.com/shopspring/decimal"

// ChargeKind selects how a Charge is resolved against the bill base.
type ChargeKind string

const (
	// ChargePercent resolves to base * value / 100.
	ChargePercent ChargeKind = "percent"
	// ChargeFixed resolves to value, independent of the base.
	ChargeFixed ChargeKind = "fixed"
)

// Charge is a tax or service charge.
type Charge struct {
	Kind  ChargeKind
	Value decimal.Decimal
}

// Percentage returns a charge of p percent of the bill base.
func Percentage(p decimal.Decimal) Charge {
	return Charge{Kind: ChargePercent, Value: p}
}

// FixedAmount returns a charge of exactly a, whatever the bill base is.
func FixedAmount(a decimal.Decimal) Charge {
	return Charge{Kind: ChargeFixed, Value: a}
}

// BillConfig holds the bill-level inputs of a split.
type BillConfig struct {
	// TotalBill is the pre-tax, pre-service amount for the whole group.
	TotalBill decimal.Decimal

	// Tax is resolved against TotalBill.
	Tax Charge

	// Service is resolved against TotalBill, independently of Tax.
	Service Charge
}

// Item is a single line item owned entirely by one participant.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Label is the item description (e.g., "Pizza").
	Label string

	// Price is the pre-tax price of the item.
	Price decimal.Decimal
}

// Participant is one person splitting the bill.
type Participant struct {
	// ID is assigned when the participant is created and never changes.
	// Results are aggregated by ID so two people named "Alex" stay separate.
	ID string

	// Name is the display name. It is not required to be unique.
	Name string

	// Items are the participant's items, in the order they were added.
	Items []Item
}

// ItemSubtotal returns the sum of the participant's item prices.
func (p Participant) ItemSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range p.Items {
		sum = sum.Add(it.Price)
	}
	return sum
}

// AllocationResult is one participant's calculated share of a bill.
type AllocationResult struct {
	ParticipantID string

	// Person is the participant's display name.
	Person string

	// Subtotal is the sum of the participant's items. In the equal-split
	// fallback it is the per-person share of the grand total instead
	// (see calculator.FallbackGrandTotal).
	Subtotal decimal.Decimal

	// TaxShare is the participant's portion of the resolved tax.
	TaxShare decimal.Decimal

	// ServiceShare is the participant's portion of the resolved service charge.
	ServiceShare decimal.Decimal

	// TotalDue is what the participant owes.
	TotalDue decimal.Decimal
}

// BillTotals holds the resolved bill-level amounts.
type BillTotals struct {
	ComputedTax     decimal.Decimal
	ComputedService decimal.Decimal

	// GrandTotal is TotalBill + ComputedTax + ComputedService.
	GrandTotal decimal.Decimal
}

// Breakdown is the output of a split calculation.
type Breakdown struct {
	// Results follow roster order.
	Results []AllocationResult

	Totals BillTotals

	// EqualSplit reports that no items were priced and the bill was
	// divided evenly instead of proportionally.
	EqualSplit bool
}

// Transfer is a payment one participant owes another to settle a bill.
type Transfer struct {
	FromID   string
	FromName string
	ToID     string
	ToName   string
	Amount   decimal.Decimal
}
